// Package sync reconciles rows from the relational store into the hosted
// spreadsheet mirror.
package sync

// Mapping describes one source table mirrored to one destination table.
// Mappings are defined once at process start and read-only thereafter.
type Mapping struct {
	Name        string
	SourceTable string
	DestTable   string
	KeyField    string
	Fields      []string
}

// DefaultMappings returns the tables mirrored by this service.
func DefaultMappings() []Mapping {
	return []Mapping{
		{
			Name:        "product_submissions",
			SourceTable: "product_submissions",
			DestTable:   "Product Submissions",
			KeyField:    "id",
			Fields:      []string{"id", "user_id", "website_url", "website_name", "email", "status", "updated_at"},
		},
		{
			Name:        "payments",
			SourceTable: "payments",
			DestTable:   "Payments",
			KeyField:    "id",
			Fields:      []string{"id", "user_id", "submission_id", "amount", "status", "updated_at"},
		},
	}
}
