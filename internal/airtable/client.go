// Package airtable adapts the hosted spreadsheet API to the sync destination
// contract.
package airtable

import (
	"context"
	"fmt"
	"strings"

	airtableapi "github.com/mehanizm/airtable"
)

// Client wraps one Airtable base.
type Client struct {
	api    *airtableapi.Client
	baseID string
}

// New builds a Client for the given base.
func New(apiKey, baseID string) (*Client, error) {
	if apiKey == "" || baseID == "" {
		return nil, fmt.Errorf("airtable api key and base id are required")
	}
	return &Client{api: airtableapi.NewClient(apiKey), baseID: baseID}, nil
}

// FindByKey looks up the record whose key field exactly matches value and
// returns its record ID. The SDK carries no context support, so ctx is only
// honored up front.
func (c *Client) FindByKey(ctx context.Context, table, keyField, value string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	formula := fmt.Sprintf("{%s} = '%s'", keyField, escapeFormulaValue(value))
	records, err := c.api.GetTable(c.baseID, table).GetRecords().
		WithFilterFormula(formula).
		MaxRecords(1).
		Do()
	if err != nil {
		return "", false, fmt.Errorf("airtable lookup %s.%s: %w", table, keyField, err)
	}
	if len(records.Records) == 0 {
		return "", false, nil
	}
	return records.Records[0].ID, true, nil
}

// Create inserts one record.
func (c *Client) Create(ctx context.Context, table string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.api.GetTable(c.baseID, table).AddRecords(&airtableapi.Records{
		Records: []*airtableapi.Record{{Fields: fields}},
	})
	if err != nil {
		return fmt.Errorf("airtable create in %s: %w", table, err)
	}
	return nil
}

// Update overwrites the mirrored fields of an existing record.
func (c *Client) Update(ctx context.Context, table, recordID string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.api.GetTable(c.baseID, table).UpdateRecords(&airtableapi.Records{
		Records: []*airtableapi.Record{{ID: recordID, Fields: fields}},
	})
	if err != nil {
		return fmt.Errorf("airtable update %s/%s: %w", table, recordID, err)
	}
	return nil
}

// escapeFormulaValue keeps user-derived values from breaking out of the
// single-quoted formula literal.
func escapeFormulaValue(v string) string {
	return strings.ReplaceAll(v, "'", `\'`)
}
