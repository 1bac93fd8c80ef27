// Package store provides Postgres-backed persistence for submissions,
// payments, and scraped website content.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("record not found")

// WebsiteContentRecord is one persisted scrape result. Content and Analysis
// are stored as opaque JSON blobs.
type WebsiteContentRecord struct {
	WebsiteURL  string
	WebsiteName string
	UserID      string
	Content     []byte
	Analysis    []byte
	SnapshotURI string
	CreatedAt   time.Time
}

// Submission is one row of the product_submissions table.
type Submission struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	WebsiteURL  string    `json:"websiteUrl"`
	WebsiteName string    `json:"websiteName"`
	Email       string    `json:"email"`
	Status      string    `json:"status"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// User is one row of the users table.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Payment is one row of the payments table.
type Payment struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	SubmissionID string    `json:"submissionId"`
	Amount       int64     `json:"amount"`
	Status       string    `json:"status"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
