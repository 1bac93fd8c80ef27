// Package events publishes submission lifecycle notifications.
package events

import (
	"context"
	"time"
)

// Event describes one submission state change.
type Event struct {
	Type         string    `json:"type"`
	SubmissionID string    `json:"submissionId"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// TypeStatusChanged is emitted after a submission status update commits.
const TypeStatusChanged = "submission.status_changed"

// Publisher delivers events to an external consumer. Publish failures are
// always tolerated by callers; events are advisory.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoOpPublisher discards all events. Used when no broker is configured.
type NoOpPublisher struct{}

// Publish does nothing.
func (NoOpPublisher) Publish(context.Context, Event) error { return nil }

// Close does nothing.
func (NoOpPublisher) Close() error { return nil }
