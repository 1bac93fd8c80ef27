package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/launchdir/directory-service/internal/clock"
	"github.com/launchdir/directory-service/internal/events"
	"github.com/launchdir/directory-service/internal/metrics"
	"github.com/launchdir/directory-service/internal/store"
)

// SubmissionStore is the slice of the store the dispatcher needs.
type SubmissionStore interface {
	UpdateSubmissionStatus(ctx context.Context, id, status string, now time.Time) (store.Submission, error)
}

// Dispatcher updates submission statuses and sends the matching notification
// email when one is registered for the new status.
type Dispatcher struct {
	store     SubmissionStore
	sender    Sender
	registry  *Registry
	publisher events.Publisher
	clock     clock.Clock
	logger    *zap.Logger
}

func NewDispatcher(st SubmissionStore, sender Sender, registry *Registry, publisher events.Publisher, clk clock.Clock, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NoOpPublisher{}
	}
	return &Dispatcher{
		store:     st,
		sender:    sender,
		registry:  registry,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
	}
}

// UpdateStatus persists the new status and then attempts the side effects.
// Store failure is surfaced; event publish and email failures are logged and
// swallowed so the status change itself always reports success. A status with
// no registered template sends nothing, and a submission without an email
// address is a warning, not an error.
func (d *Dispatcher) UpdateStatus(ctx context.Context, submissionID, newStatus string) (store.Submission, error) {
	now := d.clock.Now()
	sub, err := d.store.UpdateSubmissionStatus(ctx, submissionID, newStatus, now)
	if err != nil {
		return store.Submission{}, fmt.Errorf("update submission %s status: %w", submissionID, err)
	}

	ev := events.Event{
		Type:         events.TypeStatusChanged,
		SubmissionID: sub.ID,
		Status:       newStatus,
		OccurredAt:   now,
	}
	if err := d.publisher.Publish(ctx, ev); err != nil {
		d.logger.Warn("status event publish failed",
			zap.String("submission_id", sub.ID),
			zap.String("status", newStatus),
			zap.Error(err))
	}

	if !d.registry.Has(newStatus) {
		d.logger.Debug("no email template for status",
			zap.String("status", newStatus))
		return sub, nil
	}
	if sub.Email == "" {
		d.logger.Warn("submission has no email address, skipping notification",
			zap.String("submission_id", sub.ID),
			zap.String("status", newStatus))
		return sub, nil
	}

	data := TemplateData{
		WebsiteName: sub.WebsiteName,
		WebsiteURL:  sub.WebsiteURL,
	}
	if err := d.Send(ctx, newStatus, sub.Email, data); err != nil {
		d.logger.Warn("status notification email failed",
			zap.String("submission_id", sub.ID),
			zap.String("status", newStatus),
			zap.Error(err))
	}
	return sub, nil
}

// Send renders a named template and delivers it. Unlike UpdateStatus it
// surfaces failures, since the endpoint-driven mails report them to the
// caller.
func (d *Dispatcher) Send(ctx context.Context, templateName, to string, data TemplateData) error {
	subject, body, err := d.registry.Render(templateName, data)
	if err != nil {
		metrics.IncEmail(templateName, "error")
		return err
	}
	if err := d.sender.Send(ctx, to, subject, body); err != nil {
		metrics.IncEmail(templateName, "error")
		return err
	}
	metrics.IncEmail(templateName, "sent")
	d.logger.Info("email sent",
		zap.String("template", templateName),
		zap.String("to", to))
	return nil
}
