// Package notification resolves recipients and writes notification rows
// for application events. Both entry points are best-effort from the
// submitter's point of view: callers log failures and move on.
package notification

import (
	"context"
	"errors"
	"fmt"

	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
	"jobboard/internal/common/metrics"
	"jobboard/internal/models"
	"jobboard/internal/realtime"
	"jobboard/internal/store"
)

type JobGetter interface {
	GetByID(ctx context.Context, id string) (*models.Job, error)
}

type AdminFinder interface {
	FirstAdmin(ctx context.Context) (*models.Profile, error)
}

type Store interface {
	Create(ctx context.Context, n *models.Notification) error
	LatestStatusChange(ctx context.Context, applicationID, userID string) (*models.Notification, error)
}

type Publisher interface {
	Publish(ctx context.Context, kind realtime.EventKind, n *models.Notification) error
}

// Sender mirrors a staff notification to an outbound channel (email/SMS).
// Optional; fan-out works without one.
type Sender interface {
	Deliver(ctx context.Context, recipientID string, n *models.Notification) error
}

type Fanout struct {
	jobs          JobGetter
	admins        AdminFinder
	notifications Store
	publisher     Publisher
	sender        Sender
	logger        logger.Logger
}

func NewFanout(jobs JobGetter, admins AdminFinder, notifications Store, publisher Publisher, sender Sender, log logger.Logger) *Fanout {
	return &Fanout{
		jobs:          jobs,
		admins:        admins,
		notifications: notifications,
		publisher:     publisher,
		sender:        sender,
		logger:        log.WithFields(map[string]interface{}{"component": "notification-fanout"}),
	}
}

// ApplicationSubmitted writes exactly one staff notification for a new
// application. Recipient priority: the posting's owner, then the first
// admin account, else NoRecipientAvailable.
func (f *Fanout) ApplicationSubmitted(ctx context.Context, app *models.Application) error {
	job, err := f.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NewNotFoundError("job", app.JobID)
		}
		return fmt.Errorf("fetch job %s: %w", app.JobID, err)
	}

	jobTitle := job.Title
	if jobTitle == "" {
		jobTitle = "Poste non spécifié"
	}

	recipientID := job.CreatedBy
	if recipientID == "" {
		admin, err := f.admins.FirstAdmin(ctx)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperrors.NewNoRecipientAvailableError(app.JobID)
			}
			return fmt.Errorf("find fallback admin: %w", err)
		}
		recipientID = admin.ID
		f.logger.Debug("using fallback admin recipient", map[string]interface{}{
			"adminId": recipientID,
		})
	}

	n := &models.Notification{
		Message:       fmt.Sprintf("%s %s a postulé pour le poste %q", app.FirstName, app.LastName, jobTitle),
		AdminID:       recipientID,
		ApplicationID: app.ID,
		Type:          models.TypeNewApplication,
		Status:        models.StatusPending,
	}
	if err := f.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	metrics.NotificationsCreated.WithLabelValues(models.TypeNewApplication).Inc()

	f.publish(ctx, n)
	f.deliver(ctx, recipientID, n)

	f.logger.Info("application notification created", map[string]interface{}{
		"notificationId": n.ID,
		"applicationId":  app.ID,
		"recipientId":    recipientID,
	})
	return nil
}

// publish and deliver are best-effort side channels of the durable row.
func (f *Fanout) publish(ctx context.Context, n *models.Notification) {
	if f.publisher == nil {
		return
	}
	if err := f.publisher.Publish(ctx, realtime.KindInsert, n); err != nil {
		f.logger.Warn("realtime publish failed", map[string]interface{}{
			"notificationId": n.ID,
			"error":          err,
		})
	}
}

func (f *Fanout) deliver(ctx context.Context, recipientID string, n *models.Notification) {
	if f.sender == nil {
		return
	}
	if err := f.sender.Deliver(ctx, recipientID, n); err != nil {
		f.logger.Warn("outbound delivery failed", map[string]interface{}{
			"notificationId": n.ID,
			"recipientId":    recipientID,
			"error":          err,
		})
	}
}
