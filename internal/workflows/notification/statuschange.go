package notification

import (
	"context"
	"fmt"

	"jobboard/internal/common/metrics"
	"jobboard/internal/models"
)

// statusMessages maps each known status to the applicant-facing message.
var statusMessages = map[string]string{
	models.StatusPending:     "Votre candidature est en attente d'examen",
	models.StatusUnderReview: "Votre candidature est en cours d'examen",
	models.StatusAccepted:    "Félicitations ! Votre candidature a été acceptée",
	models.StatusRejected:    "Votre candidature n'a malheureusement pas été retenue",
}

// StatusChanged writes one applicant notification for a status change.
// Calling it twice with the same target status inserts only one row: the
// most recent status_change notification for the pair is checked first.
func (f *Fanout) StatusChanged(ctx context.Context, app *models.Application, newStatus string) error {
	last, err := f.notifications.LatestStatusChange(ctx, app.ID, app.UserID)
	if err != nil {
		// Dedupe is best-effort; fall through to the insert.
		f.logger.Warn("latest status-change lookup failed", map[string]interface{}{
			"applicationId": app.ID,
			"error":         err,
		})
	}
	if last != nil && last.Status == newStatus {
		metrics.NotificationsSuppressed.Inc()
		f.logger.Debug("duplicate status notification suppressed", map[string]interface{}{
			"applicationId": app.ID,
			"status":        newStatus,
		})
		return nil
	}

	message, ok := statusMessages[newStatus]
	if !ok {
		message = fmt.Sprintf("Le statut de votre candidature a été mis à jour: %s", newStatus)
	}

	n := &models.Notification{
		Message:       message,
		UserID:        app.UserID,
		ApplicationID: app.ID,
		Type:          models.TypeStatusChange,
		Status:        newStatus,
	}
	if err := f.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("create status notification: %w", err)
	}
	metrics.NotificationsCreated.WithLabelValues(models.TypeStatusChange).Inc()

	f.publish(ctx, n)

	f.logger.Info("status notification created", map[string]interface{}{
		"notificationId": n.ID,
		"applicationId":  app.ID,
		"status":         newStatus,
	})
	return nil
}
