package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/models"
)

type NotificationStore struct {
	db *sql.DB

	// Read notifications older than this window are filtered from active
	// queries; rows are never physically deleted.
	readRetention time.Duration
	readListLimit int
}

func NewNotificationStore(db *sql.DB, readRetentionDays, readListLimit int) *NotificationStore {
	if readRetentionDays <= 0 {
		readRetentionDays = 30
	}
	if readListLimit <= 0 {
		readListLimit = 50
	}
	return &NotificationStore{
		db:            db,
		readRetention: time.Duration(readRetentionDays) * 24 * time.Hour,
		readListLimit: readListLimit,
	}
}

const notificationColumns = `id, message, admin_id, user_id, application_id,
	notification_type, status, is_read, read_at, created_at`

func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now().UTC()
	n.IsRead = false

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (
			id, message, admin_id, user_id, application_id,
			notification_type, status, is_read, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		n.ID,
		n.Message,
		nullIfEmpty(n.AdminID),
		nullIfEmpty(n.UserID),
		nullIfEmpty(n.ApplicationID),
		n.Type,
		nullIfEmpty(n.Status),
		n.IsRead,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// LatestStatusChange returns the most recent status_change notification for
// the application+applicant pair, or nil if none exists.
func (s *NotificationStore) LatestStatusChange(ctx context.Context, applicationID, userID string) (*models.Notification, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE application_id = $1 AND user_id = $2 AND notification_type = $3
		ORDER BY created_at DESC
		LIMIT 1`,
		applicationID, userID, models.TypeStatusChange)

	n, err := scanNotification(row)
	if err == ErrNotFound {
		return nil, nil
	}
	return n, err
}

// ListForRecipient returns all unread notifications plus read ones whose
// read_at falls inside the retention window, newest first.
func (s *NotificationStore) ListForRecipient(ctx context.Context, recipientID string, isAdmin bool) ([]*models.Notification, error) {
	column := recipientColumn(isAdmin)
	cutoff := time.Now().UTC().Add(-s.readRetention)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE `+column+` = $1 AND is_read = false
		ORDER BY created_at DESC`,
		recipientID)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	unread, err := collectNotifications(rows)
	if err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE `+column+` = $1 AND is_read = true AND read_at >= $2
		ORDER BY created_at DESC
		LIMIT $3`,
		recipientID, cutoff, s.readListLimit)
	if err != nil {
		return nil, fmt.Errorf("list read notifications: %w", err)
	}
	read, err := collectNotifications(rows)
	if err != nil {
		return nil, err
	}

	return mergeByCreatedAt(unread, read), nil
}

// CountUnread recomputes the unread counter from rows.
func (s *NotificationStore) CountUnread(ctx context.Context, recipientID string, isAdmin bool) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE `+recipientColumn(isAdmin)+` = $1 AND is_read = false`,
		recipientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags a single notification read and stamps read_at. The
// recipient filter keeps one user from touching another's rows.
func (s *NotificationStore) MarkRead(ctx context.Context, id, recipientID string, isAdmin bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true, read_at = $2 WHERE id = $1 AND `+recipientColumn(isAdmin)+` = $3`,
		id, time.Now().UTC(), recipientID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return requireRow(res)
}

// MarkAllRead flags every unread notification for the recipient.
func (s *NotificationStore) MarkAllRead(ctx context.Context, recipientID string, isAdmin bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true, read_at = $2 WHERE `+recipientColumn(isAdmin)+` = $1 AND is_read = false`,
		recipientID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

func recipientColumn(isAdmin bool) string {
	if isAdmin {
		return "admin_id"
	}
	return "user_id"
}

func scanNotification(row rowScanner) (*models.Notification, error) {
	var n models.Notification
	var adminID, userID, applicationID, status sql.NullString
	var readAt sql.NullTime
	err := row.Scan(
		&n.ID,
		&n.Message,
		&adminID,
		&userID,
		&applicationID,
		&n.Type,
		&status,
		&n.IsRead,
		&readAt,
		&n.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan notification: %w", err)
	}
	n.AdminID = adminID.String
	n.UserID = userID.String
	n.ApplicationID = applicationID.String
	n.Status = status.String
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	return &n, nil
}

func collectNotifications(rows *sql.Rows) ([]*models.Notification, error) {
	defer rows.Close()
	var result []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return result, nil
}

func mergeByCreatedAt(a, b []*models.Notification) []*models.Notification {
	merged := make([]*models.Notification, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].CreatedAt.After(b[j].CreatedAt) {
			merged = append(merged, a[i])
			i++
		} else {
			merged = append(merged, b[j])
			j++
		}
	}
	merged = append(merged, a[i:]...)
	merged = append(merged, b[j:]...)
	return merged
}
