// internal/store/notifications_test.go
package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/models"
)

func newTestNotificationStore(db *sql.DB) *NotificationStore {
	return NewNotificationStore(db, 30, 50)
}

func notificationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "message", "admin_id", "user_id", "application_id",
		"notification_type", "status", "is_read", "read_at", "created_at",
	})
}

func TestNotificationStore_Create_UserRecipient(t *testing.T) {
	db, mock := newMockDB(t)
	s := newTestNotificationStore(db)

	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n := &models.Notification{
		Message:       "Félicitations ! Votre candidature a été acceptée",
		UserID:        "user-1",
		ApplicationID: "app-1",
		Type:          models.TypeStatusChange,
		Status:        models.StatusAccepted,
		IsRead:        true,
	}
	err := s.Create(context.Background(), n)
	require.NoError(t, err)

	assert.NotEmpty(t, n.ID)
	assert.False(t, n.IsRead, "new notifications always start unread")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_LatestStatusChange(t *testing.T) {
	db, mock := newMockDB(t)
	s := newTestNotificationStore(db)

	rows := notificationRows().AddRow(
		"notif-1", "Votre candidature est en cours d'examen", nil, "user-1", "app-1",
		models.TypeStatusChange, models.StatusUnderReview, false, nil, time.Now())
	mock.ExpectQuery("FROM notifications").
		WithArgs("app-1", "user-1", models.TypeStatusChange).
		WillReturnRows(rows)

	n, err := s.LatestStatusChange(context.Background(), "app-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, models.StatusUnderReview, n.Status)
	assert.Equal(t, "user-1", n.UserID)
	assert.Empty(t, n.AdminID)
}

func TestNotificationStore_LatestStatusChange_NoneIsNotAnError(t *testing.T) {
	db, mock := newMockDB(t)
	s := newTestNotificationStore(db)

	mock.ExpectQuery("FROM notifications").
		WillReturnError(sql.ErrNoRows)

	n, err := s.LatestStatusChange(context.Background(), "app-1", "user-1")
	assert.NoError(t, err)
	assert.Nil(t, n)
}

func TestNotificationStore_ListForRecipient_MergesUnreadAndRecentRead(t *testing.T) {
	db, mock := newMockDB(t)
	s := newTestNotificationStore(db)

	now := time.Now()
	readAt := now.Add(-time.Hour)

	unread := notificationRows().AddRow(
		"notif-2", "message 2", nil, "user-1", "app-1",
		models.TypeStatusChange, models.StatusAccepted, false, nil, now)
	mock.ExpectQuery("is_read = false").
		WithArgs("user-1").
		WillReturnRows(unread)

	read := notificationRows().AddRow(
		"notif-1", "message 1", nil, "user-1", "app-1",
		models.TypeStatusChange, models.StatusUnderReview, true, readAt, now.Add(-2*time.Hour))
	mock.ExpectQuery("is_read = true AND read_at >=").
		WithArgs("user-1", sqlmock.AnyArg(), 50).
		WillReturnRows(read)

	notifs, err := s.ListForRecipient(context.Background(), "user-1", false)
	require.NoError(t, err)
	require.Len(t, notifs, 2)
	assert.Equal(t, "notif-2", notifs[0].ID, "newest first")
	assert.Equal(t, "notif-1", notifs[1].ID)
	require.NotNil(t, notifs[1].ReadAt)
}

func TestNotificationStore_CountUnread(t *testing.T) {
	db, mock := newMockDB(t)
	s := newTestNotificationStore(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("admin-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := s.CountUnread(context.Background(), "admin-1", true)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNotificationStore_MarkRead_ScopedToRecipient(t *testing.T) {
	db, mock := newMockDB(t)
	s := newTestNotificationStore(db)

	mock.ExpectExec("UPDATE notifications SET is_read = true").
		WithArgs("notif-1", sqlmock.AnyArg(), "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.MarkRead(context.Background(), "notif-1", "user-1", false))
}

func TestNotificationStore_MarkRead_OtherUsersRow(t *testing.T) {
	db, mock := newMockDB(t)
	s := newTestNotificationStore(db)

	mock.ExpectExec("UPDATE notifications SET is_read = true").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.MarkRead(context.Background(), "notif-1", "intruder", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationStore_MarkAllRead(t *testing.T) {
	db, mock := newMockDB(t)
	s := newTestNotificationStore(db)

	mock.ExpectExec("UPDATE notifications SET is_read = true").
		WithArgs("user-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 4))

	assert.NoError(t, s.MarkAllRead(context.Background(), "user-1", false))
}
