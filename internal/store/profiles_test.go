// internal/store/profiles_test.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/models"
)

func profileRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "full_name", "phone", "role", "password_hash", "created_at"})
}

func TestProfileStore_Create_DefaultsToUserRole(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProfileStore(db)

	mock.ExpectExec("INSERT INTO profiles").
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := &models.Profile{Email: "a@example.com", PasswordHash: "hash"}
	require.NoError(t, s.Create(context.Background(), p))

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, models.RoleUser, p.Role)
}

func TestProfileStore_Create_EmptyPhoneBindsEmptyString(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProfileStore(db)

	// phone is NOT NULL with a default, so the insert must never send NULL
	mock.ExpectExec("INSERT INTO profiles").
		WithArgs(sqlmock.AnyArg(), "a@example.com", "A B", "", models.RoleUser, "hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := &models.Profile{Email: "a@example.com", FullName: "A B", PasswordHash: "hash"}
	require.NoError(t, s.Create(context.Background(), p))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileStore_Create_KeepsExplicitAdminRole(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProfileStore(db)

	mock.ExpectExec("INSERT INTO profiles").
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := &models.Profile{Email: "a@example.com", PasswordHash: "hash", Role: models.RoleAdmin}
	require.NoError(t, s.Create(context.Background(), p))
	assert.Equal(t, models.RoleAdmin, p.Role)
}

func TestProfileStore_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProfileStore(db)

	rows := profileRows().AddRow("user-1", "a@example.com", "A B", "0612345678", models.RoleUser, "hash", time.Now())
	mock.ExpectQuery("FROM profiles WHERE email").
		WithArgs("a@example.com").
		WillReturnRows(rows)

	p, err := s.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.ID)
	assert.False(t, p.IsAdmin())
}

func TestProfileStore_FirstAdmin_OldestAccount(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProfileStore(db)

	rows := profileRows().AddRow("admin-1", "root@example.com", "Root", "", models.RoleAdmin, "hash", time.Now().Add(-time.Hour))
	mock.ExpectQuery("FROM profiles WHERE role").
		WithArgs(models.RoleAdmin).
		WillReturnRows(rows)

	p, err := s.FirstAdmin(context.Background())
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
}

func TestProfileStore_FirstAdmin_NoneExists(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProfileStore(db)

	mock.ExpectQuery("FROM profiles WHERE role").
		WillReturnError(sql.ErrNoRows)

	_, err := s.FirstAdmin(context.Background())
	assert.True(t, errors.Is(err, ErrNotFound))
}
