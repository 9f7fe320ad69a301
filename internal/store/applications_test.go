// internal/store/applications_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/models"
)

func applicationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "job_id", "user_id", "first_name", "last_name", "email", "phone",
		"gender", "age", "professional_experience", "skills", "diploma",
		"years_of_experience", "previous_company", "cv_url", "cover_letter_url",
		"status", "created_at",
	})
}

func addApplicationRow(rows *sqlmock.Rows, id, status string) *sqlmock.Rows {
	return rows.AddRow(id, "job-1", "user-1", "Yasmine", "Berrada",
		"yasmine@example.com", "0612345678", "femme", 27,
		"Trois ans en développement web", "Go, PostgreSQL", "Master informatique",
		3, nil, "user-1/job-1/1-cv.pdf", "user-1/job-1/1-lm.pdf",
		status, time.Now())
}

func TestApplicationStore_Create_ForcesPendingStatus(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewApplicationStore(db)

	mock.ExpectExec("INSERT INTO applications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	app := &models.Application{JobID: "job-1", UserID: "user-1", Status: models.StatusAccepted}
	err := s.Create(context.Background(), app)
	require.NoError(t, err)

	assert.NotEmpty(t, app.ID)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewApplicationStore(db)

	mock.ExpectQuery("FROM applications WHERE id").
		WithArgs("app-1").
		WillReturnRows(addApplicationRow(applicationRows(), "app-1", models.StatusPending))

	app, err := s.GetByID(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, "Yasmine", app.FirstName)
	assert.Empty(t, app.PreviousCompany)
}

func TestApplicationStore_ListByJob(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewApplicationStore(db)

	rows := applicationRows()
	addApplicationRow(rows, "app-1", models.StatusPending)
	addApplicationRow(rows, "app-2", models.StatusUnderReview)
	mock.ExpectQuery("FROM applications WHERE job_id").
		WithArgs("job-1").
		WillReturnRows(rows)

	apps, err := s.ListByJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Len(t, apps, 2)
}

func TestApplicationStore_UpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewApplicationStore(db)

	mock.ExpectExec("UPDATE applications SET status").
		WithArgs("app-1", models.StatusAccepted).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.UpdateStatus(context.Background(), "app-1", models.StatusAccepted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_UpdateStatus_MissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewApplicationStore(db)

	mock.ExpectExec("UPDATE applications SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateStatus(context.Background(), "missing", models.StatusRejected)
	assert.True(t, errors.Is(err, ErrNotFound))
}
