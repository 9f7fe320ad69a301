package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/models"
)

type ApplicationStore struct {
	db *sql.DB
}

func NewApplicationStore(db *sql.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

const applicationColumns = `id, job_id, user_id, first_name, last_name, email, phone,
	gender, age, professional_experience, skills, diploma, years_of_experience,
	previous_company, cv_url, cover_letter_url, status, created_at`

// Create inserts the application row. New applications always start pending.
func (s *ApplicationStore) Create(ctx context.Context, app *models.Application) error {
	if app.ID == "" {
		app.ID = uuid.New().String()
	}
	app.Status = models.StatusPending
	app.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, job_id, user_id, first_name, last_name, email, phone,
			gender, age, professional_experience, skills, diploma,
			years_of_experience, previous_company, cv_url, cover_letter_url,
			status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		app.ID,
		app.JobID,
		app.UserID,
		app.FirstName,
		app.LastName,
		app.Email,
		app.Phone,
		app.Gender,
		app.Age,
		app.ProfessionalExperience,
		app.Skills,
		app.Diploma,
		app.YearsOfExperience,
		app.PreviousCompany,
		app.CVPath,
		app.CoverLetterPath,
		app.Status,
		app.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *ApplicationStore) GetByID(ctx context.Context, id string) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (s *ApplicationStore) ListByJob(ctx context.Context, jobID string) ([]*models.Application, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 ORDER BY created_at DESC`,
		jobID)
	if err != nil {
		return nil, fmt.Errorf("list applications by job: %w", err)
	}
	return collectApplications(rows)
}

func (s *ApplicationStore) ListByUser(ctx context.Context, userID string) ([]*models.Application, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list applications by user: %w", err)
	}
	return collectApplications(rows)
}

func (s *ApplicationStore) ListAll(ctx context.Context) ([]*models.Application, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return collectApplications(rows)
}

// UpdateStatus changes the status value. Any state may move to any other;
// accepted/rejected are not locked.
func (s *ApplicationStore) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE applications SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	return requireRow(res)
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var app models.Application
	var previousCompany sql.NullString
	err := row.Scan(
		&app.ID,
		&app.JobID,
		&app.UserID,
		&app.FirstName,
		&app.LastName,
		&app.Email,
		&app.Phone,
		&app.Gender,
		&app.Age,
		&app.ProfessionalExperience,
		&app.Skills,
		&app.Diploma,
		&app.YearsOfExperience,
		&previousCompany,
		&app.CVPath,
		&app.CoverLetterPath,
		&app.Status,
		&app.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan application: %w", err)
	}
	app.PreviousCompany = previousCompany.String
	return &app, nil
}

func collectApplications(rows *sql.Rows) ([]*models.Application, error) {
	defer rows.Close()
	var result []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return result, nil
}
