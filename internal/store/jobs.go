// Package store implements Postgres persistence for jobs, applications,
// notifications and profiles.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/models"
)

type JobStore struct {
	db *sql.DB
}

func NewJobStore(db *sql.DB) *JobStore {
	return &JobStore{db: db}
}

const jobColumns = `id, title, department, description, location, contract_type,
	positions, expiration_date, created_by, is_active, created_at, updated_at`

func (s *JobStore) Create(ctx context.Context, job *models.Job) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	job.IsActive = true

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (
			id, title, department, description, location, contract_type,
			positions, expiration_date, created_by, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		job.ID,
		job.Title,
		job.Department,
		job.Description,
		job.Location,
		job.ContractType,
		job.Positions,
		job.ExpirationDate,
		nullIfEmpty(job.CreatedBy),
		job.IsActive,
		now,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *JobStore) Update(ctx context.Context, job *models.Job) error {
	job.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET
			title = $2, department = $3, description = $4, location = $5,
			contract_type = $6, positions = $7, expiration_date = $8, updated_at = $9
		WHERE id = $1`,
		job.ID,
		job.Title,
		job.Department,
		job.Description,
		job.Location,
		job.ContractType,
		job.Positions,
		job.ExpirationDate,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return requireRow(res)
}

// SetActive toggles whether the posting appears in public listings.
func (s *JobStore) SetActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET is_active = $2, updated_at = $3 WHERE id = $1`,
		id, active, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set job active: %w", err)
	}
	return requireRow(res)
}

func (s *JobStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return requireRow(res)
}

func (s *JobStore) GetByID(ctx context.Context, id string) (*models.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJob(row)
}

// ListActive returns postings visible to public visitors, newest first.
func (s *JobStore) ListActive(ctx context.Context) ([]*models.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE is_active = true ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list active jobs: %w", err)
	}
	return collectJobs(rows)
}

// ListAll returns every posting for the staff view, newest first.
func (s *JobStore) ListAll(ctx context.Context) ([]*models.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return collectJobs(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var job models.Job
	var createdBy sql.NullString
	err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Department,
		&job.Description,
		&job.Location,
		&job.ContractType,
		&job.Positions,
		&job.ExpirationDate,
		&createdBy,
		&job.IsActive,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	job.CreatedBy = createdBy.String
	return &job, nil
}

func collectJobs(rows *sql.Rows) ([]*models.Job, error) {
	defer rows.Close()
	var result []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return result, nil
}
