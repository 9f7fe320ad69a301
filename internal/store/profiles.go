package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/models"
)

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

const profileColumns = `id, email, full_name, phone, role, password_hash, created_at`

func (s *ProfileStore) Create(ctx context.Context, p *models.Profile) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Role == "" {
		p.Role = models.RoleUser
	}
	p.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email, full_name, phone, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Email, p.FullName, p.Phone, p.Role, p.PasswordHash, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

func (s *ProfileStore) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email)
	return scanProfile(row)
}

// FirstAdmin returns the fallback notification recipient: the oldest
// account with the admin role. Deterministic tie-break by created_at.
func (s *ProfileStore) FirstAdmin(ctx context.Context) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE role = $1 ORDER BY created_at ASC LIMIT 1`,
		models.RoleAdmin)
	return scanProfile(row)
}

func (s *ProfileStore) ListAdmins(ctx context.Context) ([]*models.Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE role = $1 ORDER BY created_at ASC`,
		models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var result []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return result, nil
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.FullName,
		&p.Phone,
		&p.Role,
		&p.PasswordHash,
		&p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	return &p, nil
}
