// internal/models/job.go
package models

import "time"

// Job represents a job posting managed by staff.
type Job struct {
	ID             string    `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	Department     string    `json:"department" db:"department"`
	Description    string    `json:"description" db:"description"`
	Location       string    `json:"location" db:"location"`
	ContractType   string    `json:"contractType" db:"contract_type"`
	Positions      int       `json:"positions" db:"positions"`
	ExpirationDate time.Time `json:"expirationDate" db:"expiration_date"`
	// CreatedBy is the owning staff member; empty means no recorded owner.
	CreatedBy string    `json:"createdBy,omitempty" db:"created_by"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IsExpired reports whether the posting is past its expiration date.
// Expiry is advisory: nothing rejects applications after this point.
func (j *Job) IsExpired() bool {
	return time.Now().After(j.ExpirationDate)
}
