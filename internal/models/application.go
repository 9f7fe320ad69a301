// internal/models/application.go
package models

import "time"

// Application status values. The French strings are the stored wire values
// carried over from the production data set.
const (
	StatusPending     = "en attente"
	StatusUnderReview = "en cours d'examination"
	StatusAccepted    = "accepter"
	StatusRejected    = "refuser"
)

// IsValidStatus reports whether s is one of the four known status values.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Application represents a candidate's submission for a job posting.
type Application struct {
	ID     string `json:"id" db:"id"`
	JobID  string `json:"jobId" db:"job_id"`
	UserID string `json:"userId" db:"user_id"`

	FirstName              string `json:"firstName" db:"first_name"`
	LastName               string `json:"lastName" db:"last_name"`
	Email                  string `json:"email" db:"email"`
	Phone                  string `json:"phone" db:"phone"`
	Gender                 string `json:"gender" db:"gender"`
	Age                    int    `json:"age" db:"age"`
	ProfessionalExperience string `json:"professionalExperience" db:"professional_experience"`
	Skills                 string `json:"skills" db:"skills"`
	Diploma                string `json:"diploma" db:"diploma"`
	YearsOfExperience      int    `json:"yearsOfExperience" db:"years_of_experience"`
	PreviousCompany        string `json:"previousCompany,omitempty" db:"previous_company"`

	CVPath          string `json:"cvPath" db:"cv_url"`
	CoverLetterPath string `json:"coverLetterPath" db:"cover_letter_url"`

	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
