// internal/models/notification.go
package models

import "time"

// Notification kinds.
const (
	TypeNewApplication = "admin_new_application"
	TypeStatusChange   = "status_change"
)

// Notification is an in-app message addressed to either a staff member
// (AdminID) or an applicant (UserID); exactly one of the two is set.
type Notification struct {
	ID            string `json:"id" db:"id"`
	Message       string `json:"message" db:"message"`
	AdminID       string `json:"adminId,omitempty" db:"admin_id"`
	UserID        string `json:"userId,omitempty" db:"user_id"`
	ApplicationID string `json:"applicationId,omitempty" db:"application_id"`
	Type          string `json:"type" db:"notification_type"`
	// Status records the application status a status_change notification
	// targets; used to suppress duplicate inserts.
	Status    string     `json:"status,omitempty" db:"status"`
	IsRead    bool       `json:"isRead" db:"is_read"`
	ReadAt    *time.Time `json:"readAt,omitempty" db:"read_at"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

// RecipientID returns whichever of AdminID/UserID is set.
func (n *Notification) RecipientID() string {
	if n.AdminID != "" {
		return n.AdminID
	}
	return n.UserID
}
