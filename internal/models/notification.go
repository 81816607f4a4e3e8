package models

import "time"

// NotificationStatus is a decision submitted against a pending notification.
type NotificationStatus string

const (
	StatusPending  NotificationStatus = "pending"
	StatusAccepted NotificationStatus = "accepted"
	StatusRefused  NotificationStatus = "refused"
	StatusExtended NotificationStatus = "extended"
)

// Valid reports whether s is one of the known statuses.
func (s NotificationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused, StatusExtended:
		return true
	}
	return false
}

// Notification is a surfaced instance of a reminder awaiting a decision.
// There is no status column: a stored notification is pending by definition.
// Accepting or refusing deletes the row; extending pushes Date out a day.
type Notification struct {
	ID         uint      `gorm:"primaryKey"`
	ReminderID uint      `gorm:"index;not null"`
	UserID     uint      `gorm:"index;not null"`
	Date       time.Time `gorm:"not null"`
	Name       string    `gorm:"size:100;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
