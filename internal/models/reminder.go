package models

import "time"

// Reminder is a template for a recurring expected payment. NextDate only
// ever moves forward, by Frequency days, when a notification for this
// reminder is accepted or refused.
type Reminder struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index;not null"`
	Name        string    `gorm:"size:100;not null"`
	Active      bool      `gorm:"not null;default:true"`
	NextDate    time.Time `gorm:"not null"`
	Category    string    `gorm:"size:50;not null"`
	Amount      int64     `gorm:"not null"` // expected signed amount
	Frequency   int       `gorm:"not null"` // days between occurrences
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
