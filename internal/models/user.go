package models

import "time"

// User represents an application user.
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"size:64;not null"`
	Email          string `gorm:"size:255;uniqueIndex;not null"`
	Phone          string `gorm:"size:32;uniqueIndex;not null"`
	HashedPassword string `gorm:"size:255;not null"`
	IsActive       bool   `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
