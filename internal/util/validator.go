package util

import (
	"fmt"
	"regexp"
	"time"
)

var phoneRe = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// ValidatePhone checks the phone number format: optional leading +,
// 10-15 digits.
func ValidatePhone(phone string) error {
	if !phoneRe.MatchString(phone) {
		return fmt.Errorf("invalid phone number format: %q", phone)
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// ValidateFrequency checks a reminder cadence in days.
func ValidateFrequency(days int) error {
	if days <= 0 {
		return fmt.Errorf("frequency must be positive, got %d", days)
	}
	if days > 3650 {
		return fmt.Errorf("frequency too large, got %d", days)
	}
	return nil
}

// ParseDate parses a timestamp from the common client formats.
func ParseDate(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %q", s)
}
