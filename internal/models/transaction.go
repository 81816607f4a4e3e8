package models

import "time"

// TransactionType is the direction of a transaction. It is validated once
// when a request is bound; everything past the handler boundary works with
// the typed value.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeOutcome TransactionType = "outcome"
)

// ParseTransactionType normalizes an inbound type string. "expense" is
// accepted as an alias for outcome.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(s) {
	case TypeIncome:
		return TypeIncome, true
	case TypeOutcome, TransactionType("expense"):
		return TypeOutcome, true
	}
	return "", false
}

// Transaction represents a single financial entry. Income is stored with a
// positive amount, outcome with a negative amount. Rows are immutable after
// creation except for deletion.
type Transaction struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"index;not null"`
	Name      string          `gorm:"size:100"`
	Amount    int64           `gorm:"not null"`
	Type      TransactionType `gorm:"size:16;index;not null"`
	Category  string          `gorm:"size:50;not null"`
	Date      time.Time       `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
