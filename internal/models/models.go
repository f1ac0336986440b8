package models

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

const DefaultCurrency = "USDC"

// Transaction is the persisted record. TxID is the external identifier;
// the numeric primary key never leaves the store.
type Transaction struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	TxID      string    `gorm:"uniqueIndex;size:64;not null" json:"txId"`
	UserID    string    `gorm:"index;size:255;not null" json:"userId"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Currency  string    `gorm:"size:10;not null" json:"currency"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	Status    string    `gorm:"size:16;not null" json:"status"` // pending | completed | failed
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}
