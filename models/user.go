package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User is an account holder. Balance is denormalized: it must always equal the
// signed sum of the user's transactions and is only ever adjusted together
// with a transaction write, never assigned directly.
type User struct {
	ID             string `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time `gorm:"index" json:"-"`
	Email          string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	HashedPassword []byte     `gorm:"not null" json:"-"`
	FirstName      string     `gorm:"size:255" json:"firstName"`
	LastName       string     `gorm:"size:255" json:"lastName"`
	// GoogleID links the account to a Google identity once the user has signed
	// in with Google.
	GoogleID string          `gorm:"size:255;index" json:"-"`
	Picture  string          `gorm:"size:512" json:"picture,omitempty"`
	Balance  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`

	Transactions []Transaction `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
