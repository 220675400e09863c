package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receipt is an image attached to a transaction as supporting evidence.
// SuggestedAmount is the best OCR guess for the amount on the receipt; it is
// advisory only and never feeds back into the ledger.
type Receipt struct {
	ID            string `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	TransactionID string      `gorm:"type:uuid;index;not null" json:"transactionId"`
	Transaction   Transaction `gorm:"foreignKey:TransactionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	FileName      string      `gorm:"size:255;not null" json:"fileName"`
	StorePath     string      `gorm:"column:store_path;size:512" json:"storePath"`
	ContentType   string      `gorm:"size:128" json:"contentType"`

	SuggestedAmount *decimal.Decimal `gorm:"type:decimal(10,2)" json:"suggestedAmount,omitempty"`
}

func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
