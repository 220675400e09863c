package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType says which way a transaction moves money.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// TransactionCategory is one entry of the fixed category catalog.
type TransactionCategory string

const (
	CategoryFood          TransactionCategory = "food"
	CategoryTransport     TransactionCategory = "transport"
	CategoryEntertainment TransactionCategory = "entertainment"
	CategoryHealth        TransactionCategory = "health"
	CategoryShopping      TransactionCategory = "shopping"
	CategoryBills         TransactionCategory = "bills"
	CategorySalary        TransactionCategory = "salary"
	CategoryFreelance     TransactionCategory = "freelance"
	CategoryInvestment    TransactionCategory = "investment"
	CategoryOther         TransactionCategory = "other"
)

// The catalog is partitioned by type; "other" belongs to both partitions.
var (
	IncomeCategories = []TransactionCategory{
		CategorySalary, CategoryFreelance, CategoryInvestment, CategoryOther,
	}
	ExpenseCategories = []TransactionCategory{
		CategoryFood, CategoryTransport, CategoryEntertainment, CategoryHealth,
		CategoryShopping, CategoryBills, CategoryOther,
	}
)

// ValidFor reports whether the category belongs to the catalog partition of
// the given transaction type.
func (c TransactionCategory) ValidFor(t TransactionType) bool {
	var catalog []TransactionCategory
	switch t {
	case TypeIncome:
		catalog = IncomeCategories
	case TypeExpense:
		catalog = ExpenseCategories
	default:
		return false
	}
	for _, v := range catalog {
		if v == c {
			return true
		}
	}
	return false
}

// Transaction is a single dated monetary event attributed to one user.
// Amount is always stored positive; the sign of its balance contribution is
// derived from Type.
type Transaction struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UserID      string              `gorm:"type:uuid;index;not null" json:"userId"`
	Description string              `gorm:"size:255;not null" json:"description"`
	Amount      decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"amount"`
	Type        TransactionType     `gorm:"size:16;not null;index" json:"type"`
	Category    TransactionCategory `gorm:"size:32;not null;index" json:"category"`
	Date        time.Time           `gorm:"type:date;not null;index" json:"date"`
	Notes       string              `gorm:"size:1024" json:"notes,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// SignedEffect is the transaction's contribution to the owner's balance:
// +Amount for income, -Amount for expense.
func (t *Transaction) SignedEffect() decimal.Decimal {
	if t.Type == TypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}
