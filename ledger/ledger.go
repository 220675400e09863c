// Package ledger keeps each account's denormalized balance equal to the
// signed sum of its transactions. Every transaction create, update and delete
// goes through here so that the transaction write and the balance adjustment
// happen as one unit.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"budgsmart/models"
)

// Amount bounds for a single transaction, inclusive.
var (
	MinAmount = decimal.RequireFromString("0.01")
	MaxAmount = decimal.RequireFromString("999999.99")
)

// Draft is the input for a new transaction.
type Draft struct {
	Description string
	Amount      decimal.Decimal
	Type        models.TransactionType
	Category    models.TransactionCategory
	Date        time.Time
	Notes       string
}

// Patch is a partial update. Nil fields keep their prior value. Only the
// fields listed here are mutable; identity and ownership are not patchable.
type Patch struct {
	Description *string
	Amount      *decimal.Decimal
	Type        *models.TransactionType
	Category    *models.TransactionCategory
	Date        *time.Time
	Notes       *string
}

// Ledger maintains the balance invariant over a Store.
type Ledger struct {
	store Store
}

func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Create validates the draft, then persists the transaction together with a
// balance adjustment of its signed effect. Validation happens before any
// mutation; a failed create leaves no trace.
func (l *Ledger) Create(ctx context.Context, accountID string, d Draft) (*models.Transaction, error) {
	if err := validateAmount(d.Amount); err != nil {
		return nil, err
	}
	if d.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if !d.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be income or expense", ErrValidation)
	}
	if !d.Category.ValidFor(d.Type) {
		return nil, fmt.Errorf("%w: category %q is not valid for type %q", ErrValidation, d.Category, d.Type)
	}
	if _, err := l.store.Account(ctx, accountID); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		UserID:      accountID,
		Description: d.Description,
		Amount:      d.Amount,
		Type:        d.Type,
		Category:    d.Category,
		Date:        d.Date,
		Notes:       d.Notes,
	}
	if err := l.store.CreateTransaction(ctx, tx, tx.SignedEffect()); err != nil {
		return nil, err
	}
	return tx, nil
}

// Update applies a whitelisted partial patch to an existing transaction and
// adjusts the balance by newEffect - oldEffect. The old effect is captured
// from the stored amount and type before the patch touches them; reversing
// that order corrupts the balance whenever amount or type change.
func (l *Ledger) Update(ctx context.Context, accountID, txID string, p Patch) (*models.Transaction, error) {
	tx, err := l.store.Transaction(ctx, accountID, txID)
	if err != nil {
		return nil, err
	}
	oldEffect := tx.SignedEffect()

	if p.Description != nil {
		tx.Description = *p.Description
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.Category != nil {
		tx.Category = *p.Category
	}
	if p.Date != nil {
		tx.Date = *p.Date
	}
	if p.Notes != nil {
		tx.Notes = *p.Notes
	}

	if err := validateAmount(tx.Amount); err != nil {
		return nil, err
	}
	if tx.Description == "" {
		return nil, fmt.Errorf("%w: description cannot be empty", ErrValidation)
	}
	if !tx.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be income or expense", ErrValidation)
	}
	// The category must fit the post-patch type, so changing only the type can
	// invalidate a previously fine category.
	if !tx.Category.ValidFor(tx.Type) {
		return nil, fmt.Errorf("%w: category %q is not valid for type %q", ErrValidation, tx.Category, tx.Type)
	}

	delta := tx.SignedEffect().Sub(oldEffect)
	if err := l.store.UpdateTransaction(ctx, tx, delta); err != nil {
		return nil, err
	}
	return tx, nil
}

// Delete removes the transaction and subtracts its signed effect from the
// balance. The effect is computed before removal so nothing depends on the
// deleted record afterward.
func (l *Ledger) Delete(ctx context.Context, accountID, txID string) error {
	tx, err := l.store.Transaction(ctx, accountID, txID)
	if err != nil {
		return err
	}
	return l.store.DeleteTransaction(ctx, tx, tx.SignedEffect().Neg())
}

// Get returns a single transaction scoped to the account.
func (l *Ledger) Get(ctx context.Context, accountID, txID string) (*models.Transaction, error) {
	return l.store.Transaction(ctx, accountID, txID)
}

// List returns the account's transactions with optional filters plus the
// unpaginated total count.
func (l *Ledger) List(ctx context.Context, accountID string, f ListFilter) ([]models.Transaction, int64, error) {
	if _, err := l.store.Account(ctx, accountID); err != nil {
		return nil, 0, err
	}
	return l.store.Transactions(ctx, accountID, f)
}

func validateAmount(amount decimal.Decimal) error {
	if amount.Cmp(MinAmount) < 0 {
		return fmt.Errorf("%w: amount must be at least %s", ErrValidation, MinAmount)
	}
	if amount.Cmp(MaxAmount) > 0 {
		return fmt.Errorf("%w: amount must be at most %s", ErrValidation, MaxAmount)
	}
	if amount.Exponent() < -2 {
		return fmt.Errorf("%w: amount cannot have more than two decimal places", ErrValidation)
	}
	return nil
}
