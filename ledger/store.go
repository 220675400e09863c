package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"budgsmart/models"
)

// ListFilter narrows a transaction listing. Zero values mean "no filter";
// pagination defaults are applied by the store.
type ListFilter struct {
	Type      models.TransactionType
	Category  models.TransactionCategory
	StartDate time.Time
	EndDate   time.Time
	Page      int
	Limit     int
}

// Store is the persistence collaborator of the ledger. Each mutation method
// receives the balance delta alongside the transaction and must apply both as
// one atomic unit: the transaction write and a relative balance adjustment
// (balance = balance + delta) either both commit or neither does. The relative
// form is mandatory; writing an absolute balance reintroduces the lost-update
// anomaly under concurrent requests.
type Store interface {
	// Account returns the account or ErrNotFound.
	Account(ctx context.Context, accountID string) (*models.User, error)
	// Transaction returns the transaction scoped to the account. A transaction
	// owned by another account yields ErrNotFound, not a distinct error.
	Transaction(ctx context.Context, accountID, txID string) (*models.Transaction, error)
	// Transactions lists the account's transactions, newest date first.
	Transactions(ctx context.Context, accountID string, f ListFilter) ([]models.Transaction, int64, error)
	// TransactionsBetween returns the account's transactions with a date in
	// [start, end].
	TransactionsBetween(ctx context.Context, accountID string, start, end time.Time) ([]models.Transaction, error)

	CreateTransaction(ctx context.Context, tx *models.Transaction, delta decimal.Decimal) error
	UpdateTransaction(ctx context.Context, tx *models.Transaction, delta decimal.Decimal) error
	DeleteTransaction(ctx context.Context, tx *models.Transaction, delta decimal.Decimal) error
}
