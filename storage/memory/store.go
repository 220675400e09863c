// Package memory is an in-memory ledger store. It backs the unit tests and
// the importer's dry-run mode; one mutex stands in for the database
// transaction, so each mutation pair is applied atomically with respect to
// other store calls.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budgsmart/ledger"
	"budgsmart/models"
)

type Store struct {
	mu           sync.Mutex
	accounts     map[string]*models.User
	transactions map[string]*models.Transaction
}

func New() *Store {
	return &Store{
		accounts:     make(map[string]*models.User),
		transactions: make(map[string]*models.Transaction),
	}
}

// AddAccount registers an account and returns its id. Test helper.
func (s *Store) AddAccount(user *models.User) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.accounts[user.ID] = user
	return user.ID
}

func (s *Store) Account(ctx context.Context, accountID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.accounts[accountID]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *Store) Transaction(ctx context.Context, accountID, txID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[txID]
	if !ok || tx.UserID != accountID {
		return nil, ledger.ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (s *Store) Transactions(ctx context.Context, accountID string, f ledger.ListFilter) ([]models.Transaction, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []models.Transaction
	for _, tx := range s.transactions {
		if tx.UserID != accountID {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.Category != "" && tx.Category != f.Category {
			continue
		}
		if !f.StartDate.IsZero() && tx.Date.Before(f.StartDate) {
			continue
		}
		if !f.EndDate.IsZero() && tx.Date.After(f.EndDate) {
			continue
		}
		all = append(all, *tx)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	total := int64(len(all))

	if f.Limit >= 0 {
		limit := f.Limit
		if limit == 0 {
			limit = 10
		}
		page := f.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * limit
		if start > len(all) {
			start = len(all)
		}
		end := start + limit
		if end > len(all) {
			end = len(all)
		}
		all = all[start:end]
	}
	return all, total, nil
}

func (s *Store) TransactionsBetween(ctx context.Context, accountID string, start, end time.Time) ([]models.Transaction, error) {
	txs, _, err := s.Transactions(ctx, accountID, ledger.ListFilter{
		StartDate: start,
		EndDate:   end,
		Limit:     -1,
	})
	return txs, err
}

func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[tx.UserID]
	if !ok {
		return ledger.ErrNotFound
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = tx.CreatedAt
	cp := *tx
	s.transactions[tx.ID] = &cp
	account.Balance = account.Balance.Add(delta)
	return nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *models.Transaction, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[tx.UserID]
	if !ok {
		return ledger.ErrNotFound
	}
	if _, ok := s.transactions[tx.ID]; !ok {
		return ledger.ErrNotFound
	}
	tx.UpdatedAt = time.Now()
	cp := *tx
	s.transactions[tx.ID] = &cp
	account.Balance = account.Balance.Add(delta)
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, tx *models.Transaction, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[tx.UserID]
	if !ok {
		return ledger.ErrNotFound
	}
	if _, ok := s.transactions[tx.ID]; !ok {
		return ledger.ErrNotFound
	}
	account.Balance = account.Balance.Add(delta)
	delete(s.transactions, tx.ID)
	return nil
}

var _ ledger.Store = (*Store)(nil)
