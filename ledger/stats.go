package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"budgsmart/models"
)

// Period selects a trailing reporting window.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod maps a query-string value to a Period. Empty defaults to month;
// anything else is a validation error.
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "":
		return PeriodMonth, nil
	case string(PeriodWeek):
		return PeriodWeek, nil
	case string(PeriodMonth):
		return PeriodMonth, nil
	case string(PeriodYear):
		return PeriodYear, nil
	}
	return "", fmt.Errorf("%w: period must be week, month or year", ErrValidation)
}

// Start returns the beginning of the window ending at now.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

// Stats is the §4.2-shaped report over one trailing window.
type Stats struct {
	Period             Period                                         `json:"period"`
	StartDate          time.Time                                      `json:"startDate"`
	EndDate            time.Time                                      `json:"endDate"`
	TotalIncome        decimal.Decimal                                `json:"totalIncome"`
	TotalExpenses      decimal.Decimal                                `json:"totalExpenses"`
	NetAmount          decimal.Decimal                                `json:"netAmount"`
	TransactionCount   int                                            `json:"transactionCount"`
	ExpensesByCategory map[models.TransactionCategory]decimal.Decimal `json:"expensesByCategory"`
}

// AccountStats is the all-time rollup for an account.
type AccountStats struct {
	TotalTransactions int             `json:"totalTransactions"`
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	NetIncome         decimal.Decimal `json:"netIncome"`
	CurrentBalance    decimal.Decimal `json:"currentBalance"`
}

// Stats aggregates the account's transactions inside [now - period, now].
// Totals are recomputed from the transaction list rather than read off the
// cached balance, so a drifted balance cannot poison reporting.
func (l *Ledger) Stats(ctx context.Context, accountID string, period Period) (*Stats, error) {
	if _, err := l.store.Account(ctx, accountID); err != nil {
		return nil, err
	}
	end := time.Now()
	start := period.Start(end)
	txs, err := l.store.TransactionsBetween(ctx, accountID, start, end)
	if err != nil {
		return nil, err
	}

	s := &Stats{
		Period:             period,
		StartDate:          start,
		EndDate:            end,
		TotalIncome:        decimal.Zero,
		TotalExpenses:      decimal.Zero,
		ExpensesByCategory: make(map[models.TransactionCategory]decimal.Decimal),
	}
	for _, tx := range txs {
		s.TransactionCount++
		if tx.Type == models.TypeIncome {
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
			continue
		}
		s.TotalExpenses = s.TotalExpenses.Add(tx.Amount)
		s.ExpensesByCategory[tx.Category] = s.ExpensesByCategory[tx.Category].Add(tx.Amount)
	}
	s.NetAmount = s.TotalIncome.Sub(s.TotalExpenses)
	return s, nil
}

// AccountStats folds the account's entire history into all-time totals and
// reports them next to the cached balance.
func (l *Ledger) AccountStats(ctx context.Context, accountID string) (*AccountStats, error) {
	account, err := l.store.Account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	txs, _, err := l.store.Transactions(ctx, accountID, ListFilter{Limit: -1})
	if err != nil {
		return nil, err
	}

	s := &AccountStats{
		TotalIncome:    decimal.Zero,
		TotalExpenses:  decimal.Zero,
		CurrentBalance: account.Balance,
	}
	for _, tx := range txs {
		s.TotalTransactions++
		if tx.Type == models.TypeIncome {
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		} else {
			s.TotalExpenses = s.TotalExpenses.Add(tx.Amount)
		}
	}
	s.NetIncome = s.TotalIncome.Sub(s.TotalExpenses)
	return s, nil
}
