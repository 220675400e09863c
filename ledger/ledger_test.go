package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"budgsmart/ledger"
	"budgsmart/models"
	"budgsmart/storage/memory"
)

func newTestLedger(t *testing.T) (*ledger.Ledger, *memory.Store, string) {
	t.Helper()
	store := memory.New()
	accountID := store.AddAccount(&models.User{
		Email:   "test@example.com",
		Balance: decimal.Zero,
	})
	return ledger.New(store), store, accountID
}

func draft(kind models.TransactionType, category models.TransactionCategory, amount string) ledger.Draft {
	return ledger.Draft{
		Description: "test transaction",
		Amount:      decimal.RequireFromString(amount),
		Type:        kind,
		Category:    category,
		Date:        time.Now(),
	}
}

func balance(t *testing.T, store *memory.Store, accountID string) decimal.Decimal {
	t.Helper()
	account, err := store.Account(context.Background(), accountID)
	if err != nil {
		t.Fatalf("account lookup: %v", err)
	}
	return account.Balance
}

// checkInvariant asserts balance == sum of signed effects over the current
// transaction set.
func checkInvariant(t *testing.T, store *memory.Store, accountID string) {
	t.Helper()
	txs, _, err := store.Transactions(context.Background(), accountID, ledger.ListFilter{Limit: -1})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	sum := decimal.Zero
	for i := range txs {
		sum = sum.Add(txs[i].SignedEffect())
	}
	if got := balance(t, store, accountID); !got.Equal(sum) {
		t.Fatalf("invariant broken: balance=%s, sum of effects=%s", got, sum)
	}
}

func TestCreateUpdateDeleteScenarioChain(t *testing.T) {
	l, store, accountID := newTestLedger(t)
	ctx := context.Background()

	// Scenario A: income 1000 on a zero balance.
	income, err := l.Create(ctx, accountID, draft(models.TypeIncome, models.CategorySalary, "1000"))
	if err != nil {
		t.Fatalf("create income: %v", err)
	}
	if got := balance(t, store, accountID); !got.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("balance after income = %s, want 1000", got)
	}
	checkInvariant(t, store, accountID)

	// Scenario B: expense 200.
	expense, err := l.Create(ctx, accountID, draft(models.TypeExpense, models.CategoryFood, "200"))
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if got := balance(t, store, accountID); !got.Equal(decimal.RequireFromString("800")) {
		t.Fatalf("balance after expense = %s, want 800", got)
	}
	checkInvariant(t, store, accountID)

	// Scenario C: shrink the expense to 50, same kind.
	newAmount := decimal.RequireFromString("50")
	if _, err := l.Update(ctx, accountID, expense.ID, ledger.Patch{Amount: &newAmount}); err != nil {
		t.Fatalf("update amount: %v", err)
	}
	if got := balance(t, store, accountID); !got.Equal(decimal.RequireFromString("950")) {
		t.Fatalf("balance after amount update = %s, want 950", got)
	}
	checkInvariant(t, store, accountID)

	// Scenario D: flip the expense to income, amount stays 50. The old -50 is
	// reverted and +50 applied: 950 + 50 + 50 = 1050.
	kind := models.TypeIncome
	cat := models.CategoryOther
	if _, err := l.Update(ctx, accountID, expense.ID, ledger.Patch{Type: &kind, Category: &cat}); err != nil {
		t.Fatalf("update kind: %v", err)
	}
	if got := balance(t, store, accountID); !got.Equal(decimal.RequireFromString("1050")) {
		t.Fatalf("balance after kind flip = %s, want 1050", got)
	}
	checkInvariant(t, store, accountID)

	// Scenario E: delete the 1000 income.
	if err := l.Delete(ctx, accountID, income.ID); err != nil {
		t.Fatalf("delete income: %v", err)
	}
	if got := balance(t, store, accountID); !got.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("balance after delete = %s, want 50", got)
	}
	checkInvariant(t, store, accountID)

	// Scenario F: one transaction remains (the flipped 50 income) plus nothing
	// else; monthly stats must agree.
	stats, err := l.Stats(ctx, accountID, ledger.PeriodMonth)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TransactionCount != 1 {
		t.Fatalf("transactionCount = %d, want 1", stats.TransactionCount)
	}
	if !stats.NetAmount.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("netAmount = %s, want 50", stats.NetAmount)
	}
}

func TestUpdateUsesPreMutationEffect(t *testing.T) {
	l, store, accountID := newTestLedger(t)
	ctx := context.Background()

	tx, err := l.Create(ctx, accountID, draft(models.TypeExpense, models.CategoryBills, "300"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Raise the expense to 400: revert -300, apply -400. Balance must be -400,
	// not the -500 a post-mutation revert would produce.
	amount := decimal.RequireFromString("400")
	if _, err := l.Update(ctx, accountID, tx.ID, ledger.Patch{Amount: &amount}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := balance(t, store, accountID); !got.Equal(decimal.RequireFromString("-400")) {
		t.Fatalf("balance = %s, want -400", got)
	}
}

func TestUpdateNoopPatchKeepsBalance(t *testing.T) {
	l, store, accountID := newTestLedger(t)
	ctx := context.Background()

	tx, err := l.Create(ctx, accountID, draft(models.TypeIncome, models.CategorySalary, "123.45"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before := balance(t, store, accountID)

	sameAmount := tx.Amount
	sameKind := tx.Type
	desc := "renamed but economically identical"
	if _, err := l.Update(ctx, accountID, tx.ID, ledger.Patch{
		Description: &desc,
		Amount:      &sameAmount,
		Type:        &sameKind,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := balance(t, store, accountID); !got.Equal(before) {
		t.Fatalf("balance changed on no-op patch: %s -> %s", before, got)
	}
}

func TestAmountBounds(t *testing.T) {
	l, _, accountID := newTestLedger(t)
	ctx := context.Background()

	for _, amount := range []string{"0.01", "999999.99"} {
		if _, err := l.Create(ctx, accountID, draft(models.TypeExpense, models.CategoryOther, amount)); err != nil {
			t.Errorf("amount %s rejected: %v", amount, err)
		}
	}
	for _, amount := range []string{"0", "1000000.00", "-5", "1.005"} {
		_, err := l.Create(ctx, accountID, draft(models.TypeExpense, models.CategoryOther, amount))
		if !errors.Is(err, ledger.ErrValidation) {
			t.Errorf("amount %s: got %v, want ErrValidation", amount, err)
		}
	}
}

func TestCategoryMustMatchType(t *testing.T) {
	l, _, accountID := newTestLedger(t)
	ctx := context.Background()

	// An income tagged with an expense-only category is rejected.
	_, err := l.Create(ctx, accountID, draft(models.TypeIncome, models.CategoryTransport, "10"))
	if !errors.Is(err, ledger.ErrValidation) {
		t.Fatalf("income/transport: got %v, want ErrValidation", err)
	}

	// "other" is valid for both kinds.
	if _, err := l.Create(ctx, accountID, draft(models.TypeIncome, models.CategoryOther, "10")); err != nil {
		t.Fatalf("income/other: %v", err)
	}

	// Flipping the type without fixing the category is rejected too.
	tx, err := l.Create(ctx, accountID, draft(models.TypeExpense, models.CategoryFood, "10"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	kind := models.TypeIncome
	_, err = l.Update(ctx, accountID, tx.ID, ledger.Patch{Type: &kind})
	if !errors.Is(err, ledger.ErrValidation) {
		t.Fatalf("flip without category: got %v, want ErrValidation", err)
	}
}

func TestValidationAbortsBeforeMutation(t *testing.T) {
	l, store, accountID := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Create(ctx, accountID, draft(models.TypeExpense, models.CategoryFood, "0"))
	if !errors.Is(err, ledger.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
	txs, _, err := store.Transactions(ctx, accountID, ledger.ListFilter{Limit: -1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("rejected create left %d transactions behind", len(txs))
	}
	if got := balance(t, store, accountID); !got.IsZero() {
		t.Fatalf("rejected create moved balance to %s", got)
	}
}

func TestCrossAccountLookupsAreOpaque(t *testing.T) {
	l, store, accountID := newTestLedger(t)
	ctx := context.Background()

	otherID := store.AddAccount(&models.User{Email: "other@example.com"})
	tx, err := l.Create(ctx, accountID, draft(models.TypeIncome, models.CategorySalary, "100"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Another account sees someone else's transaction as plain not-found for
	// every operation, never as forbidden-but-existing.
	if _, err := l.Get(ctx, otherID, tx.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("get: got %v, want ErrNotFound", err)
	}
	amount := decimal.RequireFromString("1")
	if _, err := l.Update(ctx, otherID, tx.ID, ledger.Patch{Amount: &amount}); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("update: got %v, want ErrNotFound", err)
	}
	if err := l.Delete(ctx, otherID, tx.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("delete: got %v, want ErrNotFound", err)
	}
	// And the owner's balance is untouched by the attempts.
	if got := balance(t, store, accountID); !got.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("balance = %s, want 100", got)
	}
}

func TestUnknownAccountIsNotFound(t *testing.T) {
	l, _, _ := newTestLedger(t)
	_, err := l.Create(context.Background(), "no-such-account", draft(models.TypeIncome, models.CategorySalary, "10"))
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestEmptyDescriptionRejected(t *testing.T) {
	l, _, accountID := newTestLedger(t)
	d := draft(models.TypeIncome, models.CategorySalary, "10")
	d.Description = ""
	_, err := l.Create(context.Background(), accountID, d)
	if !errors.Is(err, ledger.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}
