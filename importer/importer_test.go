package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"budgsmart/ledger"
	"budgsmart/models"
	"budgsmart/storage/memory"
)

func importString(t *testing.T, csv string) (Result, *memory.Store, string, error) {
	t.Helper()
	store := memory.New()
	accountID := store.AddAccount(&models.User{Email: "import@example.com"})
	l := ledger.New(store)
	res, err := Import(context.Background(), l, zerolog.Nop(), accountID, strings.NewReader(csv))
	return res, store, accountID, err
}

func TestImportHappyPath(t *testing.T) {
	csv := "date,description,amount,type,category,notes\n" +
		"2026-08-01,Salary August,3000.00,income,salary,\n" +
		"2026-08-03,Groceries,85.40,expense,food,weekly shop\n" +
		"2026-08-04,Bus pass,40,expense,transport,\n"

	res, store, accountID, err := importString(t, csv)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 3 || res.Skipped != 0 {
		t.Fatalf("result = %+v, want 3 imported, 0 skipped", res)
	}
	account, err := store.Account(context.Background(), accountID)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if want := decimal.RequireFromString("2874.60"); !account.Balance.Equal(want) {
		t.Fatalf("balance = %s, want %s", account.Balance, want)
	}
}

func TestImportSkipsBadRows(t *testing.T) {
	csv := "date,description,amount,type,category,notes\n" +
		"2026-08-01,Fine,10.00,expense,food,\n" +
		"not-a-date,Bad date,10.00,expense,food,\n" +
		"2026-08-02,Bad amount,ten,expense,food,\n" +
		"2026-08-03,Bad category,10.00,income,transport,\n" +
		"2026-08-04,Zero amount,0,expense,food,\n" +
		"2026-08-05,Also fine,5.50,income,freelance,\n"

	res, store, accountID, err := importString(t, csv)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 2 {
		t.Errorf("imported = %d, want 2", res.Imported)
	}
	if res.Skipped != 4 {
		t.Errorf("skipped = %d, want 4", res.Skipped)
	}
	account, _ := store.Account(context.Background(), accountID)
	if want := decimal.RequireFromString("-4.50"); !account.Balance.Equal(want) {
		t.Fatalf("balance = %s, want %s", account.Balance, want)
	}
}

func TestImportRejectsBadHeader(t *testing.T) {
	csv := "when,what,how much\n2026-08-01,x,1\n"
	if _, _, _, err := importString(t, csv); err == nil {
		t.Fatal("expected header error")
	}
}

func TestImportUnknownAccountIsFatal(t *testing.T) {
	store := memory.New()
	l := ledger.New(store)
	csv := "date,description,amount,type,category,notes\n2026-08-01,x,10.00,expense,food,\n"
	_, err := Import(context.Background(), l, zerolog.Nop(), "missing", strings.NewReader(csv))
	if err == nil {
		t.Fatal("expected error for unknown account")
	}
}
