// Package importer feeds CSV transaction exports through the ledger. Every
// imported row takes the same create path as the API, so bulk import keeps
// the balance invariant.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"budgsmart/ledger"
	"budgsmart/models"
)

// Expected header of an import file.
var header = []string{"date", "description", "amount", "type", "category", "notes"}

// Result counts the outcome of one import run.
type Result struct {
	Imported int
	Skipped  int
}

// ImportFile reads a CSV file and creates one transaction per row for the
// given account. Malformed rows are skipped and counted, not fatal; a file
// with a bad header is rejected outright.
func ImportFile(ctx context.Context, l *ledger.Ledger, log zerolog.Logger, accountID, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Import(ctx, l, log, accountID, f)
}

// Import is ImportFile over an arbitrary reader.
func Import(ctx context.Context, l *ledger.Ledger, log zerolog.Logger, accountID string, r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err != nil {
		return Result{}, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(first); err != nil {
		return Result{}, err
	}

	var res Result
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Int("line", line).Err(err).Msg("skipping malformed csv row")
			res.Skipped++
			continue
		}
		draft, err := rowToDraft(record)
		if err != nil {
			log.Warn().Int("line", line).Err(err).Msg("skipping invalid row")
			res.Skipped++
			continue
		}
		if _, err := l.Create(ctx, accountID, draft); err != nil {
			// Account disappearing mid-import is fatal; a bad row is not.
			if !isRowError(err) {
				return res, err
			}
			log.Warn().Int("line", line).Err(err).Msg("row rejected by ledger")
			res.Skipped++
			continue
		}
		res.Imported++
	}
	return res, nil
}

func checkHeader(record []string) error {
	if len(record) != len(header) {
		return fmt.Errorf("bad header: got %d columns, want %d", len(record), len(header))
	}
	for i, want := range header {
		if !strings.EqualFold(strings.TrimSpace(record[i]), want) {
			return fmt.Errorf("bad header: column %d is %q, want %q", i+1, record[i], want)
		}
	}
	return nil
}

func rowToDraft(record []string) (ledger.Draft, error) {
	if len(record) != len(header) {
		return ledger.Draft{}, fmt.Errorf("got %d columns, want %d", len(record), len(header))
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(record[0]))
	if err != nil {
		return ledger.Draft{}, fmt.Errorf("bad date %q: %w", record[0], err)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(record[2]))
	if err != nil {
		return ledger.Draft{}, fmt.Errorf("bad amount %q: %w", record[2], err)
	}
	return ledger.Draft{
		Date:        date,
		Description: strings.TrimSpace(record[1]),
		Amount:      amount,
		Type:        models.TransactionType(strings.ToLower(strings.TrimSpace(record[3]))),
		Category:    models.TransactionCategory(strings.ToLower(strings.TrimSpace(record[4]))),
		Notes:       strings.TrimSpace(record[5]),
	}, nil
}

func isRowError(err error) bool {
	return errors.Is(err, ledger.ErrValidation)
}
