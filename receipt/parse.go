package receipt

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoAmount is returned when no plausible monetary amount can be extracted.
var ErrNoAmount = errors.New("no amount detected")

// amountRE matches decimal amounts as they appear on receipts: an optional
// currency marker, grouped or plain integer digits, and an optional two-digit
// fraction ("$1,234.56", "1234.56", "TOTAL 89.99").
var amountRE = regexp.MustCompile(`(?:[$€£]|USD|EUR)?\s*([0-9]{1,3}(?:,[0-9]{3})+|[0-9]+)(?:\.([0-9]{2}))?`)

// totalRE spots lines that carry the receipt total; amounts on such lines win
// over any other candidate.
var totalRE = regexp.MustCompile(`(?i)\b(total|amount due|balance due|grand total)\b`)

// Bounds a suggested amount must satisfy, matching the transaction amount
// bounds so a suggestion can always be accepted as-is.
var (
	minPlausible = decimal.RequireFromString("0.01")
	maxPlausible = decimal.RequireFromString("999999.99")
)

// ParseAmount scans OCR text for the most plausible receipt amount. A
// candidate on a total-marked line always wins; otherwise the largest
// fractional amount wins, falling back to the largest amount of any shape.
func ParseAmount(text string) (decimal.Decimal, error) {
	var best, bestFractional, bestTotal decimal.Decimal
	haveBest, haveFractional, haveTotal := false, false, false

	for _, line := range strings.Split(text, "\n") {
		isTotalLine := totalRE.MatchString(line)
		for _, m := range amountRE.FindAllStringSubmatch(line, -1) {
			raw := strings.ReplaceAll(m[1], ",", "")
			if m[2] != "" {
				raw += "." + m[2]
			}
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				continue
			}
			if amount.Cmp(minPlausible) < 0 || amount.Cmp(maxPlausible) > 0 {
				continue
			}
			if isTotalLine && (!haveTotal || amount.Cmp(bestTotal) > 0) {
				bestTotal, haveTotal = amount, true
			}
			if m[2] != "" && (!haveFractional || amount.Cmp(bestFractional) > 0) {
				bestFractional, haveFractional = amount, true
			}
			if !haveBest || amount.Cmp(best) > 0 {
				best, haveBest = amount, true
			}
		}
	}

	switch {
	case haveTotal:
		return bestTotal, nil
	case haveFractional:
		return bestFractional, nil
	case haveBest:
		return best, nil
	}
	return decimal.Zero, ErrNoAmount
}
