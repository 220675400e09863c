package receipt

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"plain decimal", "COFFEE 4.50", "4.50"},
		{"currency marker", "$1,234.56", "1234.56"},
		{"total line wins over larger item", "ITEM 999.99\nTOTAL 42.10", "42.10"},
		{"amount due", "Subtotal 10.00\nAmount Due 11.20\nCash 20.00", "11.20"},
		{"grouped thousands", "GRAND TOTAL 12,345.67", "12345.67"},
		{"fractional beats bare integer", "table 12\nlatte 3.80", "3.80"},
		{"largest fractional", "3.80\n12.40\n1.20", "12.40"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParseAmount(c.text)
			if err != nil {
				t.Fatalf("ParseAmount: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(c.want)) {
				t.Fatalf("got %s, want %s", got, c.want)
			}
		})
	}
}

func TestParseAmountNoMatch(t *testing.T) {
	for _, text := range []string{"", "no numbers here", "0.00", "9999999.99"} {
		if _, err := ParseAmount(text); !errors.Is(err, ErrNoAmount) {
			t.Errorf("ParseAmount(%q) err = %v, want ErrNoAmount", text, err)
		}
	}
}
