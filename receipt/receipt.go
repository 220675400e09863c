// Package receipt extracts a suggested amount from receipt images with
// Tesseract OCR. Results are advisory: callers surface the suggestion to the
// user and never write it into the ledger directly.
package receipt

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
	"github.com/shopspring/decimal"
)

// ExtractAmount runs OCR over preprocessing variants of the image at path and
// returns the first plausible amount. Returns ErrNoAmount when every variant
// comes up empty.
func ExtractAmount(path string) (decimal.Decimal, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return decimal.Zero, fmt.Errorf("open image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	// Digits, separators and the words of total lines are all we care about.
	_ = client.SetLanguage("eng")

	tmpDir, err := os.MkdirTemp("", "receipt-ocr-*")
	if err != nil {
		return decimal.Zero, fmt.Errorf("tmp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	var lastErr error = ErrNoAmount
	for i, variant := range preprocessVariants(img) {
		variantPath := filepath.Join(tmpDir, fmt.Sprintf("variant-%d.png", i))
		if err := imaging.Save(variant, variantPath); err != nil {
			lastErr = fmt.Errorf("save variant: %w", err)
			continue
		}
		if err := client.SetImage(variantPath); err != nil {
			lastErr = fmt.Errorf("set image: %w", err)
			continue
		}
		text, err := client.Text()
		if err != nil {
			lastErr = fmt.Errorf("ocr: %w", err)
			continue
		}
		amount, err := ParseAmount(text)
		if err == nil {
			return amount, nil
		}
	}
	return decimal.Zero, lastErr
}
