package receipt

import (
	"image"

	"github.com/disintegration/imaging"
)

// preprocessVariants produces the image variants fed to OCR, ordered from
// least to most aggressive. Receipts photographed at odd angles or in poor
// light often only read on one of them.
func preprocessVariants(img image.Image) []image.Image {
	gray := imaging.Grayscale(img)

	// Small captures OCR poorly; upscale anything narrower than 1000px.
	if gray.Bounds().Dx() < 1000 {
		gray = imaging.Resize(gray, 1000, 0, imaging.Lanczos)
	}

	contrast := imaging.AdjustContrast(gray, 40)
	sharp := imaging.Sharpen(imaging.AdjustContrast(gray, 20), 1.5)

	return []image.Image{gray, contrast, sharp}
}
