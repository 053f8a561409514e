// Package label renders printable Code 128 stock labels as PNG images.
package label

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/BoostersSCM/barcode-inventory/internal/inventory"
)

const (
	labelWidth  = 480
	labelHeight = 320

	barcodeWidth  = 400
	barcodeHeight = 90

	marginX    = 20
	lineHeight = 18

	// maxLineChars is where product names wrap onto a second line.
	maxLineChars = 38
)

var categoryLabels = map[inventory.Category]string{
	inventory.CategoryManaged:      "Managed",
	inventory.CategoryStandard:     "Standard",
	inventory.CategoryBulkStandard: "Bulk Standard",
	inventory.CategorySample:       "Sample",
}

// Render draws a label for the record: product name, category, lot and
// expiry, storage location, a Code 128 barcode of the serial number and
// a centered caption underneath it.
func Render(rec *inventory.Record) ([]byte, error) {
	serial := strconv.FormatInt(rec.SerialNumber, 10)

	code, err := code128.Encode(serial)
	if err != nil {
		return nil, fmt.Errorf("encode barcode for serial %s: %w", serial, err)
	}
	scaled, err := barcode.Scale(code, barcodeWidth, barcodeHeight)
	if err != nil {
		return nil, fmt.Errorf("scale barcode: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, labelWidth, labelHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	y := 28
	for _, line := range wrap(rec.ProductName, maxLineChars) {
		drawText(img, marginX, y, line)
		y += lineHeight
	}
	drawText(img, marginX, y, fmt.Sprintf("Category: %s", categoryName(rec.Category)))
	y += lineHeight
	drawText(img, marginX, y, fmt.Sprintf("LOT: %s  EXP: %s  Ver: %s", rec.Lot, rec.ExpiryDate, rec.Version))
	y += lineHeight
	drawText(img, marginX, y, fmt.Sprintf("Location: %s", rec.StorageLocation))
	y += lineHeight / 2

	barX := (labelWidth - barcodeWidth) / 2
	draw.Draw(img, image.Rect(barX, y, barX+barcodeWidth, y+barcodeHeight), scaled, scaled.Bounds().Min, draw.Src)
	y += barcodeHeight + lineHeight

	caption := fmt.Sprintf("S/N: %s / %s", serial, rec.ProductCode)
	drawTextCentered(img, y, caption)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode label png: %w", err)
	}
	return buf.Bytes(), nil
}

func categoryName(c inventory.Category) string {
	if name, ok := categoryLabels[c]; ok {
		return name
	}
	return string(c)
}

func drawText(img draw.Image, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func drawTextCentered(img draw.Image, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(text).Ceil()
	d.Dot = fixed.P((labelWidth-width)/2, y)
	d.DrawString(text)
}

// wrap splits text into lines of at most limit characters, breaking on
// rune boundaries. Long product names get two lines instead of running
// off the label.
func wrap(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return []string{""}
	}
	var lines []string
	for len(runes) > limit {
		lines = append(lines, string(runes[:limit]))
		runes = runes[limit:]
	}
	return append(lines, string(runes))
}
