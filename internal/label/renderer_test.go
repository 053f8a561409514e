package label

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BoostersSCM/barcode-inventory/internal/inventory"
)

func testRecord() *inventory.Record {
	return &inventory.Record{
		SerialNumber:    42,
		Category:        inventory.CategoryManaged,
		ProductCode:     "P-100",
		ProductName:     "Collagen Powder",
		Lot:             "L2608",
		ExpiryDate:      "2027-01-15",
		DisposalDate:    "2028-01-15",
		StorageLocation: "A-01-03",
		Version:         "v2",
		Status:          inventory.StatusInStock,
	}
}

func TestRender_ProducesDecodablePNG(t *testing.T) {
	data, err := Render(testRecord())

	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, 480, bounds.Dx())
	assert.Equal(t, 320, bounds.Dy())
}

func TestRender_SampleRecord(t *testing.T) {
	rec := testRecord()
	rec.Category = inventory.CategorySample
	rec.Lot = inventory.SampleLot
	rec.ExpiryDate = inventory.NotApplicable
	rec.DisposalDate = inventory.NotApplicable
	rec.Version = inventory.NotApplicable

	data, err := Render(rec)

	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestRender_LongProductNameWraps(t *testing.T) {
	rec := testRecord()
	rec.ProductName = "Ultra Premium Marine Collagen Peptide Powder Special Edition 500g"

	data, err := Render(rec)

	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{""}, wrap("", 10))
	assert.Equal(t, []string{"short"}, wrap("short", 10))
	assert.Equal(t, []string{"0123456789", "abc"}, wrap("0123456789abc", 10))
}
