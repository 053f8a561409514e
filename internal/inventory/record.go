package inventory

import (
	"strconv"
	"strings"
	"time"
)

// Category classifies how a stock item is managed.
type Category string

const (
	CategoryManaged      Category = "managed"
	CategoryStandard     Category = "standard"
	CategoryBulkStandard Category = "bulk_standard"
	CategorySample       Category = "sample"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryManaged, CategoryStandard, CategoryBulkStandard, CategorySample:
		return true
	}
	return false
}

// Status is the lifecycle state of a stock record.
type Status string

const (
	StatusInStock Status = "in_stock"
	StatusShipped Status = "shipped"
)

const (
	// NotApplicable fills fields that do not apply to a record,
	// such as lot and expiry on sample stock.
	NotApplicable = "N/A"

	// SampleLot is the fixed lot value assigned to sample stock.
	SampleLot = "SAMPLE"

	// DateLayout is the format for date-only fields (expiry, disposal).
	DateLayout = "2006-01-02"

	// TimestampLayout is the format for inbound/outbound timestamps.
	TimestampLayout = "2006-01-02 15:04:05"

	// disposalOffsetDays is how long after expiry a retained item is
	// kept before disposal.
	disposalOffsetDays = 365
)

// Record is a single tracked stock item. One record per physical unit,
// identified by its serial number.
type Record struct {
	SerialNumber    int64    `json:"serial_number"`
	Category        Category `json:"category"`
	ProductCode     string   `json:"product_code"`
	ProductName     string   `json:"product_name"`
	Lot             string   `json:"lot"`
	ExpiryDate      string   `json:"expiry_date"`
	DisposalDate    string   `json:"disposal_date"`
	StorageLocation string   `json:"storage_location"`
	Version         string   `json:"version"`
	InboundAt       string   `json:"inbound_at"`
	Status          Status   `json:"status"`
	OutboundAt      string   `json:"outbound_at,omitempty"`
	OutboundHandler string   `json:"outbound_handler,omitempty"`
}

// DefaultLocation returns the warehouse timezone. All inbound and
// outbound timestamps are recorded in KST.
func DefaultLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// DisposalDate returns the disposal date derived from an expiry date:
// exactly 365 days after expiry, formatted as a date string.
func DisposalDate(expiry time.Time) string {
	return expiry.AddDate(0, 0, disposalOffsetDays).Format(DateLayout)
}

// NextSerial computes the next serial number from the raw serial column
// of an existing store. Blank and non-numeric entries are skipped, so a
// stray header row or free-text note never breaks allocation. An empty
// store yields 1.
func NextSerial(existing []string) int64 {
	var max int64
	for _, raw := range existing {
		raw = strings.TrimSpace(raw)
		if !isDigits(raw) {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}

// IdentifierKind is the result of classifying a scanned code.
type IdentifierKind int

const (
	KindInvalid IdentifierKind = iota
	KindSerial
	KindProductBarcode
)

// productBarcodePrefix marks EAN-13 product barcodes. Serial numbers
// never collide with it because allocation starts at 1 and thirteen
// digit serials starting with 880 are out of reach in practice, so the
// prefix is reserved for products.
const productBarcodePrefix = "880"

const ean13Length = 13

// ClassifyIdentifier decides whether a scanned code is a serial number,
// a product barcode, or neither. A 13-digit code starting with 880 is a
// product barcode; any other all-digit code is a serial number.
func ClassifyIdentifier(code string) IdentifierKind {
	code = strings.TrimSpace(code)
	if !isDigits(code) {
		return KindInvalid
	}
	if len(code) == ean13Length && strings.HasPrefix(code, productBarcodePrefix) {
		return KindProductBarcode
	}
	return KindSerial
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
