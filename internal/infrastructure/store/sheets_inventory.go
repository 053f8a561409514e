package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/BoostersSCM/barcode-inventory/internal/inventory"
)

// Sheet layout: one row per record, columns A-M in inventory.Record
// field order, header in row 1.
const (
	sheetName     = "inventory_status"
	sheetDataFrom = 2

	colStatus          = 10
	colOutboundAt      = 11
	colOutboundHandler = 12
)

// SheetsInventoryStore keeps stock records in a Google Sheets
// spreadsheet. It serves the legacy deployment where the warehouse
// team works directly in the sheet; reads and writes are not atomic
// against concurrent editors, so the PostgreSQL store is authoritative
// where both run.
type SheetsInventoryStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetID       int64
}

// NewSheetsInventoryStore connects to the spreadsheet using a service
// account credentials file.
func NewSheetsInventoryStore(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsInventoryStore, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", inventory.ErrStoreUnavailable, err)
	}

	meta, err := svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", inventory.ErrStoreUnavailable, err)
	}
	var sheetID int64 = -1
	for _, sh := range meta.Sheets {
		if sh.Properties.Title == sheetName {
			sheetID = sh.Properties.SheetId
			break
		}
	}
	if sheetID < 0 {
		return nil, fmt.Errorf("spreadsheet has no sheet named %s", sheetName)
	}

	return &SheetsInventoryStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetID:       sheetID,
	}, nil
}

// Insert scans the serial column for the current maximum and appends a
// row with the next serial.
func (s *SheetsInventoryStore) Insert(ctx context.Context, rec *inventory.Record) (int64, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID,
		fmt.Sprintf("%s!A%d:A", sheetName, sheetDataFrom)).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read serial column: %w", err)
	}

	existing := make([]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) > 0 {
			existing = append(existing, fmt.Sprint(row[0]))
		}
	}
	serial := inventory.NextSerial(existing)

	stored := *rec
	stored.SerialNumber = serial
	_, err = s.svc.Spreadsheets.Values.Append(s.spreadsheetID, sheetName,
		&sheets.ValueRange{Values: [][]any{recordToRow(&stored)}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("append record row: %w", err)
	}
	return serial, nil
}

func (s *SheetsInventoryStore) FindBySerial(ctx context.Context, serial string) (*inventory.Record, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(serial), 10, 64)
	if err != nil {
		return nil, nil
	}

	records, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].SerialNumber == n {
			return &records[i], nil
		}
	}
	return nil, nil
}

func (s *SheetsInventoryStore) GetAll(ctx context.Context) ([]inventory.Record, error) {
	rows, err := s.readRows(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]inventory.Record, 0, len(rows))
	for _, row := range rows {
		rec, ok := rowToRecord(row)
		if !ok {
			continue
		}
		records = append(records, *rec)
	}
	return records, nil
}

// Ship finds the record's row, checks its status and overwrites the
// status and outbound cells. The read and the write are separate
// requests, so a concurrent editor can race this; acceptable for the
// single-operator spreadsheet deployment.
func (s *SheetsInventoryStore) Ship(ctx context.Context, serial int64, handler, shippedAt string) (inventory.ShipOutcome, error) {
	rows, err := s.readRows(ctx)
	if err != nil {
		return 0, err
	}

	rowIdx := -1
	for i, row := range rows {
		rec, ok := rowToRecord(row)
		if !ok {
			continue
		}
		if rec.SerialNumber == serial {
			if rec.Status != inventory.StatusInStock {
				return inventory.ShipAlreadyShipped, nil
			}
			rowIdx = i
			break
		}
	}
	if rowIdx < 0 {
		return inventory.ShipNotFound, nil
	}

	rng := fmt.Sprintf("%s!K%d:M%d", sheetName, sheetDataFrom+rowIdx, sheetDataFrom+rowIdx)
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng,
		&sheets.ValueRange{Values: [][]any{{string(inventory.StatusShipped), shippedAt, handler}}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("update record row: %w", err)
	}
	return inventory.ShipOK, nil
}

// fieldColumns maps updatable field names onto their sheet column.
var fieldColumns = map[string]string{
	"lot":              "E",
	"expiry_date":      "F",
	"disposal_date":    "G",
	"storage_location": "H",
	"version":          "I",
}

// UpdateFields overwrites the corrected cells in the record's row, one
// range per field in a single batched request.
func (s *SheetsInventoryStore) UpdateFields(ctx context.Context, serial int64, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	for field := range fields {
		if !inventory.UpdatableFields[field] {
			return fmt.Errorf("%w: %s", inventory.ErrInvalidField, field)
		}
	}

	rows, err := s.readRows(ctx)
	if err != nil {
		return err
	}
	rowIdx := -1
	for i, row := range rows {
		rec, ok := rowToRecord(row)
		if !ok {
			continue
		}
		if rec.SerialNumber == serial {
			rowIdx = i
			break
		}
	}
	if rowIdx < 0 {
		return fmt.Errorf("%w: serial %d", inventory.ErrRecordNotFound, serial)
	}

	var data []*sheets.ValueRange
	for field, value := range fields {
		cell := fmt.Sprintf("%s!%s%d", sheetName, fieldColumns[field], sheetDataFrom+rowIdx)
		data = append(data, &sheets.ValueRange{
			Range:  cell,
			Values: [][]any{{value}},
		})
	}
	_, err = s.svc.Spreadsheets.Values.BatchUpdate(s.spreadsheetID,
		&sheets.BatchUpdateValuesRequest{
			ValueInputOption: "RAW",
			Data:             data,
		}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update record cells: %w", err)
	}
	return nil
}

// Delete removes the matching rows bottom-up so earlier deletions do
// not shift the indices of later ones.
func (s *SheetsInventoryStore) Delete(ctx context.Context, serials []int64) error {
	if len(serials) == 0 {
		return nil
	}
	wanted := make(map[int64]struct{}, len(serials))
	for _, serial := range serials {
		wanted[serial] = struct{}{}
	}

	rows, err := s.readRows(ctx)
	if err != nil {
		return err
	}

	var requests []*sheets.Request
	for i := len(rows) - 1; i >= 0; i-- {
		rec, ok := rowToRecord(rows[i])
		if !ok {
			continue
		}
		if _, hit := wanted[rec.SerialNumber]; !hit {
			continue
		}
		start := int64(sheetDataFrom - 1 + i)
		requests = append(requests, &sheets.Request{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    s.sheetID,
					Dimension:  "ROWS",
					StartIndex: start,
					EndIndex:   start + 1,
				},
			},
		})
	}
	if len(requests) == 0 {
		return nil
	}

	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete record rows: %w", err)
	}
	return nil
}

func (s *SheetsInventoryStore) readRows(ctx context.Context) ([][]any, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID,
		fmt.Sprintf("%s!A%d:M", sheetName, sheetDataFrom)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read record rows: %w", err)
	}
	return resp.Values, nil
}

func recordToRow(rec *inventory.Record) []any {
	return []any{
		strconv.FormatInt(rec.SerialNumber, 10),
		string(rec.Category),
		rec.ProductCode,
		rec.ProductName,
		rec.Lot,
		rec.ExpiryDate,
		rec.DisposalDate,
		rec.StorageLocation,
		rec.Version,
		rec.InboundAt,
		string(rec.Status),
		rec.OutboundAt,
		rec.OutboundHandler,
	}
}

// rowToRecord parses one sheet row. Rows whose serial cell is blank or
// not numeric are skipped, same as serial allocation skips them.
func rowToRecord(row []any) (*inventory.Record, bool) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(fmt.Sprint(row[i]))
		}
		return ""
	}

	serial, err := strconv.ParseInt(cell(0), 10, 64)
	if err != nil {
		return nil, false
	}
	return &inventory.Record{
		SerialNumber:    serial,
		Category:        inventory.Category(cell(1)),
		ProductCode:     cell(2),
		ProductName:     cell(3),
		Lot:             cell(4),
		ExpiryDate:      cell(5),
		DisposalDate:    cell(6),
		StorageLocation: cell(7),
		Version:         cell(8),
		InboundAt:       cell(9),
		Status:          inventory.Status(cell(colStatus)),
		OutboundAt:      cell(colOutboundAt),
		OutboundHandler: cell(colOutboundHandler),
	}, true
}
