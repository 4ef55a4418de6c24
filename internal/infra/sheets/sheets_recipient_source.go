package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ramadan_reminder_bot/internal/domain/recipient"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Custom errors
var ErrInvalidRange = fmt.Errorf("invalid sheet range")

// defaultColumns names the cells of a data row when the sheet has no
// header row, matching the reminder sheet's historical layout A-F.
var defaultColumns = []string{"full_name", "gender", "location", "phone", "category", "opt_in_status"}

// SheetRecipientSource reads recipient rows from a Google Sheet and
// writes delivery statuses back into a dedicated status column. The row
// number doubles as the opaque RowRef.
type SheetRecipientSource struct {
	svc       *sheets.Service
	sheetID   string
	dataRange string
	statusCol string
}

// NewSheetRecipientSource builds a source from raw service-account JSON
// credentials (already base64-decoded by config).
func NewSheetRecipientSource(ctx context.Context, serviceAccountJSON []byte, sheetID, dataRange, statusCol string) (*SheetRecipientSource, error) {
	conf, err := google.JWTConfigFromJSON(serviceAccountJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("error parsing service account credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("error creating sheets service: %w", err)
	}
	return &SheetRecipientSource{
		svc:       svc,
		sheetID:   sheetID,
		dataRange: dataRange,
		statusCol: statusCol,
	}, nil
}

// List fetches all rows of the configured data range in sheet order.
// Column names come from the sheet's header row when one exists, and
// fall back to the historical A-F layout otherwise.
func (s *SheetRecipientSource) List(ctx context.Context) ([]recipient.RawRow, error) {
	sheetName, startRow, startCol, endCol, err := parseRange(s.dataRange)
	if err != nil {
		return nil, err
	}

	columns := s.headerColumns(ctx, sheetName, startCol, endCol)

	resp, err := s.svc.Spreadsheets.Values.Get(s.sheetID, s.dataRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("error fetching sheet data: %w", err)
	}

	rows := make([]recipient.RawRow, 0, len(resp.Values))
	for i, cells := range resp.Values {
		fields := make(map[string]string, len(columns))
		for j, name := range columns {
			var v string
			if j < len(cells) {
				v, _ = cells[j].(string)
			}
			fields[name] = strings.TrimSpace(v)
		}
		rows = append(rows, recipient.RawRow{
			Ref:    recipient.RowRef(startRow + i),
			Fields: fields,
		})
	}
	return rows, nil
}

// WriteStatus records the delivery outcome in the status column of the
// given row. Re-writing the same value is a no-op on the sheet side.
func (s *SheetRecipientSource) WriteStatus(ctx context.Context, ref recipient.RowRef, status recipient.DeliveryStatus) error {
	sheetName, _, _, _, err := parseRange(s.dataRange)
	if err != nil {
		return err
	}
	target := fmt.Sprintf("%s!%s%d", sheetName, s.statusCol, int64(ref))
	vr := &sheets.ValueRange{Values: [][]interface{}{{string(status)}}}
	_, err = s.svc.Spreadsheets.Values.Update(s.sheetID, target, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("error writing status to row %d: %w", int64(ref), err)
	}
	return nil
}

// headerColumns reads row 1 of the sheet and returns normalized column
// names (lower-cased, spaces to underscores). Any failure or an empty
// header falls back to the default layout; a partial header is padded
// from the defaults.
func (s *SheetRecipientSource) headerColumns(ctx context.Context, sheetName, startCol, endCol string) []string {
	headerRange := fmt.Sprintf("%s!%s1:%s1", sheetName, startCol, endCol)
	resp, err := s.svc.Spreadsheets.Values.Get(s.sheetID, headerRange).Context(ctx).Do()
	if err != nil || len(resp.Values) == 0 {
		return defaultColumns
	}
	header := resp.Values[0]
	columns := make([]string, 0, len(header))
	for i, cell := range header {
		name, _ := cell.(string)
		name = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
		if name == "" && i < len(defaultColumns) {
			name = defaultColumns[i]
		}
		if name != "" {
			columns = append(columns, name)
		}
	}
	if len(columns) == 0 {
		return defaultColumns
	}
	return columns
}

// parseRange splits an A1-notation range like "Sheet1!A2:F" into sheet
// name, first data row and the column span.
func parseRange(a1 string) (sheetName string, startRow int, startCol, endCol string, err error) {
	name, cells, ok := strings.Cut(a1, "!")
	if !ok {
		return "", 0, "", "", fmt.Errorf("%w: %q (missing sheet name)", ErrInvalidRange, a1)
	}
	from, to, ok := strings.Cut(cells, ":")
	if !ok {
		return "", 0, "", "", fmt.Errorf("%w: %q (missing column span)", ErrInvalidRange, a1)
	}
	startCol, rowDigits := splitCell(from)
	endCol, _ = splitCell(to)
	if startCol == "" || endCol == "" || rowDigits == "" {
		return "", 0, "", "", fmt.Errorf("%w: %q", ErrInvalidRange, a1)
	}
	startRow, err = strconv.Atoi(rowDigits)
	if err != nil {
		return "", 0, "", "", fmt.Errorf("%w: %q", ErrInvalidRange, a1)
	}
	return name, startRow, startCol, endCol, nil
}

func splitCell(cell string) (col, row string) {
	i := 0
	for i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z' {
		i++
	}
	return cell[:i], cell[i:]
}
