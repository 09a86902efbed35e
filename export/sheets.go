package export

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSink appends export rows to a Google Sheets spreadsheet. It
// receives the same row set as the CSV sink; RAW value input keeps the
// service from re-interpreting cell contents, and the formula guard was
// already applied when the rows were built.
type SheetsSink struct {
	srv           *sheets.Service
	spreadsheetID string
	sheetRange    string
}

// NewSheetsSink builds a sink from an authorized token source. Obtaining
// credentials is the caller's concern.
func NewSheetsSink(
	ctx context.Context,
	ts oauth2.TokenSource,
	spreadsheetID, sheetRange string,
) (*SheetsSink, error) {
	srv, err := sheets.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return &SheetsSink{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		sheetRange:    sheetRange,
	}, nil
}

// Append adds the rows after the last non-empty row of the target
// range.
func (s *SheetsSink) Append(ctx context.Context, rows []Row) error {
	values := make([][]any, 0, len(rows))

	for _, row := range rows {
		cells := make([]any, 0, len(row))
		for _, field := range row {
			cells = append(cells, field)
		}

		values = append(values, cells)
	}

	vr := &sheets.ValueRange{Values: values}

	_, err := s.srv.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetRange, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("unable to append rows to spreadsheet: %w", err)
	}

	return nil
}
