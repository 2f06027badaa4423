// Package export writes price history to spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/xuri/excelize/v2"
)

const HistorySheet = "History"

var historyHeader = []interface{}{"Timestamp (UTC)", "Rating", "Price"}

// WriteHistory writes records as an xlsx workbook, one row per record in the
// order given.
func WriteHistory(w io.Writer, records []models.HistoryRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", HistorySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(HistorySheet, "A1", &historyHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetCellStyle(HistorySheet, "A1", "C1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(HistorySheet, "A", "A", 22); err != nil {
		return fmt.Errorf("failed to size column: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			rec.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			int(rec.Rating),
			rec.Price,
		}
		if err := f.SetSheetRow(HistorySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
