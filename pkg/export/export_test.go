package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func TestWriteHistory(t *testing.T) {
	records := []models.HistoryRecord{
		{Timestamp: time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC), Rating: 86, Price: 4100},
		{Timestamp: time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC), Rating: 86, Price: 3900},
	}

	var buf bytes.Buffer
	if err := WriteHistory(&buf, records); err != nil {
		t.Fatalf("WriteHistory() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(HistorySheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	want := [][]string{
		{"Timestamp (UTC)", "Rating", "Price"},
		{"2025-02-01 12:00:00", "86", "4100"},
		{"2025-01-31 12:00:00", "86", "3900"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHistory(&buf, nil); err != nil {
		t.Fatalf("WriteHistory() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows(HistorySheet)
	if len(rows) != 1 {
		t.Errorf("got %d rows, want header only", len(rows))
	}
}
