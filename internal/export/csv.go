package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/iksnae/ragchat/internal"
)

// CSVExporter writes comma-separated values. Fields containing a comma,
// quote or line break are quoted with embedded quotes doubled.
type CSVExporter struct{}

// ExportDataset writes a header row of the first record's columns and one
// row per record; missing keys become empty cells
func (e *CSVExporter) ExportDataset(ds internal.Dataset, w io.Writer) error {
	if ds.Empty() {
		return nil
	}
	cw := csv.NewWriter(w)
	columns := ds.Columns()
	if err := cw.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for _, rec := range ds {
		for i, col := range columns {
			row[i] = rec.Text(col)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportTranscript writes one row per message
func (e *CSVExporter) ExportTranscript(msgs []internal.Message, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "role", "agent", "content"}); err != nil {
		return err
	}
	for _, msg := range msgs {
		ts := ""
		if !msg.Timestamp.IsZero() {
			ts = msg.Timestamp.Format(time.RFC3339)
		}
		agent := ""
		if msg.Agent != nil {
			agent = msg.Agent.Name
		}
		if err := cw.Write([]string{ts, string(msg.Role), agent, msg.Content}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Extension returns the file extension for this format
func (e *CSVExporter) Extension() string {
	return "csv"
}
