package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/ragchat/internal"
)

// JSONExporter exports in JSON format (pretty-printed)
type JSONExporter struct{}

// ExportDataset writes the records as a JSON array, keeping column order
func (e *JSONExporter) ExportDataset(ds internal.Dataset, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if ds == nil {
		ds = internal.Dataset{}
	}
	return enc.Encode(ds)
}

// ExportTranscript writes the messages as a JSON array
func (e *JSONExporter) ExportTranscript(msgs []internal.Message, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if msgs == nil {
		msgs = []internal.Message{}
	}
	return enc.Encode(msgs)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
