package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/iksnae/ragchat/internal"
)

// JSONLExporter exports one JSON object per line
type JSONLExporter struct{}

// ExportDataset writes one record per line
func (e *JSONLExporter) ExportDataset(ds internal.Dataset, w io.Writer) error {
	enc := json.NewEncoder(w)
	for i, rec := range ds {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
	}
	return nil
}

// ExportTranscript writes one message per line
func (e *JSONLExporter) ExportTranscript(msgs []internal.Message, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range msgs {
		obj := map[string]interface{}{
			"role":    msg.Role,
			"content": msg.Content,
		}
		if msg.Agent != nil {
			obj["agent"] = msg.Agent.ID
		}
		if !msg.Timestamp.IsZero() {
			obj["timestamp"] = msg.Timestamp.Format(time.RFC3339)
		}
		if len(msg.ExportData) > 0 {
			obj["export_data"] = msg.ExportData
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
