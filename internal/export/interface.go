package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/iksnae/ragchat/internal"
)

// DefaultBaseName is the file name stem used when the caller supplies none
const DefaultBaseName = "export"

// Exporter defines the interface for all export formats. Every format can
// encode both the extracted dataset and the session transcript.
type Exporter interface {
	ExportDataset(ds internal.Dataset, w io.Writer) error
	ExportTranscript(msgs []internal.Message, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "csv":
		return &CSVExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "sqlite", "db":
		return &SQLiteExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: csv, jsonl, md, yaml, json, sqlite)", format)
	}
}

// DefaultFileName returns export.<ext> for the exporter, e.g. export.csv
func DefaultFileName(e Exporter) string {
	return DefaultBaseName + "." + e.Extension()
}

// EncodeDataset encodes a dataset in memory. An empty dataset yields no
// artifact: nil bytes and no error.
func EncodeDataset(e Exporter, ds internal.Dataset) ([]byte, error) {
	if ds.Empty() {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := e.ExportDataset(ds, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeCSV is EncodeDataset with the CSV exporter
func EncodeCSV(ds internal.Dataset) ([]byte, error) {
	return EncodeDataset(&CSVExporter{}, ds)
}
