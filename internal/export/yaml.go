package export

import (
	"io"

	"github.com/iksnae/ragchat/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports in YAML format
type YAMLExporter struct{}

// ExportDataset writes the records as a YAML sequence
func (e *YAMLExporter) ExportDataset(ds internal.Dataset, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode([]internal.Record(ds))
}

// ExportTranscript writes the messages as a YAML sequence
func (e *YAMLExporter) ExportTranscript(msgs []internal.Message, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(msgs)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
