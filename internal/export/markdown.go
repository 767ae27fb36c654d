package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iksnae/ragchat/internal"
)

// MarkdownExporter exports in Markdown format
type MarkdownExporter struct{}

// ExportDataset writes a Markdown table
func (e *MarkdownExporter) ExportDataset(ds internal.Dataset, w io.Writer) error {
	if ds.Empty() {
		return nil
	}
	columns := ds.Columns()

	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = escapeCell(col)
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))

	for i := range cells {
		cells[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))

	for _, rec := range ds {
		for i, col := range columns {
			cells[i] = escapeCell(rec.Text(col))
		}
		if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | ")); err != nil {
			return err
		}
	}
	return nil
}

// ExportTranscript writes the conversation with one section per message
func (e *MarkdownExporter) ExportTranscript(msgs []internal.Message, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Conversation\n\n")
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(msgs))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range msgs {
		timestamp := ""
		if !msg.Timestamp.IsZero() {
			timestamp = fmt.Sprintf(" (%s)", msg.Timestamp.Format(time.RFC3339))
		}

		content := escapeMarkdown(msg.Content)
		if msg.Failed {
			content = "> " + strings.ReplaceAll(content, "\n", "\n> ")
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", msg.AgentName(), timestamp, content)

		if len(msg.ExportData) > 0 {
			if err := e.ExportDataset(msg.ExportData, w); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(w)
		}

		// Add horizontal rule after each message (except the last one)
		if i < len(msgs)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", "<br>")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
