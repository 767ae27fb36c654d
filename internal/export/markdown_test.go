package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/iksnae/ragchat/internal"
)

func TestMarkdownExporter_ExportTranscript(t *testing.T) {
	ts := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		msgs    []internal.Message
		want    []string
		notWant []string
	}{
		{
			name: "basic transcript",
			msgs: internal.CreateTestTranscript(),
			want: []string{
				"# Conversation",
				"**Messages:** 2",
				"**user:**",
				"Hello, what is on the page?",
				"**Q&A Agent:**",
			},
		},
		{
			name: "message with timestamp",
			msgs: []internal.Message{
				{Role: internal.RoleUser, Content: "Hello", Timestamp: ts},
			},
			want: []string{"**user:** (2023-01-01T00:00:00Z)"},
		},
		{
			name: "failure notice is quoted",
			msgs: []internal.Message{
				{Role: internal.RoleSystem, Content: "Error: Backend unreachable\nretry later", Failed: true},
			},
			want: []string{"> Error: Backend unreachable\n> retry later"},
		},
		{
			name: "attached dataset becomes a table",
			msgs: []internal.Message{
				{
					Role:       internal.RoleAssistant,
					Agent:      internal.AgentExtractor.Ptr(),
					Content:    "Found 1 record",
					ExportData: internal.Dataset{internal.RecordOf("Name", "Ada", "Type", "Email")},
				},
			},
			want: []string{"| Name | Type |", "| --- | --- |", "| Ada | Email |"},
		},
		{
			name: "empty transcript",
			msgs: nil,
			want: []string{"# Conversation", "**Messages:** 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &MarkdownExporter{}

			if err := exporter.ExportTranscript(tt.msgs, &buf); err != nil {
				t.Fatalf("MarkdownExporter.ExportTranscript() error = %v", err)
			}

			output := buf.String()
			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(output, notWantStr) {
					t.Errorf("Output should not contain %q, got:\n%s", notWantStr, output)
				}
			}
		})
	}
}

func TestMarkdownExporter_ExportDataset(t *testing.T) {
	ds := internal.Dataset{
		internal.RecordOf("Name", "A|B", "Note", "line1\nline2"),
		internal.RecordOf("Name", "C"),
	}

	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).ExportDataset(ds, &buf); err != nil {
		t.Fatalf("MarkdownExporter.ExportDataset() error = %v", err)
	}

	want := "| Name | Note |\n| --- | --- |\n| A\\|B | line1<br>line2 |\n| C |  |\n"
	if buf.String() != want {
		t.Errorf("ExportDataset() = %q, want %q", buf.String(), want)
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	exporter := &MarkdownExporter{}
	if got := exporter.Extension(); got != "md" {
		t.Errorf("MarkdownExporter.Extension() = %v, want md", got)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		notWant []string
	}{
		{
			name:  "basic text",
			input: "Hello world",
			want:  []string{"Hello world"},
		},
		{
			name:  "markdown bold is kept",
			input: "This is **bold** text",
			want:  []string{"**bold**"},
		},
		{
			name:    "markdown underline",
			input:   "This is __underlined__ text",
			want:    []string{"\\_\\_underlined\\_\\_"},
			notWant: []string{" __underlined__"},
		},
		{
			name:  "code block preserved",
			input: "```go\nx := a__b\n```",
			want:  []string{"```go", "x := a__b", "```"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := escapeMarkdown(tt.input)
			for _, wantStr := range tt.want {
				if !strings.Contains(got, wantStr) {
					t.Errorf("escapeMarkdown() should contain %q, got: %s", wantStr, got)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(got, notWantStr) {
					t.Errorf("escapeMarkdown() should not contain %q, got: %s", notWantStr, got)
				}
			}
		})
	}
}
