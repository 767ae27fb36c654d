package cmd

import (
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/ragchat/testutil"
)

func TestIngestCommand(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "", "ingest", "https://a.test", "https://b.test")
	if err != nil {
		t.Fatalf("ingest error = %v", err)
	}
	assertContains(t, out, "Indexed 10 chunks from 2 URL(s).")

	body := string(c.fake.LastBody("POST /ingest"))
	if !strings.Contains(body, "https://a.test") || !strings.Contains(body, "https://b.test") {
		t.Errorf("ingest body = %s", body)
	}
}

func TestIngestCommand_Failure(t *testing.T) {
	c := newCLI(t)
	c.fake.Respond("POST /ingest", http.StatusInternalServerError, `{"detail":"scraper crashed"}`)

	out, err := c.run(t, "", "ingest", "https://a.test")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "ingestion failed") {
		t.Errorf("error = %v", err)
	}
	assertContains(t, out, "Ingestion failed", "scraper crashed")
}

func TestChatCommand(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "", "chat", "what", "is", "here")
	if err != nil {
		t.Fatalf("chat error = %v", err)
	}
	assertContains(t, out, "👤 You", "what is here", "You said: what is here")
	if strings.Contains(out, "Extracted data") {
		t.Error("a reply without export data should not print a table")
	}
}

func TestChatCommand_WithExportData(t *testing.T) {
	c := newCLI(t)
	c.fake.Respond("POST /chat", http.StatusOK, `{"response":"Here are the contacts",`+
		`"intermediate_steps":[{"tool":"contact_extractor","input":"all"}],`+
		`"export_data":[{"Name":"Ada","Type":"Email","Value":"ada@x.com"}]}`)

	out, err := c.run(t, "", "chat", "find contacts")
	if err != nil {
		t.Fatalf("chat error = %v", err)
	}
	assertContains(t, out, "Here are the contacts", "Extracted data (1 records)", "ada@x.com", "Email")
}

func TestChatCommand_BackendError(t *testing.T) {
	c := newCLI(t)
	c.fake.Respond("POST /chat", http.StatusBadGateway, `{"detail":"llm down"}`)

	out, err := c.run(t, "", "chat", "hello")
	if err == nil || !strings.Contains(err.Error(), "chat failed") {
		t.Fatalf("error = %v, want chat failed", err)
	}
	assertContains(t, out, "❌ Error: llm down")
}

func TestExtractCommand(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "", "extract", "contacts")
	if err != nil {
		t.Fatalf("extract error = %v", err)
	}
	assertContains(t, out, "Found 2 contacts records in all", "Extracted data (2 records)", "ada@example.com")

	matches, _ := filepath.Glob(filepath.Join(c.exportDir, "*"))
	if len(matches) != 0 {
		t.Errorf("extract without --export wrote %v", matches)
	}
}

func TestExtractCommand_Export(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "", "extract", "contacts", "https://a.test", "--export", "contacts.csv")
	if err != nil {
		t.Fatalf("extract error = %v", err)
	}
	assertContains(t, out, "Found 2 contacts records in https://a.test", "Saved")

	got := testutil.ReadFile(t, filepath.Join(c.exportDir, "contacts.csv"))
	want := "Name,Type,Value\nAda,Email,ada@example.com\nBob,Phone,+1 555 0100\n"
	if got != want {
		t.Errorf("contacts.csv = %q, want %q", got, want)
	}
}

func TestExtractCommand_FormatFlag(t *testing.T) {
	c := newCLI(t)

	if _, err := c.run(t, "", "extract", "pricing", "-f", "jsonl"); err != nil {
		t.Fatalf("extract error = %v", err)
	}
	got := testutil.ReadFile(t, filepath.Join(c.exportDir, "export.jsonl"))
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), got)
	}
	if lines[0] != `{"Name":"Ada","Type":"Email","Value":"ada@example.com"}` {
		t.Errorf("first line = %s", lines[0])
	}
}

func TestExtractCommand_UnknownFormat(t *testing.T) {
	c := newCLI(t)

	if _, err := c.run(t, "", "extract", "contacts", "-f", "xml"); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestSummarizeCommand(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "", "summarize", "https://a.test")
	if err != nil {
		t.Fatalf("summarize error = %v", err)
	}
	assertContains(t, out, "Summary of https://a.test")
}

func TestWorkflowCommands_Args(t *testing.T) {
	c := newCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{"ingest needs a url", []string{"ingest"}},
		{"chat needs a message", []string{"chat"}},
		{"extract needs a type", []string{"extract"}},
		{"extract takes at most two", []string{"extract", "a", "b", "c"}},
		{"summarize needs one url", []string{"summarize"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.run(t, "", tt.args...); err == nil {
				t.Errorf("%v: expected an argument error", tt.args)
			}
		})
	}
	if n := c.fake.Calls("POST /chat") + c.fake.Calls("POST /ingest") + c.fake.Calls("POST /extract"); n != 0 {
		t.Errorf("backend received %d workflow calls", n)
	}
}
