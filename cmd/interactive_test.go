package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInteractive_Chat(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "hello\n/log\n/data\n/bogus\n/quit\nnever sent\n")
	if err != nil {
		t.Fatalf("interactive error = %v", err)
	}
	assertContains(t, out,
		"Welcome!",
		"API Connected",
		"Type /help for commands.",
		"You said: hello",
		"Agent activity (",
		"online (",
		"No extracted data",
		"Unknown command /bogus",
	)
	if got := c.fake.Calls("POST /chat"); got != 1 {
		t.Errorf("chat calls = %d, want 1", got)
	}
}

func TestInteractive_EndOfInput(t *testing.T) {
	c := newCLI(t)

	if _, err := c.run(t, "/help\n"); err != nil {
		t.Fatalf("interactive error = %v", err)
	}
	if _, err := c.run(t, ""); err != nil {
		t.Fatalf("interactive error on empty input = %v", err)
	}
}

func TestInteractive_IngestPrompt(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "/ingest\nhttps://a.test\nhttps://b.test\n\n/sources\n/sources remote\n/quit\n")
	if err != nil {
		t.Fatalf("interactive error = %v", err)
	}
	assertContains(t, out, "Enter one URL per line", "Indexed 10 chunks from 2 URL(s).", "Indexed sources (2)", "Backend sources (2)")
	if got := c.fake.Calls("GET /sources"); got != 1 {
		t.Errorf("remote sources calls = %d, want 1", got)
	}
}

func TestInteractive_ExtractAndExport(t *testing.T) {
	c := newCLI(t)

	script := strings.Join([]string{
		"/extract",
		"/extract contacts",
		"/chart",
		"/export contacts.json",
		"/save",
		"/quit",
	}, "\n") + "\n"
	out, err := c.run(t, script)
	if err != nil {
		t.Fatalf("interactive error = %v", err)
	}
	assertContains(t, out, "Usage: /extract <type> [query]", "Found 2 contacts records in all", "Email", "Phone", "Saved")

	for _, name := range []string{"contacts.json", "transcript.md"} {
		if _, err := os.Stat(filepath.Join(c.exportDir, name)); err != nil {
			t.Errorf("%s not saved: %v", name, err)
		}
	}
}

func TestInteractive_ExportWithoutData(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "/export\n/quit\n")
	if err != nil {
		t.Fatalf("interactive error = %v", err)
	}
	assertContains(t, out, "No extracted data to export")
}

func TestInteractive_Offline(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "hello\n/status\n/quit\n", "--base-url", "http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("interactive error = %v", err)
	}
	assertContains(t, out, "API Offline", "Health check failed", "Workflows are disabled until it recovers")
	if strings.Contains(out, "You said") {
		t.Error("workflow ran while offline")
	}
}

func TestInteractive_IngestOfflineSkipsPrompt(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "/ingest\nhttps://a.test\n/quit\n", "--base-url", "http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("interactive error = %v", err)
	}
	assertContains(t, out, "Workflows are disabled until it recovers")
	if strings.Contains(out, "Enter one URL per line") {
		t.Error("URL prompt shown while offline")
	}
	// status at start, /ingest, then the URL line as a refused chat message
	if got := strings.Count(out, "Workflows are disabled"); got != 3 {
		t.Errorf("banner shown %d times, want 3", got)
	}
}

func TestInteractive_RemoteExports(t *testing.T) {
	c := newCLI(t)
	c.fake.AddExport("report.csv", []byte("x\n"))

	out, err := c.run(t, "/exports\n/fetch report.csv\n/fetch\n/refresh\n/quit\n")
	if err != nil {
		t.Fatalf("interactive error = %v", err)
	}
	assertContains(t, out, "report.csv", "Usage: /fetch <name>")
	if _, err := os.Stat(filepath.Join(c.exportDir, "report.csv")); err != nil {
		t.Errorf("report.csv not fetched: %v", err)
	}
	if got := c.fake.Calls("GET /health"); got != 2 {
		t.Errorf("health calls = %d, want 2", got)
	}
}
