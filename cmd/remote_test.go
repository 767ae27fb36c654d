package cmd

import (
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/ragchat/testutil"
)

func TestSourcesCommand(t *testing.T) {
	c := newCLI(t)
	if _, err := c.run(t, "", "ingest", "https://a.test", "https://b.test"); err != nil {
		t.Fatalf("ingest error = %v", err)
	}

	out, err := c.run(t, "", "sources")
	if err != nil {
		t.Fatalf("sources error = %v", err)
	}
	assertContains(t, out, "Indexed sources (2)", "https://a.test", "https://b.test")
}

func TestSourcesCommand_Error(t *testing.T) {
	c := newCLI(t)
	c.fake.Respond("GET /sources", http.StatusInternalServerError, `{"detail":"index unavailable"}`)

	_, err := c.run(t, "", "sources")
	if err == nil || !strings.Contains(err.Error(), "failed to list sources") {
		t.Fatalf("error = %v", err)
	}
}

func TestExportsListCommand(t *testing.T) {
	c := newCLI(t)
	c.fake.AddExport("report.csv", []byte("a,b\n"))
	c.fake.AddExport("contacts.json", []byte("[]"))

	out, err := c.run(t, "", "exports", "list")
	if err != nil {
		t.Fatalf("exports list error = %v", err)
	}
	assertContains(t, out, "contacts.json", "report.csv")
}

func TestExportsFetchCommand(t *testing.T) {
	c := newCLI(t)
	c.fake.AddExport("report.csv", []byte("a,b\n1,2\n"))

	out, err := c.run(t, "", "exports", "fetch", "report.csv", "missing.csv")
	if err == nil {
		t.Fatal("expected an error for the missing export")
	}
	if !strings.Contains(err.Error(), "1 of 2 download(s) failed") {
		t.Errorf("error = %v", err)
	}
	assertContains(t, out, "Saved", "missing.csv: export not found: missing.csv")

	if got := testutil.ReadFile(t, filepath.Join(c.exportDir, "report.csv")); got != "a,b\n1,2\n" {
		t.Errorf("report.csv = %q", got)
	}
}
