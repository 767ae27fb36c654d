package cmd

import (
	"strings"
	"testing"
)

func TestHealthCommand(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "", "health")
	if err != nil {
		t.Fatalf("health error = %v", err)
	}
	assertContains(t, out,
		"Backend: "+c.fake.URL(),
		"Backend online",
		"Vector DB: chroma",
		"LLM: gpt-4",
		"Tools: 3",
		"No sources indexed yet",
		"Found 0 export file(s)",
	)
}

func TestHealthCommand_Details(t *testing.T) {
	c := newCLI(t)
	if _, err := c.run(t, "", "ingest", "https://a.test"); err != nil {
		t.Fatalf("ingest error = %v", err)
	}

	out, err := c.run(t, "", "health", "--details")
	if err != nil {
		t.Fatalf("health error = %v", err)
	}
	assertContains(t, out, "Timeout: 5s", "Export directory: "+c.exportDir, "Found 1 source(s)", "[1] https://a.test", "Health check passed")
}

func TestHealthCommand_Offline(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "", "--base-url", "http://127.0.0.1:1", "health")
	if err == nil {
		t.Fatal("expected an error when the backend is unreachable")
	}
	if !strings.Contains(err.Error(), "health check failed") {
		t.Errorf("error = %v", err)
	}
	assertContains(t, out, "Backend unreachable", "Make sure the backend server is running on http://127.0.0.1:1")
}
