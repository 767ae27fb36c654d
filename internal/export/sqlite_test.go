package export

import (
	"bytes"
	"database/sql"
	"testing"

	"github.com/iksnae/ragchat/internal"
	"github.com/iksnae/ragchat/testutil"
)

func TestSQLiteExporter_ExportDataset(t *testing.T) {
	ds := internal.Dataset{
		internal.RecordOf("Name", "Ada", "Type", "Email", "Value", "ada@x.com"),
		internal.RecordOf("Name", "Bob", "Type", "Phone"),
	}

	var buf bytes.Buffer
	if err := (&SQLiteExporter{}).ExportDataset(ds, &buf); err != nil {
		t.Fatalf("SQLiteExporter.ExportDataset() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected a database file")
	}

	db := testutil.OpenSQLiteArtifact(t, buf.Bytes())
	rows, err := db.Query(`SELECT "Name", "Type", "Value" FROM records ORDER BY rowid`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	var got [][3]sql.NullString
	for rows.Next() {
		var row [3]sql.NullString
		if err := rows.Scan(&row[0], &row[1], &row[2]); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, row)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0][0].String != "Ada" || got[0][2].String != "ada@x.com" {
		t.Errorf("row 0 = %v", got[0])
	}
	if got[1][2].Valid {
		t.Errorf("missing value should be NULL, got %q", got[1][2].String)
	}
}

func TestSQLiteExporter_ExportDataset_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&SQLiteExporter{}).ExportDataset(nil, &buf); err != nil {
		t.Fatalf("SQLiteExporter.ExportDataset() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty dataset should produce no output, got %d bytes", buf.Len())
	}
}

func TestSQLiteExporter_ExportTranscript(t *testing.T) {
	var buf bytes.Buffer
	if err := (&SQLiteExporter{}).ExportTranscript(internal.CreateTestTranscript(), &buf); err != nil {
		t.Fatalf("SQLiteExporter.ExportTranscript() error = %v", err)
	}

	db := testutil.OpenSQLiteArtifact(t, buf.Bytes())
	if got := testutil.QueryStrings(t, db, "SELECT content FROM messages ORDER BY seq"); len(got) != 2 {
		t.Errorf("got %d messages, want 2", len(got))
	}

	var role, agent string
	if err := db.QueryRow("SELECT role, agent FROM messages WHERE seq = 1").Scan(&role, &agent); err != nil {
		t.Fatalf("select: %v", err)
	}
	if role != "assistant" || agent != "qa" {
		t.Errorf("got role=%q agent=%q", role, agent)
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent(`odd "name"`); got != `"odd ""name"""` {
		t.Errorf("quoteIdent() = %s", got)
	}
}
