package export

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/iksnae/ragchat/internal"
	_ "modernc.org/sqlite"
)

// SQLiteExporter writes a SQLite database file. Datasets become a "records"
// table with one TEXT column per dataset column; transcripts become a
// "messages" table.
type SQLiteExporter struct{}

// ExportDataset writes the dataset into a fresh database
func (e *SQLiteExporter) ExportDataset(ds internal.Dataset, w io.Writer) error {
	if ds.Empty() {
		return nil
	}
	columns := ds.Columns()
	defs := make([]string, len(columns))
	idents := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, col := range columns {
		idents[i] = quoteIdent(col)
		defs[i] = idents[i] + " TEXT"
		marks[i] = "?"
	}

	return withTempDB(w, func(db *sql.DB) error {
		if _, err := db.Exec(fmt.Sprintf("CREATE TABLE records (%s)", strings.Join(defs, ", "))); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
		insert := fmt.Sprintf("INSERT INTO records (%s) VALUES (%s)", strings.Join(idents, ", "), strings.Join(marks, ", "))
		return inTx(db, insert, func(stmt *sql.Stmt) error {
			args := make([]any, len(columns))
			for _, rec := range ds {
				for i, col := range columns {
					if v, ok := rec.Get(col); ok && v != nil {
						args[i] = internal.FormatValue(v)
					} else {
						args[i] = nil
					}
				}
				if _, err := stmt.Exec(args...); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// ExportTranscript writes the messages into a fresh database
func (e *SQLiteExporter) ExportTranscript(msgs []internal.Message, w io.Writer) error {
	return withTempDB(w, func(db *sql.DB) error {
		createSQL := `
		CREATE TABLE messages (
			id TEXT PRIMARY KEY,
			seq INTEGER NOT NULL,
			role TEXT NOT NULL,
			agent TEXT,
			content TEXT NOT NULL,
			timestamp TEXT,
			failed INTEGER NOT NULL DEFAULT 0,
			record_count INTEGER NOT NULL DEFAULT 0
		)`
		if _, err := db.Exec(createSQL); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
		insert := "INSERT INTO messages (id, seq, role, agent, content, timestamp, failed, record_count) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		return inTx(db, insert, func(stmt *sql.Stmt) error {
			for i, msg := range msgs {
				var agent, ts any
				if msg.Agent != nil {
					agent = msg.Agent.ID
				}
				if !msg.Timestamp.IsZero() {
					ts = msg.Timestamp.Format(time.RFC3339)
				}
				id := msg.ID
				if id == "" {
					id = fmt.Sprintf("msg-%d", i)
				}
				if _, err := stmt.Exec(id, i, string(msg.Role), agent, msg.Content, ts, msg.Failed, len(msg.ExportData)); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// Extension returns the file extension for this format
func (e *SQLiteExporter) Extension() string {
	return "db"
}

// withTempDB builds a database in a temporary file and copies it to w,
// since SQLite cannot write to an arbitrary stream.
func withTempDB(w io.Writer, fill func(db *sql.DB) error) error {
	tmp, err := os.CreateTemp("", "ragchat-export-*.db")
	if err != nil {
		return err
	}
	path := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(path) }()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := fill(db); err != nil {
		_ = db.Close()
		return err
	}
	if err := db.Close(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

func inTx(db *sql.DB, query string, fn func(stmt *sql.Stmt) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := fn(stmt); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	_ = stmt.Close()
	return tx.Commit()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
