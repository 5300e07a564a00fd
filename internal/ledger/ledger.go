package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded exchange.
type Entry struct {
	Session          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	CreatedAt        time.Time
}

// Totals aggregates recorded exchanges for one session.
type Totals struct {
	Session      string
	Exchanges    int
	PromptTokens int
	TotalTokens  int
}

// Ledger records token usage per successful exchange in a local SQLite
// database. Recording failures are reported to the caller but are never fatal
// to a conversation turn.
type Ledger struct {
	db   *sql.DB
	path string
}

// Open creates or opens the usage database at path.
func Open(path string) (*Ledger, error) {
	if path == "" {
		return nil, errors.New("ledger path must be set")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("prepare ledger dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open usage ledger: %w", err)
	}
	if _, err := db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS exchanges (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session TEXT NOT NULL,
	model TEXT NOT NULL,
	prompt_tokens INTEGER NOT NULL DEFAULT 0,
	completion_tokens INTEGER NOT NULL DEFAULT 0,
	total_tokens INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}
	return &Ledger{db: db, path: path}, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record inserts one exchange row.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := l.db.ExecContext(ctx, `
INSERT INTO exchanges (session, model, prompt_tokens, completion_tokens, total_tokens, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		e.Session, e.Model, e.PromptTokens, e.CompletionTokens, e.TotalTokens, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("record exchange: %w", err)
	}
	return nil
}

// BySession returns per-session totals, most-used first.
func (l *Ledger) BySession(ctx context.Context) ([]Totals, error) {
	rows, err := l.db.QueryContext(ctx, `
SELECT session, COUNT(*), COALESCE(SUM(prompt_tokens), 0), COALESCE(SUM(total_tokens), 0)
FROM exchanges
GROUP BY session
ORDER BY SUM(total_tokens) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query usage totals: %w", err)
	}
	defer rows.Close()

	var totals []Totals
	for rows.Next() {
		var t Totals
		if err := rows.Scan(&t.Session, &t.Exchanges, &t.PromptTokens, &t.TotalTokens); err != nil {
			return nil, fmt.Errorf("scan usage totals: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage totals: %w", err)
	}
	return totals, nil
}
