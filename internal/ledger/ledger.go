// Package ledger keeps an append-only SQLite history of quest completions
// and the XP they awarded.
package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultFile is the ledger database name inside the state directory.
const DefaultFile = "ledger.db"

// timeLayout is fixed width so completed_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Entry is one recorded completion.
type Entry struct {
	ID          int64
	QuestID     string
	QuestName   string
	Category    string
	XP          int
	Stat        string
	CompletedAt time.Time
}

// CategoryCount is the number of completions recorded for a category.
type CategoryCount struct {
	Category string
	Count    int
	XP       int
}

// Ledger is the SQLite-backed completion history.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger at dbPath. ":memory:" opens a private
// in-memory database.
func Open(dbPath string) (*Ledger, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers on disk.
	db.SetMaxOpenConns(1)

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
	}

	l := &Ledger{db: db}
	if err := l.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return l, nil
}

func (l *Ledger) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS completions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		quest_id TEXT NOT NULL,
		quest_name TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		xp INTEGER NOT NULL DEFAULT 0,
		stat TEXT NOT NULL DEFAULT '',
		completed_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_completions_quest ON completions(quest_id);
	CREATE INDEX IF NOT EXISTS idx_completions_category ON completions(category);
	CREATE INDEX IF NOT EXISTS idx_completions_at ON completions(completed_at);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Close releases the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record appends a completion and returns its row id.
func (l *Ledger) Record(e Entry) (int64, error) {
	if strings.TrimSpace(e.QuestID) == "" {
		return 0, fmt.Errorf("record completion: quest id is required")
	}
	if e.CompletedAt.IsZero() {
		e.CompletedAt = time.Now()
	}
	res, err := l.db.Exec(`
		INSERT INTO completions (quest_id, quest_name, category, xp, stat, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.QuestID, e.QuestName, strings.ToLower(strings.TrimSpace(e.Category)), e.XP, e.Stat,
		e.CompletedAt.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("record completion %s: %w", e.QuestID, err)
	}
	return res.LastInsertId()
}

// Recent returns the latest completions, newest first. limit <= 0 returns
// all of them.
func (l *Ledger) Recent(limit int) ([]Entry, error) {
	query := `SELECT id, quest_id, quest_name, category, xp, stat, completed_at
		FROM completions ORDER BY completed_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.ID, &e.QuestID, &e.QuestName, &e.Category, &e.XP, &e.Stat, &at); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		e.CompletedAt, err = time.Parse(timeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("parse completed_at %q: %w", at, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completions: %w", err)
	}
	return out, nil
}

// CategoryCounts groups completions by category, most frequent first.
func (l *Ledger) CategoryCounts() ([]CategoryCount, error) {
	rows, err := l.db.Query(`
		SELECT category, COUNT(*), COALESCE(SUM(xp), 0)
		FROM completions
		GROUP BY category
		ORDER BY COUNT(*) DESC, category ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query category counts: %w", err)
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count, &c.XP); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category counts: %w", err)
	}
	return out, nil
}

// TotalXP sums every recorded award.
func (l *Ledger) TotalXP() (int, error) {
	var total int
	if err := l.db.QueryRow(`SELECT COALESCE(SUM(xp), 0) FROM completions`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum xp: %w", err)
	}
	return total, nil
}

// HasCompleted reports whether questID has a recorded completion.
func (l *Ledger) HasCompleted(questID string) (bool, error) {
	var n int
	if err := l.db.QueryRow(`SELECT COUNT(*) FROM completions WHERE quest_id = ?`, questID).Scan(&n); err != nil {
		return false, fmt.Errorf("count completions %s: %w", questID, err)
	}
	return n > 0, nil
}
