package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Result is one finished battle as seen from our side.
type Result struct {
	ID         string    `json:"id"`
	BattleTag  string    `json:"battle_tag"`
	Format     string    `json:"format"`
	Opponent   string    `json:"opponent"`
	Won        bool      `json:"won"`
	Tie        bool      `json:"tie"`
	Turns      int       `json:"turns"`
	FinishedAt time.Time `json:"finished_at"`
}

type Summary struct {
	Battles int `json:"battles"`
	Wins    int `json:"wins"`
	Losses  int `json:"losses"`
	Ties    int `json:"ties"`
}

type Results struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*Results, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Results{db: db}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS battle_results (
	id          TEXT PRIMARY KEY,
	battle_tag  TEXT NOT NULL,
	format      TEXT NOT NULL DEFAULT '',
	opponent    TEXT NOT NULL DEFAULT '',
	won         INTEGER NOT NULL DEFAULT 0,
	tie         INTEGER NOT NULL DEFAULT 0,
	turns       INTEGER NOT NULL DEFAULT 0,
	finished_at INTEGER NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("ensure battle_results schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_battle_results_finished ON battle_results(finished_at)`); err != nil {
		return fmt.Errorf("ensure battle_results index: %w", err)
	}
	return nil
}

func (s *Results) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores r, filling in ID and FinishedAt when unset.
func (s *Results) Record(ctx context.Context, r Result) (Result, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO battle_results (id, battle_tag, format, opponent, won, tie, turns, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.BattleTag, r.Format, r.Opponent, boolToInt(r.Won), boolToInt(r.Tie), r.Turns, r.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return Result{}, fmt.Errorf("insert result %s: %w", r.BattleTag, err)
	}
	return r, nil
}

// List returns the most recent results first.
func (s *Results) List(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
SELECT id, battle_tag, format, opponent, won, tie, turns, finished_at
FROM battle_results
ORDER BY finished_at DESC, rowid DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var (
			r          Result
			won, tie   int
			finishedAt int64
		)
		if err := rows.Scan(&r.ID, &r.BattleTag, &r.Format, &r.Opponent, &won, &tie, &r.Turns, &finishedAt); err != nil {
			return nil, err
		}
		r.Won = won != 0
		r.Tie = tie != 0
		r.FinishedAt = time.UnixMilli(finishedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Results) Summary(ctx context.Context) (Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var sum Summary
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(won), 0),
       COALESCE(SUM(CASE WHEN won = 0 AND tie = 0 THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(tie), 0)
FROM battle_results`).Scan(&sum.Battles, &sum.Wins, &sum.Losses, &sum.Ties)
	if err != nil {
		return Summary{}, fmt.Errorf("summarise results: %w", err)
	}
	return sum, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
