// Package storage provides score persistence for Memory Match.
// The default backend is SQLite via the pure-Go modernc.org/sqlite driver;
// a plain append-only text log is available as an alternative.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-memory/internal/games/memory"
)

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

var _ memory.ScoreStore = (*Store)(nil)

// ScoreEntry is one stored win.
type ScoreEntry struct {
	ID         int64
	SessionID  string
	Player     string
	Pairs      int
	Seconds    int
	GridSize   int
	FinishedAt time.Time
}

// Record converts the entry back into the record it was saved from.
func (e ScoreEntry) Record() memory.ScoreRecord {
	return memory.ScoreRecord{
		SessionID:  e.SessionID,
		Player:     e.Player,
		Pairs:      e.Pairs,
		Seconds:    e.Seconds,
		GridSize:   e.GridSize,
		FinishedAt: e.FinishedAt,
	}
}

// PlayerStats aggregates one player's wins.
type PlayerStats struct {
	Player      string
	Wins        int
	BestSeconds int
	AvgSeconds  float64
	LastPlayed  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := expandPath(dbPath)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS memory_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			player TEXT NOT NULL,
			pairs INTEGER NOT NULL,
			seconds INTEGER NOT NULL,
			grid_size INTEGER NOT NULL,
			finished_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_memory_scores_player ON memory_scores(player);
		CREATE INDEX IF NOT EXISTS idx_memory_scores_fastest ON memory_scores(grid_size, seconds);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRecord stores a finished session and returns the row ID.
func (s *Store) SaveRecord(ctx context.Context, rec memory.ScoreRecord) (int64, error) {
	finished := rec.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO memory_scores (session_id, player, pairs, seconds, grid_size, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Player, rec.Pairs, rec.Seconds, rec.GridSize,
		finished.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// Append implements memory.ScoreStore.
func (s *Store) Append(ctx context.Context, rec memory.ScoreRecord) error {
	if _, err := s.SaveRecord(ctx, rec); err != nil {
		return fmt.Errorf("%w: %w", memory.ErrStoreUnavailable, err)
	}
	return nil
}

// ReadAll returns every score line in the order the wins were recorded.
func (s *Store) ReadAll(ctx context.Context) ([]string, error) {
	entries, err := s.query(ctx,
		`SELECT id, session_id, player, pairs, seconds, grid_size, finished_at
		 FROM memory_scores
		 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", memory.ErrStoreUnavailable, err)
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Record().Line()
	}
	return lines, nil
}

// TopRecords returns the fastest wins, optionally for one grid size.
// A gridSize of zero includes every board.
func (s *Store) TopRecords(ctx context.Context, gridSize, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	if gridSize > 0 {
		return s.query(ctx,
			`SELECT id, session_id, player, pairs, seconds, grid_size, finished_at
			 FROM memory_scores
			 WHERE grid_size = ?
			 ORDER BY seconds ASC, id ASC
			 LIMIT ?`,
			gridSize, limit,
		)
	}
	return s.query(ctx,
		`SELECT id, session_id, player, pairs, seconds, grid_size, finished_at
		 FROM memory_scores
		 ORDER BY seconds ASC, id ASC
		 LIMIT ?`,
		limit,
	)
}

// PlayerRecords returns a player's most recent wins, newest first.
func (s *Store) PlayerRecords(ctx context.Context, player string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	return s.query(ctx,
		`SELECT id, session_id, player, pairs, seconds, grid_size, finished_at
		 FROM memory_scores
		 WHERE player = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		player, limit,
	)
}

// Stats returns aggregated wins for a player. A player without wins gets
// zero values.
func (s *Store) Stats(ctx context.Context, player string) (*PlayerStats, error) {
	stats := &PlayerStats{Player: player}

	var lastPlayed sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MIN(seconds), 0), COALESCE(AVG(seconds), 0), MAX(finished_at)
		 FROM memory_scores WHERE player = ?`,
		player,
	).Scan(&stats.Wins, &stats.BestSeconds, &stats.AvgSeconds, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player stats: %w", err)
	}

	if lastPlayed.Valid {
		stats.LastPlayed = parseTime(lastPlayed.String)
	}
	return stats, nil
}

// ClearScores deletes every stored score.
func (s *Store) ClearScores(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM memory_scores")
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]ScoreEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var finishedAt string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Player, &e.Pairs, &e.Seconds, &e.GridSize, &finishedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.FinishedAt = parseTime(finishedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTime accepts the RFC 3339 text written by SaveRecord and SQLite's own
// datetime format. Unparseable values yield the zero time.
func parseTime(v string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
		return t
	}
	return time.Time{}
}

// expandPath resolves a leading ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("storage: empty path")
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return path, nil
}
