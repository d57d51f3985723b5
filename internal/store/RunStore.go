package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

const (
	patrolTable = "patrol_runs"
	stoneTable  = "stone_runs"
)

// PatrolRun is one solved guard grid.
type PatrolRun struct {
	ID            int
	Input         string
	Rows          int
	Cols          int
	Visited       int
	LoopPositions int
	Duration      time.Duration
	CreatedAt     time.Time
}

// StoneRun is one stone count. Total is kept as decimal text since it
// outgrows every integer column type.
type StoneRun struct {
	ID        int
	Stones    string
	Blinks    int
	Total     string
	Duration  time.Duration
	CreatedAt time.Time
}

// RunStore keeps the history of solves in sqlite.
type RunStore struct {
	db *sql.DB
}

func Open(path string) (*RunStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	store := &RunStore{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *RunStore) Close() error {
	return s.db.Close()
}

func (s *RunStore) createTables() error {
	const createSQL = `
	CREATE TABLE IF NOT EXISTS ` + patrolTable + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		input TEXT NOT NULL,
		grid_rows INTEGER NOT NULL,
		grid_cols INTEGER NOT NULL,
		visited INTEGER NOT NULL,
		loop_positions INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS ` + stoneTable + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		stones TEXT NOT NULL,
		blinks INTEGER NOT NULL,
		total TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := s.db.Exec(createSQL); err != nil {
		return fmt.Errorf("failed to execute CREATE TABLE: %w", err)
	}
	log.Debug("Run history tables ensured.")
	return nil
}

func (s *RunStore) SavePatrolRun(run PatrolRun) error {
	const insertSQL = `
	INSERT INTO ` + patrolTable + ` (input, grid_rows, grid_cols, visited, loop_positions, duration_ms)
	VALUES (?, ?, ?, ?, ?, ?);`

	_, err := s.db.Exec(insertSQL, run.Input, run.Rows, run.Cols, run.Visited, run.LoopPositions, run.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to insert patrol run for %s: %w", run.Input, err)
	}
	return nil
}

func (s *RunStore) SaveStoneRun(run StoneRun) error {
	const insertSQL = `
	INSERT INTO ` + stoneTable + ` (stones, blinks, total, duration_ms)
	VALUES (?, ?, ?, ?);`

	_, err := s.db.Exec(insertSQL, run.Stones, run.Blinks, run.Total, run.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to insert stone run for %d blinks: %w", run.Blinks, err)
	}
	return nil
}

// RecentPatrolRuns returns a page of patrol runs, newest first.
func (s *RunStore) RecentPatrolRuns(limit, offset int) ([]PatrolRun, error) {
	const selectSQL = `
	SELECT id, input, grid_rows, grid_cols, visited, loop_positions, duration_ms, created_at
	FROM ` + patrolTable + `
	ORDER BY id DESC
	LIMIT ? OFFSET ?;`

	rows, err := s.db.Query(selectSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query patrol runs: %w", err)
	}
	defer rows.Close()

	var runs []PatrolRun
	for rows.Next() {
		var run PatrolRun
		var durationMs int64
		var createdAt string
		if err := rows.Scan(&run.ID, &run.Input, &run.Rows, &run.Cols, &run.Visited, &run.LoopPositions, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		run.CreatedAt = parseCreatedAt(run.ID, createdAt)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return runs, nil
}

// RecentStoneRuns returns a page of stone runs, newest first.
func (s *RunStore) RecentStoneRuns(limit, offset int) ([]StoneRun, error) {
	const selectSQL = `
	SELECT id, stones, blinks, total, duration_ms, created_at
	FROM ` + stoneTable + `
	ORDER BY id DESC
	LIMIT ? OFFSET ?;`

	rows, err := s.db.Query(selectSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query stone runs: %w", err)
	}
	defer rows.Close()

	var runs []StoneRun
	for rows.Next() {
		var run StoneRun
		var durationMs int64
		var createdAt string
		if err := rows.Scan(&run.ID, &run.Stones, &run.Blinks, &run.Total, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		run.CreatedAt = parseCreatedAt(run.ID, createdAt)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return runs, nil
}

// CountRuns returns how many patrol and stone runs are stored.
func (s *RunStore) CountRuns() (patrol int, stone int, err error) {
	if err = s.db.QueryRow(`SELECT COUNT(*) FROM ` + patrolTable + `;`).Scan(&patrol); err != nil {
		return 0, 0, fmt.Errorf("failed to count patrol runs: %w", err)
	}
	if err = s.db.QueryRow(`SELECT COUNT(*) FROM ` + stoneTable + `;`).Scan(&stone); err != nil {
		return 0, 0, fmt.Errorf("failed to count stone runs: %w", err)
	}
	return patrol, stone, nil
}

func parseCreatedAt(id int, raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	log.Warn("Time parsing error for run", "id", id, "raw", raw)
	return time.Time{}
}

// FormatWhen renders a run timestamp in local time, or "-" when unknown.
func FormatWhen(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
