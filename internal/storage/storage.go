// Package storage persists generation and evolution runs to SQLite so that
// batches can be listed, reloaded, and re-rendered later.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/EngineerAnishSharma/SiteArchitect/pkg/layout"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// Store wraps a SQLite connection for run persistence.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		seed INTEGER NOT NULL,
		approach TEXT NOT NULL,
		layout_count INTEGER NOT NULL,
		avg_score REAL NOT NULL,
		best_score REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS layouts (
		run_id TEXT NOT NULL REFERENCES runs(id),
		idx INTEGER NOT NULL,
		score REAL NOT NULL,
		count_a INTEGER NOT NULL,
		count_b INTEGER NOT NULL,
		area REAL NOT NULL,
		valid INTEGER NOT NULL,
		buildings_json TEXT NOT NULL,
		PRIMARY KEY (run_id, idx)
	);

	CREATE INDEX IF NOT EXISTS idx_layouts_run ON layouts(run_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Run is one persisted generation or evolution batch.
type Run struct {
	ID          string    `db:"id" json:"id"`
	CreatedAt   time.Time `db:"-" json:"created_at"`
	Seed        int64     `db:"seed" json:"seed"`
	Approach    string    `db:"approach" json:"approach"`
	LayoutCount int       `db:"layout_count" json:"layout_count"`
	AvgScore    float64   `db:"avg_score" json:"avg_score"`
	BestScore   float64   `db:"best_score" json:"best_score"`
}

// LayoutRecord is one stored layout with its score and statistics.
type LayoutRecord struct {
	Idx       int           `json:"idx"`
	Score     float64       `json:"score"`
	Stats     layout.Stats  `json:"stats"`
	Buildings layout.Layout `json:"buildings"`
}

// NewRun constructs an unsaved run header with a fresh UUID.
func NewRun(seed int64, approach string) Run {
	return Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Seed:      seed,
		Approach:  approach,
	}
}

// SaveRun writes a run and its layouts in one transaction. The run's
// LayoutCount, AvgScore, and BestScore are derived from the records.
func (s *Store) SaveRun(run Run, records []LayoutRecord) error {
	run.LayoutCount = len(records)
	run.AvgScore, run.BestScore = 0, 0
	for i, r := range records {
		run.AvgScore += r.Score
		if i == 0 || r.Score > run.BestScore {
			run.BestScore = r.Score
		}
	}
	if len(records) > 0 {
		run.AvgScore /= float64(len(records))
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, created_at, seed, approach, layout_count, avg_score, best_score)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(time.RFC3339), run.Seed, run.Approach,
		run.LayoutCount, run.AvgScore, run.BestScore,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.Preparex(`INSERT INTO layouts
		(run_id, idx, score, count_a, count_b, area, valid, buildings_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		buildingsJSON, err := json.Marshal(r.Buildings)
		if err != nil {
			return fmt.Errorf("marshal layout %d: %w", i, err)
		}

		valid := 0
		if r.Stats.Valid {
			valid = 1
		}

		_, err = stmt.Exec(run.ID, i, r.Score, r.Stats.CountA, r.Stats.CountB,
			r.Stats.Area, valid, string(buildingsJSON))
		if err != nil {
			return fmt.Errorf("insert layout %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns all run headers, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.conn.Query(`SELECT id, created_at, seed, approach,
		layout_count, avg_score, best_score
		FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one run header by ID.
func (s *Store) GetRun(id string) (Run, error) {
	row := s.conn.QueryRow(`SELECT id, created_at, seed, approach,
		layout_count, avg_score, best_score
		FROM runs WHERE id = ?`, id)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return r, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	var createdAt string
	err := row.Scan(&r.ID, &createdAt, &r.Seed, &r.Approach,
		&r.LayoutCount, &r.AvgScore, &r.BestScore)
	if err != nil {
		return Run{}, err
	}
	r.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at for run %s: %w", r.ID, err)
	}
	return r, nil
}

// LoadLayouts returns the stored layouts of a run in index order.
func (s *Store) LoadLayouts(runID string) ([]LayoutRecord, error) {
	if _, err := s.GetRun(runID); err != nil {
		return nil, err
	}

	rows, err := s.conn.Query(`SELECT idx, score, count_a, count_b, area, valid,
		buildings_json FROM layouts WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []LayoutRecord
	for rows.Next() {
		var r LayoutRecord
		var valid int
		var buildingsJSON string
		err := rows.Scan(&r.Idx, &r.Score, &r.Stats.CountA, &r.Stats.CountB,
			&r.Stats.Area, &valid, &buildingsJSON)
		if err != nil {
			return nil, err
		}
		r.Stats.Valid = valid == 1
		if err := json.Unmarshal([]byte(buildingsJSON), &r.Buildings); err != nil {
			return nil, fmt.Errorf("decode layout %d of run %s: %w", r.Idx, runID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
