// Package storage provides SQLite-based persistence for human high scores
// and the history of training runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single human high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// Run status values.
const (
	RunRunning   = "running"
	RunFinished  = "finished"
	RunCancelled = "cancelled"
	RunFailed    = "failed"
)

// RunEntry is one training run.
type RunEntry struct {
	ID           int64
	Seed         int64
	PopSize      int
	Generations  int // generations completed
	BestFitness  float64
	BestScore    int
	ChampionPath string
	OutputDir    string
	Status       string
	CreatedAt    time.Time
	FinishedAt   time.Time
}

// GenerationEntry is one evaluated generation of a run.
type GenerationEntry struct {
	RunID       int64
	Generation  int
	Species     int
	Ticks       int
	Score       int
	BestFitness float64
	MeanFitness float64
	StdFitness  float64
	BestNodes   int
	BestLinks   int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
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
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			pop_size INTEGER NOT NULL,
			generations INTEGER NOT NULL DEFAULT 0,
			best_fitness REAL NOT NULL DEFAULT 0,
			best_score INTEGER NOT NULL DEFAULT 0,
			champion_path TEXT NOT NULL DEFAULT '',
			output_dir TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			finished_at DATETIME
		);

		CREATE TABLE IF NOT EXISTS generations (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			generation INTEGER NOT NULL,
			species INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			score INTEGER NOT NULL,
			best_fitness REAL NOT NULL,
			mean_fitness REAL NOT NULL,
			std_fitness REAL NOT NULL,
			best_nodes INTEGER NOT NULL,
			best_links INTEGER NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
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

// parseTime converts a DATETIME column, which the driver may return as a
// time.Time or a string.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveScore records a new score for the given game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score) VALUES (?, ?)",
		gameID, score,
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

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// StartRun records a new training run and returns its ID.
func (s *Store) StartRun(seed int64, popSize int, outputDir string) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (seed, pop_size, output_dir, status) VALUES (?, ?, ?, ?)",
		seed, popSize, outputDir, RunRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot start run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SaveGeneration records one generation and raises the run's bests.
func (s *Store) SaveGeneration(g GenerationEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.Exec(
		`INSERT INTO generations
		 (run_id, generation, species, ticks, score, best_fitness, mean_fitness, std_fitness, best_nodes, best_links)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.RunID, g.Generation, g.Species, g.Ticks, g.Score,
		g.BestFitness, g.MeanFitness, g.StdFitness, g.BestNodes, g.BestLinks,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save generation: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE runs SET
		   generations = generations + 1,
		   best_fitness = CASE WHEN generations = 0 OR ? > best_fitness THEN ? ELSE best_fitness END,
		   best_score = MAX(best_score, ?)
		 WHERE id = ?`,
		g.BestFitness, g.BestFitness, g.Score, g.RunID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot update run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit generation: %w", err)
	}
	return nil
}

// FinishRun marks a run as ended with the given status.
func (s *Store) FinishRun(runID int64, status, championPath string) error {
	res, err := s.db.Exec(
		`UPDATE runs SET status = ?, champion_path = ?, finished_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, championPath, runID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("storage: run %d not found", runID)
	}
	return nil
}

// RecentRuns retrieves the most recent training runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, seed, pop_size, generations, best_fitness, best_score,
		        champion_path, output_dir, status, created_at, finished_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunEntry
	for rows.Next() {
		var r RunEntry
		var createdAt, finishedAt any
		if err := rows.Scan(
			&r.ID, &r.Seed, &r.PopSize, &r.Generations, &r.BestFitness, &r.BestScore,
			&r.ChampionPath, &r.OutputDir, &r.Status, &createdAt, &finishedAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		r.FinishedAt = parseTime(finishedAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// Run retrieves a run by ID. Returns nil if it does not exist.
func (s *Store) Run(runID int64) (*RunEntry, error) {
	var r RunEntry
	var createdAt, finishedAt any

	err := s.db.QueryRow(
		`SELECT id, seed, pop_size, generations, best_fitness, best_score,
		        champion_path, output_dir, status, created_at, finished_at
		 FROM runs WHERE id = ?`,
		runID,
	).Scan(
		&r.ID, &r.Seed, &r.PopSize, &r.Generations, &r.BestFitness, &r.BestScore,
		&r.ChampionPath, &r.OutputDir, &r.Status, &createdAt, &finishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}

	r.CreatedAt = parseTime(createdAt)
	r.FinishedAt = parseTime(finishedAt)
	return &r, nil
}

// RunGenerations retrieves every generation of a run in order.
func (s *Store) RunGenerations(runID int64) ([]GenerationEntry, error) {
	rows, err := s.db.Query(
		`SELECT run_id, generation, species, ticks, score, best_fitness, mean_fitness, std_fitness, best_nodes, best_links
		 FROM generations
		 WHERE run_id = ?
		 ORDER BY generation`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query generations: %w", err)
	}
	defer rows.Close()

	var gens []GenerationEntry
	for rows.Next() {
		var g GenerationEntry
		if err := rows.Scan(
			&g.RunID, &g.Generation, &g.Species, &g.Ticks, &g.Score,
			&g.BestFitness, &g.MeanFitness, &g.StdFitness, &g.BestNodes, &g.BestLinks,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		gens = append(gens, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return gens, nil
}
