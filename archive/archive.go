// Package archive keeps a SQLite record of finished and running
// simulations: one row per run, per telemetry window and per death.
// It records outputs only and cannot restore a run.
package archive

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Rodrun/sugarscape/telemetry"
)

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the archive at path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed TEXT NOT NULL,
		grid_rows INTEGER NOT NULL,
		grid_cols INTEGER NOT NULL,
		initial_agents INTEGER NOT NULL,
		horizon REAL NOT NULL,
		config_yaml TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		final_time REAL,
		events INTEGER,
		population INTEGER,
		births INTEGER,
		deaths INTEGER
	);

	CREATE TABLE IF NOT EXISTS samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		window_end REAL NOT NULL,
		population INTEGER NOT NULL,
		births INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		sugar_mean REAL NOT NULL,
		sugar_median REAL NOT NULL,
		metabolism_mean REAL NOT NULL,
		vision_mean REAL NOT NULL,
		land_sugar REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS deaths (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		agent_id INTEGER NOT NULL,
		birth REAL NOT NULL,
		death REAL NOT NULL,
		cause TEXT NOT NULL,
		generation INTEGER NOT NULL,
		children INTEGER NOT NULL,
		foraged REAL NOT NULL,
		metabolism REAL NOT NULL,
		vision INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_samples_run ON samples(run_id, window_end);
	CREATE INDEX IF NOT EXISTS idx_deaths_run ON deaths(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RunMeta describes a run when it starts.
type RunMeta struct {
	Seed       uint64
	Rows, Cols int
	Initial    int
	Horizon    float64
	ConfigYAML string
}

// Summary describes a run when it ends.
type Summary struct {
	FinalTime  float64
	Events     int
	Population int
	Births     int
	Deaths     int
}

// Run is one row of the runs table.
type Run struct {
	ID         string          `db:"id"`
	Seed       string          `db:"seed"` // decimal; seeds can exceed int64
	Rows       int             `db:"grid_rows"`
	Cols       int             `db:"grid_cols"`
	Initial    int             `db:"initial_agents"`
	Horizon    float64         `db:"horizon"`
	ConfigYAML string          `db:"config_yaml"`
	StartedAt  string          `db:"started_at"`
	FinishedAt sql.NullString  `db:"finished_at"`
	FinalTime  sql.NullFloat64 `db:"final_time"`
	Events     sql.NullInt64   `db:"events"`
	Population sql.NullInt64   `db:"population"`
	Births     sql.NullInt64   `db:"births"`
	Deaths     sql.NullInt64   `db:"deaths"`
}

// Sample is one row of the samples table.
type Sample struct {
	WindowEnd      float64 `db:"window_end"`
	Population     int     `db:"population"`
	Births         int     `db:"births"`
	Deaths         int     `db:"deaths"`
	SugarMean      float64 `db:"sugar_mean"`
	SugarMedian    float64 `db:"sugar_median"`
	MetabolismMean float64 `db:"metabolism_mean"`
	VisionMean     float64 `db:"vision_mean"`
	LandSugar      float64 `db:"land_sugar"`
}

// BeginRun inserts a new run and returns its id.
func (db *DB) BeginRun(meta RunMeta) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(`INSERT INTO runs
		(id, seed, grid_rows, grid_cols, initial_agents, horizon, config_yaml, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, strconv.FormatUint(meta.Seed, 10), meta.Rows, meta.Cols, meta.Initial,
		meta.Horizon, meta.ConfigYAML, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	slog.Debug("archive run started", "run", id, "seed", meta.Seed)
	return id, nil
}

// RecordSample appends one telemetry window to a run.
func (db *DB) RecordSample(runID string, s telemetry.WindowStats) error {
	_, err := db.conn.Exec(`INSERT INTO samples
		(run_id, window_end, population, births, deaths, sugar_mean, sugar_median,
		 metabolism_mean, vision_mean, land_sugar)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, s.WindowEnd, s.Population, s.Births, s.Starved+s.Aged,
		s.SugarMean, s.SugarMedian, s.MetabolismMean, s.VisionMean, s.LandSugar,
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// RecordDeath appends one finished lifetime to a run.
func (db *DB) RecordDeath(runID string, ls *telemetry.LifetimeStats) error {
	_, err := db.conn.Exec(`INSERT INTO deaths
		(run_id, agent_id, birth, death, cause, generation, children, foraged, metabolism, vision)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, int64(ls.ID), ls.Birth, ls.Death, ls.Cause, ls.Generation,
		ls.Children, ls.Foraged, ls.Metabolism, ls.Vision,
	)
	if err != nil {
		return fmt.Errorf("insert death of agent %d: %w", ls.ID, err)
	}
	return nil
}

// FinishRun stores the outcome of a run.
func (db *DB) FinishRun(runID string, sum Summary) error {
	res, err := db.conn.Exec(`UPDATE runs SET
		finished_at = ?, final_time = ?, events = ?, population = ?, births = ?, deaths = ?
		WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), sum.FinalTime, sum.Events,
		sum.Population, sum.Births, sum.Deaths, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run: no run %q", runID)
	}
	return nil
}

// Runs returns every run, oldest first.
func (db *DB) Runs() ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs, "SELECT * FROM runs ORDER BY started_at, id")
	return runs, err
}

// Run returns one run.
func (db *DB) Run(runID string) (Run, error) {
	var r Run
	err := db.conn.Get(&r, "SELECT * FROM runs WHERE id = ?", runID)
	return r, err
}

// Samples returns the windows of a run in time order.
func (db *DB) Samples(runID string) ([]Sample, error) {
	var samples []Sample
	err := db.conn.Select(&samples,
		`SELECT window_end, population, births, deaths, sugar_mean, sugar_median,
		        metabolism_mean, vision_mean, land_sugar
		 FROM samples WHERE run_id = ? ORDER BY window_end, id`,
		runID,
	)
	return samples, err
}

// DeathCauses counts deaths of a run by cause.
func (db *DB) DeathCauses(runID string) (map[string]int, error) {
	var rows []struct {
		Cause string `db:"cause"`
		N     int    `db:"n"`
	}
	err := db.conn.Select(&rows,
		"SELECT cause, COUNT(*) AS n FROM deaths WHERE run_id = ? GROUP BY cause", runID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Cause] = r.N
	}
	return out, nil
}
