// Package journal records what happened during a run: events, per-tick agent
// status, and run metadata in SQLite, plus an optional compressed log of
// snapshots. It is write-mostly; nothing here restores a world.
package journal

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/foodgrid/internal/engine"
)

// DB wraps a SQLite connection for the run journal.
type DB struct {
	conn  *sqlx.DB
	runID int64
}

// AgentRow is one agent's status at the end of one tick.
type AgentRow struct {
	RunID      int64  `db:"run_id"`
	Tick       uint64 `db:"tick"`
	AgentID    string `db:"agent_id"`
	Name       string `db:"name"`
	X          int    `db:"x"`
	Y          int    `db:"y"`
	State      string `db:"state"`
	Hunger     int    `db:"hunger"`
	Energy     int    `db:"energy"`
	LastAction string `db:"last_action"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows one writer; the journal is fed from the engine goroutine.
	conn.SetMaxOpenConns(1)

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
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		agents INTEGER NOT NULL,
		started_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agent_ticks (
		run_id INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		agent_id TEXT NOT NULL,
		name TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		state TEXT NOT NULL,
		hunger INTEGER NOT NULL,
		energy INTEGER NOT NULL,
		last_action TEXT NOT NULL,
		PRIMARY KEY (run_id, tick, agent_id)
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		run_id INTEGER NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (run_id, key)
	);

	CREATE INDEX IF NOT EXISTS idx_events_run_tick ON events(run_id, tick);
	CREATE INDEX IF NOT EXISTS idx_events_category ON events(category);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// BeginRun registers a new run and makes it the target of later writes.
func (db *DB) BeginRun(cfg engine.Config) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO runs (seed, width, height, agents) VALUES (?, ?, ?, ?)",
		cfg.Seed, cfg.Width, cfg.Height, cfg.Agents,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	db.runID = id
	slog.Info("journal run started", "run", id, "seed", cfg.Seed)
	return id, nil
}

// RunID returns the current run, or 0 before BeginRun.
func (db *DB) RunID() int64 {
	return db.runID
}

// RecordTick stores the post-action agent statuses and the events of a tick.
func (db *DB) RecordTick(snap engine.Snapshot, events []engine.Event) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, a := range snap.Agents {
		row := AgentRow{
			RunID:      db.runID,
			Tick:       snap.Tick,
			AgentID:    a.ID.String(),
			Name:       a.Name,
			X:          a.Position.X,
			Y:          a.Position.Y,
			State:      a.State,
			Hunger:     a.Hunger,
			Energy:     a.Energy,
			LastAction: a.LastAction,
		}
		_, err := tx.NamedExec(`INSERT OR REPLACE INTO agent_ticks
			(run_id, tick, agent_id, name, x, y, state, hunger, energy, last_action)
			VALUES (:run_id, :tick, :agent_id, :name, :x, :y, :state, :hunger, :energy, :last_action)`, row)
		if err != nil {
			return fmt.Errorf("insert agent %s tick %d: %w", a.Name, snap.Tick, err)
		}
	}

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (run_id, tick, category, description) VALUES (?, ?, ?, ?)",
			db.runID, e.Tick, e.Category, e.Description,
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO run_meta (run_id, key, value) VALUES (?, 'last_tick', ?)",
		db.runID, strconv.FormatUint(snap.Tick, 10),
	); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair for the current run.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO run_meta (run_id, key, value) VALUES (?, ?, ?)",
		db.runID, key, value,
	)
	return err
}

// GetMeta retrieves a metadata value of the current run.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM run_meta WHERE run_id = ? AND key = ?", db.runID, key)
	return value, err
}

// RecentEvents returns the most recent events of the current run, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, category, description FROM events WHERE run_id = ? ORDER BY id DESC LIMIT ?",
		db.runID, limit,
	)
	return events, err
}

// AgentHistory returns one agent's recorded statuses in tick order.
func (db *DB) AgentHistory(name string) ([]AgentRow, error) {
	var rows []AgentRow
	err := db.conn.Select(&rows,
		`SELECT run_id, tick, agent_id, name, x, y, state, hunger, energy, last_action
		 FROM agent_ticks WHERE run_id = ? AND name = ? ORDER BY tick`,
		db.runID, name,
	)
	return rows, err
}

// CountEvents returns how many events of a category the current run produced.
func (db *DB) CountEvents(category string) (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM events WHERE run_id = ? AND category = ?", db.runID, category)
	return n, err
}
