// Package checkpoint persists periodic snapshots and crash dumps of a
// running simulation to a local SQLite database, so a run interrupted
// by a signal, a NumericOverflow escalation, or an InvariantViolation
// panic can be inspected or resumed from its last good state.
// Grounded on the teacher's own database/sql + mattn/go-sqlite3 stack
// and github.com/rs/xid for collision-free run/dump identifiers.
package checkpoint

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"

	"github.com/edmdsim/dynamogo/simerr"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	seed INTEGER NOT NULL,
	config BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS dumps (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL REFERENCES runs(id),
	taken_at INTEGER NOT NULL,
	event_count INTEGER NOT NULL,
	sim_time REAL NOT NULL,
	reason TEXT NOT NULL,
	state BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS dumps_run_idx ON dumps(run_id, taken_at);
`

// Store wraps a single SQLite database file holding every run and the
// dumps taken during it.
type Store struct {
	db *sql.DB
}

// Open creates (if necessary) and opens the checkpoint database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, simerr.NewConfigError("checkpoint.Open", "opening %s: %v", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, simerr.NewConfigError("checkpoint.Open", "migrating schema in %s: %v", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunMeta identifies one simulation run recorded in the store.
type RunMeta struct {
	ID        xid.ID
	StartedAt time.Time
	Seed      int64
}

// NewRun records the start of a run, storing a copy of the config/state
// document it was launched with (the loader's serialised XML, for
// reproducing the exact starting point of a dump later).
func (s *Store) NewRun(seed int64, configDoc []byte) (xid.ID, error) {
	id := xid.New()
	_, err := s.db.Exec(`INSERT INTO runs (id, started_at, seed, config) VALUES (?, ?, ?, ?)`,
		id.String(), time.Now().Unix(), seed, configDoc)
	if err != nil {
		return xid.ID{}, fmt.Errorf("checkpoint: recording run %s: %w", id, err)
	}
	return id, nil
}

// DumpReason distinguishes a routine periodic checkpoint from a crash
// dump written on the way out of a panic recovery.
type DumpReason string

const (
	ReasonPeriodic DumpReason = "periodic"
	ReasonCrash    DumpReason = "crash"
	ReasonFinal    DumpReason = "final"
)

// DumpMeta describes one stored dump without its (potentially large)
// state payload.
type DumpMeta struct {
	ID         xid.ID
	RunID      xid.ID
	TakenAt    time.Time
	EventCount uint64
	SimTime    float64
	Reason     DumpReason
}

// SaveDump stores a state snapshot (the caller's serialised XML
// document, typically produced by ioconfig.SaveSimulation into a
// bytes.Buffer) against a run.
func (s *Store) SaveDump(runID xid.ID, eventCount uint64, simTime float64, reason DumpReason, state []byte) (xid.ID, error) {
	id := xid.New()
	_, err := s.db.Exec(`INSERT INTO dumps (id, run_id, taken_at, event_count, sim_time, reason, state) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(), runID.String(), time.Now().Unix(), eventCount, simTime, string(reason), state)
	if err != nil {
		return xid.ID{}, fmt.Errorf("checkpoint: saving dump for run %s: %w", runID, err)
	}
	return id, nil
}

// LatestDump returns the most recently taken dump's state payload for a
// run, or (nil, false, nil) if the run has no dumps yet.
func (s *Store) LatestDump(runID xid.ID) ([]byte, bool, error) {
	var state []byte
	err := s.db.QueryRow(
		`SELECT state FROM dumps WHERE run_id = ? ORDER BY taken_at DESC LIMIT 1`,
		runID.String(),
	).Scan(&state)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("checkpoint: loading latest dump for run %s: %w", runID, err)
	}
	return state, true, nil
}

// ListDumps returns every dump taken for a run, oldest first.
func (s *Store) ListDumps(runID xid.ID) ([]DumpMeta, error) {
	rows, err := s.db.Query(
		`SELECT id, taken_at, event_count, sim_time, reason FROM dumps WHERE run_id = ? ORDER BY taken_at ASC`,
		runID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: listing dumps for run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []DumpMeta
	for rows.Next() {
		var idStr, reason string
		var takenAt int64
		var eventCount uint64
		var simTime float64
		if err := rows.Scan(&idStr, &takenAt, &eventCount, &simTime, &reason); err != nil {
			return nil, fmt.Errorf("checkpoint: scanning dump row: %w", err)
		}
		id, err := xid.FromString(idStr)
		if err != nil {
			return nil, fmt.Errorf("checkpoint: decoding dump id %q: %w", idStr, err)
		}
		out = append(out, DumpMeta{
			ID:         id,
			RunID:      runID,
			TakenAt:    time.Unix(takenAt, 0),
			EventCount: eventCount,
			SimTime:    simTime,
			Reason:     DumpReason(reason),
		})
	}
	return out, rows.Err()
}

// ShouldCheckpoint reports whether eventCount has just crossed a
// checkpointEvery boundary, the periodic-dump cadence RunParams
// configures. A zero interval disables periodic dumps.
func ShouldCheckpoint(eventCount, checkpointEvery uint64) bool {
	return checkpointEvery > 0 && eventCount%checkpointEvery == 0
}
