package history

import (
	"database/sql"
	"fmt"
)

// Run represents a row in the runs table. Verdict is nil for runs that never
// finished.
type Run struct {
	ID          int
	StartedAt   string
	FinishedAt  string
	Verdict     *bool
	NodeVersion string
	NPMVersion  string
	FixOnly     bool
	SkipInstall bool
}

// StageEvent represents a row in the stage_events table.
type StageEvent struct {
	ID         int
	RunID      int
	Stage      string
	Passed     bool
	Skipped    bool
	DurationMs int
	Detail     string
	Timestamp  string
}

// BeginRun inserts a new run row and returns its id.
func (d *DB) BeginRun(nodeVersion, npmVersion string, fixOnly, skipInstall bool) (int64, error) {
	res, err := d.conn.Exec(
		`INSERT INTO runs (node_version, npm_version, fix_only, skip_install) VALUES (?, ?, ?, ?)`,
		nodeVersion, npmVersion, fixOnly, skipInstall,
	)
	if err != nil {
		return 0, fmt.Errorf("begin run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	return id, nil
}

// FinishRun records the final verdict and completion time of a run.
func (d *DB) FinishRun(runID int64, verdict bool) error {
	res, err := d.conn.Exec(
		`UPDATE runs SET verdict = ?, finished_at = datetime('now') WHERE id = ?`,
		verdict, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %d not found", runID)
	}
	return nil
}

// LogStage inserts one stage outcome for a run.
func (d *DB) LogStage(runID int64, stage string, passed, skipped bool, durationMs int, detail string) error {
	_, err := d.conn.Exec(
		`INSERT INTO stage_events (run_id, stage, passed, skipped, duration_ms, detail)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, passed, skipped, durationMs, detail,
	)
	if err != nil {
		return fmt.Errorf("log stage: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 returns
// all runs.
func (d *DB) ListRuns(limit int) ([]Run, error) {
	query := `SELECT id, started_at, finished_at, verdict, node_version, npm_version, fix_only, skip_install
	          FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var finishedAt, nodeVersion, npmVersion sql.NullString
		var verdict sql.NullBool
		if err := rows.Scan(&r.ID, &r.StartedAt, &finishedAt, &verdict, &nodeVersion, &npmVersion, &r.FixOnly, &r.SkipInstall); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if finishedAt.Valid {
			r.FinishedAt = finishedAt.String
		}
		if verdict.Valid {
			v := verdict.Bool
			r.Verdict = &v
		}
		if nodeVersion.Valid {
			r.NodeVersion = nodeVersion.String
		}
		if npmVersion.Valid {
			r.NPMVersion = npmVersion.String
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunStages returns the stage events of a run in execution order.
func (d *DB) RunStages(runID int64) ([]StageEvent, error) {
	rows, err := d.conn.Query(
		`SELECT id, run_id, stage, passed, skipped, duration_ms, detail, timestamp
		 FROM stage_events WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("run stages: %w", err)
	}
	defer rows.Close()

	var events []StageEvent
	for rows.Next() {
		var e StageEvent
		var durationMs sql.NullInt64
		var detail sql.NullString
		if err := rows.Scan(&e.ID, &e.RunID, &e.Stage, &e.Passed, &e.Skipped, &durationMs, &detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan stage event: %w", err)
		}
		if durationMs.Valid {
			e.DurationMs = int(durationMs.Int64)
		}
		if detail.Valid {
			e.Detail = detail.String
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
