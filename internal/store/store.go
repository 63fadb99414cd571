// Package store handles SQLite persistence of the phase history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/zenfocus/internal/model"
	"github.com/verte-zerg/zenfocus/internal/timer"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const dayLayout = "2006-01-02"

// Store wraps SQLite access for the history log.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS phases (
			id INTEGER PRIMARY KEY,
			phase TEXT NOT NULL,
			planned_seconds INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_phases_ended_at ON phases(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertPhase appends a completed phase. Times are stored in local time so
// that the first ten characters of ended_at are the local calendar day.
func (s *Store) InsertPhase(ctx context.Context, rec model.PhaseRecord) (int64, error) {
	if _, err := timer.ParsePhase(rec.Phase.String()); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO phases (phase, planned_seconds, started_at, ended_at) VALUES (?, ?, ?, ?)`,
		rec.Phase.String(),
		int64(rec.Planned/time.Second),
		formatTime(rec.StartedAt),
		formatTime(rec.EndedAt),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListPhases returns recorded phases in chronological order. With Last set,
// only the most recent Last entries are returned.
func (s *Store) ListPhases(ctx context.Context, filter model.HistoryFilter) ([]model.PhaseRecord, error) {
	where, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT id, phase, planned_seconds, started_at, ended_at
		FROM phases
		WHERE %s
		ORDER BY ended_at DESC, id DESC`, where)
	if filter.Last > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			_ = cerr
		}
	}()

	var records []model.PhaseRecord
	for rows.Next() {
		var rec model.PhaseRecord
		var phase, startedAt, endedAt string
		var planned int64
		if err := rows.Scan(&rec.ID, &phase, &planned, &startedAt, &endedAt); err != nil {
			return nil, err
		}
		if rec.Phase, err = timer.ParsePhase(phase); err != nil {
			return nil, err
		}
		rec.Planned = time.Duration(planned) * time.Second
		if rec.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	reverse(records)
	return records, nil
}

// DailyTotals aggregates phases per local day in chronological order. With
// Last set, only the most recent Last days are returned.
func (s *Store) DailyTotals(ctx context.Context, filter model.HistoryFilter) ([]model.DayTotal, error) {
	where, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT substr(ended_at, 1, 10) AS day,
		SUM(CASE WHEN phase = 'focus' THEN 1 ELSE 0 END),
		SUM(CASE WHEN phase = 'focus' THEN planned_seconds ELSE 0 END),
		SUM(CASE WHEN phase = 'break' THEN 1 ELSE 0 END),
		SUM(CASE WHEN phase = 'break' THEN planned_seconds ELSE 0 END)
		FROM phases
		WHERE %s
		GROUP BY day
		ORDER BY day DESC`, where)
	if filter.Last > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			_ = cerr
		}
	}()

	var days []model.DayTotal
	for rows.Next() {
		var day string
		var focusSecs, breakSecs int64
		var total model.DayTotal
		if err := rows.Scan(&day, &total.FocusSessions, &focusSecs, &total.BreakSessions, &breakSecs); err != nil {
			return nil, err
		}
		parsed, err := time.ParseInLocation(dayLayout, day, time.Local)
		if err != nil {
			return nil, err
		}
		total.Day = parsed
		total.FocusTime = time.Duration(focusSecs) * time.Second
		total.BreakTime = time.Duration(breakSecs) * time.Second
		days = append(days, total)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	reverse(days)
	return days, nil
}

func filterClauses(filter model.HistoryFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Phase != "" {
		clauses = append(clauses, "phase = ?")
		args = append(args, filter.Phase.String())
	}
	if filter.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*filter.Since))
	}
	return strings.Join(clauses, " AND "), args
}

func formatTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}

func reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
