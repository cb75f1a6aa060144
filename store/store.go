// Package store keeps the session history in SQLite
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/lixenwraith/party-fever/games"
	"github.com/lixenwraith/party-fever/progress"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrNotFound is returned when a session id has no row
var ErrNotFound = errors.New("session not found")

// --------- Data models ---------

// SessionRecord is one stored session
type SessionRecord struct {
	ID         uuid.UUID  `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	Rounds     int        `json:"rounds"`
	Passed     int        `json:"passed"`
	Failed     int        `json:"failed"`
	Level      int        `json:"level"`
	ElapsedMs  int64      `json:"elapsed_ms"`
	Background int        `json:"background"`
}

// RoundRecord is one resolved round
type RoundRecord struct {
	Round      int          `json:"round"`
	Game       games.Game   `json:"game"`
	Result     games.Result `json:"result"`
	RecordedAt time.Time    `json:"recorded_at"`
}

// --------- Store ---------

type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies pending migrations
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite serializes writers

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, fsys)
	if err != nil {
		return fmt.Errorf("migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// --------- Sessions ---------

// BeginSession inserts a new open session and returns its id
func (s *Store) BeginSession(ctx context.Context, startedAt time.Time, background int) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, background) VALUES (?, ?, ?)`,
		id.String(), startedAt.UTC(), background)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin session: %w", err)
	}
	return id, nil
}

// RecordRound stores one resolved round; idempotent on (session, round)
func (s *Store) RecordRound(ctx context.Context, id uuid.UUID, r RoundRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rounds (session_id, round, game, result, recorded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id, round) DO NOTHING`,
		id.String(), r.Round, r.Game.String(), r.Result.String(), r.RecordedAt.UTC())
	if err != nil {
		return fmt.Errorf("record round %d: %w", r.Round, err)
	}
	return nil
}

// FinishSession writes the final ledger
func (s *Store) FinishSession(ctx context.Context, id uuid.UUID, snap progress.Snapshot, endedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions
		SET ended_at=?, rounds=?, passed=?, failed=?, level=?, elapsed_ms=?
		WHERE id=?`,
		endedAt.UTC(), snap.Passed+snap.Failed, snap.Passed, snap.Failed, snap.Level,
		snap.Elapsed.Milliseconds(), id.String())
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish session %s: %w", id, ErrNotFound)
	}
	return nil
}

const sessionColumns = `id, started_at, ended_at, rounds, passed, failed, level, elapsed_ms, background`

func scanSession(row interface{ Scan(...any) error }) (SessionRecord, error) {
	var (
		rec   SessionRecord
		idStr string
		ended sql.NullTime
	)
	if err := row.Scan(&idStr, &rec.StartedAt, &ended, &rec.Rounds, &rec.Passed, &rec.Failed,
		&rec.Level, &rec.ElapsedMs, &rec.Background); err != nil {
		return SessionRecord{}, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("bad session id %q: %w", idStr, err)
	}
	rec.ID = id
	if ended.Valid {
		t := ended.Time
		rec.EndedAt = &t
	}
	return rec, nil
}

// Session returns one session
func (s *Store) Session(ctx context.Context, id uuid.UUID) (SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id=?`, id.String())
	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return rec, err
}

// Recent returns finished sessions, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]SessionRecord, error) {
	return s.list(ctx, `SELECT `+sessionColumns+` FROM sessions
		WHERE ended_at IS NOT NULL
		ORDER BY started_at DESC LIMIT ?`, limit)
}

// Best returns finished sessions ordered by rounds passed, then fewest failures
func (s *Store) Best(ctx context.Context, limit int) ([]SessionRecord, error) {
	return s.list(ctx, `SELECT `+sessionColumns+` FROM sessions
		WHERE ended_at IS NOT NULL
		ORDER BY passed DESC, rounds DESC, started_at ASC LIMIT ?`, limit)
}

func (s *Store) list(ctx context.Context, query string, limit int) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Rounds returns the rounds of a session in order
func (s *Store) Rounds(ctx context.Context, id uuid.UUID) ([]RoundRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT round, game, result, recorded_at FROM rounds
		WHERE session_id=? ORDER BY round`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoundRecord
	for rows.Next() {
		var (
			r            RoundRecord
			game, result string
		)
		if err := rows.Scan(&r.Round, &game, &result, &r.RecordedAt); err != nil {
			return nil, err
		}
		if err := r.Game.UnmarshalText([]byte(game)); err != nil {
			return nil, err
		}
		if err := r.Result.UnmarshalText([]byte(result)); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
