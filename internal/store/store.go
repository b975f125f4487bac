// Package store handles SQLite persistence of finished races.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/romarace/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Store wraps SQLite access for race history.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger attaches a logger for debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l.With().Str("component", "store").Logger() }
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string, opts ...Option) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	store := &Store{db: db, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			uuid TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			lang TEXT NOT NULL,
			style TEXT NOT NULL,
			strict INTEGER NOT NULL,
			target TEXT NOT NULL,
			words INTEGER NOT NULL,
			wordlist_path TEXT NOT NULL,
			total_keystrokes INTEGER NOT NULL,
			correct_keystrokes INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_word_stats (
			session_id INTEGER NOT NULL,
			idx INTEGER NOT NULL,
			surface TEXT NOT NULL,
			romaji TEXT NOT NULL,
			total_keystrokes INTEGER NOT NULL,
			correct_keystrokes INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			PRIMARY KEY (session_id, idx)
		);`,
		`CREATE TABLE IF NOT EXISTS session_key_stats (
			session_id INTEGER NOT NULL,
			romaji_key TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			latency_sum_ms INTEGER NOT NULL,
			latency_count INTEGER NOT NULL,
			PRIMARY KEY (session_id, romaji_key)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_key_stats_key ON session_key_stats(romaji_key);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished race with its word and key stats.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats, words []model.WordStats, keys []model.KeyStats) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	query, args, err := sqlBuilder.Insert("sessions").
		Columns("uuid", "started_at", "ended_at", "mode", "lang", "style", "strict", "target",
			"words", "wordlist_path", "total_keystrokes", "correct_keystrokes", "error_count", "duration_ms").
		Values(
			stats.UUID,
			stats.StartedAt.Format(time.RFC3339Nano),
			stats.EndedAt.Format(time.RFC3339Nano),
			stats.Mode,
			stats.Lang,
			stats.Style,
			stats.Strict,
			stats.Target,
			stats.Words,
			stats.WordListPath,
			stats.TotalKeystrokes,
			stats.CorrectKeystrokes,
			stats.ErrorCount,
			stats.DurationMs,
		).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(words) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO session_word_stats (session_id, idx, surface, romaji, total_keystrokes, correct_keystrokes, error_count, duration_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer closeStmt(stmt)
		for _, ws := range words {
			if _, err := stmt.ExecContext(ctx, id, ws.Index, ws.Surface, ws.Romaji, ws.TotalKeystrokes, ws.CorrectKeystrokes, ws.ErrorCount, ws.DurationMs); err != nil {
				return 0, fmt.Errorf("failed to insert word stats: %w", err)
			}
		}
	}

	if len(keys) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO session_key_stats (session_id, romaji_key, correct, incorrect, latency_sum_ms, latency_count)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer closeStmt(stmt)
		for _, ks := range keys {
			if _, err := stmt.ExecContext(ctx, id, ks.Key, ks.Correct, ks.Incorrect, ks.LatencySumMs, ks.LatencyCount); err != nil {
				return 0, fmt.Errorf("failed to insert key stats: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit session: %w", err)
	}
	s.log.Debug().Int64("id", id).Str("session", stats.UUID).Str("mode", stats.Mode).
		Int("words", len(words)).Int("keys", len(keys)).Msg("session stored")
	return id, nil
}

func closeStmt(stmt *sql.Stmt) {
	if cerr := stmt.Close(); cerr != nil {
		// Best-effort statement close.
		_ = cerr
	}
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}

// GetWeakKeys aggregates key stats over the most recent sessions.
func (s *Store) GetWeakKeys(ctx context.Context, window int, lang string) ([]model.KeyAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	recent := sqlBuilder.Select("id").From("sessions").OrderBy("ended_at DESC").Limit(uint64(window))
	if lang != "" {
		recent = recent.Where(squirrel.Eq{"lang": lang})
	}
	recentSQL, recentArgs, err := recent.ToSql()
	if err != nil {
		return nil, err
	}
	query, args, err := sqlBuilder.
		Select("ks.romaji_key", "SUM(ks.correct)", "SUM(ks.incorrect)", "SUM(ks.latency_sum_ms)", "SUM(ks.latency_count)").
		From("session_key_stats ks").
		Where("ks.session_id IN ("+recentSQL+")", recentArgs...).
		GroupBy("ks.romaji_key").
		ToSql()
	if err != nil {
		return nil, err
	}
	return s.queryKeyAggregates(ctx, query, args)
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	q := sqlBuilder.
		Select("id", "uuid", "ended_at", "mode", "lang", "correct_keystrokes", "error_count", "duration_ms").
		From("sessions").
		OrderBy("ended_at ASC")
	if cfg.Lang != "" {
		q = q.Where(squirrel.Eq{"lang": cfg.Lang})
	}
	if cfg.Mode != "" {
		q = q.Where(squirrel.Eq{"mode": cfg.Mode})
	}
	if cfg.Since != nil {
		q = q.Where(squirrel.GtOrEq{"ended_at": cfg.Since.Format(time.RFC3339Nano)})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer closeRows(rows)

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &agg.UUID, &endedAt, &agg.Mode, &agg.Lang, &agg.Correct, &agg.Incorrect, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ended_at: %w", err)
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListKeyAggregatesForSessions aggregates per-key stats across sessions.
func (s *Store) ListKeyAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.KeyAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlBuilder.
		Select("romaji_key", "SUM(correct)", "SUM(incorrect)", "SUM(latency_sum_ms)", "SUM(latency_count)").
		From("session_key_stats").
		Where(squirrel.Eq{"session_id": sessionIDs}).
		GroupBy("romaji_key").
		ToSql()
	if err != nil {
		return nil, err
	}
	return s.queryKeyAggregates(ctx, query, args)
}

func (s *Store) queryKeyAggregates(ctx context.Context, query string, args []any) ([]model.KeyAggregate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate key stats: %w", err)
	}
	defer closeRows(rows)

	var result []model.KeyAggregate
	for rows.Next() {
		var agg model.KeyAggregate
		if err := rows.Scan(&agg.Key, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListKeyStatsForSessions returns per-session stats for selected keys.
func (s *Store) ListKeyStatsForSessions(ctx context.Context, sessionIDs []int64, keys []string) (map[int64]map[string]model.KeyAggregate, error) {
	if len(sessionIDs) == 0 || len(keys) == 0 {
		return map[int64]map[string]model.KeyAggregate{}, nil
	}
	query, args, err := sqlBuilder.
		Select("session_id", "romaji_key", "correct", "incorrect", "latency_sum_ms", "latency_count").
		From("session_key_stats").
		Where(squirrel.Eq{"session_id": sessionIDs, "romaji_key": keys}).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list key stats: %w", err)
	}
	defer closeRows(rows)

	result := map[int64]map[string]model.KeyAggregate{}
	for rows.Next() {
		var sessionID int64
		var agg model.KeyAggregate
		if err := rows.Scan(&sessionID, &agg.Key, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		if _, ok := result[sessionID]; !ok {
			result[sessionID] = map[string]model.KeyAggregate{}
		}
		result[sessionID][agg.Key] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListWordStats returns the completed words of the given sessions, slowest
// per-keystroke first, limited to limit rows when limit > 0.
func (s *Store) ListWordStats(ctx context.Context, sessionIDs []int64, limit int) ([]model.WordStats, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	q := sqlBuilder.
		Select("idx", "surface", "romaji", "total_keystrokes", "correct_keystrokes", "error_count", "duration_ms").
		From("session_word_stats").
		Where(squirrel.Eq{"session_id": sessionIDs}).
		Where(squirrel.Gt{"correct_keystrokes": 0}).
		OrderBy("CAST(duration_ms AS REAL) / correct_keystrokes DESC", "surface ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list word stats: %w", err)
	}
	defer closeRows(rows)

	var result []model.WordStats
	for rows.Next() {
		var ws model.WordStats
		if err := rows.Scan(&ws.Index, &ws.Surface, &ws.Romaji, &ws.TotalKeystrokes, &ws.CorrectKeystrokes, &ws.ErrorCount, &ws.DurationMs); err != nil {
			return nil, err
		}
		result = append(result, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
