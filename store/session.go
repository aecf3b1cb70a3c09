package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcalloway/braid"
	braidjson "github.com/jcalloway/braid/json"
)

// SessionRecord is a stored snapshot with its archive metadata.
type SessionRecord struct {
	ID      string
	Title   string
	SavedAt time.Time
	State   braid.SessionState
}

// SessionSummary is the listing view of a stored session. The snapshot
// itself stays on disk until requested.
type SessionSummary struct {
	ID       string
	Title    string
	Phase    braid.Phase
	RAGLogID string
	SavedAt  time.Time
}

// SaveSession archives a snapshot under a fresh id and returns it.
// The snapshot column holds the same versioned envelope the json
// package writes to files.
func (db *DB) SaveSession(ctx context.Context, title string, s braid.SessionState) (string, error) {
	data, err := braidjson.MarshalState(s)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	id := uuid.New().String()
	savedAt := time.Now().UTC()

	_, err = db.sql.ExecContext(ctx,
		`INSERT INTO sessions (id, title, phase, rag_log_id, snapshot, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, title, string(s.Phase), s.RAGLogID, string(data), savedAt.Format(time.DateTime),
	)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}

	db.log.Debug().Str("id", id).Str("title", title).Msg("session saved")
	return id, nil
}

// GetSession loads one archived session. Returns
// [braid.ErrSessionNotFound] when no row matches.
func (db *DB) GetSession(ctx context.Context, id string) (SessionRecord, error) {
	var rec SessionRecord
	var snapshot, savedAt string

	err := db.sql.QueryRowContext(ctx,
		`SELECT id, title, snapshot, saved_at FROM sessions WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Title, &snapshot, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, braid.ErrSessionNotFound
	}
	if err != nil {
		return SessionRecord{}, fmt.Errorf("query session: %w", err)
	}

	rec.State, err = braidjson.UnmarshalState([]byte(snapshot))
	if err != nil {
		return SessionRecord{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	rec.SavedAt, err = time.Parse(time.DateTime, savedAt)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("parse saved_at: %w", err)
	}

	return rec, nil
}

// ListSessions returns summaries of all archived sessions, newest
// first.
func (db *DB) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, title, phase, rag_log_id, saved_at
		 FROM sessions ORDER BY saved_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		var phase, savedAt string
		if err := rows.Scan(&sum.ID, &sum.Title, &phase, &sum.RAGLogID, &savedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sum.Phase = braid.Phase(phase)
		sum.SavedAt, err = time.Parse(time.DateTime, savedAt)
		if err != nil {
			return nil, fmt.Errorf("parse saved_at: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return out, nil
}

// DeleteSession removes one archived session. Returns
// [braid.ErrSessionNotFound] when no row matches.
func (db *DB) DeleteSession(ctx context.Context, id string) error {
	res, err := db.sql.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return braid.ErrSessionNotFound
	}
	return nil
}
