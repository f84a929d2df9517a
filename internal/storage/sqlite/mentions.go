package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandevgo/pleiabot/internal/core"
	"github.com/sandevgo/pleiabot/pkg/log"
)

type MentionsRepo struct {
	db *sql.DB
}

func NewMentionsRepo(db *sql.DB) *MentionsRepo {
	return &MentionsRepo{db: db}
}

// MarkHandled records a mention and reports whether this is the first time
// it has been seen.
func (r *MentionsRepo) MarkHandled(ctx context.Context, source, eventID, querent string) (bool, error) {
	query := `INSERT INTO mentions (source, event_id, querent) VALUES (?, ?, ?) ON CONFLICT (source, event_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, source, eventID, querent)
	if err != nil {
		return false, fmt.Errorf("failed to mark mention: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		log.FromCtx(ctx).Debug().Str("source", source).Str("event_id", eventID).Msg("mention already handled")
	}
	return n == 1, nil
}

func (r *MentionsRepo) RecordReply(ctx context.Context, source, eventID, question string, chunks []string) error {
	chunksJSON, err := json.Marshal(chunks)
	if err != nil {
		return fmt.Errorf("failed to marshal chunks: %w", err)
	}

	query := `INSERT INTO replies (source, event_id, question, chunks, chunk_count) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, source, eventID, question, string(chunksJSON), len(chunks)); err != nil {
		return fmt.Errorf("failed to insert reply: %w", err)
	}
	return nil
}

// RecordFailure keeps a mention that was marked handled but never got its
// reply posted.
func (r *MentionsRepo) RecordFailure(ctx context.Context, source, eventID, question, reason string) error {
	query := `INSERT INTO failures (source, event_id, question, reason) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, source, eventID, question, reason); err != nil {
		return fmt.Errorf("failed to insert failure: %w", err)
	}
	return nil
}

func (r *MentionsRepo) Stats(ctx context.Context) (core.MentionStats, error) {
	var stats core.MentionStats
	var last sql.NullString

	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*), MAX(handled_at) FROM mentions`)
	if err := row.Scan(&stats.Handled, &last); err != nil {
		return stats, fmt.Errorf("failed to query mentions: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM replies`).Scan(&stats.Replies); err != nil {
		return stats, fmt.Errorf("failed to query replies: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM failures`).Scan(&stats.Failed); err != nil {
		return stats, fmt.Errorf("failed to query failures: %w", err)
	}

	if last.Valid {
		if t, err := time.Parse(time.DateTime, last.String); err == nil {
			stats.LastHandled = t
		}
	}
	return stats, nil
}
