package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// MatchResult is one finished game's outcome, recorded for the roster
// query.
type MatchResult struct {
	ID           uuid.UUID
	GoldPlayerID uuid.UUID
	RedPlayerID  uuid.UUID
	WinnerID     uuid.UUID
	WinType      string
	PointsWon    int
	CreatedAt    time.Time
	CompletedAt  time.Time
}

// RecordMatch appends a finished match. Callers on the gameplay hot
// path should invoke this from a worker-pool goroutine rather than
// inline: writes are best-effort, logged on failure, and must never
// block or abort the game-over broadcast.
func (db *DB) RecordMatch(ctx context.Context, m MatchResult) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return db.do(ctx, func(conn *sql.DB) error {
		_, err := db.queries["insert-match"].ExecContext(ctx,
			m.ID.String(), m.GoldPlayerID.String(), m.RedPlayerID.String(),
			m.WinnerID.String(), m.WinType, m.PointsWon, m.CreatedAt, m.CompletedAt)
		return err
	})
}
