package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/yourusername/bgserver/internal/identity"
)

// CreateGuest persists a freshly created guest.
func (db *DB) CreateGuest(ctx context.Context, g identity.Guest) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return db.do(ctx, func(conn *sql.DB) error {
		_, err := db.queries["insert-guest"].ExecContext(ctx,
			g.ID.String(), g.DisplayName, g.Username, g.Token, g.CreatedAt)
		return err
	})
}

// GuestByToken looks up a guest by its persistent auth token, returning
// identity.ErrNotFound when no guest owns it.
func (db *DB) GuestByToken(ctx context.Context, token string) (*identity.Guest, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := db.queries["guest-by-token"].QueryRowContext(ctx, token)
	var g identity.Guest
	var idStr string
	var username sql.NullString
	if err := row.Scan(&idStr, &g.DisplayName, &username, &g.Token, &g.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identity.ErrNotFound
		}
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	g.ID = id
	if username.Valid {
		g.Username = &username.String
	}
	return &g, nil
}

// ClaimUsername enforces uniqueness and single-claim per guest under
// the write-serializing goroutine, so the check-then-set is race-free.
func (db *DB) ClaimUsername(ctx context.Context, id uuid.UUID, username string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return db.do(ctx, func(conn *sql.DB) error {
		var x int
		err := db.queries["username-taken"].QueryRowContext(ctx, username).Scan(&x)
		if err == nil {
			return identity.ErrUsernameTaken
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		err = db.queries["guest-has-username"].QueryRowContext(ctx, id.String()).Scan(&x)
		if err == nil {
			return identity.ErrAlreadyClaimed
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		res, err := db.queries["claim-username"].ExecContext(ctx, username, id.String())
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return identity.ErrAlreadyClaimed
		}
		return nil
	})
}

var _ identity.Store = (*DB)(nil)
