package storage

import (
	"context"
	"time"

	"gonum.org/v1/gonum/stat"
)

// RosterEntry is one row of the read-only roster projection.
type RosterEntry struct {
	Username     string
	CreatedAt    time.Time
	Wins         int
	Losses       int
	AvgPointsWon float64
}

// Roster joins completed matches against guests with a claimed
// username, producing win/loss counts and the mean points won per
// victory. The mean is computed with gonum/stat rather than by hand,
// continuing the upstream engine's habit of reaching for gonum for its
// statistics rather than rolling its own.
func (db *DB) Roster(ctx context.Context) ([]RosterEntry, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	type guestRow struct {
		id        string
		username  string
		createdAt time.Time
	}
	var guests []guestRow
	rows, err := db.queries["roster"].QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var g guestRow
		if err := rows.Scan(&g.id, &g.username, &g.createdAt); err != nil {
			rows.Close()
			return nil, err
		}
		guests = append(guests, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	type match struct {
		goldID, redID, winnerID string
		pointsWon               int
	}
	var matches []match
	mrows, err := db.queries["roster-matches"].QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	for mrows.Next() {
		var m match
		if err := mrows.Scan(&m.goldID, &m.redID, &m.winnerID, &m.pointsWon); err != nil {
			mrows.Close()
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := mrows.Err(); err != nil {
		return nil, err
	}
	mrows.Close()

	entries := make([]RosterEntry, 0, len(guests))
	for _, g := range guests {
		entry := RosterEntry{Username: g.username, CreatedAt: g.createdAt}
		var winPoints []float64
		for _, m := range matches {
			member := m.goldID == g.id || m.redID == g.id
			if !member {
				continue
			}
			if m.winnerID == g.id {
				entry.Wins++
				winPoints = append(winPoints, float64(m.pointsWon))
			} else {
				entry.Losses++
			}
		}
		if len(winPoints) > 0 {
			entry.AvgPointsWon = stat.Mean(winPoints, nil)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
