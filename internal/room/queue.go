package room

import (
	"sync"

	"github.com/google/uuid"
)

// waiter is one entry in the quick-match queue.
type waiter struct {
	conn PlayerConnection
}

// MatchQueue is the FIFO "quick match" waiting list. Unlike
// go-kgp's queue, which pairs clients on every enqueue/forget event
// from inside one manager goroutine, here the queue is a plain
// mutex-guarded slice: matchmaking is infrequent enough that a manager
// goroutine would only add indirection.
type MatchQueue struct {
	mu    sync.Mutex
	queue []waiter
}

// NewMatchQueue returns an empty matchmaking queue.
func NewMatchQueue() *MatchQueue {
	return &MatchQueue{}
}

// Enqueue adds conn to the back of the queue and, if another waiter is
// already present, pops and returns both as a matched pair ready to
// become a room's Gold and Red slots. A playerID already queued (a
// stale or duplicate socket for the same player) is not appended again
// and never matched against itself.
func (q *MatchQueue) Enqueue(conn PlayerConnection) (matched bool, gold, red PlayerConnection) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, w := range q.queue {
		if w.conn.PlayerID == conn.PlayerID {
			return false, PlayerConnection{}, PlayerConnection{}
		}
	}

	if len(q.queue) == 0 {
		q.queue = append(q.queue, waiter{conn})
		return false, PlayerConnection{}, PlayerConnection{}
	}

	first := q.queue[0]
	q.queue = q.queue[1:]
	return true, first.conn, conn
}

// LeaveByPlayerID removes playerID's entry from the queue, if present.
func (q *MatchQueue) LeaveByPlayerID(playerID uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.removeWhere(func(w waiter) bool { return w.conn.PlayerID == playerID })
}

// LeaveBySocketID removes the entry bound to socketID, if present —
// used when a socket disconnects while queued.
func (q *MatchQueue) LeaveBySocketID(socketID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.removeWhere(func(w waiter) bool { return w.conn.SocketID == socketID })
}

func (q *MatchQueue) removeWhere(match func(waiter) bool) {
	out := q.queue[:0]
	for _, w := range q.queue {
		if !match(w) {
			out = append(out, w)
		}
	}
	q.queue = out
}
