// Package presence tracks which users currently have an open channel and
// which connection carries it. At most one channel per user: a reconnect
// overwrites the prior entry, and teardown removes an entry only when it
// still belongs to the closing connection.
package presence

import "context"

type Registry interface {
	// SetOnline records connID as the user's current channel,
	// unconditionally replacing any previous entry.
	SetOnline(ctx context.Context, userID, connID string) error

	// Channel returns the user's current channel id. Absence means offline
	// and is not an error.
	Channel(ctx context.Context, userID string) (connID string, ok bool, err error)

	// RemoveIfMatches removes the entry only if its current value equals
	// connID, so a superseded connection's teardown cannot evict the entry
	// written by a fresher connection.
	RemoveIfMatches(ctx context.Context, userID, connID string) error
}
