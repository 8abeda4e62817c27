package doc

import (
	"errors"
	"time"

	"livedocs/internal/app/user"
)

// ErrSendQueueFull is reported by a Sink whose outbound queue cannot accept
// another message.
var ErrSendQueueFull = errors.New("client send queue full")

// Sink receives outbound messages for a single connection. The WebSocket
// Client is the production implementation; tests substitute in-memory sinks
// so the coordinator runs without a live transport.
type Sink interface {
	// Send queues a message for delivery. It must not block; a full or
	// closed transport reports an error instead.
	Send(msg Message) error
}

// Connection is one transport session joined to a document. It is owned by
// the session's registry for the lifetime of the transport session and is
// never persisted.
type Connection struct {
	ID       string
	User     user.User
	JoinedAt time.Time
	sink     Sink
}

// Registry is the per-document bookkeeping of live connections, keyed by
// connection id. It distinguishes "same user, second tab" from "new user".
// All methods are called from the owning session's event loop only; the
// registry itself takes no locks.
type Registry struct {
	conns map[string]Connection
}

// NewRegistry returns an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Connection)}
}

// Register inserts or overwrites the connection entry. Registering the same
// connection id twice is idempotent.
func (r *Registry) Register(conn Connection) {
	r.conns[conn.ID] = conn
}

// Unregister removes the entry and returns it. A second unregister for the
// same id reports ok=false; double-disconnect is tolerated.
func (r *Registry) Unregister(connectionID string) (Connection, bool) {
	conn, ok := r.conns[connectionID]
	if ok {
		delete(r.conns, connectionID)
	}
	return conn, ok
}

// Get returns the connection entry for the id.
func (r *Registry) Get(connectionID string) (Connection, bool) {
	conn, ok := r.conns[connectionID]
	return conn, ok
}

// ConnectionsForUser returns every live connection held by the logical user.
// An empty result before registering means the join is the user's first
// presence; a non-empty result after unregistering means a tab remains.
func (r *Registry) ConnectionsForUser(userID string) []Connection {
	var out []Connection
	for _, conn := range r.conns {
		if conn.User.ID == userID {
			out = append(out, conn)
		}
	}
	return out
}

// IsEmpty reports whether no connection remains on the document.
func (r *Registry) IsEmpty() bool {
	return len(r.conns) == 0
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	return len(r.conns)
}

// Each invokes fn for every live connection.
func (r *Registry) Each(fn func(Connection)) {
	for _, conn := range r.conns {
		fn(conn)
	}
}

// Clear drops every entry, used when a document is deleted outright.
func (r *Registry) Clear() {
	r.conns = make(map[string]Connection)
}
