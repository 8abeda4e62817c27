package doc

import "time"

// CursorEntry is the last known pointer position for one logical user on the
// document. Entries are ephemeral: overwritten on every cursor event, removed
// when the user's last connection closes, never persisted.
type CursorEntry struct {
	UserID      string    `json:"userId"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	DisplayName string    `json:"displayName"`
	Color       string    `json:"color"`
	LastUpdate  time.Time `json:"lastUpdate"`
}

// cursorTable holds cursor entries keyed by user id. Like the registry it is
// touched only from the owning session's event loop.
type cursorTable struct {
	entries map[string]CursorEntry
}

func newCursorTable() *cursorTable {
	return &cursorTable{entries: make(map[string]CursorEntry)}
}

// Set records the position for the user, replacing any previous entry.
func (t *cursorTable) Set(entry CursorEntry) {
	entry.LastUpdate = time.Now()
	t.entries[entry.UserID] = entry
}

// Remove drops the user's entry, called when the user fully leaves.
func (t *cursorTable) Remove(userID string) {
	delete(t.entries, userID)
}

// Get returns the current entry for the user.
func (t *cursorTable) Get(userID string) (CursorEntry, bool) {
	entry, ok := t.entries[userID]
	return entry, ok
}

// Clear drops every entry.
func (t *cursorTable) Clear() {
	t.entries = make(map[string]CursorEntry)
}
