/*
Package randx provides identifier generation and presence color assignment.

Connection and message identifiers are UUIDs; presence colors are picked from
a fixed palette so a user without a client-chosen color still renders
consistently across tabs.
*/
package randx

import (
	"hash/fnv"

	"github.com/google/uuid"
)

// presencePalette is the set of cursor/avatar colors assigned to users that
// did not pick one themselves.
var presencePalette = []string{
	"#E74C3C",
	"#8E44AD",
	"#2980B9",
	"#16A085",
	"#F39C12",
	"#D35400",
	"#27AE60",
	"#C0392B",
}

// ConnectionID generates a unique identifier for a transport session.
func ConnectionID() string {
	return uuid.New().String()
}

// MessageID generates a unique identifier for an outbound message.
func MessageID() string {
	return uuid.New().String()
}

// PresenceColor deterministically picks a palette color for the user, so the
// same user gets the same fallback color on every connection.
func PresenceColor(userID string) string {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return presencePalette[h.Sum32()%uint32(len(presencePalette))]
}
