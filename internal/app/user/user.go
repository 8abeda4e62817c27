/*
Package user contains the core data structures describing a logical user identity.

A logical user is a human identity resolved by the authentication layer; the same
user may hold several simultaneous connections (tabs, devices) to one document.
*/
package user

// User represents the verified identity of a participant, as produced by the
// identity resolver at connection time. Fields use JSON tags for serialization
// in WebSocket messages.
type User struct {

	// ID is the unique identifier of the logical user.
	ID string `json:"userId"`

	// Name is the display name shown to other participants.
	Name string `json:"displayName"`

	// Email is the user's email address, recorded on collaborator enrollment.
	Email string `json:"email,omitempty"`

	// Color is the presence color assigned to this user's cursor and avatar.
	Color string `json:"color"`
}

// Summary is the deduplicated per-user record published in online-user lists.
// It never exposes how many connections back the entry.
type Summary struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
}

// Summary returns the presence summary for the user.
func (u User) Summary() Summary {
	return Summary{
		UserID:      u.ID,
		DisplayName: u.Name,
		Color:       u.Color,
	}
}
