package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the JWT claims carried by a LiveDocs access token. It is
// the verified identity handed to the realtime coordinator on join; the
// coordinator itself never issues or inspects tokens.
type Payload struct {
	// StandardClaims embeds the JWT standard fields (Exp, Iat, Iss) used
	// for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the unique identifier of the logical user.
	UserID string `json:"user_id"`

	// Email is the user's email address.
	Email string `json:"email"`

	// Name is the user's display name.
	Name string `json:"name"`
}
