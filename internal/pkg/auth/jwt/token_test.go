package jwt

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func identity() *Payload {
	return &Payload{
		UserID: "u-1",
		Email:  "u1@example.com",
		Name:   "U One",
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	tokenString, err := GenerateToken(identity(), testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	payload, err := ParseToken(tokenString, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "u-1", payload.UserID)
	assert.Equal(t, "u1@example.com", payload.Email)
	assert.Equal(t, "U One", payload.Name)
	assert.Equal(t, TokenIssuer, payload.Issuer)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tokenString, err := GenerateToken(identity(), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tokenString, "other-secret")
	assert.Error(t, err)
}

func TestParseTokenRejectsExpiredToken(t *testing.T) {
	tokenString, err := GenerateToken(identity(), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(tokenString, testSecret)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token", testSecret)
	assert.Error(t, err)
}

func TestTokenFromRequestPrefersAuthorizationHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws?token=from-query", nil)
	r.Header.Set("Authorization", "Bearer from-header")

	assert.Equal(t, "from-header", TokenFromRequest(r))
}

func TestTokenFromRequestFallsBackToQueryParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws?token=from-query", nil)

	assert.Equal(t, "from-query", TokenFromRequest(r))
}

func TestTokenFromRequestRejectsMalformedHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws?token=from-query", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	assert.Equal(t, "", TokenFromRequest(r), "a non-Bearer header does not fall back to the query")
}

func TestTokenFromRequestEmpty(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws", nil)
	assert.Equal(t, "", TokenFromRequest(r))
}
