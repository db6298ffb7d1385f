package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"id":        float64(7),
		"firstname": "Ana",
		"lastname":  "Pérez",
		"username":  "aperez",
		"email":     "ana@example.com",
		"phone":     "600111222",
		"age":       float64(31),
		"role":      "standard",
		"exp":       float64(testNow.Add(time.Hour).Unix()),
	}
}

func TestDecodeIdentity(t *testing.T) {
	id, err := DecodeIdentity(signToken(t, validClaims()), testNow)
	require.NoError(t, err)

	assert.Equal(t, int64(7), id.ID)
	assert.Equal(t, "Ana", id.Firstname)
	assert.Equal(t, "Pérez", id.Lastname)
	assert.Equal(t, "aperez", id.Username)
	assert.Equal(t, "ana@example.com", id.Email)
	assert.Equal(t, "600111222", id.Phone)
	assert.Equal(t, 31, id.Age)
	assert.Equal(t, "standard", id.Role)
	assert.Empty(t, id.Action)
}

func TestDecodeIdentityActionScope(t *testing.T) {
	claims := validClaims()
	claims["action"] = "recover-password"
	id, err := DecodeIdentity(signToken(t, claims), testNow)
	require.NoError(t, err)
	assert.Equal(t, "recover-password", id.Action)
}

func TestDecodeIdentityRejectsIncompleteClaims(t *testing.T) {
	for _, key := range []string{"firstname", "lastname", "username", "email", "age"} {
		t.Run("missing "+key, func(t *testing.T) {
			claims := validClaims()
			delete(claims, key)
			_, err := DecodeIdentity(signToken(t, claims), testNow)
			assert.ErrorIs(t, err, ErrInvalidCredential)
		})
	}
}

func TestDecodeIdentityRejectsExpired(t *testing.T) {
	claims := validClaims()
	claims["exp"] = float64(testNow.Add(-time.Minute).Unix())
	_, err := DecodeIdentity(signToken(t, claims), testNow)
	assert.ErrorIs(t, err, ErrInvalidCredential)

	// Expiry is strict: a token expiring exactly now is already dead.
	claims["exp"] = float64(testNow.Unix())
	_, err = DecodeIdentity(signToken(t, claims), testNow)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func recoveryClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"id":     float64(7),
		"role":   "standard",
		"action": ActionRecoverPassword,
		"exp":    float64(testNow.Add(time.Hour).Unix()),
	}
}

// Recovery tokens carry no profile claims; the slim set the backend mints
// must be enough.
func TestDecodeRecoveryIdentity(t *testing.T) {
	id, err := DecodeRecoveryIdentity(signToken(t, recoveryClaims()), testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id.ID)
	assert.Equal(t, "standard", id.Role)
	assert.Equal(t, ActionRecoverPassword, id.Action)
}

func TestDecodeRecoveryIdentityRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(jwt.MapClaims)
	}{
		{"missing action", func(c jwt.MapClaims) { delete(c, "action") }},
		{"wrong action", func(c jwt.MapClaims) { c["action"] = "refresh" }},
		{"wrong role", func(c jwt.MapClaims) { c["role"] = "root" }},
		{"missing id", func(c jwt.MapClaims) { delete(c, "id") }},
		{"missing exp", func(c jwt.MapClaims) { delete(c, "exp") }},
		{"expired", func(c jwt.MapClaims) { c["exp"] = float64(testNow.Add(-time.Minute).Unix()) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := recoveryClaims()
			tt.mutate(claims)
			_, err := DecodeRecoveryIdentity(signToken(t, claims), testNow)
			assert.ErrorIs(t, err, ErrInvalidCredential)
		})
	}
}

// An ordinary session token has the full profile but no action scope; it
// must not pass as a recovery token.
func TestDecodeRecoveryIdentityRejectsSessionToken(t *testing.T) {
	_, err := DecodeRecoveryIdentity(signToken(t, validClaims()), testNow)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestDecodeIdentityRejectsGarbage(t *testing.T) {
	_, err := DecodeIdentity("not-a-jwt", testNow)
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = DecodeIdentity("", testNow)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
