// Package session holds the console-side credential state: decoding the
// backend's bearer tokens into an operator identity, the explicit state
// container that tracks the one active credential, its persistence, and
// the view-gating rule derived from it.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"citas-admin/internal/model"
)

// ActionRecoverPassword is the action claim the backend stamps on the
// single-use tokens it mails out for password recovery.
const ActionRecoverPassword = "get-password"

// Identity is the decoded projection of a bearer credential: the account
// fields the backend embeds as claims, plus the expiry and an optional
// action scope for single-purpose tokens (password recovery).
type Identity struct {
	ID        int64
	Firstname string
	Lastname  string
	Username  string
	Email     string
	Phone     string
	Age       int
	Role      string
	Exp       int64
	Action    string
}

// ErrInvalidCredential is returned when a token cannot be decoded or its
// claims do not describe a usable console session.
var ErrInvalidCredential = errors.New("invalid credential")

// DecodeIdentity parses a bearer token and validates the claims a console
// session requires: firstname, lastname, email, username and age must be
// present and exp must lie in the future. The signature is not verified
// here; the backend signs and checks tokens, the console only reads them.
func DecodeIdentity(token string, now time.Time) (*Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, ErrInvalidCredential
	}

	id := &Identity{
		ID:        claimInt64(claims, "id"),
		Firstname: claimString(claims, "firstname"),
		Lastname:  claimString(claims, "lastname"),
		Username:  claimString(claims, "username"),
		Email:     claimString(claims, "email"),
		Phone:     claimString(claims, "phone"),
		Age:       int(claimInt64(claims, "age")),
		Role:      claimString(claims, "role"),
		Exp:       claimInt64(claims, "exp"),
		Action:    claimString(claims, "action"),
	}

	if id.Firstname == "" || id.Lastname == "" || id.Email == "" || id.Username == "" || id.Age == 0 {
		return nil, ErrInvalidCredential
	}
	if now.Unix() >= id.Exp {
		return nil, ErrInvalidCredential
	}
	return id, nil
}

// DecodeRecoveryIdentity parses a single-purpose password-recovery token.
// Recovery tokens are claims-slim — the backend mints them with only the
// account id, role, action scope and expiry — so the full profile rule of
// DecodeIdentity does not apply. Conversely an ordinary session token is
// rejected here: without the recovery action claim it must not authorize a
// password reset.
func DecodeRecoveryIdentity(token string, now time.Time) (*Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, ErrInvalidCredential
	}

	id := &Identity{
		ID:     claimInt64(claims, "id"),
		Role:   claimString(claims, "role"),
		Exp:    claimInt64(claims, "exp"),
		Action: claimString(claims, "action"),
	}

	if id.Role != model.RoleStandard || id.Action != ActionRecoverPassword {
		return nil, ErrInvalidCredential
	}
	if id.ID == 0 || id.Exp == 0 || now.Unix() > id.Exp {
		return nil, ErrInvalidCredential
	}
	return id, nil
}

// claimString pulls a string claim, tolerating its absence.
func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// claimInt64 pulls a numeric claim. JSON numbers decode as float64.
func claimInt64(claims jwt.MapClaims, key string) int64 {
	switch v := claims[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	}
	return 0
}
