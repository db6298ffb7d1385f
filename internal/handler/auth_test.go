package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citas-admin/internal/middleware"
	"citas-admin/internal/remote"
	"citas-admin/internal/session"
)

func newAuthHandler(gw *stubGateway) *AuthHandler {
	api := remote.NewUserAPI(remote.NewLoader(gw), "http://users.local", "https://citas.example.com", remote.StaticToken(""))
	return NewAuthHandler(api)
}

func freshToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":        float64(7),
		"firstname": "Ana",
		"lastname":  "Pérez",
		"username":  "aperez",
		"email":     "ana@example.com",
		"age":       float64(31),
		"role":      "standard",
		"exp":       float64(time.Now().Add(time.Hour).Unix()),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestAuthLoginInstallsSession(t *testing.T) {
	token := freshToken(t)
	gw := &stubGateway{res: remote.Response{StatusCode: http.StatusOK,
		Body: []byte(`{"access_token":"` + token + `"}`)}}
	h := newAuthHandler(gw)

	c, rec := jsonContext(t, http.MethodPost, "/v1/auth/login",
		`{"identifier":"aperez","password":"secret"}`)
	st := session.NewStore(session.NewMemoryTokenStore())
	c.Set(middleware.KeySession, st)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "aperez")

	id, ok := st.Current()
	require.True(t, ok)
	assert.Equal(t, "aperez", id.Username)
	assert.Equal(t, token, st.Token(context.Background()))
}

func TestAuthLoginRejectedCredentials(t *testing.T) {
	gw := &stubGateway{res: remote.Response{StatusCode: http.StatusUnauthorized, Body: []byte("bad login")}}
	h := newAuthHandler(gw)

	c, rec := jsonContext(t, http.MethodPost, "/v1/auth/login",
		`{"identifier":"aperez","password":"wrong"}`)
	st := session.NewStore(session.NewMemoryTokenStore())
	c.Set(middleware.KeySession, st)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	_, ok := st.Current()
	assert.False(t, ok)
}

func TestAuthLoginUndecodableToken(t *testing.T) {
	gw := &stubGateway{res: remote.Response{StatusCode: http.StatusOK,
		Body: []byte(`{"access_token":"garbage"}`)}}
	h := newAuthHandler(gw)

	c, rec := jsonContext(t, http.MethodPost, "/v1/auth/login",
		`{"identifier":"aperez","password":"secret"}`)
	st := session.NewStore(session.NewMemoryTokenStore())
	c.Set(middleware.KeySession, st)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthLoginRequiresFields(t *testing.T) {
	h := newAuthHandler(&stubGateway{})

	c, rec := jsonContext(t, http.MethodPost, "/v1/auth/login", `{"identifier":"aperez"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// recoveryToken mints the claims-slim single-use token the backend mails
// out: id, role, action scope and expiry, nothing else.
func recoveryToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":     float64(7),
		"role":   "standard",
		"action": session.ActionRecoverPassword,
		"exp":    float64(time.Now().Add(time.Hour).Unix()),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestAuthResetPasswordUsesRecoveryToken(t *testing.T) {
	token := recoveryToken(t)
	gw := &stubGateway{res: remote.Response{StatusCode: http.StatusOK, Body: []byte(`{"success":true}`)}}
	h := newAuthHandler(gw)

	c, rec := jsonContext(t, http.MethodPost, "/v1/auth/reset-password",
		`{"token":"`+token+`","password":"brand-new"}`)

	require.NoError(t, h.ResetPassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	// The single-use token authorizes the update, not a session credential.
	assert.Equal(t, "Bearer "+token, gw.headers["Authorization"])
	assert.Equal(t, "http://users.local/update/7", gw.url)
}

// An ordinary session token carries the full profile but no action scope;
// it must not authorize a password reset.
func TestAuthResetPasswordRejectsSessionToken(t *testing.T) {
	gw := &stubGateway{}
	h := newAuthHandler(gw)

	c, rec := jsonContext(t, http.MethodPost, "/v1/auth/reset-password",
		`{"token":"`+freshToken(t)+`","password":"brand-new"}`)
	require.NoError(t, h.ResetPassword(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, gw.headers, "rejected token must never reach the backend")
}

func TestAuthResetPasswordRejectsBadToken(t *testing.T) {
	h := newAuthHandler(&stubGateway{})

	c, rec := jsonContext(t, http.MethodPost, "/v1/auth/reset-password",
		`{"token":"garbage","password":"brand-new"}`)
	require.NoError(t, h.ResetPassword(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthLogout(t *testing.T) {
	h := newAuthHandler(&stubGateway{})

	st := session.NewStore(session.NewMemoryTokenStore())
	_, err := st.Login(context.Background(), freshToken(t))
	require.NoError(t, err)

	c, rec := jsonContext(t, http.MethodPost, "/v1/auth/logout", "")
	c.Set(middleware.KeySession, st)

	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok := st.Current()
	assert.False(t, ok)
}
