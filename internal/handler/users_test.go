package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citas-admin/internal/middleware"
	"citas-admin/internal/remote"
	"citas-admin/internal/session"
)

// seqGateway answers successive exchanges from a scripted list and keeps
// every request for order-of-operations assertions.
type seqGateway struct {
	responses []remote.Response
	urls      []string
	bodies    [][]byte
}

func (g *seqGateway) Request(_ context.Context, url, _ string, _ map[string]string, body []byte) remote.Response {
	g.urls = append(g.urls, url)
	g.bodies = append(g.bodies, body)
	res := g.responses[0]
	if len(g.responses) > 1 {
		g.responses = g.responses[1:]
	}
	return res
}

func newUserHandler(gw remote.Gateway) *UserHandler {
	api := remote.NewUserAPI(remote.NewLoader(gw), "http://users.local", "https://citas.example.com", remote.StaticToken("tok"))
	return NewUserHandler(api, nil)
}

// The profile update must complete before the re-login starts, and the
// session ends up holding the token minted against the new credentials.
func TestUserHandlerUpdateOwnerSequencing(t *testing.T) {
	newToken := freshToken(t)
	gw := &seqGateway{responses: []remote.Response{
		{StatusCode: http.StatusOK, Body: []byte(`{"success":true}`)},
		{StatusCode: http.StatusOK, Body: []byte(`{"access_token":"` + newToken + `"}`)},
	}}
	h := newUserHandler(gw)

	c, rec := jsonContext(t, http.MethodPut, "/v1/profile",
		`{"firstname":"Ana","lastname":"Pérez","username":"aperez","email":"ana@example.com","age":31,"verifyPassword":"secret"}`)
	asOperator(c, 7, "aperez", "standard")
	st := session.NewStore(session.NewMemoryTokenStore())
	_, err := st.Login(context.Background(), freshToken(t))
	require.NoError(t, err)
	c.Set(middleware.KeySession, st)

	require.NoError(t, h.UpdateOwner(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, gw.urls, 2)
	assert.Equal(t, "http://users.local/update/7?owner=true", gw.urls[0])
	assert.Equal(t, "http://users.local/login", gw.urls[1])

	// No new password was set, so the verification password re-authenticates.
	assert.Contains(t, string(gw.bodies[1]), `"password":"secret"`)
	assert.Equal(t, newToken, st.Token(context.Background()))
	id, ok := st.Current()
	require.True(t, ok)
	assert.Equal(t, "aperez", id.Username)
}

func TestUserHandlerUpdateOwnerRequiresVerifyPassword(t *testing.T) {
	h := newUserHandler(&seqGateway{responses: []remote.Response{{StatusCode: http.StatusOK}}})

	c, rec := jsonContext(t, http.MethodPut, "/v1/profile", `{"firstname":"Ana"}`)
	asOperator(c, 7, "aperez", "standard")

	require.NoError(t, h.UpdateOwner(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandlerUpdateOwnerRejectedUpdate(t *testing.T) {
	gw := &seqGateway{responses: []remote.Response{
		{StatusCode: http.StatusOK, Body: []byte(`{"success":false}`)},
	}}
	h := newUserHandler(gw)

	c, rec := jsonContext(t, http.MethodPut, "/v1/profile",
		`{"firstname":"Ana","verifyPassword":"wrong"}`)
	asOperator(c, 7, "aperez", "standard")
	st := session.NewStore(session.NewMemoryTokenStore())
	c.Set(middleware.KeySession, st)

	require.NoError(t, h.UpdateOwner(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	// The rejected update never triggers a re-login.
	assert.Len(t, gw.urls, 1)
}
