package remote

import (
	"context"
	"net/http"
)

// emptyObject is what a 204 resolves to so that callers can always decode
// the payload as a JSON object.
var emptyObject = []byte("{}")

// Loader turns normalized gateway responses into either a payload or a
// typed error. One loader bound to one gateway is built at startup and
// shared by every API client, so the process holds exactly one transport
// instance; the loader itself carries no per-call state.
type Loader struct {
	gateway Gateway
}

// NewLoader binds a loader to its gateway.
func NewLoader(g Gateway) *Loader {
	return &Loader{gateway: g}
}

// LoadAll performs the exchange and classifies the result:
//
//	200, 201      -> body returned unchanged
//	204           -> an empty JSON object, never nil
//	403           -> AccessDeniedError carrying the response body
//	anything else -> UnexpectedError carrying the response body
//
// Both success codes are matched by membership, not by a combined
// sentinel, so a 201 from a create lands in the success branch like a 200.
func (l *Loader) LoadAll(ctx context.Context, url, method string, headers map[string]string, body []byte) ([]byte, error) {
	res := l.gateway.Request(ctx, url, method, headers, body)

	switch res.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return res.Body, nil
	case http.StatusNoContent:
		return emptyObject, nil
	case http.StatusForbidden:
		return nil, &AccessDeniedError{Message: string(res.Body)}
	default:
		return nil, &UnexpectedError{Message: string(res.Body)}
	}
}
