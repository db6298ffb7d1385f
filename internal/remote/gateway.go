package remote

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// Response is the normalized shape every transport call resolves to. The
// loader only ever sees this pair, regardless of how the underlying call
// went.
type Response struct {
	StatusCode int
	Body       []byte
}

// Gateway performs an HTTP exchange and always yields a normalized
// Response. Implementations must not surface transport errors to callers;
// failures are folded into the Response itself.
type Gateway interface {
	Request(ctx context.Context, url, method string, headers map[string]string, body []byte) Response
}

// HTTPGateway is the production Gateway backed by net/http. A failed dial,
// a cancelled context or an unreadable body all collapse into a Response
// whose body is the error text and whose status defaults to 400, since the
// transport never reported one.
type HTTPGateway struct {
	client *http.Client
}

// NewHTTPGateway wraps the given client; pass nil to use
// http.DefaultClient. No timeout is imposed here: a pending call runs to
// completion or failure and cancellation belongs to the caller's context.
func NewHTTPGateway(client *http.Client) *HTTPGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGateway{client: client}
}

func (g *HTTPGateway) Request(ctx context.Context, url, method string, headers map[string]string, body []byte) Response {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return Response{StatusCode: http.StatusBadRequest, Body: []byte(err.Error())}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := g.client.Do(req)
	if err != nil {
		return Response{StatusCode: http.StatusBadRequest, Body: []byte(err.Error())}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return Response{StatusCode: http.StatusBadRequest, Body: []byte(err.Error())}
	}
	return Response{StatusCode: res.StatusCode, Body: data}
}
