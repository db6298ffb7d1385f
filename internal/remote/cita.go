package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"citas-admin/internal/model"
)

// CitaAPI talks to the forms backend. All operations go through the shared
// loader; errors are the loader's own (AccessDenied/Unexpected) and are
// never retried here.
type CitaAPI struct {
	loader *Loader
	base   string
	tokens TokenSource
}

// NewCitaAPI binds the client to the forms backend base URL. tokens
// supplies the stored session credential for authenticated operations.
func NewCitaAPI(l *Loader, baseURL string, tokens TokenSource) *CitaAPI {
	return &CitaAPI{loader: l, base: baseURL, tokens: tokens}
}

// jsonHeaders builds the standard header set. An empty token leaves the
// Authorization header out (public operations).
func jsonHeaders(token string) map[string]string {
	h := map[string]string{"Content-Type": "application/json"}
	if token != "" {
		h["Authorization"] = "Bearer " + token
	}
	return h
}

// Create submits a new record. No credential is attached: public
// submission is allowed so that applicants can file without an account.
func (a *CitaAPI) Create(ctx context.Context, req CreateCitaRequest) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, &UnexpectedError{Message: err.Error()}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return false, &UnexpectedError{Message: err.Error()}
	}
	if _, err := a.loader.LoadAll(ctx, a.base+"/form/save", http.MethodPost, jsonHeaders(""), body); err != nil {
		return false, err
	}
	return true, nil
}

// GetAll lists records page by page with a free-text filter. A non-nil
// ownerID narrows the listing to records assigned to that user.
func (a *CitaAPI) GetAll(ctx context.Context, page, pageSize int, searchBy string, ownerID *int64) (CitaPage, error) {
	endpoint := fmt.Sprintf("%s/form/getAll?pageSize=%d&page=%d&searchBy=%s",
		a.base, pageSize, page, url.QueryEscape(searchBy))
	if ownerID != nil {
		endpoint += fmt.Sprintf("&userId=%d", *ownerID)
	}

	data, err := a.loader.LoadAll(ctx, endpoint, http.MethodGet, jsonHeaders(a.tokens.Token(ctx)), nil)
	if err != nil {
		return CitaPage{}, err
	}
	var env citaPageEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return CitaPage{}, &UnexpectedError{Message: err.Error()}
	}
	return env.reshape(), nil
}

// Update applies a partial update to a record. Every update carries the
// author's identity in a dedicated header for the backend's audit log, and
// a confirmation timestamp is rendered human-readable before it travels.
// An explicit token overrides the stored session credential so single-use
// tokens keep working.
func (a *CitaAPI) Update(ctx context.Context, req UpdateCitaRequest, author, token string) (bool, error) {
	if req.Confirm != nil {
		rendered := humanTimestamp(*req.Confirm)
		req.Confirm = &rendered
	}
	body, err := json.Marshal(req)
	if err != nil {
		return false, &UnexpectedError{Message: err.Error()}
	}

	if token == "" {
		token = a.tokens.Token(ctx)
	}
	headers := jsonHeaders(token)
	headers["author"] = author

	endpoint := fmt.Sprintf("%s/form/update/%d", a.base, req.ID)
	if _, err := a.loader.LoadAll(ctx, endpoint, http.MethodPut, headers, body); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes a record. The result is true whenever the backend did not
// reject the call; no server-side success flag is re-checked.
func (a *CitaAPI) Delete(ctx context.Context, id int64) (bool, error) {
	endpoint := fmt.Sprintf("%s/form/delete/%d", a.base, id)
	if _, err := a.loader.LoadAll(ctx, endpoint, http.MethodDelete, jsonHeaders(a.tokens.Token(ctx)), nil); err != nil {
		return false, err
	}
	return true, nil
}

// GetByID fetches a single record out of its response envelope.
func (a *CitaAPI) GetByID(ctx context.Context, id int64) (model.Cita, error) {
	endpoint := fmt.Sprintf("%s/form/getOne/%d", a.base, id)
	data, err := a.loader.LoadAll(ctx, endpoint, http.MethodGet, jsonHeaders(a.tokens.Token(ctx)), nil)
	if err != nil {
		return model.Cita{}, err
	}
	var env struct {
		Form model.Cita `json:"form"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return model.Cita{}, &UnexpectedError{Message: err.Error()}
	}
	return env.Form, nil
}

// GetHistoryByID fetches the audit trail of a record, newest entries
// included; the backend appends one entry per update.
func (a *CitaAPI) GetHistoryByID(ctx context.Context, id int64) ([]model.HistoryCita, error) {
	endpoint := fmt.Sprintf("%s/historyForm/getOne/%d", a.base, id)
	data, err := a.loader.LoadAll(ctx, endpoint, http.MethodGet, jsonHeaders(a.tokens.Token(ctx)), nil)
	if err != nil {
		return nil, err
	}
	var env struct {
		HistoryForm []model.HistoryCita `json:"historyForm"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &UnexpectedError{Message: err.Error()}
	}
	return env.HistoryForm, nil
}

// humanTimestamp renders an RFC 3339 timestamp the way operators see it in
// the audit trail. Values that do not parse travel unchanged.
func humanTimestamp(v string) string {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return v
	}
	return t.Format("02 Jan 2006 15:04")
}
