package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"citas-admin/internal/model"
)

// UserAPI talks to the user backend. The login, registration and
// password-recovery operations are public; everything else carries the
// stored bearer credential.
type UserAPI struct {
	loader   *Loader
	base     string
	hostname string
	tokens   TokenSource
}

// NewUserAPI binds the client to the user backend base URL. hostname is
// the console's own public address, used to build recovery callback URLs.
func NewUserAPI(l *Loader, baseURL, hostname string, tokens TokenSource) *UserAPI {
	return &UserAPI{loader: l, base: baseURL, hostname: hostname, tokens: tokens}
}

// userBody nests a payload under the "user" key the way the backend
// expects account operations.
func userBody(v any) ([]byte, error) {
	return json.Marshal(map[string]any{"user": v})
}

// Login exchanges credentials for a bearer token. The single identifier
// field serves as email when it contains an @ and as username otherwise;
// the backend resolves whichever is present.
func (a *UserAPI) Login(ctx context.Context, identifier, password string) (string, error) {
	payload := map[string]any{
		"username": identifier,
		"password": password,
	}
	if strings.Contains(identifier, "@") {
		payload["email"] = identifier
	}
	body, err := userBody(payload)
	if err != nil {
		return "", &UnexpectedError{Message: err.Error()}
	}

	data, err := a.loader.LoadAll(ctx, a.base+"/login", http.MethodPost, jsonHeaders(""), body)
	if err != nil {
		return "", err
	}
	var env struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return "", &UnexpectedError{Message: err.Error()}
	}
	return env.AccessToken, nil
}

// GetPassword requests a password-recovery mail. The callback URL points
// back at this console's recovery view.
func (a *UserAPI) GetPassword(ctx context.Context, email string) (bool, error) {
	body, err := json.Marshal(map[string]string{
		"url": a.hostname + "/recover-password",
	})
	if err != nil {
		return false, &UnexpectedError{Message: err.Error()}
	}

	endpoint := fmt.Sprintf("%s/missing/password/%s", a.base, url.PathEscape(email))
	data, err := a.loader.LoadAll(ctx, endpoint, http.MethodPost, jsonHeaders(""), body)
	if err != nil {
		return false, err
	}
	return decodeSuccess(data)
}

// Create registers an account. Public: self-registration is allowed.
func (a *UserAPI) Create(ctx context.Context, req CreateUserRequest) (bool, error) {
	body, err := userBody(req)
	if err != nil {
		return false, &UnexpectedError{Message: err.Error()}
	}
	data, err := a.loader.LoadAll(ctx, a.base, http.MethodPost, jsonHeaders(""), body)
	if err != nil {
		return false, err
	}
	return decodeSuccess(data)
}

// GetAll lists accounts page by page with a free-text filter.
func (a *UserAPI) GetAll(ctx context.Context, page, pageSize int, searchBy string) (UserPage, error) {
	endpoint := fmt.Sprintf("%s/getAll?pageSize=%d&page=%d&searchBy=%s",
		a.base, pageSize, page, url.QueryEscape(searchBy))

	data, err := a.loader.LoadAll(ctx, endpoint, http.MethodGet, jsonHeaders(a.tokens.Token(ctx)), nil)
	if err != nil {
		return UserPage{}, err
	}
	var result UserPage
	if err := json.Unmarshal(data, &result); err != nil {
		return UserPage{}, &UnexpectedError{Message: err.Error()}
	}
	return result, nil
}

// Update applies a partial account update. A blank password never reaches
// the backend, so an untouched password form field cannot overwrite the
// stored one. An explicit token overrides the stored session credential;
// the recovery flow relies on this to use its single-purpose token.
func (a *UserAPI) Update(ctx context.Context, req UpdateUserRequest, token string) (bool, error) {
	req.Password = normalizePassword(req.Password)
	body, err := userBody(req)
	if err != nil {
		return false, &UnexpectedError{Message: err.Error()}
	}

	if token == "" {
		token = a.tokens.Token(ctx)
	}
	endpoint := fmt.Sprintf("%s/update/%d", a.base, req.ID)
	data, err := a.loader.LoadAll(ctx, endpoint, http.MethodPut, jsonHeaders(token), body)
	if err != nil {
		return false, err
	}
	return decodeSuccess(data)
}

// UpdateOwner is the self-service variant: the full field set travels
// together with a verification password and the backend applies it only to
// the caller's own account.
func (a *UserAPI) UpdateOwner(ctx context.Context, req UpdateOwnerRequest) (bool, error) {
	if strings.TrimSpace(req.Password) == "" {
		req.Password = ""
	}
	body, err := userBody(req)
	if err != nil {
		return false, &UnexpectedError{Message: err.Error()}
	}

	endpoint := fmt.Sprintf("%s/update/%d?owner=true", a.base, req.ID)
	data, err := a.loader.LoadAll(ctx, endpoint, http.MethodPut, jsonHeaders(a.tokens.Token(ctx)), body)
	if err != nil {
		return false, err
	}
	return decodeSuccess(data)
}

// Delete removes an account and reports the backend's own success flag.
func (a *UserAPI) Delete(ctx context.Context, id int64) (bool, error) {
	endpoint := fmt.Sprintf("%s/delete/%d", a.base, id)
	data, err := a.loader.LoadAll(ctx, endpoint, http.MethodDelete, jsonHeaders(a.tokens.Token(ctx)), nil)
	if err != nil {
		return false, err
	}
	return decodeSuccess(data)
}

// GetByID fetches a single account out of its response envelope.
func (a *UserAPI) GetByID(ctx context.Context, id int64) (model.User, error) {
	endpoint := fmt.Sprintf("%s/get/%d", a.base, id)
	data, err := a.loader.LoadAll(ctx, endpoint, http.MethodGet, jsonHeaders(a.tokens.Token(ctx)), nil)
	if err != nil {
		return model.User{}, err
	}
	var env struct {
		User model.User `json:"user"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return model.User{}, &UnexpectedError{Message: err.Error()}
	}
	return env.User, nil
}

// normalizePassword drops blank or whitespace-only passwords so they count
// as "not provided" in partial updates.
func normalizePassword(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	return p
}

func decodeSuccess(data []byte) (bool, error) {
	var env struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return false, &UnexpectedError{Message: err.Error()}
	}
	return env.Success, nil
}
