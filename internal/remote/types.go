package remote

import (
	"encoding/json"
	"fmt"
	"time"

	"citas-admin/internal/model"
)

// Optional distinguishes "field not provided" from "field explicitly set",
// including an explicit JSON null. The zero value is not provided and is
// dropped from request bodies via the omitzero tag. Partial updates rely
// on this: only provided fields reach the backend, and Null lets a caller
// clear a nullable field such as a record's owner.
type Optional[T any] struct {
	set   bool
	value *T
}

// Some wraps a concrete value.
func Some[T any](v T) Optional[T] { return Optional[T]{set: true, value: &v} }

// Null marks the field as explicitly cleared.
func Null[T any]() Optional[T] { return Optional[T]{set: true} }

// IsZero reports whether the field was never provided; encoding/json uses
// it for omitzero.
func (o Optional[T]) IsZero() bool { return !o.set }

// Get returns the value and whether one is present (set and non-null).
func (o Optional[T]) Get() (T, bool) {
	if o.value == nil {
		var zero T
		return zero, false
	}
	return *o.value, true
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if string(data) == "null" {
		o.value = nil
		return nil
	}
	o.value = new(T)
	return json.Unmarshal(data, o.value)
}

// CreateCitaRequest is the public submission payload for a new record.
type CreateCitaRequest struct {
	UserID      *int64       `json:"userId,omitempty"`
	Confirm     *string      `json:"confirm,omitempty"`
	Status      model.Status `json:"status"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	PhoneNumber string       `json:"phoneNumber"`
	Reason      string       `json:"reason"`
	StartDate   string       `json:"startDate"`
	EndDate     string       `json:"endDate"`
	Type        model.Type   `json:"type"`
}

// Validate enforces the slot invariants before anything hits the wire:
// both dates must parse, the window must not be inverted, and a
// confirmation timestamp has to fall inside it.
func (r CreateCitaRequest) Validate() error {
	start, err := time.Parse(time.RFC3339, r.StartDate)
	if err != nil {
		return fmt.Errorf("startDate: %w", err)
	}
	end, err := time.Parse(time.RFC3339, r.EndDate)
	if err != nil {
		return fmt.Errorf("endDate: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("endDate %s precedes startDate %s", r.EndDate, r.StartDate)
	}
	if r.Confirm != nil {
		confirm, err := time.Parse(time.RFC3339, *r.Confirm)
		if err != nil {
			return fmt.Errorf("confirm: %w", err)
		}
		if confirm.Before(start) || confirm.After(end) {
			return fmt.Errorf("confirm %s outside [%s, %s]", *r.Confirm, r.StartDate, r.EndDate)
		}
	}
	return nil
}

// UpdateCitaRequest carries a partial update: every field is optional and
// only provided fields are changed server-side. UserID uses Optional so an
// assignment can be cleared with an explicit null.
type UpdateCitaRequest struct {
	ID          int64           `json:"-"`
	UserID      Optional[int64] `json:"userId,omitzero"`
	Confirm     *string         `json:"confirm,omitempty"`
	Status      *model.Status   `json:"status,omitempty"`
	Name        *string         `json:"name,omitempty"`
	Email       *string         `json:"email,omitempty"`
	PhoneNumber *string         `json:"phoneNumber,omitempty"`
	Reason      *string         `json:"reason,omitempty"`
	StartDate   *string         `json:"startDate,omitempty"`
	EndDate     *string         `json:"endDate,omitempty"`
	Type        *model.Type     `json:"type,omitempty"`
}

// CitaPage is the stable client-side shape of a records listing. The
// backend renamed formsSize to formSize and serves the collection under
// result; decoding tolerates both spellings and reshaping an already
// reshaped page yields the same page.
type CitaPage struct {
	Success      bool         `json:"success"`
	Page         int          `json:"page"`
	ItemsByPage  int          `json:"itemsByPage"`
	FormSize     int          `json:"formSize"`
	TotalForms   int          `json:"totalForms"`
	TotalCitas   int          `json:"totalCitas"`
	TotalDemands int          `json:"totalDemands"`
	TotalPages   int          `json:"totalPages"`
	Forms        []model.Cita `json:"forms"`
}

type citaPageEnvelope struct {
	Success      bool         `json:"success"`
	Page         int          `json:"page"`
	ItemsByPage  int          `json:"itemsByPage"`
	FormsSize    int          `json:"formsSize"`
	FormSize     int          `json:"formSize"`
	TotalForms   int          `json:"totalForms"`
	TotalCitas   int          `json:"totalCitas"`
	TotalDemands int          `json:"totalDemands"`
	TotalPages   int          `json:"totalPages"`
	Result       []model.Cita `json:"result"`
	Forms        []model.Cita `json:"forms"`
}

func (e citaPageEnvelope) reshape() CitaPage {
	size := e.FormsSize
	if size == 0 {
		size = e.FormSize
	}
	forms := e.Result
	if forms == nil {
		forms = e.Forms
	}
	return CitaPage{
		Success:      e.Success,
		Page:         e.Page,
		ItemsByPage:  e.ItemsByPage,
		FormSize:     size,
		TotalForms:   e.TotalForms,
		TotalCitas:   e.TotalCitas,
		TotalDemands: e.TotalDemands,
		TotalPages:   e.TotalPages,
		Forms:        forms,
	}
}

// CreateUserRequest is the registration payload. Role is optional; the
// backend assigns the default role when it is absent.
type CreateUserRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
	Phone     string `json:"phone"`
}

// UpdateUserRequest carries a partial account update. A blank or
// whitespace-only password counts as not provided.
type UpdateUserRequest struct {
	ID        int64   `json:"-"`
	Firstname *string `json:"firstname,omitempty"`
	Lastname  *string `json:"lastname,omitempty"`
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	Age       *int    `json:"age,omitempty"`
	Password  *string `json:"password,omitempty"`
	Role      *string `json:"role,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// UpdateOwnerRequest is the self-service account update: the backend
// re-checks the operator's identity with VerifyPassword before applying
// anything.
type UpdateOwnerRequest struct {
	ID             int64  `json:"-"`
	Firstname      string `json:"firstname"`
	Lastname       string `json:"lastname"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Age            int    `json:"age"`
	Password       string `json:"password,omitempty"`
	VerifyPassword string `json:"verifyPassword"`
	Role           string `json:"role"`
	Phone          string `json:"phone"`
}

// UserPage is the listing envelope for accounts; the user backend already
// serves the stable field names, so it decodes directly.
type UserPage struct {
	Success     bool         `json:"success"`
	Page        int          `json:"page"`
	ItemsByPage int          `json:"itemsByPage"`
	UsersSize   int          `json:"usersSize"`
	TotalUsers  int          `json:"totalUsers"`
	TotalPages  int          `json:"totalPages"`
	Users       []model.User `json:"users"`
}
