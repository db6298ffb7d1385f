package remote

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalStates(t *testing.T) {
	var unset Optional[int64]
	assert.True(t, unset.IsZero())
	_, present := unset.Get()
	assert.False(t, present)

	some := Some(int64(7))
	assert.False(t, some.IsZero())
	v, present := some.Get()
	assert.True(t, present)
	assert.Equal(t, int64(7), v)

	null := Null[int64]()
	assert.False(t, null.IsZero())
	_, present = null.Get()
	assert.False(t, present)
}

func TestOptionalMarshal(t *testing.T) {
	payload := struct {
		A Optional[int64] `json:"a,omitzero"`
		B Optional[int64] `json:"b,omitzero"`
		C Optional[int64] `json:"c,omitzero"`
	}{
		B: Some(int64(3)),
		C: Null[int64](),
	}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":3,"c":null}`, string(data))
}

func TestOptionalUnmarshal(t *testing.T) {
	var payload struct {
		A Optional[int64] `json:"a,omitzero"`
		B Optional[int64] `json:"b,omitzero"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":null,"b":5}`), &payload))

	assert.False(t, payload.A.IsZero())
	_, present := payload.A.Get()
	assert.False(t, present)

	v, present := payload.B.Get()
	assert.True(t, present)
	assert.Equal(t, int64(5), v)
}

func TestCreateCitaRequestValidate(t *testing.T) {
	confirmIn := "2026-03-10T09:30:00Z"
	confirmOut := "2026-03-10T12:00:00Z"

	tests := []struct {
		name    string
		mutate  func(*CreateCitaRequest)
		wantErr string
	}{
		{"valid", func(r *CreateCitaRequest) {}, ""},
		{"confirm inside window", func(r *CreateCitaRequest) { r.Confirm = &confirmIn }, ""},
		{"bad start", func(r *CreateCitaRequest) { r.StartDate = "yesterday" }, "startDate"},
		{"bad end", func(r *CreateCitaRequest) { r.EndDate = "tomorrow" }, "endDate"},
		{"inverted window", func(r *CreateCitaRequest) {
			r.StartDate, r.EndDate = r.EndDate, r.StartDate
		}, "precedes"},
		{"confirm outside window", func(r *CreateCitaRequest) { r.Confirm = &confirmOut }, "outside"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
