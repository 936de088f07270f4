package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/techfest/internal/app/models"
)

func TestFormBool(t *testing.T) {
	assert.True(t, FormBool("true").Bool())
	for _, s := range []string{"TRUE", "1", "on", ""} {
		assert.False(t, FormBool(s).Bool(), s)
	}

	var req struct {
		Member  FormBool `json:"member"`
		Paid    FormBool `json:"paid"`
		Pending FormBool `json:"pending"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"member":true,"paid":"true","pending":false}`), &req))
	assert.True(t, req.Member.Bool())
	assert.True(t, req.Paid.Bool())
	assert.False(t, req.Pending.Bool())
}

func TestNewEventResponse(t *testing.T) {
	capacity, zero := 60, 0
	tests := []struct {
		name  string
		event models.Event
		want  string
	}{
		{"open", models.Event{Slug: "web", Capacity: &capacity, RegisteredCount: 58}, `2`},
		{"full", models.Event{Slug: "web", Capacity: &capacity, RegisteredCount: 60}, `0`},
		{"no capacity", models.Event{Slug: "rag"}, `null`},
		{"zero capacity", models.Event{Slug: "cv", Capacity: &zero, RegisteredCount: 12}, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.event
			body, err := json.Marshal(NewEventResponse(&e))
			require.NoError(t, err)

			var fields map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(body, &fields))
			assert.JSONEq(t, tt.want, string(fields["remaining"]))
			assert.JSONEq(t, `"`+e.Slug+`"`, string(fields["slug"]))
			assert.Contains(t, fields, "registeredCount")
		})
	}
}

func TestNewEventResponses_Empty(t *testing.T) {
	body, err := json.Marshal(NewEventResponses(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
}
