package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHutConvertEvent_Validate(t *testing.T) {
	tests := []struct {
		name      string
		event     HutConvertEvent
		wantField string
	}{
		{
			name: "valid event",
			event: HutConvertEvent{
				JobID:  uuid.New(),
				Source: "osm",
				Record: json.RawMessage(`{"id": 1}`),
			},
		},
		{
			name:      "missing job id",
			event:     HutConvertEvent{Source: "osm", Record: json.RawMessage(`{}`)},
			wantField: "job_id",
		},
		{
			name:      "missing source",
			event:     HutConvertEvent{JobID: uuid.New(), Record: json.RawMessage(`{}`)},
			wantField: "source",
		},
		{
			name:      "null record",
			event:     HutConvertEvent{JobID: uuid.New(), Source: "osm", Record: json.RawMessage(`null`)},
			wantField: "record",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			if assert.ErrorAs(t, err, &vErr) {
				assert.Equal(t, tt.wantField, vErr.Field)
			}
		})
	}
}

func TestHutDoneEvent_JSON(t *testing.T) {
	event := HutDoneEvent{JobID: uuid.New(), Source: "osm", Error: "boom"}

	data, err := json.Marshal(event)
	assert.NoError(t, err)
	assert.NotContains(t, string(data), `"hut"`)
	assert.Contains(t, string(data), `"error":"boom"`)
}
