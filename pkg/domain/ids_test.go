package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "triplist/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseChecklistID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseChecklistID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseItemID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects braced and urn forms", func(t *testing.T) {
		raw := uuid.New().String()
		_, err := ParseItemID("{" + raw + "}")
		require.Error(t, err)
		_, err = ParseItemID("urn:uuid:" + raw)
		require.Error(t, err)
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseChecklistID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, ChecklistID(validUUID), id)
	})
}

// TestParseID_BoundaryInputs validates parsing of hostile input at API entry points.
func TestParseID_BoundaryInputs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseItemID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestIDJSONRoundTrip(t *testing.T) {
	type payload struct {
		ChecklistID ChecklistID `json:"checklistId"`
	}
	want := NewChecklistID()

	body, err := json.Marshal(payload{ChecklistID: want})
	require.NoError(t, err)
	assert.JSONEq(t, `{"checklistId":"`+want.String()+`"}`, string(body))

	var got payload
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, want, got.ChecklistID)

	err = json.Unmarshal([]byte(`{"checklistId":"nope"}`), &got)
	require.Error(t, err)
}
