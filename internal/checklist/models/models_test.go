package models

import (
	"strings"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "triplist/pkg/domain"
	dErrors "triplist/pkg/domain-errors"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name            string
		total, verified int
		want            int
	}{
		{"empty checklist", 0, 0, 0},
		{"half verified", 2, 1, 50},
		{"one of three rounds down", 3, 1, 33},
		{"two of three rounds up", 3, 2, 67},
		{"half percent rounds up", 8, 1, 13},
		{"all verified", 4, 4, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Checklist{TotalItems: tt.total, VerifiedItems: tt.verified}
			assert.Equal(t, tt.want, c.Progress())
		})
	}
}

func TestNewChecklist(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("starts with zero counters", func(t *testing.T) {
		c, err := NewChecklist(id.NewChecklistID(), "Beach Trip", TripTypeBeach, nil, now)
		require.NoError(t, err)
		assert.Zero(t, c.TotalItems)
		assert.Zero(t, c.VerifiedItems)
		assert.Equal(t, now, c.CreatedAt)
		assert.Equal(t, now, c.UpdatedAt)
	})

	t.Run("rejects invalid fields with field errors", func(t *testing.T) {
		long := strings.Repeat("x", MaxFreeTextLength+1)
		_, err := NewChecklist(id.NewChecklistID(), "a!", TripType("Spa"), &long, now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Len(t, fieldErrs, 3)
	})
}

func TestChecklistName(t *testing.T) {
	valid := []string{"Trip", "Beach Trip 2025", "ski-week_2"}
	for _, name := range valid {
		assert.NoError(t, ChecklistName(name), name)
	}

	invalid := []string{"ab", strings.Repeat("a", ChecklistNameMax+1), "Viagem à praia", "trip!"}
	for _, name := range invalid {
		assert.Error(t, ChecklistName(name), name)
	}
}

func TestItemName(t *testing.T) {
	assert.NoError(t, ItemName("Protetor solar"))
	assert.NoError(t, ItemName("ok"))
	assert.Error(t, ItemName("x"))
	assert.Error(t, ItemName(strings.Repeat("x", ItemNameMax+1)))
}

func TestFreeText(t *testing.T) {
	ok := strings.Repeat("ç", MaxFreeTextLength)
	tooLong := ok + "ç"
	assert.NoError(t, FreeText(nil))
	assert.NoError(t, FreeText(&ok))
	assert.Error(t, FreeText(&tooLong))
}

func TestItemStatusToggled(t *testing.T) {
	assert.Equal(t, ItemStatusVerified, ItemStatusPending.Toggled())
	assert.Equal(t, ItemStatusPending, ItemStatusVerified.Toggled())
	assert.Equal(t, ItemStatusPending, ItemStatusPending.Toggled().Toggled())
}

func TestParseEnums(t *testing.T) {
	t.Run("trip type", func(t *testing.T) {
		tt, err := ParseTripType("Negócios")
		require.NoError(t, err)
		assert.Equal(t, TripTypeBusiness, tt)

		_, err = ParseTripType(TripTypeAll)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("trip types keep display order and are copied", func(t *testing.T) {
		got := TripTypes()
		require.Len(t, got, 7)
		assert.Equal(t, TripTypeBeach, got[0])
		assert.Equal(t, TripTypeOther, got[6])

		got[0] = TripType("Spa")
		assert.True(t, TripTypeBeach.IsValid())
		assert.False(t, TripType("Spa").IsValid())
		assert.Equal(t, TripTypeBeach, TripTypes()[0])
	})

	t.Run("invalid trip type message lists the choices", func(t *testing.T) {
		err := TripTypeValue(TripType("Spa"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), string(TripTypeCamping))
	})

	t.Run("item status", func(t *testing.T) {
		st, err := ParseItemStatus("verificado")
		require.NoError(t, err)
		assert.Equal(t, ItemStatusVerified, st)

		_, err = ParseItemStatus("done")
		assert.Error(t, err)
	})

	t.Run("sort order defaults to newest", func(t *testing.T) {
		o, err := ParseSortOrder("")
		require.NoError(t, err)
		assert.Equal(t, SortNewest, o)

		o, err = ParseSortOrder("Alfabética (Z-A)")
		require.NoError(t, err)
		assert.Equal(t, SortNameDesc, o)

		_, err = ParseSortOrder("random")
		assert.Error(t, err)
	})
}
