//go:build unit

package availability_test

import (
	"testing"
	"time"

	"fitting-scheduler/internal/domain/availability"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplate(t *testing.T) {
	ownerID := uuid.New()

	t.Run("basic success case", func(t *testing.T) {
		tpl, err := availability.NewTemplate(ownerID, 1, true, 8*60, 12*60)
		require.NoError(t, err)
		require.NotNil(t, tpl)

		assert.NotEqual(t, uuid.Nil, tpl.ID())
		assert.Equal(t, ownerID, tpl.OwnerID())
		assert.Equal(t, time.Monday, tpl.DayOfWeek())
		assert.True(t, tpl.Enabled())
		assert.Equal(t, 480, tpl.StartMinute())
		assert.Equal(t, 720, tpl.EndMinute())
	})

	tests := []struct {
		name      string
		dayOfWeek int
		enabled   bool
		startMin  int
		endMin    int
		errIs     error
	}{
		{name: "sunday is valid", dayOfWeek: 0, enabled: true, startMin: 0, endMin: 60},
		{name: "saturday is valid", dayOfWeek: 6, enabled: true, startMin: 0, endMin: 60},
		{name: "negative day", dayOfWeek: -1, enabled: true, startMin: 0, endMin: 60, errIs: availability.ErrInvalidDayOfWeek},
		{name: "day beyond saturday", dayOfWeek: 7, enabled: true, startMin: 0, endMin: 60, errIs: availability.ErrInvalidDayOfWeek},
		{name: "start equals end", dayOfWeek: 2, enabled: true, startMin: 600, endMin: 600, errIs: availability.ErrInvalidWindow},
		{name: "start after end", dayOfWeek: 2, enabled: true, startMin: 700, endMin: 600, errIs: availability.ErrInvalidWindow},
		{name: "disabled template accepts empty window", dayOfWeek: 2, enabled: false, startMin: 600, endMin: 600},
		{name: "end past midnight", dayOfWeek: 3, enabled: true, startMin: 0, endMin: 24*60 + 1, errIs: availability.ErrWindowOutOfDay},
		{name: "negative start", dayOfWeek: 3, enabled: true, startMin: -1, endMin: 60, errIs: availability.ErrWindowOutOfDay},
		{name: "full day window", dayOfWeek: 4, enabled: true, startMin: 0, endMin: 24 * 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := availability.NewTemplate(ownerID, tt.dayOfWeek, tt.enabled, tt.startMin, tt.endMin)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTemplateWindowOn(t *testing.T) {
	tpl, err := availability.NewTemplate(uuid.New(), 1, true, 8*60, 12*60)
	require.NoError(t, err)

	// 2026-01-05 is a Monday.
	day := time.Date(2026, 1, 5, 17, 30, 0, 0, time.UTC)
	start, end := tpl.WindowOn(day)

	assert.Equal(t, time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC), end)
}

func TestTemplateAppliesTo(t *testing.T) {
	tpl, err := availability.NewTemplate(uuid.New(), 1, true, 8*60, 12*60)
	require.NoError(t, err)

	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	assert.True(t, tpl.AppliesTo(monday))
	assert.False(t, tpl.AppliesTo(tuesday))

	disabled := availability.ReconstructTemplate(uuid.New(), uuid.New(), 1, false, 8*60, 12*60, time.Time{}, time.Time{})
	assert.False(t, disabled.AppliesTo(monday))
}
