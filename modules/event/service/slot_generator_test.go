package service

import (
	"testing"
	"time"

	"modutime/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{input: "14:00", want: TimeOfDay{Hour: 14, Minute: 0}},
		{input: "09:30", want: TimeOfDay{Hour: 9, Minute: 30}},
		{input: "14:00:00", want: TimeOfDay{Hour: 14, Minute: 0}},
		{input: " 8:15 ", want: TimeOfDay{Hour: 8, Minute: 15}},
		{input: "24:00", wantErr: true},
		{input: "12:60", wantErr: true},
		{input: "noon", wantErr: true},
		{input: "12", wantErr: true},
	}

	for _, tt := range tests {
		got, appErr := ParseTimeOfDay(tt.input)
		if tt.wantErr {
			require.NotNil(t, appErr, "input %q", tt.input)
			assert.Equal(t, errors.ErrInvalidRange, appErr.Code)
			continue
		}
		require.Nil(t, appErr, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestGenerate_SingleDay(t *testing.T) {
	loc := mustLoadLocation(t, "Asia/Seoul")
	gen := NewSlotGenerator()

	day := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	slots, appErr := gen.Generate(day, day,
		TimeOfDay{Hour: 14}, TimeOfDay{Hour: 16}, loc)
	require.Nil(t, appErr)
	require.Len(t, slots, 4)

	assert.Equal(t, time.Date(2026, 1, 10, 14, 0, 0, 0, loc), slots[0].Start)
	assert.Equal(t, time.Date(2026, 1, 10, 14, 30, 0, 0, loc), slots[0].End)
	assert.Equal(t, time.Date(2026, 1, 10, 15, 30, 0, 0, loc), slots[3].Start)
	assert.Equal(t, time.Date(2026, 1, 10, 16, 0, 0, 0, loc), slots[3].End)

	for i := 1; i < len(slots); i++ {
		assert.Equal(t, slots[i-1].End, slots[i].Start, "slots must be contiguous")
	}
}

func TestGenerate_MultiDay(t *testing.T) {
	loc := mustLoadLocation(t, "Asia/Seoul")
	gen := NewSlotGenerator()

	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	slots, appErr := gen.Generate(start, end,
		TimeOfDay{Hour: 9}, TimeOfDay{Hour: 12}, loc)
	require.Nil(t, appErr)

	// 3 days x 6 slots
	require.Len(t, slots, 18)
	assert.Equal(t, time.Date(2026, 1, 10, 9, 0, 0, 0, loc), slots[0].Start)
	assert.Equal(t, time.Date(2026, 1, 11, 9, 0, 0, 0, loc), slots[6].Start)
	assert.Equal(t, time.Date(2026, 1, 12, 11, 30, 0, 0, loc), slots[17].Start)

	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i].Start.After(slots[i-1].Start), "ascending by start instant")
	}
}

func TestGenerate_HalfOpenWindow(t *testing.T) {
	loc := mustLoadLocation(t, "Asia/Seoul")
	gen := NewSlotGenerator()

	day := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	// 45-minute window yields two slots; the second is clipped at neither
	// end, only no third slot starts at or past the end boundary.
	slots, appErr := gen.Generate(day, day,
		TimeOfDay{Hour: 14}, TimeOfDay{Hour: 14, Minute: 45}, loc)
	require.Nil(t, appErr)
	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2026, 1, 10, 15, 0, 0, 0, loc), slots[1].End)
}

func TestGenerate_DSTSpringForward(t *testing.T) {
	loc := mustLoadLocation(t, "America/New_York")
	gen := NewSlotGenerator()

	// 2026-03-08: clocks jump from 02:00 EST to 03:00 EDT.
	day := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	slots, appErr := gen.Generate(day, day,
		TimeOfDay{Hour: 1}, TimeOfDay{Hour: 4}, loc)
	require.Nil(t, appErr)

	// The wall-clock loop always yields one slot per 30 minutes of the
	// window, regardless of the skipped hour.
	require.Len(t, slots, 6)

	// Real elapsed time across the window is two hours, not three.
	elapsed := slots[5].End.Sub(slots[0].Start)
	assert.Equal(t, 2*time.Hour, elapsed)
}

func TestGenerate_InvalidRanges(t *testing.T) {
	loc := mustLoadLocation(t, "Asia/Seoul")
	gen := NewSlotGenerator()

	day := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)

	_, appErr := gen.Generate(day, earlier, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 12}, loc)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidRange, appErr.Code)

	_, appErr = gen.Generate(day, day, TimeOfDay{Hour: 12}, TimeOfDay{Hour: 12}, loc)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidRange, appErr.Code)

	_, appErr = gen.Generate(day, day, TimeOfDay{Hour: 12}, TimeOfDay{Hour: 9}, loc)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidRange, appErr.Code)
}

func TestCountPerDay(t *testing.T) {
	gen := NewSlotGenerator()

	assert.Equal(t, 4, gen.CountPerDay(TimeOfDay{Hour: 14}, TimeOfDay{Hour: 16}))
	assert.Equal(t, 2, gen.CountPerDay(TimeOfDay{Hour: 14}, TimeOfDay{Hour: 14, Minute: 45}))
	assert.Equal(t, 0, gen.CountPerDay(TimeOfDay{Hour: 16}, TimeOfDay{Hour: 14}))
}
