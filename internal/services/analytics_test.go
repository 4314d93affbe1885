package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfWeek(t *testing.T) {
	// 2026-08-26 is a Wednesday; the week started Sunday the 23rd
	now := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), startOfWeek(now))

	// A Sunday is its own week start
	sunday := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), startOfWeek(sunday))

	// Crossing a month boundary backwards
	early := time.Date(2026, 9, 2, 1, 0, 0, 0, time.UTC) // Wednesday
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), startOfWeek(early))
}

func TestStartOfMonth(t *testing.T) {
	now := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), startOfMonth(now))
}

func TestAveragePerWeek(t *testing.T) {
	now := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	// 2 entries over 10 days: 10/7 weeks elapsed, 2/(10/7) = 1.4
	oldest := now.AddDate(0, 0, -10)
	assert.Equal(t, 1.4, averagePerWeek(2, oldest, now))

	// Less than a week of history counts as one full week
	recent := now.AddDate(0, 0, -2)
	assert.Equal(t, 5.0, averagePerWeek(5, recent, now))

	// Oldest entry today: still one week
	assert.Equal(t, 3.0, averagePerWeek(3, now, now))

	// Rounded to one decimal
	old := now.AddDate(0, 0, -21)
	assert.Equal(t, 2.3, averagePerWeek(7, old, now))
}
