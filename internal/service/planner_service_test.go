package service

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/applepeerke/fishing-sub000/internal/models"
)

func testFisherman(frequency models.Frequency, days ...string) *models.Fisherman {
	return &models.Fisherman{
		ID:                     "f1",
		Frequency:              frequency,
		FishingSessionDuration: 4,
		Fishingwaters:          []models.FishingWater{{ID: "w1"}},
		FishingDays:            days,
	}
}

func TestBuildCalendarWeekly(t *testing.T) {
	planner := NewPlannerService(zap.NewNop(), 0)
	rng := rand.New(rand.NewSource(1))
	fisherman := testFisherman(models.FrequencyWeekly, "Monday", "Thursday")

	calendar, err := planner.BuildCalendar(2026, []*models.Fisherman{fisherman}, rng)
	require.NoError(t, err)

	// every planned date is a Monday or Thursday of 2026 and every such
	// weekday is planned
	count := 0
	for key, fishermen := range calendar {
		assert.Equal(t, 2026, key.Year)
		assert.Contains(t, []string{"Monday", "Thursday"}, key.Weekday)
		assert.Len(t, fishermen, 1)
		count++
	}

	expected := 0
	for day := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC); day.Year() == 2026; day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Monday || day.Weekday() == time.Thursday {
			expected++
		}
	}
	assert.Equal(t, expected, count)
}

func TestBuildCalendarMonthly(t *testing.T) {
	planner := NewPlannerService(zap.NewNop(), 0)
	rng := rand.New(rand.NewSource(7))
	fisherman := testFisherman(models.FrequencyMonthly, "Saturday")

	calendar, err := planner.BuildCalendar(2026, []*models.Fisherman{fisherman}, rng)
	require.NoError(t, err)
	require.Len(t, calendar, 12)

	months := map[time.Month]bool{}
	for key := range calendar {
		assert.Equal(t, "Saturday", key.Weekday)
		assert.LessOrEqual(t, key.Day, 28)
		months[key.Month] = true
	}
	assert.Len(t, months, 12)
}

func TestBuildCalendarSkipsInactiveFishermen(t *testing.T) {
	planner := NewPlannerService(zap.NewNop(), 0)
	rng := rand.New(rand.NewSource(1))

	noWaters := testFisherman(models.FrequencyWeekly, "Monday")
	noWaters.Fishingwaters = nil
	noDays := testFisherman(models.FrequencyWeekly)

	calendar, err := planner.BuildCalendar(2026, []*models.Fisherman{noWaters, noDays}, rng)
	require.NoError(t, err)
	assert.Empty(t, calendar)
}

func TestBuildCalendarUnknownFrequency(t *testing.T) {
	planner := NewPlannerService(zap.NewNop(), 0)
	fisherman := testFisherman(models.Frequency("Daily"), "Monday")

	_, err := planner.BuildCalendar(2026, []*models.Fisherman{fisherman}, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}
