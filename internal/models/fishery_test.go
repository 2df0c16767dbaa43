package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivePeriodStartWindow(t *testing.T) {
	lo, hi := ActiveDay.StartWindow()
	assert.Equal(t, 6, lo)
	assert.Equal(t, 12, hi)

	lo, hi = ActiveNight.StartWindow()
	assert.Equal(t, 19, lo)
	assert.Equal(t, 23, hi)

	lo, hi = ActiveBoth.StartWindow()
	assert.Equal(t, 6, lo)
	assert.Equal(t, 20, hi)
}

func TestActivePeriodHoursOfActivity(t *testing.T) {
	day := ActiveDay.HoursOfActivity()
	assert.Len(t, day, 15)
	assert.Contains(t, day, 6)
	assert.Contains(t, day, 20)
	assert.NotContains(t, day, 5)
	assert.NotContains(t, day, 21)

	night := ActiveNight.HoursOfActivity()
	assert.Len(t, night, 11)
	assert.Contains(t, night, 23)
	assert.Contains(t, night, 3)
	assert.NotContains(t, night, 12)

	assert.Len(t, ActiveBoth.HoursOfActivity(), 24)
}

func TestWaterTypeFloating(t *testing.T) {
	for _, floating := range []WaterType{WaterRiver, WaterBrook, WaterCanal, WaterSea} {
		assert.True(t, floating.Floating(), string(floating))
	}
	for _, still := range []WaterType{WaterLake, WaterPond} {
		assert.False(t, still.Floating(), string(still))
	}
}

func TestAddFishesStillWater(t *testing.T) {
	water := &FishingWater{WaterType: WaterPond, M3: 1000, FishesCount: 10, Density: 0.01}

	water.AddFishes(-1)
	assert.Equal(t, 9, water.FishesCount)
	assert.InDelta(t, 0.009, water.Density, 1e-9)

	// the count never goes negative
	water.AddFishes(-100)
	assert.Equal(t, 0, water.FishesCount)
	assert.Zero(t, water.Density)
}

func TestAddFishesFloatingIsNoOp(t *testing.T) {
	water := &FishingWater{WaterType: WaterCanal, Density: FloatingDensity}
	water.AddFishes(-5)
	assert.Equal(t, 0, water.FishesCount)
	assert.Equal(t, FloatingDensity, water.Density)
}

func TestDeriveSizeCapsAtSpeciesMaxima(t *testing.T) {
	species := &FishSpecies{YearlyGrowthInCm: 3, YearlyGrowthInG: 100, MaxLengthCm: 40, MaxWeightG: 2000}

	young := &Fish{Age: 5}
	young.DeriveSize(species)
	assert.Equal(t, 15.0, young.LengthCm)
	assert.Equal(t, 500.0, young.WeightG)

	old := &Fish{Age: 30}
	old.DeriveSize(species)
	assert.Equal(t, 40.0, old.LengthCm)
	assert.Equal(t, 2000.0, old.WeightG)
}

func TestFishermanActive(t *testing.T) {
	fisherman := &Fisherman{}
	assert.False(t, fisherman.Active())

	fisherman.Fishingwaters = []FishingWater{{ID: "w1"}}
	assert.False(t, fisherman.Active())

	fisherman.FishingDays = []string{"Monday"}
	assert.True(t, fisherman.Active())
	assert.True(t, fisherman.FishesOn("Monday"))
	assert.False(t, fisherman.FishesOn("Friday"))
}
