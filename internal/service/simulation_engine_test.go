package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/applepeerke/fishing-sub000/internal/models"
)

func roachSpecies() models.FishSpecies {
	return models.FishSpecies{
		ID:                    "roach",
		SpeciesName:           "Roach",
		ActiveAt:              models.ActiveDay,
		RelativeDensity:       100,
		YearlyGrowthInCm:      3,
		YearlyGrowthInG:       100,
		MaxLengthCm:           40,
		MaxWeightG:            2000,
		MinimumLengthToKeepCm: 15,
	}
}

func keeperRoach(id string) *models.Fish {
	return &models.Fish{ID: id, SpeciesID: "roach", Age: 10, LengthCm: 30, WeightG: 1000}
}

func everydayFisherman(waterID string) *models.Fisherman {
	return &models.Fisherman{
		ID:                     "angler",
		SpeciesID:              "roach",
		Frequency:              models.FrequencyWeekly,
		FishingSessionDuration: 4,
		Fishingwaters:          []models.FishingWater{{ID: waterID}},
		FishingDays: []string{
			"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
		},
	}
}

func yearCalendar(t *testing.T, year int, fisherman *models.Fisherman, rng *rand.Rand) models.Calendar {
	t.Helper()
	calendar, err := NewPlannerService(zap.NewNop(), 0).BuildCalendar(year, []*models.Fisherman{fisherman}, rng)
	require.NoError(t, err)
	return calendar
}

func TestFloatingWaterIsInexhaustible(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	species := roachSpecies()
	canal := models.FishingWater{ID: "canal", Location: "Canal 1", WaterType: models.WaterCanal, Density: models.FloatingDensity}
	waterID := canal.ID
	fish := keeperRoach("r1")
	fish.FishingwaterID = &waterID

	snapshot := &models.FisherySnapshot{
		Species: []models.FishSpecies{species},
		Waters:  []models.FishingWater{canal},
		Fish:    []models.Fish{*fish},
	}
	engine := NewSimulationEngine(snapshot, rng, NewPopulationService(), nil, zap.NewNop())

	fisherman := everydayFisherman("canal")
	calendar := yearCalendar(t, 2026, fisherman, rng)

	report := engine.Run(calendar, 2026, 365)

	pool := engine.Pool("canal", "roach")
	require.NotNil(t, pool)
	assert.Greater(t, len(pool.Caught), 0)
	// one replacement fish per valid catch, the water never drains
	assert.Equal(t, len(pool.Caught), len(pool.Added))
	assert.NotEmpty(t, pool.Fishes)

	require.Len(t, report.Waters, 1)
	require.Len(t, report.Waters[0].Species, 1)
	assert.Equal(t, len(pool.Caught), report.Waters[0].Species[0].Caught)
	assert.Equal(t, len(pool.Added), report.Waters[0].Species[0].Added)
}

func TestStillWaterDrains(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	species := roachSpecies()
	pond := models.FishingWater{ID: "pond", Location: "Pond 1", WaterType: models.WaterPond, M3: 1000, FishesCount: 3, Density: 0.003}

	snapshot := &models.FisherySnapshot{
		Species: []models.FishSpecies{species},
		Waters:  []models.FishingWater{pond},
	}
	engine := NewSimulationEngine(snapshot, rng, NewPopulationService(), nil, zap.NewNop())
	engine.SetPool("pond", "roach", &models.SpeciesPool{
		Fishes:       []*models.Fish{keeperRoach("r1"), keeperRoach("r2"), keeperRoach("r3")},
		InitialCount: 3,
	})

	fisherman := everydayFisherman("pond")
	calendar := yearCalendar(t, 2026, fisherman, rng)

	report := engine.Run(calendar, 2026, 365)

	pool := engine.Pool("pond", "roach")
	require.NotNil(t, pool)
	// exactly the three keepers are caught, then the pool stays empty
	assert.Len(t, pool.Caught, 3)
	assert.Empty(t, pool.Fishes)
	assert.Empty(t, pool.Added)

	require.Len(t, report.Waters, 1)
	catch := report.Waters[0].Species[0]
	assert.Equal(t, 3, catch.Caught)
	assert.Equal(t, 3, catch.Initial)
	assert.Equal(t, 0, catch.Added)
}

func TestUndersizedFishIsThrownBack(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	species := roachSpecies()
	pond := models.FishingWater{ID: "pond", Location: "Pond 2", WaterType: models.WaterPond, M3: 1000, FishesCount: 1, Density: 0.001}

	snapshot := &models.FisherySnapshot{
		Species: []models.FishSpecies{species},
		Waters:  []models.FishingWater{pond},
	}
	engine := NewSimulationEngine(snapshot, rng, NewPopulationService(), nil, zap.NewNop())
	small := &models.Fish{ID: "small", SpeciesID: "roach", Age: 2, LengthCm: 6, WeightG: 200}
	engine.SetPool("pond", "roach", &models.SpeciesPool{Fishes: []*models.Fish{small}, InitialCount: 1})

	fisherman := everydayFisherman("pond")
	calendar := yearCalendar(t, 2026, fisherman, rng)

	engine.Run(calendar, 2026, 60)

	pool := engine.Pool("pond", "roach")
	require.NotNil(t, pool)
	assert.Empty(t, pool.Caught)
	require.Len(t, pool.Fishes, 1)
	// hooked once, thrown back, never hooked again
	assert.GreaterOrEqual(t, pool.Fishes[0].CaughtCount, 1)
}

func TestAbsentSpeciesYieldsNoCatch(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	species := roachSpecies()
	pond := models.FishingWater{ID: "pond", Location: "Pond 3", WaterType: models.WaterPond, M3: 1000}

	snapshot := &models.FisherySnapshot{
		Species: []models.FishSpecies{species},
		Waters:  []models.FishingWater{pond},
	}
	engine := NewSimulationEngine(snapshot, rng, NewPopulationService(), nil, zap.NewNop())

	fisherman := everydayFisherman("pond")
	calendar := yearCalendar(t, 2026, fisherman, rng)

	report := engine.Run(calendar, 2026, 30)
	assert.Empty(t, report.Waters)
}
