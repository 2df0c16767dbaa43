package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applepeerke/fishing-sub000/internal/models"
)

func TestFisheryRepositoryCreateSpecies(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFisheryRepository(db)

	mock.ExpectExec("INSERT INTO fish_species").
		WithArgs(sqlmock.AnyArg(), "Roach", sqlmock.AnyArg(), models.ActiveDay, 100, 3.0, 100.0, 40.0, 2000.0, 15.0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	species := &models.FishSpecies{
		SpeciesName:           "Roach",
		ActiveAt:              models.ActiveDay,
		RelativeDensity:       100,
		YearlyGrowthInCm:      3,
		YearlyGrowthInG:       100,
		MaxLengthCm:           40,
		MaxWeightG:            2000,
		MinimumLengthToKeepCm: 15,
	}
	err := repo.CreateSpecies(context.Background(), species)
	require.NoError(t, err)
	assert.NotEmpty(t, species.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFisheryRepositoryCreateWater(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFisheryRepository(db)

	mock.ExpectExec("INSERT INTO fishingwaters").
		WithArgs(sqlmock.AnyArg(), "Pond 1", models.WaterPond, 1000.0, 10, 0.01, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	water := &models.FishingWater{Location: "Pond 1", WaterType: models.WaterPond, M3: 1000, FishesCount: 10, Density: 0.01}
	require.NoError(t, repo.CreateWater(context.Background(), water))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFisheryRepositorySetFishingDays(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFisheryRepository(db)

	mock.ExpectExec("DELETE FROM fisherman_fishing_days").
		WithArgs("f1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO fisherman_fishing_days").
		WithArgs("f1", "Monday").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO fisherman_fishing_days").
		WithArgs("f1", "Saturday").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetFishingDays(context.Background(), "f1", []string{"Monday", "Saturday"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFisheryRepositorySnapshot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFisheryRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM fish_species ORDER BY species_name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "species_name", "active_at", "relative_density"}).
			AddRow("s1", "Roach", models.ActiveDay, 100))
	mock.ExpectQuery("SELECT (.+) FROM fishingwaters ORDER BY location").
		WillReturnRows(sqlmock.NewRows([]string{"id", "location", "water_type", "density"}).
			AddRow("w1", "Canal 1", models.WaterCanal, models.FloatingDensity))
	mock.ExpectQuery("SELECT (.+) FROM fishes WHERE fishingwater_id IS NOT NULL").
		WillReturnRows(sqlmock.NewRows([]string{"id", "species_id", "fishingwater_id"}).
			AddRow("fi1", "s1", "w1"))
	mock.ExpectQuery("SELECT (.+) FROM fishermen").
		WillReturnRows(sqlmock.NewRows([]string{"id", "forename", "surname", "species_id", "frequency", "fishing_session_duration"}).
			AddRow("f1", "Piet", "Visser", "s1", models.FrequencyWeekly, 4))
	mock.ExpectQuery("SELECT (.+) FROM fishingwaters w").
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "location", "water_type", "density"}).
			AddRow("w1", "Canal 1", models.WaterCanal, models.FloatingDensity))
	mock.ExpectQuery("SELECT weekday FROM fisherman_fishing_days").
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"weekday"}).AddRow("Monday"))

	snap, err := repo.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Fishermen, 1)
	assert.Len(t, snap.Species, 1)
	assert.Len(t, snap.Waters, 1)
	assert.Len(t, snap.Fish, 1)
	assert.Equal(t, []string{"Monday"}, snap.Fishermen[0].FishingDays)
	require.Len(t, snap.Fishermen[0].Fishingwaters, 1)
	assert.Equal(t, "w1", snap.Fishermen[0].Fishingwaters[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
