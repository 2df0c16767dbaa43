package service

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/applepeerke/fishing-sub000/internal/models"
)

// PopulationService generates the default species list and randomized
// fish, waters and fishermen used to seed simulations.
type PopulationService struct{}

// NewPopulationService constructs a PopulationService instance.
func NewPopulationService() *PopulationService {
	return &PopulationService{}
}

// DefaultSpecies returns the built-in species. Roach at relative density
// 100 is the reference the other densities are expressed against.
func (s *PopulationService) DefaultSpecies() []models.FishSpecies {
	return []models.FishSpecies{
		newSpecies("Ale", models.ActiveNight, 15, 10, 50, 150, 400, 20),
		newSpecies("Carp", models.ActiveNight, 20, 8, 800, 120, 30000, 15),
		newSpecies("Pike", models.ActiveDay, 10, 8, 400, 140, 20000, 25),
		newSpecies("Perch", models.ActiveDay, 30, 3.5, 200, 60, 5000, 10),
		newSpecies("Roach", models.ActiveDay, 100, 3, 100, 40, 2000, 15),
	}
}

func newSpecies(name string, activeAt models.ActivePeriod, relDensity int, growthCm, growthG, maxLen, maxWeight, minKeep float64) models.FishSpecies {
	return models.FishSpecies{
		ID:                    uuid.New().String(),
		SpeciesName:           name,
		ActiveAt:              activeAt,
		RelativeDensity:       relDensity,
		YearlyGrowthInCm:      growthCm,
		YearlyGrowthInG:       growthG,
		MaxLengthCm:           maxLen,
		MaxWeightG:            maxWeight,
		MinimumLengthToKeepCm: minKeep,
	}
}

// FuzzGrowth spreads a growth rate uniformly over [g/2, 3g/2].
func FuzzGrowth(g float64, rng *rand.Rand) float64 {
	return g + rng.Float64()*g - g/2
}

// RandomAge draws from a normal with mean 8 and standard deviation 3,
// clamped to the natural numbers in [1, 50].
func (s *PopulationService) RandomAge(rng *rand.Rand) int {
	age := int(math.Round(rng.NormFloat64()*3 + 8))
	if age < 1 {
		age = 1
	}
	if age > 50 {
		age = 50
	}
	return age
}

// RandomFish creates one specimen with a random age and per-fish fuzzed
// growth rates.
func (s *PopulationService) RandomFish(species *models.FishSpecies, rng *rand.Rand) *models.Fish {
	fuzzed := *species
	fuzzed.YearlyGrowthInCm = FuzzGrowth(species.YearlyGrowthInCm, rng)
	fuzzed.YearlyGrowthInG = FuzzGrowth(species.YearlyGrowthInG, rng)

	fish := &models.Fish{
		ID:        uuid.New().String(),
		SpeciesID: species.ID,
		Age:       s.RandomAge(rng),
	}
	fish.DeriveSize(&fuzzed)
	if fish.LengthCm < 1 {
		fish.LengthCm = 1
	}
	if fish.WeightG < 1 {
		fish.WeightG = 1
	}
	return fish
}

var waterTypes = []models.WaterType{
	models.WaterRiver, models.WaterBrook, models.WaterLake,
	models.WaterCanal, models.WaterPond, models.WaterSea,
}

// RandomWater creates one water holding fishesCount fish. Floating
// waters have no volume and the fixed lower-bound density; still waters
// get a volume of at least 1000 m3 and a computed density.
func (s *PopulationService) RandomWater(fishesCount int, rng *rand.Rand) models.FishingWater {
	waterType := waterTypes[rng.Intn(len(waterTypes))]
	water := models.FishingWater{
		ID:        uuid.New().String(),
		Location:  fmt.Sprintf("%s %d", waterType, rng.Intn(900)+100),
		WaterType: waterType,
	}
	if water.Floating() {
		water.M3 = 0
		water.FishesCount = 0
		water.Density = models.FloatingDensity
		return water
	}
	upper := 10 * fishesCount
	if upper < 1001 {
		upper = 1001
	}
	water.M3 = float64(1000 + rng.Intn(upper-1000+1))
	water.FishesCount = fishesCount
	water.Density = float64(fishesCount) / water.M3
	return water
}

var weekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var forenames = []string{"Jan", "Piet", "Klaas", "Kees", "Henk", "Willem", "Gerrit", "Dirk"}
var surnames = []string{"Visser", "de Boer", "Bakker", "Jansen", "van Dijk", "Mulder", "Snoek", "de Bruin"}

// RandomFisherman creates one angler targeting the given species with a
// random frequency, session duration and one to three fishing days.
func (s *PopulationService) RandomFisherman(species *models.FishSpecies, waters []models.FishingWater, rng *rand.Rand) *models.Fisherman {
	frequency := models.FrequencyWeekly
	if rng.Intn(2) == 1 {
		frequency = models.FrequencyMonthly
	}

	days := make([]string, 0, 3)
	for _, i := range rng.Perm(len(weekdayNames))[:1+rng.Intn(3)] {
		days = append(days, weekdayNames[i])
	}

	fisherman := &models.Fisherman{
		ID:                     uuid.New().String(),
		Forename:               forenames[rng.Intn(len(forenames))],
		Surname:                surnames[rng.Intn(len(surnames))],
		SpeciesID:              species.ID,
		Frequency:              frequency,
		FishingSessionDuration: 1 + rng.Intn(8),
		Status:                 "active",
		FishingDays:            days,
	}
	for _, i := range rng.Perm(len(waters))[:1+rng.Intn(len(waters))] {
		fisherman.Fishingwaters = append(fisherman.Fishingwaters, waters[i])
	}
	return fisherman
}

// RandomPopulation builds a complete synthetic snapshot: default species,
// random waters, fishPerSpecies fish per (water, species) pair in still
// waters and fishermen spread over the species.
func (s *PopulationService) RandomPopulation(fishermen, waters, fishPerSpecies int, rng *rand.Rand) *models.FisherySnapshot {
	snapshot := &models.FisherySnapshot{Species: s.DefaultSpecies()}

	for i := 0; i < waters; i++ {
		snapshot.Waters = append(snapshot.Waters, s.RandomWater(fishPerSpecies*len(snapshot.Species), rng))
	}

	for w := range snapshot.Waters {
		water := &snapshot.Waters[w]
		count := fishPerSpecies
		if water.Floating() {
			// one seed fish per species is enough for an infinite water
			count = 1
		}
		for sp := range snapshot.Species {
			for i := 0; i < count; i++ {
				fish := s.RandomFish(&snapshot.Species[sp], rng)
				fish.FishingwaterID = &water.ID
				snapshot.Fish = append(snapshot.Fish, *fish)
			}
		}
	}

	for i := 0; i < fishermen; i++ {
		species := &snapshot.Species[rng.Intn(len(snapshot.Species))]
		snapshot.Fishermen = append(snapshot.Fishermen, *s.RandomFisherman(species, snapshot.Waters, rng))
	}

	return snapshot
}
