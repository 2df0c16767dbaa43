package service

import (
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/applepeerke/fishing-sub000/internal/models"
)

const encounterFloor = 0.2

// SimulationEngine drives the hour-by-hour run over one calendar. All
// state is owned by the engine for the duration of one Run; an engine
// must not be shared across runs.
type SimulationEngine struct {
	logger     *zap.Logger
	rng        *rand.Rand
	population *PopulationService
	metrics    *MetricsService

	species map[string]*models.FishSpecies
	waters  map[string]*models.FishingWater
	// pools[waterID][speciesID] is the live population during a run
	pools map[string]map[string]*models.SpeciesPool

	sessions      map[string]*models.FishingSession
	startingHours map[string]int
	activeHours   map[models.ActivePeriod][]bool
	// low encounter rates need many fished hours to reach one attempt,
	// so the accumulator survives session boundaries per fisherman
	carryover map[string]float64
}

// NewSimulationEngine indexes the snapshot and builds the species pools.
func NewSimulationEngine(snapshot *models.FisherySnapshot, rng *rand.Rand, population *PopulationService, metrics *MetricsService, logger *zap.Logger) *SimulationEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if population == nil {
		population = NewPopulationService()
	}

	engine := &SimulationEngine{
		logger:        logger,
		rng:           rng,
		population:    population,
		metrics:       metrics,
		species:       make(map[string]*models.FishSpecies, len(snapshot.Species)),
		waters:        make(map[string]*models.FishingWater, len(snapshot.Waters)),
		pools:         make(map[string]map[string]*models.SpeciesPool),
		sessions:      make(map[string]*models.FishingSession),
		startingHours: make(map[string]int),
		activeHours:   make(map[models.ActivePeriod][]bool),
		carryover:     make(map[string]float64),
	}
	for i := range snapshot.Species {
		engine.species[snapshot.Species[i].ID] = &snapshot.Species[i]
	}
	for i := range snapshot.Waters {
		engine.waters[snapshot.Waters[i].ID] = &snapshot.Waters[i]
	}
	engine.buildPools(snapshot)
	return engine
}

// buildPools loads the persisted fish into per-water per-species pools
// and overlays one extra randomized fish per persisted fish as the
// roaming population.
func (e *SimulationEngine) buildPools(snapshot *models.FisherySnapshot) {
	for i := range snapshot.Fish {
		fish := snapshot.Fish[i]
		if fish.FishingwaterID == nil {
			continue
		}
		pool := e.pool(*fish.FishingwaterID, fish.SpeciesID)
		pool.Fishes = append(pool.Fishes, &fish)
		pool.InitialCount++
	}
	for waterID, perSpecies := range e.pools {
		water, ok := e.waters[waterID]
		if !ok {
			continue
		}
		for speciesID, pool := range perSpecies {
			species, ok := e.species[speciesID]
			if !ok {
				continue
			}
			persisted := pool.InitialCount
			for i := 0; i < persisted; i++ {
				roaming := e.population.RandomFish(species, e.rng)
				roaming.FishingwaterID = &water.ID
				pool.Fishes = append(pool.Fishes, roaming)
			}
			pool.InitialCount += persisted
		}
	}
}

// SetPool installs an exact pool for one water and species, replacing
// whatever buildPools derived. Used to run prepared scenarios.
func (e *SimulationEngine) SetPool(waterID, speciesID string, pool *models.SpeciesPool) {
	perSpecies, ok := e.pools[waterID]
	if !ok {
		perSpecies = make(map[string]*models.SpeciesPool)
		e.pools[waterID] = perSpecies
	}
	perSpecies[speciesID] = pool
}

// Pool returns the live pool for one water and species, or nil.
func (e *SimulationEngine) Pool(waterID, speciesID string) *models.SpeciesPool {
	return e.pools[waterID][speciesID]
}

func (e *SimulationEngine) pool(waterID, speciesID string) *models.SpeciesPool {
	perSpecies, ok := e.pools[waterID]
	if !ok {
		perSpecies = make(map[string]*models.SpeciesPool)
		e.pools[waterID] = perSpecies
	}
	pool, ok := perSpecies[speciesID]
	if !ok {
		pool = &models.SpeciesPool{}
		perSpecies[speciesID] = pool
	}
	return pool
}

// Run walks the calendar chronologically and simulates every populated
// date hour by hour. noOfFishingDays bounds the number of dates; zero
// means all of them.
func (e *SimulationEngine) Run(calendar models.Calendar, startYear, noOfFishingDays int) *models.SimulationReport {
	dates := calendar.SortedDates()
	days := 0
	for _, date := range dates {
		if date.Year != startYear {
			continue
		}
		if noOfFishingDays > 0 && days >= noOfFishingDays {
			break
		}
		e.runDay(date, calendar[date])
		days++
	}
	return e.report(startYear, days)
}

func (e *SimulationEngine) runDay(date models.DateKey, fishermen []*models.Fisherman) {
	for _, fisherman := range fishermen {
		species, ok := e.species[fisherman.SpeciesID]
		if !ok {
			e.logger.Warn("fisherman targets unknown species",
				zap.String("fisherman_id", fisherman.ID), zap.String("species_id", fisherman.SpeciesID))
			continue
		}
		lo, hi := species.ActiveAt.StartWindow()
		e.startingHours[fisherman.ID] = lo + e.rng.Intn(hi-lo+1)
	}

	for hour := 0; hour < 24; hour++ {
		for _, fisherman := range fishermen {
			start, planned := e.startingHours[fisherman.ID]
			if !planned {
				continue
			}
			session := e.sessions[fisherman.ID]
			if session == nil && hour == start {
				e.startSession(fisherman)
			} else if session != nil {
				session.HoursFished++
				if session.HoursFished >= session.SessionDuration {
					e.endSession(date, fisherman, session)
					continue
				}
			}
			if session := e.sessions[fisherman.ID]; session != nil {
				e.accrueEncounters(hour, fisherman, session)
			}
		}
	}

	// the day is over, whatever is still running ends now
	for _, fisherman := range fishermen {
		if session := e.sessions[fisherman.ID]; session != nil {
			e.endSession(date, fisherman, session)
		}
		delete(e.startingHours, fisherman.ID)
	}
}

func (e *SimulationEngine) startSession(fisherman *models.Fisherman) {
	if len(fisherman.Fishingwaters) == 0 {
		return
	}
	waterID := fisherman.Fishingwaters[e.rng.Intn(len(fisherman.Fishingwaters))].ID
	water, ok := e.waters[waterID]
	if !ok {
		e.logger.Warn("fisherman references unknown water", zap.String("water_id", waterID))
		return
	}
	species := e.species[fisherman.SpeciesID]

	duration := 1
	if fisherman.FishingSessionDuration > 1 {
		duration = 1 + e.rng.Intn(fisherman.FishingSessionDuration)
	}

	e.sessions[fisherman.ID] = &models.FishingSession{
		FishingwaterID:            water.ID,
		Species:                   species,
		SessionDuration:           duration,
		Encounters:                e.carryover[fisherman.ID],
		EncountersPerHourExpected: e.expectedEncounters(water, species),
	}
}

func (e *SimulationEngine) endSession(date models.DateKey, fisherman *models.Fisherman, session *models.FishingSession) {
	e.carryover[fisherman.ID] = session.Encounters
	e.logger.Debug("session ended",
		zap.String("date", date.String()),
		zap.String("fisherman_id", fisherman.ID),
		zap.String("water_id", session.FishingwaterID),
		zap.Int("hours_fished", session.HoursFished),
		zap.Int("caught", len(session.CaughtFishes)))
	delete(e.sessions, fisherman.ID)
}

// expectedEncounters is zero when the species is absent from the water
// and otherwise bounded below so a session is never entirely hopeless.
func (e *SimulationEngine) expectedEncounters(water *models.FishingWater, species *models.FishSpecies) float64 {
	pool := e.pools[water.ID][species.ID]
	if pool == nil {
		return 0
	}
	rate := water.Density * float64(species.RelativeDensity) / 100
	if rate < encounterFloor {
		rate = encounterFloor
	}
	return rate
}

// activeAt memoizes the activity hours per feeding period.
func (e *SimulationEngine) activeAt(period models.ActivePeriod, hour int) bool {
	hours, ok := e.activeHours[period]
	if !ok {
		hours = make([]bool, 24)
		for _, h := range period.HoursOfActivity() {
			hours[h] = true
		}
		e.activeHours[period] = hours
	}
	return hours[hour]
}

func (e *SimulationEngine) accrueEncounters(hour int, fisherman *models.Fisherman, session *models.FishingSession) {
	if !e.activeAt(session.Species.ActiveAt, hour) {
		return
	}
	session.Encounters += session.EncountersPerHourExpected
	if session.Encounters <= 1 {
		return
	}
	attempts := int(session.Encounters)
	session.Encounters = 0
	for i := 0; i < attempts; i++ {
		e.resolveEncounter(fisherman, session)
	}
}

func (e *SimulationEngine) resolveEncounter(fisherman *models.Fisherman, session *models.FishingSession) {
	water := e.waters[session.FishingwaterID]
	species := session.Species

	pool := e.pools[water.ID][species.ID]
	if pool == nil {
		e.observe("absent")
		e.logger.Debug("species does not occur in water",
			zap.String("water_id", water.ID), zap.String("species", species.SpeciesName))
		return
	}

	fish := pool.Head()
	if fish == nil {
		e.observe("not_a_fish")
		e.logger.Debug("not a fish", zap.String("water_id", water.ID), zap.String("species", species.SpeciesName))
		return
	}

	if fish.CaughtCount > 0 {
		pool.PushTail(fish)
		e.observe("not_hooked")
		e.logger.Debug("was not hooked", zap.String("fish_id", fish.ID))
		return
	}

	if fish.LengthCm <= species.MinimumLengthToKeepCm {
		fish.CaughtCount++
		pool.PushTail(fish)
		e.observe("thrown_back")
		e.logger.Debug("thrown back", zap.String("fish_id", fish.ID), zap.Float64("length_cm", fish.LengthCm))
		return
	}

	fish.CaughtCount++
	fish.FishermanID = &fisherman.ID
	session.CaughtFishes = append(session.CaughtFishes, fish)
	pool.Caught = append(pool.Caught, fish)

	water.AddFishes(-1)
	session.EncountersPerHourExpected = e.expectedEncounters(water, species)

	if water.Floating() {
		replacement := e.population.RandomFish(species, e.rng)
		replacement.FishingwaterID = &water.ID
		pool.PushTail(replacement)
		pool.Added = append(pool.Added, replacement)
	}
	e.observe("caught")
}

func (e *SimulationEngine) observe(outcome string) {
	if e.metrics != nil {
		e.metrics.RecordEncounter(outcome)
	}
}

func (e *SimulationEngine) report(year, days int) *models.SimulationReport {
	report := &models.SimulationReport{Year: year, FishingDays: days}

	waterIDs := make([]string, 0, len(e.pools))
	for id := range e.pools {
		waterIDs = append(waterIDs, id)
	}
	sort.Strings(waterIDs)

	for _, waterID := range waterIDs {
		water := e.waters[waterID]
		waterReport := models.WaterReport{
			WaterID:   waterID,
			Location:  water.Location,
			WaterType: water.WaterType,
		}

		speciesIDs := make([]string, 0, len(e.pools[waterID]))
		for id := range e.pools[waterID] {
			speciesIDs = append(speciesIDs, id)
		}
		sort.Strings(speciesIDs)

		for _, speciesID := range speciesIDs {
			pool := e.pools[waterID][speciesID]
			name := speciesID
			if species, ok := e.species[speciesID]; ok {
				name = species.SpeciesName
			}
			waterReport.Species = append(waterReport.Species, models.SpeciesCatch{
				SpeciesName: name,
				Caught:      len(pool.Caught),
				Initial:     pool.InitialCount,
				Added:       len(pool.Added),
			})
		}
		report.Waters = append(report.Waters, waterReport)
	}
	return report
}
