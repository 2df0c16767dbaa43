package models

import (
	"fmt"
	"sort"
	"time"
)

// DateKey identifies one calendar day of the simulated year.
type DateKey struct {
	Year    int
	Month   time.Month
	Day     int
	Weekday string
}

// NewDateKey derives the key for a concrete date.
func NewDateKey(t time.Time) DateKey {
	return DateKey{
		Year:    t.Year(),
		Month:   t.Month(),
		Day:     t.Day(),
		Weekday: t.Weekday().String(),
	}
}

// String renders the key for logs.
func (k DateKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %s", k.Year, int(k.Month), k.Day, k.Weekday)
}

// Before orders keys chronologically.
func (k DateKey) Before(other DateKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	if k.Month != other.Month {
		return k.Month < other.Month
	}
	return k.Day < other.Day
}

// Calendar maps each fishing date to the fishermen going out on it.
type Calendar map[DateKey][]*Fisherman

// SortedDates returns the populated dates in chronological order.
func (c Calendar) SortedDates() []DateKey {
	dates := make([]DateKey, 0, len(c))
	for k := range c {
		dates = append(dates, k)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// FishingSession is the transient state of one fishing bout. It exists
// only inside the simulation engine.
type FishingSession struct {
	FishingwaterID            string
	Species                   *FishSpecies
	HoursFished               int
	SessionDuration           int
	CaughtFishes              []*Fish
	Encounters                float64
	EncountersPerHourExpected float64
}

// SpeciesPool holds the fish of one species in one water during a run.
// The head of Fishes is the next candidate; thrown-back fish return to
// the tail.
type SpeciesPool struct {
	Fishes       []*Fish
	InitialCount int
	Caught       []*Fish
	Added        []*Fish
}

// Head pops the next candidate fish, or nil when the pool is empty.
func (p *SpeciesPool) Head() *Fish {
	if len(p.Fishes) == 0 {
		return nil
	}
	fish := p.Fishes[0]
	p.Fishes = p.Fishes[1:]
	return fish
}

// PushTail returns a fish to the back of the pool.
func (p *SpeciesPool) PushTail(fish *Fish) {
	p.Fishes = append(p.Fishes, fish)
}

// FisherySnapshot is the in-memory view of the persisted population the
// simulation runs against.
type FisherySnapshot struct {
	Species   []FishSpecies
	Waters    []FishingWater
	Fish      []Fish
	Fishermen []Fisherman
}

// SpeciesCatch summarizes one species in one water at the end of a run.
type SpeciesCatch struct {
	SpeciesName string `json:"species_name"`
	Caught      int    `json:"caught"`
	Initial     int    `json:"initial"`
	Added       int    `json:"added"`
}

// WaterReport lists per-species results for one water.
type WaterReport struct {
	WaterID   string         `json:"water_id"`
	Location  string         `json:"location"`
	WaterType WaterType      `json:"water_type"`
	Species   []SpeciesCatch `json:"species"`
}

// SimulationReport is the end-of-simulation summary.
type SimulationReport struct {
	Year        int           `json:"year"`
	FishingDays int           `json:"fishing_days"`
	Waters      []WaterReport `json:"waters"`
}

// RunStatus tracks the lifecycle of an asynchronous simulation run.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// SimulationParams are the caller-supplied knobs of one run.
type SimulationParams struct {
	Year            int   `json:"year" validate:"required,min=1970,max=9999"`
	NoOfFishingDays int   `json:"no_of_fishing_days" validate:"min=0,max=366"`
	Seed            int64 `json:"seed"`
	// Synthetic population sizes; zero means simulate the persisted state.
	RandomFishermen      int `json:"random_fishermen" validate:"min=0,max=1000"`
	RandomWaters         int `json:"random_waters" validate:"min=0,max=1000"`
	RandomFishPerSpecies int `json:"random_fish_per_species" validate:"min=0,max=10000"`
}

// SimulationRun is the queryable record of a queued or finished run.
type SimulationRun struct {
	ID         string            `json:"id"`
	Status     RunStatus         `json:"status"`
	Params     SimulationParams  `json:"params"`
	Report     *SimulationReport `json:"report,omitempty"`
	Error      string            `json:"error,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	StartedAt  *time.Time        `json:"started_at,omitempty"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
}
