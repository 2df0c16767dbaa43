package models

import "time"

// ActivePeriod says when a species feeds.
type ActivePeriod string

const (
	ActiveDay   ActivePeriod = "Day"
	ActiveNight ActivePeriod = "Night"
	ActiveBoth  ActivePeriod = "Both"
)

// HoursOfActivity returns the integer hours 0..23 during which the
// species is catchable.
func (p ActivePeriod) HoursOfActivity() []int {
	switch p {
	case ActiveDay:
		return hourRange(6, 20)
	case ActiveNight:
		return append(hourRange(19, 23), hourRange(0, 5)...)
	default:
		return hourRange(0, 23)
	}
}

// StartWindow is the inclusive range a fisherman's starting hour is drawn
// from when targeting a species with this period.
func (p ActivePeriod) StartWindow() (int, int) {
	switch p {
	case ActiveDay:
		return 6, 12
	case ActiveNight:
		return 19, 23
	default:
		return 6, 20
	}
}

func hourRange(from, to int) []int {
	hours := make([]int, 0, to-from+1)
	for h := from; h <= to; h++ {
		hours = append(hours, h)
	}
	return hours
}

// WaterType classifies a fishing water. Flowing waters and the sea are
// treated as an infinite fish supply.
type WaterType string

const (
	WaterRiver WaterType = "River"
	WaterBrook WaterType = "Brook"
	WaterLake  WaterType = "Lake"
	WaterCanal WaterType = "Canal"
	WaterPond  WaterType = "Pond"
	WaterSea   WaterType = "Sea"
)

// Floating reports whether the water has an effectively infinite
// population. Brook counts as flowing water, same category as River.
func (t WaterType) Floating() bool {
	switch t {
	case WaterRiver, WaterBrook, WaterCanal, WaterSea:
		return true
	}
	return false
}

// FloatingDensity is the lower bound used for infinite waters.
const FloatingDensity = 0.2

// FishSpecies is reference data describing one species.
type FishSpecies struct {
	ID                    string       `db:"id" json:"id"`
	SpeciesName           string       `db:"species_name" json:"species_name"`
	SubspeciesName        *string      `db:"subspecies_name" json:"subspecies_name,omitempty"`
	ActiveAt              ActivePeriod `db:"active_at" json:"active_at"`
	RelativeDensity       int          `db:"relative_density" json:"relative_density"`
	YearlyGrowthInCm      float64      `db:"yearly_growth_in_cm" json:"yearly_growth_in_cm"`
	YearlyGrowthInG       float64      `db:"yearly_growth_in_g" json:"yearly_growth_in_g"`
	MaxLengthCm           float64      `db:"max_length_cm" json:"max_length_cm"`
	MaxWeightG            float64      `db:"max_weight_g" json:"max_weight_g"`
	MinimumLengthToKeepCm float64      `db:"minimum_length_to_keep_cm" json:"minimum_length_to_keep_cm"`
	UpdateCount           int          `db:"update_count" json:"update_count"`
	CreatedAt             time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time    `db:"updated_at" json:"updated_at"`
}

// Fish is one specimen of a species.
type Fish struct {
	ID             string    `db:"id" json:"id"`
	SpeciesID      string    `db:"species_id" json:"species_id"`
	Age            int       `db:"age" json:"age"`
	LengthCm       float64   `db:"length_cm" json:"length_cm"`
	WeightG        float64   `db:"weight_g" json:"weight_g"`
	CaughtCount    int       `db:"caught_count" json:"caught_count"`
	FishingwaterID *string   `db:"fishingwater_id" json:"fishingwater_id,omitempty"`
	FishermanID    *string   `db:"fisherman_id" json:"fisherman_id,omitempty"`
	UpdateCount    int       `db:"update_count" json:"update_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// DeriveSize computes length and weight from age, capped at the species
// maxima.
func (f *Fish) DeriveSize(species *FishSpecies) {
	f.LengthCm = min(float64(f.Age)*species.YearlyGrowthInCm, species.MaxLengthCm)
	f.WeightG = min(float64(f.Age)*species.YearlyGrowthInG, species.MaxWeightG)
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// FishingWater is a location fish live in and fishermen fish on.
type FishingWater struct {
	ID          string    `db:"id" json:"id"`
	Location    string    `db:"location" json:"location"`
	WaterType   WaterType `db:"water_type" json:"water_type"`
	M3          float64   `db:"m3" json:"m3"`
	FishesCount int       `db:"fishes_count" json:"fishes_count"`
	Density     float64   `db:"density" json:"density"`
	UpdateCount int       `db:"update_count" json:"update_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Floating reports whether the water is of the infinite-supply category.
func (w *FishingWater) Floating() bool { return w.WaterType.Floating() }

// AddFishes adjusts the still-water population and recomputes density.
// Floating waters are infinite: the call is a no-op there. The count
// never goes negative.
func (w *FishingWater) AddFishes(delta int) {
	if w.Floating() {
		return
	}
	w.FishesCount += delta
	if w.FishesCount < 0 {
		w.FishesCount = 0
	}
	if w.M3 > 0 {
		w.Density = float64(w.FishesCount) / w.M3
	}
}

// Frequency says how often a fisherman goes out.
type Frequency string

const (
	FrequencyWeekly  Frequency = "Weekly"
	FrequencyMonthly Frequency = "Monthly"
)

// Fisherman is an angler with target species, waters and fishing days.
type Fisherman struct {
	ID                     string    `db:"id" json:"id"`
	Forename               string    `db:"forename" json:"forename"`
	Surname                string    `db:"surname" json:"surname"`
	SpeciesID              string    `db:"species_id" json:"species_id"`
	Frequency              Frequency `db:"frequency" json:"frequency"`
	FishingSessionDuration int       `db:"fishing_session_duration" json:"fishing_session_duration"`
	Status                 string    `db:"status" json:"status"`
	UpdateCount            int       `db:"update_count" json:"update_count"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`

	Fishingwaters []FishingWater `db:"-" json:"fishingwaters,omitempty"`
	FishingDays   []string       `db:"-" json:"fishing_days,omitempty"`
}

// Active reports whether the fisherman can be planned: at least one water
// and at least one fishing day.
func (f *Fisherman) Active() bool {
	return len(f.Fishingwaters) > 0 && len(f.FishingDays) > 0
}

// FishesOn reports whether the weekday name is one of his fishing days.
func (f *Fisherman) FishesOn(weekday string) bool {
	for _, d := range f.FishingDays {
		if d == weekday {
			return true
		}
	}
	return false
}
