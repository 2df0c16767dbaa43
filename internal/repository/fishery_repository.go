package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/applepeerke/fishing-sub000/internal/models"
)

const (
	speciesColumns   = `id, species_name, subspecies_name, active_at, relative_density, yearly_growth_in_cm, yearly_growth_in_g, max_length_cm, max_weight_g, minimum_length_to_keep_cm, update_count, created_at, updated_at`
	fishColumns      = `id, species_id, age, length_cm, weight_g, caught_count, fishingwater_id, fisherman_id, update_count, created_at, updated_at`
	waterColumns     = `id, location, water_type, m3, fishes_count, density, update_count, created_at, updated_at`
	fishermanColumns = `id, forename, surname, species_id, frequency, fishing_session_duration, status, update_count, created_at, updated_at`
)

// FisheryRepository persists species, fish, waters and fishermen.
type FisheryRepository struct {
	db *sqlx.DB
}

// NewFisheryRepository creates a new instance of FisheryRepository.
func NewFisheryRepository(db *sqlx.DB) *FisheryRepository {
	return &FisheryRepository{db: db}
}

// CreateSpecies inserts a species.
func (r *FisheryRepository) CreateSpecies(ctx context.Context, s *models.FishSpecies) error {
	prepareIdentity(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	const query = `INSERT INTO fish_species (id, species_name, subspecies_name, active_at, relative_density, yearly_growth_in_cm, yearly_growth_in_g, max_length_cm, max_weight_g, minimum_length_to_keep_cm, update_count, created_at, updated_at)
		VALUES (:id, :species_name, :subspecies_name, :active_at, :relative_density, :yearly_growth_in_cm, :yearly_growth_in_g, :max_length_cm, :max_weight_g, :minimum_length_to_keep_cm, 0, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("create species: %w", err)
	}
	return nil
}

// FindSpeciesByID returns one species.
func (r *FisheryRepository) FindSpeciesByID(ctx context.Context, id string) (*models.FishSpecies, error) {
	query := fmt.Sprintf(`SELECT %s FROM fish_species WHERE id = $1 LIMIT 1`, speciesColumns)
	var s models.FishSpecies
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find species by id: %w", err)
	}
	return &s, nil
}

// ListSpecies returns a bounded enumeration of species.
func (r *FisheryRepository) ListSpecies(ctx context.Context, skip, limit int) ([]models.FishSpecies, error) {
	query := fmt.Sprintf(`SELECT %s FROM fish_species ORDER BY species_name LIMIT $1 OFFSET $2`, speciesColumns)
	var species []models.FishSpecies
	if err := r.db.SelectContext(ctx, &species, query, boundedLimit(limit), maxInt(skip, 0)); err != nil {
		return nil, fmt.Errorf("list species: %w", err)
	}
	return species, nil
}

// DeleteSpecies removes a species.
func (r *FisheryRepository) DeleteSpecies(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fish_species WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete species: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// CreateFish inserts a fish.
func (r *FisheryRepository) CreateFish(ctx context.Context, f *models.Fish) error {
	prepareIdentity(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	const query = `INSERT INTO fishes (id, species_id, age, length_cm, weight_g, caught_count, fishingwater_id, fisherman_id, update_count, created_at, updated_at)
		VALUES (:id, :species_id, :age, :length_cm, :weight_g, :caught_count, :fishingwater_id, :fisherman_id, 0, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, f); err != nil {
		return fmt.Errorf("create fish: %w", err)
	}
	return nil
}

// UpdateFish replaces the mutable fields and bumps update_count.
func (r *FisheryRepository) UpdateFish(ctx context.Context, f *models.Fish) error {
	query := fmt.Sprintf(`UPDATE fishes
		SET age = $2, length_cm = $3, weight_g = $4, caught_count = $5, fishingwater_id = $6, fisherman_id = $7,
			update_count = update_count + 1, updated_at = $8
		WHERE id = $1
		RETURNING %s`, fishColumns)
	if err := r.db.GetContext(ctx, f, query,
		f.ID, f.Age, f.LengthCm, f.WeightG, f.CaughtCount, f.FishingwaterID, f.FishermanID, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update fish: %w", err)
	}
	return nil
}

// ListFish returns a bounded enumeration of fish.
func (r *FisheryRepository) ListFish(ctx context.Context, skip, limit int) ([]models.Fish, error) {
	query := fmt.Sprintf(`SELECT %s FROM fishes ORDER BY created_at LIMIT $1 OFFSET $2`, fishColumns)
	var fish []models.Fish
	if err := r.db.SelectContext(ctx, &fish, query, boundedLimit(limit), maxInt(skip, 0)); err != nil {
		return nil, fmt.Errorf("list fish: %w", err)
	}
	return fish, nil
}

// DeleteFish removes a fish.
func (r *FisheryRepository) DeleteFish(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fishes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete fish: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// CreateWater inserts a fishing water.
func (r *FisheryRepository) CreateWater(ctx context.Context, w *models.FishingWater) error {
	prepareIdentity(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	const query = `INSERT INTO fishingwaters (id, location, water_type, m3, fishes_count, density, update_count, created_at, updated_at)
		VALUES (:id, :location, :water_type, :m3, :fishes_count, :density, 0, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, w); err != nil {
		return fmt.Errorf("create water: %w", err)
	}
	return nil
}

// UpdateWater replaces the mutable fields and bumps update_count.
func (r *FisheryRepository) UpdateWater(ctx context.Context, w *models.FishingWater) error {
	query := fmt.Sprintf(`UPDATE fishingwaters
		SET location = $2, water_type = $3, m3 = $4, fishes_count = $5, density = $6,
			update_count = update_count + 1, updated_at = $7
		WHERE id = $1
		RETURNING %s`, waterColumns)
	if err := r.db.GetContext(ctx, w, query,
		w.ID, w.Location, w.WaterType, w.M3, w.FishesCount, w.Density, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update water: %w", err)
	}
	return nil
}

// ListWaters returns a bounded enumeration of waters.
func (r *FisheryRepository) ListWaters(ctx context.Context, skip, limit int) ([]models.FishingWater, error) {
	query := fmt.Sprintf(`SELECT %s FROM fishingwaters ORDER BY location LIMIT $1 OFFSET $2`, waterColumns)
	var waters []models.FishingWater
	if err := r.db.SelectContext(ctx, &waters, query, boundedLimit(limit), maxInt(skip, 0)); err != nil {
		return nil, fmt.Errorf("list waters: %w", err)
	}
	return waters, nil
}

// DeleteWater removes a water together with its fisherman join rows.
func (r *FisheryRepository) DeleteWater(ctx context.Context, id string) (bool, error) {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM fisherman_fishingwaters WHERE fishingwater_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete water fishermen: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM fishingwaters WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete water: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// CreateFisherman inserts a fisherman.
func (r *FisheryRepository) CreateFisherman(ctx context.Context, f *models.Fisherman) error {
	prepareIdentity(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	const query = `INSERT INTO fishermen (id, forename, surname, species_id, frequency, fishing_session_duration, status, update_count, created_at, updated_at)
		VALUES (:id, :forename, :surname, :species_id, :frequency, :fishing_session_duration, :status, 0, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, f); err != nil {
		return fmt.Errorf("create fisherman: %w", err)
	}
	return nil
}

// AttachWaterToFisherman links a water to a fisherman.
func (r *FisheryRepository) AttachWaterToFisherman(ctx context.Context, fishermanID, waterID string) error {
	const query = `INSERT INTO fisherman_fishingwaters (fisherman_id, fishingwater_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, fishermanID, waterID); err != nil {
		return fmt.Errorf("attach water to fisherman: %w", err)
	}
	return nil
}

// SetFishingDays replaces the weekday names a fisherman goes out on.
func (r *FisheryRepository) SetFishingDays(ctx context.Context, fishermanID string, days []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM fisherman_fishing_days WHERE fisherman_id = $1`, fishermanID); err != nil {
		return fmt.Errorf("clear fishing days: %w", err)
	}
	for _, day := range days {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO fisherman_fishing_days (fisherman_id, weekday) VALUES ($1, $2)`, fishermanID, day); err != nil {
			return fmt.Errorf("set fishing day: %w", err)
		}
	}
	return nil
}

// ListFishermen returns fishermen with their waters and fishing days
// eagerly loaded, ready for planning.
func (r *FisheryRepository) ListFishermen(ctx context.Context, skip, limit int) ([]models.Fisherman, error) {
	query := fmt.Sprintf(`SELECT %s FROM fishermen ORDER BY surname, forename LIMIT $1 OFFSET $2`, fishermanColumns)
	var fishermen []models.Fisherman
	if err := r.db.SelectContext(ctx, &fishermen, query, boundedLimit(limit), maxInt(skip, 0)); err != nil {
		return nil, fmt.Errorf("list fishermen: %w", err)
	}
	for i := range fishermen {
		if err := r.loadFishermanRelations(ctx, &fishermen[i]); err != nil {
			return nil, err
		}
	}
	return fishermen, nil
}

// Snapshot loads the whole fishery state the simulation runs against.
func (r *FisheryRepository) Snapshot(ctx context.Context) (*models.FisherySnapshot, error) {
	snap := &models.FisherySnapshot{}

	if err := r.db.SelectContext(ctx, &snap.Species,
		fmt.Sprintf(`SELECT %s FROM fish_species ORDER BY species_name`, speciesColumns)); err != nil {
		return nil, fmt.Errorf("snapshot species: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snap.Waters,
		fmt.Sprintf(`SELECT %s FROM fishingwaters ORDER BY location`, waterColumns)); err != nil {
		return nil, fmt.Errorf("snapshot waters: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snap.Fish,
		fmt.Sprintf(`SELECT %s FROM fishes WHERE fishingwater_id IS NOT NULL`, fishColumns)); err != nil {
		return nil, fmt.Errorf("snapshot fish: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snap.Fishermen,
		fmt.Sprintf(`SELECT %s FROM fishermen`, fishermanColumns)); err != nil {
		return nil, fmt.Errorf("snapshot fishermen: %w", err)
	}
	for i := range snap.Fishermen {
		if err := r.loadFishermanRelations(ctx, &snap.Fishermen[i]); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func (r *FisheryRepository) loadFishermanRelations(ctx context.Context, f *models.Fisherman) error {
	watersQuery := fmt.Sprintf(`SELECT %s FROM fishingwaters w
		JOIN fisherman_fishingwaters fw ON fw.fishingwater_id = w.id
		WHERE fw.fisherman_id = $1 ORDER BY w.location`, aliasColumns("w"))
	if err := r.db.SelectContext(ctx, &f.Fishingwaters, watersQuery, f.ID); err != nil {
		return fmt.Errorf("load fisherman waters: %w", err)
	}
	if err := r.db.SelectContext(ctx, &f.FishingDays,
		`SELECT weekday FROM fisherman_fishing_days WHERE fisherman_id = $1`, f.ID); err != nil {
		return fmt.Errorf("load fishing days: %w", err)
	}
	return nil
}

// aliasColumns qualifies the water column list for a join.
func aliasColumns(alias string) string {
	return alias + `.id, ` + alias + `.location, ` + alias + `.water_type, ` + alias + `.m3, ` +
		alias + `.fishes_count, ` + alias + `.density, ` + alias + `.update_count, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}
