package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/applepeerke/fishing-sub000/internal/models"
	"github.com/applepeerke/fishing-sub000/internal/repository"
	appErrors "github.com/applepeerke/fishing-sub000/pkg/errors"
)

// FisheryService manages the domain entities the simulation feeds on:
// species, fish, waters and fishermen.
type FisheryService struct {
	fishery   *repository.FisheryRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFisheryService constructs a FisheryService instance.
func NewFisheryService(fishery *repository.FisheryRepository, validate *validator.Validate, logger *zap.Logger) *FisheryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FisheryService{fishery: fishery, validator: validate, logger: logger}
}

// CreateSpecies stores a new species.
func (s *FisheryService) CreateSpecies(ctx context.Context, species *models.FishSpecies) error {
	if err := s.validator.Struct(species); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid species")
	}
	if err := s.fishery.CreateSpecies(ctx, species); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create species")
	}
	return nil
}

// ListSpecies returns a page of species.
func (s *FisheryService) ListSpecies(ctx context.Context, skip, limit int) ([]models.FishSpecies, error) {
	species, err := s.fishery.ListSpecies(ctx, skip, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list species")
	}
	return species, nil
}

// DeleteSpecies removes a species.
func (s *FisheryService) DeleteSpecies(ctx context.Context, id string) error {
	deleted, err := s.fishery.DeleteSpecies(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete species")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "species not found")
	}
	return nil
}

// CreateFish stores a new fish with its size derived from its age.
func (s *FisheryService) CreateFish(ctx context.Context, fish *models.Fish) error {
	if err := s.validator.Struct(fish); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fish")
	}
	species, err := s.fishery.FindSpeciesByID(ctx, fish.SpeciesID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "species not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch species")
	}
	fish.DeriveSize(species)
	if err := s.fishery.CreateFish(ctx, fish); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create fish")
	}
	return nil
}

// ListFish returns a page of fish.
func (s *FisheryService) ListFish(ctx context.Context, skip, limit int) ([]models.Fish, error) {
	fish, err := s.fishery.ListFish(ctx, skip, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fish")
	}
	return fish, nil
}

// DeleteFish removes a fish.
func (s *FisheryService) DeleteFish(ctx context.Context, id string) error {
	deleted, err := s.fishery.DeleteFish(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete fish")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "fish not found")
	}
	return nil
}

// CreateWater validates the volume rules before storing a water.
func (s *FisheryService) CreateWater(ctx context.Context, water *models.FishingWater) error {
	if err := s.validator.Struct(water); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fishing water")
	}
	if water.Floating() {
		water.M3 = 0
		water.FishesCount = 0
		water.Density = models.FloatingDensity
	} else {
		if water.M3 < 1000 {
			return appErrors.Clone(appErrors.ErrValidation, "still water needs at least 1000 m3")
		}
		water.Density = float64(water.FishesCount) / water.M3
	}
	if err := s.fishery.CreateWater(ctx, water); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create fishing water")
	}
	return nil
}

// ListWaters returns a page of waters.
func (s *FisheryService) ListWaters(ctx context.Context, skip, limit int) ([]models.FishingWater, error) {
	waters, err := s.fishery.ListWaters(ctx, skip, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fishing waters")
	}
	return waters, nil
}

// DeleteWater removes a water.
func (s *FisheryService) DeleteWater(ctx context.Context, id string) error {
	deleted, err := s.fishery.DeleteWater(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete fishing water")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "fishing water not found")
	}
	return nil
}

// CreateFisherman stores an angler with his waters and fishing days.
func (s *FisheryService) CreateFisherman(ctx context.Context, fisherman *models.Fisherman) error {
	if err := s.validator.Struct(fisherman); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fisherman")
	}
	if err := s.fishery.CreateFisherman(ctx, fisherman); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create fisherman")
	}
	for _, water := range fisherman.Fishingwaters {
		if err := s.fishery.AttachWaterToFisherman(ctx, fisherman.ID, water.ID); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach water")
		}
	}
	if len(fisherman.FishingDays) > 0 {
		if err := s.fishery.SetFishingDays(ctx, fisherman.ID, fisherman.FishingDays); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set fishing days")
		}
	}
	return nil
}

// ListFishermen returns a page of fishermen with waters and days loaded.
func (s *FisheryService) ListFishermen(ctx context.Context, skip, limit int) ([]models.Fisherman, error) {
	fishermen, err := s.fishery.ListFishermen(ctx, skip, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fishermen")
	}
	return fishermen, nil
}
