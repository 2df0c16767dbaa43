package service

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/applepeerke/fishing-sub000/internal/models"
)

// PlannerService builds the yearly fishing calendar.
type PlannerService struct {
	logger     *zap.Logger
	maxRetries int
}

// NewPlannerService constructs a PlannerService instance.
func NewPlannerService(logger *zap.Logger, maxRetries int) *PlannerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries <= 0 {
		maxRetries = 100
	}
	return &PlannerService{logger: logger, maxRetries: maxRetries}
}

// BuildCalendar maps every fishing date of the year to the fishermen
// going out on it. Weekly fishermen get every matching weekday; monthly
// fishermen get one random matching day in 1..28 per month.
func (s *PlannerService) BuildCalendar(year int, fishermen []*models.Fisherman, rng *rand.Rand) (models.Calendar, error) {
	calendar := models.Calendar{}

	for _, fisherman := range fishermen {
		if !fisherman.Active() {
			s.logger.Debug("skipping fisherman without waters or fishing days",
				zap.String("fisherman_id", fisherman.ID))
			continue
		}

		switch fisherman.Frequency {
		case models.FrequencyWeekly:
			s.planWeekly(calendar, year, fisherman)
		case models.FrequencyMonthly:
			if err := s.planMonthly(calendar, year, fisherman, rng); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("fisherman %s has unknown frequency %q", fisherman.ID, fisherman.Frequency)
		}
	}

	return calendar, nil
}

func (s *PlannerService) planWeekly(calendar models.Calendar, year int, fisherman *models.Fisherman) {
	day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for day.Year() == year {
		if fisherman.FishesOn(day.Weekday().String()) {
			key := models.NewDateKey(day)
			calendar[key] = append(calendar[key], fisherman)
		}
		day = day.AddDate(0, 0, 1)
	}
}

func (s *PlannerService) planMonthly(calendar models.Calendar, year int, fisherman *models.Fisherman, rng *rand.Rand) error {
	for month := time.January; month <= time.December; month++ {
		planned := false
		for attempt := 0; attempt < s.maxRetries; attempt++ {
			day := time.Date(year, month, 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)
			if fisherman.FishesOn(day.Weekday().String()) {
				key := models.NewDateKey(day)
				calendar[key] = append(calendar[key], fisherman)
				planned = true
				break
			}
		}
		if !planned {
			return fmt.Errorf("could not plan fisherman %s in %s %d after %d draws",
				fisherman.ID, month, year, s.maxRetries)
		}
	}
	return nil
}
