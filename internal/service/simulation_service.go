package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/applepeerke/fishing-sub000/internal/models"
	appErrors "github.com/applepeerke/fishing-sub000/pkg/errors"
	"github.com/applepeerke/fishing-sub000/pkg/export"
	"github.com/applepeerke/fishing-sub000/pkg/jobs"
)

type snapshotLoader interface {
	Snapshot(ctx context.Context) (*models.FisherySnapshot, error)
}

// SimulationService queues simulation runs, executes them on a worker
// pool and keeps the finished reports for retrieval and export.
type SimulationService struct {
	fishery    snapshotLoader
	planner    *PlannerService
	population *PopulationService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	queue      *jobs.Queue
	retention  time.Duration

	mu   sync.RWMutex
	runs map[string]*models.SimulationRun
}

// NewSimulationService constructs a SimulationService instance.
func NewSimulationService(fishery snapshotLoader, planner *PlannerService, population *PopulationService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, workers int) *SimulationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SimulationService{
		fishery:    fishery,
		planner:    planner,
		population: population,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		runs:       make(map[string]*models.SimulationRun),
	}
	s.queue = jobs.NewQueue("simulation", s.handle, jobs.Config{
		Workers: workers,
		Logger:  logger,
	})
	return s
}

// WithRetention bounds how long finished runs are kept. Zero keeps them
// forever.
func (s *SimulationService) WithRetention(d time.Duration) *SimulationService {
	s.retention = d
	return s
}

// Start launches the run workers.
func (s *SimulationService) Start(ctx context.Context) { s.queue.Start(ctx) }

// Stop drains the run workers.
func (s *SimulationService) Stop() { s.queue.Stop() }

// StartRun validates the parameters, records a pending run and queues it.
func (s *SimulationService) StartRun(ctx context.Context, params models.SimulationParams) (*models.SimulationRun, error) {
	if err := s.validator.Struct(params); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid simulation parameters")
	}

	run := &models.SimulationRun{
		ID:        uuid.New().String(),
		Status:    models.RunPending,
		Params:    params,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.pruneLocked(run.CreatedAt)
	s.runs[run.ID] = run
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: run.ID, Kind: "simulation", Payload: params}); err != nil {
		s.mu.Lock()
		delete(s.runs, run.ID)
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrTransient.Code, appErrors.ErrTransient.Status, "failed to queue simulation")
	}

	out := *run
	return &out, nil
}

// GetRun returns a copy of one run.
func (s *SimulationService) GetRun(id string) (*models.SimulationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "simulation run not found")
	}
	out := *run
	return &out, nil
}

// ListRuns returns all known runs, newest first.
func (s *SimulationService) ListRuns() []models.SimulationRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]models.SimulationRun, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, *run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	return runs
}

// handle executes one queued run. Failures are recorded on the run and
// never returned, so the queue does not retry.
func (s *SimulationService) handle(ctx context.Context, job jobs.Job) error {
	params, ok := job.Payload.(models.SimulationParams)
	if !ok {
		s.logger.Error("simulation job carries unexpected payload", zap.String("job_id", job.ID))
		return nil
	}

	started := time.Now().UTC()
	s.updateRun(job.ID, func(run *models.SimulationRun) {
		run.Status = models.RunRunning
		run.StartedAt = &started
	})

	report, err := s.RunSync(ctx, params)
	finished := time.Now().UTC()

	if err != nil {
		s.logger.Error("simulation run failed", zap.String("run_id", job.ID), zap.Error(err))
		s.updateRun(job.ID, func(run *models.SimulationRun) {
			run.Status = models.RunFailed
			run.Error = err.Error()
			run.FinishedAt = &finished
		})
		if s.metrics != nil {
			s.metrics.RecordSimulationRun(string(models.RunFailed), finished.Sub(started))
		}
		return nil
	}

	s.updateRun(job.ID, func(run *models.SimulationRun) {
		run.Status = models.RunCompleted
		run.Report = report
		run.FinishedAt = &finished
	})
	if s.metrics != nil {
		s.metrics.RecordSimulationRun(string(models.RunCompleted), finished.Sub(started))
	}
	return nil
}

// RunSync executes one simulation to completion on the caller's
// goroutine. The CLI uses this directly.
func (s *SimulationService) RunSync(ctx context.Context, params models.SimulationParams) (*models.SimulationReport, error) {
	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	snapshot, err := s.loadSnapshot(ctx, params, rng)
	if err != nil {
		return nil, err
	}

	fishermen := make([]*models.Fisherman, 0, len(snapshot.Fishermen))
	for i := range snapshot.Fishermen {
		fishermen = append(fishermen, &snapshot.Fishermen[i])
	}

	calendar, err := s.planner.BuildCalendar(params.Year, fishermen, rng)
	if err != nil {
		return nil, fmt.Errorf("plan calendar: %w", err)
	}

	engine := NewSimulationEngine(snapshot, rng, s.population, s.metrics, s.logger)
	return engine.Run(calendar, params.Year, params.NoOfFishingDays), nil
}

func (s *SimulationService) loadSnapshot(ctx context.Context, params models.SimulationParams, rng *rand.Rand) (*models.FisherySnapshot, error) {
	if params.RandomFishermen > 0 {
		waters := params.RandomWaters
		if waters <= 0 {
			waters = 1
		}
		fishPerSpecies := params.RandomFishPerSpecies
		if fishPerSpecies <= 0 {
			fishPerSpecies = 1
		}
		return s.population.RandomPopulation(params.RandomFishermen, waters, fishPerSpecies, rng), nil
	}

	if s.fishery == nil {
		return nil, fmt.Errorf("no fishery repository configured")
	}
	snapshot, err := s.fishery.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return snapshot, nil
}

// pruneLocked drops finished runs older than the retention window. The
// caller holds the write lock.
func (s *SimulationService) pruneLocked(now time.Time) {
	if s.retention <= 0 {
		return
	}
	for id, run := range s.runs {
		if run.FinishedAt != nil && now.Sub(*run.FinishedAt) > s.retention {
			delete(s.runs, id)
		}
	}
}

func (s *SimulationService) updateRun(id string, apply func(*models.SimulationRun)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.runs[id]; ok {
		apply(run)
	}
}

// ReportDataset flattens a report into the tabular form the exporters
// consume.
func ReportDataset(report *models.SimulationReport) export.Dataset {
	data := export.Dataset{
		Title:   fmt.Sprintf("Fishing simulation %d", report.Year),
		Headers: []string{"Water", "Type", "Species", "Caught", "Initial", "Added"},
	}
	for _, water := range report.Waters {
		for _, species := range water.Species {
			data.Append(water.Location, string(water.WaterType), species.SpeciesName,
				strconv.Itoa(species.Caught), strconv.Itoa(species.Initial), strconv.Itoa(species.Added))
		}
	}
	return data
}

// ExportRun renders a completed run's report as csv or pdf.
func (s *SimulationService) ExportRun(id, format string) ([]byte, string, error) {
	run, err := s.GetRun(id)
	if err != nil {
		return nil, "", err
	}
	if run.Status != models.RunCompleted || run.Report == nil {
		return nil, "", appErrors.Clone(appErrors.ErrConflict, "simulation run has no report yet")
	}

	data := ReportDataset(run.Report)
	switch format {
	case "csv":
		out, err := export.NewCSVExporter().Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return out, "text/csv", nil
	case "pdf":
		out, err := export.NewPDFExporter().Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return out, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
