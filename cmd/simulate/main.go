package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/applepeerke/fishing-sub000/internal/models"
	"github.com/applepeerke/fishing-sub000/internal/service"
	"github.com/applepeerke/fishing-sub000/pkg/export"
)

func main() {
	year := flag.Int("year", time.Now().Year(), "year to simulate")
	days := flag.Int("days", 0, "limit the number of fishing days, 0 means all")
	fishermen := flag.Int("fishermen", 5, "number of random fishermen")
	waters := flag.Int("waters", 3, "number of random waters")
	fishPerSpecies := flag.Int("fish-per-species", 10, "fish per species per still water")
	seed := flag.Int64("seed", 0, "random seed, 0 means time-based")
	out := flag.String("out", "", "write the report as csv to this file instead of stdout")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	logCfg := zap.NewProductionConfig()
	if *verbose {
		logCfg = zap.NewDevelopmentConfig()
	}
	logr, err := logCfg.Build()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	planner := service.NewPlannerService(logr, 0)
	population := service.NewPopulationService()
	simulation := service.NewSimulationService(nil, planner, population, nil, nil, logr, 1)

	report, err := simulation.RunSync(context.Background(), models.SimulationParams{
		Year:                 *year,
		NoOfFishingDays:      *days,
		Seed:                 *seed,
		RandomFishermen:      *fishermen,
		RandomWaters:         *waters,
		RandomFishPerSpecies: *fishPerSpecies,
	})
	if err != nil {
		logr.Sugar().Fatalw("simulation failed", "error", err)
	}

	if *out != "" {
		data, err := export.NewCSVExporter().Render(service.ReportDataset(report))
		if err != nil {
			logr.Sugar().Fatalw("failed to render csv", "error", err)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			logr.Sugar().Fatalw("failed to write report", "error", err)
		}
		logr.Sugar().Infow("report written", "file", *out)
		return
	}

	printReport(report)
}

func printReport(report *models.SimulationReport) {
	fmt.Printf("Simulation %d, %d fishing days\n\n", report.Year, report.FishingDays)
	for _, water := range report.Waters {
		fmt.Printf("%s (%s)\n", water.Location, water.WaterType)
		for _, species := range water.Species {
			fmt.Printf("  %-12s caught %d of %d", species.SpeciesName, species.Caught, species.Initial)
			if species.Added > 0 {
				fmt.Printf(", %d replacements added", species.Added)
			}
			fmt.Println()
		}
	}
}
