// Package wire provides dependency injection for the station CLI.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/testhub/internal/adapters/cli"
	"github.com/example/testhub/internal/adapters/filesystem"
	"github.com/example/testhub/internal/adapters/git"
	"github.com/example/testhub/internal/adapters/sqlite"
	"github.com/example/testhub/internal/app"
	"github.com/example/testhub/internal/config"
	"github.com/example/testhub/internal/core/measurement"
	"github.com/example/testhub/internal/db"
	"github.com/example/testhub/internal/logging"
	"github.com/example/testhub/internal/ports/primary"
)

var (
	stationDir = "."
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	plans  measurement.PlanSet

	reportService      primary.ReportService
	annotationService  primary.AnnotationService
	measurementService primary.MeasurementService
	syncService        primary.SyncService
	yieldService       primary.YieldService
	historyService     primary.HistoryService
	catalogService     primary.CatalogService
	once               sync.Once
)

// Configure sets the station directory and log verbosity. It must be called
// before any service is requested.
func Configure(dir string, verboseLogging bool) {
	stationDir = dir
	verbose = verboseLogging
}

// StationDir returns the configured station directory.
func StationDir() string {
	return stationDir
}

// Config returns the loaded station configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the shared logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// Plans returns the channel plans in effect.
func Plans() measurement.PlanSet {
	once.Do(initServices)
	return plans
}

// ReportService returns the singleton ReportService instance.
func ReportService() primary.ReportService {
	once.Do(initServices)
	return reportService
}

// AnnotationService returns the singleton AnnotationService instance.
func AnnotationService() primary.AnnotationService {
	once.Do(initServices)
	return annotationService
}

// MeasurementService returns the singleton MeasurementService instance.
func MeasurementService() primary.MeasurementService {
	once.Do(initServices)
	return measurementService
}

// SyncService returns the singleton SyncService instance.
func SyncService() primary.SyncService {
	once.Do(initServices)
	return syncService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.LoadOrDefault(stationDir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err = logging.New(verbose)
	if err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}

	plans, err = config.LoadPlans(cfg.PlansFile)
	if err != nil {
		log.Fatalf("failed to load channel plans: %v", err)
	}

	mode, err := app.ParsePullMode(cfg.PullMode)
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	db.SetPath(cfg.DBPath)
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Secondary adapters
	store := filesystem.NewReportStore(cfg.ReportsRoot)
	watcher := filesystem.NewReportWatcher(cfg.ReportsRoot, filesystem.DefaultDebounce, logger)
	catalogStore := filesystem.NewCatalogStore(config.CatalogPath(stationDir))
	remote := git.NewRemote(cfg.GitRoot(), cfg.Remote, cfg.Branch, nil)
	runLog := sqlite.NewRunLogRepository(database)

	// Services (primary ports implementation)
	docs := app.NewDocuments(store)
	reportService = app.NewReportService(docs, watcher, logger)
	annotationService = app.NewAnnotationService(docs, logger)
	measurementService = app.NewMeasurementService(plans, reportService, runLog, measurement.DefaultTiming(), logger)
	syncService = app.NewSyncService(remote, runLog, mode, cfg.Station, logger)
	yieldService = app.NewYieldService(store, logger)
	historyService = app.NewHistoryService(runLog)
	catalogService = app.NewCatalogService(catalogStore, annotationService)
}

// Close flushes the logger and closes the history database.
func Close() {
	if logger != nil {
		_ = logger.Sync()
	}
	_ = db.Close()
}

// ReportAdapter returns a new ReportAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ReportAdapter() *cliadapter.ReportAdapter {
	return ReportAdapterWithOutput(os.Stdout)
}

// ReportAdapterWithOutput returns a new ReportAdapter writing to the given output.
func ReportAdapterWithOutput(out io.Writer) *cliadapter.ReportAdapter {
	once.Do(initServices)
	return cliadapter.NewReportAdapter(reportService, out)
}

// AnnotationAdapter returns a new AnnotationAdapter writing to stdout.
func AnnotationAdapter() *cliadapter.AnnotationAdapter {
	once.Do(initServices)
	return cliadapter.NewAnnotationAdapter(annotationService, os.Stdout)
}

// MeasurementAdapter returns a new MeasurementAdapter writing to stdout.
func MeasurementAdapter() *cliadapter.MeasurementAdapter {
	once.Do(initServices)
	return cliadapter.NewMeasurementAdapter(measurementService, os.Stdout)
}

// SyncAdapter returns a new SyncAdapter writing to stdout.
func SyncAdapter() *cliadapter.SyncAdapter {
	once.Do(initServices)
	return cliadapter.NewSyncAdapter(syncService, os.Stdout)
}

// StationAdapter returns a new StationAdapter writing to stdout.
func StationAdapter() *cliadapter.StationAdapter {
	once.Do(initServices)
	return cliadapter.NewStationAdapter(yieldService, historyService, catalogService, os.Stdout)
}
