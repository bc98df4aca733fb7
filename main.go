package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"growth-hub/config"
	"growth-hub/models"
	"growth-hub/scraper"
	"growth-hub/scraper/marketplace"
	"growth-hub/scraper/social"
	"growth-hub/server"
	"growth-hub/services"
	"growth-hub/storage"
	"growth-hub/utils"
)

const usage = `usage: growth-hub [analyze|serve]

  analyze  run one analysis for BUSINESS_NAME / BUSINESS_DESCRIPTION / BUSINESS_INDUSTRY and print the report
  serve    run the HTTP API on HTTP_ADDR, re-analyzing on ANALYSIS_SCHEDULE when set`

func main() {
	cfg := config.Load()
	logger := utils.NewLoggerWithLevel(utils.ParseLevel(cfg.LogLevel))

	cmd := "analyze"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {
	case "analyze":
		err = runAnalyze(ctx, cfg, logger)
	case "serve":
		err = runServe(ctx, cfg, logger)
	case "-h", "--help", "help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func runAnalyze(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	if cfg.BusinessName == "" {
		return errors.New("BUSINESS_NAME is required for analyze")
	}

	logger.Info("=== Growth Hub analysis starting ===")
	logger.Info("Config | platforms: %v | queries/platform: %d | listings/query: %d | concurrency: %d | rate: %dms | mode: %s",
		cfg.Platforms, cfg.QueriesPerPlatform, cfg.ListingsPerQuery, cfg.MaxConcurrency, cfg.RateLimitMs, cfg.ScraperMode)

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV writer: %w", err)
	}
	defer csvWriter.Close()

	store, err := storage.NewPostgresStore(cfg.DSN())
	if err != nil {
		logger.Error("Make sure Docker is running: docker compose up -d")
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer store.Close()

	collector, closeCollector := buildCollector(cfg, logger)
	defer closeCollector()

	business := models.Business{
		Name:        cfg.BusinessName,
		Description: cfg.BusinessDescription,
		Industry:    cfg.BusinessIndustry,
	}
	if err := store.CreateBusiness(ctx, &business); err != nil {
		return err
	}

	svc := services.NewAnalysisService(collector, store, csvWriter, logger, analysisOptions(cfg))
	defer svc.Close()

	result, err := svc.Run(ctx, business)
	if result != nil {
		services.PrintReport(os.Stdout, result)
	}
	if err != nil {
		return err
	}

	fmt.Printf("  Done. Raw CSV → %s | Results → PostgreSQL (business %d)\n\n", cfg.CSVOutputPath, business.ID)
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV writer: %w", err)
	}
	defer csvWriter.Close()

	store, err := storage.NewPostgresStore(cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer store.Close()

	collector, closeCollector := buildCollector(cfg, logger)
	defer closeCollector()

	svc := services.NewAnalysisService(collector, store, csvWriter, logger, analysisOptions(cfg))
	defer svc.Close()

	if cfg.AnalysisSchedule != "" {
		sched, err := services.NewScheduler(cfg.AnalysisSchedule, store, svc, logger)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		logger.Info("Re-analysis scheduled: %s", cfg.AnalysisSchedule)
	}

	srv := server.New(cfg.HTTPAddr, store, svc, logger)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("API listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildCollector routes marketplaces to the scraper and social platforms to
// the simulator, which also stands in for Flipkart when scraping comes back
// empty.
func buildCollector(cfg *config.Config, logger *utils.Logger) (scraper.Collector, func()) {
	interval := time.Duration(cfg.RateLimitMs) * time.Millisecond

	var fetcher marketplace.Fetcher
	closeFn := func() {}
	if cfg.ScraperMode == config.ScraperModeBrowser {
		bf := marketplace.NewBrowserFetcher(cfg.ChromeBin, logger)
		fetcher = bf
		closeFn = func() { _ = bf.Close() }
	} else {
		fetcher = marketplace.NewHTTPFetcher(interval)
	}

	shops := marketplace.New(fetcher, cfg.ListingsPerQuery, cfg.MaxRetries, logger)
	sim := social.NewSimulator(cfg.SimulationSeed, cfg.ListingsPerQuery)

	router := scraper.NewRouter(logger).
		Handle(shops, models.Amazon, models.Flipkart).
		Handle(sim, models.Instagram, models.YouTube, models.Facebook).
		Fallback(models.Flipkart, sim)
	return router, closeFn
}

func analysisOptions(cfg *config.Config) services.AnalysisOptions {
	return services.AnalysisOptions{
		Platforms:          cfg.Platforms,
		QueriesPerPlatform: cfg.QueriesPerPlatform,
		MaxConcurrency:     cfg.MaxConcurrency,
		Interval:           time.Duration(cfg.RateLimitMs) * time.Millisecond,
	}
}
