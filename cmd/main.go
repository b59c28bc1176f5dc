package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ai-news-intel/internal/core"
	"ai-news-intel/internal/features/news"
	"ai-news-intel/internal/server"
)

func main() {
	refreshNow := flag.Bool("refresh-now", false, "run one refresh and exit")
	reparse := flag.Bool("reparse", false, "re-run analysis over stored articles and exit")
	flag.Parse()

	// Load .env file if it exists
	godotenv.Load()

	logger := core.NewLogger()

	srv, err := server.New(logger)
	if err != nil {
		logger.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	if *refreshNow || *reparse {
		runMaintenance(srv, logger, *refreshNow, *reparse)
		return
	}

	go func() {
		if err := srv.Start(context.Background()); err != nil {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "error", err)
		os.Exit(1)
	}
}

// runMaintenance executes the one-shot CLI commands against an initialized
// feature graph, then exits.
func runMaintenance(srv *server.Server, logger *core.Logger, refreshNow, reparse bool) {
	ctx := context.Background()

	if err := srv.Init(ctx); err != nil {
		logger.Error("Failed to initialize features", "error", err)
		os.Exit(1)
	}
	defer srv.Shutdown(ctx)

	feature, ok := srv.Registry().Get("news")
	if !ok {
		logger.Error("News feature is not registered")
		os.Exit(1)
	}
	newsFeature, ok := feature.(*news.Feature)
	if !ok {
		logger.Error("Unexpected news feature type")
		os.Exit(1)
	}

	if reparse {
		count, err := newsFeature.Reparse(ctx)
		if err != nil {
			logger.Error("Reparse failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Reparse complete", "articles", count)
	}

	if refreshNow {
		report := newsFeature.RunRefresh(ctx)
		logger.Info("Refresh complete",
			"articles", report.ArticlesTotal,
			"urls_validated", report.URLsValidated,
			"errors", len(report.Errors),
			"success", report.Success)
	}
}
