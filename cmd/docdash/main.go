// Command docdash indexes local documents and searches them as you type.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docdash/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docdash/internal/adapters/driven/embedding/charfreq"
	"github.com/custodia-labs/docdash/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docdash/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docdash/internal/adapters/driving/cli"
	"github.com/custodia-labs/docdash/internal/connectors/filesystem"
	"github.com/custodia-labs/docdash/internal/core/ports/driven"
	"github.com/custodia-labs/docdash/internal/core/services"
	"github.com/custodia-labs/docdash/internal/logger"
	"github.com/custodia-labs/docdash/internal/normalisers"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run wires the services and executes the command line. Cobra reports
// command errors itself, so only setup failures are printed here.
func run() error {
	// A missing .env is fine; DOCDASH_* may come from the real environment.
	_ = godotenv.Load()

	ctx := context.Background()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return setupFailed("opening config", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return setupFailed("loading settings", err)
	}

	var history driven.HistoryStore
	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("History will not be persisted: %v", err)
		history = memory.NewHistoryStore()
	} else {
		defer store.Close()
		history = store.HistoryStore()
	}

	index := memory.NewDocumentIndex(settings.Index.Dimensions)
	vectorizer := charfreq.New(settings.Index.Dimensions)
	documentService := services.NewDocumentService(index, vectorizer, normalisers.Defaults())
	searchService := services.NewSearchService(index, vectorizer, services.SearchConfigFromSettings(settings))
	session := services.NewSearchOrchestrator(ctx, searchService, history,
		services.OrchestratorConfigFromSettings(settings))

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Document:     documentService,
		Session:      session,
		ResultAction: services.NewResultActionService(index),
		Settings:     settingsService,
		Indexer:      filesystem.NewIndexer(documentService),
	})
	return cli.Execute()
}

func setupFailed(step string, err error) error {
	err = fmt.Errorf("%s: %w", step, err)
	fmt.Fprintln(os.Stderr, "Error:", err)
	return err
}
