// Command pagelayout reconstructs page titles and paragraphs from decoded documents.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/pagelayout/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pagelayout/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pagelayout/internal/adapters/driving/cli"
	"github.com/custodia-labs/pagelayout/internal/core/domain"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driven"
	"github.com/custodia-labs/pagelayout/internal/core/services"
	"github.com/custodia-labs/pagelayout/internal/decoders"
	"github.com/custodia-labs/pagelayout/internal/postprocessors"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Execute(context.Background(), version, build); err != nil {
		os.Exit(1)
	}
}

// build wires the driven adapters into the services.
func build(opts cli.Options) (*cli.Services, func() error, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = settings.Storage.DataDir
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	layoutService := services.NewLayoutService(
		decoders.NewDefaultRegistry(),
		settingsService,
		buildPipeline,
		store.LayoutStore(),
	)

	return &cli.Services{
		Layout:   layoutService,
		Settings: settingsService,
	}, store.Close, nil
}

func buildPipeline(settings domain.RecordSettings) (driven.PostProcessorPipeline, error) {
	p, err := postprocessors.NewDefaultPipeline(settings)
	if err != nil {
		return nil, err
	}
	return p, nil
}
