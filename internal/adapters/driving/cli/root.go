// Package cli provides the cobra command tree of the pagelayout binary.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagelayout/internal/core/ports/driving"
	"github.com/custodia-labs/pagelayout/internal/logger"
)

// annotationNoServices marks commands that run without building services.
const annotationNoServices = "pagelayout/no-services"

var (
	version = "dev"

	layoutService   driving.LayoutService
	settingsService driving.SettingsService

	builder Builder
	cleanup func() error

	verbose   bool
	configDir string
	dataDir   string
)

// Options are the global flags passed to a Builder.
type Options struct {
	// ConfigDir overrides the configuration directory.
	ConfigDir string

	// DataDir overrides the storage directory.
	DataDir string
}

// Services are the driving ports the commands call.
type Services struct {
	Layout   driving.LayoutService
	Settings driving.SettingsService
}

// Builder constructs the services for a command invocation.
// The returned function releases them and may be nil.
type Builder func(opts Options) (*Services, func() error, error)

var rootCmd = &cobra.Command{
	Use:   "pagelayout",
	Short: "Reconstruct page layout from decoded documents",
	Long: `pagelayout turns decoded page blocks into per-page titles and paragraph chunks.

It drops headers, footers and boilerplate, groups lines into paragraphs by
geometry and font size, and detects the title of each page. Results can be
printed, stored, watched for and served over MCP.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.pagelayout)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Storage directory (default ~/.pagelayout/data)")
}

// prepare applies global flags and builds services on first use.
func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[annotationNoServices] == "true" {
		return nil
	}
	if layoutService != nil || builder == nil {
		return nil
	}

	svc, release, err := builder(Options{ConfigDir: configDir, DataDir: dataDir})
	if err != nil {
		return err
	}
	layoutService = svc.Layout
	settingsService = svc.Settings
	cleanup = release
	return nil
}

// Execute runs the command tree with the given version and service builder.
func Execute(ctx context.Context, v string, b Builder) error {
	version = v
	builder = b
	defer func() {
		if cleanup == nil {
			return
		}
		if err := cleanup(); err != nil {
			logger.Error("closing services: %v", err)
		}
		cleanup = nil
	}()

	return rootCmd.ExecuteContext(ctx)
}

func requireLayoutService() error {
	if layoutService == nil {
		return errors.New("layout service not configured")
	}
	return nil
}

func requireSettingsService() error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return nil
}
