package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagelayout/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagelayout/internal/core/domain"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driven"
	"github.com/custodia-labs/pagelayout/internal/core/services"
	"github.com/custodia-labs/pagelayout/internal/decoders"
	"github.com/custodia-labs/pagelayout/internal/postprocessors"
)

// manualDump is a one-page PyMuPDF dump: a title, a two-line paragraph,
// a separate paragraph and a footer page number.
const manualDump = `[{
  "width": 600, "height": 1000,
  "blocks": [
    {"type": 0, "bbox": [50, 100, 400, 130], "lines": [{"spans": [{"text": "Engine Oil", "size": 24}]}]},
    {"type": 0, "bbox": [50, 200, 500, 212], "lines": [{"spans": [{"text": "Use only approved oil.", "size": 12}]}]},
    {"type": 0, "bbox": [50, 214, 500, 226], "lines": [{"spans": [{"text": "Check the level weekly.", "size": 12}]}]},
    {"type": 0, "bbox": [50, 300, 500, 312], "lines": [{"spans": [{"text": "Dispose of used oil safely.", "size": 12}]}]},
    {"type": 0, "bbox": [290, 960, 310, 975], "lines": [{"spans": [{"text": "12", "size": 9}]}]}
  ]
}]`

type testServices struct {
	layout   *services.LayoutService
	settings *services.SettingsService
	store    *memory.LayoutStore
}

// setupTestServices installs memory-backed services for the duration of the test.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	store := memory.NewLayoutStore()
	settings := services.NewSettingsService(memory.NewConfigStore())
	pipelines := func(s domain.RecordSettings) (driven.PostProcessorPipeline, error) {
		return postprocessors.NewDefaultPipeline(s)
	}
	layout := services.NewLayoutService(decoders.NewDefaultRegistry(), settings, pipelines, store)

	origLayout, origSettings := layoutService, settingsService
	layoutService, settingsService = layout, settings
	t.Cleanup(func() {
		layoutService, settingsService = origLayout, origSettings
	})

	return &testServices{layout: layout, settings: settings, store: store}
}

// clearServices removes the services for the duration of the test.
func clearServices(t *testing.T) {
	t.Helper()
	origLayout, origSettings := layoutService, settingsService
	layoutService, settingsService = nil, nil
	t.Cleanup(func() {
		layoutService, settingsService = origLayout, origSettings
	})
}

// runCommand executes the root command and returns its combined output.
// Flag variables are restored afterwards since cobra keeps them between runs.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		extractOutput = outputText
		extractSave = false
		extractDecoder = ""
		documentOutput = outputText
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}
