package cli

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagelayout/internal/core/services"
	"github.com/custodia-labs/pagelayout/internal/logger"
	"github.com/custodia-labs/pagelayout/internal/watcher"
)

func TestWatchCmd_Flags(t *testing.T) {
	assert.Equal(t, "watch [dir]", watchCmd.Use)
	for _, name := range []string{"initial", "rate", "burst"} {
		assert.NotNil(t, watchCmd.Flags().Lookup(name), name)
	}
}

func TestWatchCmd_MissingDirectory(t *testing.T) {
	setupTestServices(t)

	_, err := runCommand(t, "watch", "/does/not/exist")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}

func TestHandleChange_CreatedStoresLayout(t *testing.T) {
	svc := setupTestServices(t)
	path := writeFile(t, "manual.json", manualDump)
	out := new(bytes.Buffer)

	handleChange(context.Background(), out, svc.layout, watcher.Change{Type: watcher.ChangeCreated, Path: path})

	assert.Equal(t, "created "+path+": 1 pages, 2 chunks\n", out.String())
	stored, err := svc.store.Get(context.Background(), services.LayoutID(path))
	require.NoError(t, err)
	assert.Equal(t, path, stored.URI)
}

func TestHandleChange_UpdatedReplacesLayout(t *testing.T) {
	svc := setupTestServices(t)
	path := writeFile(t, "manual.json", manualDump)
	ctx := context.Background()

	handleChange(ctx, new(bytes.Buffer), svc.layout, watcher.Change{Type: watcher.ChangeCreated, Path: path})
	handleChange(ctx, new(bytes.Buffer), svc.layout, watcher.Change{Type: watcher.ChangeUpdated, Path: path})

	layouts, err := svc.store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, layouts, 1)
}

func TestHandleChange_DeletedRemovesLayout(t *testing.T) {
	svc := setupTestServices(t)
	path := writeFile(t, "manual.json", manualDump)
	ctx := context.Background()
	handleChange(ctx, new(bytes.Buffer), svc.layout, watcher.Change{Type: watcher.ChangeCreated, Path: path})

	out := new(bytes.Buffer)
	handleChange(ctx, out, svc.layout, watcher.Change{Type: watcher.ChangeDeleted, Path: path})

	assert.Equal(t, "deleted "+path+"\n", out.String())
	layouts, err := svc.store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, layouts)
}

func TestHandleChange_DeletedUnknownIsQuiet(t *testing.T) {
	svc := setupTestServices(t)
	out := new(bytes.Buffer)

	handleChange(context.Background(), out, svc.layout, watcher.Change{Type: watcher.ChangeDeleted, Path: "/never/stored.json"})

	assert.Empty(t, out.String())
}

func TestHandleChange_LogsExtractionErrors(t *testing.T) {
	svc := setupTestServices(t)
	path := writeFile(t, "broken.json", "{not json")

	logs := new(bytes.Buffer)
	logger.SetOutput(logs)
	defer logger.SetOutput(os.Stderr)

	out := new(bytes.Buffer)
	handleChange(context.Background(), out, svc.layout, watcher.Change{Type: watcher.ChangeCreated, Path: path})

	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "extract "+path)
	layouts, err := svc.store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, layouts)
}
