package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagelayout/internal/core/ports/driving"
	"github.com/custodia-labs/pagelayout/internal/logger"
	"github.com/custodia-labs/pagelayout/internal/watcher"
)

var (
	watchInitial bool
	watchRate    float64
	watchBurst   int
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Extract and store files as they change",
	Long: `Watch a directory tree and store the layout of every supported file
that is created or modified. Layouts of deleted files are removed.

Events are throttled with --rate so that bulk copies do not saturate the
machine. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchInitial, "initial", false, "Process existing files before watching")
	watchCmd.Flags().Float64Var(&watchRate, "rate", 5, "Maximum files processed per second (0 = unlimited)")
	watchCmd.Flags().IntVar(&watchBurst, "burst", 5, "Files processed without waiting after an idle period")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireLayoutService(); err != nil {
		return err
	}

	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}

	w := watcher.New(root,
		watcher.WithExtensions(layoutService.SupportedExtensions()),
		watcher.WithRate(watchRate, watchBurst),
	)
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	changes, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	out := cmd.OutOrStdout()
	if watchInitial {
		files, err := w.Existing()
		if err != nil {
			return err
		}
		for _, path := range files {
			handleChange(ctx, out, layoutService, watcher.Change{Type: watcher.ChangeCreated, Path: path})
		}
	}

	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", root)
	for change := range changes {
		handleChange(ctx, out, layoutService, change)
	}
	return nil
}

// handleChange applies one file change to the store. Failures are logged
// so that one bad file does not stop the watch.
func handleChange(ctx context.Context, out io.Writer, svc driving.LayoutService, change watcher.Change) {
	switch change.Type {
	case watcher.ChangeCreated, watcher.ChangeUpdated:
		result, err := svc.ExtractFile(ctx, change.Path, driving.ExtractOptions{Save: true})
		if err != nil {
			logger.Error("extract %s: %v", change.Path, err)
			return
		}
		fmt.Fprintf(out, "%s %s: %d pages, %d chunks\n",
			change.Type, change.Path, len(result.Layout.Pages), result.Layout.ChunkCount())

	case watcher.ChangeDeleted:
		removed, err := removeByURI(ctx, svc, change.Path)
		if err != nil {
			logger.Error("remove %s: %v", change.Path, err)
			return
		}
		if removed > 0 {
			fmt.Fprintf(out, "deleted %s\n", change.Path)
		}
	}
}

// removeByURI deletes every stored layout extracted from uri.
func removeByURI(ctx context.Context, svc driving.LayoutService, uri string) (int, error) {
	layouts, err := svc.List(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for i := range layouts {
		if layouts[i].URI != uri {
			continue
		}
		if err := svc.Delete(ctx, layouts[i].ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
