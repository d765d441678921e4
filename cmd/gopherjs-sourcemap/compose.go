package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gopherjs/sourcemap"
)

func newComposeCmd(opts *options) *cobra.Command {
	out := &outputOptions{}
	var watch bool

	cmd := &cobra.Command{
		Use:   "compose <map> <previous map>...",
		Short: "Compose source maps of consecutive build passes",
		Long: `Compose source maps of consecutive build passes into a single map.

The first map is the map of the last pass. Each following map is the map of
the pass before it, so the result maps the final output straight to the
original sources.

Examples:
  gopherjs-sourcemap compose -o app.min.js.map app.min.js.map app.js.map
  gopherjs-sourcemap compose --watch -o out.map min.map bundle.map`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &composer{loader: newLoader(opts), out: out, paths: args}
			if !watch {
				return c.run(cmd.Context(), cmd.OutOrStdout())
			}
			return c.watch(cmd.Context(), cmd.OutOrStdout())
		},
	}
	out.register(cmd.Flags())
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "compose again whenever an input map changes")
	return cmd
}

type composer struct {
	loader *loader
	out    *outputOptions
	paths  []string
}

// compose loads all maps and folds them into the first one.
func (c *composer) compose(ctx context.Context) (*sourcemap.SourceMap, error) {
	maps, err := c.loader.loadAll(ctx, c.paths)
	if err != nil {
		return nil, err
	}
	result := maps[0]
	for i, previous := range maps[1:] {
		if err := result.Extends(previous); err != nil {
			return nil, fmt.Errorf("failed to extend with %s: %w", c.paths[i+1], err)
		}
	}
	return result, nil
}

func (c *composer) run(ctx context.Context, w io.Writer) error {
	result, err := c.compose(ctx)
	if err != nil {
		return err
	}
	return c.out.writeMap(result, w)
}

// watch composes the maps and does it again after every change to one of the
// inputs, until the context is cancelled. Errors of individual runs are
// logged, not returned.
func (c *composer) watch(ctx context.Context, w io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Directories are watched rather than files, so that inputs replaced by
	// a rename keep being observed.
	watched := map[string]bool{}
	inputs := map[string]bool{}
	for _, path := range c.paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		inputs[abs] = true
		if dir := filepath.Dir(abs); !watched[dir] {
			if err := watcher.Add(dir); err != nil {
				return err
			}
			watched[dir] = true
		}
	}

	for {
		if err := c.run(ctx, w); err != nil {
			log.Warningf("Failed to compose source maps: %v", err)
		} else {
			log.Infof("Composed %d source maps.", len(c.paths))
		}
		log.Infof("Watching for changes...")
		if err := waitForChange(ctx, watcher, inputs); err != nil {
			return err
		}
	}
}

// waitForChange blocks until one of the inputs is written, created or renamed.
// Returns nil on a change and an error if the context is cancelled or the
// watcher fails.
func waitForChange(ctx context.Context, watcher *fsnotify.Watcher, inputs map[string]bool) error {
	const interesting = fsnotify.Write | fsnotify.Create | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if inputs[filepath.Clean(ev.Name)] && ev.Op&interesting != 0 {
				log.Infof("Change detected: %s", ev.Name)
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}
