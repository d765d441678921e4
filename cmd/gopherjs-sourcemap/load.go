package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gopherjs/sourcemap"
	"github.com/gopherjs/sourcemap/cache"
	"github.com/gopherjs/sourcemap/format"
	"github.com/gopherjs/sourcemap/internal/errorList"
)

// maxParallelLoads limits the number of maps decoded at the same time.
const maxParallelLoads = 8

// loader reads JSON source maps from disk, going through the map cache when
// it's enabled.
type loader struct {
	projectRoot string
	cache       *cache.MapCache
	maxErrors   int
}

func newLoader(opts *options) *loader {
	l := &loader{projectRoot: opts.projectRoot, maxErrors: opts.maxErrors}
	if opts.cache {
		l.cache = &cache.MapCache{Version: sourcemap.LibraryVersion}
	}
	return l
}

// load decodes a single source map file.
func (l *loader) load(path string) (*sourcemap.SourceMap, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	key := abs + "@" + l.projectRoot

	sm := sourcemap.New(l.projectRoot)
	if l.cache.Load(sm, key, info.ModTime()) {
		return sm, nil
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := l.decode(sm, f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.cache.Store(sm, key, info.ModTime())
	return sm, nil
}

func (l *loader) decode(sm *sourcemap.SourceMap, r io.Reader) error {
	m, err := format.ReadFrom(r)
	if err != nil {
		return err
	}
	return sm.AddVLQMap(m, 0, 0)
}

// loadAll decodes several source map files concurrently. Errors for all
// failed files are reported together, trimmed to maxErrors.
func (l *loader) loadAll(ctx context.Context, paths []string) ([]*sourcemap.SourceMap, error) {
	maps := make([]*sourcemap.SourceMap, len(paths))
	errs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			maps[i], errs[i] = l.load(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var list errorList.ErrorList
	for _, err := range errs {
		list = list.Append(err)
	}
	if err := list.Trim(l.maxErrors).ErrOrNil(); err != nil {
		return nil, err
	}
	log.Infof("Loaded %d source maps.", len(maps))
	return maps, nil
}
