package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"quilcirq/latex"
	"quilcirq/quil"
)

const quilExt = ".quil"

type batchOpts struct {
	jobs     int
	noCache  bool
	cacheDir string
	settings latex.Settings
}

// batchResult is the outcome for one source file.
type batchResult struct {
	Path   string
	Output string
	Cached bool
}

// listQuilFiles returns every *.quil file under dir, sorted.
func listQuilFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), quilExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// texPath is the sibling output file for a source path.
func texPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".tex"
}

// runBatch renders every Quil file under dir to a sibling .tex file using up
// to opts.jobs goroutines. The first failure cancels the remaining work.
func runBatch(ctx context.Context, dir string, opts batchOpts) ([]batchResult, error) {
	logger := loggerFromContext(ctx).With("run", uuid.NewString())
	prog := newProgress(logger)

	files, err := listQuilFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Warn("No Quil files found", "dir", dir)
		return nil, nil
	}

	var cache *renderCache
	if !opts.noCache {
		if cache, err = openCache(opts.cacheDir); err != nil {
			logger.Warn("Cache disabled", "err", err)
			cache = nil
		}
	}

	jobs := opts.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine owns its index in results.
	results := make([]batchResult, len(files))
	var hits atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := renderFile(logger, path, opts.settings, cache)
			if err != nil {
				return err
			}
			if res.Cached {
				hits.Add(1)
			}
			logger.Debug("Rendered", "file", path, "cached", res.Cached)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	prog.done(fmt.Sprintf("Rendered %d files", len(files)), "cached", hits.Load(), "jobs", jobs)
	return results, nil
}

// renderFile renders one source file, consulting the cache first. An
// unreadable cache entry is logged and the file is rendered again.
func renderFile(logger *log.Logger, path string, s latex.Settings, cache *renderCache) (batchResult, error) {
	res := batchResult{Path: path, Output: texPath(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		return res, err
	}
	src := string(data)

	key, err := newCacheKey(src, s)
	if err != nil {
		return res, err
	}

	doc := ""
	switch e, ok, err := cache.Get(key); {
	case err != nil:
		logger.Warn("Ignoring cache entry", "file", path, "key", key, "err", err)
	case ok:
		doc = e.Document
		res.Cached = true
	}

	if !res.Cached {
		p, err := quil.Parse(src)
		if err != nil {
			return res, fmt.Errorf("%s: %w", path, err)
		}
		d, err := latex.Build(p, s)
		if err != nil {
			return res, fmt.Errorf("%s: %w", path, err)
		}
		doc = latex.NewDocument(d.String()).String()

		entry := &cacheEntry{Document: doc, Qubits: len(d.Qubits()), Columns: d.Columns(), Created: time.Now()}
		if err := cache.Put(key, entry); err != nil {
			return res, fmt.Errorf("cache %s: %w", path, err)
		}
	}

	if err := os.WriteFile(res.Output, []byte(doc), 0o644); err != nil {
		return res, err
	}
	return res, nil
}
