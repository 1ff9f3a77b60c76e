package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"quilcirq/latex"
	"quilcirq/quil"
)

func quietContext() context.Context {
	return withLogger(context.Background(), newLogger(io.Discard, log.InfoLevel))
}

func writeSource(t *testing.T, path, src string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	sources := map[string]string{
		filepath.Join(dir, "a.quil"):        "H 0\nCNOT 0 1\n",
		filepath.Join(dir, "sub", "b.quil"): "PHASE(pi/2) 3\n",
	}
	for path, src := range sources {
		writeSource(t, path, src)
	}
	writeSource(t, filepath.Join(dir, "notes.txt"), "not quil")

	opts := batchOpts{jobs: 2, cacheDir: t.TempDir(), settings: latex.DefaultSettings()}

	results, err := runBatch(quietContext(), dir, opts)
	if err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Cached {
			t.Errorf("%s: cached on first run", r.Path)
		}
		want, err := latex.Render(quil.MustParse(sources[r.Path]), opts.settings)
		if err != nil {
			t.Fatal(err)
		}
		got, err := os.ReadFile(r.Output)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != want {
			t.Errorf("%s:\n%s\nwant:\n%s", r.Output, got, want)
		}
	}

	results, err = runBatch(quietContext(), dir, opts)
	if err != nil {
		t.Fatalf("second runBatch: %v", err)
	}
	for _, r := range results {
		if !r.Cached {
			t.Errorf("%s: not cached on second run", r.Path)
		}
	}
}

func TestRunBatchNoCache(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, filepath.Join(dir, "a.quil"), "X 0\n")
	opts := batchOpts{jobs: 1, noCache: true, settings: latex.DefaultSettings()}

	for range 2 {
		results, err := runBatch(quietContext(), dir, opts)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 1 || results[0].Cached {
			t.Errorf("results = %+v, want one uncached", results)
		}
	}
}

func TestRunBatchErrors(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, filepath.Join(dir, "good.quil"), "X 0\n")
	writeSource(t, filepath.Join(dir, "bad.quil"), "CNOT 0 )\n")

	opts := batchOpts{jobs: 2, cacheDir: t.TempDir(), settings: latex.DefaultSettings()}
	if _, err := runBatch(quietContext(), dir, opts); err == nil {
		t.Error("expected an error for bad.quil")
	}
}

func TestRunBatchEmpty(t *testing.T) {
	results, err := runBatch(quietContext(), t.TempDir(), batchOpts{noCache: true})
	if err != nil || results != nil {
		t.Errorf("got %v, %v; want nil, nil", results, err)
	}
}

func TestRenderFileCorruptCacheEntry(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.quil")
	writeSource(t, src, "X 0\n")

	cache, err := openCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	settings := latex.DefaultSettings()
	key, err := newCacheKey("X 0\n", settings)
	if err != nil {
		t.Fatal(err)
	}
	writeSource(t, cache.pathFor(key), "not msgpack")

	var buf bytes.Buffer
	res, err := renderFile(newLogger(&buf, log.InfoLevel), src, settings, cache)
	if err != nil {
		t.Fatalf("renderFile: %v", err)
	}
	if res.Cached {
		t.Error("corrupt entry reported as a cache hit")
	}
	if !strings.Contains(buf.String(), "Ignoring cache entry") {
		t.Errorf("no warning logged: %q", buf.String())
	}

	want, _ := latex.Render(quil.MustParse("X 0\n"), settings)
	if got, err := os.ReadFile(res.Output); err != nil || string(got) != want {
		t.Errorf("output = %q, %v", got, err)
	}
	if e, ok, err := cache.Get(key); err != nil || !ok || e.Document != want {
		t.Errorf("entry not rewritten: ok=%v err=%v", ok, err)
	}
}

func TestTexPath(t *testing.T) {
	if got := texPath(filepath.Join("a", "bell.quil")); got != filepath.Join("a", "bell.tex") {
		t.Errorf("texPath = %q", got)
	}
}
