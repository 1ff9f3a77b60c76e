package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"quilcirq/latex"
	"quilcirq/quil"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRenderCommandStdin(t *testing.T) {
	stdout, _, err := runCLI(t, "H 0\nCNOT 0 1\n", "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want, _ := latex.Render(quil.MustParse("H 0\nCNOT 0 1\n"), latex.DefaultSettings())
	if stdout != want {
		t.Errorf("stdout:\n%s\nwant:\n%s", stdout, want)
	}
}

func TestRenderCommandFlags(t *testing.T) {
	stdout, _, err := runCLI(t, "CPHASE(pi) 0 1", "render", "--texify=false", "-")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, `\phase{\text{pi}}`) {
		t.Errorf("--texify=false not applied:\n%s", stdout)
	}
}

func TestRenderCommandOutputFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bell.quil")
	out := filepath.Join(dir, "out.tex")
	if err := os.WriteFile(src, []byte("H 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runCLI(t, "", "render", src, "-o", out)
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), `\gate{H}`) {
		t.Errorf("output file:\n%s", got)
	}
}

func TestRenderCommandParseError(t *testing.T) {
	color.NoColor = true
	_, stderr, err := runCLI(t, "H\n", "render")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if !strings.Contains(stderr, "<stdin>:1:1: error:") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRenderCommandDuplicateQubit(t *testing.T) {
	color.NoColor = true
	_, stderr, err := runCLI(t, "CNOT 0 0", "render")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if !strings.Contains(stderr, "qubit 0 repeated in CNOT") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRenderCommandImputeSpan(t *testing.T) {
	_, _, err := runCLI(t, "X 0\nX 4000000000\n", "render", "--impute")
	if !errors.Is(err, latex.ErrImputeSpan) {
		t.Errorf("err = %v, want ErrImputeSpan", err)
	}
}

func TestRenderCommandBadConfig(t *testing.T) {
	_, _, err := runCLI(t, "X 0", "render", "--config", filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil || errors.Is(err, errReported) {
		t.Errorf("err = %v, want a plain error", err)
	}
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, filepath.Join(dir, "a.quil"), "X 0\n")

	if _, _, err := runCLI(t, "", "batch", dir, "--no-cache", "-j", "1"); err != nil {
		t.Fatalf("batch: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.tex")); err != nil {
		t.Error(err)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	c, err := openCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	key, _ := newCacheKey("X 0", latex.DefaultSettings())
	if err := c.Put(key, &cacheEntry{Document: "doc"}); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, "", "cache", "clear", "--cache-dir", dir); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Error("entry survived cache clear")
	}
}
