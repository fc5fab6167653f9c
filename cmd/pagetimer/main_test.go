package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jkirker/Page-Exec-Timer/internal/config"
	"github.com/jkirker/Page-Exec-Timer/internal/domcount"
)

// captureStdout redirects os.Stdout around fn so command output can be
// inspected.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()

	_ = w.Close()
	os.Stdout = old

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read captured output: %v", err)
	}
	return string(out), runErr
}

func TestRunInitCreatesLoadableConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "pagetimer.yaml")

	if _, err := captureStdout(t, func() error { return runInit(configPath, false) }); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.Content.Dir == "" {
		t.Error("expected a content directory in the generated config")
	}
}

func TestRunInitRefusesOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "pagetimer.yaml")

	if _, err := captureStdout(t, func() error { return runInit(configPath, false) }); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := captureStdout(t, func() error { return runInit(configPath, false) }); err == nil {
		t.Error("expected an error when the config already exists")
	}
	if _, err := captureStdout(t, func() error { return runInit(configPath, true) }); err != nil {
		t.Errorf("force overwrite failed: %v", err)
	}
}

func TestRunDomCountText(t *testing.T) {
	page := filepath.Join(t.TempDir(), "page.html")
	html := "<html><head><title>x</title></head><body><p>one</p><p>two</p></body></html>"
	if err := os.WriteFile(page, []byte(html), 0o644); err != nil {
		t.Fatalf("failed to write page: %v", err)
	}

	out, err := captureStdout(t, func() error { return runDomCount(page, domcount.DefaultCeiling, false) })
	if err != nil {
		t.Fatalf("domcount failed: %v", err)
	}
	if !strings.Contains(out, "elements:") || !strings.Contains(out, "all nodes:") {
		t.Errorf("unexpected output: %q", out)
	}
	if strings.Contains(out, "truncated") {
		t.Errorf("small page should not truncate: %q", out)
	}
}

func TestRunDomCountJSON(t *testing.T) {
	page := filepath.Join(t.TempDir(), "page.html")
	html := "<html><body><div><span>a</span></div></body></html>"
	if err := os.WriteFile(page, []byte(html), 0o644); err != nil {
		t.Fatalf("failed to write page: %v", err)
	}

	out, err := captureStdout(t, func() error { return runDomCount(page, domcount.DefaultCeiling, true) })
	if err != nil {
		t.Fatalf("domcount failed: %v", err)
	}

	var result domcount.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if result.Elements < 4 {
		t.Errorf("expected at least 4 elements, got %d", result.Elements)
	}
	if result.AllNodes < result.Elements {
		t.Errorf("all nodes (%d) cannot be below elements (%d)", result.AllNodes, result.Elements)
	}
}

func TestRunDomCountMissingFile(t *testing.T) {
	err := runDomCount(filepath.Join(t.TempDir(), "missing.html"), domcount.DefaultCeiling, false)
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestRunServeMissingConfig(t *testing.T) {
	if err := runServe(filepath.Join(t.TempDir(), "absent.yaml"), "", ""); err == nil {
		t.Fatal("expected an error for a missing configuration file")
	}
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadConfig(defaultConfigFile)
	if err != nil {
		t.Fatalf("expected built-in defaults, got error: %v", err)
	}
	if cfg.Server.Port != config.DefaultPort {
		t.Errorf("expected default port %d, got %d", config.DefaultPort, cfg.Server.Port)
	}
	if cfg.Content.Dir != config.DefaultContentDir {
		t.Errorf("expected default content dir, got %q", cfg.Content.Dir)
	}
}
