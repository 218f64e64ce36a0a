package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"midrender/internal/config"
	"midrender/internal/farm"
)

type cliTestEnv struct {
	baseDir      string
	configPath   string
	configDir    string
	syncRoot     string
	farmRoot     string
	manifestPath string
	documentPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configDir := filepath.Join(base, "midrender-state")
	syncRoot := filepath.Join(base, "sync")
	farmRoot := filepath.Join(syncRoot, farm.RootName("MidRender", 1))
	for _, dir := range []string{configDir, farmRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	shared := fmt.Sprintf("{\"sync_root\": %q}\n", syncRoot)
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(shared), 0o644); err != nil {
		t.Fatalf("write shared config: %v", err)
	}

	documentPath := filepath.Join(base, "shot010.c4d")
	if err := os.WriteFile(documentPath, []byte("doc"), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	manifestPath := filepath.Join(base, "midrender.toml")
	manifest := fmt.Sprintf(`schema = 1

[document]
path = %q

[render]
frame_start = 1
frame_end = 48
output_path = "renders/shot010"
format = "EXR"
`, documentPath)
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	cfg := config.Default()
	cfg.Farm.ConfigDir = configDir
	cfg.History.Enabled = false
	cfg.Logging.Level = "error"

	configPath := filepath.Join(homeDir, ".config", "midrender", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		baseDir:      base,
		configPath:   configPath,
		configDir:    configDir,
		syncRoot:     syncRoot,
		farmRoot:     farmRoot,
		manifestPath: manifestPath,
		documentPath: documentPath,
	}
}

func writeTestConfig(t *testing.T, path string, cfg config.Config) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}
