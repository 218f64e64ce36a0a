package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTakesListsHierarchy(t *testing.T) {
	base := t.TempDir()
	manifestPath := filepath.Join(base, "midrender.toml")
	manifest := `schema = 1

[document]
path = "shot020.c4d"

[render]
frame_start = 1
frame_end = 10
output_path = "out/shot020"

[take]
name = "Main"
current = false

[[take.children]]
name = "NearCam"
current = true
`
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	out, _, err := runCLI(t, []string{"takes", manifestPath}, "")
	if err != nil {
		t.Fatalf("takes: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "  Main" {
		t.Fatalf("line 0 = %q", lines[0])
	}
	if lines[1] != "*   NearCam" {
		t.Fatalf("line 1 = %q", lines[1])
	}
}

func TestTakesWithoutTakes(t *testing.T) {
	base := t.TempDir()
	manifestPath := filepath.Join(base, "midrender.toml")
	manifest := `schema = 1

[document]
path = "plain.blend"

[render]
frame_start = 1
frame_end = 10
output_path = "out/plain"
`
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	out, _, err := runCLI(t, []string{"takes", manifestPath}, "")
	if err != nil {
		t.Fatalf("takes: %v", err)
	}
	requireContains(t, out, "No takes defined.")
}
