package dropbox_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"midrender/internal/descriptor"
	"midrender/internal/dropbox"
)

func testDescriptor(ts int64) descriptor.Descriptor {
	return descriptor.Descriptor{
		Version:         descriptor.Version,
		TemplateID:      "cinema4d-2026-plugin",
		JobName:         "city",
		SubmittedByHost: "ws42",
		SubmittedAtMS:   ts,
		Overrides: map[string]string{
			descriptor.OverrideSceneFile:  "/projects/city.c4d",
			descriptor.OverrideOutputPath: "/renders/city",
		},
		FrameStart: 0,
		FrameEnd:   90,
		ChunkSize:  10,
		Priority:   50,
	}
}

func TestWritePlacesCompleteDescriptor(t *testing.T) {
	dir := t.TempDir()
	desc := testDescriptor(1724980000123)

	path, err := dropbox.Write(desc, dir)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "1724980000123.ws42.json" {
		t.Fatalf("final name: got %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var decoded descriptor.Descriptor
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.JobName != desc.JobName || decoded.SubmittedAtMS != desc.SubmittedAtMS {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), dropbox.TempSuffix) {
			t.Fatalf("temp file left after successful write: %s", entry.Name())
		}
	}
}

func TestWriteRejectsInvalidDescriptorWithoutTouchingDisk(t *testing.T) {
	dir := t.TempDir()
	desc := testDescriptor(1724980000123)
	desc.FrameStart = 10
	desc.FrameEnd = 1

	if _, err := dropbox.Write(desc, dir); err == nil {
		t.Fatal("expected validation error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dropbox, found %d entries", len(entries))
	}
}

func TestWriteFailsWhenDirectoryMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	if _, err := dropbox.Write(testDescriptor(1), missing); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestEnsureDirIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "submissions")
	if err := dropbox.EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := dropbox.EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir second call: %v", err)
	}
}
