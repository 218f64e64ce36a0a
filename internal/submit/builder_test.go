package submit_test

import (
	"errors"
	"testing"
	"time"

	"midrender/internal/descriptor"
	"midrender/internal/overrides"
	"midrender/internal/scene"
	"midrender/internal/submit"
)

func batchOptions(ts int64) submit.BatchOptions {
	return submit.BatchOptions{
		TemplateID: "blender-5.0-plugin",
		ChunkSize:  10,
		Priority:   50,
		Host:       "ws01",
		Now:        func() time.Time { return time.UnixMilli(ts) },
	}
}

func docState() scene.State {
	return scene.State{
		DocumentPath: "/shots/seq010/shot_020.blend",
		FrameStart:   1,
		FrameEnd:     100,
		OutputPath:   "/renders/shot_020",
	}
}

func TestBuildBatchSingleImplicitUnit(t *testing.T) {
	units := []scene.Unit{{Kind: scene.UnitScene, Default: true, FrameStart: 1, FrameEnd: 100, OutputPath: "/renders/shot_020"}}

	descs, err := submit.BuildBatch(docState(), units, overrides.Values{}, batchOptions(1724980000123))
	if err != nil {
		t.Fatalf("BuildBatch: %v", err)
	}
	if len(descs) != 1 {
		t.Fatalf("descriptors: got %d want 1", len(descs))
	}
	d := descs[0]
	if d.Version != 1 {
		t.Fatalf("_version: got %d", d.Version)
	}
	if d.JobName != "shot_020" {
		t.Fatalf("job name: got %q", d.JobName)
	}
	if d.FrameStart != 1 || d.FrameEnd != 100 || d.ChunkSize != 10 || d.Priority != 50 {
		t.Fatalf("fields: %+v", d)
	}
	if len(d.Overrides) != 2 {
		t.Fatalf("overrides: got %v, want exactly scene_file and output_path", d.Overrides)
	}
	if d.Overrides[descriptor.OverrideSceneFile] != "/shots/seq010/shot_020.blend" {
		t.Fatalf("scene_file: got %q", d.Overrides[descriptor.OverrideSceneFile])
	}
	if d.Overrides[descriptor.OverrideOutputPath] != "/renders/shot_020" {
		t.Fatalf("output_path: got %q", d.Overrides[descriptor.OverrideOutputPath])
	}
}

func TestBuildBatchMultiSceneNamesAndTimestamps(t *testing.T) {
	units := []scene.Unit{
		{Kind: scene.UnitScene, Name: "Intro", Default: true, FrameStart: 1, FrameEnd: 50, OutputPath: "/renders/a"},
		{Kind: scene.UnitScene, Name: "Chase", FrameStart: 51, FrameEnd: 120, OutputPath: "/renders/b"},
		{Kind: scene.UnitScene, Name: "Outro", FrameStart: 121, FrameEnd: 150, OutputPath: "/renders/c"},
	}

	const base = int64(1724980000123)
	descs, err := submit.BuildBatch(docState(), units, overrides.Values{}, batchOptions(base))
	if err != nil {
		t.Fatalf("BuildBatch: %v", err)
	}
	if len(descs) != 3 {
		t.Fatalf("descriptors: got %d want 3", len(descs))
	}

	wantNames := []string{"shot_020 - Intro", "shot_020 - Chase", "shot_020 - Outro"}
	seen := map[string]struct{}{}
	for i, d := range descs {
		if d.JobName != wantNames[i] {
			t.Fatalf("job %d name: got %q want %q", i, d.JobName, wantNames[i])
		}
		if d.SubmittedAtMS != base+int64(i) {
			t.Fatalf("job %d timestamp: got %d want %d", i, d.SubmittedAtMS, base+int64(i))
		}
		if d.Overrides[descriptor.OverrideSceneName] != units[i].Name {
			t.Fatalf("job %d scene_name: got %q", i, d.Overrides[descriptor.OverrideSceneName])
		}
		name := d.Filename()
		if _, dup := seen[name]; dup {
			t.Fatalf("duplicate filename %q", name)
		}
		seen[name] = struct{}{}
		if i > 0 && descs[i-1].SubmittedAtMS >= d.SubmittedAtMS {
			t.Fatalf("timestamps not strictly increasing at %d", i)
		}
	}
}

func TestBuildBatchTakeOverrides(t *testing.T) {
	st := docState()
	st.OutputFormat = "tiff"
	units := []scene.Unit{{Kind: scene.UnitTake, Name: "NearCam", FrameStart: 1, FrameEnd: 100, OutputPath: "/renders/shot_020"}}

	descs, err := submit.BuildBatch(st, units, overrides.Values{}, batchOptions(1))
	if err != nil {
		t.Fatalf("BuildBatch: %v", err)
	}
	d := descs[0]
	if d.JobName != "shot_020 - NearCam" {
		t.Fatalf("job name: got %q", d.JobName)
	}
	if d.Overrides[descriptor.OverrideTakeName] != "NearCam" {
		t.Fatalf("take_name: got %q", d.Overrides[descriptor.OverrideTakeName])
	}
	if _, ok := d.Overrides[descriptor.OverrideSceneName]; ok {
		t.Fatal("take units must not carry scene_name")
	}
	if d.Overrides[descriptor.OverrideOutputFormat] != "TIFF" {
		t.Fatalf("output_format: got %q", d.Overrides[descriptor.OverrideOutputFormat])
	}
}

func TestBuildBatchMainTakeOmitsTakeName(t *testing.T) {
	units := []scene.Unit{{Kind: scene.UnitTake, Name: "Main", Default: true, FrameStart: 1, FrameEnd: 100, OutputPath: "/renders/shot_020"}}
	descs, err := submit.BuildBatch(docState(), units, overrides.Values{}, batchOptions(1))
	if err != nil {
		t.Fatalf("BuildBatch: %v", err)
	}
	if _, ok := descs[0].Overrides[descriptor.OverrideTakeName]; ok {
		t.Fatal("main take must not carry take_name")
	}
	if descs[0].JobName != "shot_020" {
		t.Fatalf("job name: got %q", descs[0].JobName)
	}
}

func TestBuildBatchUnmappedFormatOmitted(t *testing.T) {
	st := docState()
	st.OutputFormat = "WEBM"
	units := []scene.Unit{{Kind: scene.UnitScene, Default: true, FrameStart: 1, FrameEnd: 10, OutputPath: "/out"}}
	descs, err := submit.BuildBatch(st, units, overrides.Values{}, batchOptions(1))
	if err != nil {
		t.Fatalf("BuildBatch: %v", err)
	}
	if _, ok := descs[0].Overrides[descriptor.OverrideOutputFormat]; ok {
		t.Fatal("unmapped format must be omitted, not defaulted")
	}
}

func TestBuildBatchAppliesRangeOverrideToEveryUnit(t *testing.T) {
	units := []scene.Unit{
		{Kind: scene.UnitScene, Name: "A", Default: true, FrameStart: 1, FrameEnd: 50, OutputPath: "/out"},
		{Kind: scene.UnitScene, Name: "B", FrameStart: 51, FrameEnd: 99, OutputPath: "/out"},
	}
	ov := overrides.Values{RangeEnabled: true, FrameStart: 10, FrameEnd: 20}
	descs, err := submit.BuildBatch(docState(), units, ov, batchOptions(1))
	if err != nil {
		t.Fatalf("BuildBatch: %v", err)
	}
	for i, d := range descs {
		if d.FrameStart != 10 || d.FrameEnd != 20 {
			t.Fatalf("unit %d range: got %d-%d want 10-20", i, d.FrameStart, d.FrameEnd)
		}
	}
}

func TestBuildBatchRejectsInvalidRange(t *testing.T) {
	units := []scene.Unit{{Kind: scene.UnitScene, Default: true, FrameStart: 90, FrameEnd: 10, OutputPath: "/out"}}
	_, err := submit.BuildBatch(docState(), units, overrides.Values{}, batchOptions(1))
	if !errors.Is(err, submit.ErrValidation) {
		t.Fatalf("got %v want ErrValidation", err)
	}
	if submit.Classify(err) != submit.SeverityValidation {
		t.Fatalf("severity: got %v", submit.Classify(err))
	}
}

func TestFormatTokenMapping(t *testing.T) {
	cases := map[string]string{
		"EXR":  "EXR",
		"exr":  "EXR",
		" jpg ": "JPG",
		"WEBM": "",
		"":     "",
	}
	for raw, want := range cases {
		if got := submit.FormatToken(raw); got != want {
			t.Fatalf("FormatToken(%q): got %q want %q", raw, got, want)
		}
	}
}
