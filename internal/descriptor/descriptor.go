package descriptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Version is the wire schema version stamped into every descriptor.
const Version = 1

// Override map keys understood by farm-side job templates.
const (
	OverrideSceneFile    = "scene_file"
	OverrideOutputPath   = "output_path"
	OverrideSceneName    = "scene_name"
	OverrideTakeName     = "take_name"
	OverrideOutputFormat = "output_format"
)

// Descriptor is one render job submission. Field order matches the wire
// layout the monitor expects.
type Descriptor struct {
	Version         int               `json:"_version"`
	TemplateID      string            `json:"template_id"`
	JobName         string            `json:"job_name"`
	SubmittedByHost string            `json:"submitted_by_host"`
	SubmittedAtMS   int64             `json:"submitted_at_ms"`
	Overrides       map[string]string `json:"overrides"`
	FrameStart      int               `json:"frame_start"`
	FrameEnd        int               `json:"frame_end"`
	ChunkSize       int               `json:"chunk_size"`
	Priority        int               `json:"priority"`
}

// Filename returns the canonical dropbox name for the descriptor:
// a 13-digit zero-padded millisecond timestamp, the submitting host, ".json".
func (d Descriptor) Filename() string {
	return fmt.Sprintf("%013d.%s.json", d.SubmittedAtMS, d.SubmittedByHost)
}

// Validate checks every invariant the monitor relies on. It must pass before
// a descriptor reaches the dropbox writer.
func (d Descriptor) Validate() error {
	if d.Version != Version {
		return fmt.Errorf("descriptor version %d, expected %d", d.Version, Version)
	}
	if strings.TrimSpace(d.TemplateID) == "" {
		return errors.New("template id is empty")
	}
	if strings.TrimSpace(d.JobName) == "" {
		return errors.New("job name is empty")
	}
	if d.SubmittedByHost == "" {
		return errors.New("submitting host is empty")
	}
	if strings.ContainsAny(d.SubmittedByHost, `/\`) {
		return fmt.Errorf("submitting host %q contains a path separator", d.SubmittedByHost)
	}
	if d.SubmittedAtMS <= 0 {
		return fmt.Errorf("submission timestamp %d is not positive", d.SubmittedAtMS)
	}
	if d.FrameStart > d.FrameEnd {
		return fmt.Errorf("frame start %d is after frame end %d", d.FrameStart, d.FrameEnd)
	}
	if d.ChunkSize < 1 {
		return fmt.Errorf("chunk size %d, must be at least 1", d.ChunkSize)
	}
	if d.Priority < 1 || d.Priority > 100 {
		return fmt.Errorf("priority %d outside 1-100", d.Priority)
	}
	for _, key := range []string{OverrideSceneFile, OverrideOutputPath} {
		if strings.TrimSpace(d.Overrides[key]) == "" {
			return fmt.Errorf("override %q is required", key)
		}
	}
	return nil
}

// Encode renders the descriptor as the pretty-printed UTF-8 JSON the monitor
// parses.
func (d Descriptor) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode descriptor: %w", err)
	}
	return append(data, '\n'), nil
}
