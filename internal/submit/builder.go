package submit

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"midrender/internal/descriptor"
	"midrender/internal/overrides"
	"midrender/internal/scene"
)

// knownFormats are the render format tokens farm-side templates understand.
// Host formats outside this set are omitted from the override map rather
// than defaulted.
var knownFormats = map[string]struct{}{
	"TIFF": {},
	"TGA":  {},
	"BMP":  {},
	"IFF":  {},
	"JPG":  {},
	"EXR":  {},
	"HDR":  {},
	"DPX":  {},
	"AVI":  {},
}

// FormatToken normalizes a host render format to a known farm token, or ""
// when the format has no mapping.
func FormatToken(raw string) string {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := knownFormats[token]; ok {
		return token
	}
	return ""
}

// BatchOptions carries the per-batch knobs applied to every descriptor.
type BatchOptions struct {
	TemplateID string
	ChunkSize  int
	Priority   int
	// Host is the submitting hostname embedded in descriptor identity.
	Host string
	// Now overrides the batch base timestamp source in tests.
	Now func() time.Time
}

// BuildBatch constructs one descriptor per unit. Unit i is stamped with the
// batch base timestamp plus i, so filenames within the batch are pairwise
// distinct and strictly increasing.
func BuildBatch(st scene.State, units []scene.Unit, ov overrides.Values, opts BatchOptions) ([]descriptor.Descriptor, error) {
	if len(units) == 0 {
		return nil, Wrap(ErrValidation, "build batch", "no job units selected", nil)
	}
	if st.DocumentPath == "" {
		return nil, Wrap(ErrValidation, "build batch", "document has no saved location", nil)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	base := now().UnixMilli()

	docName := filepath.Base(st.DocumentPath)
	baseName := norm.NFC.String(strings.TrimSuffix(docName, filepath.Ext(docName)))
	format := FormatToken(st.OutputFormat)

	descs := make([]descriptor.Descriptor, 0, len(units))
	for i, unit := range units {
		eff, err := ov.Resolve(unit)
		if err != nil {
			return nil, Wrap(ErrValidation, "resolve job settings", unitLabel(unit), err)
		}

		unitName := norm.NFC.String(unit.Name)
		jobName := baseName
		if len(units) > 1 || !unit.Default {
			jobName = fmt.Sprintf("%s - %s", baseName, unitName)
		}

		ovMap := map[string]string{
			descriptor.OverrideSceneFile:  st.DocumentPath,
			descriptor.OverrideOutputPath: eff.OutputPath,
		}
		switch unit.Kind {
		case scene.UnitScene:
			if len(units) > 1 || !unit.Default {
				ovMap[descriptor.OverrideSceneName] = unitName
			}
		case scene.UnitTake:
			if !unit.Default {
				ovMap[descriptor.OverrideTakeName] = unitName
			}
		}
		if format != "" {
			ovMap[descriptor.OverrideOutputFormat] = format
		}

		desc := descriptor.Descriptor{
			Version:         descriptor.Version,
			TemplateID:      opts.TemplateID,
			JobName:         jobName,
			SubmittedByHost: opts.Host,
			SubmittedAtMS:   base + int64(i),
			Overrides:       ovMap,
			FrameStart:      eff.FrameStart,
			FrameEnd:        eff.FrameEnd,
			ChunkSize:       opts.ChunkSize,
			Priority:        opts.Priority,
		}
		if err := desc.Validate(); err != nil {
			return nil, Wrap(ErrValidation, "build descriptor", unitLabel(unit), err)
		}
		descs = append(descs, desc)
	}
	return descs, nil
}

func unitLabel(unit scene.Unit) string {
	if strings.TrimSpace(unit.Name) == "" {
		return "document"
	}
	return unit.Name
}
