package scene

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// manifestSchema is the highest manifest revision this adapter understands.
const manifestSchema = 1

type manifest struct {
	Schema   int             `toml:"schema"`
	Document documentSection `toml:"document"`
	Render   renderSection   `toml:"render"`
	Scenes   []sceneSection  `toml:"scenes"`
	Take     *takeNode       `toml:"take"`
}

type documentSection struct {
	Path string `toml:"path"`
}

type renderSection struct {
	FrameStart int    `toml:"frame_start"`
	FrameEnd   int    `toml:"frame_end"`
	OutputPath string `toml:"output_path"`
	Format     string `toml:"format"`
}

type sceneSection struct {
	Name       string `toml:"name"`
	Current    bool   `toml:"current"`
	FrameStart *int   `toml:"frame_start"`
	FrameEnd   *int   `toml:"frame_end"`
	OutputPath string `toml:"output_path"`
}

type takeNode struct {
	Name     string     `toml:"name"`
	Current  bool       `toml:"current"`
	Children []takeNode `toml:"children"`
}

// ManifestHost adapts a TOML project manifest exported by a host integration.
type ManifestHost struct {
	path     string
	document string
	m        manifest
}

// LoadManifest reads and validates a project manifest. The document path is
// resolved relative to the manifest's directory.
func LoadManifest(path string) (*ManifestHost, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", abs, err)
	}
	if m.Schema > manifestSchema {
		return nil, fmt.Errorf("manifest schema %d is newer than this producer supports (%d)", m.Schema, manifestSchema)
	}

	document := strings.TrimSpace(m.Document.Path)
	if document != "" && !filepath.IsAbs(document) {
		document = filepath.Join(filepath.Dir(abs), document)
	}

	return &ManifestHost{path: abs, document: document, m: m}, nil
}

// Path returns the manifest file location.
func (h *ManifestHost) Path() string { return h.path }

// State implements Host.
func (h *ManifestHost) State() (State, error) {
	output := strings.TrimSpace(h.m.Render.OutputPath)
	if output != "" && !filepath.IsAbs(output) {
		if h.document == "" {
			return State{}, fmt.Errorf("relative output path %q without a document location", output)
		}
		output = filepath.Join(filepath.Dir(h.document), output)
	}
	return State{
		DocumentPath: h.document,
		FrameStart:   h.m.Render.FrameStart,
		FrameEnd:     h.m.Render.FrameEnd,
		OutputPath:   output,
		OutputFormat: strings.TrimSpace(h.m.Render.Format),
	}, nil
}

// Variants implements Host: the take tree flattened depth-first, each label
// indented two spaces per depth.
func (h *ManifestHost) Variants() []Variant {
	if h.m.Take == nil {
		return nil
	}
	var out []Variant
	var walk func(node takeNode, depth int)
	walk = func(node takeNode, depth int) {
		out = append(out, Variant{
			Name:    node.Name,
			Label:   strings.Repeat("  ", depth) + node.Name,
			Depth:   depth,
			Current: node.Current,
		})
		for _, child := range node.Children {
			walk(child, depth+1)
		}
	}
	walk(*h.m.Take, 0)
	return out
}

// Units implements Host.
func (h *ManifestHost) Units(sel Selection) ([]Unit, error) {
	st, err := h.State()
	if err != nil {
		return nil, err
	}

	if sel.AllScenes {
		if len(h.m.Scenes) == 0 {
			return nil, fmt.Errorf("manifest %s declares no scenes", h.path)
		}
		current := h.currentSceneIndex()
		units := make([]Unit, 0, len(h.m.Scenes))
		for i, sec := range h.m.Scenes {
			units = append(units, h.sceneUnit(sec, i == current, st))
		}
		return units, nil
	}

	if take := strings.TrimSpace(sel.Take); take != "" {
		if h.m.Take == nil {
			return nil, fmt.Errorf("manifest %s declares no takes", h.path)
		}
		for _, v := range h.Variants() {
			if v.Name == take {
				return []Unit{h.takeUnit(v, st)}, nil
			}
		}
		return nil, fmt.Errorf("take %q not found in manifest %s", take, h.path)
	}

	switch {
	case len(h.m.Scenes) > 0:
		sec := h.m.Scenes[h.currentSceneIndex()]
		return []Unit{h.sceneUnit(sec, true, st)}, nil
	case h.m.Take != nil:
		return []Unit{h.takeUnit(h.currentVariant(), st)}, nil
	default:
		return []Unit{{
			Kind:       UnitScene,
			Default:    true,
			FrameStart: st.FrameStart,
			FrameEnd:   st.FrameEnd,
			OutputPath: st.OutputPath,
		}}, nil
	}
}

// Save implements Host. The manifest's document is written by the exporting
// host application; Save verifies it exists on disk.
func (h *ManifestHost) Save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if h.document == "" {
		return ErrDocumentNotSaved
	}
	info, err := os.Stat(h.document)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDocumentNotSaved, h.document)
	}
	return nil
}

func (h *ManifestHost) currentSceneIndex() int {
	for i, sec := range h.m.Scenes {
		if sec.Current {
			return i
		}
	}
	return 0
}

func (h *ManifestHost) currentVariant() Variant {
	variants := h.Variants()
	for _, v := range variants {
		if v.Current {
			return v
		}
	}
	return variants[0]
}

func (h *ManifestHost) sceneUnit(sec sceneSection, current bool, st State) Unit {
	unit := Unit{
		Kind:       UnitScene,
		Name:       sec.Name,
		Default:    current,
		FrameStart: st.FrameStart,
		FrameEnd:   st.FrameEnd,
		OutputPath: st.OutputPath,
	}
	if sec.FrameStart != nil {
		unit.FrameStart = *sec.FrameStart
	}
	if sec.FrameEnd != nil {
		unit.FrameEnd = *sec.FrameEnd
	}
	if out := strings.TrimSpace(sec.OutputPath); out != "" {
		if !filepath.IsAbs(out) && h.document != "" {
			out = filepath.Join(filepath.Dir(h.document), out)
		}
		unit.OutputPath = out
	}
	return unit
}

func (h *ManifestHost) takeUnit(v Variant, st State) Unit {
	return Unit{
		Kind:       UnitTake,
		Name:       v.Name,
		Default:    v.Depth == 0,
		FrameStart: st.FrameStart,
		FrameEnd:   st.FrameEnd,
		OutputPath: st.OutputPath,
	}
}
