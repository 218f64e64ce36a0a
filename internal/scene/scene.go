package scene

import (
	"context"
	"errors"
)

// ErrDocumentNotSaved reports that the host document does not exist on disk
// yet. Submission preconditions require a saved document.
var ErrDocumentNotSaved = errors.New("document not saved")

// State is a normalized snapshot of host render settings.
type State struct {
	// DocumentPath is the absolute path of the saved host document.
	DocumentPath string
	FrameStart   int
	FrameEnd     int
	// OutputPath is absolute; hosts storing document-relative paths resolve
	// them before the state leaves the adapter.
	OutputPath string
	// OutputFormat is the host's raw render format token, possibly empty.
	OutputFormat string
}

// UnitKind distinguishes the two host variant models.
type UnitKind int

const (
	// UnitScene is a scene in a multi-scene document (Blender model).
	UnitScene UnitKind = iota
	// UnitTake is a take in a variant tree (Cinema 4D model).
	UnitTake
)

// Unit is one render job target within a document. A single user action may
// submit several units as a batch.
type Unit struct {
	Kind UnitKind
	Name string
	// Default marks the implicit unit: the current scene or the main take.
	// Default units keep the plain document job name and omit their name from
	// the override map.
	Default    bool
	FrameStart int
	FrameEnd   int
	OutputPath string
}

// Variant is one entry of the depth-first flattened take tree. Label carries
// two spaces of indent per tree depth for display.
type Variant struct {
	Name    string
	Label   string
	Depth   int
	Current bool
}

// Selection chooses which units of a document to submit.
type Selection struct {
	// AllScenes submits every scene in the document as a separate job.
	AllScenes bool
	// Take names a specific variant; empty means the current one.
	Take string
}

// Host is the read-only capability a host integration implements.
type Host interface {
	// State reads the current render settings.
	State() (State, error)
	// Variants enumerates the take tree depth-first, parent before children.
	// Hosts without variants return nil.
	Variants() []Variant
	// Units resolves the selection to the job units of one batch.
	Units(sel Selection) ([]Unit, error)
	// Save persists the document the descriptors will reference. A failed
	// save aborts the batch before anything is built.
	Save(ctx context.Context) error
}
