package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"midrender/internal/config"
	"midrender/internal/descriptor"
	"midrender/internal/dropbox"
	"midrender/internal/farm"
	"midrender/internal/history"
	"midrender/internal/logging"
	"midrender/internal/overrides"
	"midrender/internal/scene"
)

// Request describes one user-triggered submission action.
type Request struct {
	Host      scene.Host
	Selection scene.Selection
	Overrides overrides.Values
	// TemplateID, ChunkSize, and Priority fall back to config defaults when
	// zero.
	TemplateID string
	ChunkSize  int
	Priority   int
}

// Job is one descriptor successfully placed in the dropbox.
type Job struct {
	Name       string
	Path       string
	Descriptor descriptor.Descriptor
}

// Result reports a completed submission action.
type Result struct {
	BatchID    string
	Connection farm.Connection
	Jobs       []Job
}

// Submitter runs submission actions for one producer session.
type Submitter struct {
	cfg    *config.Config
	guard  *Guard
	hist   *history.Store
	logger *slog.Logger
	now    func() time.Time
}

// New constructs a session submitter. hist may be nil to disable history
// recording; logger may be nil.
func New(cfg *config.Config, hist *history.Store, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Submitter{
		cfg:    cfg,
		guard:  NewGuard(time.Duration(cfg.Submit.CooldownSeconds) * time.Second),
		hist:   hist,
		logger: logger,
		now:    time.Now,
	}
}

// Guard exposes the session guard for UI state (disabled submit button).
func (s *Submitter) Guard() *Guard { return s.guard }

// ConfigDir returns the per-user MidRender directory this session resolves
// against.
func (s *Submitter) ConfigDir() string {
	if s.cfg.Farm.ConfigDir != "" {
		return s.cfg.Farm.ConfigDir
	}
	return farm.DefaultConfigDir()
}

// Resolve performs one farm resolution pass with the session settings.
func (s *Submitter) Resolve() farm.Connection {
	return farm.Resolve(s.ConfigDir(), s.cfg.Farm.Product, s.cfg.Farm.Generation)
}

// Submit runs one submission action to completion. The guard is checked
// before any config or write work and recorded only after the full batch
// lands. Descriptors written before a mid-batch failure stay on disk; each
// is independently valid and consumable.
func (s *Submitter) Submit(ctx context.Context, req Request) (*Result, error) {
	now := s.now()
	if !s.guard.Allow(now) {
		return nil, Wrap(ErrCooldown,
			"submit",
			fmt.Sprintf("already submitted, wait %s", s.guard.Remaining(now).Round(time.Millisecond)),
			nil)
	}

	conn := s.Resolve()
	if !conn.Status.Connected() {
		return nil, Wrap(ErrNotConfigured, "resolve farm", conn.Status.Remediation(), nil)
	}

	batchID := uuid.NewString()
	logger := s.logger.With(logging.String("batch_id", batchID))

	st, err := req.Host.State()
	if err != nil {
		return nil, Wrap(ErrValidation, "read scene state", "", err)
	}
	units, err := req.Host.Units(req.Selection)
	if err != nil {
		return nil, Wrap(ErrValidation, "select job units", "", err)
	}

	if err := req.Host.Save(ctx); err != nil {
		if errors.Is(err, scene.ErrDocumentNotSaved) {
			return nil, Wrap(ErrValidation, "save document", "save the file before submitting", err)
		}
		return nil, Wrap(ErrIO, "save document", "", err)
	}

	opts := BatchOptions{
		TemplateID: req.TemplateID,
		ChunkSize:  req.ChunkSize,
		Priority:   req.Priority,
		Host:       hostname(),
		Now:        s.now,
	}
	if opts.TemplateID == "" {
		opts.TemplateID = s.cfg.Submit.TemplateID
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = s.cfg.Submit.ChunkSize
	}
	if opts.Priority == 0 {
		opts.Priority = s.cfg.Submit.Priority
	}

	descs, err := BuildBatch(st, units, req.Overrides, opts)
	if err != nil {
		return nil, err
	}

	dropDir, err := farm.SubmissionsDir(s.ConfigDir())
	if err != nil {
		return nil, Wrap(ErrIO, "prepare dropbox", "", err)
	}

	result := &Result{BatchID: batchID, Connection: conn}
	for _, desc := range descs {
		path, writeErr := dropbox.Write(desc, dropDir)
		if writeErr != nil {
			// No rollback: descriptors already placed are owned by the
			// dropbox and remain consumable.
			return nil, Wrap(ErrIO,
				"write submission",
				fmt.Sprintf("%d of %d written", len(result.Jobs), len(descs)),
				writeErr)
		}
		result.Jobs = append(result.Jobs, Job{Name: desc.JobName, Path: path, Descriptor: desc})
		logger.Info("submission written",
			logging.String("job", desc.JobName),
			logging.String("file", path),
			logging.Int("frame_start", desc.FrameStart),
			logging.Int("frame_end", desc.FrameEnd),
		)
		s.record(ctx, logger, batchID, desc, path)
	}

	s.guard.Record(s.now())
	logger.Info("batch submitted",
		logging.Int("jobs", len(result.Jobs)),
		logging.String("farm", conn.FarmRoot),
	)
	return result, nil
}

// record appends to the local history log. Failures are logged and ignored:
// the descriptor already belongs to the dropbox.
func (s *Submitter) record(ctx context.Context, logger *slog.Logger, batchID string, desc descriptor.Descriptor, path string) {
	if s.hist == nil {
		return
	}
	err := s.hist.Record(ctx, history.Record{
		BatchID:        batchID,
		JobName:        desc.JobName,
		TemplateID:     desc.TemplateID,
		DescriptorPath: path,
		SubmittedAtMS:  desc.SubmittedAtMS,
		FrameStart:     desc.FrameStart,
		FrameEnd:       desc.FrameEnd,
		ChunkSize:      desc.ChunkSize,
		Priority:       desc.Priority,
	})
	if err != nil {
		logger.Warn("history record failed", logging.Error(err), logging.String("job", desc.JobName))
	}
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "unknown-host"
	}
	return name
}
