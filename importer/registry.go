package importer

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Mode selects which staged subset an importer processes.
type Mode uint8

const (
	ModeFull        Mode = iota // process every staged file
	ModeIncremental             // process only files flagged changed
)

// Importer converts one class of raw source file into engine-ready assets.
// Implementations embed Staging for the Stage/Flush half and keep any pass
// output until TakeResult is called.
type Importer interface {
	// Name identifies the importer in logs.
	Name() string

	// Filter declares which files the importer accepts.
	Filter() Filter

	// Stage records a file for the current pass.
	Stage(f StagedFile)

	// Import processes the staged files for the given mode. A failure aborts
	// only this importer's output; the pass continues with other importers.
	Import(ctx context.Context, mode Mode) error

	// TakeResult hands over the pack result of the last Import, or nil when
	// the importer produced nothing to publish. Ownership transfers to the
	// caller.
	TakeResult() *ImportResult

	// Flush clears staged files and any leftover pass state.
	Flush()
}

// Registry holds importers in registration order. Importers are registered
// explicitly at program initialization — the importer set is a plain list,
// enumerable and testable, with no runtime discovery.
type Registry struct {
	importers []Importer
	log       zerolog.Logger
}

// NewRegistry creates an empty importer registry logging through log.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{log: log}
}

// Register appends imp to the registry. Registration order is match order:
// the first importer whose filter accepts a file wins.
func (r *Registry) Register(imp Importer) {
	r.importers = append(r.importers, imp)
}

// Importers returns the registered importers in registration order.
func (r *Registry) Importers() []Importer { return r.importers }

// match returns the first importer accepting the extension and folder, or nil.
func (r *Registry) match(ext, folder string) Importer {
	for _, imp := range r.importers {
		if imp.Filter().Accepts(ext, folder) {
			return imp
		}
	}
	return nil
}

// Stage walks the resource root and stages every matching file with the
// importer that accepted it, flagging files modified since the tracker's
// last committed pass. Files matching no importer are skipped silently —
// a deliberate policy, logged at debug level so misconfiguration remains
// diagnosable. Returns the number of staged files and how many of them were
// flagged changed.
//
// WalkDir visits files in lexical order, so staging order — and therefore
// packing order — is stable across runs.
func (r *Registry) Stage(root string, tracker *ChangeTracker) (staged, changed int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		ext := strings.ToLower(filepath.Ext(rel))
		folder := filepath.ToSlash(filepath.Dir(rel))

		imp := r.match(ext, folder)
		if imp == nil {
			r.log.Debug().Str("file", rel).Msg("no importer matched, skipping")
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		f := StagedFile{
			Path:    path,
			Rel:     rel,
			Ext:     ext,
			Folder:  folder,
			ModTime: info.ModTime(),
			Changed: tracker.Changed(info.ModTime()),
		}
		imp.Stage(f)
		staged++
		if f.Changed {
			changed++
		}
		return nil
	})
	if err != nil {
		return staged, changed, fmt.Errorf("kiln: stage %s: %w", root, err)
	}
	return staged, changed, nil
}
