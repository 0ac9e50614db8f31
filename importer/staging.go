package importer

import "time"

// StagedFile is one resource file bound to the importer that accepted it for
// the current pass. Staged files live only for the duration of one pass.
type StagedFile struct {
	Path    string    // absolute path on disk
	Rel     string    // path relative to the resource root, "/" separators
	Ext     string    // lowercase extension including the dot
	Folder  string    // containing folder relative to the root, "." for root files
	ModTime time.Time // last modification time
	Changed bool      // true if ModTime is newer than the last committed pass
}

// Staging accumulates the files accepted for one importer during the current
// pass, split into all-files and changed-files views. Importers embed it to
// satisfy the Stage and Flush halves of the Importer interface.
type Staging struct {
	all     []StagedFile
	changed []StagedFile
}

// Stage appends f to the buffer, and to the changed subset when flagged.
func (s *Staging) Stage(f StagedFile) {
	s.all = append(s.all, f)
	if f.Changed {
		s.changed = append(s.changed, f)
	}
}

// All returns every staged file in staging order.
func (s *Staging) All() []StagedFile { return s.all }

// ChangedOnly returns the staged files flagged as changed, in staging order.
func (s *Staging) ChangedOnly() []StagedFile { return s.changed }

// Flush clears the buffers for the next pass.
func (s *Staging) Flush() {
	s.all = s.all[:0]
	s.changed = s.changed[:0]
}
