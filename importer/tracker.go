package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// importStateFile is the name of the import-state record inside the binary dir.
const importStateFile = "import_state.json"

type importState struct {
	LastImport time.Time `json:"last_import"`
}

// ChangeTracker decides, per resource file, whether it changed since the
// previous import pass by comparing modification times against the persisted
// "last imported" timestamp. Single-writer: two processes sharing one state
// file are not supported.
type ChangeTracker struct {
	path string
	last time.Time
}

// LoadTracker reads the import-state record from dir. A missing or corrupt
// record yields a zero timestamp, so every file counts as changed on the
// next pass.
func LoadTracker(dir string) *ChangeTracker {
	t := &ChangeTracker{path: filepath.Join(dir, importStateFile)}
	data, err := os.ReadFile(t.path)
	if err != nil {
		return t
	}
	var state importState
	if err := json.Unmarshal(data, &state); err != nil {
		return t
	}
	t.last = state.LastImport
	return t
}

// LastImport returns the timestamp of the last committed pass.
func (t *ChangeTracker) LastImport() time.Time { return t.last }

// Changed reports whether a file with the given modification time has
// changed since the last committed pass.
func (t *ChangeTracker) Changed(modTime time.Time) bool {
	return modTime.After(t.last)
}

// Commit persists now as the new last-import timestamp. Called once at the
// end of a pass so the next process invocation can compute deltas.
func (t *ChangeTracker) Commit(now time.Time) error {
	state := importState{LastImport: now}
	data, err := json.MarshalIndent(&state, "", "  ")
	if err != nil {
		return fmt.Errorf("kiln: encode import state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("kiln: import state dir: %w", err)
	}
	if err := os.WriteFile(t.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("kiln: write import state: %w", err)
	}
	t.last = now
	return nil
}
