package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// ErrSourceWrite is wrapped by Save when the source copy could not be
// written. The failure is fatal for that artifact: the binary copy is never
// touched, so it stays consistent with the previous successful save.
var ErrSourceWrite = errors.New("kiln: source artifact write failed")

// DualPath persists every artifact to two locations: a source copy for
// humans and version control, and a binary copy the runtime loads. After a
// successful Save the two copies are byte-identical. The binary copy is only
// written after the source write succeeds, so a crash between the two writes
// leaves the binary copy consistent with the previous save — stale at worst,
// never corrupt.
type DualPath struct {
	SourceDir string
	BinaryDir string

	log zerolog.Logger
}

// NewDualPath creates a serializer writing under the two roots.
func NewDualPath(sourceDir, binaryDir string, log zerolog.Logger) *DualPath {
	return &DualPath{SourceDir: sourceDir, BinaryDir: binaryDir, log: log}
}

// Save writes data under rel in the source tree, then in the binary tree,
// creating intermediate directories as needed. A source failure aborts the
// artifact. A binary failure is logged and reported as success: the source
// copy is already safe and the binary copy is repaired on the next pass.
func (d *DualPath) Save(rel string, data []byte) error {
	if err := writeArtifact(filepath.Join(d.SourceDir, rel), data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSourceWrite, rel, err)
	}
	if err := writeArtifact(filepath.Join(d.BinaryDir, rel), data); err != nil {
		d.log.Warn().Err(err).Str("artifact", rel).
			Msg("binary artifact write failed, copy is stale until next pass")
	}
	return nil
}

// Load reads the artifact stored under rel, preferring the binary copy and
// falling back to the source copy when the binary one is missing or stale
// from an interrupted save.
func (d *DualPath) Load(rel string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(d.BinaryDir, rel))
	if err == nil {
		return data, nil
	}
	data, err = os.ReadFile(filepath.Join(d.SourceDir, rel))
	if err != nil {
		return nil, fmt.Errorf("kiln: load artifact %s: %w", rel, err)
	}
	return data, nil
}

// Delete removes both copies of the artifact under rel. A missing source
// copy is not an error — deletion is idempotent. Binary removal failures
// are logged only.
func (d *DualPath) Delete(rel string) {
	if err := os.Remove(filepath.Join(d.SourceDir, rel)); err != nil && !os.IsNotExist(err) {
		d.log.Warn().Err(err).Str("artifact", rel).Msg("source artifact delete failed")
	}
	if err := os.Remove(filepath.Join(d.BinaryDir, rel)); err != nil && !os.IsNotExist(err) {
		d.log.Warn().Err(err).Str("artifact", rel).Msg("binary artifact delete failed")
	}
}

func writeArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
