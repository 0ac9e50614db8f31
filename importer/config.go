package importer

import (
	"errors"
	"fmt"
	"os"
)

// DefaultMaxPageSize is the page dimension used when Config.MaxPageSize is zero.
const DefaultMaxPageSize = 4096

// ErrMissingResourceRoot is returned when the configured resource root does
// not exist or is not a directory.
var ErrMissingResourceRoot = errors.New("kiln: resource root does not exist")

// Config carries the pipeline's directory layout and pack settings.
type Config struct {
	// ResourceRoot is the directory containing raw source assets
	// (images/, editor/, hires_images/, ...).
	ResourceRoot string

	// SourceDir receives the human-editable copy of every artifact.
	SourceDir string

	// BinaryDir receives the runtime-loaded copy of every artifact, plus the
	// import-state record.
	BinaryDir string

	// MaxPageSize is the width and height of an atlas page in pixels.
	// Defaults to DefaultMaxPageSize.
	MaxPageSize int

	// Padding is the minimum pixel gap between packed entries.
	Padding int

	// AllowRotate lets the packer store entries rotated 90 degrees clockwise
	// when that wastes less shelf height.
	AllowRotate bool
}

// Validate checks the configuration and applies defaults in place.
// A missing resource root is a configuration error: the pass is aborted
// before any state is touched.
func (c *Config) Validate() error {
	if c.ResourceRoot == "" || c.SourceDir == "" || c.BinaryDir == "" {
		return errors.New("kiln: config requires ResourceRoot, SourceDir and BinaryDir")
	}
	info, err := os.Stat(c.ResourceRoot)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrMissingResourceRoot, c.ResourceRoot)
	}
	if c.MaxPageSize == 0 {
		c.MaxPageSize = DefaultMaxPageSize
	}
	if c.MaxPageSize < 0 || c.Padding < 0 {
		return errors.New("kiln: config page size and padding must be non-negative")
	}
	return nil
}
