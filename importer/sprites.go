package importer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"path"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/kilnpack/kiln"
)

// ImportResult is one importer's publishable output for a pass. The reload
// controller consumes it: pages are uploaded and registry entries swapped at
// the apply point, never inside Import itself.
type ImportResult struct {
	Mode    Mode
	Target  kiln.AtlasID // live atlas id the result publishes to
	Packed  *PackedAtlas // packed under Target, or AtlasTemporary for incremental passes
	Sprites []*kiln.SpriteAsset
}

// SpriteRel returns the artifact path of a sprite asset, relative to the
// source/binary roots.
func SpriteRel(entry string) string {
	return path.Join("sprites", entry+".sprite.json")
}

// defaultFrameDuration is the per-frame hold time, in seconds, for clips
// generated from sprite sheets.
const defaultFrameDuration = 0.1

// sheetSuffix matches grid sprite-sheet names like "walk_4x2": 4 columns,
// 2 rows of equally sized frames.
var sheetSuffix = regexp.MustCompile(`_(\d+)x(\d+)$`)

// SpriteImporter packs staged image files into a texture atlas and derives
// one sprite asset per source file. Files whose name carries a _NxM suffix
// are treated as grid sprite sheets: each cell is packed as its own frame
// and the asset gets a looping clip over the cells.
type SpriteImporter struct {
	Staging

	name   string
	target kiln.AtlasID
	filter Filter
	cfg    Config
	paths  *DualPath
	log    zerolog.Logger

	result *ImportResult
}

// NewSpriteImporter creates a sprite importer packing into the atlas
// identified by target. name is the atlas's logical name and artifact
// directory.
func NewSpriteImporter(name string, target kiln.AtlasID, filter Filter, cfg Config, paths *DualPath, log zerolog.Logger) *SpriteImporter {
	return &SpriteImporter{
		name:   name,
		target: target,
		filter: filter,
		cfg:    cfg,
		paths:  paths,
		log:    log.With().Str("importer", name).Logger(),
	}
}

func (s *SpriteImporter) Name() string   { return s.name }
func (s *SpriteImporter) Filter() Filter { return s.filter }

// TakeResult hands over the last pass's result, if any.
func (s *SpriteImporter) TakeResult() *ImportResult {
	r := s.result
	s.result = nil
	return r
}

// Flush clears staged files and any unconsumed result.
func (s *SpriteImporter) Flush() {
	s.Staging.Flush()
	s.result = nil
}

// frameSource is one packable frame cut from a staged file.
type frameSource struct {
	key string
	img image.Image
}

// Import decodes the staged files for the given mode, packs their frames,
// composites the atlas, and persists page images and the descriptor via the
// dual-path serializer. With no files to process it is a logged no-op: no
// atlas is published and the registry stays untouched.
func (s *SpriteImporter) Import(ctx context.Context, mode Mode) error {
	files := s.All()
	if mode == ModeIncremental {
		files = s.ChangedOnly()
	}
	if len(files) == 0 {
		s.log.Info().Msg("no files to import")
		s.result = nil
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	frames := make([]frameSource, 0, len(files))
	assets := make([]*kiln.SpriteAsset, 0, len(files))
	for _, f := range files {
		img, err := DecodeImage(f.Path)
		if err != nil {
			return err
		}
		key := EntryKey(f.Rel)
		fileFrames := splitFrames(key, img)
		frames = append(frames, fileFrames...)
		assets = append(assets, s.buildAsset(key, fileFrames))
	}

	entries := make([]PackEntry, len(frames))
	pixels := make(map[string]image.Image, len(frames))
	for i, fr := range frames {
		b := fr.img.Bounds()
		entries[i] = PackEntry{Key: fr.key, Width: b.Dx(), Height: b.Dy()}
		pixels[fr.key] = fr.img
	}

	placements, err := NewPacker(s.cfg.MaxPageSize, s.cfg.Padding, s.cfg.AllowRotate).Pack(entries)
	if err != nil {
		return fmt.Errorf("kiln: importer %s: %w", s.name, err)
	}

	packID, packName := s.target, s.name
	if mode == ModeIncremental {
		packID, packName = kiln.AtlasTemporary, kiln.AtlasTemporary.String()
	}
	packed, err := Assemble(packID, packName, placements, pixels, s.cfg.MaxPageSize)
	if err != nil {
		return fmt.Errorf("kiln: importer %s: %w", s.name, err)
	}

	if err := s.persistAtlas(packed); err != nil {
		return err
	}

	s.result = &ImportResult{
		Mode:    mode,
		Target:  s.target,
		Packed:  packed,
		Sprites: assets,
	}
	return nil
}

// persistAtlas writes the page images and descriptor through the dual-path
// serializer. Artifact order within the pass is unspecified; each artifact
// individually honors the source-before-binary guarantee.
func (s *SpriteImporter) persistAtlas(packed *PackedAtlas) error {
	for i, page := range packed.Pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, page); err != nil {
			return fmt.Errorf("kiln: encode atlas page %s: %w", packed.PageRel(i), err)
		}
		if err := s.paths.Save(packed.PageRel(i), buf.Bytes()); err != nil {
			return err
		}
	}
	data, err := packed.Descriptor.Encode()
	if err != nil {
		return err
	}
	return s.paths.Save(packed.DescriptorRel(), data)
}

// buildAsset derives the sprite asset for one source file. The GUID comes
// from the file's entry key, so reimporting the same file supersedes the
// previous asset.
func (s *SpriteImporter) buildAsset(key string, frames []frameSource) *kiln.SpriteAsset {
	clip := kiln.AnimationClip{Name: "default", Loop: len(frames) > 1}
	for _, fr := range frames {
		clip.Frames = append(clip.Frames, kiln.Frame{Key: fr.key, Duration: defaultFrameDuration})
	}
	return &kiln.SpriteAsset{
		GUID:  kiln.DeriveGUID(key),
		Name:  path.Base(key),
		Atlas: s.target,
		Entry: frames[0].key,
		Clips: []kiln.AnimationClip{clip},
	}
}

// splitFrames cuts a grid sprite sheet into per-cell frames, or returns the
// whole image as a single frame for ordinary files. Cell frames are keyed
// "<key>#<index>" in row-major order.
func splitFrames(key string, img image.Image) []frameSource {
	m := sheetSuffix.FindStringSubmatch(path.Base(key))
	if m == nil {
		return []frameSource{{key: key, img: img}}
	}
	cols, _ := strconv.Atoi(m[1])
	rows, _ := strconv.Atoi(m[2])
	b := img.Bounds()
	if cols <= 0 || rows <= 0 || b.Dx()%cols != 0 || b.Dy()%rows != 0 {
		return []frameSource{{key: key, img: img}}
	}

	cw, ch := b.Dx()/cols, b.Dy()/rows
	frames := make([]frameSource, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cell := image.NewRGBA(image.Rect(0, 0, cw, ch))
			draw.Draw(cell, cell.Bounds(), img,
				image.Pt(b.Min.X+col*cw, b.Min.Y+row*ch), draw.Src)
			frames = append(frames, frameSource{
				key: key + "#" + strconv.Itoa(row*cols+col),
				img: cell,
			})
		}
	}
	return frames
}
