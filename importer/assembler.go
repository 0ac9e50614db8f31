package importer

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"
	"path"
	"strings"

	// Source image formats accepted by the pipeline. PNG and JPEG decode via
	// the standard library, BMP via x/image.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/kilnpack/kiln"
)

// ErrEmptyAtlas is returned when a pack produced no composited entries.
// An empty atlas is treated as a failed pack and nothing is written, so a
// corrupt or empty atlas can never be published.
var ErrEmptyAtlas = errors.New("kiln: atlas has no entries")

// EntryKey derives the stable lookup name of a packed frame from its path
// relative to the resource root: the extension is stripped and separators
// are normalized to "/". Sprite assets and animation clips reference frames
// by exactly this key, so the derivation must not change between releases.
func EntryKey(rel string) string {
	rel = strings.ReplaceAll(rel, "\\", "/")
	return strings.TrimSuffix(rel, path.Ext(rel))
}

// DecodeImage reads and decodes one source image file.
func DecodeImage(p string) (image.Image, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("kiln: open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("kiln: decode image %s: %w", p, err)
	}
	return img, nil
}

// PackedAtlas is the in-memory result of one pack: CPU-side page buffers
// plus the descriptor mapping entry keys to page rects. Pages stay on the
// CPU until the reload controller applies the result on the render thread.
type PackedAtlas struct {
	ID         kiln.AtlasID
	Name       string
	Pages      []*image.RGBA
	Descriptor *kiln.AtlasDescriptor
}

// DescriptorRel returns the artifact path of the atlas descriptor, relative
// to the source/binary roots.
func (a *PackedAtlas) DescriptorRel() string {
	return path.Join("atlases", a.Name, a.Name+".atlas.json")
}

// PageRel returns the artifact path of page i, relative to the
// source/binary roots.
func (a *PackedAtlas) PageRel(i int) string {
	return path.Join("atlases", a.Name, fmt.Sprintf("%s_%d.png", a.Name, i))
}

// Assemble composites packer placements and their decoded source pixels into
// fixed-size page buffers and builds the atlas descriptor. pixels is keyed
// by placement key and must hold the unrotated source image for every
// placement. A pack with zero placements fails with ErrEmptyAtlas.
func Assemble(id kiln.AtlasID, name string, placements []Placement, pixels map[string]image.Image, pageSize int) (*PackedAtlas, error) {
	if len(placements) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyAtlas, name)
	}

	pageCount := 0
	for _, pl := range placements {
		if pl.Page+1 > pageCount {
			pageCount = pl.Page + 1
		}
	}

	pages := make([]*image.RGBA, pageCount)
	for i := range pages {
		pages[i] = image.NewRGBA(image.Rect(0, 0, pageSize, pageSize))
	}

	entries := make(map[string]kiln.EntryDescriptor, len(placements))
	for _, pl := range placements {
		src, ok := pixels[pl.Key]
		if !ok {
			return nil, fmt.Errorf("kiln: no pixels for packed entry %q", pl.Key)
		}
		if _, dup := entries[pl.Key]; dup {
			return nil, fmt.Errorf("kiln: duplicate entry key %q in atlas %s", pl.Key, name)
		}
		composite(pages[pl.Page], pl, src)
		entries[pl.Key] = kiln.EntryDescriptor{
			Page:    pl.Page,
			X:       pl.X,
			Y:       pl.Y,
			W:       pl.Width,
			H:       pl.Height,
			Rotated: pl.Rotated,
		}
	}

	packed := &PackedAtlas{
		ID:    id,
		Name:  name,
		Pages: pages,
		Descriptor: &kiln.AtlasDescriptor{
			Name:    name,
			Entries: entries,
		},
	}
	for i := range pages {
		packed.Descriptor.Pages = append(packed.Descriptor.Pages, kiln.PageDescriptor{
			Path:   packed.PageRel(i),
			Width:  pageSize,
			Height: pageSize,
		})
	}
	return packed, nil
}

// composite draws src at its placement, rotating 90 degrees clockwise when
// the placement is rotated.
func composite(dst *image.RGBA, pl Placement, src image.Image) {
	b := src.Bounds()
	if !pl.Rotated {
		draw.Draw(dst,
			image.Rect(pl.X, pl.Y, pl.X+pl.Width, pl.Y+pl.Height),
			src, b.Min, draw.Src)
		return
	}
	// Rotated: source (sx, sy) lands at (X + h-1-sy, Y + sx).
	h := b.Dy()
	for sy := 0; sy < h; sy++ {
		for sx := 0; sx < b.Dx(); sx++ {
			dst.Set(pl.X+h-1-sy, pl.Y+sx, src.At(b.Min.X+sx, b.Min.Y+sy))
		}
	}
}
