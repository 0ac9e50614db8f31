package importer

import (
	"errors"
	"fmt"
)

// Packer errors.
var (
	// ErrEntryTooLarge is returned when a single entry cannot fit on an
	// empty page. This is a configuration error for the whole pack
	// operation, never a silently dropped entry.
	ErrEntryTooLarge = errors.New("kiln: entry exceeds maximum page size")

	// ErrNothingToPack is returned when Pack is called with no entries.
	ErrNothingToPack = errors.New("kiln: no entries to pack")
)

// PackEntry is one source image submitted to the packer.
type PackEntry struct {
	Key    string // stable lookup name, unique within the pack
	Width  int
	Height int
}

// Placement is the packer's assignment for one entry: its page and pixel
// rect. Width and Height are the stored dimensions, swapped from the entry's
// when Rotated is set.
type Placement struct {
	Key     string
	Page    int
	X, Y    int
	Width   int
	Height  int
	Rotated bool
}

// packShelf is a horizontal strip in one page. Entries are placed
// left-to-right until no width remains, then a new shelf is started below.
type packShelf struct {
	y      int // Y position of the shelf top
	height int // height of the shelf (tallest item so far)
	x      int // next free X position
}

type packPage struct {
	shelves []packShelf
}

// Packer arranges entries onto as few fixed-size pages as possible using
// shelf packing: pages are tried in order and a new page is opened only when
// the entry fits on none of the existing ones. Packing is deterministic —
// identical input order and configuration produce identical placements.
type Packer struct {
	maxSize int
	padding int
	rotate  bool
}

// NewPacker creates a packer for maxSize×maxSize pages with the given
// minimum padding between entries. When rotate is true, entries taller than
// wide are stored rotated 90 degrees clockwise to keep shelves short.
func NewPacker(maxSize, padding int, rotate bool) *Packer {
	return &Packer{maxSize: maxSize, padding: padding, rotate: rotate}
}

// Pack assigns every entry to (page, x, y). Placements are returned in input
// order. If any entry exceeds the page dimension the whole pack fails.
func (p *Packer) Pack(entries []PackEntry) ([]Placement, error) {
	if len(entries) == 0 {
		return nil, ErrNothingToPack
	}

	pages := []*packPage{{}}
	placements := make([]Placement, 0, len(entries))

	for _, e := range entries {
		if e.Width <= 0 || e.Height <= 0 {
			return nil, fmt.Errorf("kiln: entry %q has invalid size %dx%d", e.Key, e.Width, e.Height)
		}
		w, h := e.Width, e.Height
		rotated := false
		if p.rotate && h > w {
			w, h = h, w
			rotated = true
		}
		if w+p.padding > p.maxSize || h+p.padding > p.maxSize {
			return nil, fmt.Errorf("%w: %q is %dx%d, page is %dx%d",
				ErrEntryTooLarge, e.Key, e.Width, e.Height, p.maxSize, p.maxSize)
		}

		placed := false
		for i, page := range pages {
			if x, y, ok := p.allocate(page, w, h); ok {
				placements = append(placements, Placement{
					Key: e.Key, Page: i, X: x, Y: y,
					Width: w, Height: h, Rotated: rotated,
				})
				placed = true
				break
			}
		}
		if !placed {
			// Every existing page is full; the entry is known to fit on an
			// empty one.
			page := &packPage{}
			pages = append(pages, page)
			x, y, _ := p.allocate(page, w, h)
			placements = append(placements, Placement{
				Key: e.Key, Page: len(pages) - 1, X: x, Y: y,
				Width: w, Height: h, Rotated: rotated,
			})
		}
	}

	return placements, nil
}

// allocate finds space for a w×h rect on the page using first-fit over
// shelves, extending the last shelf when the item is taller than it.
func (p *Packer) allocate(page *packPage, w, h int) (x, y int, ok bool) {
	paddedW := w + p.padding
	paddedH := h + p.padding

	for i := range page.shelves {
		s := &page.shelves[i]

		if s.x+paddedW > p.maxSize {
			continue
		}

		if h > s.height {
			// Taller than the shelf — extend it, but only if it is the last
			// shelf and there is room below.
			if i == len(page.shelves)-1 && s.y+paddedH <= p.maxSize {
				s.height = h
				x, y = s.x, s.y
				s.x += paddedW
				return x, y, true
			}
			continue
		}

		x, y = s.x, s.y
		s.x += paddedW
		return x, y, true
	}

	// Open a new shelf below the last one.
	newY := 0
	if n := len(page.shelves); n > 0 {
		last := page.shelves[n-1]
		newY = last.y + last.height + p.padding
	}
	if newY+paddedH > p.maxSize {
		return 0, 0, false
	}
	page.shelves = append(page.shelves, packShelf{y: newY, height: h, x: paddedW})
	return 0, newY, true
}
