package kiln

import "fmt"

// AtlasID identifies one of the engine's live texture atlases.
type AtlasID uint8

const (
	AtlasGameplay  AtlasID = iota // gameplay sprites, packed from images/
	AtlasEditor                   // editor-only icons and widgets
	AtlasHiRes                    // high resolution variants from hires_images/
	AtlasTemporary                // scratch target for incremental repacks, never rendered from
)

// String returns the lowercase name of the atlas id, which is also used as
// the on-disk artifact directory name for that atlas.
func (id AtlasID) String() string {
	switch id {
	case AtlasGameplay:
		return "gameplay"
	case AtlasEditor:
		return "editor"
	case AtlasHiRes:
		return "hires"
	case AtlasTemporary:
		return "temporary"
	default:
		return fmt.Sprintf("atlas(%d)", uint8(id))
	}
}

// Rect is an axis-aligned pixel rectangle. The coordinate system has its
// origin at the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height int
}

// Overlaps reports whether r and other share any interior area.
// Rectangles that only touch along an edge do not overlap.
func (r Rect) Overlaps(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// In reports whether r lies entirely within a w×h area anchored at the origin.
func (r Rect) In(w, h int) bool {
	return r.X >= 0 && r.Y >= 0 &&
		r.X+r.Width <= w && r.Y+r.Height <= h
}

// ReloadEvent describes one applied atlas swap: which atlas id was replaced
// and which entry keys received new pixels or rects.
type ReloadEvent struct {
	Atlas AtlasID
	Keys  []string
}

// ReloadNotifier receives a notification after a live atlas entry has been
// replaced in the registry. Implementations must be cheap: the notification
// runs on the thread that performed the swap.
type ReloadNotifier interface {
	NotifyReload(ev ReloadEvent)
}
