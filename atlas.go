package kiln

import (
	"encoding/json"
	"fmt"
	"image/color"
	"log"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// AtlasEntry describes a packed sprite frame within an atlas page.
// Value type (16 bytes) — stored directly in the entries map, no pointer.
type AtlasEntry struct {
	Page    uint16 // atlas page index (references TextureAtlas.Pages)
	X, Y    uint16 // top-left corner of the frame rect within the page
	Width   uint16 // width of the frame rect as stored (swapped when rotated)
	Height  uint16 // height of the frame rect as stored
	Rotated bool   // true if the frame is stored 90 degrees clockwise in the page
}

// Rect returns the entry's pixel rectangle within its page.
func (e AtlasEntry) Rect() Rect {
	return Rect{X: int(e.X), Y: int(e.Y), Width: int(e.Width), Height: int(e.Height)}
}

// TextureAtlas holds one or more atlas page images and a map of named entries.
// Every entry key is unique within an atlas; an atlas with zero entries is
// invalid and is never persisted by the import pipeline.
type TextureAtlas struct {
	ID   AtlasID
	Name string

	// Pages contains the atlas page images indexed by page number.
	Pages []*ebiten.Image

	entries map[string]AtlasEntry
}

// NewAtlas creates an empty atlas with the given id and logical name.
func NewAtlas(id AtlasID, name string) *TextureAtlas {
	return &TextureAtlas{
		ID:      id,
		Name:    name,
		entries: make(map[string]AtlasEntry),
	}
}

// Entry returns the AtlasEntry for the given key.
// If the key doesn't exist, it logs a warning and returns a 1×1 magenta
// placeholder entry on page index magentaPlaceholderPage.
func (a *TextureAtlas) Entry(key string) AtlasEntry {
	if e, ok := a.entries[key]; ok {
		return e
	}
	log.Printf("kiln: atlas %s entry %q not found, using magenta placeholder", a.Name, key)
	return magentaEntry()
}

// Lookup returns the entry for the given key and whether it exists,
// without the placeholder fallback.
func (a *TextureAtlas) Lookup(key string) (AtlasEntry, bool) {
	e, ok := a.entries[key]
	return e, ok
}

// SetEntry adds or replaces the entry stored under key.
func (a *TextureAtlas) SetEntry(key string, e AtlasEntry) {
	a.entries[key] = e
}

// Len returns the number of entries in the atlas.
func (a *TextureAtlas) Len() int { return len(a.entries) }

// Keys returns all entry keys in sorted order.
func (a *TextureAtlas) Keys() []string {
	keys := make([]string, 0, len(a.entries))
	for k := range a.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy of the atlas sharing the page images but owning its
// own entry map. Used by the reload controller to build a replacement atlas
// off to the side before swapping it into the registry.
func (a *TextureAtlas) Clone() *TextureAtlas {
	c := &TextureAtlas{
		ID:      a.ID,
		Name:    a.Name,
		Pages:   append([]*ebiten.Image(nil), a.Pages...),
		entries: make(map[string]AtlasEntry, len(a.entries)),
	}
	for k, e := range a.entries {
		c.entries[k] = e
	}
	return c
}

// PageImage returns the page image backing the entry. Placeholder entries
// (and entries pointing past the page slice) resolve to a shared 1×1
// magenta image so a bad key renders visibly instead of crashing.
func (a *TextureAtlas) PageImage(e AtlasEntry) *ebiten.Image {
	if e.Page == magentaPlaceholderPage || int(e.Page) >= len(a.Pages) {
		return ensureMagentaImage()
	}
	return a.Pages[e.Page]
}

// magenta placeholder singleton (no sync.Once — atlas lookups happen on the
// render thread only)
var magentaImage *ebiten.Image

func ensureMagentaImage() *ebiten.Image {
	if magentaImage == nil {
		magentaImage = ebiten.NewImage(1, 1)
		magentaImage.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
	}
	return magentaImage
}

// magentaPlaceholderPage is a sentinel page index used for magenta placeholders.
// It's high enough to never collide with real atlas pages.
const magentaPlaceholderPage = 0xFFFF

func magentaEntry() AtlasEntry {
	return AtlasEntry{
		Page:   magentaPlaceholderPage,
		Width:  1,
		Height: 1,
	}
}

// --- Descriptor (on-disk) format ---

// PageDescriptor records one page image of a serialized atlas.
type PageDescriptor struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// EntryDescriptor is the serialized form of one AtlasEntry.
type EntryDescriptor struct {
	Page    int  `json:"page"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
	W       int  `json:"w"`
	H       int  `json:"h"`
	Rotated bool `json:"rotated,omitempty"`
}

// AtlasDescriptor is the on-disk description of a packed atlas: page image
// paths plus the entry-key → (page, rect) mapping. Round-trips losslessly
// through Encode and LoadAtlas.
type AtlasDescriptor struct {
	Name    string                     `json:"name"`
	Pages   []PageDescriptor           `json:"pages"`
	Entries map[string]EntryDescriptor `json:"entries"`
}

// Encode serializes the descriptor as indented JSON. Map keys are emitted in
// sorted order, so identical descriptors encode to identical bytes.
func (d *AtlasDescriptor) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("kiln: encode atlas descriptor %q: %w", d.Name, err)
	}
	return append(data, '\n'), nil
}

// DecodeAtlasDescriptor parses descriptor JSON produced by Encode.
func DecodeAtlasDescriptor(data []byte) (*AtlasDescriptor, error) {
	var d AtlasDescriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("kiln: parse atlas descriptor: %w", err)
	}
	if len(d.Entries) == 0 {
		return nil, fmt.Errorf("kiln: atlas descriptor %q has no entries", d.Name)
	}
	return &d, nil
}

// LoadAtlas parses descriptor JSON and associates the given page images.
// The page slice must match the descriptor's page list in length and order.
func LoadAtlas(data []byte, id AtlasID, pages []*ebiten.Image) (*TextureAtlas, error) {
	d, err := DecodeAtlasDescriptor(data)
	if err != nil {
		return nil, err
	}
	if len(pages) != len(d.Pages) {
		return nil, fmt.Errorf("kiln: atlas %q expects %d pages, got %d", d.Name, len(d.Pages), len(pages))
	}

	atlas := NewAtlas(id, d.Name)
	atlas.Pages = pages
	for key, e := range d.Entries {
		if e.Page < 0 || e.Page >= len(d.Pages) {
			return nil, fmt.Errorf("kiln: atlas %q entry %q references page %d of %d", d.Name, key, e.Page, len(d.Pages))
		}
		atlas.entries[key] = AtlasEntry{
			Page:    uint16(e.Page),
			X:       uint16(e.X),
			Y:       uint16(e.Y),
			Width:   uint16(e.W),
			Height:  uint16(e.H),
			Rotated: e.Rotated,
		}
	}
	return atlas, nil
}

// Descriptor builds the serializable descriptor for the atlas's current
// entries. Page paths must be supplied by the caller since the atlas holds
// only the uploaded images.
func (a *TextureAtlas) Descriptor(pages []PageDescriptor) *AtlasDescriptor {
	entries := make(map[string]EntryDescriptor, len(a.entries))
	for k, e := range a.entries {
		entries[k] = EntryDescriptor{
			Page:    int(e.Page),
			X:       int(e.X),
			Y:       int(e.Y),
			W:       int(e.Width),
			H:       int(e.Height),
			Rotated: e.Rotated,
		}
	}
	return &AtlasDescriptor{Name: a.Name, Pages: pages, Entries: entries}
}
