package importer

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/kilnpack/kiln"
)

func TestEntryKey(t *testing.T) {
	tests := []struct {
		rel, want string
	}{
		{"images/hero.png", "images/hero"},
		{"images/ui/button.PNG", "images/ui/button"},
		{"hero.png", "hero"},
		{"images\\hero.png", "images/hero"},
		{"images/noext", "images/noext"},
		{"images/walk_4x2.png", "images/walk_4x2"},
	}
	for _, tt := range tests {
		if got := EntryKey(tt.rel); got != tt.want {
			t.Errorf("EntryKey(%q) = %q, want %q", tt.rel, got, tt.want)
		}
	}
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestAssemble_CompositesPlacements(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	placements := []Placement{
		{Key: "images/hero", Page: 0, X: 0, Y: 0, Width: 4, Height: 4},
		{Key: "images/enemy", Page: 0, X: 8, Y: 8, Width: 4, Height: 4},
	}
	pixels := map[string]image.Image{
		"images/hero":  solidImage(4, 4, red),
		"images/enemy": solidImage(4, 4, blue),
	}

	packed, err := Assemble(kiln.AtlasGameplay, "gameplay", placements, pixels, 16)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(packed.Pages) != 1 {
		t.Fatalf("page count = %d, want 1", len(packed.Pages))
	}
	page := packed.Pages[0]
	if got := page.RGBAAt(1, 1); got != red {
		t.Errorf("pixel (1,1) = %v, want red", got)
	}
	if got := page.RGBAAt(9, 9); got != blue {
		t.Errorf("pixel (9,9) = %v, want blue", got)
	}
	if got := page.RGBAAt(6, 6); got.A != 0 {
		t.Errorf("pixel (6,6) should be transparent, got %v", got)
	}

	e, ok := packed.Descriptor.Entries["images/hero"]
	if !ok || e.X != 0 || e.W != 4 {
		t.Errorf("descriptor entry = %+v, %v", e, ok)
	}
	if packed.Descriptor.Pages[0].Path != packed.PageRel(0) {
		t.Errorf("descriptor page path = %q", packed.Descriptor.Pages[0].Path)
	}
}

func TestAssemble_RotatedEntry(t *testing.T) {
	// 2 wide by 3 tall, top row red, rest blue. Rotated 90 degrees clockwise
	// it is stored 3 wide by 2 tall with the red column on the right.
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	src := solidImage(2, 3, blue)
	src.SetRGBA(0, 0, red)
	src.SetRGBA(1, 0, red)

	placements := []Placement{
		{Key: "tall", Page: 0, X: 0, Y: 0, Width: 3, Height: 2, Rotated: true},
	}
	packed, err := Assemble(kiln.AtlasGameplay, "gameplay", placements, map[string]image.Image{"tall": src}, 8)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	page := packed.Pages[0]
	if got := page.RGBAAt(2, 0); got != red {
		t.Errorf("rotated pixel (2,0) = %v, want red", got)
	}
	if got := page.RGBAAt(2, 1); got != red {
		t.Errorf("rotated pixel (2,1) = %v, want red", got)
	}
	if got := page.RGBAAt(0, 0); got != blue {
		t.Errorf("rotated pixel (0,0) = %v, want blue", got)
	}
}

func TestAssemble_EmptyPackFails(t *testing.T) {
	_, err := Assemble(kiln.AtlasGameplay, "gameplay", nil, nil, 16)
	if !errors.Is(err, ErrEmptyAtlas) {
		t.Fatalf("err = %v, want ErrEmptyAtlas", err)
	}
}

func TestAssemble_MissingPixels(t *testing.T) {
	placements := []Placement{{Key: "ghost", Page: 0, X: 0, Y: 0, Width: 4, Height: 4}}
	_, err := Assemble(kiln.AtlasGameplay, "gameplay", placements, map[string]image.Image{}, 16)
	if err == nil {
		t.Fatal("expected error for placement without pixels")
	}
}

func TestAssemble_DuplicateKeyFails(t *testing.T) {
	placements := []Placement{
		{Key: "dup", Page: 0, X: 0, Y: 0, Width: 4, Height: 4},
		{Key: "dup", Page: 0, X: 8, Y: 0, Width: 4, Height: 4},
	}
	pixels := map[string]image.Image{"dup": solidImage(4, 4, color.RGBA{A: 255})}
	_, err := Assemble(kiln.AtlasGameplay, "gameplay", placements, pixels, 16)
	if err == nil {
		t.Fatal("expected error for duplicate entry key")
	}
}
