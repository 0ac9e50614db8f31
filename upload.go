package kiln

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// TextureSink uploads a composited atlas page and returns the renderable
// image the engine draws from. The import pipeline calls it once per page
// when a pack result is applied.
type TextureSink interface {
	Upload(page *image.RGBA) *ebiten.Image
}

// GPUSink is the production TextureSink. Uploads must happen on the thread
// that owns the graphics context; the reload controller guarantees this by
// only calling the sink from its apply step.
type GPUSink struct{}

// Upload copies the page pixels into a new GPU texture.
func (GPUSink) Upload(page *image.RGBA) *ebiten.Image {
	return ebiten.NewImageFromImage(page)
}
