package kiln

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// AnimationPlayer steps through a sprite clip's frames. Each frame's hold
// time runs on a gween tween so leftover time past a frame boundary carries
// into the next frame, keeping playback accurate at low frame rates.
//
// There is no global animation manager — callers invoke Update themselves,
// once per tick, and draw whatever Key reports.
type AnimationPlayer struct {
	clip   AnimationClip
	tweens []*gween.Tween
	frame  int

	// Done is true once a non-looping clip has played its last frame.
	Done bool
}

// NewAnimationPlayer creates a player positioned at the clip's first frame.
func NewAnimationPlayer(clip AnimationClip) *AnimationPlayer {
	p := &AnimationPlayer{clip: clip}
	p.tweens = make([]*gween.Tween, len(clip.Frames))
	for i, f := range clip.Frames {
		p.tweens[i] = gween.New(0, 1, float32(f.Duration), ease.Linear)
	}
	if len(clip.Frames) == 0 {
		p.Done = true
	}
	return p
}

// Key returns the atlas entry key of the current frame, or "" for an empty clip.
func (p *AnimationPlayer) Key() string {
	if len(p.clip.Frames) == 0 {
		return ""
	}
	return p.clip.Frames[p.frame].Key
}

// Frame returns the index of the current frame.
func (p *AnimationPlayer) Frame() int { return p.frame }

// Update advances playback by dt seconds, crossing as many frame boundaries
// as the elapsed time covers. It returns the current frame's entry key.
func (p *AnimationPlayer) Update(dt float64) string {
	remaining := float32(dt)
	for remaining > 0 && !p.Done {
		_, finished := p.tweens[p.frame].Update(remaining)
		if !finished {
			break
		}
		remaining = p.tweens[p.frame].Overflow
		p.advance()
	}
	return p.Key()
}

// Restart rewinds the player to the first frame.
func (p *AnimationPlayer) Restart() {
	for _, t := range p.tweens {
		t.Reset()
	}
	p.frame = 0
	p.Done = len(p.clip.Frames) == 0
}

func (p *AnimationPlayer) advance() {
	if p.frame+1 < len(p.clip.Frames) {
		p.frame++
		return
	}
	if p.clip.Loop {
		for _, t := range p.tweens {
			t.Reset()
		}
		p.frame = 0
		return
	}
	p.Done = true
}
