package kiln

import "testing"

func walkClip(loop bool) AnimationClip {
	return AnimationClip{
		Name: "walk",
		Loop: loop,
		Frames: []Frame{
			{Key: "walk#0", Duration: 0.1},
			{Key: "walk#1", Duration: 0.1},
			{Key: "walk#2", Duration: 0.2},
		},
	}
}

func TestAnimationPlayer_StartsAtFirstFrame(t *testing.T) {
	p := NewAnimationPlayer(walkClip(false))
	if got := p.Key(); got != "walk#0" {
		t.Errorf("initial key = %q, want walk#0", got)
	}
	if p.Done {
		t.Error("player should not start done")
	}
}

func TestAnimationPlayer_AdvancesOnFrameBoundary(t *testing.T) {
	p := NewAnimationPlayer(walkClip(false))
	p.Update(0.05)
	if got := p.Frame(); got != 0 {
		t.Errorf("frame after 0.05s = %d, want 0", got)
	}
	p.Update(0.06) // crosses the 0.1s boundary
	if got := p.Frame(); got != 1 {
		t.Errorf("frame after 0.11s = %d, want 1", got)
	}
}

func TestAnimationPlayer_LargeDtCrossesMultipleFrames(t *testing.T) {
	p := NewAnimationPlayer(walkClip(false))
	key := p.Update(0.25) // 0.1 + 0.1 elapsed, 0.05 into frame 2
	if p.Frame() != 2 || key != "walk#2" {
		t.Errorf("frame = %d key = %q, want 2 walk#2", p.Frame(), key)
	}
}

func TestAnimationPlayer_OneShotFinishes(t *testing.T) {
	p := NewAnimationPlayer(walkClip(false))
	p.Update(1.0)
	if !p.Done {
		t.Error("one-shot clip should be done after its full duration")
	}
	if got := p.Key(); got != "walk#2" {
		t.Errorf("finished key = %q, want last frame walk#2", got)
	}
}

func TestAnimationPlayer_LoopWrapsAround(t *testing.T) {
	p := NewAnimationPlayer(walkClip(true))
	p.Update(0.41) // full 0.4s cycle plus a little
	if p.Done {
		t.Error("looping clip must never finish")
	}
	if got := p.Frame(); got != 0 {
		t.Errorf("frame after wrap = %d, want 0", got)
	}
}

func TestAnimationPlayer_Restart(t *testing.T) {
	p := NewAnimationPlayer(walkClip(false))
	p.Update(1.0)
	p.Restart()
	if p.Done || p.Frame() != 0 {
		t.Errorf("after restart: done=%v frame=%d", p.Done, p.Frame())
	}
	p.Update(0.15)
	if got := p.Frame(); got != 1 {
		t.Errorf("frame after restart+0.15s = %d, want 1", got)
	}
}

func TestAnimationPlayer_EmptyClip(t *testing.T) {
	p := NewAnimationPlayer(AnimationClip{Name: "empty"})
	if !p.Done {
		t.Error("empty clip should start done")
	}
	if got := p.Update(0.1); got != "" {
		t.Errorf("empty clip key = %q, want \"\"", got)
	}
}
