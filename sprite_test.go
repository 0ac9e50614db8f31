package kiln

import "testing"

func testSprite() *SpriteAsset {
	return &SpriteAsset{
		GUID:  DeriveGUID("images/hero_4x2"),
		Name:  "hero_4x2",
		Atlas: AtlasGameplay,
		Entry: "images/hero_4x2#0",
		Clips: []AnimationClip{
			{
				Name: "default",
				Loop: true,
				Frames: []Frame{
					{Key: "images/hero_4x2#0", Duration: 0.1},
					{Key: "images/hero_4x2#1", Duration: 0.1},
					{Key: "images/hero_4x2#2", Duration: 0.25},
				},
			},
		},
	}
}

func TestSprite_RoundTrip(t *testing.T) {
	s := testSprite()
	data, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := DecodeSprite(data)
	if err != nil {
		t.Fatalf("DecodeSprite: %v", err)
	}
	if got.GUID != s.GUID || got.Name != s.Name || got.Atlas != s.Atlas || got.Entry != s.Entry {
		t.Errorf("round trip = %+v, want %+v", got, s)
	}
	clip, ok := got.Clip("default")
	if !ok {
		t.Fatal("clip \"default\" missing after round trip")
	}
	if len(clip.Frames) != 3 || !clip.Loop {
		t.Errorf("clip = %+v", clip)
	}
	if clip.Frames[2].Duration != 0.25 {
		t.Errorf("frame 2 duration = %v, want 0.25", clip.Frames[2].Duration)
	}
}

func TestDecodeSprite_NoGUID(t *testing.T) {
	_, err := DecodeSprite([]byte(`{"name": "hero"}`))
	if err == nil {
		t.Fatal("expected error for sprite without guid")
	}
}

func TestSprite_ClipMissing(t *testing.T) {
	s := testSprite()
	if _, ok := s.Clip("walk"); ok {
		t.Error("unexpected clip \"walk\"")
	}
}

func TestClip_Duration(t *testing.T) {
	s := testSprite()
	clip, _ := s.Clip("default")
	if got := clip.Duration(); got != 0.45 {
		t.Errorf("Duration = %v, want 0.45", got)
	}
}

func TestDeriveGUID_Deterministic(t *testing.T) {
	a := DeriveGUID("images/hero")
	b := DeriveGUID("images/hero")
	if a != b {
		t.Errorf("GUIDs differ for same key: %s vs %s", a, b)
	}
	if a == DeriveGUID("images/enemy") {
		t.Error("distinct keys produced the same GUID")
	}
	// 8-4-4-4-12 hex groups.
	if len(a) != 36 {
		t.Errorf("GUID length = %d, want 36 (%s)", len(a), a)
	}
}
