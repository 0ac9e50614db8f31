package kiln

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// Frame is one step of an animation clip: the atlas entry key to display and
// how long to hold it, in seconds.
type Frame struct {
	Key      string  `json:"key"`
	Duration float64 `json:"duration"`
}

// AnimationClip is a named, ordered sequence of frames.
type AnimationClip struct {
	Name   string  `json:"name"`
	Frames []Frame `json:"frames"`
	Loop   bool    `json:"loop,omitempty"`
}

// Duration returns the total length of the clip in seconds.
func (c AnimationClip) Duration() float64 {
	var total float64
	for _, f := range c.Frames {
		total += f.Duration
	}
	return total
}

// SpriteAsset binds a stable GUID and logical name to an atlas entry plus any
// animation clips derived from its source sheet. Sprite assets are owned by
// the Registry once added; reimporting the same source file supersedes the
// previous asset under the same GUID.
type SpriteAsset struct {
	GUID  string          `json:"guid"`
	Name  string          `json:"name"`
	Atlas AtlasID         `json:"atlas"`
	Entry string          `json:"entry"`
	Clips []AnimationClip `json:"clips,omitempty"`
}

// Clip returns the named animation clip.
func (s *SpriteAsset) Clip(name string) (AnimationClip, bool) {
	for _, c := range s.Clips {
		if c.Name == name {
			return c, true
		}
	}
	return AnimationClip{}, false
}

// Encode serializes the asset as indented JSON, suitable for both the source
// and binary artifact copies.
func (s *SpriteAsset) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("kiln: encode sprite %q: %w", s.Name, err)
	}
	return append(data, '\n'), nil
}

// DecodeSprite parses sprite asset JSON produced by Encode.
func DecodeSprite(data []byte) (*SpriteAsset, error) {
	var s SpriteAsset
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("kiln: parse sprite asset: %w", err)
	}
	if s.GUID == "" {
		return nil, fmt.Errorf("kiln: sprite asset %q has no guid", s.Name)
	}
	return &s, nil
}

// DeriveGUID returns the deterministic GUID for an atlas entry key.
// Deriving the GUID from the key (rather than generating a random one) keeps
// repeated imports of an unchanged resource tree byte-identical on disk and
// lets a reimport supersede the previous asset under the same GUID.
func DeriveGUID(key string) string {
	sum := sha256.Sum256([]byte("kiln/sprite:" + key))
	return fmt.Sprintf("%x-%x-%x-%x-%x", sum[0:4], sum[4:6], sum[6:8], sum[8:10], sum[10:16])
}
