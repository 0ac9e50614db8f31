package kiln

import "sync"

// Registry is the live asset store: one TextureAtlas per atlas id plus every
// loaded SpriteAsset keyed by GUID. It is constructed at startup and passed
// to collaborators explicitly — there is no ambient global registry.
//
// Atlas swaps are atomic from the renderer's point of view: ReplaceAtlas
// installs a fully-built atlas pointer under the lock, so readers observe
// either the old or the new atlas, never a partially-populated one.
type Registry struct {
	mu      sync.RWMutex
	sprites map[string]*SpriteAsset
	atlases map[AtlasID]*TextureAtlas
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sprites: make(map[string]*SpriteAsset),
		atlases: make(map[AtlasID]*TextureAtlas),
	}
}

// Sprite returns the sprite asset with the given GUID.
func (r *Registry) Sprite(guid string) (*SpriteAsset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sprites[guid]
	return s, ok
}

// AddSprite adds or replaces the sprite asset stored under its GUID.
func (r *Registry) AddSprite(s *SpriteAsset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sprites[s.GUID] = s
}

// RemoveSprite deletes the sprite asset with the given GUID and reports
// whether it was present.
func (r *Registry) RemoveSprite(guid string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sprites[guid]
	delete(r.sprites, guid)
	return ok
}

// SpriteCount returns the number of registered sprite assets.
func (r *Registry) SpriteCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sprites)
}

// Atlas returns the live atlas for the given id.
func (r *Registry) Atlas(id AtlasID) (*TextureAtlas, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.atlases[id]
	return a, ok
}

// ReplaceAtlas swaps the live atlas for a.ID to a. The atlas must be fully
// built before it is passed in; it is not mutated after the swap.
func (r *Registry) ReplaceAtlas(a *TextureAtlas) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.atlases[a.ID] = a
}
