// Package kiln is the asset side of a 2D game engine built on [Ebitengine]:
// texture atlases, sprite assets, and the registry the renderer reads them
// from at runtime.
//
// The editor-facing import pipeline — directory scanning, change detection,
// bin packing, atlas assembly, and dual-path persistence — lives in
// [github.com/kilnpack/kiln/importer]. This package holds what the engine
// needs after import: atlas pages plus entry lookups, sprite assets with
// animation clips, and the live [Registry].
//
// # Quick start
//
//	reg := kiln.NewRegistry()
//
//	data, _ := os.ReadFile("atlases/gameplay/gameplay.atlas.json")
//	atlas, err := kiln.LoadAtlas(data, kiln.AtlasGameplay, pages)
//	if err != nil {
//		log.Fatal(err)
//	}
//	reg.ReplaceAtlas(atlas)
//
//	entry := atlas.Entry("images/hero")
//
// # Atlases
//
// A [TextureAtlas] owns one or more fixed-size page images and a map from
// entry key to [AtlasEntry] (page index plus pixel rect). Entry keys are
// derived from the source file's path relative to the resource root, with
// the extension stripped and separators normalized to "/"; the same key is
// referenced by sprite assets and animation clips.
//
// Looking up a missing entry returns a 1x1 magenta placeholder rather than
// failing, so a renamed or unimported frame is visible on screen instead of
// crashing the game.
//
// # Sprite assets and animation
//
// A [SpriteAsset] binds a GUID and logical name to an atlas entry and a set
// of named [AnimationClip]s. Clips are played with [AnimationPlayer], which
// steps per-frame durations via [gween] tweens.
//
// # Live reload
//
// The import pipeline builds replacement atlases off to the side and swaps
// them in with [Registry.ReplaceAtlas], so the renderer always sees either
// the fully-old or fully-new atlas. ECS integration for reload events is
// provided by the [Donburi] adapter in kiln/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package kiln
