// Package importer is the editor-side resource import pipeline: it scans the
// resource tree, detects changed files, packs sprite frames into fixed-size
// atlas pages, and persists every artifact to both a human-editable source
// directory and a runtime binary directory.
//
// A pass flows through five stages. The [Registry] matches each file on disk
// to the first registered [Importer] whose [Filter] accepts it and stages the
// file with a changed flag from the [ChangeTracker]. Each importer's Import
// step runs the [Packer] over its staged files, composites the resulting
// placements into page buffers via [Assemble], and persists pages, the atlas
// descriptor, and per-sprite assets through [DualPath]. The [Controller]
// orchestrates the two entry points: a full pack on a background goroutine
// whose results are applied on the render thread with
// [Controller.ApplyPending], and a synchronous incremental pass
// ([Controller.RefreshChanged]) that repacks only changed files into a
// temporary atlas and merges them into the live one.
package importer
