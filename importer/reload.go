package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kilnpack/kiln"
)

// ErrPassRunning is returned when a pass is started while another is active.
var ErrPassRunning = errors.New("kiln: import pass already running")

// State is the reload controller's position in a pass.
type State uint8

const (
	StateIdle    State = iota // no pass in progress
	StateStaging              // scanning the resource tree
	StatePacking              // importers packing staged files
	StateMerging              // folding a temporary pack into the live atlas
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStaging:
		return "staging"
	case StatePacking:
		return "packing"
	case StateMerging:
		return "merging"
	default:
		return "unknown"
	}
}

// Controller orchestrates import passes and owns the handoff between
// background packing and the render thread's atlas swap.
//
// A full pack runs on a background goroutine (StartFullImport) so scanning a
// large resource tree never blocks the host loop; its results wait until
// ApplyPending is called on the thread that owns the graphics context. The
// incremental path (RefreshChanged) is synchronous and is only invoked from
// the foreground refresh entry point: it packs changed files into a
// temporary atlas and merges them into the live one.
type Controller struct {
	cfg       Config
	importers *Registry
	assets    *kiln.Registry
	sink      kiln.TextureSink
	paths     *DualPath
	tracker   *ChangeTracker
	log       zerolog.Logger

	mu       sync.Mutex
	state    State
	pending  []*ImportResult
	notifier kiln.ReloadNotifier
	group    *errgroup.Group
}

// NewController validates the configuration and wires the pipeline together.
// A missing resource root aborts construction; nothing is committed.
func NewController(cfg Config, importers *Registry, assets *kiln.Registry, sink kiln.TextureSink, log zerolog.Logger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		cfg:       cfg,
		importers: importers,
		assets:    assets,
		sink:      sink,
		paths:     NewDualPath(cfg.SourceDir, cfg.BinaryDir, log),
		tracker:   LoadTracker(cfg.BinaryDir),
		log:       log,
	}, nil
}

// SetNotifier installs a reload notifier invoked after every atlas swap.
func (c *Controller) SetNotifier(n kiln.ReloadNotifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifier = n
}

// State returns the controller's current pass state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Paths exposes the dual-path serializer, for importers constructed outside
// the controller.
func (c *Controller) Paths() *DualPath { return c.paths }

// Tracker exposes the change tracker.
func (c *Controller) Tracker() *ChangeTracker { return c.tracker }

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// StartFullImport begins a full pack of the whole resource tree on a
// background goroutine. Returns ErrPassRunning if a pass is already active.
// Completion is observed through Wait; results become visible to the
// renderer only after ApplyPending runs on the graphics thread.
func (c *Controller) StartFullImport(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle || c.group != nil {
		c.mu.Unlock()
		return ErrPassRunning
	}
	g, gctx := errgroup.WithContext(ctx)
	c.group = g
	c.state = StateStaging
	c.mu.Unlock()

	g.Go(func() error { return c.runFullPass(gctx) })
	return nil
}

// Wait blocks until the background full pack finishes and returns its error.
// Returns nil when no pass was started.
func (c *Controller) Wait() error {
	c.mu.Lock()
	g := c.group
	c.mu.Unlock()
	if g == nil {
		return nil
	}
	err := g.Wait()
	c.mu.Lock()
	c.group = nil
	c.mu.Unlock()
	return err
}

func (c *Controller) runFullPass(ctx context.Context) error {
	defer c.setState(StateIdle)
	defer c.flushAll()

	staged, _, err := c.importers.Stage(c.cfg.ResourceRoot, c.tracker)
	if err != nil {
		return err
	}
	c.log.Debug().Int("files", staged).Msg("staged resource files")

	c.setState(StatePacking)
	var results []*ImportResult
	for _, imp := range c.importers.Importers() {
		// A failed importer aborts only its own output; the pass continues.
		if err := imp.Import(ctx, ModeFull); err != nil {
			c.log.Error().Err(err).Str("importer", imp.Name()).Msg("import failed")
			continue
		}
		if res := imp.TakeResult(); res != nil {
			c.persistSprites(res)
			results = append(results, res)
		}
	}

	if err := c.tracker.Commit(time.Now()); err != nil {
		c.log.Error().Err(err).Msg("import state commit failed")
	}

	c.mu.Lock()
	c.pending = append(c.pending, results...)
	c.mu.Unlock()
	return nil
}

// ApplyPending uploads the pages of every finished full-pack result and
// swaps the corresponding live atlases. Must be called on the thread that
// owns the graphics context — the "after content loaded" synchronization
// point. Safe to call every frame; it is a no-op while nothing is pending.
func (c *Controller) ApplyPending() {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, res := range pending {
		c.publish(res)
	}
}

// LoadArtifacts restores a previously imported atlas from its on-disk
// artifacts and swaps it into the registry, without running an import pass.
// Typically called once at startup, before the first pass. Must be called on
// the thread that owns the graphics context.
func (c *Controller) LoadArtifacts(id kiln.AtlasID, name string) error {
	data, err := c.paths.Load(path.Join("atlases", name, name+".atlas.json"))
	if err != nil {
		return fmt.Errorf("kiln: load atlas %q: %w", name, err)
	}
	d, err := kiln.DecodeAtlasDescriptor(data)
	if err != nil {
		return err
	}

	atlas := kiln.NewAtlas(id, d.Name)
	for _, pg := range d.Pages {
		raw, err := c.paths.Load(pg.Path)
		if err != nil {
			return fmt.Errorf("kiln: load atlas page %s: %w", pg.Path, err)
		}
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return fmt.Errorf("kiln: decode atlas page %s: %w", pg.Path, err)
		}
		atlas.Pages = append(atlas.Pages, c.sink.Upload(rgbaOf(img)))
	}
	for key, e := range d.Entries {
		if e.Page < 0 || e.Page >= len(atlas.Pages) {
			return fmt.Errorf("kiln: atlas %q entry %q references page %d of %d", d.Name, key, e.Page, len(atlas.Pages))
		}
		atlas.SetEntry(key, entryFromDescriptor(e, 0))
	}

	c.assets.ReplaceAtlas(atlas)
	return nil
}

func rgbaOf(img image.Image) *image.RGBA {
	if r, ok := img.(*image.RGBA); ok {
		return r
	}
	b := img.Bounds()
	r := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(r, r.Bounds(), img, b.Min, draw.Src)
	return r
}

// RefreshChanged runs one incremental pass synchronously:
// Idle → Staging → Packing(temporary) → Merging → Idle, or straight back to
// Idle when no staged file changed since the last committed pass. Must be
// called from the thread that owns the graphics context.
func (c *Controller) RefreshChanged(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrPassRunning
	}
	c.state = StateStaging
	c.mu.Unlock()

	defer c.setState(StateIdle)
	defer c.flushAll()

	_, changed, err := c.importers.Stage(c.cfg.ResourceRoot, c.tracker)
	if err != nil {
		return err
	}
	if changed == 0 {
		// Nothing to do; skip straight back to idle without touching the
		// live atlas or uploading anything.
		c.log.Debug().Msg("refresh: no changed files")
		return nil
	}

	c.setState(StatePacking)
	var results []*ImportResult
	for _, imp := range c.importers.Importers() {
		if err := imp.Import(ctx, ModeIncremental); err != nil {
			c.log.Error().Err(err).Str("importer", imp.Name()).Msg("incremental import failed")
			continue
		}
		if res := imp.TakeResult(); res != nil {
			results = append(results, res)
		}
	}

	c.setState(StateMerging)
	for _, res := range results {
		c.merge(res)
	}

	if err := c.tracker.Commit(time.Now()); err != nil {
		c.log.Error().Err(err).Msg("import state commit failed")
	}
	return nil
}

// publish replaces the live atlas for a full-pack result and supersedes its
// sprite assets by GUID.
func (c *Controller) publish(res *ImportResult) {
	atlas := kiln.NewAtlas(res.Target, res.Packed.Name)
	for _, p := range res.Packed.Pages {
		atlas.Pages = append(atlas.Pages, c.sink.Upload(p))
	}
	keys := make([]string, 0, len(res.Packed.Descriptor.Entries))
	for key, e := range res.Packed.Descriptor.Entries {
		atlas.SetEntry(key, entryFromDescriptor(e, 0))
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, sp := range res.Sprites {
		c.assets.RemoveSprite(sp.GUID)
		c.assets.AddSprite(sp)
	}
	c.assets.ReplaceAtlas(atlas)
	c.notify(kiln.ReloadEvent{Atlas: res.Target, Keys: keys})
}

// merge folds a temporary pack into the live atlas for the result's target
// id. Temporary pages are appended to the live page list and changed keys
// are re-pointed at them — replace-by-key, so repeated reloads never
// accumulate duplicate entries. Unchanged entries keep their page and rect.
// Sprite assets are superseded by GUID and persisted; once merged, the
// temporary atlas's on-disk artifacts are deleted.
func (c *Controller) merge(res *ImportResult) {
	var next *kiln.TextureAtlas
	var offset int
	if live, ok := c.assets.Atlas(res.Target); ok {
		next = live.Clone()
		offset = len(next.Pages)
	} else {
		// First import ever went through the incremental path; adopt the
		// temporary pack as the live atlas directly.
		next = kiln.NewAtlas(res.Target, res.Target.String())
	}
	for _, p := range res.Packed.Pages {
		next.Pages = append(next.Pages, c.sink.Upload(p))
	}
	keys := make([]string, 0, len(res.Packed.Descriptor.Entries))
	for key, e := range res.Packed.Descriptor.Entries {
		next.SetEntry(key, entryFromDescriptor(e, offset))
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, sp := range res.Sprites {
		c.assets.RemoveSprite(sp.GUID)
		c.assets.AddSprite(sp)
	}
	c.persistSprites(res)

	c.assets.ReplaceAtlas(next)

	for i := range res.Packed.Pages {
		c.paths.Delete(res.Packed.PageRel(i))
	}
	c.paths.Delete(res.Packed.DescriptorRel())

	c.notify(kiln.ReloadEvent{Atlas: res.Target, Keys: keys})
}

// persistSprites writes each sprite asset through the dual-path serializer.
// A source-write failure aborts only that sprite's artifact.
func (c *Controller) persistSprites(res *ImportResult) {
	for _, sp := range res.Sprites {
		data, err := sp.Encode()
		if err != nil {
			c.log.Error().Err(err).Str("sprite", sp.Name).Msg("sprite encode failed")
			continue
		}
		key, _, _ := strings.Cut(sp.Entry, "#")
		if err := c.paths.Save(SpriteRel(key), data); err != nil {
			c.log.Error().Err(err).Str("sprite", sp.Name).Msg("sprite artifact aborted")
		}
	}
}

func (c *Controller) notify(ev kiln.ReloadEvent) {
	c.mu.Lock()
	n := c.notifier
	c.mu.Unlock()
	if n != nil {
		n.NotifyReload(ev)
	}
}

func (c *Controller) flushAll() {
	for _, imp := range c.importers.Importers() {
		imp.Flush()
	}
}

func entryFromDescriptor(e kiln.EntryDescriptor, pageOffset int) kiln.AtlasEntry {
	return kiln.AtlasEntry{
		Page:    uint16(e.Page + pageOffset),
		X:       uint16(e.X),
		Y:       uint16(e.Y),
		Width:   uint16(e.W),
		Height:  uint16(e.H),
		Rotated: e.Rotated,
	}
}
