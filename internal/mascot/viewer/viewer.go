// Package viewer runs the mascot: it owns the scene, the camera rig and the
// interaction state, and performs one animation-loop iteration per Frame.
//
// A Viewer is not safe for concurrent use. The host calls every method from
// the one thread that drives the frame loop; loading happens on its own
// goroutine and is handed back through the loader's channels, which Frame
// drains without blocking.
package viewer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/tux-viewer/internal/config"
	"github.com/Faultbox/tux-viewer/internal/engine/camera"
	"github.com/Faultbox/tux-viewer/internal/engine/clock"
	"github.com/Faultbox/tux-viewer/internal/engine/scenegraph"
	"github.com/Faultbox/tux-viewer/internal/logger"
	"github.com/Faultbox/tux-viewer/internal/mascot/animation"
	"github.com/Faultbox/tux-viewer/internal/mascot/fallback"
	"github.com/Faultbox/tux-viewer/internal/mascot/interaction"
	"github.com/Faultbox/tux-viewer/internal/mascot/loader"
	"github.com/Faultbox/tux-viewer/internal/mascot/normalize"
)

// ErrHostUnavailable reports that no drawable surface was given. The viewer
// stays inert instead of failing.
var ErrHostUnavailable = errors.New("host surface unavailable")

// Surface is the drawable the viewer renders into.
type Surface interface {
	// Size returns the logical size, in the units pointer events use.
	Size() (width, height int)
	// PixelRatio returns drawable pixels per logical unit.
	PixelRatio() float32
}

// Renderer draws the scene through the camera. root is nil until a figure
// is attached.
type Renderer interface {
	SetSize(width, height int, pixelRatio float32)
	Render(root *scenegraph.Node, cam *camera.Rig) error
	Close()
}

// AssetSource starts an asynchronous asset load.
type AssetSource interface {
	Load(ctx context.Context, path string) *loader.Pending
}

// Options configures a Viewer.
type Options struct {
	AssetPath     string
	TargetSize    float32
	Camera        camera.Config
	AutoRotate    bool
	ResumeDelay   time.Duration
	MaxPixelRatio float32

	// Clock overrides the frame clock; nil reads wall time.
	Clock *clock.Clock
}

// OptionsFromConfig maps the application config onto viewer options.
func OptionsFromConfig(cfg *config.Config) Options {
	c := cfg.Camera
	return Options{
		AssetPath:  cfg.Asset.Path,
		TargetSize: cfg.Asset.TargetSize,
		Camera: camera.Config{
			FOV:             c.FOV,
			Near:            c.Near,
			Far:             c.Far,
			Distance:        c.Distance,
			Damping:         c.Damping,
			RotateSpeed:     c.RotateSpeed,
			AutoRotateSpeed: c.AutoRotateSpeed,
			Limits: camera.Limits{
				MinPolar:   c.MinPolar,
				MaxPolar:   c.MaxPolar,
				MinAzimuth: c.MinAzimuth,
				MaxAzimuth: c.MaxAzimuth,
			},
		},
		AutoRotate:    c.AutoRotate,
		ResumeDelay:   c.ResumeDelay,
		MaxPixelRatio: cfg.Window.MaxPixelRatio,
	}
}

// Viewer is one mascot instance.
type Viewer struct {
	opts     Options
	log      *zap.Logger
	host     Surface
	renderer Renderer
	source   AssetSource

	clock *clock.Clock
	rig   *camera.Rig
	ctrl  *interaction.Controller

	root   *scenegraph.Node
	player *animation.ClipPlayer

	pending *loader.Pending
	cancel  context.CancelFunc
	lastPct int

	dragging     bool
	lastX, lastY float32

	fallback bool
	started  bool
	closed   bool
	err      error
}

// New builds a viewer. A nil host yields an inert viewer whose methods do
// nothing; Err then reports ErrHostUnavailable. A nil source resolves the
// load immediately to the fallback figure.
func New(host Surface, renderer Renderer, source AssetSource, opts Options, log *zap.Logger) *Viewer {
	if log == nil {
		log = logger.Named("viewer")
	}
	v := &Viewer{opts: opts, log: log, lastPct: -1}

	if host == nil || renderer == nil {
		v.err = ErrHostUnavailable
		log.Warn("viewer inert", zap.Error(v.err))
		return v
	}

	if v.opts.TargetSize <= 0 {
		v.opts.TargetSize = normalize.TargetSize
	}
	if v.opts.MaxPixelRatio <= 0 {
		v.opts.MaxPixelRatio = 2
	}

	v.host = host
	v.renderer = renderer
	v.source = source
	v.clock = opts.Clock
	if v.clock == nil {
		v.clock = clock.New()
	}
	v.rig = camera.NewRig(opts.Camera)
	v.ctrl = interaction.New(opts.ResumeDelay)
	v.syncAutoRotate()
	v.Resize()
	return v
}

// Err returns ErrHostUnavailable for an inert viewer, nil otherwise.
func (v *Viewer) Err() error {
	return v.err
}

func (v *Viewer) inert() bool {
	return v.err != nil || v.closed
}

// Start begins the single load attempt. Later calls do nothing.
func (v *Viewer) Start(ctx context.Context) {
	if v.inert() || v.started {
		return
	}
	v.started = true

	if v.source == nil {
		v.pending = loader.Completed(loader.Result{Err: errors.New("no asset source")})
		return
	}

	ctx, v.cancel = context.WithCancel(ctx)
	v.log.Info("loading asset", zap.String("path", v.opts.AssetPath))
	v.pending = v.source.Load(ctx, v.opts.AssetPath)
}

// Frame runs one loop iteration: clock, load hand-off, resume timer, clip,
// idle sway, camera, render. It never blocks on the load.
func (v *Viewer) Frame() error {
	if v.inert() {
		return nil
	}

	st := v.clock.Tick()
	v.poll()

	if v.ctrl.Advance(st.Elapsed) {
		v.log.Debug("interaction resumed idle")
	}
	v.syncAutoRotate()

	dt := float32(st.DeltaSeconds())
	v.player.Advance(dt)
	if v.root != nil {
		animation.IdleSway(st.Seconds()).Apply(v.root)
	}
	v.rig.Tick(dt)

	return v.renderer.Render(v.root, v.rig)
}

// poll drains progress and attaches the figure once the load resolves.
func (v *Viewer) poll() {
	if v.pending == nil {
		return
	}

drain:
	for {
		select {
		case f, ok := <-v.pending.Progress():
			if !ok {
				break drain
			}
			if pct := int(f * 100); pct != v.lastPct {
				v.lastPct = pct
				v.log.Debug("loading asset", zap.Int("percent", pct))
			}
		default:
			break drain
		}
	}

	res, ok := v.pending.Poll()
	if !ok {
		return
	}
	v.pending = nil
	v.resolve(res)
}

func (v *Viewer) resolve(res loader.Result) {
	if res.OK() {
		v.attach(res.Scene, res.Clips)
		return
	}

	err := res.Err
	if err == nil {
		err = errors.New("load produced no scene")
	}
	v.log.Warn("asset load failed, using fallback figure",
		zap.String("path", v.opts.AssetPath),
		zap.Stringer("kind", loader.KindOf(err)),
		zap.Error(err),
	)
	v.attach(fallback.Penguin(), nil)
	v.fallback = true
	v.log.Info("fallback figure created")
}

func (v *Viewer) attach(scene *scenegraph.Node, clips []*scenegraph.Clip) {
	root := normalize.Normalize(scene, v.opts.TargetSize)
	if scenegraph.BoxOf(root).MaxExtent() == 0 {
		v.log.Warn("figure has no extent, left unscaled", zap.String("name", scene.Name))
	}
	v.root = root

	if len(clips) > 0 {
		v.player = animation.NewClipPlayer(clips[0])
		v.log.Debug("playing clip", zap.String("clip", clips[0].Name), zap.Int("clips", len(clips)))
	}
}

func (v *Viewer) syncAutoRotate() {
	v.rig.SetAutoRotate(v.opts.AutoRotate && v.ctrl.AutoRotate())
}

// PointerDown starts a drag at logical coordinates x, y.
func (v *Viewer) PointerDown(x, y float32) {
	if v.inert() {
		return
	}
	v.ctrl.PointerDown()
	v.syncAutoRotate()
	v.dragging = true
	v.lastX, v.lastY = x, y
}

// PointerMove rotates the camera while a drag is in progress.
func (v *Viewer) PointerMove(x, y float32) {
	if v.inert() || !v.dragging {
		return
	}
	v.rig.ApplyInteractionDelta(x-v.lastX, y-v.lastY)
	v.lastX, v.lastY = x, y
}

// PointerUp ends a drag and arms the auto-rotate resume timer.
func (v *Viewer) PointerUp(x, y float32) {
	if v.inert() {
		return
	}
	v.dragging = false
	v.ctrl.PointerUp(v.clock.Now())
}

// Resize re-reads the host size: camera aspect and drag scale follow the
// logical size, the render target gets the pixel ratio capped at MaxPixelRatio.
func (v *Viewer) Resize() {
	if v.inert() {
		return
	}
	w, h := v.host.Size()
	if w <= 0 || h <= 0 {
		return
	}
	v.rig.SetViewport(w, h)
	v.renderer.SetSize(w, h, v.pixelRatio())
}

func (v *Viewer) pixelRatio() float32 {
	r := v.host.PixelRatio()
	if r <= 0 {
		r = 1
	}
	return min(r, v.opts.MaxPixelRatio)
}

// Close cancels the resume timer and the load, and releases the renderer.
// Safe to call more than once.
func (v *Viewer) Close() {
	if v.inert() {
		return
	}
	v.closed = true

	v.ctrl.Reset()
	if v.cancel != nil {
		v.cancel()
	}
	if v.pending != nil {
		v.pending.Cancel()
		v.pending = nil
	}
	v.renderer.Close()
	v.log.Info("viewer closed")
}

// Root returns the attached figure, or nil while the scene is empty.
func (v *Viewer) Root() *scenegraph.Node {
	return v.root
}

// Player returns the clip player, or nil when the figure has no clips.
func (v *Viewer) Player() *animation.ClipPlayer {
	return v.player
}

// AutoRotate reports whether the camera is auto-rotating.
func (v *Viewer) AutoRotate() bool {
	return v.rig != nil && v.rig.AutoRotate()
}

// Mode returns the interaction state.
func (v *Viewer) Mode() interaction.Mode {
	if v.ctrl == nil {
		return interaction.Idle
	}
	return v.ctrl.Mode()
}

// Camera returns the camera rig, nil for an inert viewer.
func (v *Viewer) Camera() *camera.Rig {
	return v.rig
}

// Status describes what the viewer is showing.
type Status int

const (
	StatusEmpty Status = iota
	StatusLoading
	StatusModel
	StatusFallback
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusModel:
		return "model"
	case StatusFallback:
		return "fallback"
	default:
		return "empty"
	}
}

// Status reports whether the scene is empty, waiting on the load, or showing
// the loaded model or the fallback figure.
func (v *Viewer) Status() Status {
	switch {
	case v.root != nil && v.fallback:
		return StatusFallback
	case v.root != nil:
		return StatusModel
	case v.pending != nil:
		return StatusLoading
	default:
		return StatusEmpty
	}
}

// Loading reports whether the load attempt is still in flight.
func (v *Viewer) Loading() bool {
	return v.pending != nil
}
