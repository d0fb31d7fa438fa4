// Package loader fetches the mascot glTF/GLB asset off the frame loop.
package loader

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/tux-viewer/internal/engine/scenegraph"
	"github.com/Faultbox/tux-viewer/internal/logger"
)

// Result is the terminal outcome of one load attempt: either Scene (with zero
// or more Clips) or Err, never both.
type Result struct {
	Scene *scenegraph.Node
	Clips []*scenegraph.Clip
	Err   error
}

// OK reports whether the attempt produced a scene.
func (r Result) OK() bool {
	return r.Err == nil && r.Scene != nil
}

// Pending is an in-flight load. Progress values arrive on Progress() until
// the channel closes; then exactly one Result arrives on Done().
type Pending struct {
	progress chan float64
	done     chan Result
	cancel   context.CancelFunc
}

// Progress returns the diagnostic progress feed, fractions in [0, 1].
// Values are dropped rather than blocking the loader when nobody reads.
func (p *Pending) Progress() <-chan float64 {
	return p.progress
}

// Done delivers the single Result, then closes.
func (p *Pending) Done() <-chan Result {
	return p.done
}

// Poll returns the Result if it is ready, without blocking.
func (p *Pending) Poll() (Result, bool) {
	select {
	case r, ok := <-p.done:
		return r, ok
	default:
		return Result{}, false
	}
}

// Cancel aborts the attempt. The Result then carries a context error. Safe to
// call any number of times.
func (p *Pending) Cancel() {
	p.cancel()
}

// Completed returns a Pending that has already resolved to res.
func Completed(res Result) *Pending {
	p := &Pending{
		progress: make(chan float64),
		done:     make(chan Result, 1),
		cancel:   func() {},
	}
	close(p.progress)
	p.done <- res
	close(p.done)
	return p
}

// Loader decodes glTF 2.0 assets into scene graphs.
type Loader struct {
	log *zap.Logger
}

// New creates a loader. A nil logger uses the global one.
func New(log *zap.Logger) *Loader {
	if log == nil {
		log = logger.Named("loader")
	}
	return &Loader{log: log}
}

// Load starts decoding path on its own goroutine and returns immediately.
func (l *Loader) Load(ctx context.Context, path string) *Pending {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending{
		progress: make(chan float64, 16),
		done:     make(chan Result, 1),
		cancel:   cancel,
	}

	go func() {
		defer cancel()
		res := l.LoadSync(ctx, path, func(f float64) {
			select {
			case p.progress <- f:
			default:
			}
		})
		close(p.progress)
		p.done <- res
		close(p.done)
	}()

	return p
}

// LoadSync decodes path on the calling goroutine. progress may be nil.
func (l *Loader) LoadSync(ctx context.Context, path string, progress func(float64)) Result {
	if progress == nil {
		progress = func(float64) {}
	}

	doc, err := l.readDocument(ctx, path, progress)
	if err != nil {
		l.log.Debug("asset load failed", zap.String("path", path), zap.Error(err))
		return Result{Err: err}
	}

	scene, clips, err := convertDocument(doc, l.log)
	if err != nil {
		err = malformed(path, err)
		l.log.Debug("asset conversion failed", zap.String("path", path), zap.Error(err))
		return Result{Err: err}
	}

	progress(1)
	l.log.Info("asset loaded",
		zap.String("path", path),
		zap.Int("meshes", scene.MeshCount()),
		zap.Int("clips", len(clips)),
	)
	return Result{Scene: scene, Clips: clips}
}

func (l *Loader) readDocument(ctx context.Context, path string, progress func(float64)) (*gltf.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(path, err)
	}

	// Text glTF may reference sibling buffer files; let the library resolve them.
	if !strings.EqualFold(filepath.Ext(path), ".glb") {
		if _, err := os.Stat(path); err != nil {
			return nil, unavailable(path, err)
		}
		doc, err := gltf.Open(path)
		if err != nil {
			return nil, classify(path, err)
		}
		return doc, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, unavailable(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, unavailable(path, err)
	}

	pr := &progressReader{ctx: ctx, r: f, total: info.Size(), report: progress, last: -1}
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(pr).Decode(doc); err != nil {
		if pr.err != nil {
			return nil, unavailable(path, pr.err)
		}
		return nil, malformed(path, errors.Wrap(err, "decoding glb"))
	}
	return doc, nil
}

// classify maps errors from gltf.Open, which mixes I/O and parse failures.
func classify(path string, err error) error {
	var pathErr *os.PathError
	if errors.Is(err, os.ErrNotExist) || errors.As(err, &pathErr) {
		return unavailable(path, err)
	}
	return malformed(path, errors.Wrap(err, "decoding gltf"))
}

// progressReader reports whole-percent progress and aborts reads on cancellation.
type progressReader struct {
	ctx    context.Context
	r      io.Reader
	read   int64
	total  int64
	report func(float64)
	last   int
	err    error // I/O or context failure, as opposed to a parse failure
}

func (p *progressReader) Read(b []byte) (int, error) {
	if err := p.ctx.Err(); err != nil {
		p.err = err
		return 0, err
	}
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.total > 0 {
		pct := int(p.read * 100 / p.total)
		if pct != p.last {
			p.last = pct
			p.report(float64(p.read) / float64(p.total))
		}
	}
	if err != nil && err != io.EOF {
		p.err = err
	}
	return n, err
}
