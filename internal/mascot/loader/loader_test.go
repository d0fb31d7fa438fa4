package loader

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var quad = [][3]float32{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}

// writeGLB stores doc as a binary glTF in dir and returns its path.
func writeGLB(t *testing.T, dir, name string, doc *gltf.Document) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := gltf.NewEncoder(f)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(doc))
	return path
}

// quadDocument is one indexed quad under a translated parent node.
func quadDocument() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, quad)
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]uint32{"POSITION": pos},
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "body", Translation: [3]float32{1, 2, 3}, Children: []uint32{1}},
		{Name: "quad", Mesh: gltf.Index(0)},
	}
	doc.Scenes[0].Nodes = []uint32{0}
	return doc
}

func TestLoadSyncBuildsScene(t *testing.T) {
	path := writeGLB(t, t.TempDir(), "tux.glb", quadDocument())

	res := New(zap.NewNop()).LoadSync(context.Background(), path, nil)
	require.NoError(t, res.Err)
	require.True(t, res.OK())

	assert.Equal(t, 1, res.Scene.MeshCount())

	body := res.Scene.Find("body")
	require.NotNil(t, body)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, body.Position)
	assert.Equal(t, mgl32.QuatIdent(), body.Rotation)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, body.Scale)

	q := res.Scene.Find("quad")
	require.NotNil(t, q)
	require.NotNil(t, q.Mesh)
	assert.Len(t, q.Mesh.Positions, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, q.Mesh.Indices)
	assert.Len(t, q.Mesh.Normals, 4, "normals are computed when absent")
	assert.Equal(t, "default", q.Material.Name)
	assert.Same(t, body, q.Parent())
}

func TestLoadSyncNonIndexed(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, quad[:3])
	doc.Meshes = []*gltf.Mesh{{
		Primitives: []*gltf.Primitive{{Attributes: map[string]uint32{"POSITION": pos}}},
	}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = []uint32{0}
	path := writeGLB(t, t.TempDir(), "tri.glb", doc)

	res := New(zap.NewNop()).LoadSync(context.Background(), path, nil)
	require.NoError(t, res.Err)
	m := res.Scene.Find("node0")
	require.NotNil(t, m)
	assert.Equal(t, []uint32{0, 1, 2}, m.Mesh.Indices)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.glb")

	res := New(zap.NewNop()).LoadSync(context.Background(), path, nil)
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, ErrAssetUnavailable)
	assert.NotErrorIs(t, res.Err, ErrAssetMalformed)
	assert.Equal(t, AssetUnavailable, KindOf(res.Err))
	assert.Nil(t, res.Scene)
}

func TestLoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.glb")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a glb file"), 0o644))

	res := New(zap.NewNop()).LoadSync(context.Background(), path, nil)
	assert.ErrorIs(t, res.Err, ErrAssetMalformed)
	assert.False(t, res.OK())
}

func TestLoadEmptyScene(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{{Name: "lonely"}}
	doc.Scenes[0].Nodes = []uint32{0}
	path := writeGLB(t, t.TempDir(), "empty.glb", doc)

	res := New(zap.NewNop()).LoadSync(context.Background(), path, nil)
	assert.ErrorIs(t, res.Err, ErrAssetMalformed)
}

func TestLoadBadNodeReference(t *testing.T) {
	doc := quadDocument()
	doc.Scenes[0].Nodes = []uint32{7}
	path := writeGLB(t, t.TempDir(), "bad.glb", doc)

	res := New(zap.NewNop()).LoadSync(context.Background(), path, nil)
	assert.ErrorIs(t, res.Err, ErrAssetMalformed)
}

func TestLoadCanceled(t *testing.T) {
	path := writeGLB(t, t.TempDir(), "tux.glb", quadDocument())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(zap.NewNop()).LoadSync(ctx, path, nil)
	assert.ErrorIs(t, res.Err, ErrAssetUnavailable)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestLoadAsyncDeliversOnce(t *testing.T) {
	path := writeGLB(t, t.TempDir(), "tux.glb", quadDocument())

	p := New(zap.NewNop()).Load(context.Background(), path)

	var last float64
	for f := range p.Progress() {
		assert.GreaterOrEqual(t, f, last, "progress went backwards")
		assert.LessOrEqual(t, f, 1.0)
		last = f
	}

	select {
	case res, ok := <-p.Done():
		require.True(t, ok)
		require.NoError(t, res.Err)
		assert.NotNil(t, res.Scene)
	case <-time.After(5 * time.Second):
		t.Fatal("no result")
	}

	_, ok := <-p.Done()
	assert.False(t, ok, "Done must close after the single result")
	p.Cancel() // no-op after completion
}

func TestLoadAsyncFailure(t *testing.T) {
	p := New(zap.NewNop()).Load(context.Background(), filepath.Join(t.TempDir(), "missing.glb"))

	select {
	case res := <-p.Done():
		assert.ErrorIs(t, res.Err, ErrAssetUnavailable)
	case <-time.After(5 * time.Second):
		t.Fatal("no result")
	}
}

func TestPoll(t *testing.T) {
	path := writeGLB(t, t.TempDir(), "tux.glb", quadDocument())
	p := New(zap.NewNop()).Load(context.Background(), path)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if res, ok := p.Poll(); ok {
			assert.True(t, res.OK())
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("Poll never returned a result")
}

func TestProgressReachesOne(t *testing.T) {
	path := writeGLB(t, t.TempDir(), "tux.glb", quadDocument())

	var seen []float64
	res := New(zap.NewNop()).LoadSync(context.Background(), path, func(f float64) {
		seen = append(seen, f)
	})
	require.NoError(t, res.Err)
	require.NotEmpty(t, seen)
	assert.Equal(t, 1.0, seen[len(seen)-1])
}

func TestDecompose(t *testing.T) {
	rot := mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0})
	m := mgl32.Translate3D(1, 2, 3).Mul4(rot.Mat4()).Mul4(mgl32.Scale3D(2, 3, 4))

	pos, q, scale := decompose(m)
	assert.InDeltaSlice(t, []float32{1, 2, 3}, pos[:], 1e-5, "pos %v", pos)
	assert.InDeltaSlice(t, []float32{2, 3, 4}, scale[:], 1e-5, "scale %v", scale)
	// q and -q are the same rotation.
	assert.InDelta(t, 1, math.Abs(float64(q.Dot(rot))), 1e-4, "rot %v", q)
}

func TestAssetErrorMessage(t *testing.T) {
	err := unavailable("a.glb", os.ErrNotExist)
	assert.Contains(t, err.Error(), "asset unavailable")
	assert.Contains(t, err.Error(), "a.glb")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, Kind(0), KindOf(os.ErrNotExist))
	assert.Equal(t, "asset malformed", AssetMalformed.String())
}

func TestCompleted(t *testing.T) {
	p := Completed(Result{Err: unavailable("x.glb", os.ErrNotExist)})

	_, open := <-p.Progress()
	assert.False(t, open)

	res, ok := p.Poll()
	require.True(t, ok)
	assert.ErrorIs(t, res.Err, ErrAssetUnavailable)

	_, ok = <-p.Done()
	assert.False(t, ok)
	p.Cancel()
}
