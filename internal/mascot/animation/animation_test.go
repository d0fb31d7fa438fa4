package animation

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tux-viewer/internal/engine/scenegraph"
)

func TestIdleSwayAtZero(t *testing.T) {
	s := IdleSway(0)
	assert.Equal(t, Sway{}, s)
}

func TestIdleSwayPeakBob(t *testing.T) {
	s := IdleSway(math.Pi / (2 * BobFrequency))
	assert.InDelta(t, BobAmplitude, s.OffsetY, 1e-6)

	// The bob never exceeds its amplitude.
	for e := 0.0; e < 60; e += 0.05 {
		s := IdleSway(e)
		require.LessOrEqual(t, math.Abs(float64(s.OffsetY)), BobAmplitude+1e-6)
		require.LessOrEqual(t, math.Abs(float64(s.Tilt)), TiltAmplitude+1e-6)
		require.LessOrEqual(t, math.Abs(float64(s.Yaw)), YawAmplitude+1e-6)
	}
}

func TestSwayApply(t *testing.T) {
	n := scenegraph.NewGroup("root")
	n.Position = mgl32.Vec3{1, 9, 2}

	IdleSway(0).Apply(n)
	assert.Equal(t, mgl32.Vec3{1, 0, 2}, n.Position, "only Y is driven")
	assertQuat(t, mgl32.QuatIdent(), n.Rotation, 1e-6)

	s := Sway{OffsetY: 0.1, Tilt: 0.05, Yaw: 0.3}
	s.Apply(n)
	assert.InDelta(t, 0.1, n.Position.Y(), 1e-6)
	want := scenegraph.EulerXYZ(0, 0.3, 0.05)
	assertQuat(t, want, n.Rotation, 1e-6)

	assert.NotPanics(t, func() { s.Apply(nil) })
}

func translationClip(target *scenegraph.Node, interp scenegraph.Interpolation) *scenegraph.Clip {
	return &scenegraph.Clip{
		Name:     "walk",
		Duration: 2,
		Channels: []scenegraph.Channel{{
			Target:        target,
			Path:          scenegraph.PathTranslation,
			Interpolation: interp,
			Times:         []float32{0, 1, 2},
			Values:        [][4]float32{{0, 0, 0}, {2, 0, 0}, {0, 0, 0}},
		}},
	}
}

func TestNewClipPlayerNil(t *testing.T) {
	assert.Nil(t, NewClipPlayer(nil))
	assert.Nil(t, NewClipPlayer(&scenegraph.Clip{Name: "empty"}))

	var p *ClipPlayer
	assert.NotPanics(t, func() { p.Advance(1) })
}

func TestClipPlayerLinear(t *testing.T) {
	n := scenegraph.NewGroup("leg")
	p := NewClipPlayer(translationClip(n, scenegraph.InterpolationLinear))
	require.NotNil(t, p)

	p.Advance(0.5)
	assert.InDelta(t, 1, n.Position.X(), 1e-6)

	p.Advance(0.5)
	assert.InDelta(t, 2, n.Position.X(), 1e-6)

	p.Advance(0.75)
	assert.InDelta(t, 0.5, n.Position.X(), 1e-5)
}

func TestClipPlayerLoops(t *testing.T) {
	n := scenegraph.NewGroup("leg")
	p := NewClipPlayer(translationClip(n, scenegraph.InterpolationLinear))

	p.Advance(2.5)
	assert.InDelta(t, 0.5, p.Time(), 1e-6)
	assert.InDelta(t, 1, n.Position.X(), 1e-5)

	for i := 0; i < 1000; i++ {
		p.Advance(0.37)
		require.GreaterOrEqual(t, p.Time(), float32(0))
		require.Less(t, p.Time(), p.Clip().Duration)
	}
}

func TestClipPlayerStep(t *testing.T) {
	n := scenegraph.NewGroup("leg")
	p := NewClipPlayer(translationClip(n, scenegraph.InterpolationStep))

	p.Advance(0.9)
	assert.Equal(t, float32(0), n.Position.X())
	p.Advance(0.2)
	assert.Equal(t, float32(2), n.Position.X())
}

func TestSampleRotationSlerp(t *testing.T) {
	q1 := mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 1, 0})
	ch := &scenegraph.Channel{
		Path:   scenegraph.PathRotation,
		Times:  []float32{0, 1},
		Values: [][4]float32{{0, 0, 0, 1}, {q1.V[0], q1.V[1], q1.V[2], q1.W}},
	}

	v := Sample(ch, 0.5)
	got := mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
	want := mgl32.QuatRotate(math.Pi/4, mgl32.Vec3{0, 1, 0})
	assertQuat(t, want, got, 1e-5)

	assert.Equal(t, ch.Values[0], Sample(ch, -1))
	assert.Equal(t, ch.Values[1], Sample(ch, 5))
}

func TestSampleEmpty(t *testing.T) {
	assert.Equal(t, [4]float32{}, Sample(&scenegraph.Channel{}, 1))
}

func TestClipPlayerScale(t *testing.T) {
	n := scenegraph.NewGroup("body")
	clip := &scenegraph.Clip{
		Duration: 1,
		Channels: []scenegraph.Channel{{
			Target: n,
			Path:   scenegraph.PathScale,
			Times:  []float32{0, 1},
			Values: [][4]float32{{1, 1, 1}, {3, 3, 3}},
		}},
	}
	p := NewClipPlayer(clip)
	p.Advance(0.5)
	assertVec3(t, mgl32.Vec3{2, 2, 2}, n.Scale, 1e-6)
}

func assertVec3(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], delta, "got %v want %v", got, want)
}

func assertQuat(t *testing.T, want, got mgl32.Quat, delta float64) {
	t.Helper()
	assert.InDelta(t, want.W, got.W, delta, "W: got %v want %v", got, want)
	assertVec3(t, want.V, got.V, delta)
}
