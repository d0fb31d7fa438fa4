package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testConfig() Config {
	return Config{
		FOV:             45,
		Near:            0.1,
		Far:             1000,
		Distance:        5,
		Damping:         0.05,
		RotateSpeed:     1,
		AutoRotateSpeed: 2,
		Limits: Limits{
			MinPolar:   math.Pi / 3,
			MaxPolar:   math.Pi / 1.8,
			MinAzimuth: -math.Pi / 4,
			MaxAzimuth: math.Pi / 4,
		},
	}
}

func inWindow(s State, l Limits) bool {
	return s.Polar >= l.MinPolar && s.Polar <= l.MaxPolar &&
		s.Azimuth >= l.MinAzimuth && s.Azimuth <= l.MaxAzimuth
}

func TestInitialPosition(t *testing.T) {
	r := NewRig(testConfig())

	pos := r.Position()
	if !approxVec(pos, mgl32.Vec3{0, 0, 5}, 1e-5) {
		t.Errorf("initial position = %v, want (0,0,5)", pos)
	}
	if r.State().Target != (mgl32.Vec3{}) {
		t.Errorf("target = %v, want origin", r.State().Target)
	}
}

func TestAnglesStayClamped(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(42))

	r := NewRig(cfg)
	r.SetViewport(800, 600)
	for i := 0; i < 5000; i++ {
		switch rng.Intn(4) {
		case 0:
			r.ApplyInteractionDelta(rng.Float32()*4000-2000, rng.Float32()*4000-2000)
		case 1:
			r.SetAutoRotate(rng.Intn(2) == 0)
		default:
			r.Tick(rng.Float32() * 0.1)
		}
		if !inWindow(r.State(), cfg.Limits) {
			t.Fatalf("step %d: state %+v left the window", i, r.State())
		}
	}
}

func TestRadiusAndTargetFixed(t *testing.T) {
	r := NewRig(testConfig())
	r.SetViewport(800, 600)
	r.SetAutoRotate(true)
	for i := 0; i < 100; i++ {
		r.ApplyInteractionDelta(50, -30)
		r.Tick(1.0 / 60)
	}
	if r.State().Radius != 5 {
		t.Errorf("radius = %v, want 5", r.State().Radius)
	}
	if r.State().Target != (mgl32.Vec3{}) {
		t.Errorf("target moved to %v", r.State().Target)
	}
	if d := r.Position().Len(); math.Abs(float64(d-5)) > 1e-4 {
		t.Errorf("camera distance = %v, want 5", d)
	}
}

func TestDampedDeceleration(t *testing.T) {
	r := NewRig(testConfig())
	r.SetViewport(800, 800)

	// A small drag left turns the azimuth negative without hitting the limit.
	r.ApplyInteractionDelta(20, 0)
	want := float32(-2 * math.Pi * 20 / 800)

	var steps []float32
	prev := r.State().Azimuth
	for i := 0; i < 200; i++ {
		r.Tick(1.0 / 60)
		steps = append(steps, prev-r.State().Azimuth)
		prev = r.State().Azimuth
	}

	for i := 1; i < len(steps); i++ {
		if steps[i] > steps[i-1]+1e-7 {
			t.Fatalf("step %d grew: %v > %v", i, steps[i], steps[i-1])
		}
	}
	got := r.State().Azimuth
	if math.Abs(float64(got-want)) > 1e-3 {
		t.Errorf("settled azimuth = %v, want ~%v", got, want)
	}
}

func TestDragPastLimitDoesNotStick(t *testing.T) {
	r := NewRig(testConfig())
	r.SetViewport(800, 800)

	// Huge drag to the right slams into the min azimuth...
	r.ApplyInteractionDelta(-100000, 0)
	for i := 0; i < 300; i++ {
		r.Tick(1.0 / 60)
	}
	if math.Abs(float64(r.State().Azimuth-math.Pi/4)) > 1e-3 {
		t.Fatalf("azimuth = %v, want max %v", r.State().Azimuth, math.Pi/4)
	}

	// ...and a small drag back responds immediately.
	before := r.State().Azimuth
	r.ApplyInteractionDelta(20, 0)
	r.Tick(1.0 / 60)
	if r.State().Azimuth >= before {
		t.Errorf("azimuth did not move back from the limit: %v -> %v", before, r.State().Azimuth)
	}
}

func TestAutoRotate(t *testing.T) {
	r := NewRig(testConfig())
	if r.AutoRotate() {
		t.Fatal("auto-rotate should start off")
	}

	r.Tick(1)
	if r.State().Azimuth != 0 {
		t.Errorf("azimuth moved without auto-rotate: %v", r.State().Azimuth)
	}

	r.SetAutoRotate(true)
	for i := 0; i < 60; i++ {
		r.Tick(1.0 / 60)
	}
	if r.State().Azimuth >= 0 {
		t.Errorf("auto-rotate did not turn the camera: %v", r.State().Azimuth)
	}
}

func TestSetViewport(t *testing.T) {
	r := NewRig(testConfig())
	r.SetViewport(1600, 900)
	if got := r.Aspect(); math.Abs(float64(got-16.0/9)) > 1e-6 {
		t.Errorf("aspect = %v, want 16/9", got)
	}

	r.SetViewport(0, 900) // ignored
	if got := r.Aspect(); math.Abs(float64(got-16.0/9)) > 1e-6 {
		t.Errorf("aspect changed on zero width: %v", got)
	}

	p := r.ProjectionMatrix()
	if p[0] == 0 || p[5] == 0 {
		t.Errorf("projection matrix looks empty: %v", p)
	}
}

func TestLimitsClamp(t *testing.T) {
	l := testConfig().Limits
	s := l.Clamp(State{Polar: 0, Azimuth: 10})
	if s.Polar != l.MinPolar || s.Azimuth != l.MaxAzimuth {
		t.Errorf("Clamp = %+v", s)
	}
}

// approxVec compares component-wise with an absolute tolerance.
func approxVec(a, b mgl32.Vec3, eps float64) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > eps {
			return false
		}
	}
	return true
}
