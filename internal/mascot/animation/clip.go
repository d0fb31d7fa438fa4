package animation

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tux-viewer/internal/engine/scenegraph"
)

// ClipPlayer loops one clip, writing sampled values onto the channel targets.
type ClipPlayer struct {
	clip *scenegraph.Clip
	time float32
}

// NewClipPlayer returns a player for clip, or nil when there is nothing to play.
func NewClipPlayer(clip *scenegraph.Clip) *ClipPlayer {
	if clip == nil || len(clip.Channels) == 0 {
		return nil
	}
	p := &ClipPlayer{clip: clip}
	p.apply()
	return p
}

// Clip returns the clip being played.
func (p *ClipPlayer) Clip() *scenegraph.Clip {
	return p.clip
}

// Time returns the playback cursor in seconds, always in [0, Duration).
func (p *ClipPlayer) Time() float32 {
	return p.time
}

// Advance moves the cursor by dt seconds, wrapping at the clip's end, and
// applies the pose. Negative steps are ignored.
func (p *ClipPlayer) Advance(dt float32) {
	if p == nil {
		return
	}
	if dt > 0 && p.clip.Duration > 0 {
		p.time = float32(math.Mod(float64(p.time+dt), float64(p.clip.Duration)))
	}
	p.apply()
}

func (p *ClipPlayer) apply() {
	for i := range p.clip.Channels {
		ch := &p.clip.Channels[i]
		if ch.Target == nil {
			continue
		}
		v := Sample(ch, p.time)
		switch ch.Path {
		case scenegraph.PathTranslation:
			ch.Target.Position = mgl32.Vec3{v[0], v[1], v[2]}
		case scenegraph.PathRotation:
			ch.Target.Rotation = quat(v).Normalize()
		case scenegraph.PathScale:
			ch.Target.Scale = mgl32.Vec3{v[0], v[1], v[2]}
		}
	}
}

// Sample evaluates a channel at time t. Times before the first key hold the
// first value; times after the last hold the last.
func Sample(ch *scenegraph.Channel, t float32) [4]float32 {
	keys := ch.Times
	if len(keys) == 0 || len(ch.Values) == 0 {
		return [4]float32{}
	}
	if len(keys) == 1 || t <= keys[0] {
		return ch.Values[0]
	}

	// Find surrounding keyframes
	var prev, next int
	for i := range keys {
		if keys[i] > t {
			next = i
			break
		}
		prev = i
		next = i
	}
	if prev == next || ch.Interpolation == scenegraph.InterpolationStep {
		return ch.Values[prev]
	}

	v0, v1 := ch.Values[prev], ch.Values[next]
	f := float32(0)
	if span := keys[next] - keys[prev]; span > 0 {
		f = (t - keys[prev]) / span
	}

	if ch.Path == scenegraph.PathRotation {
		q0, q1 := quat(v0).Normalize(), quat(v1).Normalize()
		if q0.Dot(q1) < 0 {
			q1 = q1.Scale(-1) // shortest arc
		}
		q := mgl32.QuatSlerp(q0, q1, f)
		return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
	}
	var out [4]float32
	for i := range out {
		out[i] = v0[i] + f*(v1[i]-v0[i])
	}
	return out
}

func quat(v [4]float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}
