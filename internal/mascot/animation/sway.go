// Package animation drives per-frame motion of the attached figure: the idle
// sway and playback of the asset's first clip.
package animation

import (
	"math"

	"github.com/Faultbox/tux-viewer/internal/engine/scenegraph"
)

// Sway amplitudes and angular frequencies (rad/s).
const (
	BobAmplitude  = 0.15
	BobFrequency  = 0.8
	TiltAmplitude = 0.05
	TiltFrequency = 0.5
	YawAmplitude  = 0.3
	YawFrequency  = 0.3
)

// Sway is the idle motion at one instant.
type Sway struct {
	OffsetY float32 // Vertical position
	Tilt    float32 // Rotation about Z
	Yaw     float32 // Rotation about Y
}

// IdleSway returns the sway for elapsed seconds since start. All three
// components are zero at elapsed 0.
func IdleSway(elapsed float64) Sway {
	return Sway{
		OffsetY: float32(math.Sin(elapsed*BobFrequency) * BobAmplitude),
		Tilt:    float32(math.Sin(elapsed*TiltFrequency) * TiltAmplitude),
		Yaw:     float32(math.Sin(elapsed*YawFrequency) * YawAmplitude),
	}
}

// Apply writes the sway onto n, replacing its vertical position and rotation.
func (s Sway) Apply(n *scenegraph.Node) {
	if n == nil {
		return
	}
	n.Position[1] = s.OffsetY
	n.SetEuler(0, s.Yaw, s.Tilt)
}
