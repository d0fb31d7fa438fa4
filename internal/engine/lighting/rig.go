// Package lighting describes the lights the renderer uploads each frame.
package lighting

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tux-viewer/internal/engine/scenegraph"
)

// MaxDirectionalLights is the maximum number of directional lights in shaders.
const MaxDirectionalLights = 4

// DirectionalLight shines from Position toward the origin.
type DirectionalLight struct {
	Position  mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
}

// Direction returns the unit vector pointing from the surface toward the light.
func (l DirectionalLight) Direction() mgl32.Vec3 {
	if l.Position.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return l.Position.Normalize()
}

// Rig is the complete light setup for one scene.
type Rig struct {
	AmbientColor     mgl32.Vec3
	AmbientIntensity float32
	Directional      []DirectionalLight
	Points           *PointLightBuffer
}

// MascotRig returns the three-point setup the mascot is shown under: a warm
// orange key, a cool blue fill, a white rim from below and behind, plus a
// soft white point light above the right shoulder.
func MascotRig() *Rig {
	r := &Rig{
		AmbientColor:     mgl32.Vec3{1, 1, 1},
		AmbientIntensity: 0.6,
		Directional: []DirectionalLight{
			{Position: mgl32.Vec3{5, 5, 5}, Color: scenegraph.ColorHex(0xf77f00), Intensity: 1.2},
			{Position: mgl32.Vec3{-5, 3, -5}, Color: scenegraph.ColorHex(0x0096c7), Intensity: 0.8},
			{Position: mgl32.Vec3{0, -2, -5}, Color: mgl32.Vec3{1, 1, 1}, Intensity: 0.5},
		},
		Points: NewPointLightBuffer(),
	}
	r.Points.AddLight(PointLight{
		Position:  mgl32.Vec3{2, 3, 2},
		Color:     mgl32.Vec3{1, 1, 1},
		Intensity: 0.6,
		Range:     10,
		Decay:     2,
	})
	return r
}

// Ambient returns the ambient radiance.
func (r *Rig) Ambient() mgl32.Vec3 {
	return r.AmbientColor.Mul(r.AmbientIntensity)
}

// DirectionalCount returns the number of directional lights uploaded,
// capped at MaxDirectionalLights.
func (r *Rig) DirectionalCount() int {
	return min(len(r.Directional), MaxDirectionalLights)
}

// Directions returns light directions flattened for GPU upload.
func (r *Rig) Directions() []float32 {
	result := make([]float32, MaxDirectionalLights*3)
	for i := 0; i < r.DirectionalCount(); i++ {
		d := r.Directional[i].Direction()
		copy(result[i*3:], d[:])
	}
	return result
}

// DirectionalRadiance returns color times intensity flattened for GPU upload.
func (r *Rig) DirectionalRadiance() []float32 {
	result := make([]float32, MaxDirectionalLights*3)
	for i := 0; i < r.DirectionalCount(); i++ {
		l := r.Directional[i]
		c := l.Color.Mul(l.Intensity)
		copy(result[i*3:], c[:])
	}
	return result
}
