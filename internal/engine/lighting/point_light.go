package lighting

import "github.com/go-gl/mathgl/mgl32"

// MaxPointLights is the maximum number of point lights supported in shaders.
const MaxPointLights = 4

// PointLight is an omnidirectional light with distance falloff.
type PointLight struct {
	Position  mgl32.Vec3
	Color     mgl32.Vec3 // RGB, 0-1
	Intensity float32
	Range     float32 // Light reaches zero at this distance; 0 means unlimited
	Decay     float32 // Inverse-power falloff exponent
}

// PointLightBuffer holds lights for GPU upload.
type PointLightBuffer struct {
	Lights []PointLight
}

// NewPointLightBuffer creates an empty point light buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{
		Lights: make([]PointLight, 0, MaxPointLights),
	}
}

// Count returns the number of lights.
func (b *PointLightBuffer) Count() int {
	return len(b.Lights)
}

// AddLight adds a point light to the buffer.
// Returns false if buffer is full.
func (b *PointLightBuffer) AddLight(light PointLight) bool {
	if len(b.Lights) >= MaxPointLights {
		return false
	}
	b.Lights = append(b.Lights, light)
	return true
}

// Positions returns positions as a flat float32 slice for GPU upload.
// Format: [x0, y0, z0, x1, y1, z1, ...]
func (b *PointLightBuffer) Positions() []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		copy(result[i*3:], light.Position[:])
	}
	return result
}

// Radiance returns color times intensity, flattened like Positions.
func (b *PointLightBuffer) Radiance() []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		c := light.Color.Mul(light.Intensity)
		copy(result[i*3:], c[:])
	}
	return result
}

// Ranges returns ranges as a flat float32 slice for GPU upload.
func (b *PointLightBuffer) Ranges() []float32 {
	result := make([]float32, MaxPointLights)
	for i, light := range b.Lights {
		result[i] = light.Range
	}
	return result
}

// Decays returns decay exponents as a flat float32 slice for GPU upload.
func (b *PointLightBuffer) Decays() []float32 {
	result := make([]float32, MaxPointLights)
	for i, light := range b.Lights {
		result[i] = light.Decay
	}
	return result
}
