package scenegraph

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh holds indexed triangle geometry in local space.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32
}

// Material is the standard surface description used by the renderer.
type Material struct {
	Name      string
	Color     mgl32.Vec3 // Linear RGB, 0-1
	Roughness float32
	Metalness float32
}

// DefaultMaterial returns the surface used when an asset specifies none.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "default",
		Color:     mgl32.Vec3{1, 1, 1},
		Roughness: 1,
		Metalness: 0,
	}
}

// ColorHex converts a 0xRRGGBB value to a Vec3 color.
func ColorHex(hex uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32((hex>>16)&0xff) / 255,
		float32((hex>>8)&0xff) / 255,
		float32(hex&0xff) / 255,
	}
}

// ScaleGeometry bakes a scale into the vertex data. Normals are scaled by the
// inverse and renormalized so lighting stays correct for nonuniform factors.
func (m *Mesh) ScaleGeometry(x, y, z float32) {
	for i, p := range m.Positions {
		m.Positions[i] = mgl32.Vec3{p.X() * x, p.Y() * y, p.Z() * z}
	}
	for i, nrm := range m.Normals {
		scaled := mgl32.Vec3{nrm.X() / x, nrm.Y() / y, nrm.Z() / z}
		if scaled.Len() > 0 {
			m.Normals[i] = scaled.Normalize()
		}
	}
}

// ComputeNormals fills Normals by averaging the face normals around each vertex.
func (m *Mesh) ComputeNormals() {
	m.Normals = make([]mgl32.Vec3, len(m.Positions))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if int(a) >= len(m.Positions) || int(b) >= len(m.Positions) || int(c) >= len(m.Positions) {
			continue
		}
		e1 := m.Positions[b].Sub(m.Positions[a])
		e2 := m.Positions[c].Sub(m.Positions[a])
		n := e1.Cross(e2) // area weighted
		m.Normals[a] = m.Normals[a].Add(n)
		m.Normals[b] = m.Normals[b].Add(n)
		m.Normals[c] = m.Normals[c].Add(n)
	}
	for i, n := range m.Normals {
		if n.Len() < 1e-8 {
			m.Normals[i] = mgl32.Vec3{0, 1, 0}
			continue
		}
		m.Normals[i] = n.Normalize()
	}
}

// Bounds returns the local-space box of the vertices.
func (m *Mesh) Bounds() Box {
	b := EmptyBox()
	for _, p := range m.Positions {
		b = b.ExpandByPoint(p)
	}
	return b
}
