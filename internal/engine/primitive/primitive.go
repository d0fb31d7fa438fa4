// Package primitive builds indexed meshes for simple solids, centered on the origin.
package primitive

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tux-viewer/internal/engine/scenegraph"
)

// Sphere builds a UV sphere. Segment counts are clamped to the smallest
// values that still close the surface.
func Sphere(radius float32, widthSegments, heightSegments int) *scenegraph.Mesh {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	m := &scenegraph.Mesh{}
	grid := make([][]uint32, heightSegments+1)

	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			n := mgl32.Vec3{
				float32(-math.Cos(u*2*math.Pi) * math.Sin(v*math.Pi)),
				float32(math.Cos(v * math.Pi)),
				float32(math.Sin(u*2*math.Pi) * math.Sin(v*math.Pi)),
			}
			row[ix] = uint32(len(m.Positions))
			m.Positions = append(m.Positions, n.Mul(radius))
			m.Normals = append(m.Normals, n)
		}
		grid[iy] = row
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			// Pole rows collapse to a point; skip their degenerate halves.
			if iy != 0 {
				m.Indices = append(m.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				m.Indices = append(m.Indices, b, c, d)
			}
		}
	}
	return m
}

// Cone builds a cone along +Y with its apex at height/2 and a closed base at -height/2.
func Cone(radius, height float32, radialSegments int) *scenegraph.Mesh {
	radialSegments = max(radialSegments, 3)
	half := height / 2
	slope := radius / height

	m := &scenegraph.Mesh{}

	// Side: one apex vertex per segment so each facet gets its own normal.
	for i := 0; i < radialSegments; i++ {
		for _, step := range []int{i, i + 1} {
			theta := float64(step) / float64(radialSegments) * 2 * math.Pi
			sin, cos := float32(math.Sin(theta)), float32(math.Cos(theta))
			normal := mgl32.Vec3{sin, slope, cos}.Normalize()
			m.Positions = append(m.Positions, mgl32.Vec3{radius * sin, -half, radius * cos})
			m.Normals = append(m.Normals, normal)
		}
		mid := (float64(i) + 0.5) / float64(radialSegments) * 2 * math.Pi
		apexNormal := mgl32.Vec3{float32(math.Sin(mid)), slope, float32(math.Cos(mid))}.Normalize()
		m.Positions = append(m.Positions, mgl32.Vec3{0, half, 0})
		m.Normals = append(m.Normals, apexNormal)

		base := uint32(i * 3)
		m.Indices = append(m.Indices, base, base+1, base+2)
	}

	// Base cap.
	center := uint32(len(m.Positions))
	m.Positions = append(m.Positions, mgl32.Vec3{0, -half, 0})
	m.Normals = append(m.Normals, mgl32.Vec3{0, -1, 0})
	for i := 0; i <= radialSegments; i++ {
		theta := float64(i) / float64(radialSegments) * 2 * math.Pi
		m.Positions = append(m.Positions, mgl32.Vec3{radius * float32(math.Sin(theta)), -half, radius * float32(math.Cos(theta))})
		m.Normals = append(m.Normals, mgl32.Vec3{0, -1, 0})
	}
	for i := uint32(0); i < uint32(radialSegments); i++ {
		m.Indices = append(m.Indices, center, center+2+i, center+1+i)
	}
	return m
}

// Box builds an axis-aligned box with flat-shaded faces.
func Box(width, height, depth float32) *scenegraph.Mesh {
	hx, hy, hz := width/2, height/2, depth/2

	faces := []struct {
		normal  mgl32.Vec3
		corners [4]mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}}},
		{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}},
		{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}}},
		{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}},
		{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}},
	}

	m := &scenegraph.Mesh{}
	for _, f := range faces {
		base := uint32(len(m.Positions))
		for _, c := range f.corners {
			m.Positions = append(m.Positions, c)
			m.Normals = append(m.Normals, f.normal)
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}
