// Package fallback builds the procedural penguin shown when the mascot asset
// cannot be loaded.
package fallback

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tux-viewer/internal/engine/primitive"
	"github.com/Faultbox/tux-viewer/internal/engine/scenegraph"
)

const (
	black  = 0x1a1a1a
	orange = 0xf77f00
	white  = 0xffffff
)

func material(name string, color uint32, roughness, metalness float32) *scenegraph.Material {
	return &scenegraph.Material{
		Name:      name,
		Color:     scenegraph.ColorHex(color),
		Roughness: roughness,
		Metalness: metalness,
	}
}

func ellipsoid(radius, sx, sy, sz float32) *scenegraph.Mesh {
	m := primitive.Sphere(radius, 32, 32)
	m.ScaleGeometry(sx, sy, sz)
	return m
}

func at(n *scenegraph.Node, x, y, z float32) *scenegraph.Node {
	n.Position = mgl32.Vec3{x, y, z}
	return n
}

// Penguin returns a new stylized penguin, roughly 1.5 units tall and standing
// on the origin's vertical axis. Every call builds an identical graph.
func Penguin() *scenegraph.Node {
	g := scenegraph.NewGroup("fallback-tux")

	g.Add(scenegraph.NewMesh("body",
		ellipsoid(0.6, 1, 1.3, 0.8),
		material("body", black, 0.4, 0.1)))

	g.Add(at(scenegraph.NewMesh("belly",
		ellipsoid(0.45, 0.8, 1.1, 0.5),
		material("belly", white, 0.5, 0)), 0, -0.1, 0.25))

	g.Add(at(scenegraph.NewMesh("head",
		primitive.Sphere(0.35, 32, 32),
		material("head", black, 0.4, 0)), 0, 0.9, 0))

	beak := at(scenegraph.NewMesh("beak",
		primitive.Cone(0.08, 0.2, 16),
		material("beak", orange, 0.4, 0)), 0, 0.85, 0.4)
	beak.SetEuler(math.Pi/2, 0, 0)
	g.Add(beak)

	// Paired parts share geometry and material.
	eye := primitive.Sphere(0.08, 16, 16)
	eyeMat := material("eye", white, 1, 0)
	pupil := primitive.Sphere(0.04, 16, 16)
	pupilMat := material("pupil", 0x000000, 1, 0)
	foot := primitive.Box(0.2, 0.05, 0.3)
	footMat := material("foot", orange, 0.5, 0)

	for _, side := range []struct {
		name string
		x    float32
	}{{"left", -1}, {"right", 1}} {
		g.Add(
			at(scenegraph.NewMesh(side.name+"-eye", eye, eyeMat), 0.12*side.x, 0.95, 0.28),
			at(scenegraph.NewMesh(side.name+"-pupil", pupil, pupilMat), 0.12*side.x, 0.95, 0.34),
			at(scenegraph.NewMesh(side.name+"-foot", foot, footMat), 0.15*side.x, -0.8, 0.1),
		)
	}

	return g
}
