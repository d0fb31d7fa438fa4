package scenegraph

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Box is an axis-aligned bounding box. It is a derived value; nothing in the
// tree stores one.
type Box struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBox returns a box that contains nothing; expanding it by any point
// yields a box around that point.
func EmptyBox() Box {
	inf := float32(math.Inf(1))
	return Box{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box) IsEmpty() bool {
	return b.Max.X() < b.Min.X() || b.Max.Y() < b.Min.Y() || b.Max.Z() < b.Min.Z()
}

// ExpandByPoint returns the smallest box containing b and p.
func (b Box) ExpandByPoint(p mgl32.Vec3) Box {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
	return b
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	return b.ExpandByPoint(o.Min).ExpandByPoint(o.Max)
}

// Center returns the midpoint, or the origin for an empty box.
func (b Box) Center() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent along each axis, zero for an empty box.
func (b Box) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// MaxExtent returns the largest of the three axis extents.
func (b Box) MaxExtent() float32 {
	s := b.Size()
	return max(s.X(), s.Y(), s.Z())
}

// BoxOf computes the world-space box of every vertex in the subtree rooted at n,
// including n's own transform and its ancestors'.
func BoxOf(n *Node) Box {
	b := EmptyBox()
	n.Walk(func(node *Node, world mgl32.Mat4) {
		if node.Mesh == nil {
			return
		}
		for _, p := range node.Mesh.Positions {
			b = b.ExpandByPoint(mgl32.TransformCoordinate(p, world))
		}
	})
	return b
}
