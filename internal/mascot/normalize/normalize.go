// Package normalize centers a figure on the origin and fits it to a fixed size.
package normalize

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tux-viewer/internal/engine/scenegraph"
)

// TargetSize is the largest axis extent of a normalized figure.
const TargetSize = 2.5

// Normalize moves root so its bounding-box center is at the origin, then
// wraps it in a new group scaled uniformly so the largest extent equals
// targetSize. root is detached from any previous parent. The returned wrapper
// is the node to attach to the scene; root keeps its centering offset and the
// wrapper carries only the scale.
//
// Figures without geometry, or flat along every axis, are centered but left
// at scale 1.
func Normalize(root *scenegraph.Node, targetSize float32) *scenegraph.Node {
	if p := root.Parent(); p != nil {
		p.Remove(root)
	}

	wrapper := scenegraph.NewGroup("normalized")
	box := scenegraph.BoxOf(root)
	if !box.IsEmpty() {
		root.Position = root.Position.Sub(box.Center())
		if ext := box.MaxExtent(); ext > 0 && targetSize > 0 {
			s := targetSize / ext
			wrapper.Scale = mgl32.Vec3{s, s, s}
		}
	}
	wrapper.Add(root)
	return wrapper
}
