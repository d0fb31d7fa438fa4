// Package scenegraph provides the renderable node tree shared by the loader,
// the fallback builder, the normalizer and the renderer.
package scenegraph

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Node is one transform in the tree. A node with a Mesh is renderable; a node
// without one is a group.
type Node struct {
	Name     string
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	Mesh     *Mesh
	Material *Material

	Children []*Node
	parent   *Node
}

// NewGroup creates an empty node with an identity transform.
func NewGroup(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// NewMesh creates a renderable node. Meshes and materials may be shared between nodes.
func NewMesh(name string, mesh *Mesh, mat *Material) *Node {
	n := NewGroup(name)
	n.Mesh = mesh
	n.Material = mat
	return n
}

// Add attaches children, detaching each from its previous parent first.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.Children = append(n.Children, c)
	}
}

// Remove detaches a direct child. Removing a non-child is a no-op.
func (n *Node) Remove(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Parent returns the node this one is attached to, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// SetEuler sets Rotation from intrinsic X, then Y, then Z angles in radians.
func (n *Node) SetEuler(x, y, z float32) {
	n.Rotation = EulerXYZ(x, y, z)
}

// EulerXYZ builds the quaternion for an XYZ-ordered Euler rotation.
func EulerXYZ(x, y, z float32) mgl32.Quat {
	qx := mgl32.QuatRotate(x, mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(y, mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(z, mgl32.Vec3{0, 0, 1})
	return qx.Mul(qy).Mul(qz)
}

// LocalMatrix returns translation * rotation * scale.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	r := n.Rotation.Normalize().Mat4()
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// WorldMatrix composes LocalMatrix with every ancestor's.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// Walk visits the subtree depth-first, passing each node's world matrix.
func (n *Node) Walk(fn func(node *Node, world mgl32.Mat4)) {
	var parentWorld mgl32.Mat4
	if n.parent != nil {
		parentWorld = n.parent.WorldMatrix()
	} else {
		parentWorld = mgl32.Ident4()
	}
	n.walk(parentWorld, fn)
}

func (n *Node) walk(parentWorld mgl32.Mat4, fn func(*Node, mgl32.Mat4)) {
	world := parentWorld.Mul4(n.LocalMatrix())
	fn(n, world)
	for _, c := range n.Children {
		c.walk(world, fn)
	}
}

// MeshCount returns the number of renderable nodes in the subtree.
func (n *Node) MeshCount() int {
	count := 0
	n.Walk(func(node *Node, _ mgl32.Mat4) {
		if node.Mesh != nil && len(node.Mesh.Positions) > 0 {
			count++
		}
	})
	return count
}

// Find returns the first node in the subtree with the given name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}
