// Package scene provides a minimal transform hierarchy for the spine model.
package scene

import (
	"github.com/taigrr/spine/pkg/math3d"
	"github.com/taigrr/spine/pkg/models"
	"github.com/taigrr/spine/pkg/regions"
)

// Node is a scene graph node. A node with a Mesh is drawable; a node
// without one only groups and transforms its children.
type Node struct {
	Name     string
	Position math3d.Vec3
	Rotation math3d.Euler
	Scale    math3d.Vec3

	Mesh     *models.Mesh
	Material *models.Material

	// Region is the owning anatomical region, empty for untagged nodes.
	Region regions.Key
	// Indicator marks invisible hit-test proxies.
	Indicator bool

	Parent   *Node
	Children []*Node
}

// NewGroup creates an empty transform node.
func NewGroup(name string) *Node {
	return &Node{Name: name, Scale: math3d.V3(1, 1, 1)}
}

// NewMesh creates a drawable node.
func NewMesh(name string, mesh *models.Mesh, mat *models.Material) *Node {
	n := NewGroup(name)
	n.Mesh = mesh
	n.Material = mat
	return n
}

// Add attaches children to n and returns n.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c.Parent != nil {
			c.Parent.Remove(c)
		}
		c.Parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// Remove detaches child from n. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return true
		}
	}
	return false
}

// LocalMatrix returns the node's TRS transform.
func (n *Node) LocalMatrix() math3d.Mat4 {
	return math3d.Compose(n.Position, n.Rotation, n.Scale)
}

// WorldMatrix returns the transform from node space to root space.
func (n *Node) WorldMatrix() math3d.Mat4 {
	m := n.LocalMatrix()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// WalkFunc is called for each node with its accumulated world matrix.
// Returning false skips the node's children.
type WalkFunc func(n *Node, world math3d.Mat4) bool

// Walk visits n and its descendants depth-first, starting from parent.
func (n *Node) Walk(parent math3d.Mat4, fn WalkFunc) {
	world := parent.Mul(n.LocalMatrix())
	if !fn(n, world) {
		return
	}
	for _, c := range n.Children {
		c.Walk(world, fn)
	}
}

// Drawable is a mesh node paired with its world transform.
type Drawable struct {
	Node  *Node
	World math3d.Mat4
}

// Drawables collects every mesh node under n, including indicators.
func (n *Node) Drawables() []Drawable {
	var out []Drawable
	n.Walk(math3d.Identity(), func(node *Node, world math3d.Mat4) bool {
		if node.Mesh != nil {
			out = append(out, Drawable{Node: node, World: world})
		}
		return true
	})
	return out
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}
