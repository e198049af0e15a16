package scene

import (
	"sync/atomic"

	"fashion-show/core"
	"fashion-show/math"
)

// Node represents an object in the scene graph. A hidden node hides its
// whole subtree.
type Node struct {
	Name      string
	Transform core.Transform
	Parent    *Node
	Children  []*Node
	Mesh      *Mesh
	Skin      *Skin
	Visible   bool
	Id        uint32

	CastShadow    bool
	ReceiveShadow bool

	// Cached world transform
	worldMatrixDirty bool
	worldMatrix      math.Mat4
}

// Assets are decoded on worker goroutines, so ids are allocated atomically.
var nodeIdCounter atomic.Uint32

func NewNode(name string) *Node {
	return &Node{
		Name:             name,
		Transform:        core.NewTransform(),
		Visible:          true,
		Id:               nodeIdCounter.Add(1),
		worldMatrixDirty: true,
	}
}

func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	child.MarkWorldMatrixDirty()
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			child.MarkWorldMatrixDirty()
			return
		}
	}
}

func (n *Node) GetWorldMatrix() math.Mat4 {
	if n.worldMatrixDirty {
		local := n.Transform.GetMatrix()
		if n.Parent != nil {
			n.worldMatrix = local.Mul(n.Parent.GetWorldMatrix())
		} else {
			n.worldMatrix = local
		}
		n.worldMatrixDirty = false
	}
	return n.worldMatrix
}

func (n *Node) MarkWorldMatrixDirty() {
	if n.worldMatrixDirty {
		return
	}
	n.worldMatrixDirty = true
	for _, child := range n.Children {
		child.MarkWorldMatrixDirty()
	}
}

func (n *Node) SetPosition(pos math.Vec3) {
	n.Transform.Position = pos
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetRotation(rot math.Quaternion) {
	n.Transform.Rotation = rot
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetScale(scale math.Vec3) {
	n.Transform.Scale = scale
	n.MarkWorldMatrixDirty()
}

// SetTransform replaces position, rotation and scale at once.
func (n *Node) SetTransform(t core.Transform) {
	n.Transform = t
	n.MarkWorldMatrixDirty()
}

// Rotate applies an extra rotation about axis on top of the current one.
func (n *Node) Rotate(axis math.Vec3, angle float32) {
	rotation := math.QuaternionFromAxisAngle(axis, angle)
	n.Transform.Rotation = rotation.Mul(n.Transform.Rotation).Normalize()
	n.MarkWorldMatrixDirty()
}

// Traverse visits all nodes in the graph
func (n *Node) Traverse(callback func(*Node)) {
	callback(n)
	for _, child := range n.Children {
		child.Traverse(callback)
	}
}

// TraverseVisible visits visible nodes and skips hidden subtrees.
func (n *Node) TraverseVisible(callback func(*Node)) {
	if !n.Visible {
		return
	}
	callback(n)
	for _, child := range n.Children {
		child.TraverseVisible(callback)
	}
}

// Find finds a node by name
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// SetShadows sets the cast and receive flags on every mesh node in the subtree.
func (n *Node) SetShadows(cast, receive bool) {
	n.Traverse(func(node *Node) {
		if node.Mesh != nil {
			node.CastShadow = cast
			node.ReceiveShadow = receive
		}
	})
}
