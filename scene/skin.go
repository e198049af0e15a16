package scene

import "fashion-show/math"

// MaxJoints is the number of joint matrices the skinning shader accepts.
const MaxJoints = 100

// Skin binds a skinned mesh to a joint hierarchy.
type Skin struct {
	Joints      []*Node
	InverseBind []math.Mat4

	// Matrices holds one joint matrix per joint, relative to the mesh node.
	Matrices []math.Mat4
}

func NewSkin(joints []*Node, inverseBind []math.Mat4) *Skin {
	return &Skin{
		Joints:      joints,
		InverseBind: inverseBind,
		Matrices:    make([]math.Mat4, len(joints)),
	}
}

// Update recomputes the joint matrices for a mesh attached at meshNode.
func (s *Skin) Update(meshNode *Node) {
	toMesh := meshNode.GetWorldMatrix().Inverse()
	for i, joint := range s.Joints {
		ibm := math.Mat4Identity()
		if i < len(s.InverseBind) {
			ibm = s.InverseBind[i]
		}
		s.Matrices[i] = ibm.Mul(joint.GetWorldMatrix()).Mul(toMesh)
	}
}
