package scene

import (
	"fashion-show/core"
)

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32

	// Material holds surface shading properties. If nil, DefaultMaterial() is used.
	Material *Material

	// Skinned meshes carry joint indices and weights in their vertices.
	Skinned bool

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	GPUData any

	bounds *AABB
}

func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
}
