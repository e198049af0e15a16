// Package assets turns glTF files into scene graphs with skins and
// animation clips, and loads many of them concurrently.
package assets

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"fashion-show/animation"
	"fashion-show/core"
	"fashion-show/internal/logging"
	"fashion-show/math"
	"fashion-show/scene"
)

// Model is one loaded glTF file. Root is a fresh node that parents every
// root of the file's default scene, so placement never touches authored
// transforms.
//
// Before the first Render call, upload every texture in Textures.
type Model struct {
	Root     *scene.Node
	Clips    []*animation.Clip
	Textures []*scene.Texture
	Skins    []*scene.Skin
}

// LoadGLTF opens a .glb or .gltf file and returns its scene graph, skins
// and animation clips. PBR metallic-roughness is approximated to Phong.
func LoadGLTF(path string) (*Model, error) {
	return loadGLTF(path, logging.NewNop())
}

func loadGLTF(path string, log *slog.Logger) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ReadDocument(doc, name, filepath.Dir(path), log)
}

// ReadDocument converts an already parsed document. External image URIs
// are resolved against dir.
func ReadDocument(doc *gltf.Document, name, dir string, log *slog.Logger) (*Model, error) {
	if log == nil {
		log = logging.NewNop()
	}
	d := &decoder{doc: doc, dir: dir, log: log.With("model", name)}
	m := &Model{Root: scene.NewNode(name)}

	textures := d.textures()
	for _, t := range textures {
		if t != nil {
			m.Textures = append(m.Textures, t)
		}
	}
	materials := d.materials(textures)

	meshes, err := d.meshes(materials)
	if err != nil {
		return nil, err
	}
	nodes := d.nodes(meshes)

	skins, err := d.skins(nodes)
	if err != nil {
		return nil, err
	}
	m.Skins = skins
	for i, gn := range doc.Nodes {
		if gn.Skin == nil || *gn.Skin >= len(skins) {
			continue
		}
		skin := skins[*gn.Skin]
		nodes[i].Skin = skin
		for _, c := range nodes[i].Children {
			if c.Mesh != nil && c.Mesh.Skinned {
				c.Skin = skin
			}
		}
	}

	for _, root := range d.roots(nodes) {
		m.Root.AddChild(root)
	}

	m.Clips, err = d.animations()
	if err != nil {
		return nil, err
	}
	log.Debug("gltf decoded", "model", name, "nodes", len(nodes), "clips", len(m.Clips), "skins", len(m.Skins))
	return m, nil
}

type decoder struct {
	doc *gltf.Document
	dir string
	log *slog.Logger
}

// nodeName is shared by node construction and animation binding so that
// tracks of unnamed nodes still resolve.
func nodeName(doc *gltf.Document, i int) string {
	if doc.Nodes[i].Name != "" {
		return doc.Nodes[i].Name
	}
	return fmt.Sprintf("node_%d", i)
}

func (d *decoder) textures() []*scene.Texture {
	cache := make([]*scene.Texture, len(d.doc.Textures))
	for i, gt := range d.doc.Textures {
		if gt.Source == nil || *gt.Source >= len(d.doc.Images) {
			continue
		}
		img := d.doc.Images[*gt.Source]

		var (
			tex *scene.Texture
			err error
		)
		switch {
		case img.BufferView != nil:
			// Binary GLB: image data lives in a buffer view
			var raw []byte
			raw, err = modeler.ReadBufferView(d.doc, d.doc.BufferViews[*img.BufferView])
			if err == nil {
				name := img.Name
				if name == "" {
					name = fmt.Sprintf("gltf_img_%d", *gt.Source)
				}
				tex, err = scene.DecodeTexture(name, raw)
			}
		case img.URI != "" && !img.IsEmbeddedResource():
			tex, err = scene.LoadTexture(filepath.Join(d.dir, img.URI))
		}
		if err != nil {
			d.log.Warn("gltf texture skipped", "image", *gt.Source, "error", err)
			continue
		}
		cache[i] = tex
	}
	return cache
}

func (d *decoder) materials(textures []*scene.Texture) []*scene.Material {
	cache := make([]*scene.Material, len(d.doc.Materials))
	for i, gm := range d.doc.Materials {
		mat := scene.DefaultMaterial()
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			albedo := core.Color{
				R: float32(cf[0]), G: float32(cf[1]),
				B: float32(cf[2]), A: float32(cf[3]),
			}
			var tex *scene.Texture
			if pbr.BaseColorTexture != nil {
				if idx := pbr.BaseColorTexture.Index; idx < len(textures) {
					tex = textures[idx]
				}
			}
			mat = scene.NewStandardMaterial(gm.Name,
				albedo, tex,
				float32(pbr.MetallicFactorOrDefault()),
				float32(pbr.RoughnessFactorOrDefault()))
		}
		mat.Name = gm.Name
		cache[i] = mat
	}
	return cache
}

// meshes returns one slice of primitives per glTF mesh.
func (d *decoder) meshes(materials []*scene.Material) ([][]*scene.Mesh, error) {
	out := make([][]*scene.Mesh, len(d.doc.Meshes))
	for mi, gm := range d.doc.Meshes {
		for pi, prim := range gm.Primitives {
			m, err := d.primitive(gm.Name, pi, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			if prim.Material != nil && *prim.Material < len(materials) {
				m.Material = materials[*prim.Material]
			}
			out[mi] = append(out[mi], m)
		}
	}
	return out, nil
}

func (d *decoder) primitive(meshName string, primIdx int, prim *gltf.Primitive) (*scene.Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}
	doc := d.doc

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var (
		normals [][3]float32
		uvs     [][2]float32
		joints  [][4]uint16
		weights [][4]float32
	)
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("uvs: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.JOINTS_0]; ok {
		if joints, err = modeler.ReadJoints(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("joints: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.WEIGHTS_0]; ok {
		if weights, err = modeler.ReadWeights(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("weights: %w", err)
		}
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: math.Vec3{X: p[0], Y: p[1], Z: p[2]},
			Normal:   math.Vec3Up,
			Color:    core.ColorWhite,
		}
		if i < len(normals) {
			n := normals[i]
			v.Normal = math.Vec3{X: n[0], Y: n[1], Z: n[2]}
		}
		if i < len(uvs) {
			v.UV = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
		if i < len(joints) && i < len(weights) {
			for k := 0; k < 4; k++ {
				v.Joints[k] = float32(joints[i][k])
			}
			v.Weights = normalizeWeights(weights[i])
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	mesh := scene.CreateMeshFromData(name, verts, indices)
	mesh.Skinned = len(joints) > 0 && len(weights) > 0
	return mesh, nil
}

// normalizeWeights rescales weights to sum to one. All-zero weights bind
// the vertex fully to the first joint.
func normalizeWeights(w [4]float32) [4]float32 {
	sum := w[0] + w[1] + w[2] + w[3]
	if sum <= 0 {
		return [4]float32{1, 0, 0, 0}
	}
	return [4]float32{w[0] / sum, w[1] / sum, w[2] / sum, w[3] / sum}
}

func (d *decoder) nodes(meshes [][]*scene.Mesh) []*scene.Node {
	nodes := make([]*scene.Node, len(d.doc.Nodes))
	for i, gn := range d.doc.Nodes {
		name := nodeName(d.doc, i)
		n := scene.NewNode(name)
		n.SetTransform(nodeTransform(gn))

		if gn.Mesh != nil && *gn.Mesh < len(meshes) {
			prims := meshes[*gn.Mesh]
			switch len(prims) {
			case 0:
			case 1:
				n.Mesh = prims[0]
			default:
				// Multiple primitives: one child node per primitive
				for pi, p := range prims {
					child := scene.NewNode(fmt.Sprintf("%s_prim%d", name, pi))
					child.Mesh = p
					n.AddChild(child)
				}
			}
		}
		nodes[i] = n
	}

	for i, gn := range d.doc.Nodes {
		for _, childIdx := range gn.Children {
			if childIdx < len(nodes) {
				nodes[i].AddChild(nodes[childIdx])
			}
		}
	}
	return nodes
}

// nodeTransform reads either the TRS properties or, when present, the
// node matrix.
func nodeTransform(gn *gltf.Node) core.Transform {
	if hasMatrix(gn.Matrix) {
		var m math.Mat4
		for i := 0; i < 16; i++ {
			m[i/4][i%4] = float32(gn.Matrix[i])
		}
		t, r, s := m.Decompose()
		return core.Transform{Position: t, Rotation: r, Scale: s}
	}

	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault() // [x, y, z, w]
	s := gn.ScaleOrDefault()
	return core.Transform{
		Position: math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])},
		Rotation: math.Quaternion{
			X: float32(r[0]), Y: float32(r[1]),
			Z: float32(r[2]), W: float32(r[3]),
		},
		Scale: math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])},
	}
}

// hasMatrix reports whether a node matrix is set to something other than
// the identity or the zero value.
func hasMatrix(m [16]float64) bool {
	if m == ([16]float64{}) {
		return false
	}
	for i, v := range m {
		identity := 0.0
		if i%5 == 0 {
			identity = 1
		}
		if v != identity {
			return true
		}
	}
	return false
}

func (d *decoder) roots(nodes []*scene.Node) []*scene.Node {
	var roots []*scene.Node
	if d.doc.Scene != nil && *d.doc.Scene < len(d.doc.Scenes) {
		for _, idx := range d.doc.Scenes[*d.doc.Scene].Nodes {
			if idx < len(nodes) {
				roots = append(roots, nodes[idx])
			}
		}
		return roots
	}
	// No default scene: collect all parentless nodes
	for _, n := range nodes {
		if n.Parent == nil {
			roots = append(roots, n)
		}
	}
	return roots
}

func (d *decoder) skins(nodes []*scene.Node) ([]*scene.Skin, error) {
	skins := make([]*scene.Skin, len(d.doc.Skins))
	for i, gs := range d.doc.Skins {
		if len(gs.Joints) > scene.MaxJoints {
			return nil, fmt.Errorf("skin %d: %d joints exceeds the limit of %d", i, len(gs.Joints), scene.MaxJoints)
		}
		joints := make([]*scene.Node, 0, len(gs.Joints))
		for _, j := range gs.Joints {
			if j >= len(nodes) {
				return nil, fmt.Errorf("skin %d: joint node %d out of range", i, j)
			}
			joints = append(joints, nodes[j])
		}

		inverseBind := make([]math.Mat4, len(joints))
		for k := range inverseBind {
			inverseBind[k] = math.Mat4Identity()
		}
		if gs.InverseBindMatrices != nil {
			raw, err := modeler.ReadAccessor(d.doc, d.doc.Accessors[*gs.InverseBindMatrices], nil)
			if err != nil {
				return nil, fmt.Errorf("skin %d inverse bind matrices: %w", i, err)
			}
			mats, ok := raw.([][4][4]float32)
			if !ok {
				return nil, fmt.Errorf("skin %d inverse bind matrices: unexpected type %T", i, raw)
			}
			// glTF stores column-major matrices, which is exactly the
			// row-vector layout of math.Mat4.
			for k := 0; k < len(mats) && k < len(inverseBind); k++ {
				inverseBind[k] = math.Mat4(mats[k])
			}
		}
		skins[i] = scene.NewSkin(joints, inverseBind)
	}
	return skins, nil
}
