package loader

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/tux-viewer/internal/engine/scenegraph"
)

type primitiveData struct {
	mesh *scenegraph.Mesh
	mat  *scenegraph.Material
}

// converter turns one decoded document into a scene graph. Meshes and
// materials referenced by several nodes are converted once and shared.
type converter struct {
	doc       *gltf.Document
	log       *zap.Logger
	nodes     []*scenegraph.Node
	visiting  []bool
	meshes    map[uint32][]primitiveData
	materials map[uint32]*scenegraph.Material
}

func convertDocument(doc *gltf.Document, log *zap.Logger) (*scenegraph.Node, []*scenegraph.Clip, error) {
	if len(doc.Scenes) == 0 {
		return nil, nil, errors.New("document has no scenes")
	}
	sceneIdx := uint32(0)
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if int(sceneIdx) >= len(doc.Scenes) {
		return nil, nil, errors.Errorf("default scene %d out of range", sceneIdx)
	}

	c := &converter{
		doc:       doc,
		log:       log,
		nodes:     make([]*scenegraph.Node, len(doc.Nodes)),
		visiting:  make([]bool, len(doc.Nodes)),
		meshes:    make(map[uint32][]primitiveData),
		materials: make(map[uint32]*scenegraph.Material),
	}

	scene := doc.Scenes[sceneIdx]
	name := scene.Name
	if name == "" {
		name = "scene"
	}
	root := scenegraph.NewGroup(name)
	for _, idx := range scene.Nodes {
		n, err := c.node(idx)
		if err != nil {
			return nil, nil, err
		}
		root.Add(n)
	}

	if root.MeshCount() == 0 {
		return nil, nil, errors.New("scene has no renderable geometry")
	}

	return root, c.clips(), nil
}

func (c *converter) node(idx uint32) (*scenegraph.Node, error) {
	if int(idx) >= len(c.doc.Nodes) {
		return nil, errors.Errorf("node %d out of range", idx)
	}
	if c.visiting[idx] {
		return nil, errors.Errorf("node %d is its own ancestor", idx)
	}
	if c.nodes[idx] != nil {
		return nil, errors.Errorf("node %d has more than one parent", idx)
	}
	c.visiting[idx] = true
	defer func() { c.visiting[idx] = false }()

	gn := c.doc.Nodes[idx]
	name := gn.Name
	if name == "" {
		name = fmt.Sprintf("node%d", idx)
	}
	n := scenegraph.NewGroup(name)
	applyTransform(n, gn)
	c.nodes[idx] = n

	if gn.Mesh != nil {
		prims, err := c.mesh(*gn.Mesh)
		if err != nil {
			return nil, errors.Wrapf(err, "node %q", name)
		}
		if len(prims) == 1 {
			n.Mesh, n.Material = prims[0].mesh, prims[0].mat
		} else {
			for i, p := range prims {
				n.Add(scenegraph.NewMesh(fmt.Sprintf("%s#%d", name, i), p.mesh, p.mat))
			}
		}
	}

	for _, child := range gn.Children {
		cn, err := c.node(child)
		if err != nil {
			return nil, err
		}
		n.Add(cn)
	}
	return n, nil
}

// applyTransform copies a node's local transform. A non-identity matrix wins
// over TRS, as glTF forbids specifying both.
func applyTransform(n *scenegraph.Node, gn *gltf.Node) {
	m := mgl32.Mat4(gn.Matrix)
	if m != (mgl32.Mat4{}) && m != mgl32.Ident4() {
		n.Position, n.Rotation, n.Scale = decompose(m)
		return
	}

	n.Position = mgl32.Vec3(gn.Translation)
	if r := gn.Rotation; r != [4]float32{} {
		n.Rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize()
	}
	if s := gn.Scale; s != [3]float32{} {
		n.Scale = mgl32.Vec3(s)
	}
}

func decompose(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	t := m.Col(3).Vec3()
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	if m.Mat3().Det() < 0 {
		sx = -sx
	}
	if sx == 0 || sy == 0 || sz == 0 {
		return t, mgl32.QuatIdent(), mgl32.Vec3{sx, sy, sz}
	}

	r := mgl32.Ident4()
	r.SetCol(0, m.Col(0).Mul(1/sx))
	r.SetCol(1, m.Col(1).Mul(1/sy))
	r.SetCol(2, m.Col(2).Mul(1/sz))
	r.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	return t, mgl32.Mat4ToQuat(r).Normalize(), mgl32.Vec3{sx, sy, sz}
}

func (c *converter) mesh(idx uint32) ([]primitiveData, error) {
	if prims, ok := c.meshes[idx]; ok {
		return prims, nil
	}
	if int(idx) >= len(c.doc.Meshes) {
		return nil, errors.Errorf("mesh %d out of range", idx)
	}

	gm := c.doc.Meshes[idx]
	var prims []primitiveData
	for i, p := range gm.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			c.log.Debug("skipping non-triangle primitive",
				zap.String("mesh", gm.Name), zap.Int("primitive", i))
			continue
		}
		mesh, err := c.primitive(p)
		if err != nil {
			return nil, errors.Wrapf(err, "mesh %q primitive %d", gm.Name, i)
		}
		mat, err := c.material(p.Material)
		if err != nil {
			return nil, errors.Wrapf(err, "mesh %q primitive %d", gm.Name, i)
		}
		prims = append(prims, primitiveData{mesh: mesh, mat: mat})
	}

	c.meshes[idx] = prims
	return prims, nil
}

func (c *converter) accessor(idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(c.doc.Accessors) {
		return nil, errors.Errorf("accessor %d out of range", idx)
	}
	return c.doc.Accessors[idx], nil
}

func (c *converter) primitive(p *gltf.Primitive) (*scenegraph.Mesh, error) {
	posIdx, ok := p.Attributes["POSITION"]
	if !ok {
		return nil, errors.New("no POSITION attribute")
	}
	acr, err := c.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(c.doc, acr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "reading positions")
	}

	mesh := &scenegraph.Mesh{Positions: make([]mgl32.Vec3, len(positions))}
	for i, v := range positions {
		mesh.Positions[i] = v
	}

	if p.Indices != nil {
		acr, err := c.accessor(*p.Indices)
		if err != nil {
			return nil, err
		}
		indices, err := modeler.ReadIndices(c.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrap(err, "reading indices")
		}
		for _, ix := range indices {
			if int(ix) >= len(positions) {
				return nil, errors.Errorf("index %d out of range (%d vertices)", ix, len(positions))
			}
		}
		mesh.Indices = indices
	} else {
		mesh.Indices = make([]uint32, len(positions))
		for i := range mesh.Indices {
			mesh.Indices[i] = uint32(i)
		}
	}
	if len(mesh.Indices)%3 != 0 {
		return nil, errors.Errorf("index count %d is not a multiple of 3", len(mesh.Indices))
	}

	if nrmIdx, ok := p.Attributes["NORMAL"]; ok {
		acr, err := c.accessor(nrmIdx)
		if err != nil {
			return nil, err
		}
		normals, err := modeler.ReadNormal(c.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrap(err, "reading normals")
		}
		if len(normals) == len(positions) {
			mesh.Normals = make([]mgl32.Vec3, len(normals))
			for i, v := range normals {
				mesh.Normals[i] = v
			}
		}
	}
	if mesh.Normals == nil {
		mesh.ComputeNormals()
	}
	return mesh, nil
}

func (c *converter) material(idx *uint32) (*scenegraph.Material, error) {
	if idx == nil {
		return scenegraph.DefaultMaterial(), nil
	}
	if mat, ok := c.materials[*idx]; ok {
		return mat, nil
	}
	if int(*idx) >= len(c.doc.Materials) {
		return nil, errors.Errorf("material %d out of range", *idx)
	}

	gm := c.doc.Materials[*idx]
	mat := scenegraph.DefaultMaterial()
	mat.Name = gm.Name
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			mat.Color = mgl32.Vec3{f[0], f[1], f[2]}
		}
		if f := pbr.MetallicFactor; f != nil {
			mat.Metalness = *f
		}
		if f := pbr.RoughnessFactor; f != nil {
			mat.Roughness = *f
		}
	}
	c.materials[*idx] = mat
	return mat, nil
}

// clips converts every animation whose channels can be bound to nodes in the
// built scene. Unusable channels are dropped with a warning rather than
// failing the whole asset.
func (c *converter) clips() []*scenegraph.Clip {
	var out []*scenegraph.Clip
	for i, anim := range c.doc.Animations {
		name := anim.Name
		if name == "" {
			name = fmt.Sprintf("clip%d", i)
		}
		clip := &scenegraph.Clip{Name: name}
		for j, ch := range anim.Channels {
			conv, err := c.channel(anim, ch)
			if err != nil {
				c.log.Warn("dropping animation channel",
					zap.String("clip", name), zap.Int("channel", j), zap.Error(err))
				continue
			}
			if conv == nil {
				continue
			}
			if last := conv.Times[len(conv.Times)-1]; last > clip.Duration {
				clip.Duration = last
			}
			clip.Channels = append(clip.Channels, *conv)
		}
		if len(clip.Channels) > 0 {
			out = append(out, clip)
		}
	}
	return out
}

func (c *converter) channel(anim *gltf.Animation, ch *gltf.Channel) (*scenegraph.Channel, error) {
	if ch.Target.Node == nil || int(*ch.Target.Node) >= len(c.nodes) {
		return nil, errors.New("channel has no target node")
	}
	target := c.nodes[*ch.Target.Node]
	if target == nil {
		// Node exists but is outside the active scene.
		return nil, nil
	}

	var path scenegraph.Path
	switch ch.Target.Path {
	case gltf.TRSTranslation:
		path = scenegraph.PathTranslation
	case gltf.TRSRotation:
		path = scenegraph.PathRotation
	case gltf.TRSScale:
		path = scenegraph.PathScale
	default:
		return nil, nil
	}

	if ch.Sampler == nil || int(*ch.Sampler) >= len(anim.Samplers) {
		return nil, errors.New("channel sampler out of range")
	}
	s := anim.Samplers[*ch.Sampler]
	if s.Input == nil || s.Output == nil {
		return nil, errors.New("sampler has no input or output")
	}

	inAcr, err := c.accessor(*s.Input)
	if err != nil {
		return nil, err
	}
	rawTimes, err := modeler.ReadAccessor(c.doc, inAcr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "reading keyframe times")
	}
	times, ok := rawTimes.([]float32)
	if !ok || len(times) == 0 {
		return nil, errors.Errorf("keyframe times have type %T", rawTimes)
	}

	outAcr, err := c.accessor(*s.Output)
	if err != nil {
		return nil, err
	}
	rawValues, err := modeler.ReadAccessor(c.doc, outAcr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "reading keyframe values")
	}
	values, err := keyframeValues(rawValues)
	if err != nil {
		return nil, err
	}

	interp := scenegraph.InterpolationLinear
	switch s.Interpolation {
	case gltf.InterpolationStep:
		interp = scenegraph.InterpolationStep
	case gltf.InterpolationCubicSpline:
		// Keep only the value of each (in-tangent, value, out-tangent) triple.
		if len(values) != 3*len(times) {
			return nil, errors.Errorf("cubic spline has %d values for %d keys", len(values), len(times))
		}
		vals := make([][4]float32, len(times))
		for i := range vals {
			vals[i] = values[3*i+1]
		}
		values = vals
	}
	if len(values) != len(times) {
		return nil, errors.Errorf("%d values for %d keys", len(values), len(times))
	}

	for i := 1; i < len(times); i++ {
		if times[i] < times[i-1] {
			return nil, errors.New("keyframe times are not increasing")
		}
	}

	return &scenegraph.Channel{
		Target:        target,
		Path:          path,
		Interpolation: interp,
		Times:         times,
		Values:        values,
	}, nil
}

func keyframeValues(raw interface{}) ([][4]float32, error) {
	switch v := raw.(type) {
	case [][3]float32:
		out := make([][4]float32, len(v))
		for i, e := range v {
			out[i] = [4]float32{e[0], e[1], e[2], 0}
		}
		return out, nil
	case [][4]float32:
		return v, nil
	case [][4]int16:
		// Normalized rotation quaternions.
		out := make([][4]float32, len(v))
		for i, e := range v {
			for k := range e {
				out[i][k] = float32(math.Max(float64(e[k])/32767, -1))
			}
		}
		return out, nil
	case [][4]int8:
		out := make([][4]float32, len(v))
		for i, e := range v {
			for k := range e {
				out[i][k] = float32(math.Max(float64(e[k])/127, -1))
			}
		}
		return out, nil
	default:
		return nil, errors.Errorf("unsupported keyframe value type %T", raw)
	}
}
