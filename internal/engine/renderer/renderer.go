// Package renderer draws a scenegraph tree with OpenGL.
package renderer

import (
	_ "embed"
	"fmt"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/tux-viewer/internal/engine/camera"
	"github.com/Faultbox/tux-viewer/internal/engine/framebuffer"
	"github.com/Faultbox/tux-viewer/internal/engine/lighting"
	"github.com/Faultbox/tux-viewer/internal/engine/scenegraph"
	"github.com/Faultbox/tux-viewer/internal/engine/shader"
	"github.com/Faultbox/tux-viewer/internal/logger"
)

//go:embed shaders/mesh.vert
var meshVertexShader string

//go:embed shaders/mesh.frag
var meshFragmentShader string

// Config holds renderer configuration.
type Config struct {
	Samples    int // MSAA samples on the offscreen target
	Exposure   float32
	ClearColor [4]float32
	Lights     *lighting.Rig // nil uses lighting.MascotRig
}

// Drawable reports the pixel size of the default framebuffer.
type Drawable interface {
	DrawableSize() (int, int)
}

// gpuMesh is an uploaded mesh.
type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config   Config
	log      *zap.Logger
	drawable Drawable

	program *shader.Program
	target  *framebuffer.Framebuffer
	lights  *lighting.Rig

	meshes map[*scenegraph.Mesh]*gpuMesh
	seen   map[*scenegraph.Mesh]bool
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, drawable Drawable) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		log:      logger.Named("renderer"),
		drawable: drawable,
		lights:   cfg.Lights,
		meshes:   make(map[*scenegraph.Mesh]*gpuMesh),
		seen:     make(map[*scenegraph.Mesh]bool),
	}
	if r.lights == nil {
		r.lights = lighting.MascotRig()
	}
	if r.config.Exposure <= 0 {
		r.config.Exposure = 1
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	r.log.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	var err error
	r.program, err = shader.New(meshVertexShader, meshFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create mesh shader: %w", err)
	}

	w, h := 1, 1
	if drawable != nil {
		w, h = drawable.DrawableSize()
	}
	r.target, err = framebuffer.New(int32(w), int32(h), int32(cfg.Samples))
	if err != nil {
		r.program.Delete()
		return nil, err
	}

	return r, nil
}

// SetSize sizes the offscreen target to the logical size times ratio.
func (r *Renderer) SetSize(width, height int, ratio float32) {
	w, h := scaledSize(width, height, ratio)
	r.target.Resize(w, h)
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float32("ratio", ratio),
		zap.Int32("pixelsW", w),
		zap.Int32("pixelsH", h),
	)
}

// Render draws the tree under root from the rig's viewpoint and presents
// the result to the default framebuffer.
func (r *Renderer) Render(root *scenegraph.Node, cam *camera.Rig) error {
	r.target.Bind()
	c := r.config.ClearColor
	r.target.Clear(c[0], c[1], c[2], c[3])

	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	p := r.program
	p.Use()
	p.SetMat4("uView", cam.ViewMatrix())
	p.SetMat4("uProjection", cam.ProjectionMatrix())
	p.SetVec3("uCameraPos", cam.Position())
	p.SetFloat("uExposure", r.config.Exposure)
	r.uploadLights()

	clear(r.seen)
	if root != nil {
		root.Walk(func(node *scenegraph.Node, world mgl32.Mat4) {
			if node.Mesh == nil || len(node.Mesh.Indices) == 0 {
				return
			}
			r.seen[node.Mesh] = true
			r.drawMesh(node, world)
		})
	}
	r.release()

	r.target.Resolve()
	dw, dh := r.target.Size()
	if r.drawable != nil {
		w, h := r.drawable.DrawableSize()
		dw, dh = int32(w), int32(h)
	}
	r.target.Present(dw, dh)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

func (r *Renderer) uploadLights() {
	p := r.program
	l := r.lights
	p.SetVec3("uAmbient", l.Ambient())
	p.SetInt("uDirCount", int32(l.DirectionalCount()))
	p.SetVec3Array("uDirDirection", l.Directions())
	p.SetVec3Array("uDirRadiance", l.DirectionalRadiance())
	p.SetInt("uPointCount", int32(l.Points.Count()))
	p.SetVec3Array("uPointPosition", l.Points.Positions())
	p.SetVec3Array("uPointRadiance", l.Points.Radiance())
	p.SetFloatArray("uPointRange", l.Points.Ranges())
	p.SetFloatArray("uPointDecay", l.Points.Decays())
}

func (r *Renderer) drawMesh(node *scenegraph.Node, world mgl32.Mat4) {
	gm := r.meshes[node.Mesh]
	if gm == nil {
		gm = upload(node.Mesh)
		r.meshes[node.Mesh] = gm
	}

	mat := node.Material
	if mat == nil {
		mat = scenegraph.DefaultMaterial()
	}

	p := r.program
	p.SetMat4("uModel", world)
	p.SetMat3("uNormalMatrix", normalMatrix(world))
	p.SetVec3("uBaseColor", mat.Color)
	p.SetFloat("uRoughness", mat.Roughness)
	p.SetFloat("uMetalness", mat.Metalness)

	gl.BindVertexArray(gm.vao)
	gl.DrawElements(gl.TRIANGLES, gm.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// release frees GPU meshes that were not drawn this frame.
func (r *Renderer) release() {
	for mesh, gm := range r.meshes {
		if !r.seen[mesh] {
			gm.delete()
			delete(r.meshes, mesh)
		}
	}
}

func upload(mesh *scenegraph.Mesh) *gpuMesh {
	vertices := interleave(mesh)
	gm := &gpuMesh{count: int32(len(mesh.Indices))}

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	stride := int32(vertexStride * 4)
	// Position attribute (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal attribute (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return gm
}

func (gm *gpuMesh) delete() {
	gl.DeleteVertexArrays(1, &gm.vao)
	gl.DeleteBuffers(1, &gm.vbo)
	gl.DeleteBuffers(1, &gm.ebo)
}

// ReadPixels returns the last rendered frame as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	w, h := r.target.Size()
	return r.target.ReadPixels(), int(w), int(h)
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for mesh, gm := range r.meshes {
		gm.delete()
		delete(r.meshes, mesh)
	}
	if r.target != nil {
		r.target.Destroy()
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// vertexStride is floats per vertex: position then normal.
const vertexStride = 6

func interleave(mesh *scenegraph.Mesh) []float32 {
	out := make([]float32, 0, len(mesh.Positions)*vertexStride)
	for i, p := range mesh.Positions {
		n := mgl32.Vec3{0, 1, 0}
		if i < len(mesh.Normals) {
			n = mesh.Normals[i]
		}
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2])
	}
	return out
}

// normalMatrix is the inverse transpose of the upper 3x3 of world.
func normalMatrix(world mgl32.Mat4) mgl32.Mat3 {
	m := world.Mat3()
	if m.Det() == 0 {
		return mgl32.Ident3()
	}
	return m.Inv().Transpose()
}

func scaledSize(width, height int, ratio float32) (int32, int32) {
	if ratio <= 0 {
		ratio = 1
	}
	w := int32(math.Round(float64(float32(width) * ratio)))
	h := int32(math.Round(float64(float32(height) * ratio)))
	return max(w, 1), max(h, 1)
}
