// Package renderer draws an assembled scene through the OpenGL backend.
package renderer

import (
	"fmt"
	"log/slog"

	"fashion-show/core"
	"fashion-show/internal/opengl"
	"fashion-show/math"
	"fashion-show/scene"
)

// RenderEngine is the high-level renderer that drives the OpenGL backend.
type RenderEngine struct {
	gl     *opengl.Renderer
	window *core.Window
	Scene  *scene.Scene

	ShadowsEnabled bool

	lastObjects   int
	lastTriangles int
}

func NewRenderEngine(window *core.Window, log *slog.Logger) (*RenderEngine, error) {
	glRenderer, err := opengl.NewRenderer(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL renderer: %w", err)
	}
	glRenderer.SetViewport(window.Width, window.Height)

	return &RenderEngine{gl: glRenderer, window: window}, nil
}

// EnableShadows creates a size×size shadow map for the scene's shadow light.
func (re *RenderEngine) EnableShadows(size int) error {
	if err := re.gl.EnableShadows(size); err != nil {
		return fmt.Errorf("shadows: %w", err)
	}
	re.ShadowsEnabled = true
	return nil
}

func (re *RenderEngine) SetScene(s *scene.Scene) {
	re.Scene = s
}

// Render draws the shadow pass, the lit scene and the smoke.
func (re *RenderEngine) Render() error {
	if re.Scene == nil || re.Scene.Camera == nil {
		return fmt.Errorf("no scene or camera")
	}

	light := re.Scene.ShadowLight()
	doShadows := re.ShadowsEnabled && re.gl.HasShadowMap() && light != nil

	lightVP := math.Mat4Identity()
	if doShadows {
		lightVP = light.ShadowViewProj()
		re.gl.BeginShadowPass()
		for _, d := range re.Scene.DrawList(true) {
			re.gl.DrawMeshShadow(d.Node.Mesh, d.Model.Mul(lightVP), d.Joints)
		}
		re.gl.EndShadowPass()
	}

	re.gl.BeginFrame(re.Scene.SkyColor, re.Scene.Lights, re.Scene.Ambient,
		re.Scene.Camera.Position, lightVP, doShadows)

	view := re.Scene.Camera.GetViewMatrix()
	proj := re.Scene.Camera.GetProjectionMatrix()
	vp := view.Mul(proj)

	objects, triangles := 0, 0
	for _, d := range scene.Cull(re.Scene.DrawList(false), vp) {
		re.gl.DrawMesh(d.Node.Mesh, d.Model.Mul(vp), d.Model, d.Joints, d.Node.ReceiveShadow)
		objects++
		triangles += len(d.Node.Mesh.Indices) / 3
	}
	re.lastObjects, re.lastTriangles = objects, triangles

	for _, field := range re.Scene.Smoke {
		re.gl.DrawSmoke(field, view, proj)
	}
	return nil
}

func (re *RenderEngine) Present() {
	re.window.SwapBuffers()
}

func (re *RenderEngine) Resize(width, height int) {
	re.gl.SetViewport(width, height)
	if re.Scene != nil && re.Scene.Camera != nil {
		re.Scene.Camera.UpdateAspectRatio(float32(width), float32(height))
	}
}

// UploadTexture uploads a texture to the GPU. Must be called from the main thread.
func (re *RenderEngine) UploadTexture(tex *scene.Texture) error {
	return opengl.UploadTexture(tex)
}

func (re *RenderEngine) Destroy() {
	re.gl.Destroy()
}

// DrawStats returns stats from the most recent Render call.
func (re *RenderEngine) DrawStats() (objects, triangles int) {
	return re.lastObjects, re.lastTriangles
}
