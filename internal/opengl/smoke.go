package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"fashion-show/math"
	"fashion-show/scene"
)

// Billboard corners are built on the CPU in world space.
const smokeVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPos;
layout(location = 1) in vec2 inUV;

uniform mat4 vp;

out vec2 fragUV;

void main() {
    gl_Position = vp * vec4(inPos, 1.0);
    fragUV      = inUV;
}
` + "\x00"

// Without a texture the sprite falls back to a soft disc.
const smokeFragSrc = `
#version 410 core
in vec2 fragUV;

out vec4 outColor;

uniform vec4      tint;
uniform sampler2D smokeTex;
uniform bool      hasSmokeTex;

void main() {
    vec4 col = tint;
    if (hasSmokeTex) {
        col *= texture(smokeTex, fragUV);
    } else {
        float d = length(fragUV - vec2(0.5)) * 2.0;
        col.a  *= clamp(1.0 - d * d, 0.0, 1.0);
    }
    outColor = col;
}
` + "\x00"

// SmokeRenderer owns the GPU resources for smoke billboards. It is created
// lazily by Renderer.DrawSmoke.
type SmokeRenderer struct {
	prog           uint32
	vao            uint32
	vbo            uint32
	vpLoc          int32
	tintLoc        int32
	smokeTexLoc    int32
	hasSmokeTexLoc int32
	vboCap         int // capacity in vertices
	buf            []float32
}

func newSmokeRenderer() (*SmokeRenderer, error) {
	prog, err := newProgram(smokeVertSrc, smokeFragSrc)
	if err != nil {
		return nil, fmt.Errorf("smoke shader: %w", err)
	}

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)

	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	const stride = int32(5 * 4) // pos(3) + uv(2)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 12)
	gl.BindVertexArray(0)

	sr := &SmokeRenderer{
		prog:           prog,
		vao:            vao,
		vbo:            vbo,
		vpLoc:          gl.GetUniformLocation(prog, gl.Str("vp\x00")),
		tintLoc:        gl.GetUniformLocation(prog, gl.Str("tint\x00")),
		smokeTexLoc:    gl.GetUniformLocation(prog, gl.Str("smokeTex\x00")),
		hasSmokeTexLoc: gl.GetUniformLocation(prog, gl.Str("hasSmokeTex\x00")),
	}
	gl.UseProgram(prog)
	gl.Uniform1i(sr.smokeTexLoc, 0)
	return sr, nil
}

// draw renders every particle as a square of side field.Size facing the
// camera. Camera right and up are the first two columns of the view
// rotation.
func (sr *SmokeRenderer) draw(field *scene.SmokeField, view, proj math.Mat4) {
	const vertsPerParticle = 6
	const floatsPerVert = 5

	camRight := math.Vec3{X: view[0][0], Y: view[1][0], Z: view[2][0]}
	camUp := math.Vec3{X: view[0][1], Y: view[1][1], Z: view[2][1]}
	half := field.Size * 0.5
	r := camRight.Mul(half)
	u := camUp.Mul(half)

	n := len(field.Particles)
	need := n * vertsPerParticle * floatsPerVert
	if cap(sr.buf) < need {
		sr.buf = make([]float32, need)
	}
	buf := sr.buf[:need]
	out := 0
	add := func(p math.Vec3, s, t float32) {
		buf[out], buf[out+1], buf[out+2], buf[out+3], buf[out+4] = p.X, p.Y, p.Z, s, t
		out += floatsPerVert
	}
	for i := range field.Particles {
		p := field.Particles[i].Position
		bl := p.Sub(r).Sub(u)
		br := p.Add(r).Sub(u)
		tl := p.Sub(r).Add(u)
		tr := p.Add(r).Add(u)
		add(tl, 0, 1)
		add(tr, 1, 1)
		add(br, 1, 0)
		add(tl, 0, 1)
		add(br, 1, 0)
		add(bl, 0, 0)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, sr.vbo)
	vertCount := n * vertsPerParticle
	if vertCount > sr.vboCap {
		gl.BufferData(gl.ARRAY_BUFFER, len(buf)*4, gl.Ptr(buf), gl.DYNAMIC_DRAW)
		sr.vboCap = vertCount
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(buf)*4, gl.Ptr(buf))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.Enable(gl.BLEND)
	switch field.BlendMode {
	case scene.BlendAdditive:
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	default:
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
	// Test against the scene but never occlude.
	gl.DepthMask(false)

	vp := view.Mul(proj)
	gl.UseProgram(sr.prog)
	gl.UniformMatrix4fv(sr.vpLoc, 1, false, &vp[0][0])
	c := field.Color
	gl.Uniform4f(sr.tintLoc, c.R, c.G, c.B, c.A*field.Opacity)
	if tex := field.Texture; tex != nil && tex.GLID != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
		gl.Uniform1i(sr.hasSmokeTexLoc, 1)
	} else {
		gl.Uniform1i(sr.hasSmokeTexLoc, 0)
	}

	gl.BindVertexArray(sr.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(vertCount))
	gl.BindVertexArray(0)

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

func (sr *SmokeRenderer) destroy() {
	gl.DeleteVertexArrays(1, &sr.vao)
	gl.DeleteBuffers(1, &sr.vbo)
	gl.DeleteProgram(sr.prog)
}
