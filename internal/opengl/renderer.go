package opengl

import (
	"fmt"
	"log/slog"
	gomath "math"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"fashion-show/core"
	"fashion-show/math"
	"fashion-show/scene"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	HasIndices bool
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	program uint32

	// Vertex transform uniforms
	mvpLoc           int32
	modelLoc         int32
	lightViewProjLoc int32
	skinnedLoc       int32
	jointsLoc        int32

	// Directional light
	lightDirLoc       int32
	lightColorLoc     int32
	lightIntensityLoc int32
	ambientColorLoc   int32

	// Spot light
	hasSpotLoc       int32
	spotPosLoc       int32
	spotDirLoc       int32
	spotColorLoc     int32
	spotIntensityLoc int32
	spotInnerLoc     int32
	spotOuterLoc     int32

	cameraPosLoc int32

	// Material
	matAlbedoLoc    int32
	matSpecularLoc  int32
	matShininessLoc int32
	unlitLoc        int32
	albedoTexLoc    int32
	hasTextureLoc   int32

	// Shadows
	shadowMapLoc     int32
	hasShadowsLoc    int32
	shadowTexelLoc   int32
	shadowsThisFrame bool

	shadowProg           uint32
	shadowLightMVPLoc    int32
	shadowSkinnedLoc     int32
	shadowJointsLoc      int32
	shadowMap            *ShadowMap
	viewportW, viewportH int32

	smoke *SmokeRenderer

	gpuMeshes map[*scene.Mesh]*GPUMesh
	log       *slog.Logger
}

// skinSrc is shared by the lit and depth vertex shaders. Joint indices
// arrive as floats so one vertex layout serves rigid and skinned meshes.
const skinSrc = `
#define MAX_JOINTS 100
uniform bool skinned;
uniform mat4 joints[MAX_JOINTS];

mat4 skinMatrix(vec4 j, vec4 w) {
    if (!skinned) return mat4(1.0);
    return w.x * joints[int(j.x)] + w.y * joints[int(j.y)]
         + w.z * joints[int(j.z)] + w.w * joints[int(j.w)];
}
`

const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec4 inColor;
layout(location = 4) in vec4 inJoints;
layout(location = 5) in vec4 inWeights;

uniform mat4 mvp;
uniform mat4 model;
uniform mat4 lightViewProj;
` + skinSrc + `
out vec4 fragColor;
out vec3 fragNormal;
out vec2 fragUV;
out vec3 fragWorldPos;
out vec4 fragLightSpacePos;

void main() {
    mat4 skin      = skinMatrix(inJoints, inWeights);
    vec4 local     = skin * vec4(inPosition, 1.0);
    vec4 worldPos  = model * local;

    gl_Position       = mvp * local;
    fragColor         = inColor;
    fragNormal        = mat3(model) * mat3(skin) * inNormal;
    fragUV            = inUV;
    fragWorldPos      = worldPos.xyz;
    fragLightSpacePos = lightViewProj * worldPos;
}
` + "\x00"

// Phong shading with one directional and one spot light. The directional
// light is the shadow caster.
const fragSrc = `
#version 410 core
in vec4 fragColor;
in vec3 fragNormal;
in vec2 fragUV;
in vec3 fragWorldPos;
in vec4 fragLightSpacePos;

out vec4 outColor;

uniform vec3  lightDir;
uniform vec3  lightColor;
uniform float lightIntensity;
uniform vec3  ambientColor;

uniform bool  hasSpot;
uniform vec3  spotPos;
uniform vec3  spotDir;
uniform vec3  spotColor;
uniform float spotIntensity;
uniform float spotInner;
uniform float spotOuter;

uniform vec3 cameraPos;

uniform vec3  matAlbedo;
uniform vec3  matSpecular;
uniform float matShininess;
uniform bool  unlit;

uniform sampler2D albedoTex;
uniform bool      hasTexture;

uniform sampler2DShadow shadowMap;
uniform bool            hasShadows;
uniform float           shadowTexel;

float calcShadow() {
    vec3 p = fragLightSpacePos.xyz / fragLightSpacePos.w;
    p = p * 0.5 + 0.5;
    if (p.z > 1.0) return 1.0;
    float shadow = 0.0;
    for (int x = -1; x <= 1; x++) {
        for (int y = -1; y <= 1; y++) {
            shadow += texture(shadowMap, vec3(p.xy + vec2(float(x), float(y)) * shadowTexel, p.z - 0.002));
        }
    }
    return shadow / 9.0;
}

vec3 phong(vec3 N, vec3 L, vec3 V, vec3 base, vec3 radiance) {
    float NdL = max(dot(N, L), 0.0);
    if (NdL <= 0.0) return vec3(0.0);
    vec3 H = normalize(L + V);
    vec3 spec = matSpecular * pow(max(dot(N, H), 0.0), matShininess);
    return radiance * (NdL * base + spec);
}

void main() {
    vec4 baseColor = fragColor * vec4(matAlbedo, 1.0);
    if (hasTexture) {
        baseColor *= texture(albedoTex, fragUV);
    }
    if (unlit) {
        outColor = baseColor;
        return;
    }

    vec3 N = normalize(fragNormal);
    vec3 V = normalize(cameraPos - fragWorldPos);
    float shadow = hasShadows ? calcShadow() : 1.0;

    vec3 color = ambientColor * baseColor.rgb;
    color += shadow * phong(N, normalize(-lightDir), V, baseColor.rgb, lightColor * lightIntensity);

    if (hasSpot) {
        vec3  L     = normalize(spotPos - fragWorldPos);
        float theta = dot(L, normalize(-spotDir));
        float cone  = clamp((theta - spotOuter) / max(spotInner - spotOuter, 1e-4), 0.0, 1.0);
        color += phong(N, L, V, baseColor.rgb, spotColor * spotIntensity * cone);
    }
    outColor = vec4(color, baseColor.a);
}
` + "\x00"

const depthVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 4) in vec4 inJoints;
layout(location = 5) in vec4 inWeights;
uniform mat4 lightMVP;
` + skinSrc + `
void main() {
    gl_Position = lightMVP * skinMatrix(inJoints, inWeights) * vec4(inPosition, 1.0);
}
` + "\x00"

const depthFragSrc = `
#version 410 core
void main() {}
` + "\x00"

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewRenderer(log *slog.Logger) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("main shader compile: %w", err)
	}
	shadowProg, err := newProgram(depthVertSrc, depthFragSrc)
	if err != nil {
		return nil, fmt.Errorf("depth shader compile: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	loc := func(p uint32, name string) int32 {
		return gl.GetUniformLocation(p, gl.Str(name+"\x00"))
	}
	r := &Renderer{
		program:    prog,
		shadowProg: shadowProg,

		mvpLoc:           loc(prog, "mvp"),
		modelLoc:         loc(prog, "model"),
		lightViewProjLoc: loc(prog, "lightViewProj"),
		skinnedLoc:       loc(prog, "skinned"),
		jointsLoc:        loc(prog, "joints"),

		lightDirLoc:       loc(prog, "lightDir"),
		lightColorLoc:     loc(prog, "lightColor"),
		lightIntensityLoc: loc(prog, "lightIntensity"),
		ambientColorLoc:   loc(prog, "ambientColor"),

		hasSpotLoc:       loc(prog, "hasSpot"),
		spotPosLoc:       loc(prog, "spotPos"),
		spotDirLoc:       loc(prog, "spotDir"),
		spotColorLoc:     loc(prog, "spotColor"),
		spotIntensityLoc: loc(prog, "spotIntensity"),
		spotInnerLoc:     loc(prog, "spotInner"),
		spotOuterLoc:     loc(prog, "spotOuter"),

		cameraPosLoc: loc(prog, "cameraPos"),

		matAlbedoLoc:    loc(prog, "matAlbedo"),
		matSpecularLoc:  loc(prog, "matSpecular"),
		matShininessLoc: loc(prog, "matShininess"),
		unlitLoc:        loc(prog, "unlit"),
		albedoTexLoc:    loc(prog, "albedoTex"),
		hasTextureLoc:   loc(prog, "hasTexture"),

		shadowMapLoc:   loc(prog, "shadowMap"),
		hasShadowsLoc:  loc(prog, "hasShadows"),
		shadowTexelLoc: loc(prog, "shadowTexel"),

		shadowLightMVPLoc: loc(shadowProg, "lightMVP"),
		shadowSkinnedLoc:  loc(shadowProg, "skinned"),
		shadowJointsLoc:   loc(shadowProg, "joints"),

		gpuMeshes: make(map[*scene.Mesh]*GPUMesh),
		log:       log,
	}

	// Texture units: albedo=0, shadowMap=1
	gl.UseProgram(prog)
	gl.Uniform1i(r.albedoTexLoc, 0)
	gl.Uniform1i(r.shadowMapLoc, 1)

	ident := math.Mat4Identity()
	gl.UniformMatrix4fv(r.lightViewProjLoc, 1, false, &ident[0][0])

	return r, nil
}

// SetViewport resizes the OpenGL viewport and stores the dimensions for
// restoring after the shadow pass.
func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

// ── Shadow map ────────────────────────────────────────────────────────────────

// EnableShadows creates the depth FBO.
func (r *Renderer) EnableShadows(size int) error {
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
	}
	sm, err := NewShadowMap(size)
	if err != nil {
		return err
	}
	r.shadowMap = sm
	return nil
}

// HasShadowMap reports whether the shadow FBO has been created.
func (r *Renderer) HasShadowMap() bool {
	return r.shadowMap != nil
}

// BeginShadowPass binds the depth FBO.
func (r *Renderer) BeginShadowPass() {
	if r.shadowMap == nil {
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, r.shadowMap.FBO)
	gl.Viewport(0, 0, r.shadowMap.Size, r.shadowMap.Size)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(r.shadowProg)
}

// DrawMeshShadow draws a mesh into the depth buffer. joints is nil for
// rigid meshes.
func (r *Renderer) DrawMeshShadow(mesh *scene.Mesh, lightMVP math.Mat4, joints []math.Mat4) {
	if r.shadowMap == nil {
		return
	}
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}
	gl.UniformMatrix4fv(r.shadowLightMVPLoc, 1, false, &lightMVP[0][0])
	setJoints(r.shadowSkinnedLoc, r.shadowJointsLoc, joints)
	r.drawElements(gpu, mesh)
}

// EndShadowPass restores the default framebuffer and viewport.
func (r *Renderer) EndShadowPass() {
	if r.shadowMap == nil {
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, r.viewportW, r.viewportH)
}

// ── Main pass ─────────────────────────────────────────────────────────────────

// BeginFrame clears the framebuffer and sets per-frame lighting, camera and
// shadow uniforms. The first directional light and the first spot light
// are used.
func (r *Renderer) BeginFrame(clear core.Color, lights []*scene.Light, ambient core.Color, camPos math.Vec3, lightVP math.Mat4, hasShadows bool) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.ClearColor(clear.R, clear.G, clear.B, clear.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)
	gl.Uniform3f(r.ambientColorLoc, ambient.R, ambient.G, ambient.B)
	gl.Uniform3f(r.cameraPosLoc, camPos.X, camPos.Y, camPos.Z)
	gl.UniformMatrix4fv(r.lightViewProjLoc, 1, false, &lightVP[0][0])

	r.shadowsThisFrame = hasShadows && r.shadowMap != nil
	if r.shadowsThisFrame {
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_2D, r.shadowMap.DepthTex)
		gl.Uniform1f(r.shadowTexelLoc, 1/float32(r.shadowMap.Size))
	}

	var dir, spot *scene.Light
	for _, l := range lights {
		if l == nil {
			continue
		}
		switch {
		case l.Type == scene.LightTypeDirectional && dir == nil:
			dir = l
		case l.Type == scene.LightTypeSpot && spot == nil:
			spot = l
		}
	}

	if dir != nil {
		d := dir.Direction()
		gl.Uniform3f(r.lightDirLoc, d.X, d.Y, d.Z)
		gl.Uniform3f(r.lightColorLoc, dir.Color.R, dir.Color.G, dir.Color.B)
		gl.Uniform1f(r.lightIntensityLoc, dir.Intensity)
	} else {
		gl.Uniform1f(r.lightIntensityLoc, 0)
	}

	if spot != nil {
		d := spot.Direction()
		gl.Uniform1i(r.hasSpotLoc, 1)
		gl.Uniform3f(r.spotPosLoc, spot.Position.X, spot.Position.Y, spot.Position.Z)
		gl.Uniform3f(r.spotDirLoc, d.X, d.Y, d.Z)
		gl.Uniform3f(r.spotColorLoc, spot.Color.R, spot.Color.G, spot.Color.B)
		gl.Uniform1f(r.spotIntensityLoc, spot.Intensity)
		gl.Uniform1f(r.spotInnerLoc, cosAngleDeg(spot.SpotAngle*0.8))
		gl.Uniform1f(r.spotOuterLoc, cosAngleDeg(spot.SpotAngle))
	} else {
		gl.Uniform1i(r.hasSpotLoc, 0)
	}
}

// DrawMesh draws a mesh with the given MVP and model matrices. Shadows are
// sampled only when receiveShadow is set and the frame has a shadow map.
func (r *Renderer) DrawMesh(mesh *scene.Mesh, mvp, model math.Mat4, joints []math.Mat4, receiveShadow bool) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, &mvp[0][0])
	gl.UniformMatrix4fv(r.modelLoc, 1, false, &model[0][0])
	setJoints(r.skinnedLoc, r.jointsLoc, joints)
	gl.Uniform1i(r.hasShadowsLoc, boolToInt(receiveShadow && r.shadowsThisFrame))

	mat := mesh.Material
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	r.applyMaterial(mat)
	r.drawElements(gpu, mesh)
}

// DrawSmoke renders a smoke field as textured camera-facing billboards.
// Call after all opaque geometry.
func (r *Renderer) DrawSmoke(field *scene.SmokeField, view, proj math.Mat4) {
	if field == nil || len(field.Particles) == 0 {
		return
	}
	if r.smoke == nil {
		sr, err := newSmokeRenderer()
		if err != nil {
			r.log.Error("smoke renderer init", "error", err)
			return
		}
		r.smoke = sr
	}
	r.smoke.draw(field, view, proj)
}

func (r *Renderer) applyMaterial(mat *scene.Material) {
	gl.Uniform3f(r.matAlbedoLoc, mat.Albedo.R, mat.Albedo.G, mat.Albedo.B)
	gl.Uniform3f(r.matSpecularLoc, mat.Specular.R, mat.Specular.G, mat.Specular.B)
	gl.Uniform1f(r.matShininessLoc, mat.Shininess)
	gl.Uniform1i(r.unlitLoc, boolToInt(mat.Unlit))

	if tex := mat.AlbedoTexture; tex != nil && tex.GLID != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
		gl.Uniform1i(r.hasTextureLoc, 1)
	} else {
		gl.Uniform1i(r.hasTextureLoc, 0)
	}
}

func (r *Renderer) drawElements(gpu *GPUMesh, mesh *scene.Mesh) {
	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(mesh.Vertices)))
	}
	gl.BindVertexArray(0)
}

// setJoints uploads joint matrices, or switches skinning off for nil.
func setJoints(skinnedLoc, jointsLoc int32, joints []math.Mat4) {
	if len(joints) == 0 {
		gl.Uniform1i(skinnedLoc, 0)
		return
	}
	n := len(joints)
	if n > scene.MaxJoints {
		n = scene.MaxJoints
	}
	gl.Uniform1i(skinnedLoc, 1)
	gl.UniformMatrix4fv(jointsLoc, int32(n), false, &joints[0][0][0])
}

// ── Resource management ───────────────────────────────────────────────────────

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		if gpu.HasIndices {
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		delete(r.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
	}
	if r.smoke != nil {
		r.smoke.destroy()
	}
	gl.DeleteProgram(r.shadowProg)
	gl.DeleteProgram(r.program)
}

// ensureUploaded uploads vertex/index data if not already done.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))
	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		HasIndices: len(mesh.Indices) > 0,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(stride), gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)

	var v core.Vertex
	attribs := []struct {
		size   int32
		offset uintptr
	}{
		{3, unsafe.Offsetof(v.Position)},
		{3, unsafe.Offsetof(v.Normal)},
		{2, unsafe.Offsetof(v.UV)},
		{4, unsafe.Offsetof(v.Color)},
		{4, unsafe.Offsetof(v.Joints)},
		{4, unsafe.Offsetof(v.Weights)},
	}
	for i, a := range attribs {
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointerWithOffset(uint32(i), a.size, gl.FLOAT, false, stride, a.offset)
	}

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

// ── Shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}

// cosAngleDeg converts an angle in degrees to its cosine (for spot light cutoffs).
func cosAngleDeg(deg float32) float32 {
	return float32(gomath.Cos(float64(deg) * gomath.Pi / 180.0))
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
