package primitives

import (
	"github.com/go-gl/mathgl/mgl64"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Kind names a unit primitive mesh.
type Kind string

const (
	// Cube is 1x1x1, centred.
	Cube Kind = "cube"
	// Cylinder has radius 0.5 and height 1 along Y, centred.
	Cylinder Kind = "cylinder"
	// Sphere has radius 0.5.
	Sphere Kind = "sphere"
)

const (
	cylinderSlices = 20
	sphereRings    = 12
	sphereSlices   = 12
)

// cached holds mesh and material for a primitive kind. Created lazily on first Draw.
type cached struct {
	mesh rl.Mesh
	mtl  rl.Material
	// center shifts the raylib mesh so its origin is the middle of the shape.
	center mgl64.Mat4
}

// Registry maps primitive kinds to mesh+material. Meshes are created on first use
// so that GPU resources are allocated after the window/OpenGL context exists.
type Registry struct {
	cache    map[Kind]cached
	viewPos  [3]float32
	lightDir [3]float32
}

// NewRegistry returns an empty registry lit from above-right.
func NewRegistry() *Registry {
	return &Registry{
		cache:    make(map[Kind]cached),
		lightDir: [3]float32{0.5, 1, 0.3},
	}
}

// SetView sets camera position and direction-to-light for this frame.
func (r *Registry) SetView(viewPos, lightDir [3]float32) {
	r.viewPos = viewPos
	r.lightDir = lightDir
}

func (r *Registry) ensure(kind Kind) (cached, bool) {
	if c, ok := r.cache[kind]; ok {
		return c, true
	}
	c := cached{center: mgl64.Ident4()}
	switch kind {
	case Cube:
		c.mesh = rl.GenMeshCube(1, 1, 1)
	case Cylinder:
		// Raylib cylinder: base Y=0, top Y=1.
		c.mesh = rl.GenMeshCylinder(0.5, 1, cylinderSlices)
		c.center = mgl64.Translate3D(0, -0.5, 0)
	case Sphere:
		c.mesh = rl.GenMeshSphere(0.5, sphereRings, sphereSlices)
	default:
		return c, false
	}
	c.mtl = rl.LoadMaterialDefault()
	if shader := rl.LoadShaderFromMemory(litVS, litFS); rl.IsShaderValid(shader) {
		c.mtl.Shader = shader
	}
	r.cache[kind] = c
	return c, true
}

// Draw draws one instance of kind with the given world pose and size, tinted.
// Must be called between BeginMode3D and EndMode3D.
func (r *Registry) Draw(kind Kind, position mgl64.Vec3, orientation mgl64.Quat, size mgl64.Vec3, tint rl.Color) {
	c, ok := r.ensure(kind)
	if !ok {
		return
	}
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = tint
	}
	r.setLitShaderUniforms(c.mtl.Shader)
	m := mgl64.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(orientation.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(size.X(), size.Y(), size.Z())).
		Mul4(c.center)
	rl.DrawMesh(c.mesh, c.mtl, toMatrix(m))
}

// Unload releases GPU resources.
func (r *Registry) Unload() {
	for k, c := range r.cache {
		rl.UnloadMesh(&c.mesh)
		rl.UnloadMaterial(c.mtl)
		delete(r.cache, k)
	}
}

// toMatrix converts a column-major mgl64 matrix to raylib's layout.
func toMatrix(m mgl64.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: float32(m[0]), M1: float32(m[1]), M2: float32(m[2]), M3: float32(m[3]),
		M4: float32(m[4]), M5: float32(m[5]), M6: float32(m[6]), M7: float32(m[7]),
		M8: float32(m[8]), M9: float32(m[9]), M10: float32(m[10]), M11: float32(m[11]),
		M12: float32(m[12]), M13: float32(m[13]), M14: float32(m[14]), M15: float32(m[15]),
	}
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  float spec = pow(max(dot(N, normalize(L + V)), 0.0), 32.0) * specularStrength;
  vec3 rgb = ambient.rgb * colDiffuse.rgb + colDiffuse.rgb * NdotL * 0.8 + vec3(spec) * step(0.0, NdotL);
  finalColor = vec4(rgb, colDiffuse.a);
}
`
)

var ambient = [4]float32{0.25, 0.26, 0.3, 1}

const specularStrength = float32(0.3)

// setLitShaderUniforms sets the per-frame light uniforms (cgo-safe: local arrays).
func (r *Registry) setLitShaderUniforms(shader rl.Shader) {
	if !rl.IsShaderValid(shader) {
		return
	}
	viewPos := r.viewPos
	lightDir := r.lightDir
	amb := ambient
	if loc := rl.GetShaderLocation(shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, viewPos[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightDir[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "ambient"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, amb[:], rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(shader, "specularStrength"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{specularStrength}, rl.ShaderUniformFloat)
	}
}
