package scene

import (
	"github.com/achilleasa/hybris/types"
	"github.com/chewxy/math32"
)

const (
	// Material index used by primitives without an explicit material.
	DefaultMaterialIndex int32 = -1

	// Material index reserved for highlighting primitives while debugging.
	DebugMaterialIndex int32 = -2

	// Specular terms below this value are not visible in an 8-bit frame.
	specularVisibilityThreshold float32 = 1.0 / 256.0
)

// Defines a scene material using a Phong-style reflectance model.
type Material struct {
	Name string

	// Reflectance coefficients.
	Ambient  types.Vec3
	Diffuse  types.Vec3
	Specular types.Vec3

	// Emissive color; added unconditionally while shading.
	Emissive types.Vec3

	// Specular exponent.
	Shininess float32

	// Cosine of the reflection angle below which the specular term is
	// invisible and its evaluation can be skipped.
	specularCutoff float32
}

// Create a new material and precompute its specular visibility cutoff.
func NewMaterial(name string, ambient, diffuse, specular, emissive types.Vec3, shininess float32) *Material {
	return &Material{
		Name:           name,
		Ambient:        ambient,
		Diffuse:        diffuse,
		Specular:       specular,
		Emissive:       emissive,
		Shininess:      shininess,
		specularCutoff: SpecularCutoff(shininess),
	}
}

// Calculate the smallest cosine c for which c^shininess is still visible.
func SpecularCutoff(shininess float32) float32 {
	if shininess <= 0 {
		return 0
	}
	return math32.Pow(specularVisibilityThreshold, 1.0/shininess)
}

// Get the precomputed specular cutoff.
func (m *Material) SpecularCutoff() float32 {
	return m.specularCutoff
}

// Evaluate the specular term for the cosine between the reflected light
// direction and the view direction. Returns exactly zero when the cosine is
// below the material's visibility cutoff.
func (m *Material) SpecularTerm(cosRV float32) types.Vec3 {
	if cosRV <= 0 || cosRV < m.specularCutoff {
		return types.Vec3{}
	}
	return m.Specular.Mul(math32.Pow(cosRV, m.Shininess))
}

// The material used for primitives with DefaultMaterialIndex.
func DefaultMaterial() *Material {
	return NewMaterial(
		"default",
		types.XYZ(0.2, 0.2, 0.2),
		types.XYZ(0.8, 0.8, 0.8),
		types.XYZ(0.4, 0.4, 0.4),
		types.Vec3{},
		32,
	)
}

// The material used for primitives with DebugMaterialIndex.
func DebugMaterial() *Material {
	return NewMaterial(
		"debug",
		types.XYZ(1, 0, 1),
		types.XYZ(1, 0, 1),
		types.Vec3{},
		types.XYZ(0.5, 0, 0.5),
		1,
	)
}

// A point light source.
type PointLight struct {
	Position types.Vec3
	Color    types.Vec3
}

// Global lighting properties. An Environment is created once when the scene
// is set up and never mutated while rendering.
type Environment struct {
	// Ambient light color.
	Ambient types.Vec3

	// Color for pixels that do not intersect any geometry.
	Background types.Vec3

	// Scaler applied to the direct lighting of shadowed points.
	ShadowIntensity float32
}

// Get the default environment.
func DefaultEnvironment() Environment {
	return Environment{
		Ambient:         types.XYZ(1, 1, 1),
		Background:      types.XYZ(0.05, 0.05, 0.08),
		ShadowIntensity: 0.25,
	}
}
