package scene

import "github.com/achilleasa/hybris/types"

// The T value of a HitInfo that does not describe an intersection.
const NoHit float32 = -1

// HitInfo describes a ray intersection.
type HitInfo struct {
	// Distance along the ray; NoHit if nothing was intersected.
	T float32

	// Barycentric coordinates of the hit. The weight of the first vertex
	// is 1-U-V. Sphere hits store spherical UV coordinates instead.
	U, V float32

	// Material index (see DefaultMaterialIndex and DebugMaterialIndex).
	Material int32

	// Unnormalized surface normal at the hit point.
	Normal types.Vec3

	// Index of the intersected triangle or -1 for analytic shapes.
	Primitive int32
}

// Create an empty HitInfo.
func Miss() HitInfo {
	return HitInfo{T: NoHit, Material: DefaultMaterialIndex, Primitive: -1}
}

// Returns true if the HitInfo describes an intersection.
func (h HitInfo) Hit() bool {
	return h.T >= 0
}

// Returns true if h is a hit that is closer than other.
func (h HitInfo) Closer(other HitInfo) bool {
	return h.Hit() && (!other.Hit() || h.T < other.T)
}
