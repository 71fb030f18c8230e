package scene

import (
	"fmt"

	"github.com/achilleasa/hybris/types"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Stores the ray directions at the four corners of the camera frustrum
// (top-left, top-right, bottom-left, bottom-right). Per pixel rays are
// generated by bilinear interpolation of the corner rays. Each corner ray ends
// on the near plane so the interpolation is exact.
type Frustrum [4]types.Vec3

func (fr Frustrum) String() string {
	return fmt.Sprintf(
		"Frustrum Rays:\nTL : (%3.3f, %3.3f, %3.3f)\nTR : (%3.3f, %3.3f, %3.3f)\nBL : (%3.3f, %3.3f, %3.3f)\nBR : (%3.3f, %3.3f, %3.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// The camera type controls the scene camera.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Pending orbit angles (radians). They are consumed by Update.
	Pitch float32
	Yaw   float32

	ViewMat  types.Mat4
	ProjMat  types.Mat4
	Frustrum Frustrum

	// Vertical field of view in degrees.
	FOV float32

	// Clip plane distances.
	Near float32
	Far  float32

	aspect     float32
	tanHalfFov float32
	invViewMat types.Mat4
	invProjMat types.Mat4
}

// Create a camera at the origin looking down the -Z axis.
func NewCamera(fov float32) *Camera {
	c := &Camera{
		ViewMat:    types.Ident4(),
		ProjMat:    types.Ident4(),
		invViewMat: types.Ident4(),
		invProjMat: types.Ident4(),
		Position:   types.Vec3{0, 0, 0},
		LookAt:     types.Vec3{0, 0, -1},
		Up:         types.Vec3{0, 1, 0},
		FOV:        fov,
		Near:       0.1,
		Far:        1000,
		aspect:     1,
	}
	c.tanHalfFov = math32.Tan(mgl32.DegToRad(fov) * 0.5)
	return c
}

// Setup camera projection matrix.
func (c *Camera) SetupProjection(aspect float32) {
	c.aspect = aspect
	c.tanHalfFov = math32.Tan(mgl32.DegToRad(c.FOV) * 0.5)
	c.ProjMat = types.Perspective4(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
	c.invProjMat = c.ProjMat.Inv()
	c.Update()
}

// Apply any pending pitch/yaw rotation and update the view matrix and frustrum.
func (c *Camera) Update() {
	dir := c.LookAt.Sub(c.Position).Normalize()
	if c.Pitch != 0 || c.Yaw != 0 {
		pitchAxis := dir.Cross(c.Up).Normalize()
		pitchQuat := types.QuatFromAxisAngle(pitchAxis, c.Pitch)
		yawQuat := types.QuatFromAxisAngle(c.Up, c.Yaw)

		orientQuat := pitchQuat.Mul(yawQuat).Normalize()
		dir = orientQuat.Rotate(dir)
		c.LookAt = c.Position.Add(dir)
		c.Pitch, c.Yaw = 0, 0
	}

	c.ViewMat = types.LookAtV(c.Position, c.LookAt, c.Up)
	c.invViewMat = c.ViewMat.Inv()
	c.updateFrustrum()
}

// Get the aspect ratio passed to SetupProjection.
func (c *Camera) Aspect() float32 {
	return c.aspect
}

func (c *Camera) InvViewProjMat() types.Mat4 {
	return c.ProjMat.Mul4(c.ViewMat).Inv()
}

// Generate a ray vector for each corner of the camera frustrum by
// multiplying clip space vectors for each corner with the inv proj/view
// matrix, applying perspective and subtracting the camera eye position.
func (c *Camera) updateFrustrum() {
	invProjViewMat := c.InvViewProjMat()
	corners := [4][2]float32{{-1, 1}, {1, 1}, {-1, -1}, {1, -1}}
	for index, corner := range corners {
		v := invProjViewMat.Mul4x1(types.XYZW(corner[0], corner[1], -1, 1))
		c.Frustrum[index] = v.Mul(1.0 / v[3]).Vec3().Sub(c.Position)
	}
}

// Generate a primary ray passing through the center of pixel (px, py) of a
// frameW x frameH frame. Pixel (0, 0) is the top-left corner.
func (c *Camera) PrimaryRay(px, py, frameW, frameH int) Ray {
	return c.PrimaryRayAt((float32(px)+0.5)/float32(frameW), (float32(py)+0.5)/float32(frameH))
}

// Generate a primary ray through a point of the image plane. The sx and sy
// coordinates are in the [0, 1] range with (0, 0) at the top-left corner.
func (c *Camera) PrimaryRayAt(sx, sy float32) Ray {
	top := c.Frustrum[0].Add(c.Frustrum[1].Sub(c.Frustrum[0]).Mul(sx))
	bottom := c.Frustrum[2].Add(c.Frustrum[3].Sub(c.Frustrum[2]).Mul(sx))
	dir := top.Add(bottom.Sub(top).Mul(sy))
	return NewRay(c.Position, dir)
}

// Get the camera-space depth (distance along the view axis) of a world-space point.
func (c *Camera) ViewDepth(p types.Vec3) float32 {
	return -c.ViewMat.TransformPoint(p)[2]
}

// Transform a world-space point to camera space.
func (c *Camera) WorldToCamera(p types.Vec3) types.Vec3 {
	return c.ViewMat.TransformPoint(p)
}

// Transform a camera-space point to world space.
func (c *Camera) CameraToWorld(p types.Vec3) types.Vec3 {
	return c.invViewMat.TransformPoint(p)
}

// Rotate a world-space direction into camera space.
func (c *Camera) DirToCamera(d types.Vec3) types.Vec3 {
	return c.ViewMat.TransformDir(d)
}

// Transform a world-space point into homogeneous clip space.
func (c *Camera) ToClip(p types.Vec3) types.Vec4 {
	return c.ProjMat.Mul4x1(c.ViewMat.Mul4x1(p.Vec4(1)))
}

// Transform a clip-space point back to camera space by applying the
// inverse projection and the perspective divide.
func (c *Camera) Unproject(clip types.Vec4) types.Vec3 {
	v := c.invProjMat.Mul4x1(clip)
	if math32.Abs(v[3]) < parallelEpsilon {
		return v.Vec3()
	}
	return v.Vec3().Mul(1.0 / v[3])
}

// Reconstruct a camera-space point from normalized device coordinates and a
// camera-space depth.
func (c *Camera) CameraSpace(ndcX, ndcY, depth float32) types.Vec3 {
	return types.Vec3{
		ndcX * c.tanHalfFov * c.aspect * depth,
		ndcY * c.tanHalfFov * depth,
		-depth,
	}
}

// Project a camera-space point to normalized device coordinates. Points at or
// behind the camera plane report ok = false.
func (c *Camera) ProjectCamera(p types.Vec3) (ndcX, ndcY float32, ok bool) {
	depth := -p[2]
	if depth <= parallelEpsilon {
		return 0, 0, false
	}
	return p[0] / (depth * c.tanHalfFov * c.aspect), p[1] / (depth * c.tanHalfFov), true
}
