package renderer

import "github.com/achilleasa/hybris/types"

// Six-plane clipping can turn one triangle into at most this many triangles
// in practice; clip buffers start with this capacity and grow if needed.
const clipBufferCapacity = 12

// A clip-space vertex. Bary holds the barycentric coordinates of the vertex
// with respect to the unclipped source triangle.
type clipVertex struct {
	Pos  types.Vec4
	Bary types.Vec3
}

func (v clipVertex) lerp(v2 clipVertex, t float32) clipVertex {
	return clipVertex{
		Pos: v.Pos.Lerp(v2.Pos, t),
		Bary: types.Vec3{
			v.Bary[0] + (v2.Bary[0]-v.Bary[0])*t,
			v.Bary[1] + (v2.Bary[1]-v.Bary[1])*t,
			v.Bary[2] + (v2.Bary[2]-v.Bary[2])*t,
		},
	}
}

type clipTriangle [3]clipVertex

// A frustum plane in homogeneous clip space. A vertex v lies inside the plane
// when w - sign*v[axis] >= 0.
type clipPlane struct {
	axis int
	sign float32
}

func (p clipPlane) distance(v types.Vec4) float32 {
	return v[3] - p.sign*v[p.axis]
}

// The view frustum: left, right, bottom, top, near and far.
var frustumPlanes = [6]clipPlane{
	{axis: 0, sign: -1},
	{axis: 0, sign: 1},
	{axis: 1, sign: -1},
	{axis: 1, sign: 1},
	{axis: 2, sign: -1},
	{axis: 2, sign: 1},
}

// A clipper owns a pair of ping-pong triangle buffers. Clippers are not safe
// for concurrent use; each lane uses its own.
type clipper struct {
	in  []clipTriangle
	out []clipTriangle
}

func newClipper() *clipper {
	return &clipper{
		in:  make([]clipTriangle, 0, clipBufferCapacity),
		out: make([]clipTriangle, 0, clipBufferCapacity),
	}
}

// Clip a triangle against all frustum planes. The returned slice is owned by
// the clipper and is only valid until the next call.
func (c *clipper) clip(tri clipTriangle) []clipTriangle {
	c.in = append(c.in[:0], tri)
	for _, plane := range frustumPlanes {
		c.out = c.out[:0]
		for _, t := range c.in {
			c.out = clipAgainstPlane(plane, t, c.out)
		}
		c.in, c.out = c.out, c.in
		if len(c.in) == 0 {
			break
		}
	}
	return c.in
}

// Clip a triangle against a single plane and append the resulting triangles
// to out. The output triangles keep the winding of the input triangle.
func clipAgainstPlane(plane clipPlane, tri clipTriangle, out []clipTriangle) []clipTriangle {
	var dist [3]float32
	var insideCount int
	for i := 0; i < 3; i++ {
		dist[i] = plane.distance(tri[i].Pos)
		if dist[i] >= 0 {
			insideCount++
		}
	}

	switch insideCount {
	case 0:
		return out
	case 3:
		return append(out, tri)
	case 1:
		// Rotate so that a is the inside vertex.
		var i int
		for i = 0; dist[i] < 0; i++ {
		}
		ia, ib, ic := i, (i+1)%3, (i+2)%3
		a, b, c := tri[ia], tri[ib], tri[ic]
		ab := a.lerp(b, dist[ia]/(dist[ia]-dist[ib]))
		ac := a.lerp(c, dist[ia]/(dist[ia]-dist[ic]))
		return append(out, clipTriangle{a, ab, ac})
	default:
		// Rotate so that c is the outside vertex.
		var k int
		for k = 0; dist[k] >= 0; k++ {
		}
		ia, ib, ic := (k+1)%3, (k+2)%3, k
		a, b, c := tri[ia], tri[ib], tri[ic]
		bc := b.lerp(c, dist[ib]/(dist[ib]-dist[ic]))
		ac := a.lerp(c, dist[ia]/(dist[ia]-dist[ic]))
		return append(out, clipTriangle{a, b, bc}, clipTriangle{a, bc, ac})
	}
}
