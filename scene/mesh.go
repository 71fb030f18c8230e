package scene

import (
	"github.com/achilleasa/hybris/types"
	"github.com/chewxy/math32"
)

// Tessellate an axis-aligned box into 12 triangles with outward facing normals.
func NewBoxMesh(min, max types.Vec3, material int32) []Triangle {
	corner := func(x, y, z int) types.Vec3 {
		c := min
		if x == 1 {
			c[0] = max[0]
		}
		if y == 1 {
			c[1] = max[1]
		}
		if z == 1 {
			c[2] = max[2]
		}
		return c
	}

	// Faces are listed counter-clockwise when viewed from outside.
	faces := [6][4][3]int{
		{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}, // +z
		{{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}}, // -z
		{{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}}, // +x
		{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}, // -x
		{{0, 1, 1}, {1, 1, 1}, {1, 1, 0}, {0, 1, 0}}, // +y
		{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}, // -y
	}

	tris := make([]Triangle, 0, 12)
	for _, face := range faces {
		var quad [4]types.Vec3
		for i, c := range face {
			quad[i] = corner(c[0], c[1], c[2])
		}
		tris = append(tris, NewQuadMesh(quad, material)...)
	}
	return tris
}

// Split a planar quad (vertices in counter-clockwise order) into two triangles.
func NewQuadMesh(v [4]types.Vec3, material int32) []Triangle {
	return []Triangle{
		NewTriangle(v[0], v[1], v[2], material),
		NewTriangle(v[0], v[2], v[3], material),
	}
}

// Tessellate a sphere into rings x segments quads. Triangles touching the
// poles degenerate into a single triangle per segment.
func NewUVSphereMesh(center types.Vec3, radius float32, rings, segments int, material int32) []Triangle {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}

	point := func(ring, seg int) types.Vec3 {
		theta := math32.Pi * float32(ring) / float32(rings)
		phi := 2 * math32.Pi * float32(seg) / float32(segments)
		return center.Add(types.Vec3{
			radius * math32.Sin(theta) * math32.Cos(phi),
			radius * math32.Cos(theta),
			-radius * math32.Sin(theta) * math32.Sin(phi),
		})
	}

	tris := make([]Triangle, 0, 2*rings*segments)
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			p00 := point(ring, seg)
			p01 := point(ring, seg+1)
			p10 := point(ring+1, seg)
			p11 := point(ring+1, seg+1)

			if ring != 0 {
				tris = append(tris, NewTriangle(p00, p10, p01, material))
			}
			if ring != rings-1 {
				tris = append(tris, NewTriangle(p01, p10, p11, material))
			}
		}
	}
	return tris
}
