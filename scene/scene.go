package scene

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/achilleasa/hybris/types"
	"github.com/olekukonko/tablewriter"
)

// A scene is an immutable (while rendering) collection of geometry, materials
// and lights. Triangles are stored by value; the BVH references them by index
// so the Triangles slice must not be modified while a BVH built from it is in use.
type Scene struct {
	Camera *Camera

	Materials []*Material
	Triangles []Triangle
	Shapes    []Shape

	Light PointLight
	Env   Environment

	defaultMaterial *Material
	debugMaterial   *Material
}

func NewScene() *Scene {
	return &Scene{
		Materials:       make([]*Material, 0),
		Triangles:       make([]Triangle, 0),
		Shapes:          make([]Shape, 0),
		Env:             DefaultEnvironment(),
		defaultMaterial: DefaultMaterial(),
		debugMaterial:   DebugMaterial(),
	}
}

// Attach a camera to the scene.
func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// Add a material to the scene and return its index.
func (s *Scene) AddMaterial(material *Material) (int32, error) {
	for _, mat := range s.Materials {
		if mat == material {
			return -1, fmt.Errorf("scene: material already added")
		}
	}
	s.Materials = append(s.Materials, material)
	return int32(len(s.Materials) - 1), nil
}

func (s *Scene) validMaterial(index int32) error {
	if index == DefaultMaterialIndex || index == DebugMaterialIndex {
		return nil
	}
	if index < 0 || int(index) >= len(s.Materials) {
		return fmt.Errorf("scene: primitive references unknown material %d; ensure that the material is added to the scene before adding the primitive", index)
	}
	return nil
}

// Add a triangle to the scene.
func (s *Scene) AddTriangle(tri Triangle) error {
	if err := s.validMaterial(tri.Material); err != nil {
		return err
	}
	s.Triangles = append(s.Triangles, tri)
	return nil
}

// Add a list of triangles to the scene.
func (s *Scene) AddMesh(tris []Triangle) error {
	for _, tri := range tris {
		if err := s.AddTriangle(tri); err != nil {
			return err
		}
	}
	return nil
}

// Add an analytic shape to the scene.
func (s *Scene) AddShape(shape Shape) error {
	var material int32
	switch sh := shape.(type) {
	case *Sphere:
		material = sh.Material
	case *Plane:
		material = sh.Material
	default:
		material = DefaultMaterialIndex
	}
	if err := s.validMaterial(material); err != nil {
		return err
	}
	s.Shapes = append(s.Shapes, shape)
	return nil
}

// Resolve a material index. Unknown indices resolve to the default material.
func (s *Scene) MaterialFor(index int32) *Material {
	switch {
	case index == DebugMaterialIndex:
		return s.debugMaterial
	case index >= 0 && int(index) < len(s.Materials):
		return s.Materials[index]
	}
	return s.defaultMaterial
}

// Build a tabular representation of scene statistics.
func (s *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Count", "Size"})
	table.Append([]string{"Triangles", fmt.Sprintf("%d", len(s.Triangles)), fmtSize(s.Triangles)})
	table.Append([]string{"Analytic shapes", fmt.Sprintf("%d", len(s.Shapes)), "-"})
	table.Append([]string{"Materials", fmt.Sprintf("%d", len(s.Materials)), fmtSize(s.Materials)})
	table.SetFooter([]string{"Total", " ", fmtSize(s.Triangles, s.Materials)})

	table.Render()
	return buf.String()
}

// Sum the total space used by a set of slices and return back a formatted
// value with the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	var totalBytes float32 = 0.0
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float32(int(t.Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}

// Get the bounding box of all scene triangles. Returns ok = false for scenes
// without triangles.
func (s *Scene) Bounds() (bbox [2]types.Vec3, ok bool) {
	if len(s.Triangles) == 0 {
		return bbox, false
	}
	bbox = s.Triangles[0].BBox()
	for _, tri := range s.Triangles[1:] {
		triBBox := tri.BBox()
		bbox[0] = types.MinVec3(bbox[0], triBBox[0])
		bbox[1] = types.MaxVec3(bbox[1], triBBox[1])
	}
	return bbox, true
}
