package scene

import (
	"fmt"
	"sort"

	"github.com/achilleasa/hybris/types"
)

// A built-in scene factory.
type builtinScene struct {
	description string
	build       func() *Scene
}

var builtinScenes = map[string]builtinScene{
	"sphere": {
		description: "analytic unit sphere at (0,0,-5) lit by a point light at (2,0,2)",
		build:       sphereScene,
	},
	"triangle": {
		description: "single triangle (-1,0,-2) (1,0,-2) (0,1,-2)",
		build:       triangleScene,
	},
	"quad": {
		description: "unit quad at z=-1 viewed with a 90 degree fov",
		build:       quadScene,
	},
	"cornell": {
		description: "closed box with a tessellated sphere and a cube",
		build:       cornellScene,
	},
	"spheres": {
		description: "grid of tessellated spheres on a ground plane",
		build:       sphereGridScene,
	},
}

// Get the names of the built-in scenes.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinScenes))
	for name := range builtinScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get a short description of a built-in scene.
func BuiltinDescription(name string) string {
	return builtinScenes[name].description
}

// Construct a built-in scene.
func Builtin(name string) (*Scene, error) {
	bs, ok := builtinScenes[name]
	if !ok {
		return nil, fmt.Errorf("scene: unknown built-in scene %q", name)
	}
	return bs.build(), nil
}

func mustAddMaterial(sc *Scene, mat *Material) int32 {
	index, err := sc.AddMaterial(mat)
	if err != nil {
		panic(err)
	}
	return index
}

func mustAdd(err error) {
	if err != nil {
		panic(err)
	}
}

func sphereScene() *Scene {
	sc := NewScene()
	sc.SetCamera(NewCamera(60))
	sc.Light = PointLight{Position: types.XYZ(2, 0, 2), Color: types.XYZ(1, 1, 1)}

	red := mustAddMaterial(sc, NewMaterial("red", types.XYZ(0.1, 0.02, 0.02), types.XYZ(0.8, 0.2, 0.2), types.XYZ(0.5, 0.5, 0.5), types.Vec3{}, 32))
	mustAdd(sc.AddShape(NewSphere(types.XYZ(0, 0, -5), 1, red)))
	return sc
}

func triangleScene() *Scene {
	sc := NewScene()
	sc.SetCamera(NewCamera(60))
	sc.Light = PointLight{Position: types.XYZ(0, 2, 0), Color: types.XYZ(1, 1, 1)}

	mustAdd(sc.AddTriangle(NewTriangle(types.XYZ(-1, 0, -2), types.XYZ(1, 0, -2), types.XYZ(0, 1, -2), DefaultMaterialIndex)))
	return sc
}

func quadScene() *Scene {
	sc := NewScene()
	sc.SetCamera(NewCamera(90))
	sc.Light = PointLight{Position: types.XYZ(0, 0, 1), Color: types.XYZ(1, 1, 1)}

	mustAdd(sc.AddMesh(NewQuadMesh([4]types.Vec3{
		types.XYZ(-0.5, -0.5, -1),
		types.XYZ(0.5, -0.5, -1),
		types.XYZ(0.5, 0.5, -1),
		types.XYZ(-0.5, 0.5, -1),
	}, DefaultMaterialIndex)))
	return sc
}

func cornellScene() *Scene {
	sc := NewScene()
	cam := NewCamera(50)
	cam.Position = types.XYZ(0, 1, 3.2)
	cam.LookAt = types.XYZ(0, 1, 0)
	sc.SetCamera(cam)
	sc.Light = PointLight{Position: types.XYZ(0, 1.8, 0.2), Color: types.XYZ(1, 1, 1)}

	white := mustAddMaterial(sc, NewMaterial("white", types.XYZ(0.15, 0.15, 0.15), types.XYZ(0.75, 0.75, 0.75), types.Vec3{}, types.Vec3{}, 1))
	red := mustAddMaterial(sc, NewMaterial("red", types.XYZ(0.12, 0.03, 0.03), types.XYZ(0.65, 0.05, 0.05), types.Vec3{}, types.Vec3{}, 1))
	green := mustAddMaterial(sc, NewMaterial("green", types.XYZ(0.03, 0.12, 0.03), types.XYZ(0.12, 0.45, 0.15), types.Vec3{}, types.Vec3{}, 1))
	glossy := mustAddMaterial(sc, NewMaterial("glossy", types.XYZ(0.1, 0.1, 0.15), types.XYZ(0.3, 0.3, 0.7), types.XYZ(0.9, 0.9, 0.9), types.Vec3{}, 64))
	lamp := mustAddMaterial(sc, NewMaterial("lamp", types.Vec3{}, types.Vec3{}, types.Vec3{}, types.XYZ(1, 1, 0.9), 1))

	quad := func(a, b, c, d types.Vec3, mat int32) {
		mustAdd(sc.AddMesh(NewQuadMesh([4]types.Vec3{a, b, c, d}, mat)))
	}

	// floor, ceiling, back, left and right walls
	quad(types.XYZ(-1, 0, 1), types.XYZ(1, 0, 1), types.XYZ(1, 0, -1), types.XYZ(-1, 0, -1), white)
	quad(types.XYZ(-1, 2, -1), types.XYZ(1, 2, -1), types.XYZ(1, 2, 1), types.XYZ(-1, 2, 1), white)
	quad(types.XYZ(-1, 0, -1), types.XYZ(1, 0, -1), types.XYZ(1, 2, -1), types.XYZ(-1, 2, -1), white)
	quad(types.XYZ(-1, 0, 1), types.XYZ(-1, 0, -1), types.XYZ(-1, 2, -1), types.XYZ(-1, 2, 1), red)
	quad(types.XYZ(1, 0, -1), types.XYZ(1, 0, 1), types.XYZ(1, 2, 1), types.XYZ(1, 2, -1), green)

	// ceiling lamp
	quad(types.XYZ(-0.25, 1.99, -0.25), types.XYZ(0.25, 1.99, -0.25), types.XYZ(0.25, 1.99, 0.25), types.XYZ(-0.25, 1.99, 0.25), lamp)

	mustAdd(sc.AddMesh(NewBoxMesh(types.XYZ(-0.7, 0, -0.6), types.XYZ(-0.1, 0.9, -0.1), white)))
	mustAdd(sc.AddMesh(NewUVSphereMesh(types.XYZ(0.45, 0.4, 0.2), 0.4, 24, 48, glossy)))
	return sc
}

func sphereGridScene() *Scene {
	sc := NewScene()
	cam := NewCamera(55)
	cam.Position = types.XYZ(0, 4, 9)
	cam.LookAt = types.XYZ(0, 0, 0)
	sc.SetCamera(cam)
	sc.Light = PointLight{Position: types.XYZ(-5, 8, 5), Color: types.XYZ(1, 1, 1)}

	ground := mustAddMaterial(sc, NewMaterial("ground", types.XYZ(0.1, 0.1, 0.1), types.XYZ(0.6, 0.6, 0.55), types.Vec3{}, types.Vec3{}, 1))
	mustAdd(sc.AddMesh(NewQuadMesh([4]types.Vec3{
		types.XYZ(-8, 0, 8),
		types.XYZ(8, 0, 8),
		types.XYZ(8, 0, -8),
		types.XYZ(-8, 0, -8),
	}, ground)))

	palette := []types.Vec3{
		types.XYZ(0.8, 0.25, 0.2),
		types.XYZ(0.2, 0.6, 0.3),
		types.XYZ(0.25, 0.35, 0.8),
		types.XYZ(0.85, 0.75, 0.2),
	}
	for z := -2; z <= 2; z++ {
		for x := -3; x <= 3; x++ {
			color := palette[(x+z+8)%len(palette)]
			mat := mustAddMaterial(sc, NewMaterial(
				fmt.Sprintf("sphere_%d_%d", x, z),
				color.Mul(0.15), color, types.XYZ(0.6, 0.6, 0.6), types.Vec3{}, 48,
			))
			center := types.XYZ(float32(x)*1.6, 0.6, float32(z)*1.6)
			mustAdd(sc.AddMesh(NewUVSphereMesh(center, 0.6, 16, 32, mat)))
		}
	}

	// A debug-highlighted marker
	mustAdd(sc.AddMesh(NewBoxMesh(types.XYZ(-0.2, 0, 4), types.XYZ(0.2, 0.4, 4.4), DebugMaterialIndex)))
	return sc
}
