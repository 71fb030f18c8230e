package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/hybris/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "hybris"
	app.Usage = "render scenes using a hybrid rasterizer and ray tracer"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error); overrides -v and -vv",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "scenes",
			Usage:     "list built-in scenes",
			ArgsUsage: "[scene1 scene2 ...]",
			Description: `
List the available built-in scenes. When scene names are specified, display
the geometry and material statistics for each one of them.`,
			Action: cmd.ListScenes,
		},
		{
			Name:      "render",
			Usage:     "render a single frame of a built-in scene",
			ArgsUsage: "scene",
			Description: `
Render a single frame and write it to a png or bmp file. In hybrid mode
triangles are rasterized while shadows and analytic shapes are ray traced;
in raytrace mode every pixel is ray traced.`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "supersample, s",
					Value: 1,
					Usage: "supersampling factor (1-8)",
				},
				cli.StringFlag{
					Name:  "mode, m",
					Value: "hybrid",
					Usage: "render mode (hybrid, raytrace)",
				},
				cli.StringFlag{
					Name:  "shading",
					Value: "shaded",
					Usage: "shading method (shaded, abs-normal, pastel-normal, barycentric, ao)",
				},
				cli.BoolFlag{
					Name:  "no-clip",
					Usage: "disable frustum clipping in hybrid mode",
				},
				cli.BoolFlag{
					Name:  "no-shadows",
					Usage: "disable shadow rays",
				},
				cli.BoolFlag{
					Name:  "no-bvh",
					Usage: "intersect rays against every triangle instead of using an octree",
				},
				cli.IntFlag{
					Name:  "bvh-depth",
					Value: 10,
					Usage: "max octree depth",
				},
				cli.IntFlag{
					Name:  "bvh-leaf",
					Value: 8,
					Usage: "max triangles per octree leaf before splitting",
				},
				cli.BoolFlag{
					Name:  "ssao",
					Usage: "enable screen-space ambient occlusion",
				},
				cli.IntFlag{
					Name:  "ssao-samples",
					Value: 16,
					Usage: "ambient occlusion samples per pixel",
				},
				cli.Float64Flag{
					Name:  "ssao-radius",
					Value: 0.5,
					Usage: "ambient occlusion sampling radius in world units",
				},
				cli.Float64Flag{
					Name:  "ssao-amount",
					Value: 0.8,
					Usage: "ambient occlusion strength (0-1)",
				},
				cli.IntFlag{
					Name:  "ssao-blur",
					Value: 2,
					Usage: "ambient occlusion blur radius in pixels",
				},
				cli.BoolFlag{
					Name:  "no-ambient",
					Usage: "disable the ambient lighting term",
				},
				cli.BoolFlag{
					Name:  "no-diffuse",
					Usage: "disable the diffuse lighting term",
				},
				cli.BoolFlag{
					Name:  "no-specular",
					Usage: "disable the specular lighting term",
				},
				cli.BoolFlag{
					Name:  "no-emissive",
					Usage: "disable the emissive lighting term",
				},
				cli.Float64Flag{
					Name:  "yaw",
					Usage: "orbit the camera around its up axis (degrees)",
				},
				cli.Float64Flag{
					Name:  "pitch",
					Usage: "tilt the camera (degrees)",
				},
				cli.IntFlag{
					Name:  "workers, w",
					Value: 0,
					Usage: "number of render lanes; 0 uses all available cpus",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame (.png or .bmp)",
				},
			},
			Action: cmd.RenderFrame,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
