package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/achilleasa/hybris/renderer"
	"github.com/achilleasa/hybris/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/image/bmp"
)

// Render a still frame of a built-in scene.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts, err := optionsFromFlags(ctx)
	if err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene name argument")
	}

	sc, err := scene.Builtin(ctx.Args().First())
	if err != nil {
		return err
	}

	// Orbit camera
	if yaw, pitch := ctx.Float64("yaw"), ctx.Float64("pitch"); yaw != 0 || pitch != 0 {
		sc.Camera.Yaw = mgl32.DegToRad(float32(yaw))
		sc.Camera.Pitch = mgl32.DegToRad(float32(pitch))
	}

	r, err := renderer.NewDefault(sc, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	frame, err := r.Render()
	if err != nil {
		return err
	}

	// Display stats
	displayFrameStats(r.Stats())

	return writeFrame(ctx.String("out"), frame.RGBA())
}

// Map cli flags to renderer options.
func optionsFromFlags(ctx *cli.Context) (renderer.Options, error) {
	opts := renderer.DefaultOptions()
	opts.FrameW = uint32(ctx.Int("width"))
	opts.FrameH = uint32(ctx.Int("height"))
	opts.Supersampling = uint32(ctx.Int("supersample"))
	opts.Clipping = !ctx.Bool("no-clip")
	opts.Shadows = !ctx.Bool("no-shadows")
	opts.UseBVH = !ctx.Bool("no-bvh")
	opts.BVHMaxDepth = uint32(ctx.Int("bvh-depth"))
	opts.BVHMaxLeafItems = uint32(ctx.Int("bvh-leaf"))
	opts.SSAO = ctx.Bool("ssao")
	opts.SSAOSamples = ctx.Int("ssao-samples")
	opts.SSAORadius = float32(ctx.Float64("ssao-radius"))
	opts.SSAOAmount = float32(ctx.Float64("ssao-amount"))
	opts.SSAOBlur = ctx.Int("ssao-blur")
	opts.Ambient = !ctx.Bool("no-ambient")
	opts.Diffuse = !ctx.Bool("no-diffuse")
	opts.Specular = !ctx.Bool("no-specular")
	opts.Emissive = !ctx.Bool("no-emissive")
	opts.Workers = ctx.Int("workers")

	var err error
	if opts.Mode, err = renderer.ParseMode(ctx.String("mode")); err != nil {
		return opts, err
	}
	if opts.Shading, err = renderer.ParseShading(ctx.String("shading")); err != nil {
		return opts, err
	}

	return opts, opts.Validate()
}

var createFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// Encode the frame as a png or bmp image depending on the file extension.
func writeFrame(imgFile string, img image.Image) error {
	var encode func(io.Writer, image.Image) error
	switch strings.ToLower(filepath.Ext(imgFile)) {
	case ".png":
		encode = png.Encode
	case ".bmp":
		encode = bmp.Encode
	default:
		return fmt.Errorf("unsupported image format %q; use a .png or .bmp file", filepath.Ext(imgFile))
	}

	f, err := createFile(imgFile)
	if err != nil {
		return err
	}

	start := time.Now()
	if err = encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", imgFile, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", imgFile, err)
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1000000)
	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pass", "Lane", "Block height", "% of pass", "Render time"})
	for _, pass := range stats.Passes {
		for _, lane := range pass.Lanes {
			table.Append([]string{
				pass.Name,
				lane.Id,
				fmt.Sprintf("%d", lane.BlockH),
				fmt.Sprintf("%02.1f %%", lane.Percent),
				fmt.Sprintf("%s", lane.RenderTime),
			})
		}
		table.Append([]string{pass.Name, "", fmt.Sprintf("%d", pass.Total), "", fmt.Sprintf("%s", pass.RenderTime)})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", fmt.Sprintf("%s", stats.RenderTime)})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())

	if stats.Raster.Triangles != 0 {
		buf.Reset()
		table = tablewriter.NewWriter(&buf)
		table.SetAutoFormatHeaders(false)
		table.SetHeader([]string{"Triangles", "Clipped", "Discarded", "Emitted"})
		table.Append([]string{
			fmt.Sprintf("%d", stats.Raster.Triangles),
			fmt.Sprintf("%d", stats.Raster.Clipped),
			fmt.Sprintf("%d", stats.Raster.Discarded),
			fmt.Sprintf("%d", stats.Raster.Emitted),
		})
		table.Render()
		logger.Noticef("raster statistics\n%s", buf.String())
	}

	if stats.BVH != nil {
		buf.Reset()
		table = tablewriter.NewWriter(&buf)
		table.SetAutoFormatHeaders(false)
		table.SetHeader([]string{"Nodes", "Leaves", "Empty leaves", "Max depth", "Max leaf items", "Avg leaf items", "Build time"})
		table.Append([]string{
			fmt.Sprintf("%d", stats.BVH.Nodes),
			fmt.Sprintf("%d", stats.BVH.Leaves),
			fmt.Sprintf("%d", stats.BVH.EmptyLeaves),
			fmt.Sprintf("%d", stats.BVH.MaxDepth),
			fmt.Sprintf("%d", stats.BVH.MaxLeafItems),
			fmt.Sprintf("%3.1f", stats.BVH.AvgLeafItems),
			fmt.Sprintf("%s", stats.BVH.BuildTime),
		})
		table.Render()
		logger.Noticef("octree statistics\n%s", buf.String())
	}
}
