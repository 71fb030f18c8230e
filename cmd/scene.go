package cmd

import (
	"bytes"

	"github.com/achilleasa/hybris/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List the built-in scenes. If scene names are passed as arguments, display
// detailed statistics for each one of them.
func ListScenes(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		var buf bytes.Buffer
		table := tablewriter.NewWriter(&buf)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		table.SetHeader([]string{"Scene", "Description"})
		for _, name := range scene.BuiltinNames() {
			table.Append([]string{name, scene.BuiltinDescription(name)})
		}
		table.Render()
		logger.Noticef("built-in scenes\n%s", buf.String())
		return nil
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		name := ctx.Args().Get(idx)
		sc, err := scene.Builtin(name)
		if err != nil {
			return err
		}

		logger.Noticef("scene %s: %s\n%s", name, scene.BuiltinDescription(name), sc.Stats())
	}

	return nil
}
