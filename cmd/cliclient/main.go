// cliclient renders escape-time fractals from the command line, either
// locally or by asking a running escapetime server for a surface.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	mandel "github.com/marben/escapetime"
	"github.com/marben/escapetime/coords"
	"github.com/marben/escapetime/export"
	"github.com/marben/escapetime/internal/cli"
	"github.com/marben/escapetime/internal/logger"
	"github.com/marben/escapetime/palette"
)

// main is the entry point for the CLI client.
func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("FATAL: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var g cli.Globals
	root := &cobra.Command{
		Use:           "escapetime",
		Short:         "Render Mandelbrot, Burning Ship and Julia images",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cli.AddGlobalFlags(root, &g)
	root.AddCommand(
		newRenderCommand(&g),
		newFetchCommand(&g),
		newPresetsCommand(),
		newSchemesCommand(),
	)
	return root
}

type renderOptions struct {
	variant    string
	scheme     string
	width      int
	iterations int
	preset     string
	seedRe     float64
	seedIm     float64
	out        string
}

func newRenderCommand(g *cli.Globals) *cobra.Command {
	var o renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one image locally and save it as PNG",
		Example: `  escapetime render
  escapetime render --variant burning-ship --scheme burning -o ship
  escapetime render --preset seahorse-valley --iterations 3000
  escapetime render --variant julia --seed-re -0.8 --seed-im 0.156`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, g, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.variant, "variant", "", "mandelbrot, burning-ship or julia")
	f.StringVar(&o.scheme, "scheme", "", "color scheme, see 'escapetime schemes'")
	f.IntVar(&o.width, "width", 0, fmt.Sprintf("surface width, one of %v", mandel.SurfaceWidths))
	f.IntVar(&o.iterations, "iterations", 0, "maximum iterations")
	f.StringVar(&o.preset, "preset", "", "landmark view, see 'escapetime presets'")
	f.Float64Var(&o.seedRe, "seed-re", 0, "julia seed, real part")
	f.Float64Var(&o.seedIm, "seed-im", 0, "julia seed, imaginary part")
	f.StringVarP(&o.out, "out", "o", "", "output file, defaults to the variant name")
	return cmd
}

func runRender(cmd *cobra.Command, g *cli.Globals, o renderOptions) error {
	cfg, log, err := g.Load("render")
	if err != nil {
		return err
	}
	log = log.WithWriter(cmd.ErrOrStderr())

	// flags override the config file
	f := cmd.Flags()
	if f.Changed("variant") {
		cfg.Render.Variant = o.variant
	}
	if f.Changed("scheme") {
		cfg.Render.Scheme = o.scheme
	}
	if f.Changed("width") {
		cfg.Render.Width = o.width
	}
	if f.Changed("iterations") {
		cfg.Render.MaxIterations = o.iterations
	}
	if f.Changed("seed-re") {
		cfg.Julia.SeedRe = o.seedRe
	}
	if f.Changed("seed-im") {
		cfg.Julia.SeedIm = o.seedIm
	}
	if f.Changed("out") {
		cfg.Output.Filename = o.out
	}
	if o.preset != "" {
		cfg.Render.Variant = mandel.Mandelbrot.String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	params := cfg.Params()
	surf := mandel.SurfaceForWidth(cfg.Render.Width)
	viewport := mandel.Home(params.Variant)
	if o.preset != "" {
		p, ok := mandel.PresetByName(o.preset)
		if !ok {
			return fmt.Errorf("unknown preset %q", o.preset)
		}
		viewport = p.Viewport
	}
	if err := viewport.Validate(); err != nil {
		return err
	}
	balanced, adjusted := coords.Balance(viewport, surf)
	if adjusted {
		log.WarnWithFields("viewport ReMax disagrees with surface, using derived value", []logger.Field{
			logger.F("given", viewport.ReMax),
			logger.F("derived", balanced.ReMax),
		})
	}
	viewport = balanced

	log.Debug("rendering %s %s at %s", params.Variant, viewport, surf)
	start := time.Now()
	img, stats := cfg.Renderer().Render(surf, viewport, params, cfg.Scheme())
	elapsed := time.Since(start)

	path := export.Filename(cfg.Output.Filename, params.Variant)
	if err := export.WriteFile(path, img); err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), "Rendered",
		"file", path,
		"variant", params.Variant.String(),
		"surface", surf.String(),
		"iterations", strconv.Itoa(params.MaxIterations),
		"scheme", cfg.Scheme().String(),
		"viewport", viewport.String(),
		"stats", stats.String(),
		"took", elapsed.Round(time.Millisecond).String(),
	)
	return nil
}

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the landmark views",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, cli.TitleStyle.Render("Presets"))
			for _, p := range mandel.Presets {
				fmt.Fprintf(w, "  %-24s %s\n", p.Name, p.Viewport)
			}
		},
	}
}

func newSchemesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schemes",
		Short: "List the color schemes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, cli.TitleStyle.Render("Schemes"))
			for _, s := range palette.Schemes() {
				fmt.Fprintln(w, "  "+s.String())
			}
		},
	}
}

func printSummary(w io.Writer, title string, pairs ...string) {
	fmt.Fprintln(w, cli.BoxStyle.Render(cli.TitleStyle.Render(title)+"\n"+cli.KV(pairs...)))
}
