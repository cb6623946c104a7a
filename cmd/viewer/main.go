// viewer is the desktop explorer: the primary surface and the Julia surface
// side by side in one window, rendered in-process.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/marben/escapetime/interact"
	"github.com/marben/escapetime/internal/cli"
	"github.com/marben/escapetime/internal/viewer"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("FATAL: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		g      cli.Globals
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "escapetime-viewer",
		Short: "Explore Mandelbrot, Burning Ship and Julia sets in a window",
		Long: `Drag on a surface to zoom into the box, click the primary surface to pick
the Julia seed.

Keys: R/J reset primary/julia, C color scheme, F fractal, Up/Down iterations,
Left/Right surface width, P next landmark, S save both surfaces, Esc cancel drag.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), &g, outDir)
		},
	}
	cli.AddGlobalFlags(cmd, &g)
	cmd.Flags().StringVarP(&outDir, "out-dir", "d", ".", "directory S saves into")
	return cmd
}

func run(ctx context.Context, g *cli.Globals, outDir string) error {
	cfg, log, err := g.Load("viewer")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := interact.NewScheduler()
	go func() {
		_ = sched.Run(ctx)
	}()

	sink := viewer.NewSink()
	sess, err := interact.NewSession(interact.Options{
		Width:       cfg.Render.Width,
		Params:      cfg.Params(),
		Scheme:      cfg.Scheme(),
		ClickPolicy: cfg.ClickPolicy(),
		ZoomFactor:  cfg.Interaction.StaticZoomFactor,
		Renderer:    cfg.Renderer(),
		Logger:      log,
	}, sched, sink)
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}
	if err := sess.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	gm := newGame(ctx, sess, sink, outDir, log)
	w, h := gm.layout().Size()
	ebiten.SetWindowTitle("escapetime")
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(60)
	log.Info("window %dx%d, saving into %s", w, h, outDir)
	return ebiten.RunGame(gm)
}
