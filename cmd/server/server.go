package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marben/escapetime/internal/cli"
	"github.com/marben/escapetime/internal/config"
)

// main is the entry point for the escape-time fractal server.
// Every browser connection gets its own session; rendering happens here and
// finished frames are pushed to the page over the websocket.
func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		g    cli.Globals
		port int
	)
	cmd := &cobra.Command{
		Use:   "escapetime-server",
		Short: "Serve the interactive Mandelbrot / Julia explorer",
		Long: `escapetime-server serves a browser page with a primary fractal surface and a
Julia surface. Drag to zoom, click the primary surface to pick the Julia seed.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), &g, port)
		},
	}
	cli.AddGlobalFlags(cmd, &g)
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port, overrides the config file")
	return cmd
}

func run(ctx context.Context, g *cli.Globals, port int) error {
	cfg, log, err := g.Load("server")
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := newHub(cfg, log)

	// edits to the config file apply to sessions opened afterwards
	if path := configPath(g); path != "" {
		go func() {
			if err := config.NewLoader().Watch(ctx, path, log.WithComponent("config"), h.setConfig); err != nil {
				log.Warn("config watch stopped: %v", err)
			}
		}()
	}

	srv := webServer(cfg.Server.Port, cfg.Server.StaticDir, h)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown: %v", err)
		}
	}()

	fmt.Println(cli.BoxStyle.Render(cli.TitleStyle.Render("escapetime server") + "\n" + cli.KV(
		"listening", fmt.Sprintf("http://localhost:%d", cfg.Server.Port),
		"surface", strconv.Itoa(cfg.Render.Width),
		"variant", cfg.Render.Variant,
		"iterations", strconv.Itoa(cfg.Render.MaxIterations),
		"static dir", cfg.Server.StaticDir,
	)))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer: %w", err)
	}
	return nil
}

func configPath(g *cli.Globals) string {
	if g.ConfigFile != "" {
		return g.ConfigFile
	}
	path, _ := config.FindConfigFile()
	return path
}
