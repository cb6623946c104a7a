package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/cobra"

	mandel "github.com/marben/escapetime"
	"github.com/marben/escapetime/internal/cli"
	"github.com/marben/escapetime/internal/logger"
	"github.com/marben/escapetime/internal/wire"
)

// a full 1920x1080 RGBA frame plus header
const readLimit = 16 << 20

type fetchOptions struct {
	server  string
	surface string
	preset  string
	out     string
	timeout time.Duration
}

func newFetchCommand(g *cli.Globals) *cobra.Command {
	var o fetchOptions
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Ask a running server to render a surface and save its PNG",
		Example: `  escapetime fetch
  escapetime fetch --surface julia -o julia
  escapetime fetch --server ws://render-box:8080/ws --preset triple-spiral`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, g, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.server, "server", "", "server websocket URL, defaults to the configured port on localhost")
	f.StringVar(&o.surface, "surface", string(mandel.PrimarySurface), "primary or julia")
	f.StringVar(&o.preset, "preset", "", "show a landmark on the primary surface first")
	f.StringVarP(&o.out, "out", "o", "", "output file, defaults to the name the server suggests")
	f.DurationVar(&o.timeout, "timeout", time.Minute, "give up after this long")
	return cmd
}

func runFetch(cmd *cobra.Command, g *cli.Globals, o fetchOptions) error {
	cfg, log, err := g.Load("fetch")
	if err != nil {
		return err
	}
	url := o.server
	if url == "" {
		url = fmt.Sprintf("ws://localhost:%d/ws", cfg.Server.Port)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()

	res, err := fetch(ctx, url, mandel.SurfaceID(o.surface), o.preset, o.out, log)
	if err != nil {
		return err
	}
	if err := os.WriteFile(res.filename, res.png, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", res.filename, err)
	}

	printSummary(cmd.OutOrStdout(), "Fetched",
		"file", res.filename,
		"server", url,
		"surface", o.surface,
		"stats", res.stats,
	)
	return nil
}

type fetched struct {
	filename string
	png      []byte
	stats    string
}

// fetch opens a session on the server, waits for the surface to be rendered
// and asks for its PNG. name is passed to the server, which applies the
// default filename rules to it.
func fetch(ctx context.Context, url string, id mandel.SurfaceID, preset, name string, log *logger.Logger) (fetched, error) {
	if id != mandel.PrimarySurface && id != mandel.JuliaSurface {
		return fetched{}, fmt.Errorf("unknown surface %q", id)
	}
	if preset != "" && id != mandel.PrimarySurface {
		return fetched{}, errors.New("presets apply to the primary surface")
	}

	log.Info("Connecting to escapetime server at %s...", url)
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fetched{}, fmt.Errorf("failed to connect to server: %w", err)
	}
	defer c.CloseNow()
	c.SetReadLimit(readLimit)

	s := &serverConn{ctx: ctx, c: c, log: log}

	log.Info("Waiting for the %s surface...", id)
	stats, err := s.waitFrame(id)
	if err != nil {
		return fetched{}, err
	}

	if preset != "" {
		log.Info("Going to %s...", preset)
		if err := s.send(wire.ClientMessage{Type: wire.GoTo, Name: preset}); err != nil {
			return fetched{}, err
		}
		if stats, err = s.waitFrame(id); err != nil {
			return fetched{}, err
		}
	}

	log.Info("Requesting PNG export...")
	if err := s.send(wire.ClientMessage{Type: wire.Export, Surface: id, Name: name}); err != nil {
		return fetched{}, err
	}
	res := fetched{stats: stats}
	for res.png == nil {
		msg, bin, err := s.next()
		if err != nil {
			return fetched{}, err
		}
		switch {
		case msg != nil && msg.Type == wire.Export && msg.Surface == id:
			res.filename = msg.Filename
		case bin != nil && bin.Kind == wire.KindPNG && bin.Surface == id:
			res.png = bin.Payload
		}
	}
	if res.filename == "" {
		return fetched{}, errors.New("server sent the PNG without a filename")
	}

	c.Close(websocket.StatusNormalClosure, "")
	return res, nil
}

// serverConn reads the server's message stream. Error messages from the
// server end the exchange.
type serverConn struct {
	ctx context.Context
	c   *websocket.Conn
	log *logger.Logger
}

func (s *serverConn) send(msg wire.ClientMessage) error {
	if err := wsjson.Write(s.ctx, s.c, msg); err != nil {
		return fmt.Errorf("send %s: %w", msg.Type, err)
	}
	return nil
}

func (s *serverConn) next() (*wire.ServerMessage, *wire.Binary, error) {
	typ, b, err := s.c.Read(s.ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("read: %w", err)
	}
	if typ == websocket.MessageBinary {
		m, err := wire.Decode(b)
		if err != nil {
			return nil, nil, err
		}
		return nil, &m, nil
	}

	var msg wire.ServerMessage
	if err := json.Unmarshal(b, &msg); err != nil {
		return nil, nil, fmt.Errorf("decode message: %w", err)
	}
	if msg.Type == wire.Error {
		return nil, nil, fmt.Errorf("server: %s", msg.Message)
	}
	if msg.Type == wire.Status {
		s.log.Debug("%s: %s", msg.Surface, msg.Message)
	}
	return &msg, nil, nil
}

// waitFrame reads until a frame of surface id arrives and returns the stats
// the server reports for it.
func (s *serverConn) waitFrame(id mandel.SurfaceID) (string, error) {
	framed := false
	for {
		msg, bin, err := s.next()
		if err != nil {
			return "", err
		}
		if bin != nil && bin.Kind == wire.KindFrame && bin.Surface == id {
			framed = true
		}
		// the stats message follows its frame
		if framed && msg != nil && msg.Type == wire.Stats && msg.Surface == id {
			return msg.Message, nil
		}
	}
}
