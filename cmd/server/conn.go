package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/marben/escapetime"
	"github.com/marben/escapetime/coords"
	"github.com/marben/escapetime/interact"
	"github.com/marben/escapetime/internal/logger"
	"github.com/marben/escapetime/internal/wire"
)

// serve runs one session over c until the client goes away.
// The read loop below is the session's input goroutine.
func (h *hub) serve(ctx context.Context, c *websocket.Conn) error {
	h.incSessions()
	defer h.decSessions()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := h.config()
	log := h.log.WithComponent("session")

	sched := interact.NewScheduler()
	go func() {
		_ = sched.Run(ctx)
	}()

	sink := &wsSink{ctx: ctx, c: c, log: log}
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

	sink.settings(sess)
	if err := sess.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	for {
		var msg wire.ClientMessage
		if err := wsjson.Read(ctx, c, &msg); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		if err := dispatch(sess, sink, cfg.Output.Filename, msg); err != nil {
			log.Debug("%s: %v", msg.Type, err)
			sink.send(wire.ServerMessage{Type: wire.Error, Surface: msg.Surface, Message: err.Error()})
		}
	}
}

// dispatch applies one control message to the session.
func dispatch(sess *interact.Session, sink *wsSink, defaultName string, msg wire.ClientMessage) error {
	switch msg.Type {
	case wire.PointerDown:
		return sess.PointerDown(msg.Surface, msg.Pos())
	case wire.PointerMove:
		return sess.PointerMove(msg.Surface, msg.Pos())
	case wire.PointerUp:
		out, err := sess.PointerUp(msg.Surface, msg.Pos())
		if err == nil && out.Kind == interact.Seed {
			sink.settings(sess)
		}
		return err
	case wire.PointerCancel:
		return sess.PointerCancel(msg.Surface)
	case wire.Reset:
		return sess.Reset(msg.Surface)
	case wire.Export:
		name := msg.Name
		if name == "" {
			name = defaultName
		}
		return sink.export(sess, msg.Surface, name)
	}

	var err error
	switch msg.Type {
	case wire.CycleScheme:
		sess.CycleScheme()
	case wire.CycleVariant:
		_, err = sess.CycleVariant()
	case wire.SetIterations:
		err = sess.SetMaxIterations(msg.Value)
	case wire.SetWidth:
		err = sess.SetWidth(msg.Value)
	case wire.GoTo:
		err = sess.GoTo(msg.Name)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	if err != nil {
		return err
	}
	sink.settings(sess)
	return nil
}

// wsSink implements interact.Sink over a websocket. coder/websocket allows
// concurrent writers, so the input and render goroutines share it.
type wsSink struct {
	ctx context.Context
	c   *websocket.Conn
	log *logger.Logger
}

func (s *wsSink) send(msg wire.ServerMessage) {
	if err := wsjson.Write(s.ctx, s.c, msg); err != nil {
		s.log.Debug("write %s: %v", msg.Type, err)
	}
}

func (s *wsSink) sendBinary(b []byte) {
	if err := s.c.Write(s.ctx, websocket.MessageBinary, b); err != nil {
		s.log.Debug("write binary: %v", err)
	}
}

func (s *wsSink) Status(id mandel.SurfaceID, message string) {
	s.send(wire.ServerMessage{Type: wire.Status, Surface: id, Message: message})
}

func (s *wsSink) Overlay(id mandel.SurfaceID, box coords.Box, visible bool) {
	s.send(wire.ServerMessage{
		Type:    wire.Overlay,
		Surface: id,
		Box:     &wire.Box{X: box.X, Y: box.Y, W: box.W, H: box.H},
		Visible: visible,
	})
}

func (s *wsSink) Frame(id mandel.SurfaceID, frame *image.RGBA, stats mandel.Stats) {
	b, err := wire.EncodeFrame(id, frame)
	if err != nil {
		s.log.Error("encode frame: %v", err)
		return
	}
	s.sendBinary(b)
	s.send(wire.ServerMessage{Type: wire.Stats, Surface: id, Message: stats.String()})
}

func (s *wsSink) settings(sess *interact.Session) {
	p := sess.Params()
	surf := sess.Surface()
	s.send(wire.ServerMessage{Type: wire.Settings, Settings: &wire.SessionSettings{
		Width:         surf.Width,
		Height:        surf.Height,
		MaxIterations: p.MaxIterations,
		Variant:       p.Variant.String(),
		Scheme:        sess.Scheme().String(),
		SeedRe:        p.Seed.Re,
		SeedIm:        p.Seed.Im,
	}})
}

// export sends the filename announcement followed by the PNG itself.
func (s *wsSink) export(sess *interact.Session, id mandel.SurfaceID, name string) error {
	var buf bytes.Buffer
	if err := sess.Export(id, &buf); err != nil {
		return err
	}
	b, err := wire.EncodePNG(id, buf.Bytes())
	if err != nil {
		return err
	}
	s.send(wire.ServerMessage{Type: wire.Export, Surface: id, Filename: sess.ExportFilename(id, name)})
	s.sendBinary(b)
	return nil
}
