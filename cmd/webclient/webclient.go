//go:build js && wasm

// webclient.go is the WASM browser client of the escapetime server.
// It forwards pointer gestures and control changes to the server and draws
// the frames, overlays and status messages the server pushes back.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"syscall/js"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/marben/escapetime"
	"github.com/marben/escapetime/internal/wire"
)

// a full 1920x1080 RGBA frame plus header
const readLimit = 16 << 20

var surfaces = []mandel.SurfaceID{mandel.PrimarySurface, mandel.JuliaSurface}

// main is the entry point for the WASM web client.
func main() {
	logScreenf("Starting WASM web client...")

	// Step 1: Determine server address for WebSocket connection
	loc := js.Global().Get("window").Get("location")
	host := loc.Get("host").String()
	proto := "ws"
	if loc.Get("protocol").String() == "https:" {
		proto = "wss"
	}
	websocketUrl := proto + "://" + host + "/ws"

	// Step 2: Connect to server via WebSocket
	logScreenf("Connecting to escapetime server at %s...", websocketUrl)
	ctx := context.Background()
	c, _, err := websocket.Dial(ctx, websocketUrl, nil)
	if err != nil {
		logFatalf("Failed to connect: %v", err)
	}
	c.SetReadLimit(readLimit)
	logScreenf("WebSocket connected.")

	cl := &client{
		ctx:          ctx,
		c:            c,
		out:          make(chan wire.ClientMessage, 64),
		pendingNames: make(map[mandel.SurfaceID]string),
	}

	// Step 3: Wire the page to the session
	for _, id := range surfaces {
		cl.bindPointer(id)
	}
	cl.bindControls()
	go cl.writeLoop()

	// Step 4: Draw whatever the server pushes until the connection ends
	if err := cl.readLoop(); err != nil {
		logFatalf("readLoop: %v", err)
	}
}

type client struct {
	ctx context.Context
	c   *websocket.Conn

	// JS callbacks must not block, so they queue messages for writeLoop,
	// which also keeps pointer events in order.
	out chan wire.ClientMessage

	// filenames announced for PNG exports still in flight
	pendingNames map[mandel.SurfaceID]string
}

// post queues msg. Pointer moves are dropped when the queue is full; the
// next one carries a newer position anyway.
func (cl *client) post(msg wire.ClientMessage) {
	if msg.Type == wire.PointerMove {
		select {
		case cl.out <- msg:
		default:
		}
		return
	}
	cl.out <- msg
}

func (cl *client) writeLoop() {
	for msg := range cl.out {
		if err := wsjson.Write(cl.ctx, cl.c, msg); err != nil {
			logScreenf("send %s: %v", msg.Type, err)
			return
		}
	}
}

func (cl *client) readLoop() error {
	for {
		typ, b, err := cl.c.Read(cl.ctx)
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		if typ == websocket.MessageBinary {
			m, err := wire.Decode(b)
			if err != nil {
				logScreenf("bad binary message: %v", err)
				continue
			}
			cl.handleBinary(m)
			continue
		}

		var msg wire.ServerMessage
		if err := json.Unmarshal(b, &msg); err != nil {
			logScreenf("bad message: %v", err)
			continue
		}
		cl.handle(msg)
	}
}

func (cl *client) handleBinary(m wire.Binary) {
	switch m.Kind {
	case wire.KindFrame:
		img, err := m.Image()
		if err != nil {
			logScreenf("frame: %v", err)
			return
		}
		displayImage(m.Surface, img)
	case wire.KindPNG:
		name, ok := cl.pendingNames[m.Surface]
		if !ok {
			name = string(m.Surface) + ".png"
		}
		delete(cl.pendingNames, m.Surface)
		downloadPNG(name, m.Payload)
	}
}

func (cl *client) handle(msg wire.ServerMessage) {
	switch msg.Type {
	case wire.Status:
		setText(string(msg.Surface)+"Message", msg.Message)
	case wire.Stats:
		setText(string(msg.Surface)+"Stats", msg.Message)
	case wire.Overlay:
		if msg.Box != nil {
			drawOverlay(msg.Surface, *msg.Box, msg.Visible)
		}
	case wire.Settings:
		if msg.Settings != nil {
			applySettings(*msg.Settings)
		}
	case wire.Export:
		cl.pendingNames[msg.Surface] = msg.Filename
	case wire.Error:
		logScreenf("server: %s", msg.Message)
	}
}

// bindPointer forwards mouse gestures on the surface canvas.
func (cl *client) bindPointer(id mandel.SurfaceID) {
	canvas := element(string(id))
	pointer := func(typ string) js.Func {
		return js.FuncOf(func(this js.Value, args []js.Value) any {
			e := args[0]
			e.Call("preventDefault")
			cl.post(wire.ClientMessage{
				Type:    typ,
				Surface: id,
				X:       e.Get("offsetX").Int(),
				Y:       e.Get("offsetY").Int(),
			})
			return nil
		})
	}
	canvas.Call("addEventListener", "mousedown", pointer(wire.PointerDown))
	canvas.Call("addEventListener", "mousemove", pointer(wire.PointerMove))
	canvas.Call("addEventListener", "mouseup", pointer(wire.PointerUp))
	canvas.Call("addEventListener", "mouseleave", pointer(wire.PointerCancel))
}

// bindControls forwards button presses and select changes.
func (cl *client) bindControls() {
	button := func(elemID string, msg func() wire.ClientMessage) {
		element(elemID).Call("addEventListener", "click", js.FuncOf(func(js.Value, []js.Value) any {
			cl.post(msg())
			return nil
		}))
	}
	fixed := func(msg wire.ClientMessage) func() wire.ClientMessage {
		return func() wire.ClientMessage { return msg }
	}
	exportMsg := func(id mandel.SurfaceID) func() wire.ClientMessage {
		return func() wire.ClientMessage {
			return wire.ClientMessage{Type: wire.Export, Surface: id, Name: element("filename").Get("value").String()}
		}
	}

	button("resetPrimary", fixed(wire.ClientMessage{Type: wire.Reset, Surface: mandel.PrimarySurface}))
	button("resetJulia", fixed(wire.ClientMessage{Type: wire.Reset, Surface: mandel.JuliaSurface}))
	button("cycleVariant", fixed(wire.ClientMessage{Type: wire.CycleVariant}))
	button("cycleScheme", fixed(wire.ClientMessage{Type: wire.CycleScheme}))
	button("exportPrimary", exportMsg(mandel.PrimarySurface))
	button("exportJulia", exportMsg(mandel.JuliaSurface))

	selectInt := func(elemID, typ string) {
		element(elemID).Call("addEventListener", "change", js.FuncOf(func(this js.Value, _ []js.Value) any {
			v, err := strconv.Atoi(this.Get("value").String())
			if err != nil {
				logScreenf("%s: %v", elemID, err)
				return nil
			}
			cl.post(wire.ClientMessage{Type: typ, Value: v})
			return nil
		}))
	}
	selectInt("iterations", wire.SetIterations)
	selectInt("width", wire.SetWidth)

	element("preset").Call("addEventListener", "change", js.FuncOf(func(this js.Value, _ []js.Value) any {
		if name := this.Get("value").String(); name != "" {
			cl.post(wire.ClientMessage{Type: wire.GoTo, Name: name})
		}
		return nil
	}))
}

func applySettings(s wire.SessionSettings) {
	for _, id := range surfaces {
		initCanvas(id, s.Width, s.Height)
	}
	element("iterations").Set("value", strconv.Itoa(s.MaxIterations))
	element("width").Set("value", strconv.Itoa(s.Width))
	setText("settings", fmt.Sprintf("%s · %s · seed %.5f%+.5fi", s.Variant, s.Scheme, s.SeedRe, s.SeedIm))
}

func element(id string) js.Value {
	return js.Global().Get("document").Call("getElementById", id)
}

func setText(id, text string) {
	if el := element(id); !el.IsNull() {
		el.Set("textContent", text)
	}
}

// logScreenf appends a formatted message to the log element in the DOM.
func logScreenf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)

	logElem := element("log")
	logElem.Set("textContent", logElem.Get("textContent").String()+msg+"\n")
}

// logFatalf logs a fatal error to the log window and terminates the program.
func logFatalf(format string, a ...any) {
	logScreenf("FATAL: "+format, a...)
	log.Fatalf(format, a...)
}
