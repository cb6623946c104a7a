// Package wire defines the messages exchanged between the websocket server
// and its clients. Control and status travel as JSON text messages; frames
// and exports travel as binary messages with a small fixed header.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"

	mandel "github.com/marben/escapetime"
)

// Client to server message types.
const (
	PointerDown   = "pointer-down"
	PointerMove   = "pointer-move"
	PointerUp     = "pointer-up"
	PointerCancel = "pointer-cancel"
	Reset         = "reset"
	CycleScheme   = "cycle-scheme"
	CycleVariant  = "cycle-variant"
	SetIterations = "set-iterations"
	SetWidth      = "set-width"
	GoTo          = "goto"
	Export        = "export"
)

// Server to client message types.
const (
	Status   = "status"
	Overlay  = "overlay"
	Stats    = "stats"
	Settings = "settings"
	Error    = "error"
	// Export is also sent by the server, announcing the filename of the
	// PNG binary message that follows.
)

// ClientMessage is a control message from a client.
type ClientMessage struct {
	Type    string           `json:"type"`
	Surface mandel.SurfaceID `json:"surface,omitempty"`
	X       int              `json:"x,omitempty"`
	Y       int              `json:"y,omitempty"`
	Value   int              `json:"value,omitempty"`
	Name    string           `json:"name,omitempty"`
}

// Pos is the pointer position carried by pointer messages.
func (m ClientMessage) Pos() image.Point {
	return image.Pt(m.X, m.Y)
}

// Box is a zoom box overlay in surface pixels.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// SessionSettings describes what a session currently renders.
type SessionSettings struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	MaxIterations int     `json:"maxIterations"`
	Variant       string  `json:"variant"`
	Scheme        string  `json:"scheme"`
	SeedRe        float64 `json:"seedRe"`
	SeedIm        float64 `json:"seedIm"`
}

// ServerMessage is a JSON message from the server.
type ServerMessage struct {
	Type     string           `json:"type"`
	Surface  mandel.SurfaceID `json:"surface,omitempty"`
	Message  string           `json:"message,omitempty"`
	Box      *Box             `json:"box,omitempty"`
	Visible  bool             `json:"visible,omitempty"`
	Settings *SessionSettings `json:"settings,omitempty"`
	Filename string           `json:"filename,omitempty"`
}

// Binary message kinds.
const (
	KindFrame byte = 1 // payload is RGBA pixels, Width*Height*4 bytes
	KindPNG   byte = 2 // payload is an encoded PNG
)

// HeaderSize is the length of the binary header:
// kind, surface, width (uint16 BE), height (uint16 BE).
const HeaderSize = 6

var ErrMalformed = errors.New("malformed binary message")

var surfaceCodes = []mandel.SurfaceID{mandel.PrimarySurface, mandel.JuliaSurface}

func surfaceCode(id mandel.SurfaceID) (byte, error) {
	for i, s := range surfaceCodes {
		if s == id {
			return byte(i), nil
		}
	}
	return 0, fmt.Errorf("unknown surface %q", id)
}

// Binary is a decoded binary message. Payload aliases the input buffer.
type Binary struct {
	Kind    byte
	Surface mandel.SurfaceID
	Width   int
	Height  int
	Payload []byte
}

// Image wraps a frame payload without copying.
func (b Binary) Image() (*image.RGBA, error) {
	if b.Kind != KindFrame {
		return nil, fmt.Errorf("%w: kind %d is not a frame", ErrMalformed, b.Kind)
	}
	return &image.RGBA{
		Pix:    b.Payload,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}, nil
}

// EncodeFrame packs a rendered frame of surface id. The frame must start at
// the origin.
func EncodeFrame(id mandel.SurfaceID, img *image.RGBA) ([]byte, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if img.Rect.Min != (image.Point{}) || img.Stride != w*4 {
		return nil, fmt.Errorf("frame must be a full surface buffer, got %v stride %d", img.Rect, img.Stride)
	}
	return encode(KindFrame, id, w, h, img.Pix[:w*h*4])
}

// EncodePNG packs an exported PNG of surface id.
func EncodePNG(id mandel.SurfaceID, data []byte) ([]byte, error) {
	return encode(KindPNG, id, 0, 0, data)
}

func encode(kind byte, id mandel.SurfaceID, w, h int, payload []byte) ([]byte, error) {
	code, err := surfaceCode(id)
	if err != nil {
		return nil, err
	}
	if w > 0xffff || h > 0xffff {
		return nil, fmt.Errorf("frame %dx%d too large", w, h)
	}
	buf := make([]byte, HeaderSize, HeaderSize+len(payload))
	buf[0] = kind
	buf[1] = code
	binary.BigEndian.PutUint16(buf[2:], uint16(w))
	binary.BigEndian.PutUint16(buf[4:], uint16(h))
	return append(buf, payload...), nil
}

// Decode parses a binary message.
func Decode(b []byte) (Binary, error) {
	if len(b) < HeaderSize {
		return Binary{}, fmt.Errorf("%w: %d bytes", ErrMalformed, len(b))
	}
	if int(b[1]) >= len(surfaceCodes) {
		return Binary{}, fmt.Errorf("%w: surface code %d", ErrMalformed, b[1])
	}
	m := Binary{
		Kind:    b[0],
		Surface: surfaceCodes[b[1]],
		Width:   int(binary.BigEndian.Uint16(b[2:])),
		Height:  int(binary.BigEndian.Uint16(b[4:])),
		Payload: b[HeaderSize:],
	}
	switch m.Kind {
	case KindFrame:
		surf := mandel.Surface{Width: m.Width, Height: m.Height}
		if err := surf.Validate(); err != nil {
			return Binary{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if len(m.Payload) != surf.Pixels()*4 {
			return Binary{}, fmt.Errorf("%w: %s frame with %d bytes", ErrMalformed, surf, len(m.Payload))
		}
	case KindPNG:
	default:
		return Binary{}, fmt.Errorf("%w: kind %d", ErrMalformed, m.Kind)
	}
	return m, nil
}
