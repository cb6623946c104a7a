//go:build js && wasm

package main

import (
	"image"
	"syscall/js"

	mandel "github.com/marben/escapetime"
	"github.com/marben/escapetime/internal/wire"
)

// displayImage puts a whole frame onto the surface canvas.
func displayImage(id mandel.SurfaceID, img *image.RGBA) {
	width := img.Rect.Dx()
	height := img.Rect.Dy()
	initCanvas(id, width, height)

	// 1. Get the Canvas element and its 2D context
	ctx := element(string(id)).Call("getContext", "2d")

	// 2. Create a JS TypedArray (Uint8ClampedArray) to hold the pixel data
	// The length is width * height * 4 (RGBA)
	jsData := js.Global().Get("Uint8ClampedArray").New(len(img.Pix))

	// 3. Copy the Go byte slice into the JS TypedArray
	js.CopyBytesToJS(jsData, img.Pix)

	// 4. Create ImageData and put it on the canvas
	imageData := js.Global().Get("ImageData").New(jsData, width, height)
	ctx.Call("putImageData", imageData, 0, 0)
}

// initCanvas sizes the surface canvas and its overlay. Resizing clears them,
// so it only happens when the size actually changes.
func initCanvas(id mandel.SurfaceID, width, height int) {
	for _, elemID := range []string{string(id), string(id) + "Overlay"} {
		canvas := element(elemID)
		if canvas.Get("width").Int() == width && canvas.Get("height").Int() == height {
			continue
		}
		canvas.Set("width", width)
		canvas.Set("height", height)
	}
}

// drawOverlay shows or clears the zoom box above the surface.
func drawOverlay(id mandel.SurfaceID, box wire.Box, visible bool) {
	canvas := element(string(id) + "Overlay")
	ctx := canvas.Call("getContext", "2d")
	ctx.Call("clearRect", 0, 0, canvas.Get("width"), canvas.Get("height"))
	if !visible {
		return
	}

	ctx.Set("fillStyle", "rgba(255, 255, 255, 0.25)")
	ctx.Call("fillRect", box.X, box.Y, box.W, box.H)
	ctx.Set("strokeStyle", "#ffffff")
	ctx.Call("strokeRect", box.X, box.Y, box.W, box.H)
}

// downloadPNG hands an exported PNG to the browser as a file download.
func downloadPNG(filename string, data []byte) {
	arr := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(arr, data)

	blob := js.Global().Get("Blob").New([]any{arr}, map[string]any{"type": "image/png"})
	url := js.Global().Get("URL").Call("createObjectURL", blob)

	a := js.Global().Get("document").Call("createElement", "a")
	a.Set("href", url)
	a.Set("download", filename)
	a.Call("click")
	js.Global().Get("URL").Call("revokeObjectURL", url)
}
