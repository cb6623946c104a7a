package main

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

//go:embed static
var pageFS embed.FS

// webServer creates server serving the embedded page, the WASM client from
// staticDir under /wasm/ and the websocket endpoint under /ws.
func webServer(port int, staticDir string, h *hub) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           newMux(staticDir, h),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func newMux(staticDir string, h *hub) *http.ServeMux {
	page, err := fs.Sub(pageFS, "static")
	if err != nil {
		panic(err) // embedded directory is always present
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(h))
	mux.Handle("/wasm/", http.StripPrefix("/wasm/", http.FileServer(http.Dir(staticDir))))
	mux.Handle("/", http.FileServer(http.FS(page)))
	return mux
}

// websocketHandler handles the http ws endpoint
// every accepted websocket runs its own session until either side closes it
func websocketHandler(h *hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // TODO: tighten in prod
		})
		if err != nil {
			h.log.Warn("websocket accept: %v", err)
			return
		}
		defer c.CloseNow()

		if err := h.serve(r.Context(), c); err != nil {
			h.log.Warn("session %s: %v", r.RemoteAddr, err)
			c.Close(websocket.StatusInternalError, "session failed")
			return
		}
		c.Close(websocket.StatusNormalClosure, "")
	}
}
