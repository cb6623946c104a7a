package main

import (
	"sync"

	"github.com/marben/escapetime/internal/config"
	"github.com/marben/escapetime/internal/logger"
)

// hub tracks the live sessions and the configuration new sessions start
// from.
type hub struct {
	log *logger.Logger

	sessions int
	cfg      *config.Config
	m        sync.Mutex
}

func newHub(cfg *config.Config, log *logger.Logger) *hub {
	return &hub{cfg: cfg, log: log}
}

func (h *hub) config() *config.Config {
	h.m.Lock()
	defer h.m.Unlock()
	return h.cfg
}

// setConfig swaps the configuration. Running sessions keep the one they
// started with.
func (h *hub) setConfig(cfg *config.Config) {
	h.m.Lock()
	h.cfg = cfg
	h.m.Unlock()

	h.log.Info("new sessions use width %d, %d iterations, %s", cfg.Render.Width, cfg.Render.MaxIterations, cfg.Render.Variant)
}

func (h *hub) incSessions() {
	h.m.Lock()
	h.sessions++
	n := h.sessions
	h.m.Unlock()

	h.log.Info("sessions: %d", n)
}

func (h *hub) decSessions() {
	h.m.Lock()
	h.sessions--
	n := h.sessions
	h.m.Unlock()

	h.log.Info("sessions: %d", n)
}

func (h *hub) activeSessions() int {
	h.m.Lock()
	defer h.m.Unlock()
	return h.sessions
}
