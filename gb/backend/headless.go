package backend

import "log/slog"

// Headless drives no window and accepts no input; it's the backend used
// for batch runs and automated ROM tests.
type Headless struct {
	frames int
}

// NewHeadless returns a Headless backend.
func NewHeadless() *Headless {
	return &Headless{}
}

func (h *Headless) Init(cfg Config) error {
	slog.Info("headless backend initialized")
	return nil
}

func (h *Headless) Update() ([]ButtonEvent, bool, error) {
	h.frames++
	return nil, false, nil
}

func (h *Headless) Cleanup() error {
	return nil
}
