//go:build !sdl2

package backend

import (
	"fmt"

	"github.com/markwinap/dmgcore/gb/video"
)

// SDL2 is the stub compiled when the sdl2 build tag is absent; real
// windowed rendering needs cgo and SDL2 development headers, which are
// not always available, so the default build excludes it (see sdl2.go).
// It still implements video.Screen (as a no-op, like video.NullScreen) so
// cmd/dmgcore can wire *SDL2 as a Screen regardless of which variant was
// compiled in.
type SDL2 struct{}

// NewSDL2 returns a stub SDL2 backend whose Init always fails.
func NewSDL2() *SDL2 { return &SDL2{} }

func (s *SDL2) Init(cfg Config) error {
	return fmt.Errorf("sdl2 backend not compiled in: build with -tags sdl2")
}

func (s *SDL2) Update() ([]ButtonEvent, bool, error) { return nil, true, nil }

func (s *SDL2) Cleanup() error { return nil }

func (s *SDL2) TurnOn()                           {}
func (s *SDL2) TurnOff()                          {}
func (s *SDL2) SetPixel(x, y int, r, g, b uint8)  {}
func (s *SDL2) ScanlineComplete(y int, skip bool) {}
func (s *SDL2) Draw(skipNext bool)                {}
func (s *SDL2) FrameRate() uint8                  { return 60 }

var _ video.Screen = (*SDL2)(nil)
