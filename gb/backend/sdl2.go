//go:build sdl2

package backend

import (
	"fmt"
	"log/slog"

	"github.com/markwinap/dmgcore/gb/memory"
	"github.com/markwinap/dmgcore/gb/video"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	sdlPixelScale = 3
	sdlBytesPerPx = 4
)

var sdlKeyMapping = map[sdl.Keycode]memory.Button{
	sdl.K_UP:     memory.Up,
	sdl.K_DOWN:   memory.Down,
	sdl.K_LEFT:   memory.Left,
	sdl.K_RIGHT:  memory.Right,
	sdl.K_RETURN: memory.Start,
	sdl.K_RSHIFT: memory.Select,
	sdl.K_z:      memory.A,
	sdl.K_x:      memory.B,
}

// SDL2 renders through an accelerated SDL2 window and reads keyboard
// events for the joypad; building it requires cgo and the SDL2
// development libraries (build with -tags sdl2).
type SDL2 struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	pixels []byte
}

// NewSDL2 returns an SDL2 backend.
func NewSDL2() *SDL2 { return &SDL2{} }

func (s *SDL2) Init(cfg Config) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("sdl2 backend: %w", err)
	}

	title := cfg.Title
	if title == "" {
		title = "dmgcore"
	}
	scale := cfg.Scale
	if scale <= 0 {
		scale = sdlPixelScale
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(160*scale), int32(144*scale), sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("sdl2 backend: create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2 backend: create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGBA8888, sdl.TEXTUREACCESS_STREAMING, 160, 144)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2 backend: create texture: %w", err)
	}
	s.texture = texture
	s.pixels = make([]byte, 160*144*sdlBytesPerPx)

	slog.Info("sdl2 backend initialized", "scale", scale)
	return nil
}

func (s *SDL2) Cleanup() error {
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

// video.Screen implementation -----------------------------------------

func (s *SDL2) TurnOn() {}
func (s *SDL2) TurnOff() {
	for i := range s.pixels {
		s.pixels[i] = 0
	}
}

func (s *SDL2) SetPixel(x, y int, r, g, b uint8) {
	if x < 0 || x >= 160 || y < 0 || y >= 144 {
		return
	}
	off := (y*160 + x) * sdlBytesPerPx
	s.pixels[off] = r
	s.pixels[off+1] = g
	s.pixels[off+2] = b
	s.pixels[off+3] = 0xFF
}

func (s *SDL2) ScanlineComplete(y int, skip bool) {}

func (s *SDL2) Draw(skipNext bool) {
	s.texture.Update(nil, s.pixels, 160*sdlBytesPerPx)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}

func (s *SDL2) FrameRate() uint8 { return 60 }

var _ video.Screen = (*SDL2)(nil)

// Update pumps the SDL event queue and reports button transitions.
func (s *SDL2) Update() ([]ButtonEvent, bool, error) {
	var events []ButtonEvent
	quit := false

	for {
		event := sdl.PollEvent()
		if event == nil {
			break
		}
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true
		case *sdl.KeyboardEvent:
			btn, ok := sdlKeyMapping[e.Keysym.Sym]
			if !ok {
				continue
			}
			switch e.State {
			case sdl.PRESSED:
				events = append(events, ButtonEvent{Button: btn, Pressed: true})
			case sdl.RELEASED:
				events = append(events, ButtonEvent{Button: btn, Pressed: false})
			}
		}
	}

	return events, quit, nil
}
