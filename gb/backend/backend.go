// Package backend abstracts the presentation layer (rendering + button
// input) behind a small interface, so cmd/dmgcore can select headless,
// terminal or SDL2 output at runtime.
package backend

import "github.com/markwinap/dmgcore/gb/memory"

// ButtonEvent is a single joypad transition captured by a backend during
// one Update call.
type ButtonEvent struct {
	Button  memory.Button
	Pressed bool
}

// Config holds the options a backend needs to initialize its window/output.
type Config struct {
	Title      string
	Scale      int
	Fullscreen bool
	ShowDebug  bool
}

// Backend represents one presentation platform (terminal, SDL2 window,
// headless). Backends translate platform input into ButtonEvents and
// render frames pushed to them through video.Screen; Init/Update/Cleanup
// mirror the lifecycle cmd/dmgcore drives them through.
type Backend interface {
	// Init configures the backend. Must be called before Update.
	Init(cfg Config) error

	// Update polls platform events and returns the button transitions and
	// whether the user requested to quit.
	Update() (events []ButtonEvent, quit bool, err error)

	// Cleanup releases backend resources.
	Cleanup() error
}
