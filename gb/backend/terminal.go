package backend

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/markwinap/dmgcore/gb/memory"
	"github.com/markwinap/dmgcore/gb/video"
)

const (
	screenWidth  = 160
	screenHeight = 144
	minTermWidth = screenWidth + 2
	minTermHeight = screenHeight/2 + 2

	// keyTimeout bounds how long a key is considered "held" after its last
	// keypress event, since terminals don't reliably deliver key-up events.
	keyTimeout = 100 * time.Millisecond
)

var keyMapping = map[tcell.Key]memory.Button{
	tcell.KeyUp:    memory.Up,
	tcell.KeyDown:  memory.Down,
	tcell.KeyLeft:  memory.Left,
	tcell.KeyRight: memory.Right,
	tcell.KeyEnter: memory.Start,
}

var runeMapping = map[rune]memory.Button{
	'z': memory.A,
	'x': memory.B,
	' ': memory.Select,
}

// Terminal renders to a tcell screen using half-block characters (two
// Game Boy pixel rows per terminal cell) and reads keyboard input for the
// joypad.
type Terminal struct {
	screen tcell.Screen

	buffer [screenHeight][screenWidth]uint8 // shade index 0-3, being written
	ready  [screenHeight][screenWidth]uint8 // last completed frame

	lastPress map[memory.Button]time.Time
	active    map[memory.Button]bool

	quit bool
}

// NewTerminal returns a Terminal backend; call Init before using it as a
// video.Screen or polling Update.
func NewTerminal() *Terminal {
	return &Terminal{
		lastPress: make(map[memory.Button]time.Time),
		active:    make(map[memory.Button]bool),
	}
}

func (t *Terminal) Init(cfg Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal backend: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal backend: %w", err)
	}
	t.screen = screen
	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()
	slog.Info("terminal backend initialized")
	return nil
}

func (t *Terminal) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

// video.Screen implementation -----------------------------------------

func (t *Terminal) TurnOn()  {}
func (t *Terminal) TurnOff() { t.buffer = [screenHeight][screenWidth]uint8{} }

func (t *Terminal) SetPixel(x, y int, r, g, b uint8) {
	if x < 0 || x >= screenWidth || y < 0 || y >= screenHeight {
		return
	}
	t.buffer[y][x] = shadeFromRGB(r, g, b)
}

func (t *Terminal) ScanlineComplete(y int, skip bool) {}

func (t *Terminal) Draw(skipNext bool) {
	t.ready = t.buffer
}

func (t *Terminal) FrameRate() uint8 { return 60 }

func shadeFromRGB(r, g, b uint8) uint8 {
	switch r {
	case 0xFF:
		return 0
	case 0x98:
		return 1
	case 0x4C:
		return 2
	default:
		return 3
	}
}

var _ video.Screen = (*Terminal)(nil)

// Update polls keyboard events, renders the last completed frame, and
// reports button transitions since the previous call.
func (t *Terminal) Update() ([]ButtonEvent, bool, error) {
	now := time.Now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKey(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	var events []ButtonEvent
	currentlyActive := make(map[memory.Button]bool)
	for btn, pressedAt := range t.lastPress {
		if now.Sub(pressedAt) < keyTimeout {
			currentlyActive[btn] = true
			if !t.active[btn] {
				events = append(events, ButtonEvent{Button: btn, Pressed: true})
			}
		} else {
			delete(t.lastPress, btn)
		}
	}
	for btn := range t.active {
		if !currentlyActive[btn] {
			events = append(events, ButtonEvent{Button: btn, Pressed: false})
		}
	}
	t.active = currentlyActive

	t.render()
	t.screen.Show()

	return events, t.quit, nil
}

func (t *Terminal) processKey(ev *tcell.EventKey, now time.Time) {
	if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape {
		t.quit = true
		return
	}
	if btn, ok := keyMapping[ev.Key()]; ok {
		t.lastPress[btn] = now
		return
	}
	if ev.Key() == tcell.KeyRune {
		if btn, ok := runeMapping[ev.Rune()]; ok {
			t.lastPress[btn] = now
		}
	}
}

var shadeColors = []tcell.Color{tcell.ColorWhite, tcell.ColorSilver, tcell.ColorGray, tcell.ColorBlack}

func (t *Terminal) render() {
	w, h := t.screen.Size()
	if w < minTermWidth || h < minTermHeight {
		t.screen.Clear()
		msg := fmt.Sprintf("terminal too small, need at least %dx%d", minTermWidth, minTermHeight)
		for i, ch := range msg {
			t.screen.SetContent(i, 0, ch, nil, tcell.StyleDefault.Foreground(tcell.ColorRed))
		}
		return
	}

	for y := 0; y < screenHeight; y += 2 {
		for x := 0; x < screenWidth; x++ {
			top := t.ready[y][x]
			bottom := uint8(0)
			if y+1 < screenHeight {
				bottom = t.ready[y+1][x]
			}
			style := tcell.StyleDefault.Foreground(shadeColors[top]).Background(shadeColors[bottom])
			t.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
}
