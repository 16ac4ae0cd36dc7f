package memory

// Button identifies one of the eight DMG buttons, per spec.md §6.
type Button int

const (
	A Button = iota
	B
	Select
	Start
	Up
	Down
	Left
	Right
)

// Joypad implements the $FF00/P1 register: a 2-bit select field chosen by
// the program and a 4-bit active-low pressed field composed from the held
// keys, per spec.md §4.5. A 1→0 transition on any of the four lines
// requests a JOYPAD interrupt.
type Joypad struct {
	selectButtons   bool // P1 bit 5, cleared selects the action buttons
	selectDirection bool // P1 bit 4, cleared selects the direction pad

	held [8]bool

	lastLines uint8 // previous composed 4-bit pressed field, for edge detection
}

// NewJoypad returns a joypad with both select lines high (nothing selected)
// and no buttons held.
func NewJoypad() *Joypad {
	return &Joypad{selectButtons: true, selectDirection: true, lastLines: 0x0F}
}

// Press marks button as held.
func (j *Joypad) Press(b Button) { j.held[b] = true }

// Release marks button as no longer held.
func (j *Joypad) Release(b Button) { j.held[b] = false }

// P1 returns the current $FF00 value: bits 7-6 read as 1, the select bits
// as written, and the composed active-low pressed field.
func (j *Joypad) P1() uint8 {
	v := uint8(0xC0)
	if j.selectButtons {
		v |= 0x20
	}
	if j.selectDirection {
		v |= 0x10
	}
	return v | j.lines()
}

// SetP1 writes the two select bits; the pressed field is read-only.
func (j *Joypad) SetP1(value uint8) {
	j.selectButtons = value&0x20 != 0
	j.selectDirection = value&0x10 != 0
}

// lines composes the active-low 4-bit pressed field from whichever of the
// direction/action groups is currently selected (both may be selected at
// once, in which case the lines are ORed together as on real hardware).
func (j *Joypad) lines() uint8 {
	bits := uint8(0x0F)
	if !j.selectDirection {
		bits &^= j.groupBits(Right, Left, Up, Down)
	}
	if !j.selectButtons {
		bits &^= j.groupBits(A, B, Select, Start)
	}
	return bits
}

func (j *Joypad) groupBits(bit0, bit1, bit2, bit3 Button) uint8 {
	var v uint8
	if j.held[bit0] {
		v |= 0x01
	}
	if j.held[bit1] {
		v |= 0x02
	}
	if j.held[bit2] {
		v |= 0x04
	}
	if j.held[bit3] {
		v |= 0x08
	}
	return v
}

// Step recomposes the pressed field and reports whether a 1→0 edge occurred
// on any line since the last call, which requests the JOYPAD interrupt.
func (j *Joypad) Step() bool {
	current := j.lines()
	fallingEdge := j.lastLines&^current != 0
	j.lastLines = current
	return fallingEdge
}
