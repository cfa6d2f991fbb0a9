package emu

import emucore "github.com/user-none/eblitui/api"

// Input port indices for the six logical groups behind the multiplexer.
const (
	portIN0  = 0 // coin door / service
	portIN1  = 1 // start switches
	portIN2  = 2 // player 1
	portIN3  = 3 // player 2
	portDSWA = 4
	portDSWB = 5

	numPorts = 6
)

// DSWB bits consumed by the core. Both are active low.
const (
	dswbFlipScreen = 0x40
	dswbUpright    = 0x80
)

// Inputs holds the externally supplied 8-bit vectors: four switch
// matrices, the two main-board dip banks behind the port selector, and
// the two audio-board dip banks read through the sound generator's I/O
// ports. Switch matrices are active low except the coin lines of IN0,
// which are active high on Game Plan boards.
type Inputs struct {
	IN0  uint8
	IN1  uint8
	IN2  uint8
	IN3  uint8
	DSWA uint8
	DSWB uint8
	DSW2 uint8
	DSW3 uint8
}

// IO is the multiplexed input port block on the I/O adapter. A select
// write latches which of the six groups the single read port exposes;
// unmapped select codes leave the latch unchanged, matching the real
// decode logic.
type IO struct {
	Inputs Inputs

	currentPort uint8
	coinLevel   bool
	coinCount   int
}

// NewIO creates the input block with all switches released. Active-low
// matrices idle at 0xFF; IN0 idles with the active-high coin bits clear.
func NewIO() *IO {
	return &IO{
		Inputs: Inputs{
			IN0:  0x1F,
			IN1:  0xFF,
			IN2:  0xFF,
			IN3:  0xFF,
			DSW2: 0xFF,
			DSW3: 0xFF,
		},
	}
}

// Reset returns the selector to port 0. Input vectors are externally
// owned and keep their values.
func (io *IO) Reset() {
	io.currentPort = 0
}

// Select decodes a port-select write. Exactly six codes are mapped; any
// other value is ignored and the previous selection stays active.
func (io *IO) Select(code uint8) {
	switch code {
	case 0x01:
		io.currentPort = portIN0
	case 0x02:
		io.currentPort = portIN1
	case 0x04:
		io.currentPort = portIN2
	case 0x08:
		io.currentPort = portIN3
	case 0x80:
		io.currentPort = portDSWA
	case 0x40:
		io.currentPort = portDSWB
	}
}

// Read returns the byte of the currently selected input group.
func (io *IO) Read() uint8 {
	switch io.currentPort {
	case portIN0:
		return io.Inputs.IN0
	case portIN1:
		return io.Inputs.IN1
	case portIN2:
		return io.Inputs.IN2
	case portIN3:
		return io.Inputs.IN3
	case portDSWA:
		return io.Inputs.DSWA
	default:
		return io.Inputs.DSWB
	}
}

// CurrentPort returns the selector latch value.
func (io *IO) CurrentPort() uint8 {
	return io.currentPort
}

// CoinLine drives the coin counter from the I/O adapter's CB2 output.
// The counter input is the inverted line level; the count advances on
// the counter's rising edge.
func (io *IO) CoinLine(e Edge) {
	level := !e.Cur
	if level && !io.coinLevel {
		io.coinCount++
	}
	io.coinLevel = level
}

// CoinCount returns the bookkeeping coin counter.
func (io *IO) CoinCount() int {
	return io.coinCount
}

// FlipScreen reports the screen-flip dip setting for the presentation
// layer.
func (io *IO) FlipScreen() bool {
	return io.Inputs.DSWB&dswbFlipScreen == 0
}

// Upright reports the cabinet-orientation dip setting.
func (io *IO) Upright() bool {
	return io.Inputs.DSWB&dswbUpright != 0
}

// Frontend button bit assignments beyond the directional bits defined by
// emucore (0-3).
const (
	buttonB1    = 4
	buttonB2    = 5
	buttonB3    = 6
	buttonB4    = 7
	buttonStart = 8
	buttonCoin  = 9
)

// SetInput unpacks a frontend button bitmask into the player's switch
// matrix and the shared coin-door and start vectors. Player 0 maps to
// IN2/START1/COIN1, player 1 to IN3/START2/COIN2.
func (io *IO) SetInput(player int, buttons uint32) {
	matrix := uint8(0xFF) // active low
	if buttons&(1<<emucore.ButtonUp) != 0 {
		matrix &^= 0x80
	}
	if buttons&(1<<emucore.ButtonDown) != 0 {
		matrix &^= 0x20
	}
	if buttons&(1<<emucore.ButtonRight) != 0 {
		matrix &^= 0x40
	}
	if buttons&(1<<emucore.ButtonLeft) != 0 {
		matrix &^= 0x10
	}
	if buttons&(1<<buttonB1) != 0 {
		matrix &^= 0x08
	}
	if buttons&(1<<buttonB2) != 0 {
		matrix &^= 0x02
	}
	if buttons&(1<<buttonB3) != 0 {
		matrix &^= 0x04
	}
	if buttons&(1<<buttonB4) != 0 {
		matrix &^= 0x01
	}

	start := buttons&(1<<buttonStart) != 0
	coin := buttons&(1<<buttonCoin) != 0

	switch player {
	case 0:
		io.Inputs.IN2 = matrix
		io.setBit(&io.Inputs.IN1, 0x80, !start) // active low
		io.setBit(&io.Inputs.IN0, 0x80, coin)   // active high
	case 1:
		io.Inputs.IN3 = matrix
		io.setBit(&io.Inputs.IN1, 0x20, !start)
		io.setBit(&io.Inputs.IN0, 0x40, coin)
	}
}

func (io *IO) setBit(reg *uint8, bit uint8, set bool) {
	if set {
		*reg |= bit
	} else {
		*reg &^= bit
	}
}
