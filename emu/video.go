package emu

// DrawEngine is the external drawing engine behind the command channel.
// Exec is invoked once per active trigger edge with the channel itself;
// the engine reads the latched pair through the accessors and may update
// the beam position. Instruction-level drawing is outside this package.
type DrawEngine interface {
	Exec(ch *VideoChannel)
}

// ReadBackEngine is implemented by engines on Tong boards, where the
// main program reads pixel data back through the command port.
type ReadBackEngine interface {
	ReadBack() uint8
}

// FramebufferEngine is implemented by engines that render to a pixel
// buffer the frontend can display.
type FramebufferEngine interface {
	Framebuffer() []byte
	Stride() int
}

// nopEngine discards commands; used when no engine is attached.
type nopEngine struct{}

func (nopEngine) Exec(ch *VideoChannel) {}

// VideoChannel is the command channel between the main processor and the
// drawing engine: an operand latch, an opcode latch, and an edge-triggered
// ready line. The previous opcode is retained across deliveries so the
// engine can tell a new command from a re-latch of the same byte.
type VideoChannel struct {
	engine DrawEngine

	x, y     uint8
	command  uint8
	data     uint8
	previous uint8
}

// NewVideoChannel creates a channel bound to the given engine. A nil
// engine leaves commands latched but undelivered.
func NewVideoChannel(engine DrawEngine) *VideoChannel {
	if engine == nil {
		engine = nopEngine{}
	}
	return &VideoChannel{engine: engine}
}

// Engine returns the bound drawing engine.
func (ch *VideoChannel) Engine() DrawEngine {
	return ch.engine
}

// Reset clears all latches.
func (ch *VideoChannel) Reset() {
	ch.x, ch.y = 0, 0
	ch.command, ch.data, ch.previous = 0, 0, 0
}

// WriteData latches an operand byte. The engine interprets it as an X or
// Y coordinate or a payload byte depending on its current mode.
func (ch *VideoChannel) WriteData(v uint8) {
	ch.data = v
}

// WriteCommand latches an opcode byte.
func (ch *VideoChannel) WriteCommand(v uint8) {
	ch.command = v
}

// Trigger delivers the latched (command, data) pair to the engine on the
// rising transition of the ready line. Non-edges and falling transitions
// deliver nothing; re-asserting the same level never re-delivers. After
// the engine returns, the opcode becomes the channel's previous value.
func (ch *VideoChannel) Trigger(e Edge) {
	if !e.Rising() {
		return
	}
	ch.engine.Exec(ch)
	ch.previous = ch.command
}

// ReadBack returns the engine's read port value on Tong boards. Engines
// without read-back float the bus high.
func (ch *VideoChannel) ReadBack() uint8 {
	if rb, ok := ch.engine.(ReadBackEngine); ok {
		return rb.ReadBack()
	}
	return 0xFF
}

// Command returns the latched opcode.
func (ch *VideoChannel) Command() uint8 { return ch.command }

// Data returns the latched operand.
func (ch *VideoChannel) Data() uint8 { return ch.data }

// Previous returns the opcode delivered before the current one.
func (ch *VideoChannel) Previous() uint8 { return ch.previous }

// SetPrevious overrides the previous-opcode latch. Normal delivery
// updates it automatically; save-state restore and engines with special
// repeat semantics use this directly.
func (ch *VideoChannel) SetPrevious(v uint8) { ch.previous = v }

// X returns the engine beam X position.
func (ch *VideoChannel) X() uint8 { return ch.x }

// Y returns the engine beam Y position.
func (ch *VideoChannel) Y() uint8 { return ch.y }

// SetX updates the engine beam X position.
func (ch *VideoChannel) SetX(v uint8) { ch.x = v }

// SetY updates the engine beam Y position.
func (ch *VideoChannel) SetY(v uint8) { ch.y = v }
