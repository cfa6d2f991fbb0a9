package emu

import "time"

// AudioState describes where the audio board is in the command
// handshake.
type AudioState int

const (
	// AudioHalted: the audio CPU is held in reset and cannot observe
	// anything. Commands written now are latched but go unseen.
	AudioHalted AudioState = iota
	// AudioAwaitingAck: a command (or a fresh reset release) is pending
	// and the audio program has not yet picked it up.
	AudioAwaitingAck
	// AudioIdle: the audio program has acknowledged the last command
	// and is waiting for the next one.
	AudioIdle
)

// audioResetQuantum is the fine interleave granularity requested around
// a reset release, so the audio program's first port read is observed
// promptly.
const audioResetQuantum = 10 * time.Microsecond

// AudioChannel is the one-way command path from the main program to the
// audio board: a 7-bit command latched into the low bits of the RIOT's
// port A, a trigger level on bit 7, and a reset line that holds the
// whole board. The response latch runs the other way, from the RIOT's
// port B back to the main program.
type AudioChannel struct {
	riot *RIOT

	state        AudioState
	halted       bool
	pendingReset bool
	response     uint8

	// Tighten is called on reset release to request fine interleaving
	// for a short window.
	Tighten func(quantum, window time.Duration)
	// OnReset is called when the reset line is released, before the
	// RIOT is cleared.
	OnReset func()
}

// NewAudioChannel creates the command channel over the given RIOT. The
// channel claims the RIOT's port callbacks.
func NewAudioChannel(riot *RIOT) *AudioChannel {
	ch := &AudioChannel{riot: riot, state: AudioHalted, halted: true}
	riot.WritePB = ch.writeResponse
	riot.OnPARead = ch.portARead
	return ch
}

// Reset returns the channel to power-on state: audio board held.
func (ch *AudioChannel) Reset() {
	ch.state = AudioHalted
	ch.halted = true
	ch.pendingReset = false
	ch.response = 0
}

// WriteCommand latches a 7-bit command into the RIOT's port A input.
// The trigger bit is left alone.
func (ch *AudioChannel) WriteCommand(b uint8) {
	ch.riot.PortAInSet(b, 0x7F)
}

// WriteTrigger drives the trigger line into the RIOT's port A bit 7.
// Raising it while the audio board is running marks a command pending.
func (ch *AudioChannel) WriteTrigger(e Edge) {
	var b uint8
	if e.Cur {
		b = 0x80
	}
	ch.riot.PortAInSet(b, 0x80)
	if e.Cur && !ch.halted && ch.state == AudioIdle {
		ch.state = AudioAwaitingAck
	}
}

// WriteReset drives the audio board's reset line. Low holds the board;
// the rising release resets the RIOT and requests fine interleaving so
// the board's startup handshake is seen on time.
func (ch *AudioChannel) WriteReset(e Edge) {
	if e.Falling() {
		ch.halted = true
		ch.state = AudioHalted
		return
	}
	if e.Rising() {
		ch.halted = false
		ch.pendingReset = true
		ch.state = AudioAwaitingAck
		if ch.OnReset != nil {
			ch.OnReset()
		}
		ch.riot.Reset()
		if ch.Tighten != nil {
			ch.Tighten(audioResetQuantum, 2*audioResetQuantum)
		}
	}
}

// Halted reports whether the audio board is held in reset.
func (ch *AudioChannel) Halted() bool {
	return ch.halted
}

// ConsumePendingReset returns true once after each reset release; the
// scheduler uses it to reset the audio CPU before its next burst.
func (ch *AudioChannel) ConsumePendingReset() bool {
	if !ch.pendingReset {
		return false
	}
	ch.pendingReset = false
	return true
}

// State returns the channel's handshake state.
func (ch *AudioChannel) State() AudioState {
	return ch.state
}

// Response returns the last byte the audio program posted back.
func (ch *AudioChannel) Response() uint8 {
	return ch.response
}

// portARead observes the audio program reading its command port. A read
// with the trigger bit set is the acknowledgment that completes the
// handshake.
func (ch *AudioChannel) portARead(val uint8) {
	if ch.halted {
		return
	}
	if val&0x80 != 0 && ch.state == AudioAwaitingAck {
		ch.state = AudioIdle
	}
}

// writeResponse latches the audio program's port B output for the main
// program to read back.
func (ch *AudioChannel) writeResponse(b uint8) {
	ch.response = b
}
