package emu

import (
	"testing"
	"time"
)

func TestAudioChannel_PartialWrites_DisjointBitRanges(t *testing.T) {
	riot := NewRIOT()
	ch := NewAudioChannel(riot)

	ch.WriteCommand(0xD5) // bit 7 of the value must be masked off
	ch.WriteTrigger(Edge{Prev: true, Cur: false})
	if got := riot.PortAIn(); got != 0x55 {
		t.Errorf("expected latch 0x55 (command only, trigger low), got 0x%02X", got)
	}

	ch.WriteTrigger(Edge{Prev: false, Cur: true})
	if got := riot.PortAIn(); got != 0xD5 {
		t.Errorf("expected latch 0xD5 with trigger high, got 0x%02X", got)
	}

	// Rewriting the command leaves the trigger bit alone.
	ch.WriteCommand(0x2A)
	if got := riot.PortAIn(); got != 0xAA {
		t.Errorf("expected latch 0xAA, got 0x%02X", got)
	}
}

func TestAudioChannel_ResetRelease_TightensBeforeAnythingRuns(t *testing.T) {
	riot := NewRIOT()
	ch := NewAudioChannel(riot)

	var tightened bool
	ch.Tighten = func(quantum, window time.Duration) {
		tightened = true
		if quantum != 10*time.Microsecond {
			t.Errorf("expected 10us quantum, got %v", quantum)
		}
	}

	ch.WriteReset(Edge{Prev: false, Cur: true})
	if !tightened {
		t.Error("expected tighten request on reset release")
	}
	if ch.Halted() {
		t.Error("expected audio board running after release")
	}
	if !ch.ConsumePendingReset() {
		t.Error("expected pending CPU reset after release")
	}
	if ch.ConsumePendingReset() {
		t.Error("expected pending reset consumed only once")
	}
	if ch.State() != AudioAwaitingAck {
		t.Errorf("expected AwaitingAck after release, got %v", ch.State())
	}
}

func TestAudioChannel_ResetAssert_ForcesHaltedFromAnyState(t *testing.T) {
	riot := NewRIOT()
	ch := NewAudioChannel(riot)
	ch.Tighten = func(time.Duration, time.Duration) {}

	ch.WriteReset(Edge{Prev: false, Cur: true})
	ch.WriteTrigger(Edge{Prev: false, Cur: true})
	riot.Read(0x00) // program acknowledges
	if ch.State() != AudioIdle {
		t.Fatalf("expected Idle after acknowledgment, got %v", ch.State())
	}

	ch.WriteReset(Edge{Prev: true, Cur: false})
	if ch.State() != AudioHalted {
		t.Errorf("expected Halted after reset assert, got %v", ch.State())
	}
	if !ch.Halted() {
		t.Error("expected board held")
	}
}

func TestAudioChannel_HandshakeLoop(t *testing.T) {
	riot := NewRIOT()
	ch := NewAudioChannel(riot)
	ch.Tighten = func(time.Duration, time.Duration) {}

	ch.WriteReset(Edge{Prev: false, Cur: true})
	ch.ConsumePendingReset()

	// Startup: the program's first read with the trigger bit set is the
	// acknowledgment. The trigger line idles high.
	ch.WriteTrigger(Edge{Prev: false, Cur: true})
	riot.Read(0x00)
	if ch.State() != AudioIdle {
		t.Fatalf("expected Idle after startup ack, got %v", ch.State())
	}

	// Command delivery: latch the byte, pulse the trigger.
	ch.WriteCommand(0x19)
	ch.WriteTrigger(Edge{Prev: true, Cur: false})
	ch.WriteTrigger(Edge{Prev: false, Cur: true})
	if ch.State() != AudioAwaitingAck {
		t.Fatalf("expected AwaitingAck after command+trigger, got %v", ch.State())
	}

	got := riot.PortAIn()
	if got != 0x99 {
		t.Errorf("expected program to see 0x99, got 0x%02X", got)
	}
	riot.Read(0x00)
	if ch.State() != AudioIdle {
		t.Errorf("expected Idle after command ack, got %v", ch.State())
	}
}

func TestAudioChannel_CommandLatchedWhileHeldSurvivesRelease(t *testing.T) {
	riot := NewRIOT()
	ch := NewAudioChannel(riot)
	ch.Tighten = func(time.Duration, time.Duration) {}

	// The main program may load the latch before letting the board run.
	// The pins are driven from outside the chip, so releasing the reset
	// line must not wipe them.
	ch.WriteCommand(0x19)
	ch.WriteTrigger(Edge{Prev: true, Cur: false})
	ch.WriteReset(Edge{Prev: false, Cur: true})

	if got := riot.PortAIn() & 0x7F; got != 0x19 {
		t.Errorf("expected command 0x19 to survive reset release, got 0x%02X", got)
	}
	if ch.State() != AudioAwaitingAck {
		t.Errorf("expected AwaitingAck after release, got %v", ch.State())
	}
}

func TestAudioChannel_ReadsWhileHaltedDoNotAck(t *testing.T) {
	riot := NewRIOT()
	ch := NewAudioChannel(riot)

	ch.WriteTrigger(Edge{Prev: false, Cur: true})
	riot.Read(0x00)
	if ch.State() != AudioHalted {
		t.Errorf("expected Halted regardless of reads while held, got %v", ch.State())
	}
}

func TestAudioChannel_ResponseLatch(t *testing.T) {
	riot := NewRIOT()
	ch := NewAudioChannel(riot)

	riot.Write(0x03, 0xFF) // DDRB all outputs
	riot.Write(0x02, 0x66)
	if got := ch.Response(); got != 0x66 {
		t.Errorf("expected response latch 0x66, got 0x%02X", got)
	}
}
