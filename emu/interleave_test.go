package emu

import (
	"testing"
	"time"
)

const testClockHz = 894886

func TestInterleaver_DefaultQuantum(t *testing.T) {
	s := NewInterleaver(testClockHz, 54)
	if got := s.Quantum(0); got != 54 {
		t.Errorf("expected default quantum 54, got %d", got)
	}
}

func TestInterleaver_TightenAndExpire(t *testing.T) {
	s := NewInterleaver(testClockHz, 54)

	// 10us at ~895kHz is ~9 cycles.
	s.Tighten(100, 10*time.Microsecond, 100*time.Microsecond)

	q := s.Quantum(100)
	if q < 1 || q > 9 {
		t.Errorf("expected tightened quantum of at most 9 cycles, got %d", q)
	}

	until := uint64(100 + s.cycles(100*time.Microsecond))
	if got := s.Quantum(until); got != 54 {
		t.Errorf("expected default quantum after expiry, got %d", got)
	}
}

func TestInterleaver_OverlappingRequests_TightestWins(t *testing.T) {
	s := NewInterleaver(testClockHz, 54)

	s.Tighten(0, 30*time.Microsecond, 200*time.Microsecond)
	s.Tighten(0, 10*time.Microsecond, 50*time.Microsecond)

	first := s.Quantum(0)
	coarse := s.cycles(30 * time.Microsecond)
	fine := s.cycles(10 * time.Microsecond)
	if first != fine {
		t.Errorf("expected tightest quantum %d while both live, got %d", fine, first)
	}

	// After the fine request expires the coarse one still applies.
	mid := uint64(s.cycles(100 * time.Microsecond))
	if got := s.Quantum(mid); got != coarse {
		t.Errorf("expected quantum %d after fine request expired, got %d", coarse, got)
	}

	// After both expire the default returns.
	late := uint64(s.cycles(300 * time.Microsecond))
	if got := s.Quantum(late); got != 54 {
		t.Errorf("expected default quantum after both expired, got %d", got)
	}
}

func TestInterleaver_QuantumNeverBelowOne(t *testing.T) {
	s := NewInterleaver(testClockHz, 54)
	s.Tighten(0, time.Nanosecond, time.Millisecond)
	if got := s.Quantum(0); got != 1 {
		t.Errorf("expected minimum quantum 1, got %d", got)
	}
}

func TestInterleaver_Reset_DropsRequests(t *testing.T) {
	s := NewInterleaver(testClockHz, 54)
	s.Tighten(0, 10*time.Microsecond, time.Second)
	s.Reset()
	if got := s.Quantum(0); got != 54 {
		t.Errorf("expected default quantum after reset, got %d", got)
	}
}

func TestInterleaver_Active(t *testing.T) {
	s := NewInterleaver(testClockHz, 54)
	if s.Active(0) {
		t.Error("expected no live requests initially")
	}
	s.Tighten(0, 10*time.Microsecond, 100*time.Microsecond)
	if !s.Active(0) {
		t.Error("expected live request after tighten")
	}
	if s.Active(uint64(s.cycles(200 * time.Microsecond))) {
		t.Error("expected request expired at a later cycle")
	}
}
