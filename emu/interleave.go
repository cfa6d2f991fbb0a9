package emu

import "time"

// tightenWindow is one active tightening request: a quantum in main-CPU
// cycles and the cycle at which the request expires.
type tightenWindow struct {
	quantum int
	until   uint64
}

// Interleaver controls how often control passes between the two
// processors. The default granularity is one scanline; a handshake that
// must be observed within the hardware's timing window requests a
// temporary, much finer granularity. Overlapping requests compose by
// taking the tightest bound and expire independently. The interleaver
// only changes when each processor runs, never what it computes.
type Interleaver struct {
	clockHz        int
	defaultQuantum int
	windows        []tightenWindow
}

// NewInterleaver creates an interleaver for a main CPU of the given
// clock with the given default burst length in cycles.
func NewInterleaver(clockHz, defaultQuantum int) *Interleaver {
	return &Interleaver{
		clockHz:        clockHz,
		defaultQuantum: defaultQuantum,
	}
}

// Reset drops all pending tightening requests.
func (s *Interleaver) Reset() {
	s.windows = s.windows[:0]
}

// Tighten requests that, starting at the current cycle, the processors
// hand off at least once per quantum of emulated time, for the given
// window. Duplicate and overlapping requests are harmless.
func (s *Interleaver) Tighten(now uint64, quantum, window time.Duration) {
	q := s.cycles(quantum)
	if q < 1 {
		q = 1
	}
	s.windows = append(s.windows, tightenWindow{
		quantum: q,
		until:   now + uint64(s.cycles(window)),
	})
}

// Quantum returns the burst length in main-CPU cycles that applies at
// the given cycle: the tightest of all live requests, or the default.
// Expired requests are pruned.
func (s *Interleaver) Quantum(now uint64) int {
	q := s.defaultQuantum
	live := s.windows[:0]
	for _, w := range s.windows {
		if w.until <= now {
			continue
		}
		live = append(live, w)
		if w.quantum < q {
			q = w.quantum
		}
	}
	s.windows = live
	return q
}

// Active reports whether any tightening request is live at the given
// cycle.
func (s *Interleaver) Active(now uint64) bool {
	for _, w := range s.windows {
		if w.until > now {
			return true
		}
	}
	return false
}

// cycles converts an emulated-time duration to main-CPU cycles.
func (s *Interleaver) cycles(d time.Duration) int {
	return int(d.Nanoseconds() * int64(s.clockHz) / int64(time.Second))
}
