package emu

// RIOT interrupt flag bits.
const (
	riotIntTimer = 0x80
	riotIntPA7   = 0x40
)

// riotPrescales maps the two timer-select address bits to divider values.
var riotPrescales = [4]int{1, 8, 64, 1024}

// RIOT models a MOS 6532 (RAM-I/O-Timer) without its internal RAM, which
// the audio bus maps as an ordinary mirrored window. The chip bridges the
// audio processor to the command latch: port A carries the incoming
// command+trigger byte, port B carries the response byte back out.
type RIOT struct {
	// WritePB is invoked when the audio program drives port B.
	WritePB func(v uint8)
	// OnPARead observes port A reads with the value seen by the audio
	// program. The audio command channel uses it for trigger
	// acknowledgement detection.
	OnPARead func(v uint8)
	// IRQ is the interrupt output, invoked on level change only.
	IRQ func(asserted bool)

	dra, ddra uint8
	drb, ddrb uint8
	paIn      uint8 // externally driven port A input pins

	timer       uint8
	prescale    int
	prescaleCtr int
	timerIRQOn  bool
	expired     bool // timer has underflowed; counting at /1

	pa7IRQOn   bool
	pa7PosEdge bool
	pa7Last    bool

	flags uint8
}

// NewRIOT returns a RIOT in its post-reset state with the port A input
// pins floating high.
func NewRIOT() *RIOT {
	r := &RIOT{paIn: 0xFF}
	r.Reset()
	return r
}

// Reset puts the chip into its hardware reset state. The port A input
// pins are driven from outside the chip (the command latch on this
// board), so their level survives; only the edge-detect baseline is
// re-taken.
func (r *RIOT) Reset() {
	irqWas := r.irqAsserted()
	r.dra, r.ddra = 0, 0
	r.drb, r.ddrb = 0, 0
	r.timer = 0xFF
	r.prescale = 1024
	r.prescaleCtr = 0
	r.timerIRQOn = false
	r.expired = false
	r.pa7IRQOn = false
	r.pa7PosEdge = false
	r.pa7Last = r.paIn&0x80 != 0
	r.flags = 0
	r.updateIRQ(irqWas)
}

// PortAInSet drives a subset of the port A input pins. Only the bits in
// mask are affected; the rest keep their previous level. This is how the
// main processor's two partial writes (7-bit command, 1-bit trigger)
// target disjoint ranges of the same register.
func (r *RIOT) PortAInSet(data, mask uint8) {
	r.paIn = r.paIn&^mask | data&mask
	r.checkPA7Edge()
}

// PortAIn returns the current externally driven port A input pins.
func (r *RIOT) PortAIn() uint8 {
	return r.paIn
}

// Read reads a register. addr is masked to the 32-register window by the
// caller.
func (r *RIOT) Read(addr uint16) uint8 {
	addr &= 0x1F
	if addr&0x04 == 0 {
		switch addr & 0x03 {
		case 0x00:
			v := r.portAValue()
			if r.OnPARead != nil {
				r.OnPARead(v)
			}
			return v
		case 0x01:
			return r.ddra
		case 0x02:
			return r.drb&r.ddrb | 0xFF&^r.ddrb
		default:
			return r.ddrb
		}
	}
	if addr&0x01 == 0 {
		// Timer read: A3 selects whether underflow raises IRQ from now on.
		r.timerIRQOn = addr&0x08 != 0
		r.clearFlags(riotIntTimer)
		return r.timer
	}
	// Interrupt flag read clears the PA7 flag.
	out := r.flags
	r.clearFlags(riotIntPA7)
	return out
}

// Write writes a register.
func (r *RIOT) Write(addr uint16, val uint8) {
	addr &= 0x1F
	if addr&0x04 == 0 {
		switch addr & 0x03 {
		case 0x00:
			r.dra = val
		case 0x01:
			r.ddra = val
		case 0x02:
			r.drb = val
			if r.WritePB != nil {
				r.WritePB(r.drb&r.ddrb | 0xFF&^r.ddrb)
			}
		default:
			r.ddrb = val
		}
		return
	}
	if addr&0x10 != 0 {
		// Timer write: A1..A0 select the prescaler, A3 the IRQ enable.
		r.timer = val
		r.prescale = riotPrescales[addr&0x03]
		r.prescaleCtr = 0
		r.timerIRQOn = addr&0x08 != 0
		r.expired = false
		r.clearFlags(riotIntTimer)
		return
	}
	// Edge detect control: A1 enables the PA7 interrupt, A0 selects the
	// active edge polarity.
	r.pa7IRQOn = addr&0x02 != 0
	r.pa7PosEdge = addr&0x01 != 0
}

// Tick advances the timer by the given number of CPU cycles.
func (r *RIOT) Tick(cycles int) {
	for ; cycles > 0; cycles-- {
		div := r.prescale
		if r.expired {
			div = 1
		}
		r.prescaleCtr++
		if r.prescaleCtr < div {
			continue
		}
		r.prescaleCtr = 0
		r.timer--
		if r.timer == 0xFF && !r.expired {
			// Underflow: flag, then free-run at /1 until rewritten.
			r.expired = true
			r.raiseFlags(riotIntTimer)
		}
	}
}

// Flags returns the interrupt flag register (timer bit 7, PA7 bit 6).
func (r *RIOT) Flags() uint8 {
	return r.flags
}

func (r *RIOT) portAValue() uint8 {
	return r.dra&r.ddra | r.paIn&^r.ddra
}

func (r *RIOT) checkPA7Edge() {
	now := r.paIn&0x80 != 0
	e := Edge{Prev: r.pa7Last, Cur: now}
	r.pa7Last = now
	if r.pa7PosEdge && e.Rising() || !r.pa7PosEdge && e.Falling() {
		r.raiseFlags(riotIntPA7)
	}
}

func (r *RIOT) raiseFlags(bits uint8) {
	irqWas := r.irqAsserted()
	r.flags |= bits
	r.updateIRQ(irqWas)
}

func (r *RIOT) clearFlags(bits uint8) {
	irqWas := r.irqAsserted()
	r.flags &^= bits
	r.updateIRQ(irqWas)
}

func (r *RIOT) irqAsserted() bool {
	return r.flags&riotIntTimer != 0 && r.timerIRQOn ||
		r.flags&riotIntPA7 != 0 && r.pa7IRQOn
}

func (r *RIOT) updateIRQ(was bool) {
	now := r.irqAsserted()
	if now != was && r.IRQ != nil {
		r.IRQ(now)
	}
}
