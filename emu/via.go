package emu

// Edge is a control-line transition carrying both the previous and the
// new level. Handlers derive rising/falling from the pair instead of
// trusting the caller to have filtered non-edges.
type Edge struct {
	Prev bool
	Cur  bool
}

// Rising reports a low-to-high transition.
func (e Edge) Rising() bool { return !e.Prev && e.Cur }

// Falling reports a high-to-low transition.
func (e Edge) Falling() bool { return e.Prev && !e.Cur }

// VIA register offsets (addr & 0x0F).
const (
	viaORB  = 0x0 // port B data
	viaORA  = 0x1 // port A data (with handshake)
	viaDDRB = 0x2
	viaDDRA = 0x3
	viaT1CL = 0x4
	viaT1CH = 0x5
	viaT1LL = 0x6
	viaT1LH = 0x7
	viaT2CL = 0x8
	viaT2CH = 0x9
	viaSR   = 0xA
	viaACR  = 0xB
	viaPCR  = 0xC
	viaIFR  = 0xD
	viaIER  = 0xE
	viaORAN = 0xF // port A data, no handshake
)

// IFR/IER bit assignments.
const (
	viaIntCA2 = 0x01
	viaIntCA1 = 0x02
	viaIntSR  = 0x04
	viaIntCB2 = 0x08
	viaIntCB1 = 0x10
	viaIntT2  = 0x20
	viaIntT1  = 0x40
	viaIntAny = 0x80
)

// PCR CA2/CB2 control modes (3 bits).
const (
	viaCtlInNegEdge    = 0 // input, negative edge
	viaCtlInNegEdgeInd = 1 // input, negative edge, independent
	viaCtlInPosEdge    = 2 // input, positive edge
	viaCtlInPosEdgeInd = 3 // input, positive edge, independent
	viaCtlOutHandshake = 4 // output, handshake
	viaCtlOutPulse     = 5 // output, pulse on port access
	viaCtlOutLow       = 6 // output, manual low
	viaCtlOutHigh      = 7 // output, manual high
)

// VIA models a MOS 6522 peripheral adapter: two 8-bit ports with data
// direction registers, four control lines and two interval timers. The
// coordination fabric depends only on the handler surface; the register
// model exists so the CPU-visible bus windows behave like the chip.
type VIA struct {
	// Port handlers bound at machine setup. Nil handlers read as 0xFF
	// (floating bus) and discard writes.
	ReadPA  func() uint8
	ReadPB  func() uint8
	WritePA func(v uint8)
	WritePB func(v uint8)

	// Control line output handlers, invoked with the full transition.
	OnCA2 func(e Edge)
	OnCB2 func(e Edge)

	// IRQ output handler, invoked on level change only.
	IRQ func(asserted bool)

	ora, orb   uint8
	ddra, ddrb uint8
	pcr, acr   uint8
	sr         uint8
	ifr, ier   uint8

	t1Counter uint16
	t1Latch   uint16
	t1Running bool
	t2Counter uint16
	t2Latch   uint8
	t2Running bool

	ca1, ca2 bool // current line levels
	cb1, cb2 bool
}

// NewVIA returns a VIA in its post-reset state.
func NewVIA() *VIA {
	v := &VIA{}
	v.Reset()
	return v
}

// Reset puts the chip into its hardware reset state. Control lines go
// high (inputs, pulled up), all registers clear.
func (v *VIA) Reset() {
	irqWas := v.irqAsserted()
	v.ora, v.orb = 0, 0
	v.ddra, v.ddrb = 0, 0
	v.pcr, v.acr, v.sr = 0, 0, 0
	v.ifr, v.ier = 0, 0
	v.t1Running, v.t2Running = false, false
	v.setCA2Out(true)
	v.setCB2Out(true)
	v.ca1, v.cb1 = true, true
	v.updateIRQ(irqWas)
}

// Read reads a register. addr is masked to the 16-register window by
// the caller.
func (v *VIA) Read(addr uint16) uint8 {
	switch addr & 0x0F {
	case viaORB:
		v.clearIFR(viaIntCB1 | viaIntCB2)
		return v.portBValue()
	case viaORA:
		v.clearIFR(viaIntCA1 | viaIntCA2)
		v.portAAccess()
		return v.portAValue()
	case viaDDRB:
		return v.ddrb
	case viaDDRA:
		return v.ddra
	case viaT1CL:
		v.clearIFR(viaIntT1)
		return uint8(v.t1Counter)
	case viaT1CH:
		return uint8(v.t1Counter >> 8)
	case viaT1LL:
		return uint8(v.t1Latch)
	case viaT1LH:
		return uint8(v.t1Latch >> 8)
	case viaT2CL:
		v.clearIFR(viaIntT2)
		return uint8(v.t2Counter)
	case viaT2CH:
		return uint8(v.t2Counter >> 8)
	case viaSR:
		v.clearIFR(viaIntSR)
		return v.sr
	case viaACR:
		return v.acr
	case viaPCR:
		return v.pcr
	case viaIFR:
		out := v.ifr
		if v.irqAsserted() {
			out |= viaIntAny
		}
		return out
	case viaIER:
		return v.ier | 0x80
	default: // viaORAN
		return v.portAValue()
	}
}

// Write writes a register.
func (v *VIA) Write(addr uint16, val uint8) {
	switch addr & 0x0F {
	case viaORB:
		v.orb = val
		v.clearIFR(viaIntCB1 | viaIntCB2)
		if v.WritePB != nil {
			v.WritePB(v.portBValue())
		}
	case viaORA:
		v.ora = val
		v.clearIFR(viaIntCA1 | viaIntCA2)
		if v.WritePA != nil {
			v.WritePA(v.portAValue())
		}
		v.portAAccess()
	case viaDDRB:
		v.ddrb = val
	case viaDDRA:
		v.ddra = val
	case viaT1CL, viaT1LL:
		v.t1Latch = v.t1Latch&0xFF00 | uint16(val)
	case viaT1CH:
		v.t1Latch = uint16(val)<<8 | v.t1Latch&0x00FF
		v.t1Counter = v.t1Latch
		v.t1Running = true
		v.clearIFR(viaIntT1)
	case viaT1LH:
		v.t1Latch = uint16(val)<<8 | v.t1Latch&0x00FF
		v.clearIFR(viaIntT1)
	case viaT2CL:
		v.t2Latch = val
	case viaT2CH:
		v.t2Counter = uint16(val)<<8 | uint16(v.t2Latch)
		v.t2Running = true
		v.clearIFR(viaIntT2)
	case viaSR:
		v.sr = val
		v.clearIFR(viaIntSR)
	case viaACR:
		v.acr = val
	case viaPCR:
		v.writePCR(val)
	case viaIFR:
		v.clearIFR(val & 0x7F)
	case viaIER:
		irqWas := v.irqAsserted()
		if val&0x80 != 0 {
			v.ier |= val & 0x7F
		} else {
			v.ier &^= val & 0x7F
		}
		v.updateIRQ(irqWas)
	default: // viaORAN
		v.ora = val
		if v.WritePA != nil {
			v.WritePA(v.portAValue())
		}
	}
}

// SetCA1 drives the CA1 input line. The active transition (per PCR bit 0)
// raises the CA1 interrupt flag and completes a CA2 handshake.
func (v *VIA) SetCA1(level bool) {
	e := Edge{Prev: v.ca1, Cur: level}
	v.ca1 = level
	active := e.Rising()
	if v.pcr&0x01 == 0 {
		active = e.Falling()
	}
	if !active {
		return
	}
	v.raiseIFR(viaIntCA1)
	if v.ca2Mode() == viaCtlOutHandshake {
		v.setCA2Out(true)
	}
}

// SetCA2 drives the CA2 line when it is configured as an input.
func (v *VIA) SetCA2(level bool) {
	if v.ca2Mode() >= viaCtlOutHandshake {
		return
	}
	e := Edge{Prev: v.ca2, Cur: level}
	v.ca2 = level
	if v.ca2Mode() >= viaCtlInPosEdge {
		if e.Rising() {
			v.raiseIFR(viaIntCA2)
		}
	} else if e.Falling() {
		v.raiseIFR(viaIntCA2)
	}
}

// SetCB1 drives the CB1 input line.
func (v *VIA) SetCB1(level bool) {
	e := Edge{Prev: v.cb1, Cur: level}
	v.cb1 = level
	active := e.Rising()
	if v.pcr&0x10 == 0 {
		active = e.Falling()
	}
	if active {
		v.raiseIFR(viaIntCB1)
	}
}

// Tick advances both timers by the given number of CPU cycles.
func (v *VIA) Tick(cycles int) {
	for ; cycles > 0; cycles-- {
		if v.t1Running {
			v.t1Counter--
			if v.t1Counter == 0xFFFF {
				v.raiseIFR(viaIntT1)
				if v.acr&0x40 != 0 {
					v.t1Counter = v.t1Latch // free-run reload
				} else {
					v.t1Running = false
				}
			}
		}
		if v.t2Running && v.acr&0x20 == 0 {
			v.t2Counter--
			if v.t2Counter == 0xFFFF {
				v.raiseIFR(viaIntT2)
				v.t2Running = false
			}
		}
	}
}

// IFR returns the interrupt flag register including the summary bit.
func (v *VIA) IFR() uint8 {
	out := v.ifr
	if v.irqAsserted() {
		out |= viaIntAny
	}
	return out
}

// portAValue combines driven output bits with handler-supplied input bits.
func (v *VIA) portAValue() uint8 {
	in := uint8(0xFF)
	if v.ReadPA != nil {
		in = v.ReadPA()
	}
	return v.ora&v.ddra | in&^v.ddra
}

func (v *VIA) portBValue() uint8 {
	in := uint8(0xFF)
	if v.ReadPB != nil {
		in = v.ReadPB()
	}
	return v.orb&v.ddrb | in&^v.ddrb
}

func (v *VIA) ca2Mode() uint8 { return v.pcr >> 1 & 0x07 }
func (v *VIA) cb2Mode() uint8 { return v.pcr >> 5 & 0x07 }

// writePCR applies a control-register write. Manual output modes drive
// the CA2/CB2 lines immediately, which is how the main program strobes
// the video trigger, audio trigger and audio reset lines.
func (v *VIA) writePCR(val uint8) {
	v.pcr = val
	switch v.ca2Mode() {
	case viaCtlOutLow:
		v.setCA2Out(false)
	case viaCtlOutHigh, viaCtlOutHandshake, viaCtlOutPulse:
		v.setCA2Out(true)
	}
	switch v.cb2Mode() {
	case viaCtlOutLow:
		v.setCB2Out(false)
	case viaCtlOutHigh, viaCtlOutHandshake, viaCtlOutPulse:
		v.setCB2Out(true)
	}
}

// portAAccess completes CA2 handshake/pulse behavior on an ORA access.
func (v *VIA) portAAccess() {
	switch v.ca2Mode() {
	case viaCtlOutHandshake:
		v.setCA2Out(false)
	case viaCtlOutPulse:
		v.setCA2Out(false)
		v.setCA2Out(true)
	}
}

// setCA2Out drives the CA2 output and reports the transition.
func (v *VIA) setCA2Out(level bool) {
	e := Edge{Prev: v.ca2, Cur: level}
	v.ca2 = level
	if (e.Rising() || e.Falling()) && v.OnCA2 != nil {
		v.OnCA2(e)
	}
}

func (v *VIA) setCB2Out(level bool) {
	e := Edge{Prev: v.cb2, Cur: level}
	v.cb2 = level
	if (e.Rising() || e.Falling()) && v.OnCB2 != nil {
		v.OnCB2(e)
	}
}

func (v *VIA) raiseIFR(bits uint8) {
	irqWas := v.irqAsserted()
	v.ifr |= bits
	v.updateIRQ(irqWas)
}

func (v *VIA) clearIFR(bits uint8) {
	irqWas := v.irqAsserted()
	v.ifr &^= bits
	v.updateIRQ(irqWas)
}

func (v *VIA) irqAsserted() bool {
	return v.ifr&v.ier&0x7F != 0
}

func (v *VIA) updateIRQ(was bool) {
	now := v.irqAsserted()
	if now != was && v.IRQ != nil {
		v.IRQ(now)
	}
}
