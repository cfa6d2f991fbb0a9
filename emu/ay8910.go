package emu

// AY8910 is the sound generator on the audio board: three square-wave
// tone channels, one noise channel, a shared envelope generator, and
// two general-purpose I/O ports. The audio program talks to it through
// an address latch and a data register; the I/O ports read the audio
// board's dip-switch banks.
type AY8910 struct {
	clockHz    int
	sampleRate int

	addr uint8
	regs [16]uint8

	// ReadPortA and ReadPortB supply the port values when the port is
	// configured as an input. Unconnected ports read high.
	ReadPortA func() uint8
	ReadPortB func() uint8

	toneCtr    [3]int
	toneOut    [3]bool
	noiseCtr   int
	noiseLFSR  uint32
	envCtr     int
	envStep    int
	envHold    bool
	envAlt     bool
	envAttack  bool
	envHolding bool

	gain       float64
	cycleAcc   int
	sampleAcc  float64
	sampleCnt  int
	sampleFrac float64
	sampleStep float64
	buf        []int16
	bufCount   int
}

// ayVolTable is the chip's logarithmic DAC, normalized to [0,1]. Each
// step is about 3 dB.
var ayVolTable = [16]float64{
	0.0000, 0.0106, 0.0150, 0.0222, 0.0320, 0.0466, 0.0665, 0.1039,
	0.1237, 0.1986, 0.2803, 0.3548, 0.4702, 0.6030, 0.7530, 1.0000,
}

// NewAY8910 creates a sound generator running at the given chip clock,
// producing samples at sampleRate into an internal buffer of
// bufferSize frames.
func NewAY8910(clockHz, sampleRate, bufferSize int) *AY8910 {
	ay := &AY8910{
		clockHz:    clockHz,
		sampleRate: sampleRate,
		gain:       1.0,
		buf:        make([]int16, bufferSize),
	}
	ay.sampleStep = float64(sampleRate) * 8 / float64(clockHz)
	ay.Reset()
	return ay
}

// Reset returns the register file and generators to power-on state.
func (ay *AY8910) Reset() {
	ay.addr = 0
	ay.regs = [16]uint8{}
	ay.regs[7] = 0xFF
	ay.toneCtr = [3]int{}
	ay.toneOut = [3]bool{}
	ay.noiseCtr = 0
	ay.noiseLFSR = 1
	ay.envCtr = 0
	ay.envStep = 0
	ay.envHolding = false
	ay.cycleAcc = 0
	ay.sampleAcc = 0
	ay.sampleCnt = 0
	ay.sampleFrac = 0
	ay.bufCount = 0
}

// SetGain sets the output scale applied when converting to int16.
func (ay *AY8910) SetGain(g float64) {
	ay.gain = g
}

// WriteAddr latches a register address.
func (ay *AY8910) WriteAddr(val uint8) {
	ay.addr = val & 0x0F
}

// WriteData writes the latched register.
func (ay *AY8910) WriteData(val uint8) {
	ay.regs[ay.addr] = val
	if ay.addr == 13 {
		ay.envRestart()
	}
}

// ReadData reads the latched register. Ports configured as inputs read
// through their callbacks.
func (ay *AY8910) ReadData() uint8 {
	switch ay.addr {
	case 14:
		if ay.regs[7]&0x40 == 0 {
			return ay.readPort(ay.ReadPortA)
		}
	case 15:
		if ay.regs[7]&0x80 == 0 {
			return ay.readPort(ay.ReadPortB)
		}
	}
	return ay.regs[ay.addr]
}

// Run advances the generators by the given number of chip clocks and
// accumulates output samples.
func (ay *AY8910) Run(cycles int) {
	ay.cycleAcc += cycles
	// Tone and noise step every 8 chip clocks.
	for ay.cycleAcc >= 8 {
		ay.cycleAcc -= 8
		ay.step()
		ay.sampleAcc += ay.output()
		ay.sampleCnt++
		ay.sampleFrac += ay.sampleStep
		if ay.sampleFrac >= 1 {
			ay.sampleFrac -= 1
			ay.emitSample()
		}
	}
}

// GetBuffer returns the sample buffer and the number of valid frames.
func (ay *AY8910) GetBuffer() ([]int16, int) {
	return ay.buf, ay.bufCount
}

// ResetBuffer discards buffered samples.
func (ay *AY8910) ResetBuffer() {
	ay.bufCount = 0
}

func (ay *AY8910) readPort(f func() uint8) uint8 {
	if f == nil {
		return 0xFF
	}
	return f()
}

func (ay *AY8910) tonePeriod(ch int) int {
	p := int(ay.regs[ch*2]) | int(ay.regs[ch*2+1]&0x0F)<<8
	if p == 0 {
		p = 1
	}
	return p
}

func (ay *AY8910) step() {
	for ch := 0; ch < 3; ch++ {
		ay.toneCtr[ch]++
		if ay.toneCtr[ch] >= ay.tonePeriod(ch) {
			ay.toneCtr[ch] = 0
			ay.toneOut[ch] = !ay.toneOut[ch]
		}
	}

	np := int(ay.regs[6] & 0x1F)
	if np == 0 {
		np = 1
	}
	ay.noiseCtr++
	if ay.noiseCtr >= np {
		ay.noiseCtr = 0
		// 17-bit LFSR, taps 0 and 3.
		bit := (ay.noiseLFSR ^ (ay.noiseLFSR >> 3)) & 1
		ay.noiseLFSR = (ay.noiseLFSR >> 1) | (bit << 16)
	}

	ay.stepEnvelope()
}

func (ay *AY8910) stepEnvelope() {
	if ay.envHolding {
		return
	}
	ep := int(ay.regs[11]) | int(ay.regs[12])<<8
	if ep == 0 {
		ep = 1
	}
	// The envelope prescaler runs at half the tone rate.
	ay.envCtr++
	if ay.envCtr < ep*2 {
		return
	}
	ay.envCtr = 0
	ay.envStep++
	if ay.envStep < 16 {
		return
	}
	if ay.envHold {
		ay.envHolding = true
		if ay.envAlt {
			ay.envAttack = !ay.envAttack
		}
		ay.envStep = 15
		return
	}
	if ay.envAlt {
		ay.envAttack = !ay.envAttack
	}
	ay.envStep = 0
}

func (ay *AY8910) envRestart() {
	shape := ay.regs[13] & 0x0F
	ay.envAttack = shape&0x04 != 0
	if shape&0x08 == 0 {
		// Shapes 0-7 hold after one ramp.
		ay.envAlt = ay.envAttack
		ay.envHold = true
	} else {
		ay.envAlt = shape&0x02 != 0
		ay.envHold = shape&0x01 != 0
	}
	ay.envStep = 0
	ay.envCtr = 0
	ay.envHolding = false
}

func (ay *AY8910) envLevel() int {
	lvl := ay.envStep
	if !ay.envAttack {
		lvl = 15 - lvl
	}
	return lvl
}

// output mixes the three channels into one normalized sample.
func (ay *AY8910) output() float64 {
	mixer := ay.regs[7]
	noise := ay.noiseLFSR&1 != 0
	var sum float64
	for ch := 0; ch < 3; ch++ {
		toneOff := mixer&(1<<ch) != 0
		noiseOff := mixer&(8<<ch) != 0
		if (toneOff || ay.toneOut[ch]) && (noiseOff || noise) {
			vol := ay.regs[8+ch]
			lvl := int(vol & 0x0F)
			if vol&0x10 != 0 {
				lvl = ay.envLevel()
			}
			sum += ayVolTable[lvl]
		}
	}
	return sum / 3
}

// emitSample averages the chip steps since the last emitted sample and
// appends one output frame.
func (ay *AY8910) emitSample() {
	if ay.sampleCnt == 0 {
		return
	}
	s := ay.sampleAcc / float64(ay.sampleCnt) * ay.gain
	if s > 32767 {
		s = 32767
	} else if s < -32768 {
		s = -32768
	}
	if ay.bufCount < len(ay.buf) {
		ay.buf[ay.bufCount] = int16(s)
		ay.bufCount++
	}
	ay.sampleAcc = 0
	ay.sampleCnt = 0
}

// Reg returns a raw register value, for state capture and tests.
func (ay *AY8910) Reg(i int) uint8 {
	return ay.regs[i&0x0F]
}
