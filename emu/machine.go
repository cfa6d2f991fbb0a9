package emu

import (
	"errors"
	"time"

	emucore "github.com/user-none/eblitui/api"
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Machine)(nil)
var _ emucore.SaveStater = (*Machine)(nil)
var _ emucore.MemoryInspector = (*Machine)(nil)
var _ emucore.MemoryMapper = (*Machine)(nil)

const (
	Name    = "emgp"
	Version = "0.1.0"
)

// CPU is the execution engine for one processing element. The machine
// owns scheduling and interrupt wiring; the CPU owns instruction
// semantics.
type CPU interface {
	// Reset puts the CPU at its reset vector.
	Reset()
	// StepCycles runs at least one instruction, up to roughly budget
	// cycles, and returns the cycles consumed. A return of 0 means the
	// CPU cannot make progress.
	StepCycles(budget int) int
	// SetIRQ drives the CPU's interrupt request line level.
	SetIRQ(asserted bool)
}

// Bus is a CPU's byte-wide view of its address space.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// Interrupt source bits for the main CPU's shared IRQ line.
const (
	irqVIA1 = 1 << iota
	irqVIA2
	irqVIA3
	irqRIOT
)

// Config describes one machine to build.
type Config struct {
	Variant Variant
	ROM     ROMSet

	// NewMainCPU and NewAudioCPU construct the processing elements over
	// the buses the machine builds. Both are required.
	NewMainCPU  func(Bus) CPU
	NewAudioCPU func(Bus) CPU

	// Engine consumes drawing commands. Nil gets a no-op engine.
	Engine DrawEngine

	// TimedReset enables the undocumented periodic reset output on the
	// I/O adapter. The hardware's disable signal for it has never been
	// traced, so it stays off unless asked for.
	TimedReset bool
}

// Machine is one emulated board pair: the main game board and the audio
// board, coordinated through the three VIA adapters and the RIOT.
type Machine struct {
	mainCPU  CPU
	audioCPU CPU
	mainBus  *MainBus
	audioBus *AudioBus

	via1 *VIA
	via2 *VIA
	via3 *VIA
	riot *RIOT
	ay   *AY8910

	io      *IO
	videoCh *VideoChannel
	audioCh *AudioChannel
	sync    *Interleaver

	variant Variant
	region  Region
	timing  VariantTiming

	mainCyclesPerScanline int
	scanlines             int

	cycles     uint64
	audioFrac  int
	mainIRQ    uint8
	timedReset bool
	romCRC     uint32

	blankFB []byte

	audioBuffer []int16
	filterPrevL float64
	filterPrevR float64
}

// NewMachine builds and wires a machine from the given configuration.
func NewMachine(cfg Config) (*Machine, error) {
	if cfg.NewMainCPU == nil || cfg.NewAudioCPU == nil {
		return nil, errors.New("both CPU constructors are required")
	}
	if err := cfg.ROM.Validate(cfg.Variant); err != nil {
		return nil, err
	}

	m := &Machine{
		variant:     cfg.Variant,
		region:      DefaultRegion(),
		timing:      GetTimingForVariant(cfg.Variant),
		timedReset:  cfg.TimedReset,
		io:          NewIO(),
		via1:        NewVIA(),
		via2:        NewVIA(),
		via3:        NewVIA(),
		riot:        NewRIOT(),
		audioBuffer: make([]int16, 0, 2048),
	}
	m.scanlines = m.timing.Scanlines
	m.mainCyclesPerScanline = m.timing.MainClockHz * hTotal / pixelClockHz
	m.sync = NewInterleaver(m.timing.MainClockHz, m.mainCyclesPerScanline)

	m.videoCh = NewVideoChannel(cfg.Engine)
	m.ay = NewAY8910(m.timing.AYClockHz, sampleRate, ayBufferSize)
	m.ay.SetGain(ayGain)
	m.audioCh = NewAudioChannel(m.riot)
	m.audioCh.Tighten = func(quantum, window time.Duration) {
		m.sync.Tighten(m.cycles, quantum, window)
	}

	m.wireVideoVIA()
	m.wireIOVIA()
	m.wireAudioVIA()

	m.riot.IRQ = func(on bool) { m.setMainIRQ(irqRIOT, on) }
	m.ay.ReadPortA = func() uint8 { return m.io.Inputs.DSW2 }
	m.ay.ReadPortB = func() uint8 { return m.io.Inputs.DSW3 }

	m.romCRC = cfg.ROM.CRC()
	m.mainBus = NewMainBus(cfg.ROM.Main, m.via1, m.via2, m.via3)

	// The audio ROM window mirrors across the top of the address space,
	// so the image is padded to the full window.
	audioROM := make([]byte, audioROMWindow(cfg.Variant))
	copy(audioROM, cfg.ROM.Audio)
	m.audioBus = NewAudioBus(audioROM, m.riot, m.ay)
	m.mainCPU = cfg.NewMainCPU(m.mainBus)
	m.audioCPU = cfg.NewAudioCPU(m.audioBus)

	m.mainCPU.Reset()
	return m, nil
}

// wireVideoVIA binds the first adapter: position/data on port A, opcode
// on port B, the trigger strobe on CA2, vertical blank on CA1.
func (m *Machine) wireVideoVIA() {
	m.via1.WritePA = m.videoCh.WriteData
	if m.variant == VariantTong {
		m.via1.WritePB = m.videoCh.WriteCommand
		m.via1.ReadPB = m.videoCh.ReadBack
	} else {
		m.via1.WritePB = func(v uint8) { m.videoCh.WriteCommand(v & 0x07) }
	}
	m.via1.OnCA2 = m.videoCh.Trigger
	m.via1.IRQ = func(on bool) { m.setMainIRQ(irqVIA1, on) }
}

// wireIOVIA binds the second adapter: the selected input group on port
// A, the select strobe on port B, the coin counter on CB2. CA2 carries
// the undocumented periodic reset output.
func (m *Machine) wireIOVIA() {
	m.via2.ReadPA = m.io.Read
	m.via2.WritePB = m.io.Select
	m.via2.OnCB2 = m.io.CoinLine
	m.via2.OnCA2 = func(e Edge) {
		if m.timedReset && e.Falling() {
			m.mainCPU.Reset()
		}
	}
	m.via2.IRQ = func(on bool) { m.setMainIRQ(irqVIA2, on) }
}

// wireAudioVIA binds the third adapter: the command byte on port A, the
// trigger line on CA2, the audio board's reset line on CB2, and the
// board's response latch on port B.
func (m *Machine) wireAudioVIA() {
	m.via3.WritePA = m.audioCh.WriteCommand
	m.via3.OnCA2 = m.audioCh.WriteTrigger
	m.via3.OnCB2 = m.audioCh.WriteReset
	m.via3.ReadPB = m.audioCh.Response
	m.via3.IRQ = func(on bool) { m.setMainIRQ(irqVIA3, on) }
}

// setMainIRQ tracks the open-collector IRQ line shared by the three
// adapters and the RIOT's looped-back interrupt.
func (m *Machine) setMainIRQ(src uint8, on bool) {
	was := m.mainIRQ != 0
	if on {
		m.mainIRQ |= src
	} else {
		m.mainIRQ &^= src
	}
	if src == irqRIOT && on {
		// The looped-back audio interrupt is one of the tight
		// handshakes; make sure the main program sees it promptly.
		m.sync.Tighten(m.cycles, audioResetQuantum, 2*audioResetQuantum)
	}
	if now := m.mainIRQ != 0; now != was {
		m.mainCPU.SetIRQ(now)
	}
}

// RunFrame executes one video frame of emulation.
func (m *Machine) RunFrame() {
	m.audioBuffer = m.audioBuffer[:0]
	m.ay.ResetBuffer()

	for line := 0; line < m.scanlines; line++ {
		switch line {
		case 0:
			m.via1.SetCA1(false)
		case ScreenHeight:
			m.via1.SetCA1(true)
		}

		remaining := m.mainCyclesPerScanline
		for remaining > 0 {
			q := m.sync.Quantum(m.cycles)
			if q > remaining {
				q = remaining
			}
			m.runSlice(q)
			remaining -= q
		}
	}

	m.mixAudio()
}

// runSlice advances both boards by q main-CPU cycles: a main burst,
// the adapter timers, then a matched audio burst.
func (m *Machine) runSlice(q int) {
	budget := q
	for budget > 0 {
		consumed := m.mainCPU.StepCycles(budget)
		if consumed == 0 {
			break
		}
		budget -= consumed
	}
	m.cycles += uint64(q)
	m.via1.Tick(q)
	m.via2.Tick(q)
	m.via3.Tick(q)

	// Scale the slice to the audio board's clock.
	m.audioFrac += q * m.timing.AudioClockHz
	aq := m.audioFrac / m.timing.MainClockHz
	m.audioFrac %= m.timing.MainClockHz
	if aq == 0 {
		return
	}

	if m.audioCh.ConsumePendingReset() {
		m.audioCPU.Reset()
	}
	if !m.audioCh.Halted() {
		budget = aq
		for budget > 0 {
			consumed := m.audioCPU.StepCycles(budget)
			if consumed == 0 {
				break
			}
			budget -= consumed
		}
	}
	m.riot.Tick(aq)
	m.ay.Run(aq * 2)
}

// Reset returns the whole machine to power-on state.
func (m *Machine) Reset() {
	m.via1.Reset()
	m.via2.Reset()
	m.via3.Reset()
	m.riot.Reset()
	// The adapter stops driving the command latch at power-on, so the
	// RIOT's port A pins pull back up.
	m.riot.PortAInSet(0xFF, 0xFF)
	m.ay.Reset()
	m.io.Reset()
	m.videoCh.Reset()
	m.audioCh.Reset()
	m.sync.Reset()
	m.mainBus.Reset()
	m.audioBus.Reset()
	m.mainIRQ = 0
	m.audioFrac = 0
	m.mainCPU.Reset()
	m.audioCPU.Reset()
}

// SetInput unpacks a button bitmask and sets switch state for the given player.
func (m *Machine) SetInput(player int, buttons uint32) {
	m.io.SetInput(player, buttons)
}

// GetFramebuffer returns raw RGBA pixel data for the current frame.
func (m *Machine) GetFramebuffer() []byte {
	if fb, ok := m.videoCh.Engine().(FramebufferEngine); ok {
		return fb.Framebuffer()
	}
	if m.blankFB == nil {
		m.blankFB = make([]byte, ScreenWidth*ScreenHeight*4)
	}
	return m.blankFB
}

// GetFramebufferStride returns the stride (bytes per row) of the framebuffer.
func (m *Machine) GetFramebufferStride() int {
	if fb, ok := m.videoCh.Engine().(FramebufferEngine); ok {
		return fb.Stride()
	}
	return ScreenWidth * 4
}

// GetActiveHeight returns the active display height.
func (m *Machine) GetActiveHeight() int {
	return ScreenHeight
}

// GetRegion returns the machine's region setting.
func (m *Machine) GetRegion() Region {
	return m.region
}

// SetRegion is accepted for interface compatibility; the boards only
// ever shipped in one video standard.
func (m *Machine) SetRegion(region Region) {
	m.region = region
}

// GetTiming returns FPS and scanline count.
func (m *Machine) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       m.timing.FPS,
		Scanlines: m.timing.Scanlines,
	}
}

// Close releases any resources held by the machine.
func (m *Machine) Close() {}

// SetOption applies a core option change identified by key.
func (m *Machine) SetOption(key string, value string) {
	switch key {
	case "timed_reset":
		m.timedReset = value == "true"
	}
}

// Flat address boundaries for ReadMemory.
const (
	flatMainRAMStart  = 0x0000
	flatMainRAMEnd    = flatMainRAMStart + mainRAMSize - 1
	flatAudioRAMStart = 0x0400
	flatAudioRAMEnd   = flatAudioRAMStart + riotRAMSize - 1
)

// ReadMemory reads from a flat address into buf and returns the number
// of bytes read.
func (m *Machine) ReadMemory(addr uint32, buf []byte) uint32 {
	var count uint32
	for i := range buf {
		cur := addr + uint32(i)
		var b byte
		switch {
		case cur <= flatMainRAMEnd:
			b = m.mainBus.ReadRAM()[cur]
		case cur >= flatAudioRAMStart && cur <= flatAudioRAMEnd:
			b = m.audioBus.ReadRAM()[cur-flatAudioRAMStart]
		default:
			return count
		}
		buf[i] = b
		count++
	}
	return count
}

// MemoryMap returns the available memory regions with sizes.
func (m *Machine) MemoryMap() []emucore.MemoryRegion {
	return []emucore.MemoryRegion{
		{Type: emucore.MemorySystemRAM, Size: mainRAMSize},
	}
}

// ReadRegion returns a copy of the specified memory region.
func (m *Machine) ReadRegion(regionType int) []byte {
	switch regionType {
	case emucore.MemorySystemRAM:
		out := make([]byte, mainRAMSize)
		copy(out, m.mainBus.ReadRAM())
		return out
	default:
		return nil
	}
}

// WriteRegion writes data to the specified memory region.
func (m *Machine) WriteRegion(regionType int, data []byte) {
	switch regionType {
	case emucore.MemorySystemRAM:
		copy(m.mainBus.ReadRAM(), data)
	}
}

// MainBus exposes the main CPU's bus, for hardware bindings that sit
// outside the machine.
func (m *Machine) MainBus() *MainBus { return m.mainBus }

// AudioBus exposes the audio CPU's bus.
func (m *Machine) AudioBus() *AudioBus { return m.audioBus }

// IO returns the input port block.
func (m *Machine) IO() *IO { return m.io }

// VideoChannel returns the drawing-engine command channel.
func (m *Machine) VideoChannel() *VideoChannel { return m.videoCh }

// AudioChannel returns the audio command channel.
func (m *Machine) AudioChannel() *AudioChannel { return m.audioCh }
