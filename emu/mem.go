package emu

// Main CPU address map. RAM and the adapter windows decode only the low
// address lines, so each repeats across its region.
const (
	mainRAMSize = 0x0400
	mainRAMEnd  = 0x1FFF
	via1Base    = 0x2000
	via2Base    = 0x2800
	via3Base    = 0x3000
	viaWindow   = 0x0800
	viaRegMask  = 0x000F
	mainROMBase = 0x8000
)

// MainBus is the main CPU's view of the machine: 1K of work RAM, the
// three adapter chips, and program ROM in the top half.
type MainBus struct {
	ram  [mainRAMSize]byte
	rom  []byte
	via1 *VIA
	via2 *VIA
	via3 *VIA
}

// NewMainBus builds the main bus over the given ROM image (mapped at
// the top of the address space) and adapter chips.
func NewMainBus(rom []byte, via1, via2, via3 *VIA) *MainBus {
	return &MainBus{rom: rom, via1: via1, via2: via2, via3: via3}
}

// Reset clears work RAM.
func (b *MainBus) Reset() {
	b.ram = [mainRAMSize]byte{}
}

func (b *MainBus) Read(addr uint16) uint8 {
	switch {
	case addr <= mainRAMEnd:
		return b.ram[addr&(mainRAMSize-1)]
	case addr >= via1Base && addr < via1Base+viaWindow:
		return b.via1.Read(addr & viaRegMask)
	case addr >= via2Base && addr < via2Base+viaWindow:
		return b.via2.Read(addr & viaRegMask)
	case addr >= via3Base && addr < via3Base+viaWindow:
		return b.via3.Read(addr & viaRegMask)
	case addr >= mainROMBase:
		off := int(addr) - (0x10000 - len(b.rom))
		if off >= 0 {
			return b.rom[off]
		}
	}
	return 0xFF
}

func (b *MainBus) Write(addr uint16, val uint8) {
	switch {
	case addr <= mainRAMEnd:
		b.ram[addr&(mainRAMSize-1)] = val
	case addr >= via1Base && addr < via1Base+viaWindow:
		b.via1.Write(addr&viaRegMask, val)
	case addr >= via2Base && addr < via2Base+viaWindow:
		b.via2.Write(addr&viaRegMask, val)
	case addr >= via3Base && addr < via3Base+viaWindow:
		b.via3.Write(addr&viaRegMask, val)
	}
}

// ReadRAM returns a copy-free view of work RAM for the inspector.
func (b *MainBus) ReadRAM() []byte {
	return b.ram[:]
}
