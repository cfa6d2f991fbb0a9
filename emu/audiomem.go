package emu

// Audio CPU address map. The board decodes very few address lines, so
// every region mirrors heavily.
const (
	riotRAMSize   = 0x80
	riotRAMBase   = 0x0000
	riotRAMMirror = 0x1780
	riotRegBase   = 0x0800
	riotRegMirror = 0x17E0
	riotRegMask   = 0x1F
	ayBase        = 0xA000
	ayMirror      = 0x1FFC
	audioROMBase  = 0xE000
)

// AudioBus is the audio CPU's view of its board: the RIOT's internal
// scratch RAM and registers, the sound generator's register pair, and
// the program ROM at the top.
type AudioBus struct {
	ram  [riotRAMSize]byte
	rom  []byte
	riot *RIOT
	ay   *AY8910
}

// NewAudioBus builds the audio bus over the given ROM image, which must
// be a power-of-two size that the top window mirrors.
func NewAudioBus(rom []byte, riot *RIOT, ay *AY8910) *AudioBus {
	return &AudioBus{rom: rom, riot: riot, ay: ay}
}

// Reset clears the RIOT's scratch RAM.
func (b *AudioBus) Reset() {
	b.ram = [riotRAMSize]byte{}
}

func (b *AudioBus) Read(addr uint16) uint8 {
	switch {
	case addrInMirror(addr, riotRAMBase, riotRAMMirror, riotRAMSize):
		return b.ram[addr&(riotRAMSize-1)]
	case addrInMirror(addr, riotRegBase, riotRegMirror, riotRegMask+1):
		return b.riot.Read(addr & riotRegMask)
	case addrInMirror(addr, ayBase, ayMirror, 4):
		if addr&3 == 1 {
			return b.ay.ReadData()
		}
	case addr >= audioROMBase:
		return b.rom[int(addr)&(len(b.rom)-1)]
	}
	return 0xFF
}

func (b *AudioBus) Write(addr uint16, val uint8) {
	switch {
	case addrInMirror(addr, riotRAMBase, riotRAMMirror, riotRAMSize):
		b.ram[addr&(riotRAMSize-1)] = val
	case addrInMirror(addr, riotRegBase, riotRegMirror, riotRegMask+1):
		b.riot.Write(addr&riotRegMask, val)
	case addrInMirror(addr, ayBase, ayMirror, 4):
		switch addr & 3 {
		case 0:
			b.ay.WriteAddr(val)
		case 2:
			b.ay.WriteData(val)
		}
	}
}

// ReadRAM returns the RIOT scratch RAM for the inspector.
func (b *AudioBus) ReadRAM() []byte {
	return b.ram[:]
}

// addrInMirror reports whether addr falls on any mirror of a window of
// the given size based at base, where mirror is the mask of address
// bits the decode ignores.
func addrInMirror(addr, base, mirror uint16, size int) bool {
	return addr&^mirror >= base && addr&^mirror < base+uint16(size)
}
