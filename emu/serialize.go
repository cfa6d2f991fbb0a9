package emu

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"math"
)

// Save state format constants
const (
	stateVersion    = 1
	stateMagic      = "eMGPSState\x00\x00"
	stateHeaderSize = 22 // magic(12) + version(2) + romCRC(4) + dataCRC(4)
)

// Fixed serialization sizes for inline components
const (
	busSerializeSize         = mainRAMSize + riotRAMSize
	machineBaseSerializeSize = 30 // mainIRQ(1) + audioFrac(4) + cycles(8) + boostActive(1) + filterPrevL(8) + filterPrevR(8)
)

// StatefulCPU is the optional state-capture surface of an injected CPU.
// CPUs that implement it are included in save states; CPUs that do not
// are skipped with a zero-length block.
type StatefulCPU interface {
	SerializeSize() int
	Serialize(buf []byte) error
	Deserialize(buf []byte) error
}

// boolByte converts a bool to a uint8 (0 or 1).
func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// cpuStateSize returns the length-prefixed block size for one CPU.
func cpuStateSize(c CPU) int {
	if s, ok := c.(StatefulCPU); ok {
		return 4 + s.SerializeSize()
	}
	return 4
}

// SerializeSize returns the save-state size for a machine whose CPUs
// carry no captured state. A machine with stateful CPUs reports its
// exact size through the method of the same name.
func SerializeSize() int {
	return stateHeaderSize +
		4 + 4 + // empty CPU blocks
		busSerializeSize +
		3*VIASerializeSize +
		RIOTSerializeSize +
		AYSerializeSize +
		IOSerializeSize +
		VideoSerializeSize +
		AudioChanSerializeSize +
		machineBaseSerializeSize
}

// SerializeSize returns the total size in bytes needed for a save state.
// CPU state is variable per injected implementation, so this is a method.
func (m *Machine) SerializeSize() int {
	return stateHeaderSize +
		cpuStateSize(m.mainCPU) +
		cpuStateSize(m.audioCPU) +
		busSerializeSize +
		3*VIASerializeSize +
		RIOTSerializeSize +
		AYSerializeSize +
		IOSerializeSize +
		VideoSerializeSize +
		AudioChanSerializeSize +
		machineBaseSerializeSize
}

// Serialize creates a save state and returns it as a byte slice.
func (m *Machine) Serialize() ([]byte, error) {
	size := m.SerializeSize()
	data := make([]byte, size)

	// Write header
	copy(data[0:12], stateMagic)
	binary.LittleEndian.PutUint16(data[12:14], stateVersion)
	binary.LittleEndian.PutUint32(data[14:18], m.romCRC)

	offset := stateHeaderSize

	// CPUs
	offset, err := m.serializeCPU(data, offset, m.mainCPU)
	if err != nil {
		return nil, err
	}
	offset, err = m.serializeCPU(data, offset, m.audioCPU)
	if err != nil {
		return nil, err
	}

	// RAM on both buses
	copy(data[offset:], m.mainBus.ram[:])
	offset += mainRAMSize
	copy(data[offset:], m.audioBus.ram[:])
	offset += riotRAMSize

	// Adapter chips
	for _, via := range []*VIA{m.via1, m.via2, m.via3} {
		if err := via.Serialize(data[offset:]); err != nil {
			return nil, err
		}
		offset += VIASerializeSize
	}
	if err := m.riot.Serialize(data[offset:]); err != nil {
		return nil, err
	}
	offset += RIOTSerializeSize
	if err := m.ay.Serialize(data[offset:]); err != nil {
		return nil, err
	}
	offset += AYSerializeSize

	// Coordination state
	if err := m.io.Serialize(data[offset:]); err != nil {
		return nil, err
	}
	offset += IOSerializeSize
	if err := m.videoCh.Serialize(data[offset:]); err != nil {
		return nil, err
	}
	offset += VideoSerializeSize
	if err := m.audioCh.Serialize(data[offset:]); err != nil {
		return nil, err
	}
	offset += AudioChanSerializeSize

	// Machine inline state
	m.serializeBase(data, offset)

	// Calculate and write data CRC32 (over everything after header)
	dataCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	binary.LittleEndian.PutUint32(data[18:22], dataCRC)

	return data, nil
}

// Deserialize restores machine state from a save state byte slice.
func (m *Machine) Deserialize(data []byte) error {
	if err := m.VerifyState(data); err != nil {
		return err
	}

	offset := stateHeaderSize

	// CPUs
	offset, err := m.deserializeCPU(data, offset, m.mainCPU)
	if err != nil {
		return err
	}
	offset, err = m.deserializeCPU(data, offset, m.audioCPU)
	if err != nil {
		return err
	}

	// RAM on both buses
	copy(m.mainBus.ram[:], data[offset:offset+mainRAMSize])
	offset += mainRAMSize
	copy(m.audioBus.ram[:], data[offset:offset+riotRAMSize])
	offset += riotRAMSize

	// Adapter chips
	for _, via := range []*VIA{m.via1, m.via2, m.via3} {
		if err := via.Deserialize(data[offset:]); err != nil {
			return err
		}
		offset += VIASerializeSize
	}
	if err := m.riot.Deserialize(data[offset:]); err != nil {
		return err
	}
	offset += RIOTSerializeSize
	if err := m.ay.Deserialize(data[offset:]); err != nil {
		return err
	}
	offset += AYSerializeSize

	// Coordination state
	if err := m.io.Deserialize(data[offset:]); err != nil {
		return err
	}
	offset += IOSerializeSize
	if err := m.videoCh.Deserialize(data[offset:]); err != nil {
		return err
	}
	offset += VideoSerializeSize
	if err := m.audioCh.Deserialize(data[offset:]); err != nil {
		return err
	}
	offset += AudioChanSerializeSize

	// Machine inline state
	m.deserializeBase(data, offset)

	// Rebuild the shared IRQ line level from the restored chips.
	m.mainCPU.SetIRQ(m.mainIRQ != 0)

	return nil
}

// VerifyState checks if a save state is valid without loading it.
func (m *Machine) VerifyState(data []byte) error {
	expectedSize := m.SerializeSize()
	if len(data) < expectedSize {
		return errors.New("save state too short")
	}

	if string(data[0:12]) != stateMagic {
		return errors.New("invalid save state magic")
	}

	version := binary.LittleEndian.Uint16(data[12:14])
	if version > stateVersion {
		return errors.New("unsupported save state version")
	}

	romCRC := binary.LittleEndian.Uint32(data[14:18])
	if romCRC != m.romCRC {
		return errors.New("save state is for a different ROM")
	}

	expectedCRC := binary.LittleEndian.Uint32(data[18:22])
	actualCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	if expectedCRC != actualCRC {
		return errors.New("save state data is corrupted")
	}

	return nil
}

// serializeCPU writes one CPU's length-prefixed state block.
func (m *Machine) serializeCPU(data []byte, offset int, c CPU) (int, error) {
	s, ok := c.(StatefulCPU)
	if !ok {
		binary.LittleEndian.PutUint32(data[offset:], 0)
		return offset + 4, nil
	}
	size := s.SerializeSize()
	binary.LittleEndian.PutUint32(data[offset:], uint32(size))
	offset += 4
	if err := s.Serialize(data[offset:]); err != nil {
		return 0, err
	}
	return offset + size, nil
}

// deserializeCPU reads one CPU's length-prefixed state block.
func (m *Machine) deserializeCPU(data []byte, offset int, c CPU) (int, error) {
	size := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	if size == 0 {
		return offset, nil
	}
	s, ok := c.(StatefulCPU)
	if !ok {
		return 0, errors.New("save state carries CPU state for a stateless CPU")
	}
	if size != s.SerializeSize() {
		return 0, errors.New("save state CPU block size mismatch")
	}
	if err := s.Deserialize(data[offset : offset+size]); err != nil {
		return 0, err
	}
	return offset + size, nil
}

// serializeBase writes Machine inline state to the data buffer.
func (m *Machine) serializeBase(data []byte, offset int) int {
	data[offset] = m.mainIRQ
	offset++

	binary.LittleEndian.PutUint32(data[offset:], uint32(m.audioFrac))
	offset += 4

	binary.LittleEndian.PutUint64(data[offset:], m.cycles)
	offset += 8

	data[offset] = boolByte(m.sync.Active(m.cycles))
	offset++

	binary.LittleEndian.PutUint64(data[offset:], math.Float64bits(m.filterPrevL))
	offset += 8

	binary.LittleEndian.PutUint64(data[offset:], math.Float64bits(m.filterPrevR))
	offset += 8

	return offset
}

// deserializeBase reads Machine inline state from the data buffer.
func (m *Machine) deserializeBase(data []byte, offset int) int {
	m.mainIRQ = data[offset]
	offset++

	m.audioFrac = int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4

	m.cycles = binary.LittleEndian.Uint64(data[offset:])
	offset += 8

	// A boost that was live at save time is re-issued rather than
	// restored request-by-request; the window is short enough that
	// over-covering it is harmless.
	m.sync.Reset()
	if data[offset] != 0 {
		m.sync.Tighten(m.cycles, audioResetQuantum, 2*audioResetQuantum)
	}
	offset++

	m.filterPrevL = math.Float64frombits(binary.LittleEndian.Uint64(data[offset:]))
	offset += 8

	m.filterPrevR = math.Float64frombits(binary.LittleEndian.Uint64(data[offset:]))
	offset += 8

	return offset
}
