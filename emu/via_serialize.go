package emu

import (
	"encoding/binary"
	"errors"
)

const (
	viaSerializeVersion = 1
	// VIASerializeSize is the total bytes needed for VIA serialization.
	// version(1) + ora/orb/ddra/ddrb/pcr/acr/sr/ifr/ier(9) +
	// t1Counter(2) + t1Latch(2) + t1Running(1) +
	// t2Counter(2) + t2Latch(1) + t2Running(1) +
	// ca1/ca2/cb1/cb2(4)
	VIASerializeSize = 23
)

// Serialize writes VIA state to buf. buf must be at least VIASerializeSize bytes.
func (v *VIA) Serialize(buf []byte) error {
	if len(buf) < VIASerializeSize {
		return errors.New("VIA serialize buffer too small")
	}

	offset := 0

	buf[offset] = viaSerializeVersion
	offset++

	buf[offset] = v.ora
	offset++
	buf[offset] = v.orb
	offset++
	buf[offset] = v.ddra
	offset++
	buf[offset] = v.ddrb
	offset++
	buf[offset] = v.pcr
	offset++
	buf[offset] = v.acr
	offset++
	buf[offset] = v.sr
	offset++
	buf[offset] = v.ifr
	offset++
	buf[offset] = v.ier
	offset++

	binary.LittleEndian.PutUint16(buf[offset:], v.t1Counter)
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], v.t1Latch)
	offset += 2
	buf[offset] = boolByte(v.t1Running)
	offset++
	binary.LittleEndian.PutUint16(buf[offset:], v.t2Counter)
	offset += 2
	buf[offset] = v.t2Latch
	offset++
	buf[offset] = boolByte(v.t2Running)
	offset++

	buf[offset] = boolByte(v.ca1)
	offset++
	buf[offset] = boolByte(v.ca2)
	offset++
	buf[offset] = boolByte(v.cb1)
	offset++
	buf[offset] = boolByte(v.cb2)
	offset++

	return nil
}

// Deserialize reads VIA state from buf. buf must be at least VIASerializeSize bytes.
// Handlers are not invoked; the restored levels are taken as already observed.
func (v *VIA) Deserialize(buf []byte) error {
	if len(buf) < VIASerializeSize {
		return errors.New("VIA deserialize buffer too small")
	}

	offset := 0

	version := buf[offset]
	offset++
	if version > viaSerializeVersion {
		return errors.New("unsupported VIA state version")
	}

	v.ora = buf[offset]
	offset++
	v.orb = buf[offset]
	offset++
	v.ddra = buf[offset]
	offset++
	v.ddrb = buf[offset]
	offset++
	v.pcr = buf[offset]
	offset++
	v.acr = buf[offset]
	offset++
	v.sr = buf[offset]
	offset++
	v.ifr = buf[offset]
	offset++
	v.ier = buf[offset]
	offset++

	v.t1Counter = binary.LittleEndian.Uint16(buf[offset:])
	offset += 2
	v.t1Latch = binary.LittleEndian.Uint16(buf[offset:])
	offset += 2
	v.t1Running = buf[offset] != 0
	offset++
	v.t2Counter = binary.LittleEndian.Uint16(buf[offset:])
	offset += 2
	v.t2Latch = buf[offset]
	offset++
	v.t2Running = buf[offset] != 0
	offset++

	v.ca1 = buf[offset] != 0
	offset++
	v.ca2 = buf[offset] != 0
	offset++
	v.cb1 = buf[offset] != 0
	offset++
	v.cb2 = buf[offset] != 0
	offset++

	return nil
}
