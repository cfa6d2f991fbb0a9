package emu

import (
	"encoding/binary"
	"errors"
)

const (
	riotSerializeVersion = 1
	// RIOTSerializeSize is the total bytes needed for RIOT serialization.
	// version(1) + dra/ddra/drb/ddrb/paIn(5) + timer(1) +
	// prescale(2) + prescaleCtr(2) + timerIRQOn(1) + expired(1) +
	// pa7IRQOn(1) + pa7PosEdge(1) + pa7Last(1) + flags(1)
	RIOTSerializeSize = 17
)

// Serialize writes RIOT state to buf. buf must be at least RIOTSerializeSize bytes.
func (r *RIOT) Serialize(buf []byte) error {
	if len(buf) < RIOTSerializeSize {
		return errors.New("RIOT serialize buffer too small")
	}

	offset := 0

	buf[offset] = riotSerializeVersion
	offset++

	buf[offset] = r.dra
	offset++
	buf[offset] = r.ddra
	offset++
	buf[offset] = r.drb
	offset++
	buf[offset] = r.ddrb
	offset++
	buf[offset] = r.paIn
	offset++

	buf[offset] = r.timer
	offset++
	binary.LittleEndian.PutUint16(buf[offset:], uint16(r.prescale))
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], uint16(r.prescaleCtr))
	offset += 2
	buf[offset] = boolByte(r.timerIRQOn)
	offset++
	buf[offset] = boolByte(r.expired)
	offset++

	buf[offset] = boolByte(r.pa7IRQOn)
	offset++
	buf[offset] = boolByte(r.pa7PosEdge)
	offset++
	buf[offset] = boolByte(r.pa7Last)
	offset++
	buf[offset] = r.flags
	offset++

	return nil
}

// Deserialize reads RIOT state from buf. buf must be at least RIOTSerializeSize bytes.
func (r *RIOT) Deserialize(buf []byte) error {
	if len(buf) < RIOTSerializeSize {
		return errors.New("RIOT deserialize buffer too small")
	}

	offset := 0

	version := buf[offset]
	offset++
	if version > riotSerializeVersion {
		return errors.New("unsupported RIOT state version")
	}

	r.dra = buf[offset]
	offset++
	r.ddra = buf[offset]
	offset++
	r.drb = buf[offset]
	offset++
	r.ddrb = buf[offset]
	offset++
	r.paIn = buf[offset]
	offset++

	r.timer = buf[offset]
	offset++
	r.prescale = int(binary.LittleEndian.Uint16(buf[offset:]))
	offset += 2
	r.prescaleCtr = int(binary.LittleEndian.Uint16(buf[offset:]))
	offset += 2
	r.timerIRQOn = buf[offset] != 0
	offset++
	r.expired = buf[offset] != 0
	offset++

	r.pa7IRQOn = buf[offset] != 0
	offset++
	r.pa7PosEdge = buf[offset] != 0
	offset++
	r.pa7Last = buf[offset] != 0
	offset++
	r.flags = buf[offset]
	offset++

	return nil
}
