package emu

import (
	"encoding/binary"
	"errors"
)

const (
	ioSerializeVersion = 1
	// IOSerializeSize is the total bytes needed for IO serialization.
	// version(1) + currentPort(1) + coinLevel(1) + coinCount(4)
	IOSerializeSize = 7
)

// Serialize writes input block state to buf. buf must be at least
// IOSerializeSize bytes. The input vectors themselves are live switch
// state owned by the session, not machine state, and are not captured.
func (io *IO) Serialize(buf []byte) error {
	if len(buf) < IOSerializeSize {
		return errors.New("IO serialize buffer too small")
	}

	offset := 0

	buf[offset] = ioSerializeVersion
	offset++

	buf[offset] = io.currentPort
	offset++
	buf[offset] = boolByte(io.coinLevel)
	offset++
	binary.LittleEndian.PutUint32(buf[offset:], uint32(io.coinCount))
	offset += 4

	return nil
}

// Deserialize reads input block state from buf. buf must be at least
// IOSerializeSize bytes. The session's configured input vectors are
// left untouched.
func (io *IO) Deserialize(buf []byte) error {
	if len(buf) < IOSerializeSize {
		return errors.New("IO deserialize buffer too small")
	}

	offset := 0

	version := buf[offset]
	offset++
	if version > ioSerializeVersion {
		return errors.New("unsupported IO state version")
	}

	io.currentPort = buf[offset]
	offset++
	io.coinLevel = buf[offset] != 0
	offset++
	io.coinCount = int(binary.LittleEndian.Uint32(buf[offset:]))
	offset += 4

	return nil
}
