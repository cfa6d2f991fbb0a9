package emu

import (
	"encoding/binary"
	"errors"
)

const (
	aySerializeVersion = 1
	// AYSerializeSize is the total bytes needed for AY8910 serialization.
	// version(1) + addr(1) + regs(16) + toneCtr(12) + toneOut(3) +
	// noiseCtr(4) + noiseLFSR(4) + envCtr(4) + envStep(1) +
	// envHold/envAlt/envAttack/envHolding(4)
	AYSerializeSize = 50
)

// Serialize writes generator state to buf. The resampling accumulators
// and sample buffer are transient and not captured.
func (ay *AY8910) Serialize(buf []byte) error {
	if len(buf) < AYSerializeSize {
		return errors.New("AY8910 serialize buffer too small")
	}

	offset := 0

	buf[offset] = aySerializeVersion
	offset++
	buf[offset] = ay.addr
	offset++
	copy(buf[offset:], ay.regs[:])
	offset += 16

	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(buf[offset:], uint32(ay.toneCtr[i]))
		offset += 4
	}
	for i := 0; i < 3; i++ {
		buf[offset] = boolByte(ay.toneOut[i])
		offset++
	}

	binary.LittleEndian.PutUint32(buf[offset:], uint32(ay.noiseCtr))
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], ay.noiseLFSR)
	offset += 4

	binary.LittleEndian.PutUint32(buf[offset:], uint32(ay.envCtr))
	offset += 4
	buf[offset] = uint8(ay.envStep)
	offset++
	buf[offset] = boolByte(ay.envHold)
	offset++
	buf[offset] = boolByte(ay.envAlt)
	offset++
	buf[offset] = boolByte(ay.envAttack)
	offset++
	buf[offset] = boolByte(ay.envHolding)
	offset++

	return nil
}

// Deserialize reads generator state from buf.
func (ay *AY8910) Deserialize(buf []byte) error {
	if len(buf) < AYSerializeSize {
		return errors.New("AY8910 deserialize buffer too small")
	}

	offset := 0

	version := buf[offset]
	offset++
	if version > aySerializeVersion {
		return errors.New("unsupported AY8910 state version")
	}

	ay.addr = buf[offset]
	offset++
	copy(ay.regs[:], buf[offset:offset+16])
	offset += 16

	for i := 0; i < 3; i++ {
		ay.toneCtr[i] = int(binary.LittleEndian.Uint32(buf[offset:]))
		offset += 4
	}
	for i := 0; i < 3; i++ {
		ay.toneOut[i] = buf[offset] != 0
		offset++
	}

	ay.noiseCtr = int(binary.LittleEndian.Uint32(buf[offset:]))
	offset += 4
	ay.noiseLFSR = binary.LittleEndian.Uint32(buf[offset:])
	offset += 4

	ay.envCtr = int(binary.LittleEndian.Uint32(buf[offset:]))
	offset += 4
	ay.envStep = int(buf[offset])
	offset++
	ay.envHold = buf[offset] != 0
	offset++
	ay.envAlt = buf[offset] != 0
	offset++
	ay.envAttack = buf[offset] != 0
	offset++
	ay.envHolding = buf[offset] != 0
	offset++

	// Drop in-flight samples; resampling restarts cleanly.
	ay.cycleAcc = 0
	ay.sampleAcc = 0
	ay.sampleCnt = 0
	ay.sampleFrac = 0

	return nil
}
