package emu

import "errors"

const (
	audioChanSerializeVersion = 1
	// AudioChanSerializeSize is the total bytes needed for the audio
	// command channel.
	// version(1) + state(1) + halted(1) + pendingReset(1) + response(1)
	AudioChanSerializeSize = 5
)

// Serialize writes the channel's handshake state to buf.
func (ch *AudioChannel) Serialize(buf []byte) error {
	if len(buf) < AudioChanSerializeSize {
		return errors.New("audio channel serialize buffer too small")
	}

	buf[0] = audioChanSerializeVersion
	buf[1] = uint8(ch.state)
	buf[2] = boolByte(ch.halted)
	buf[3] = boolByte(ch.pendingReset)
	buf[4] = ch.response

	return nil
}

// Deserialize reads the channel's handshake state from buf.
func (ch *AudioChannel) Deserialize(buf []byte) error {
	if len(buf) < AudioChanSerializeSize {
		return errors.New("audio channel deserialize buffer too small")
	}

	if buf[0] > audioChanSerializeVersion {
		return errors.New("unsupported audio channel state version")
	}
	ch.state = AudioState(buf[1])
	ch.halted = buf[2] != 0
	ch.pendingReset = buf[3] != 0
	ch.response = buf[4]

	return nil
}
