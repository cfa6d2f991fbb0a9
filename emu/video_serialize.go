package emu

import "errors"

const (
	videoSerializeVersion = 1
	// VideoSerializeSize is the total bytes needed for the drawing
	// command channel.
	// version(1) + x(1) + y(1) + command(1) + data(1) + previous(1)
	VideoSerializeSize = 6
)

// Serialize writes the channel's five latches to buf.
func (ch *VideoChannel) Serialize(buf []byte) error {
	if len(buf) < VideoSerializeSize {
		return errors.New("video channel serialize buffer too small")
	}

	buf[0] = videoSerializeVersion
	buf[1] = ch.x
	buf[2] = ch.y
	buf[3] = ch.command
	buf[4] = ch.data
	buf[5] = ch.previous

	return nil
}

// Deserialize reads the channel's five latches from buf. The bound
// engine is untouched; no delivery is re-triggered.
func (ch *VideoChannel) Deserialize(buf []byte) error {
	if len(buf) < VideoSerializeSize {
		return errors.New("video channel deserialize buffer too small")
	}

	if buf[0] > videoSerializeVersion {
		return errors.New("unsupported video channel state version")
	}
	ch.x = buf[1]
	ch.y = buf[2]
	ch.command = buf[3]
	ch.data = buf[4]
	ch.previous = buf[5]

	return nil
}
