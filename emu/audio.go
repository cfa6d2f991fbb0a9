package emu

import "math"

const (
	sampleRate   = 48000
	ayBufferSize = 1024
	ayGain       = 11000.0
	lpfCutoffHz  = 4800.0
)

// lpfAlpha is the smoothing factor for the first-order RC low-pass filter.
// Derived from: alpha = dt / (RC + dt) where RC = 1/(2*pi*fc).
var lpfAlpha = 1.0 / (float64(sampleRate)/(2*math.Pi*lpfCutoffHz) + 1)

// mixAudio drains the sound generator's buffer into the machine's
// stereo audio buffer. The board is mono; samples are duplicated to
// both channels.
func (m *Machine) mixAudio() {
	ayBuf, ayCount := m.ay.GetBuffer()

	for i := 0; i < ayCount; i++ {
		s := ayBuf[i]
		m.audioBuffer = append(m.audioBuffer, s, s)
	}
	m.ay.ResetBuffer()

	m.applyLowPass()
}

// applyLowPass applies a first-order RC low-pass filter to the audio
// buffer, approximating the board's output RC network. Applied per
// stereo channel with state persisting across frames.
func (m *Machine) applyLowPass() {
	for i := 0; i < len(m.audioBuffer); i += 2 {
		inL := float64(m.audioBuffer[i])
		inR := float64(m.audioBuffer[i+1])
		m.filterPrevL = lpfAlpha*inL + (1-lpfAlpha)*m.filterPrevL
		m.filterPrevR = lpfAlpha*inR + (1-lpfAlpha)*m.filterPrevR
		m.audioBuffer[i] = int16(math.Round(m.filterPrevL))
		m.audioBuffer[i+1] = int16(math.Round(m.filterPrevR))
	}
}

// GetAudioSamples returns accumulated audio samples as 16-bit stereo PCM.
func (m *Machine) GetAudioSamples() []int16 {
	return m.audioBuffer
}
