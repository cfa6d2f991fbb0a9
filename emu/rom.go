package emu

import (
	"errors"
	"hash/crc32"
)

// ROM image size limits. The main program occupies the top of the
// 0x8000-0xFFFF window; the audio program occupies a 2KB window on
// Game Plan boards and a 4KB window on Tong boards.
const (
	mainROMWindow      = 0x8000
	audioROMWindowGP   = 0x0800
	audioROMWindowTong = 0x1000
)

// ROMSet holds the program images for both processors.
type ROMSet struct {
	Main  []byte // mapped into the top of 0x8000-0xFFFF
	Audio []byte // mapped into the audio ROM window at 0xE000
}

// Validate checks the image sizes against the variant's windows.
func (r ROMSet) Validate(v Variant) error {
	if len(r.Main) == 0 {
		return errors.New("main ROM image is empty")
	}
	if len(r.Main) > mainROMWindow {
		return errors.New("main ROM image exceeds 32KB window")
	}
	if len(r.Audio) == 0 {
		return errors.New("audio ROM image is empty")
	}
	if len(r.Audio) > audioROMWindow(v) {
		return errors.New("audio ROM image exceeds window")
	}
	return nil
}

// CRC returns a checksum over both program images, used to tie save
// states to the ROM they were taken from.
func (r ROMSet) CRC() uint32 {
	crc := crc32.ChecksumIEEE(r.Main)
	return crc32.Update(crc, crc32.IEEETable, r.Audio)
}

// audioROMWindow returns the audio ROM window size for a variant.
func audioROMWindow(v Variant) int {
	if v == VariantTong {
		return audioROMWindowTong
	}
	return audioROMWindowGP
}

// ParseROM splits a single flat image into a ROMSet. The layout is the
// main program padded to 32KB followed by the audio program. This is the
// format the frontend loads; callers building a Machine directly can fill
// a ROMSet themselves.
func ParseROM(data []byte, v Variant) (ROMSet, error) {
	if len(data) <= mainROMWindow {
		return ROMSet{}, errors.New("ROM image too small: missing audio program")
	}
	set := ROMSet{
		Main:  data[:mainROMWindow],
		Audio: data[mainROMWindow:],
	}
	if err := set.Validate(v); err != nil {
		return ROMSet{}, err
	}
	return set, nil
}
