package emu

import "testing"

func TestParseROM_SplitsMainAndAudio(t *testing.T) {
	data := make([]byte, mainROMWindow+audioROMWindowGP)
	data[0] = 0x11
	data[mainROMWindow] = 0x22

	set, err := ParseROM(data, VariantGamePlan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Main) != mainROMWindow {
		t.Errorf("expected %d byte main image, got %d", mainROMWindow, len(set.Main))
	}
	if set.Main[0] != 0x11 {
		t.Errorf("expected main image first byte 0x11, got 0x%02X", set.Main[0])
	}
	if len(set.Audio) != audioROMWindowGP {
		t.Errorf("expected %d byte audio image, got %d", audioROMWindowGP, len(set.Audio))
	}
	if set.Audio[0] != 0x22 {
		t.Errorf("expected audio image first byte 0x22, got 0x%02X", set.Audio[0])
	}
}

func TestParseROM_TooSmall(t *testing.T) {
	if _, err := ParseROM(make([]byte, mainROMWindow), VariantGamePlan); err == nil {
		t.Error("expected error for image with no audio program")
	}
}

func TestROMSet_Validate(t *testing.T) {
	good := ROMSet{
		Main:  make([]byte, mainROMWindow),
		Audio: make([]byte, audioROMWindowGP),
	}
	if err := good.Validate(VariantGamePlan); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := (ROMSet{Audio: good.Audio}).Validate(VariantGamePlan); err == nil {
		t.Error("expected error for empty main image")
	}
	if err := (ROMSet{Main: good.Main}).Validate(VariantGamePlan); err == nil {
		t.Error("expected error for empty audio image")
	}

	big := ROMSet{
		Main:  good.Main,
		Audio: make([]byte, audioROMWindowTong),
	}
	if err := big.Validate(VariantGamePlan); err == nil {
		t.Error("expected error for 4KB audio image on a 2KB window")
	}
	if err := big.Validate(VariantTong); err != nil {
		t.Errorf("expected 4KB audio image valid on Tong hardware, got %v", err)
	}
}

func TestROMSet_CRC_TracksBothImages(t *testing.T) {
	a := ROMSet{Main: []byte{1, 2, 3}, Audio: []byte{4, 5, 6}}
	b := ROMSet{Main: []byte{1, 2, 3}, Audio: []byte{4, 5, 7}}

	if a.CRC() == b.CRC() {
		t.Error("expected differing audio images to change the checksum")
	}
	if a.CRC() != a.CRC() {
		t.Error("expected checksum to be stable")
	}
}
