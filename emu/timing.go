package emu

import emucore "github.com/user-none/eblitui/api"

// Region is an alias for emucore.Region so internal code compiles unchanged.
// Game Plan boards are NTSC-only; the alias exists for frontend plumbing.
type Region = emucore.Region

const (
	RegionNTSC = emucore.RegionNTSC
	RegionPAL  = emucore.RegionPAL
)

// Variant selects which board family is being emulated. The two families
// share the coordination fabric but differ in main CPU clock, audio ROM
// window and the video command channel wiring.
type Variant int

const (
	// VariantGamePlan is the original Game Plan board set
	// (Killer Comet, Megatack, Challenger, Kaos).
	VariantGamePlan Variant = iota
	// VariantTong is the later Tong Electronic board set
	// (Leprechaun, Pot of Gold, Pirate Treasure).
	VariantTong
)

// Master clocks. Both boards derive the CPU clocks by dividing a crystal
// by four; the AY-3-8910 runs at half the audio master clock.
const (
	mainMasterClockHz  = 3579545
	tongMasterClockHz  = 4000000
	audioMasterClockHz = 3579545
	pixelClockHz       = 11668800 / 2
)

// Raster geometry. 352 pixel clocks per line, 260 lines per frame,
// 256x256 visible.
const (
	hTotal = 352
	vTotal = 260

	// ScreenWidth is the visible raster width in pixels.
	ScreenWidth = 256
	// ScreenHeight is the visible raster height in pixels.
	ScreenHeight = 256
)

// VariantTiming holds the per-variant clock constants.
type VariantTiming struct {
	MainClockHz  int // main 6502 clock
	AudioClockHz int // audio 6502 clock
	AYClockHz    int // AY-3-8910 clock
	Scanlines    int // raster lines per frame
	FPS          int // nominal frame rate for frontend pacing
}

// GamePlanTiming: main and audio CPUs at 3.579545 MHz / 4.
var GamePlanTiming = VariantTiming{
	MainClockHz:  mainMasterClockHz / 4,
	AudioClockHz: audioMasterClockHz / 4,
	AYClockHz:    audioMasterClockHz / 2,
	Scanlines:    vTotal,
	FPS:          60,
}

// TongTiming: faster main CPU at 4 MHz / 4, same audio board.
var TongTiming = VariantTiming{
	MainClockHz:  tongMasterClockHz / 4,
	AudioClockHz: audioMasterClockHz / 4,
	AYClockHz:    audioMasterClockHz / 2,
	Scanlines:    vTotal,
	FPS:          60,
}

// GetTimingForVariant returns the clock constants for a board variant.
func GetTimingForVariant(v Variant) VariantTiming {
	if v == VariantTong {
		return TongTiming
	}
	return GamePlanTiming
}

// DefaultRegion returns the only region the hardware shipped in.
func DefaultRegion() Region {
	return RegionNTSC
}

// DetectRegion exists for frontend symmetry; the hardware is NTSC-only.
func DetectRegion(rom []byte) Region {
	return RegionNTSC
}
