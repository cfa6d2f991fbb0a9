package adapter

import (
	"errors"

	emucore "github.com/user-none/eblitui/api"

	"github.com/Lemon-King/emgp/emu"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for the Game Plan machine.
// The processing elements and the drawing engine are not part of the
// coordination core, so callers supply them here.
type Factory struct {
	// NewMainCPU and NewAudioCPU construct the two processing elements.
	// Both are required.
	NewMainCPU  func(emu.Bus) emu.CPU
	NewAudioCPU func(emu.Bus) emu.CPU

	// Engine consumes drawing commands. Nil gets a no-op engine.
	Engine emu.DrawEngine

	// Game selects the program set by short name; empty defaults to the
	// base Game Plan hardware with factory dips.
	Game string
}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            "emgp",
		ConsoleName:     "Game Plan",
		Extensions:      []string{".bin"},
		ScreenWidth:     emu.ScreenWidth,
		MaxScreenHeight: emu.ScreenHeight,
		AspectRatio:     4.0 / 3.0,
		SampleRate:      48000,
		Buttons: []emucore.Button{
			{Name: "Button 1", ID: 4, DefaultKey: "J", DefaultPad: "A"},
			{Name: "Button 2", ID: 5, DefaultKey: "K", DefaultPad: "B"},
			{Name: "Button 3", ID: 6, DefaultKey: "L", DefaultPad: "X"},
			{Name: "Button 4", ID: 7, DefaultKey: "U", DefaultPad: "Y"},
			{Name: "Start", ID: 8, DefaultKey: "Enter", DefaultPad: "Start"},
			{Name: "Coin", ID: 9, DefaultKey: "C", DefaultPad: "Select"},
		},
		Players: 2,
		CoreOptions: []emucore.CoreOption{
			{
				Key:         "timed_reset",
				Label:       "Timed Reset Output",
				Description: "Enable the undocumented periodic reset line on the I/O adapter",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
			},
		},
		DataDirName:   "emgp",
		CoreName:      emu.Name,
		CoreVersion:   emu.Version,
		SerializeSize: emu.SerializeSize(),
	}
}

// CreateEmulator creates a new machine instance with the given ROM and region.
func (f *Factory) CreateEmulator(rom []byte, region emucore.Region) (emucore.Emulator, error) {
	if f.NewMainCPU == nil || f.NewAudioCPU == nil {
		return nil, errors.New("adapter: CPU constructors not configured")
	}

	variant := emu.VariantGamePlan
	def, known := emu.LookupGame(f.Game)
	if known {
		variant = def.Variant
	}

	set, err := emu.ParseROM(rom, variant)
	if err != nil {
		return nil, err
	}

	m, err := emu.NewMachine(emu.Config{
		Variant:     variant,
		ROM:         set,
		NewMainCPU:  f.NewMainCPU,
		NewAudioCPU: f.NewAudioCPU,
		Engine:      f.Engine,
	})
	if err != nil {
		return nil, err
	}
	if known {
		def.Apply(m.IO())
	}
	return m, nil
}

// DetectRegion reports the fixed video standard; these boards only
// shipped in one. The bool return is false since no database lookup
// is involved.
func (f *Factory) DetectRegion(rom []byte) (emucore.Region, bool) {
	return emu.DetectRegion(rom), false
}
