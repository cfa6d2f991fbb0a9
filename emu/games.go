package emu

// Definition describes one supported board/program pairing: which
// hardware variant it runs on and the dip settings it ships with.
type Definition struct {
	Name    string
	Title   string
	Variant Variant

	// Factory dip defaults. The selector banks and the audio-board
	// banks are all active low; 0xFF is everything off.
	DSWA uint8
	DSWB uint8
	DSW2 uint8
	DSW3 uint8
}

// Games lists the supported program sets.
var Games = []Definition{
	{Name: "killcom", Title: "Killer Comet", Variant: VariantGamePlan, DSWA: 0xFF, DSWB: 0xC0, DSW2: 0xFF, DSW3: 0xFF},
	{Name: "megatack", Title: "Megatack", Variant: VariantGamePlan, DSWA: 0xFF, DSWB: 0xC0, DSW2: 0xFF, DSW3: 0xFF},
	{Name: "challeng", Title: "Challenger", Variant: VariantGamePlan, DSWA: 0xFF, DSWB: 0xC0, DSW2: 0xFF, DSW3: 0xFF},
	{Name: "kaos", Title: "Kaos", Variant: VariantGamePlan, DSWA: 0xFF, DSWB: 0xC0, DSW2: 0xFF, DSW3: 0xFF},
	{Name: "leprechn", Title: "Leprechaun", Variant: VariantTong, DSWA: 0xFF, DSWB: 0xC0, DSW2: 0xFF, DSW3: 0xFF},
	{Name: "potogold", Title: "Pot of Gold", Variant: VariantTong, DSWA: 0xFF, DSWB: 0xC0, DSW2: 0xFF, DSW3: 0xFF},
	{Name: "piratetr", Title: "Pirate Treasure", Variant: VariantTong, DSWA: 0xFF, DSWB: 0xC0, DSW2: 0xFF, DSW3: 0xFF},
}

// LookupGame finds a definition by its short name. The zero Definition
// and false are returned when the name is unknown.
func LookupGame(name string) (Definition, bool) {
	for _, g := range Games {
		if g.Name == name {
			return g, true
		}
	}
	return Definition{}, false
}

// Apply copies the definition's dip defaults into the input block.
func (d Definition) Apply(io *IO) {
	io.Inputs.DSWA = d.DSWA
	io.Inputs.DSWB = d.DSWB
	io.Inputs.DSW2 = d.DSW2
	io.Inputs.DSW3 = d.DSW3
}
