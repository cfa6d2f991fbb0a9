package emu

import "testing"

func TestIO_Select_ValidCodes(t *testing.T) {
	io := NewIO()
	io.Inputs = Inputs{
		IN0: 0x10, IN1: 0x21, IN2: 0x32, IN3: 0x43,
		DSWA: 0x54, DSWB: 0x65,
	}

	cases := []struct {
		code uint8
		want uint8
	}{
		{0x01, 0x10},
		{0x02, 0x21},
		{0x04, 0x32},
		{0x08, 0x43},
		{0x80, 0x54},
		{0x40, 0x65},
	}
	for _, c := range cases {
		io.Select(c.code)
		if got := io.Read(); got != c.want {
			t.Errorf("select 0x%02X: expected read 0x%02X, got 0x%02X", c.code, c.want, got)
		}
	}
}

func TestIO_Select_InvalidCodeKeepsPrior(t *testing.T) {
	io := NewIO()
	io.Inputs.IN3 = 0xA5

	io.Select(0x08)
	for _, code := range []uint8{0x00, 0x03, 0x10, 0x20, 0xFF} {
		io.Select(code)
		if got := io.Read(); got != 0xA5 {
			t.Errorf("after invalid select 0x%02X: expected read 0xA5, got 0x%02X", code, got)
		}
	}
	if io.CurrentPort() != 3 {
		t.Errorf("expected current port 3, got %d", io.CurrentPort())
	}
}

func TestIO_Reset_ReturnsToPortZero(t *testing.T) {
	io := NewIO()
	io.Select(0x40)
	io.Reset()
	if io.CurrentPort() != 0 {
		t.Errorf("expected current port 0 after reset, got %d", io.CurrentPort())
	}
}

func TestIO_CoinLine_CountsCounterRisingOnly(t *testing.T) {
	io := NewIO()

	// Counter level is the inverse of the line level: a falling line
	// edge drives the counter high and registers one coin.
	io.CoinLine(Edge{Prev: true, Cur: false})
	if io.CoinCount() != 1 {
		t.Errorf("expected 1 coin after line falling edge, got %d", io.CoinCount())
	}

	// Releasing the line does not count again.
	io.CoinLine(Edge{Prev: false, Cur: true})
	if io.CoinCount() != 1 {
		t.Errorf("expected 1 coin after line rising edge, got %d", io.CoinCount())
	}

	// Repeated level writes without a transition do not count.
	io.CoinLine(Edge{Prev: true, Cur: true})
	io.CoinLine(Edge{Prev: true, Cur: true})
	if io.CoinCount() != 1 {
		t.Errorf("expected 1 coin after repeated levels, got %d", io.CoinCount())
	}

	io.CoinLine(Edge{Prev: true, Cur: false})
	if io.CoinCount() != 2 {
		t.Errorf("expected 2 coins after second falling edge, got %d", io.CoinCount())
	}
}

func TestIO_CabinetFlags(t *testing.T) {
	io := NewIO()

	io.Inputs.DSWB = dswbFlipScreen | dswbUpright
	if io.FlipScreen() {
		t.Error("expected flip screen off with flip bit set")
	}
	if !io.Upright() {
		t.Error("expected upright cabinet with upright bit set")
	}

	io.Inputs.DSWB = 0
	if !io.FlipScreen() {
		t.Error("expected flip screen on with flip bit clear")
	}
	if io.Upright() {
		t.Error("expected cocktail cabinet with upright bit clear")
	}
}

func TestIO_SetInput_CoinAndStart(t *testing.T) {
	io := NewIO()

	// Coin is active high in IN0, start is active low in IN1.
	io.SetInput(0, 1<<buttonCoin)
	io.Select(0x01)
	if got := io.Read(); got&0x80 == 0 {
		t.Errorf("expected player 1 coin bit set, got 0x%02X", got)
	}

	io.SetInput(0, 1<<buttonStart)
	io.Select(0x02)
	if got := io.Read(); got&0x80 != 0 {
		t.Errorf("expected player 1 start bit low, got 0x%02X", got)
	}

	io.SetInput(0, 0)
	io.Select(0x01)
	if got := io.Read(); got&0x80 != 0 {
		t.Errorf("expected coin bit clear after release, got 0x%02X", got)
	}
	io.Select(0x02)
	if got := io.Read(); got&0x80 == 0 {
		t.Errorf("expected start bit high after release, got 0x%02X", got)
	}
}
