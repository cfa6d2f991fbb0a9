package emu

import "testing"

func TestVIA_PortWrite_RespectsDirection(t *testing.T) {
	v := NewVIA()
	var got uint8
	v.WritePB = func(val uint8) { got = val }

	v.Write(viaDDRB, 0x0F)
	v.Write(viaORB, 0xA7)
	if got != 0x07|0xF0 {
		t.Errorf("expected port B 0xF7 (low nibble driven, rest floating high), got 0x%02X", got)
	}
}

func TestVIA_PortRead_CombinesInputAndOutput(t *testing.T) {
	v := NewVIA()
	v.ReadPA = func() uint8 { return 0x5A }

	v.Write(viaDDRA, 0xF0)
	v.Write(viaORA, 0xC3)
	if val := v.Read(viaORA); val != 0xC0|0x0A {
		t.Errorf("expected port A 0xCA, got 0x%02X", val)
	}
}

func TestVIA_PCRManualModes_DriveCA2(t *testing.T) {
	v := NewVIA()
	var edges []Edge
	v.OnCA2 = func(e Edge) { edges = append(edges, e) }

	// Manual low then manual high: one falling, one rising transition.
	v.Write(viaPCR, viaCtlOutLow<<1)
	v.Write(viaPCR, viaCtlOutHigh<<1)

	if len(edges) != 2 {
		t.Fatalf("expected 2 CA2 transitions, got %d", len(edges))
	}
	if !edges[0].Falling() {
		t.Error("expected first transition falling")
	}
	if !edges[1].Rising() {
		t.Error("expected second transition rising")
	}

	// Rewriting the same mode produces no further transition.
	v.Write(viaPCR, viaCtlOutHigh<<1)
	if len(edges) != 2 {
		t.Errorf("expected no transition on repeated mode write, got %d", len(edges))
	}
}

func TestVIA_PCRManualModes_DriveCB2(t *testing.T) {
	v := NewVIA()
	var edges []Edge
	v.OnCB2 = func(e Edge) { edges = append(edges, e) }

	v.Write(viaPCR, viaCtlOutLow<<5)
	v.Write(viaPCR, viaCtlOutHigh<<5)

	if len(edges) != 2 || !edges[0].Falling() || !edges[1].Rising() {
		t.Fatalf("expected falling then rising CB2, got %+v", edges)
	}
}

func TestVIA_CA1ActiveEdge_RaisesFlagAndIRQ(t *testing.T) {
	v := NewVIA()
	var irq bool
	v.IRQ = func(on bool) { irq = on }

	v.Write(viaIER, 0x80|viaIntCA1)

	// PCR bit 0 clear: active edge is the falling one. Lines idle high
	// after reset.
	v.SetCA1(false)
	if v.IFR()&viaIntCA1 == 0 {
		t.Error("expected CA1 flag after falling edge")
	}
	if !irq {
		t.Error("expected IRQ asserted")
	}

	// Reading ORA clears the flag and releases the line.
	v.Read(viaORA)
	if v.IFR()&viaIntCA1 != 0 {
		t.Error("expected CA1 flag cleared by ORA read")
	}
	if irq {
		t.Error("expected IRQ released")
	}

	// The inactive (rising) edge does not raise the flag.
	v.SetCA1(true)
	if v.IFR()&viaIntCA1 != 0 {
		t.Error("expected no CA1 flag on inactive edge")
	}
}

func TestVIA_CA1Polarity_RisingWhenPCRSet(t *testing.T) {
	v := NewVIA()
	v.Write(viaPCR, 0x01)

	v.SetCA1(false)
	if v.IFR()&viaIntCA1 != 0 {
		t.Error("expected no flag on falling edge with positive polarity")
	}
	v.SetCA1(true)
	if v.IFR()&viaIntCA1 == 0 {
		t.Error("expected flag on rising edge with positive polarity")
	}
}

func TestVIA_T1_OneShot(t *testing.T) {
	v := NewVIA()
	var irq bool
	v.IRQ = func(on bool) { irq = on }
	v.Write(viaIER, 0x80|viaIntT1)

	v.Write(viaT1CL, 10)
	v.Write(viaT1CH, 0)

	v.Tick(10)
	if v.IFR()&viaIntT1 != 0 {
		t.Error("expected no T1 flag before underflow")
	}
	v.Tick(1)
	if v.IFR()&viaIntT1 == 0 {
		t.Error("expected T1 flag after underflow")
	}
	if !irq {
		t.Error("expected IRQ asserted on T1 underflow")
	}

	// One-shot mode: no second interrupt without a reload.
	v.Write(viaIFR, viaIntT1)
	v.Tick(0x20000)
	if v.IFR()&viaIntT1 != 0 {
		t.Error("expected no repeat T1 flag in one-shot mode")
	}
}

func TestVIA_T1_FreeRunReloads(t *testing.T) {
	v := NewVIA()
	v.Write(viaACR, 0x40)
	v.Write(viaT1CL, 5)
	v.Write(viaT1CH, 0)

	v.Tick(6)
	if v.IFR()&viaIntT1 == 0 {
		t.Fatal("expected T1 flag after first underflow")
	}
	v.Write(viaIFR, viaIntT1)

	v.Tick(6)
	if v.IFR()&viaIntT1 == 0 {
		t.Error("expected T1 flag again after free-run reload")
	}
}

func TestVIA_T2_OneShot(t *testing.T) {
	v := NewVIA()
	v.Write(viaT2CL, 3)
	v.Write(viaT2CH, 0)

	v.Tick(3)
	if v.IFR()&viaIntT2 != 0 {
		t.Error("expected no T2 flag before underflow")
	}
	v.Tick(1)
	if v.IFR()&viaIntT2 == 0 {
		t.Error("expected T2 flag after underflow")
	}
}

func TestVIA_IER_SetClearSemantics(t *testing.T) {
	v := NewVIA()

	v.Write(viaIER, 0x80|viaIntT1|viaIntCA1)
	if got := v.Read(viaIER); got != 0x80|viaIntT1|viaIntCA1 {
		t.Errorf("expected IER 0xC2, got 0x%02X", got)
	}

	v.Write(viaIER, viaIntT1) // clear T1 enable
	if got := v.Read(viaIER); got != 0x80|viaIntCA1 {
		t.Errorf("expected IER 0x82, got 0x%02X", got)
	}
}
