package main

import "testing"

func writeVGCParams(m *Machine, params ...byte) {
	for i, b := range params {
		m.Bus.Write8(VGCRegBase+RegP0+uint16(i), b)
	}
}

func TestVGCPlotReadRoundTrip(t *testing.T) {
	m := newTestMachine(t)
	m.Bus.Write8(VGCRegBase+RegDrawColor, 9)
	writeVGCParams(m, 10, 0, 20, 0) // x=10, y=20
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdPlot)

	if got := m.VGC.getGfxPixel(10, 20); got != 9 {
		t.Fatalf("plotted pixel = %d, want 9", got)
	}
}

func TestVGCFillClipsToCanvas(t *testing.T) {
	m := newTestMachine(t)
	// A fill rectangle extending far past the 320x200 canvas must clip
	// rather than panic or wrap, per the "FILL clip to 64000 pixels"
	// end-to-end scenario: the whole canvas filled is exactly
	// CanvasWidth*CanvasHeight pixels, none more.
	writeVGCParams(m, 0xFB, 0xFF, 0xFB, 0xFF, 0x90, 0x01, 0x2C, 0x01, 5) // (-5,-5)-(400,300), color 5
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdFill)

	if got := m.VGC.getGfxPixel(0, 0); got != 5 {
		t.Fatalf("corner pixel = %d, want 5", got)
	}
	if got := m.VGC.getGfxPixel(CanvasWidth-1, CanvasHeight-1); got != 5 {
		t.Fatalf("far corner pixel = %d, want 5", got)
	}

	filled := 0
	for y := 0; y < CanvasHeight; y++ {
		for x := 0; x < CanvasWidth; x++ {
			if m.VGC.getGfxPixel(x, y) == 5 {
				filled++
			}
		}
	}
	const wantPixels = CanvasWidth * CanvasHeight
	if filled != wantPixels {
		t.Fatalf("filled %d pixels, want exactly %d", filled, wantPixels)
	}
}

func TestVGCUnplotClearsPixel(t *testing.T) {
	m := newTestMachine(t)
	m.Bus.Write8(VGCRegBase+RegDrawColor, 3)
	writeVGCParams(m, 5, 0, 5, 0)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdPlot)
	writeVGCParams(m, 5, 0, 5, 0)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdUnplot)
	if got := m.VGC.getGfxPixel(5, 5); got != 0 {
		t.Fatalf("unplotted pixel = %d, want 0", got)
	}
}

func TestVGCPaintFloodFillBounded(t *testing.T) {
	m := newTestMachine(t)
	// Draw a 10x10 filled box of color 1, then paint its interior with
	// color 2; the fill must stop at the box border, not spill across the
	// whole canvas. RECT draws in the current draw color; P8 is its filled
	// flag.
	m.Bus.Write8(VGCRegBase+RegDrawColor, 1)
	writeVGCParams(m, 0, 0, 0, 0, 9, 0, 9, 0, 1)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdRect)

	m.Bus.Write8(VGCRegBase+RegDrawColor, 2)
	writeVGCParams(m, 4, 0, 4, 0)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdPaint)

	if got := m.VGC.getGfxPixel(4, 4); got != 2 {
		t.Fatalf("interior pixel = %d, want 2", got)
	}
	if got := m.VGC.getGfxPixel(100, 100); got != 0 {
		t.Fatalf("flood fill spilled outside the box: pixel(100,100) = %d, want 0", got)
	}
}
