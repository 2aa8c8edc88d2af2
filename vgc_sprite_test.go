package main

import "testing"

// fillSpriteShapeOpaque fills a 16x16 shape slot with a single opaque nibble
// color, packed two pixels per byte, via repeated CmdSprDef writes.
func fillSpriteShapeOpaque(m *Machine, slot, color byte) {
	packed := color | color<<4
	for off := 0; off < SpriteShapeBytes; off++ {
		writeVGCParams(m, slot, byte(off), packed)
		m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprDef)
	}
}

func TestVGCSpriteRegisterRoundTrip(t *testing.T) {
	m := newTestMachine(t)
	v := m.VGC

	writeVGCParams(m, 2, 100, 0, 50, 0) // n=2, x=100, y=50
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprPos)
	writeVGCParams(m, 2)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprEna)
	writeVGCParams(m, 2, 9)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprClr)
	writeVGCParams(m, 2, PriorityFront)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprPri)
	writeVGCParams(m, 2, 3) // shape slot 3
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprShape)

	if x, y := v.spriteX(2), v.spriteY(2); x != 100 || y != 50 {
		t.Fatalf("sprite position = (%d,%d), want (100,50)", x, y)
	}
	if !v.spriteEnabled(2) {
		t.Fatalf("sprite 2 not enabled")
	}
	if got := v.spriteTransColor(2); got != 9 {
		t.Fatalf("transparent color = %d, want 9", got)
	}
	if got := v.spritePriority(2); got != PriorityFront {
		t.Fatalf("priority = %d, want %d", got, PriorityFront)
	}
	if got := v.spriteRegs[2][SprOffShape]; got != 3 {
		t.Fatalf("shape slot = %d, want 3", got)
	}

	writeVGCParams(m, 2)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprDis)
	if v.spriteEnabled(2) {
		t.Fatalf("sprite 2 still enabled after SprDis")
	}
}

func TestVGCSpriteHFlipMirrorsPixels(t *testing.T) {
	m := newTestMachine(t)
	v := m.VGC

	// Row 0 of shape slot 0: px0=1, px1=2, rest 0 (packed low nibble first).
	writeVGCParams(m, 0, 0, 1|2<<4)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprDef)

	writeVGCParams(m, 0, 0) // sprite 0, shape slot 0
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprShape)

	if got := v.spritePixel(0, 0, 0); got != 1 {
		t.Fatalf("unflipped pixel(0,0) = %d, want 1", got)
	}
	writeVGCParams(m, 0, SprFlagHFlip)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprFlip)
	if got := v.spritePixel(0, 0, 0); got != 0 {
		t.Fatalf("hflipped pixel(0,0) = %d, want 0 (was pixel 15)", got)
	}
	if got := v.spritePixel(0, 15, 0); got != 1 {
		t.Fatalf("hflipped pixel(15,0) = %d, want 1", got)
	}
}

func TestVGCSpriteCollisionReadClear(t *testing.T) {
	m := newTestMachine(t)
	v := m.VGC

	fillSpriteShapeOpaque(m, 0, 1)
	fillSpriteShapeOpaque(m, 1, 1)

	writeVGCParams(m, 0, 0, 0, 0, 0) // sprite 0 at (0,0), shape 0
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprPos)
	writeVGCParams(m, 0, 0)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprShape)
	writeVGCParams(m, 0)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprEna)

	writeVGCParams(m, 1, 8, 0, 8, 0) // sprite 1 at (8,8), overlapping sprite 0
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprPos)
	writeVGCParams(m, 1, 1)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprShape)
	writeVGCParams(m, 1)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprEna)

	v.computeCollisions()

	if got := v.Collision(0); got&(1<<1) == 0 {
		t.Fatalf("sprite 0 collision mask = %#x, want bit 1 set", got)
	}
	if got := v.Collision(0); got != 0 {
		t.Fatalf("second Collision(0) read = %#x, want 0 (read-clear)", got)
	}
	if got := v.Collision(1); got&(1<<0) == 0 {
		t.Fatalf("sprite 1 collision mask = %#x, want bit 0 set", got)
	}
}

func TestVGCSpriteBumpedAgainstGraphicsReadClear(t *testing.T) {
	m := newTestMachine(t)
	v := m.VGC

	fillSpriteShapeOpaque(m, 2, 1)
	writeVGCParams(m, 4, 50, 0, 50, 0) // sprite 4 at (50,50), shape 2
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprPos)
	writeVGCParams(m, 4, 2)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprShape)
	writeVGCParams(m, 4)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprEna)

	m.Bus.Write8(VGCRegBase+RegDrawColor, 3)
	writeVGCParams(m, 50, 0, 50, 0)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdPlot)

	v.computeCollisions()

	if !v.Bumped(4) {
		t.Fatalf("sprite 4 did not bump against background graphics")
	}
	if v.Bumped(4) {
		t.Fatalf("second Bumped(4) read still true, want cleared")
	}
}

func TestVGCSpriteNoCollisionWhenTransparent(t *testing.T) {
	m := newTestMachine(t)
	v := m.VGC

	// Both sprites' shapes stay all-zero (the default transparent color),
	// so even with overlapping boxes no pixel overlap is ever found.
	writeVGCParams(m, 0, 0, 0, 0, 0)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprPos)
	writeVGCParams(m, 0)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprEna)

	writeVGCParams(m, 1, 4, 0, 4, 0)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprPos)
	writeVGCParams(m, 1)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdSprEna)

	v.computeCollisions()

	if got := v.Collision(0); got != 0 {
		t.Fatalf("collision mask = %#x, want 0 for all-transparent sprites", got)
	}
}
