package main

import "testing"

func writeBlitParams(m *Machine, params ...byte) {
	for i, b := range params {
		m.Bus.Write8(BlitterRegBase+uint16(i), b)
	}
}

func blitCmd(m *Machine, cmd byte) {
	m.Bus.Write8(BlitterRegBase+BlitRegCmd, cmd)
}

func lohi16(v int) (byte, byte) { return byte(v), byte(v >> 8) }

func TestBlitterCopy2DWithStride(t *testing.T) {
	m := newTestMachine(t)
	// Two 4-byte rows ten bytes apart in CPU RAM, copied into a tightly
	// packed 4-byte-wide destination.
	m.Bus.Write8(0x2000, 1)
	m.Bus.Write8(0x2001, 2)
	m.Bus.Write8(0x2002, 3)
	m.Bus.Write8(0x2003, 4)
	m.Bus.Write8(0x200A, 5)
	m.Bus.Write8(0x200B, 6)
	m.Bus.Write8(0x200C, 7)
	m.Bus.Write8(0x200D, 8)

	srcOffLo, srcOffHi := lohi16(0x2000)
	srcStrideLo, srcStrideHi := lohi16(10)
	dstOffLo, dstOffHi := lohi16(0x3000)
	dstStrideLo, dstStrideHi := lohi16(4)
	widthLo, widthHi := lohi16(4)
	heightLo, heightHi := lohi16(2)

	writeBlitParams(m,
		SpaceCPURAM, srcOffLo, srcOffHi, srcStrideLo, srcStrideHi,
		SpaceCPURAM, dstOffLo, dstOffHi, dstStrideLo, dstStrideHi,
		widthLo, widthHi, heightLo, heightHi,
		0, 0, 0, // mode, colorKey, fillValue
	)
	blitCmd(m, BlitCmdCopy)

	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	for i, w := range want {
		if got := m.Bus.Read8(0x3000 + uint16(i)); got != w {
			t.Fatalf("dst[%d] = %d, want %d", i, got, w)
		}
	}
	if got := m.Bus.Read8(BlitterRegBase + BlitRegStatus); got != BlitStatusOK {
		t.Fatalf("status = %d, want BlitStatusOK", got)
	}
}

func TestBlitterColorKeySkipsMatchingSourceBytes(t *testing.T) {
	m := newTestMachine(t)
	m.Bus.Write8(0x2000, 9)
	m.Bus.Write8(0x2001, 0xFF) // color key, must not overwrite dest
	m.Bus.Write8(0x3000, 0x11)
	m.Bus.Write8(0x3001, 0x22)

	srcOffLo, srcOffHi := lohi16(0x2000)
	dstOffLo, dstOffHi := lohi16(0x3000)
	strideLo, strideHi := lohi16(2)
	widthLo, widthHi := lohi16(2)

	writeBlitParams(m,
		SpaceCPURAM, srcOffLo, srcOffHi, strideLo, strideHi,
		SpaceCPURAM, dstOffLo, dstOffHi, strideLo, strideHi,
		widthLo, widthHi, 1, 0,
		BlitModeColorKey, 0xFF, 0,
	)
	blitCmd(m, BlitCmdCopy)

	if got := m.Bus.Read8(0x3000); got != 9 {
		t.Fatalf("dst[0] = %d, want 9", got)
	}
	if got := m.Bus.Read8(0x3001); got != 0x22 {
		t.Fatalf("color-keyed byte overwrote dest: dst[1] = %d, want 0x22 unchanged", got)
	}
}

func TestBlitterScrollUpGfxPlane(t *testing.T) {
	m := newTestMachine(t)
	v := m.VGC
	v.setGfxPixel(5, 1, 7) // a marker pixel on row 1

	rowBytes := CanvasWidth / 2
	srcOffLo, srcOffHi := lohi16(rowBytes) // row 1
	dstOffLo, dstOffHi := lohi16(0)        // row 0
	strideLo, strideHi := lohi16(rowBytes)
	widthLo, widthHi := lohi16(rowBytes)
	heightLo, heightHi := lohi16(CanvasHeight - 1)

	writeBlitParams(m,
		SpaceGfx, srcOffLo, srcOffHi, strideLo, strideHi,
		SpaceGfx, dstOffLo, dstOffHi, strideLo, strideHi,
		widthLo, widthHi, heightLo, heightHi,
		0, 0, 0,
	)
	blitCmd(m, BlitCmdCopy)

	if got := v.getGfxPixel(5, 0); got != 7 {
		t.Fatalf("scrolled pixel(5,0) = %d, want 7", got)
	}
	if got := m.Bus.Read8(BlitterRegBase + BlitRegStatus); got != BlitStatusOK {
		t.Fatalf("status = %d, want BlitStatusOK", got)
	}
}

func TestBlitterFillRespectsStride(t *testing.T) {
	m := newTestMachine(t)
	strideLo, strideHi := lohi16(10)
	widthLo, widthHi := lohi16(4)

	writeBlitParams(m,
		0, 0, 0, 0, 0, // src fields unused for fill
		SpaceCPURAM, 0, 0x40, strideLo, strideHi, // dst offset 0x4000
		widthLo, widthHi, 2, 0, // width 4, height 2
		0, 0, 0x33, // fillValue
	)
	blitCmd(m, BlitCmdFill)

	for _, off := range []uint16{0x4000, 0x4001, 0x4002, 0x4003, 0x400A, 0x400B, 0x400C, 0x400D} {
		if got := m.Bus.Read8(off); got != 0x33 {
			t.Fatalf("filled byte at %#x = %#x, want 0x33", off, got)
		}
	}
	if got := m.Bus.Read8(0x4004); got != 0 {
		t.Fatalf("stride gap byte at 0x4004 = %#x, want untouched 0", got)
	}
}

func TestBlitterZeroWidthReportsErrBadArgs(t *testing.T) {
	m := newTestMachine(t)
	writeBlitParams(m,
		SpaceCPURAM, 0, 0, 0, 0,
		SpaceCPURAM, 0, 0, 0, 0,
		0, 0, 1, 0,
		0, 0, 0,
	)
	blitCmd(m, BlitCmdCopy)
	if got := m.Bus.Read8(BlitterRegBase + BlitRegError); got != ErrBadArgs {
		t.Fatalf("error = %d, want ErrBadArgs", got)
	}
}
