// vgc.go - video graphics controller: register file, command dispatch,
// and the raw video memories it owns (spec §4.2).

package main

import "sync"

// CopperEvent is one scheduled register write, keyed by raster position.
type CopperEvent struct {
	Position uint32 // y*320 + x
	Register uint16 // 0..15 index, or an absolute A040..A0BF sprite-register address
	Value    byte
}

// CopperList is a sorted, duplicate-free (by (position,register)) event set
// per spec §3 "Copper lists" and invariant 3.
type CopperList struct {
	events []CopperEvent
}

// VGC is the video graphics controller: register file, text/graphics/sprite
// memories, copper lists and the compositor state that drives them.
type VGC struct {
	mu sync.Mutex

	m *Machine // back-reference, for MemIO command dispatch across unified spaces

	regs       [32]byte
	spriteRegs [NumSprites][SprRegSize]byte

	charRAM      [CharRAMSize]byte
	colorRAM     [ColorRAMSize]byte
	gfxBitmap    [GfxBitmapSize]byte
	spriteShapes [SpriteShapeMemSize]byte

	lastMemIOResult byte

	copperLists   [NumCopperLists]CopperList
	targetList    int
	activeList    int
	pendingActive int
	pendingSwap   bool
	copperEnabled bool

	collision     [NumSprites]uint16
	collisionRead [NumSprites]bool
	bumped        [NumSprites]bool
	bumpedRead    [NumSprites]bool

	priorityBehind  [CanvasWidth * CanvasHeight]int16
	priorityBetween [CanvasWidth * CanvasHeight]int16
	priorityFront   [CanvasWidth * CanvasHeight]int16

	frameCounter uint64

	front [CanvasWidth * CanvasHeight]byte // last composited frame, for inspection
}

const SprRegSize = 8

// noSpritePixel marks "nothing drawn here" in a priority map, distinct from
// color index 0 which is a legitimate drawable color.
const noSpritePixel = -1

// NewVGC constructs a VGC with all memories zeroed and priority maps empty.
func NewVGC() *VGC {
	v := &VGC{}
	v.resetPriorityMaps()
	return v
}

func (v *VGC) resetPriorityMaps() {
	for i := range v.priorityBehind {
		v.priorityBehind[i] = noSpritePixel
		v.priorityBetween[i] = noSpritePixel
		v.priorityFront[i] = noSpritePixel
	}
}

// Reset is the VGC's warm reset: registers, sprites, copper state and
// collision latches return to their defaults; video memories (char/color/gfx/sprite
// shapes) are left untouched, matching spec §3's warm-start preservation
// rule. ColdReset additionally clears the video memories.
func (v *VGC) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.regs = [32]byte{}
	v.spriteRegs = [NumSprites][SprRegSize]byte{}
	for i := range v.copperLists {
		v.copperLists[i].events = nil
	}
	v.targetList = 0
	v.activeList = 0
	v.pendingActive = 0
	v.pendingSwap = false
	v.copperEnabled = false
	v.collision = [NumSprites]uint16{}
	v.collisionRead = [NumSprites]bool{}
	v.bumped = [NumSprites]bool{}
	v.bumpedRead = [NumSprites]bool{}
	v.resetPriorityMaps()
}

// ColdReset clears everything Reset does, plus the video memories
// themselves.
func (v *VGC) ColdReset() {
	v.Reset()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.charRAM = [CharRAMSize]byte{}
	v.colorRAM = [ColorRAMSize]byte{}
	v.gfxBitmap = [GfxBitmapSize]byte{}
	v.spriteShapes = [SpriteShapeMemSize]byte{}
	v.front = [CanvasWidth * CanvasHeight]byte{}
}

// ReadReg handles CPU reads of A000-A01F.
func (v *VGC) ReadReg(addr uint16) byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	off := addr - VGCRegBase
	if off == RegMemIOResult {
		return v.lastMemIOResult
	}
	return v.regs[off]
}

// WriteReg handles CPU writes of A000-A01F. A write to the control register
// (A010) triggers command dispatch once the byte is stored, per spec §4.2:
// "the VGC reads the current parameter registers and executes the command
// before the CPU's next instruction observes a changed state."
func (v *VGC) WriteReg(addr uint16, val byte) {
	v.mu.Lock()
	off := addr - VGCRegBase
	v.regs[off] = val
	if off == RegCtrl {
		v.dispatch(val)
	}
	v.mu.Unlock()
}

// param returns parameter byte Pi, or 0 when i is outside P0..P13.
func (v *VGC) param(i int) byte {
	if i < 0 || i >= RegParamCount {
		return 0
	}
	return v.regs[RegP0+i]
}

func (v *VGC) param16(i int) int16 {
	lo := uint16(v.param(i))
	hi := uint16(v.param(i + 1))
	return int16(lo | hi<<8)
}

func (v *VGC) paramU16(i int) uint16 {
	lo := uint16(v.param(i))
	hi := uint16(v.param(i + 1))
	return lo | hi<<8
}

// dispatch executes the command whose byte code was just written to A010.
// Must be called with v.mu held.
func (v *VGC) dispatch(cmd byte) {
	switch cmd {
	case CmdPlot:
		v.plot(int(v.param16(0)), int(v.param16(2)), v.drawColor())
	case CmdUnplot:
		v.plot(int(v.param16(0)), int(v.param16(2)), 0)
	case CmdLine:
		v.line(int(v.param16(0)), int(v.param16(2)), int(v.param16(4)), int(v.param16(6)), v.drawColor())
	case CmdRect:
		v.rect(int(v.param16(0)), int(v.param16(2)), int(v.param16(4)), int(v.param16(6)), v.param(8) != 0, v.drawColor())
	case CmdFill:
		v.fillRect(int(v.param16(0)), int(v.param16(2)), int(v.param16(4)), int(v.param16(6)), v.param(8))
	case CmdCircle:
		v.circle(int(v.param16(0)), int(v.param16(2)), int(v.param16(4)), v.drawColor())
	case CmdPaint:
		v.paint(int(v.param16(0)), int(v.param16(2)), v.drawColor())
	case CmdGCLS:
		v.gcls()
	case CmdGColor:
		v.gcolor(v.param(0))

	case CmdSprDef:
		v.sprDef(v.param(0), v.param(1), v.param(2))
	case CmdSprRow:
		v.sprRow(v.param(0), v.param(1), v.paramBytes(2, 8))
	case CmdSprPos:
		v.sprPos(v.param(0), v.param16(1), v.param16(3))
	case CmdSprEna:
		v.sprEna(v.param(0), true)
	case CmdSprDis:
		v.sprEna(v.param(0), false)
	case CmdSprClr:
		v.sprTransColor(v.param(0), v.param(1))
	case CmdSprPri:
		v.sprPriority(v.param(0), v.param(1))
	case CmdSprFlip:
		v.sprFlip(v.param(0), v.param(1))
	case CmdSprCopy:
		v.sprCopy(v.param(0), v.param(1))
	case CmdSprShape:
		v.sprShape(v.param(0), v.param(1))

	case CmdMemRead:
		v.memRead(v.param(0), v.paramU16(1))
	case CmdMemWrite:
		v.memWrite(v.param(0), v.paramU16(1), v.param(3))

	case CmdCopperAdd:
		v.copperAdd(v.paramU16(0), v.param(2), v.paramU16(3), v.param(5))
	case CmdCopperClear:
		v.copperClear()
	case CmdCopperEnable:
		v.copperEnabled = true
	case CmdCopperDisable:
		v.copperEnabled = false
	case CmdCopperList:
		v.copperSetTarget(int(v.param(0)))
	case CmdCopperUse:
		v.copperScheduleActive(int(v.param(0)))
	case CmdCopperListEnd:
		v.targetList = v.activeList
	}
}

func (v *VGC) paramBytes(start, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = v.param(start + i)
	}
	return out
}

func (v *VGC) drawColor() byte { return v.regs[RegDrawColor] }

func (v *VGC) gcolor(c byte) {
	if c == 0 {
		c = v.textFgColor()
	}
	v.regs[RegDrawColor] = c
}

// textFgColor is a placeholder default foreground used when GCOLOR(0) asks
// to substitute the text layer's foreground color; without a cursor
// position to sample, white (color 15) is used.
func (v *VGC) textFgColor() byte { return 15 }

func (v *VGC) gcls() {
	for i := range v.gfxBitmap {
		v.gfxBitmap[i] = 0
	}
}

// ReadCharRAM / WriteCharRAM / ReadColorRAM / WriteColorRAM back both the
// CPU-bus char/color RAM ranges and the char/color unified memory spaces.
func (v *VGC) ReadCharRAM(off uint16) byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	if int(off) >= len(v.charRAM) {
		return 0
	}
	return v.charRAM[off]
}

func (v *VGC) WriteCharRAM(off uint16, val byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if int(off) >= len(v.charRAM) {
		return
	}
	v.charRAM[off] = val
}

func (v *VGC) ReadColorRAM(off uint16) byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	if int(off) >= len(v.colorRAM) {
		return 0
	}
	return v.colorRAM[off]
}

func (v *VGC) WriteColorRAM(off uint16, val byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if int(off) >= len(v.colorRAM) {
		return
	}
	v.colorRAM[off] = val
}

// ReadGfxByte / WriteGfxByte expose the packed 4bpp graphics bitmap to the
// unified memory space views used by DMA and the blitter.
func (v *VGC) ReadGfxByte(off uint32) byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	if off >= GfxBitmapSize {
		return 0
	}
	return v.gfxBitmap[off]
}

func (v *VGC) WriteGfxByte(off uint32, val byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if off >= GfxBitmapSize {
		return
	}
	v.gfxBitmap[off] = val
}

func (v *VGC) ReadSpriteShapeByte(off uint32) byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	if off >= SpriteShapeMemSize {
		return 0
	}
	return v.spriteShapes[off]
}

func (v *VGC) WriteSpriteShapeByte(off uint32, val byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if off >= SpriteShapeMemSize {
		return
	}
	v.spriteShapes[off] = val
}

// ReadSpriteReg / WriteSpriteReg handle the CPU-bus sprite register range
// A040-A0BF.
func (v *VGC) ReadSpriteReg(addr uint16) byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	off := addr - SpriteRegBase
	n := off / SprRegSize
	field := off % SprRegSize
	if int(n) >= NumSprites {
		return 0
	}
	return v.spriteRegs[n][field]
}

func (v *VGC) WriteSpriteReg(addr uint16, val byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	off := addr - SpriteRegBase
	n := off / SprRegSize
	field := off % SprRegSize
	if int(n) >= NumSprites {
		return
	}
	if field == SprOffPriority && val > 2 {
		val = 2
	}
	if field == SprOffFlags {
		val &= SprFlagHFlip | SprFlagVFlip | SprFlagEnabled
	}
	v.spriteRegs[n][field] = val
}

// memRead / memWrite implement commands 0x19/0x1A: byte access into one of
// the six unified memory spaces, identical addressing to what DMA/blitter
// use. Out-of-range space ids or offsets are silently ignored per §4.2's
// error semantics (no error flag on the VGC).
func (v *VGC) memRead(space byte, off uint16) {
	if v.m == nil {
		return
	}
	sp := v.m.spaceFor(space)
	if sp == nil || uint32(off) >= sp.Size() {
		v.lastMemIOResult = 0
		return
	}
	v.lastMemIOResult = sp.ReadAt(uint32(off))
}

func (v *VGC) memWrite(space byte, off uint16, val byte) {
	if v.m == nil {
		return
	}
	sp := v.m.spaceFor(space)
	if sp == nil || uint32(off) >= sp.Size() {
		return
	}
	if !sp.Writable(uint32(off), 1) {
		return
	}
	sp.WriteAt(uint32(off), val)
}

// FrameSnapshot is the read-only view handed to a renderer (spec §1
// "Inspection API"). Snapshot holds the VGC mutex while it copies the
// frame.
type FrameSnapshot struct {
	Pixels [CanvasWidth * CanvasHeight]byte
	Frame  uint64
}

// Snapshot copies the last composited frame out for inspection/rendering.
func (v *VGC) Snapshot() FrameSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return FrameSnapshot{Pixels: v.front, Frame: v.frameCounter}
}
