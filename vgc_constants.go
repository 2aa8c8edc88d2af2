// vgc_constants.go - VGC register offsets and command byte codes (spec §4.2, §6).

package main

// Register file offsets, relative to VGCRegBase ($A000). The file is 32
// bytes; everything not named here is reserved and reads back as last
// written (flat storage, no side effect).
const (
	RegScrollXLo     = 0x00
	RegScrollXHi     = 0x01
	RegScrollYLo     = 0x02
	RegScrollYHi     = 0x03
	RegMode          = 0x04
	RegBgColor       = 0x05
	RegCursorXLo     = 0x06
	RegCursorXHi     = 0x07
	RegCursorYLo     = 0x08
	RegCursorYHi     = 0x09
	RegCursorEnable  = 0x0A
	RegDrawColor     = 0x0B
	RegCtrl          = 0x10 // VGCCtrlReg offset; write triggers command dispatch
	RegP0            = 0x11
	RegParamCount    = 14 // P0..P13, registers 0x11..0x1E
	RegMemIOResult   = 0x1F
)

// Display modes (spec §3): 0 text, 1 gfx-over-text, 2 text-over-gfx, 3
// gfx+sprites only (no text).
const (
	ModeText        = 0
	ModeGfxOverText = 1
	ModeTextOverGfx = 2
	ModeGfxSpritesOnly = 3
)

// Command byte codes, grouped by family per spec §4.2.
const (
	CmdPlot    = 0x01
	CmdUnplot  = 0x02
	CmdLine    = 0x03
	CmdRect    = 0x04
	CmdFill    = 0x05
	CmdCircle  = 0x06
	CmdPaint   = 0x07
	CmdGCLS    = 0x08
	CmdGColor  = 0x09

	CmdSprDef   = 0x0A // poke one byte into a shape slot's 128-byte buffer
	CmdSprRow   = 0x0B // write one 8-byte (16px @ 4bpp) row of a shape slot
	CmdSprPos   = 0x0C
	CmdSprEna   = 0x0D
	CmdSprDis   = 0x0E
	CmdSprClr   = 0x0F // set transparent color
	CmdSprPri   = 0x10
	CmdSprFlip  = 0x11
	CmdSprCopy  = 0x12 // copy one shape slot's bytes to another
	CmdSprShape = 0x13 // assign a sprite's active shape slot

	CmdMemRead  = 0x19
	CmdMemWrite = 0x1A

	CmdCopperAdd     = 0x1B
	CmdCopperClear   = 0x1C
	CmdCopperEnable  = 0x1D
	CmdCopperDisable = 0x1E
	CmdCopperList    = 0x20
	CmdCopperUse     = 0x21
	CmdCopperListEnd = 0x22
)

// Sprite register block offsets, per spec §6 (8 bytes, 16 sprites at
// A040 + 8n).
const (
	SprOffXLo        = 0
	SprOffXHi        = 1
	SprOffYLo        = 2
	SprOffYHi        = 3
	SprOffShape      = 4
	SprOffFlags      = 5
	SprOffPriority   = 6
	SprOffTransColor = 7
)

const (
	SprFlagHFlip   = 1 << 0
	SprFlagVFlip   = 1 << 1
	SprFlagEnabled = 1 << 2
)

const (
	PriorityBehind  = 0
	PriorityBetween = 1
	PriorityFront   = 2
)

const (
	CanvasWidth  = 320
	CanvasHeight = 200

	TextCols = 80
	TextRows = 25

	SpriteDim          = 16 // 16x16 pixels per shape
	SpriteShapeBytes   = SpriteDim * SpriteDim / 2
	NumShapeSlots      = 256
	SpriteShapeMemSize = NumShapeSlots * SpriteShapeBytes

	GfxBitmapSize = CanvasWidth * CanvasHeight / 2 // 4bpp, 2px/byte

	NumCopperLists   = 128
	MaxCopperEvents  = 256
)
