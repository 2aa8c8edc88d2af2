// vgc_compositor.go - sprite priority maps, collision detection, and the
// per-pixel frame compositor (spec §4.3, §4.4).

package main

// font is a minimal built-in 8x8 bitmap font used for the text layer. The
// original BASIC ROM character set is an external collaborator (spec §1);
// this is a deterministic placeholder covering printable ASCII, generated
// once at init so every glyph is distinct and stable across runs.
var font [128][8]byte

func init() {
	for c := 0x20; c < 128; c++ {
		for row := 0; row < 8; row++ {
			font[c][row] = byte((c*31 + row*17) ^ (c << row % 5))
		}
	}
	// Space (and anything below 0x20, which renders as space) is blank.
	font[0x20] = [8]byte{}
}

func wrap(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

// buildPriorityMaps rebuilds the three per-layer color-index maps from the
// current (frame-latched) sprite registers and shapes, per spec §4.4.
func (v *VGC) buildPriorityMaps() {
	v.resetPriorityMaps()
	for n := 0; n < NumSprites; n++ {
		if !v.spriteEnabled(n) {
			continue
		}
		sx, sy := v.spriteX(n), v.spriteY(n)
		trans := v.spriteTransColor(n)
		var layer *[CanvasWidth * CanvasHeight]int16
		switch v.spritePriority(n) {
		case PriorityBehind:
			layer = &v.priorityBehind
		case PriorityBetween:
			layer = &v.priorityBetween
		default:
			layer = &v.priorityFront
		}
		for py := 0; py < SpriteDim; py++ {
			y := sy + py
			if y < 0 || y >= CanvasHeight {
				continue
			}
			for px := 0; px < SpriteDim; px++ {
				x := sx + px
				if x < 0 || x >= CanvasWidth {
					continue
				}
				c := v.spritePixel(n, px, py)
				if c == trans {
					continue
				}
				layer[y*CanvasWidth+x] = int16(c)
			}
		}
	}
}

// computeCollisions fills the sprite-sprite and sprite-background latches,
// per spec §4.4. Both latches are read-clear: a read sets a per-sprite
// "already read this frame" flag, and computeCollisions overwrites the
// latches with the fresh per-frame value and clears those flags.
func (v *VGC) computeCollisions() {
	v.collision = [NumSprites]uint16{}
	v.bumped = [NumSprites]bool{}
	v.collisionRead = [NumSprites]bool{}
	v.bumpedRead = [NumSprites]bool{}

	type box struct{ x0, y0, x1, y1 int }
	boxes := make(map[int]box)
	for n := 0; n < NumSprites; n++ {
		if !v.spriteEnabled(n) {
			continue
		}
		x, y := v.spriteX(n), v.spriteY(n)
		boxes[n] = box{x, y, x + SpriteDim - 1, y + SpriteDim - 1}
	}

	overlaps := func(a, b box) bool {
		return a.x0 <= b.x1 && a.x1 >= b.x0 && a.y0 <= b.y1 && a.y1 >= b.y0
	}

	for n, bn := range boxes {
		for k, bk := range boxes {
			if n == k || !overlaps(bn, bk) {
				continue
			}
			if v.spritesPixelsOverlap(n, k) {
				v.collision[n] |= 1 << uint(k)
			}
		}
		if v.spriteOverlapsGraphics(n, bn) {
			v.bumped[n] = true
		}
	}
}

func (v *VGC) spritesPixelsOverlap(n, k int) bool {
	nx, ny := v.spriteX(n), v.spriteY(n)
	kx, ky := v.spriteX(k), v.spriteY(k)
	ntrans := v.spriteTransColor(n)
	ktrans := v.spriteTransColor(k)
	for py := 0; py < SpriteDim; py++ {
		for px := 0; px < SpriteDim; px++ {
			x, y := nx+px, ny+py
			kpx, kpy := x-kx, y-ky
			if kpx < 0 || kpx >= SpriteDim || kpy < 0 || kpy >= SpriteDim {
				continue
			}
			nc := v.spritePixel(n, px, py)
			if nc == ntrans {
				continue
			}
			kc := v.spritePixel(k, kpx, kpy)
			if kc == ktrans {
				continue
			}
			return true
		}
	}
	return false
}

func (v *VGC) spriteOverlapsGraphics(n int, b struct{ x0, y0, x1, y1 int }) bool {
	nx, ny := v.spriteX(n), v.spriteY(n)
	trans := v.spriteTransColor(n)
	for py := 0; py < SpriteDim; py++ {
		for px := 0; px < SpriteDim; px++ {
			c := v.spritePixel(n, px, py)
			if c == trans {
				continue
			}
			if v.getGfxPixel(nx+px, ny+py) != 0 {
				return true
			}
		}
	}
	return false
}

// Collision returns sprite n's sprite-sprite collision mask and clears it
// on read for the remainder of the frame (spec §4.4, invariant 8).
func (v *VGC) Collision(n int) uint16 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n < 0 || n >= NumSprites {
		return 0
	}
	if v.collisionRead[n] {
		return 0
	}
	v.collisionRead[n] = true
	return v.collision[n]
}

// Bumped reports sprite n's sprite-background collision and clears it on
// read for the remainder of the frame.
func (v *VGC) Bumped(n int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n < 0 || n >= NumSprites {
		return false
	}
	if v.bumpedRead[n] {
		return false
	}
	v.bumpedRead[n] = true
	return v.bumped[n]
}

type localVGCState struct {
	mode             byte
	bgColor          byte
	scrollX, scrollY uint16
}

func (v *VGC) applyCopperEvent(local *localVGCState, reg uint16, value byte) {
	if reg >= SpriteRegBase && reg <= SpriteRegEnd {
		off := reg - SpriteRegBase
		n := off / SprRegSize
		field := off % SprRegSize
		if int(n) >= NumSprites {
			return
		}
		if field == SprOffPriority && value > 2 {
			value = 2
		}
		if field == SprOffFlags {
			value &= SprFlagHFlip | SprFlagVFlip | SprFlagEnabled
		}
		v.spriteRegs[n][field] = value
		return
	}
	switch reg {
	case RegScrollXLo:
		local.scrollX = local.scrollX&0xFF00 | uint16(value)
	case RegScrollXHi:
		local.scrollX = local.scrollX&0x00FF | uint16(value)<<8
	case RegScrollYLo:
		local.scrollY = local.scrollY&0xFF00 | uint16(value)
	case RegScrollYHi:
		local.scrollY = local.scrollY&0x00FF | uint16(value)<<8
	case RegMode:
		local.mode = value
	case RegBgColor:
		local.bgColor = value
	}
}

// textPixel samples the text layer at (x,y). opaque is false only in mode 2
// when the sampled glyph pixel is unset, per spec §4.3 step 5.
func (v *VGC) textPixel(x, y int, mode, bgColor byte) (color byte, opaque bool) {
	col, row := x/8, y/8
	if col >= TextCols || row >= TextRows {
		return bgColor, true
	}
	code := v.charRAM[row*TextCols+col]
	if code < 0x20 {
		code = 0x20
	}
	glyphRow := font[code&0x7F][y%8]
	bit := glyphRow&(1<<uint(7-x%8)) != 0

	cursorHere := v.cursorEnabled() && col == v.cursorCol() && row == v.cursorRow()
	if cursorHere {
		bit = !bit
	}

	fg := v.colorRAM[row*TextCols+col] & 0x0F
	if bit {
		return fg, true
	}
	if mode == ModeTextOverGfx {
		return 0, false
	}
	return bgColor, true
}

func (v *VGC) cursorEnabled() bool { return v.regs[RegCursorEnable] != 0 }
func (v *VGC) cursorCol() int {
	return int(uint16(v.regs[RegCursorXLo]) | uint16(v.regs[RegCursorXHi])<<8)
}
func (v *VGC) cursorRow() int {
	return int(uint16(v.regs[RegCursorYLo]) | uint16(v.regs[RegCursorYHi])<<8)
}

// Compose produces one 320x200 frame, combining text/graphics/sprite layers
// and the background color per the mode-dependent ordering in spec §4.3.
func (v *VGC) Compose() {
	v.mu.Lock()
	defer v.mu.Unlock()

	local := localVGCState{
		mode:    v.regs[RegMode],
		bgColor: v.regs[RegBgColor],
		scrollX: uint16(v.regs[RegScrollXLo]) | uint16(v.regs[RegScrollXHi])<<8,
		scrollY: uint16(v.regs[RegScrollYLo]) | uint16(v.regs[RegScrollYHi])<<8,
	}

	var active *CopperList
	eventIdx := 0
	if v.copperEnabled {
		active = &v.copperLists[v.activeList]
	}

	for y := 0; y < CanvasHeight; y++ {
		for x := 0; x < CanvasWidth; x++ {
			position := uint32(y*CanvasWidth + x)
			if active != nil {
				for eventIdx < len(active.events) && active.events[eventIdx].Position == position {
					v.applyCopperEvent(&local, active.events[eventIdx].Register, active.events[eventIdx].Value)
					eventIdx++
				}
			}

			bg := local.bgColor
			gx := wrap(x+int(int16(local.scrollX)), CanvasWidth)
			gy := wrap(y+int(int16(local.scrollY)), CanvasHeight)
			gfxColor := v.getGfxPixel(gx, gy)
			gfxOpaque := gfxColor != 0

			txtColor, txtOpaque := byte(0), false
			if local.mode != ModeGfxSpritesOnly {
				txtColor, txtOpaque = v.textPixel(x, y, local.mode, bg)
			}

			idx := y*CanvasWidth + x
			behind := v.priorityBehind[idx]
			between := v.priorityBetween[idx]
			front := v.priorityFront[idx]

			out := bg
			switch local.mode {
			case ModeTextOverGfx:
				// background, sprite-behind, graphics, sprite-between, text, sprite-front
				if behind >= 0 {
					out = byte(behind)
				}
				if gfxOpaque {
					out = gfxColor
				}
				if between >= 0 {
					out = byte(between)
				}
				if txtOpaque {
					out = txtColor
				}
				if front >= 0 {
					out = byte(front)
				}
			default:
				// modes 0, 1, 3: background, sprite-behind, text, sprite-between, graphics, sprite-front
				if behind >= 0 {
					out = byte(behind)
				}
				if txtOpaque {
					out = txtColor
				}
				if between >= 0 {
					out = byte(between)
				}
				if gfxOpaque {
					out = gfxColor
				}
				if front >= 0 {
					out = byte(front)
				}
			}
			v.front[idx] = out
		}
	}
	v.frameCounter++
}
