// vgc_draw.go - drawing command family (spec §4.2 "Drawing"). All
// coordinates silently clip to the 320x200 canvas; color 0 is transparent
// on the graphics layer but is a perfectly normal value to plot here.

package main

const gfxStride = CanvasWidth / 2 // bytes per row, 4bpp packed 2px/byte

func inCanvas(x, y int) bool {
	return x >= 0 && x < CanvasWidth && y >= 0 && y < CanvasHeight
}

func (v *VGC) getGfxPixel(x, y int) byte {
	if !inCanvas(x, y) {
		return 0
	}
	idx := y*gfxStride + x/2
	b := v.gfxBitmap[idx]
	if x%2 == 0 {
		return b & 0x0F
	}
	return b >> 4
}

func (v *VGC) setGfxPixel(x, y int, color byte) {
	if !inCanvas(x, y) {
		return
	}
	color &= 0x0F
	idx := y*gfxStride + x/2
	if x%2 == 0 {
		v.gfxBitmap[idx] = v.gfxBitmap[idx]&0xF0 | color
	} else {
		v.gfxBitmap[idx] = v.gfxBitmap[idx]&0x0F | color<<4
	}
}

func (v *VGC) plot(x, y int, color byte) {
	v.setGfxPixel(x, y, color)
}

func (v *VGC) line(x0, y0, x1, y1 int, color byte) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		v.setGfxPixel(x, y, color)
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func (v *VGC) rect(x0, y0, x1, y1 int, filled bool, color byte) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if filled {
		v.fillRect(x0, y0, x1, y1, color)
		return
	}
	v.line(x0, y0, x1, y0, color)
	v.line(x0, y1, x1, y1, color)
	v.line(x0, y0, x0, y1, color)
	v.line(x1, y0, x1, y1, color)
}

// fillRect backs both CmdRect(filled) and CmdFill: a clipped solid
// rectangle, per the "FILL clip" testable scenario in spec §8.
func (v *VGC) fillRect(x0, y0, x1, y1 int, color byte) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 >= CanvasWidth {
		x1 = CanvasWidth - 1
	}
	if y1 >= CanvasHeight {
		y1 = CanvasHeight - 1
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			v.setGfxPixel(x, y, color)
		}
	}
}

func (v *VGC) circle(cx, cy, r int, color byte) {
	if r < 0 {
		return
	}
	x, y := r, 0
	err := 0
	for x >= y {
		v.setGfxPixel(cx+x, cy+y, color)
		v.setGfxPixel(cx+y, cy+x, color)
		v.setGfxPixel(cx-y, cy+x, color)
		v.setGfxPixel(cx-x, cy+y, color)
		v.setGfxPixel(cx-x, cy-y, color)
		v.setGfxPixel(cx-y, cy-x, color)
		v.setGfxPixel(cx+y, cy-x, color)
		v.setGfxPixel(cx+x, cy-y, color)
		y++
		if err <= 0 {
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

type pixelPos struct{ x, y int }

// paint is a 4-connected flood fill implemented as an explicit pixel stack
// per spec §9's design note (no recursion, no generator).
func (v *VGC) paint(x, y int, color byte) {
	if !inCanvas(x, y) {
		return
	}
	seed := v.getGfxPixel(x, y)
	if seed == color&0x0F {
		return
	}
	stack := []pixelPos{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !inCanvas(p.x, p.y) {
			continue
		}
		if v.getGfxPixel(p.x, p.y) != seed {
			continue
		}
		v.setGfxPixel(p.x, p.y, color)
		stack = append(stack,
			pixelPos{p.x + 1, p.y},
			pixelPos{p.x - 1, p.y},
			pixelPos{p.x, p.y + 1},
			pixelPos{p.x, p.y - 1},
		)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
