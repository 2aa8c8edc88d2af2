// vgc_copper.go - the raster-synchronous copper program (spec §3 "Copper
// lists", §4.2 "Copper", §4.3 step 1).

package main

import "sort"

// Insert adds or replaces an event, keeping the list sorted by Position and
// (for events sharing a position) by Register ascending, per spec §5's
// "ascending register-index order" rule and invariant 3 ("no duplicate
// (position,register) pair").
func (cl *CopperList) Insert(position uint32, register uint16, value byte) {
	for i := range cl.events {
		if cl.events[i].Position == position && cl.events[i].Register == register {
			cl.events[i].Value = value
			return
		}
	}
	if len(cl.events) >= MaxCopperEvents {
		return
	}
	ev := CopperEvent{Position: position, Register: register, Value: value}
	i := sort.Search(len(cl.events), func(i int) bool {
		if cl.events[i].Position != position {
			return cl.events[i].Position > position
		}
		return cl.events[i].Register >= register
	})
	cl.events = append(cl.events, CopperEvent{})
	copy(cl.events[i+1:], cl.events[i:])
	cl.events[i] = ev
}

func (cl *CopperList) Clear() {
	cl.events = cl.events[:0]
}

func (v *VGC) copperAdd(x uint16, y byte, reg uint16, val byte) {
	if int(v.targetList) >= NumCopperLists {
		return
	}
	position := uint32(y)*CanvasWidth + uint32(x)
	v.copperLists[v.targetList].Insert(position, reg, val)
}

func (v *VGC) copperClear() {
	if v.targetList >= NumCopperLists {
		return
	}
	v.copperLists[v.targetList].Clear()
}

func (v *VGC) copperSetTarget(list int) {
	if list < 0 || list >= NumCopperLists {
		return
	}
	v.targetList = list
}

func (v *VGC) copperScheduleActive(list int) {
	if list < 0 || list >= NumCopperLists {
		return
	}
	v.pendingActive = list
	v.pendingSwap = true
}

// swapActiveList applies a pending Use() at the start of a frame. Called
// from Machine.OnFrame; spec §4.2: "pending_active ... atomically replaces
// active and clears itself."
func (v *VGC) swapActiveList() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pendingSwap {
		v.activeList = v.pendingActive
		v.pendingSwap = false
	}
}
