package main

import "testing"

func TestCopperListSwapsOnFrameBoundary(t *testing.T) {
	m := newTestMachine(t)
	v := m.VGC

	writeVGCParams(m, 1)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdCopperList) // target list 1

	writeVGCParams(m, 0, 0, 0, uint16Lo(RegBgColor), uint16Hi(RegBgColor), 4)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdCopperAdd)

	writeVGCParams(m, 1)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdCopperUse) // schedule list 1 active

	if v.activeList != 0 {
		t.Fatalf("active list swapped before frame boundary: got %d, want 0", v.activeList)
	}
	v.swapActiveList()
	if v.activeList != 1 {
		t.Fatalf("active list did not swap at frame boundary: got %d, want 1", v.activeList)
	}
}

func TestCopperListNoDuplicatePositionRegister(t *testing.T) {
	cl := &CopperList{}
	cl.Insert(100, 5, 1)
	cl.Insert(100, 5, 2)
	if len(cl.events) != 1 {
		t.Fatalf("got %d events for one (position,register) pair, want 1", len(cl.events))
	}
	if cl.events[0].Value != 2 {
		t.Fatalf("second Insert did not overwrite the value: got %d, want 2", cl.events[0].Value)
	}
}

func TestCopperListSortedByPositionThenRegister(t *testing.T) {
	cl := &CopperList{}
	cl.Insert(200, 3, 0)
	cl.Insert(100, 9, 0)
	cl.Insert(100, 1, 0)
	want := []struct {
		pos uint32
		reg uint16
	}{{100, 1}, {100, 9}, {200, 3}}
	if len(cl.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(cl.events), len(want))
	}
	for i, w := range want {
		if cl.events[i].Position != w.pos || cl.events[i].Register != w.reg {
			t.Fatalf("event %d = (%d,%d), want (%d,%d)", i, cl.events[i].Position, cl.events[i].Register, w.pos, w.reg)
		}
	}
}

func uint16Lo(v int) byte { return byte(v) }
func uint16Hi(v int) byte { return byte(v >> 8) }
