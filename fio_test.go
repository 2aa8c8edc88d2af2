package main

import "testing"

func fioSetNamePtr(m *Machine, addr uint16) {
	m.Bus.Write8(FIORegBase+FIORegNamePtrLo, byte(addr))
	m.Bus.Write8(FIORegBase+FIORegNamePtrHi, byte(addr>>8))
}

func fioSetRange(m *Machine, start, end uint16) {
	m.Bus.Write8(FIORegBase+FIORegStartLo, byte(start))
	m.Bus.Write8(FIORegBase+FIORegStartHi, byte(start>>8))
	m.Bus.Write8(FIORegBase+FIORegEndLo, byte(end))
	m.Bus.Write8(FIORegBase+FIORegEndHi, byte(end>>8))
}

func TestFIOSaveLoadRoundTrip(t *testing.T) {
	m := newTestMachine(t)
	src := []byte{0x10, 0x20, 0x30}
	for i, b := range src {
		m.Bus.Write8(0x0500+uint16(i), b)
	}

	writeCStringAt(m, nameAddr, "hello")
	fioSetNamePtr(m, nameAddr)
	fioSetRange(m, 0x0500, 0x0500+uint16(len(src)))
	m.Bus.Write8(FIORegBase+FIORegCmd, FioCmdSave)
	if got := m.Bus.Read8(FIORegBase + FIORegStatus); got != FioStatusOK {
		t.Fatalf("save status = %d, want OK", got)
	}

	writeCStringAt(m, nameAddr, "HELLO.BAS") // .bas already present, mixed case
	fioSetNamePtr(m, nameAddr)
	fioSetRange(m, 0x0600, 0x0600) // only start used for load
	m.Bus.Write8(FIORegBase+FIORegCmd, FioCmdLoad)
	if got := m.Bus.Read8(FIORegBase + FIORegStatus); got != FioStatusOK {
		t.Fatalf("load status = %d, want OK", got)
	}
	for i, w := range src {
		if got := m.Bus.Read8(0x0600 + uint16(i)); got != w {
			t.Fatalf("loaded byte %d = %#x, want %#x", i, got, w)
		}
	}
	resultLen := uint16(m.Bus.Read8(FIORegBase+FIORegResultLo)) | uint16(m.Bus.Read8(FIORegBase+FIORegResultHi))<<8
	if resultLen != uint16(len(src)) {
		t.Fatalf("result length = %d, want %d", resultLen, len(src))
	}
}

func TestFIOLoadMissingFileReportsNotFound(t *testing.T) {
	m := newTestMachine(t)
	writeCStringAt(m, nameAddr, "absent")
	fioSetNamePtr(m, nameAddr)
	fioSetRange(m, 0x0600, 0x0600)
	m.Bus.Write8(FIORegBase+FIORegCmd, FioCmdLoad)
	if got := m.Bus.Read8(FIORegBase + FIORegError); got != FioErrNotFound {
		t.Fatalf("error = %d, want FioErrNotFound", got)
	}
}

func TestFIOSaveRejectsPathTraversal(t *testing.T) {
	m := newTestMachine(t)
	writeCStringAt(m, nameAddr, "..")
	fioSetNamePtr(m, nameAddr)
	fioSetRange(m, 0x0500, 0x0501)
	m.Bus.Write8(FIORegBase+FIORegCmd, FioCmdSave)
	if got := m.Bus.Read8(FIORegBase + FIORegStatus); got != FioStatusErr {
		t.Fatalf("status = %d, want FioStatusErr for a rejected filename", got)
	}
}

func TestFIOSaveRejectsBadGrammar(t *testing.T) {
	m := newTestMachine(t)
	writeCStringAt(m, nameAddr, "bad name!")
	fioSetNamePtr(m, nameAddr)
	fioSetRange(m, 0x0500, 0x0501)
	m.Bus.Write8(FIORegBase+FIORegCmd, FioCmdSave)
	if got := m.Bus.Read8(FIORegBase + FIORegError); got != FioErrIo {
		t.Fatalf("error = %d, want FioErrIo for a name violating the grammar", got)
	}
}

func TestFIODirListsBasFilesAlphabetically(t *testing.T) {
	m := newTestMachine(t)
	for i, name := range []string{"zeta", "alpha"} {
		m.Bus.Write8(0x0500+uint16(i), byte(i+1))
		writeCStringAt(m, nameAddr, name)
		fioSetNamePtr(m, nameAddr)
		fioSetRange(m, 0x0500, 0x0501)
		m.Bus.Write8(FIORegBase+FIORegCmd, FioCmdSave)
	}

	fioSetNamePtr(m, destAddr)
	m.Bus.Write8(FIORegBase+FIORegCmd, FioCmdDir)
	if got := m.Bus.Read8(destAddr); got != 'a' {
		t.Fatalf("first dir entry = %q, want 'a' (alpha.bas)", got)
	}
	fioSetNamePtr(m, destAddr)
	m.Bus.Write8(FIORegBase+FIORegCmd, FioCmdDir)
	if got := m.Bus.Read8(destAddr); got != 'z' {
		t.Fatalf("second dir entry = %q, want 'z' (zeta.bas)", got)
	}
	m.Bus.Write8(FIORegBase+FIORegCmd, FioCmdDir)
	if got := m.Bus.Read8(FIORegBase + FIORegError); got != FioErrEndOfDir {
		t.Fatalf("third dir read = %d, want FioErrEndOfDir", got)
	}
}

func TestFIODelRemovesFile(t *testing.T) {
	m := newTestMachine(t)
	m.Bus.Write8(0x0500, 0xAA)
	writeCStringAt(m, nameAddr, "gone")
	fioSetNamePtr(m, nameAddr)
	fioSetRange(m, 0x0500, 0x0501)
	m.Bus.Write8(FIORegBase+FIORegCmd, FioCmdSave)

	writeCStringAt(m, nameAddr, "gone")
	fioSetNamePtr(m, nameAddr)
	m.Bus.Write8(FIORegBase+FIORegCmd, FioCmdDel)
	if got := m.Bus.Read8(FIORegBase + FIORegStatus); got != FioStatusOK {
		t.Fatalf("del status = %d, want OK", got)
	}

	writeCStringAt(m, nameAddr, "gone")
	fioSetNamePtr(m, nameAddr)
	fioSetRange(m, 0x0600, 0x0600)
	m.Bus.Write8(FIORegBase+FIORegCmd, FioCmdLoad)
	if got := m.Bus.Read8(FIORegBase + FIORegError); got != FioErrNotFound {
		t.Fatalf("error after del = %d, want FioErrNotFound", got)
	}
}
