// fio.go - file I/O controller: SAVE/LOAD/DIR/DEL against a restricted host
// directory of .bas program listings (spec §4.8).

package main

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var filenamePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// FIOController is the file I/O device at B9A0-B9EF.
type FIOController struct {
	m       *Machine
	baseDir string

	regs      [FIORegEnd - FIORegBase + 1]byte
	dirNames  []string
	dirCursor int
}

func NewFIOController(m *Machine, baseDir string) *FIOController {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		abs = baseDir
	}
	return &FIOController{m: m, baseDir: abs}
}

func (f *FIOController) Reset() {
	f.regs = [FIORegEnd - FIORegBase + 1]byte{}
	f.dirNames = nil
	f.dirCursor = 0
}

func (f *FIOController) ReadReg(addr uint16) byte {
	return f.regs[addr-FIORegBase]
}

func (f *FIOController) WriteReg(addr uint16, val byte) {
	off := addr - FIORegBase
	f.regs[off] = val
	if off == FIORegCmd {
		f.dispatch(val)
	}
}

func (f *FIOController) u16(loOff, hiOff int) uint16 {
	return uint16(f.regs[loOff]) | uint16(f.regs[hiOff])<<8
}

func (f *FIOController) setResult(status, errCode byte) {
	f.regs[FIORegStatus] = status
	f.regs[FIORegError] = errCode
}

func (f *FIOController) dispatch(cmd byte) {
	switch cmd {
	case FioCmdSave:
		f.doSave()
	case FioCmdLoad:
		f.doLoad()
	case FioCmdDir:
		f.doDir()
	case FioCmdDel:
		f.doDel()
	default:
		f.setResult(FioStatusErr, FioErrIo)
	}
}

// readFilename parses the name, applying the grammar and .bas auto-append
// from spec §4.8. ok is false on any grammar violation.
func (f *FIOController) readFilename() (string, bool) {
	ptr := f.u16(FIORegNamePtrLo, FIORegNamePtrHi)
	var raw []byte
	for i := 0; i < maxFilenameLen+1; i++ {
		b := f.m.Bus.Read8(ptr + uint16(i))
		if b == 0 {
			break
		}
		raw = append(raw, b)
	}
	name := string(raw)
	if len(name) < 1 || len(name) > maxFilenameLen || !filenamePattern.MatchString(name) {
		return "", false
	}
	if !strings.HasSuffix(strings.ToLower(name), ".bas") {
		name += ".bas"
	}
	return name, true
}

// sanitizePath resolves name against baseDir, rejecting traversal outside it.
func (f *FIOController) sanitizePath(name string) (string, bool) {
	if filepath.IsAbs(name) || strings.Contains(name, "..") {
		return "", false
	}
	full := filepath.Join(f.baseDir, name)
	rel, err := filepath.Rel(f.baseDir, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return full, true
}

func (f *FIOController) doSave() {
	name, ok := f.readFilename()
	if !ok {
		f.setResult(FioStatusErr, FioErrIo)
		return
	}
	start := f.u16(FIORegStartLo, FIORegStartHi)
	end := f.u16(FIORegEndLo, FIORegEndHi)
	if end <= start {
		f.setResult(FioStatusErr, FioErrIo)
		return
	}
	full, ok := f.sanitizePath(name)
	if !ok {
		f.setResult(FioStatusErr, FioErrIo)
		return
	}
	data := f.m.Bus.ReadBlock(start, int(end-start))
	if err := os.WriteFile(full, data, 0644); err != nil {
		f.setResult(FioStatusErr, FioErrIo)
		return
	}
	f.setResult(FioStatusOK, FioErrNone)
}

func (f *FIOController) doLoad() {
	name, ok := f.readFilename()
	if !ok {
		f.setResult(FioStatusErr, FioErrIo)
		return
	}
	start := f.u16(FIORegStartLo, FIORegStartHi)
	full, ok := f.sanitizePath(name)
	if !ok {
		f.setResult(FioStatusErr, FioErrIo)
		return
	}
	data, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		// Names match case-insensitively: fall back to a directory scan
		// when no file has the exact spelling.
		if entries, derr := os.ReadDir(f.baseDir); derr == nil {
			for _, e := range entries {
				if !e.IsDir() && strings.EqualFold(e.Name(), name) {
					data, err = os.ReadFile(filepath.Join(f.baseDir, e.Name()))
					break
				}
			}
		}
	}
	if err != nil {
		if os.IsNotExist(err) {
			f.setResult(FioStatusErr, FioErrNotFound)
		} else {
			f.setResult(FioStatusErr, FioErrIo)
		}
		return
	}
	f.m.Bus.WriteBlock(start, data)
	f.regs[FIORegResultLo] = byte(len(data))
	f.regs[FIORegResultHi] = byte(len(data) >> 8)
	f.setResult(FioStatusOK, FioErrNone)
}

// doDir lists *.bas files alphabetically, one name per DIR command, matching
// XMC's directory-cursor style enumeration (spec §4.8).
func (f *FIOController) doDir() {
	if f.dirNames == nil {
		entries, err := os.ReadDir(f.baseDir)
		if err != nil {
			f.setResult(FioStatusErr, FioErrIo)
			return
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if strings.HasSuffix(strings.ToLower(e.Name()), ".bas") {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		f.dirNames = names
		f.dirCursor = 0
	}
	if f.dirCursor >= len(f.dirNames) {
		f.setResult(FioStatusErr, FioErrEndOfDir)
		return
	}
	name := f.dirNames[f.dirCursor]
	f.dirCursor++
	ptr := f.u16(FIORegNamePtrLo, FIORegNamePtrHi)
	f.m.Bus.WriteBlock(ptr, append([]byte(name), 0))
	f.setResult(FioStatusOK, FioErrNone)
}

func (f *FIOController) doDel() {
	name, ok := f.readFilename()
	if !ok {
		f.setResult(FioStatusErr, FioErrIo)
		return
	}
	full, ok := f.sanitizePath(name)
	if !ok {
		f.setResult(FioStatusErr, FioErrIo)
		return
	}
	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			f.setResult(FioStatusErr, FioErrNotFound)
		} else {
			f.setResult(FioStatusErr, FioErrIo)
		}
		return
	}
	f.dirNames = nil
	f.setResult(FioStatusOK, FioErrNone)
}
