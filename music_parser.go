// music_parser.go - MML cursor parser: one command consumed per call, not a
// generator/coroutine, per spec §3's "coroutine-like commands" guidance
// (the flood-fill in vgc_draw.go follows the same explicit-state approach).

package main

import (
	"math"
	"strings"
)

var noteSemitone = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// noteFreqHz returns the frequency of a note at the given octave and
// semitone offset from C, using A4 = 440 Hz as reference.
func noteFreqHz(octave, semitone int) float64 {
	n := (octave-4)*12 + (semitone - 9)
	return 440.0 * math.Pow(2, float64(n)/12.0)
}

func freqHzToReg(hz float64, clockHz uint32) uint16 {
	reg := hz * 16777216.0 / float64(clockHz)
	if reg < 0 {
		return 0
	}
	if reg > 65535 {
		return 65535
	}
	return uint16(reg)
}

// musicVoice is one of the six MML sequencer voices (spec §3 "Music engine
// state").
type musicVoice struct {
	mml    string
	cursor int

	defaultLen int
	octave     int
	instrument byte

	playing       bool
	gateHeld      bool // cleared by start; no code path sets it
	ticksRemain   float32
	curFreqReg    uint16

	vibratoDepth int
	vibratoPhase float32

	portamentoPending bool
	portamentoTarget  uint16
	portamentoRate    float32

	pwmSweepDir    int // -1, 0, +1
	filterSweepDir int

	arpNotes []uint16
	arpIndex int

	repeatStart     int
	repeatRemaining int

	sfxActive bool
	saved     *savedVoiceState
}

// savedVoiceState preserves a voice's music sequence while it has been
// stolen for an SFX request (spec §4.10's voice-stealing restore).
type savedVoiceState struct {
	mml         string
	cursor      int
	defaultLen  int
	octave      int
	instrument  byte
	playing     bool
	ticksRemain float32
}

func newMusicVoice() musicVoice {
	return musicVoice{defaultLen: defaultNoteLen, octave: defaultOctave}
}

func (v *musicVoice) start(mml string) {
	v.mml = trimMML(mml)
	v.cursor = 0
	v.defaultLen = defaultNoteLen
	v.octave = defaultOctave
	v.instrument = 0
	v.playing = true
	v.gateHeld = false
	v.ticksRemain = 0
	v.repeatRemaining = 0
	v.arpNotes = nil
}

func (v *musicVoice) stop() {
	v.playing = false
	v.mml = ""
}

func (v *musicVoice) peek() (byte, bool) {
	if v.cursor >= len(v.mml) {
		return 0, false
	}
	return v.mml[v.cursor], true
}

func (v *musicVoice) skipIgnored() {
	for {
		c, ok := v.peek()
		if !ok {
			return
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '|' {
			v.cursor++
			continue
		}
		return
	}
}

// readDigits consumes a run of ASCII digits and returns their integer value
// and whether any were found.
func (v *musicVoice) readDigits() (int, bool) {
	start := v.cursor
	for v.cursor < len(v.mml) && v.mml[v.cursor] >= '0' && v.mml[v.cursor] <= '9' {
		v.cursor++
	}
	if v.cursor == start {
		return 0, false
	}
	n := 0
	for i := start; i < v.cursor; i++ {
		n = n*10 + int(v.mml[i]-'0')
	}
	return n, true
}

func clampOctave(o int) int {
	if o < minOctave {
		return minOctave
	}
	if o > maxOctave {
		return maxOctave
	}
	return o
}

// durationTicks converts an MML length denominator (and optional dot) into
// tick count, falling back to the voice's default length when len is 0.
func durationTicks(voiceDefault, denom int, dotted bool) float32 {
	if denom == 0 {
		denom = voiceDefault
	}
	if denom == 0 {
		denom = defaultNoteLen
	}
	ticks := float32(ticksPerQuarterNote*4) / float32(denom)
	if dotted {
		ticks *= 1.5
	}
	return ticks
}

// noteEvent describes one scheduled note-on or rest, the unit the step
// function produces each time it finds a timed command.
type noteEvent struct {
	isRest   bool
	freqHz   float64
	ticks    float32
	tie      bool
	portando bool
}

// step consumes MML text starting at the cursor until it produces one timed
// event (note or rest) or runs out of input; non-timed commands (octave,
// tempo, instrument, effects) are applied immediately and the loop
// continues. eng supplies the global tempo and per-chip filter targets.
func (v *musicVoice) step(eng *MusicEngine) (noteEvent, bool) {
	for {
		v.skipIgnored()
		c, ok := v.peek()
		if !ok {
			return noteEvent{}, false
		}
		upper := c
		if upper >= 'a' && upper <= 'z' {
			upper -= 'a' - 'A'
		}

		switch {
		case upper >= 'A' && upper <= 'G':
			v.cursor++
			return v.parseNote(upper, false), true

		case upper == 'R':
			v.cursor++
			return v.parseNote(0, true), true

		case upper == 'O':
			v.cursor++
			n, _ := v.readDigits()
			v.octave = clampOctave(n)

		case c == '<':
			v.cursor++
			v.octave = clampOctave(v.octave - 1)

		case c == '>':
			v.cursor++
			v.octave = clampOctave(v.octave + 1)

		case upper == 'L':
			v.cursor++
			n, ok := v.readDigits()
			if ok {
				v.defaultLen = n
			}

		case upper == 'T':
			v.cursor++
			n, ok := v.readDigits()
			if ok {
				eng.tempoBPM = n
			}

		case upper == 'I':
			v.cursor++
			n, ok := v.readDigits()
			if ok {
				v.instrument = byte(n)
			}

		case upper == 'V':
			v.cursor++
			n, ok := v.readDigits()
			if ok {
				v.vibratoDepth = n
			}

		case c == '/':
			v.cursor++
			v.portamentoPending = true

		case c == '[':
			v.cursor++
			v.repeatStart = v.cursor

		case c == ']':
			v.cursor++
			n, _ := v.readDigits()
			if v.repeatRemaining == 0 {
				v.repeatRemaining = n - 1
			} else {
				v.repeatRemaining--
			}
			if v.repeatRemaining > 0 {
				v.cursor = v.repeatStart
			}

		case c == '{':
			v.cursor++
			v.parseArpeggio(eng)
			// falls through to the loop; applyArpeggios cycles the notes
			// once per frame while the voice plays

		case c == '@':
			v.cursor++
			v.parseAtCommand(eng)

		default:
			// Unrecognized byte: skip it rather than stall the sequencer.
			v.cursor++
		}
	}
}

func (v *musicVoice) parseNote(letter byte, rest bool) noteEvent {
	var semitone int
	if !rest {
		semitone = noteSemitone[letter]
		for {
			c, ok := v.peek()
			if !ok {
				break
			}
			switch c {
			case '#', '+':
				semitone++
				v.cursor++
				continue
			case '-':
				semitone--
				v.cursor++
				continue
			}
			break
		}
	}

	denom, _ := v.readDigits()
	dotted := false
	if c, ok := v.peek(); ok && c == '.' {
		dotted = true
		v.cursor++
	}
	ticks := durationTicks(v.defaultLen, denom, dotted)

	tie := false
	for {
		if c, ok := v.peek(); ok && c == '&' {
			v.cursor++
			// consume the tied note's own letter/accidental/length, adding
			// its duration without re-triggering the gate.
			if nc, ok := v.peek(); ok {
				nu := nc
				if nu >= 'a' && nu <= 'z' {
					nu -= 'a' - 'A'
				}
				if nu >= 'A' && nu <= 'G' {
					v.cursor++
					for {
						cc, ok := v.peek()
						if !ok || (cc != '#' && cc != '+' && cc != '-') {
							break
						}
						v.cursor++
					}
				}
			}
			d2, _ := v.readDigits()
			dot2 := false
			if c, ok := v.peek(); ok && c == '.' {
				dot2 = true
				v.cursor++
			}
			ticks += durationTicks(v.defaultLen, d2, dot2)
			tie = true
			continue
		}
		break
	}

	ev := noteEvent{isRest: rest, ticks: ticks, tie: tie}
	if !rest {
		ev.freqHz = noteFreqHz(v.octave, semitone)
		if v.portamentoPending {
			ev.portando = true
			v.portamentoPending = false
		}
	}
	return ev
}

func (v *musicVoice) parseArpeggio(eng *MusicEngine) {
	var notes []uint16
	for {
		v.skipIgnored()
		c, ok := v.peek()
		if !ok || c == '}' {
			break
		}
		upper := c
		if upper >= 'a' && upper <= 'z' {
			upper -= 'a' - 'A'
		}
		if upper >= 'A' && upper <= 'G' {
			v.cursor++
			semitone := noteSemitone[upper]
			for {
				cc, ok := v.peek()
				if !ok {
					break
				}
				if cc == '#' || cc == '+' {
					semitone++
					v.cursor++
					continue
				}
				if cc == '-' {
					semitone--
					v.cursor++
					continue
				}
				break
			}
			hz := noteFreqHz(v.octave, semitone)
			notes = append(notes, freqHzToReg(hz, eng.sid.clockHz))
		} else {
			v.cursor++
		}
	}
	if c, ok := v.peek(); ok && c == '}' {
		v.cursor++
	}
	// Digits after '}' are not read as a length: step() skips them as
	// unrecognized bytes, and the arpeggio is not a timed event itself. Its
	// notes cycle over whatever note or rest the score plays next.
	v.arpNotes = notes
	v.arpIndex = 0
}

// parseAtCommand handles the @P/@PS/@F/@FL/@FB/@FH/@FO/@FS effect family.
func (v *musicVoice) parseAtCommand(eng *MusicEngine) {
	c, ok := v.peek()
	if !ok {
		return
	}
	upper := c
	if upper >= 'a' && upper <= 'z' {
		upper -= 'a' - 'A'
	}

	switch upper {
	case 'P':
		v.cursor++
		if c2, ok := v.peek(); ok && (c2 == 's' || c2 == 'S') {
			v.cursor++
			v.pwmSweepDir = readSign(v)
			return
		}
		n, _ := v.readDigits()
		if n > 4095 {
			n = 4095
		}
		eng.setPulseWidth(v, uint16(n))

	case 'F':
		v.cursor++
		nc, ok := v.peek()
		nu := byte(0)
		if ok {
			nu = nc
			if nu >= 'a' && nu <= 'z' {
				nu -= 'a' - 'A'
			}
		}
		switch nu {
		case 'L', 'B', 'H', 'O':
			v.cursor++
			eng.setFilterMode(v, nu)
		case 'S':
			v.cursor++
			v.filterSweepDir = readSign(v)
		default:
			cutoff, _ := v.readDigits()
			if cutoff > 2047 {
				cutoff = 2047
			}
			res := -1
			if c3, ok := v.peek(); ok && c3 == ',' {
				v.cursor++
				r, _ := v.readDigits()
				if r > 15 {
					r = 15
				}
				res = r
			}
			eng.setFilter(v, cutoff, res)
		}
	default:
		// unknown @ command: ignore the introducer byte only
	}
}

func readSign(v *musicVoice) int {
	c, ok := v.peek()
	if !ok {
		return 0
	}
	switch c {
	case '+':
		v.cursor++
		return 1
	case '-':
		v.cursor++
		return -1
	case '0':
		v.cursor++
		return 0
	}
	return 0
}

func trimMML(s string) string {
	return strings.TrimSpace(s)
}
