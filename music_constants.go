// music_constants.go - MML sequencer constants and register layout
// (spec §4.10, §3, §6).

package main

const (
	NumMusicVoices = 6
	VoicesPerChip  = 3

	ticksPerQuarterNote = 96
	defaultTempoBPM     = 120
	minOctave           = 1
	maxOctave           = 7
	defaultOctave       = 4
	defaultNoteLen      = 4

	vibratoHz       = 2.9
	pwmSweepStep    = 32
	filterSweepStep = 8
	portamentoFrac  = 1.0 / 8.0
)

// defaultPriorityVector is the voice-stealing order for SFX requests: index
// 0 is stolen first. Voice numbers are 1-based per spec §4.10.
var defaultPriorityVector = [NumMusicVoices]int{6, 5, 4, 3, 2, 1}

// Music status register offsets, relative to MusicStatusBase (7 bytes,
// BA50-BA56). The memory map marks this range read-only, so unlike the
// VGC/DMA/Blitter/XMC/FIO ranges it carries no CPU-writable command
// protocol: only the last operation's status/error are exposed here for
// polling. BA52-BA56 are reserved and read back as zero. Play/Stop/SFX are
// driven through MusicEngine's host API (see music.go) rather than a
// register write.
const (
	MusicRegStatus = 0x00
	MusicRegError  = 0x01
)

const (
	MusicStatusIdle = 0
	MusicStatusOK   = 1
	MusicStatusErr  = 2
)

const (
	MusicErrNone    = 0
	MusicErrBadArgs = 1
)

// instrument is a canned ADSR/waveform preset selected by In 0..15.
type instrument struct {
	waveform byte // SIDCtrl* waveform bit
	attack   byte
	decay    byte
	sustain  byte
	release  byte
}

var instrumentTable = [16]instrument{
	{waveform: SIDCtrlTriangle, attack: 0, decay: 8, sustain: 10, release: 6},
	{waveform: SIDCtrlSawtooth, attack: 0, decay: 6, sustain: 8, release: 5},
	{waveform: SIDCtrlPulse, attack: 1, decay: 6, sustain: 8, release: 5},
	{waveform: SIDCtrlNoise, attack: 0, decay: 4, sustain: 0, release: 3},
}

func instrumentFor(slot byte) instrument {
	if int(slot) >= len(instrumentTable) {
		return instrumentTable[0]
	}
	inst := instrumentTable[slot]
	if inst == (instrument{}) {
		return instrumentTable[0]
	}
	return inst
}
