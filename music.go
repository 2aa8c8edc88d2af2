// music.go - six-voice MML sequencer driving the two SID chips, SFX voice
// stealing, and the fixed-order per-frame effect pipeline (spec §4.10).

package main

import "sync"

// MusicEngine owns the six MML voices and the shared tempo/priority state
// described in spec §3's "Music engine state".
type MusicEngine struct {
	mu sync.Mutex

	m   *Machine
	sid *SIDEngine

	voices   [NumMusicVoices]musicVoice
	tempoBPM int
	loop     bool
	priority [NumMusicVoices]int

	tickAccum [NumMusicVoices]float32

	regs [MusicStatusEnd - MusicStatusBase + 1]byte
}

func NewMusicEngine(m *Machine, sid *SIDEngine) *MusicEngine {
	e := &MusicEngine{m: m, sid: sid, tempoBPM: defaultTempoBPM, priority: defaultPriorityVector}
	for i := range e.voices {
		e.voices[i] = newMusicVoice()
	}
	return e
}

func (e *MusicEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tempoBPM = defaultTempoBPM
	e.loop = false
	e.priority = defaultPriorityVector
	for i := range e.voices {
		e.voices[i] = newMusicVoice()
	}
	e.tickAccum = [NumMusicVoices]float32{}
	e.regs = [MusicStatusEnd - MusicStatusBase + 1]byte{}
}

// ReadReg serves CPU reads of the read-only BA50-BA56 status range; there
// is no corresponding WriteReg; the bus discards writes there (bus.go),
// matching spec.md's "(RO)" annotation for this range.
func (e *MusicEngine) ReadReg(addr uint16) byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	off := addr - MusicStatusBase
	if int(off) >= len(e.regs) {
		return 0
	}
	return e.regs[off]
}

func (e *MusicEngine) setResult(status, errCode byte) {
	e.regs[MusicRegStatus] = status
	e.regs[MusicRegError] = errCode
}

// Play starts voice (0-based) playing mml. Since BA50-BA56 is read-only,
// this is a host-side call rather than a CPU register write - the embedding
// program (main.go's demoFrame, or a BASIC interpreter running on the
// emulated CPU through a software trap) drives the sequencer this way, the
// same way the VGC's sprite collision/bump flags are host-readable Go state
// rather than invented bus registers.
func (e *MusicEngine) Play(voice int, mml string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if voice < 0 || voice >= NumMusicVoices {
		e.setResult(MusicStatusErr, MusicErrBadArgs)
		return
	}
	e.voices[voice].start(mml)
	e.setResult(MusicStatusOK, MusicErrNone)
}

// Stop silences voice (0-based) immediately.
func (e *MusicEngine) Stop(voice int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if voice < 0 || voice >= NumMusicVoices {
		e.setResult(MusicStatusErr, MusicErrBadArgs)
		return
	}
	e.voices[voice].stop()
	e.gateOff(voice)
	e.setResult(MusicStatusOK, MusicErrNone)
}

// SFX plays a one-shot MML string on the free (or lowest-priority) voice,
// per the stealing rule in requestSFX.
func (e *MusicEngine) SFX(mml string, instSlot byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requestSFX(mml, instSlot)
	e.setResult(MusicStatusOK, MusicErrNone)
}

// SetLoop toggles whether a voice that runs out of MML score replays it.
func (e *MusicEngine) SetLoop(loop bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loop = loop
	e.setResult(MusicStatusOK, MusicErrNone)
}

// voiceChipOffset maps a 0-based voice index (0..5) to its owning SID chip
// and the register offset of that voice's 7-byte block within it.
func voiceChipOffset(voiceIdx int) (chip int, base uint16) {
	chip = voiceIdx / VoicesPerChip
	base = uint16(voiceIdx%VoicesPerChip) * sidVoiceStride
	return
}

func (e *MusicEngine) gateOn(voiceIdx int, freqReg uint16, inst instrument) {
	chip, base := voiceChipOffset(voiceIdx)
	e.sid.WriteReg(chip, base+SIDOffFreqLo, byte(freqReg))
	e.sid.WriteReg(chip, base+SIDOffFreqHi, byte(freqReg>>8))
	e.sid.WriteReg(chip, base+SIDOffAD, inst.attack<<4|inst.decay)
	e.sid.WriteReg(chip, base+SIDOffSR, inst.sustain<<4|inst.release)
	e.sid.WriteReg(chip, base+SIDOffCtrl, inst.waveform|SIDCtrlGate)
}

func (e *MusicEngine) gateOff(voiceIdx int) {
	chip, base := voiceChipOffset(voiceIdx)
	// Writes 0 to the whole control register, so the waveform bits are
	// cleared together with the gate bit.
	e.sid.WriteReg(chip, base+SIDOffCtrl, 0)
}

func (e *MusicEngine) setFreq(voiceIdx int, freqReg uint16) {
	chip, base := voiceChipOffset(voiceIdx)
	e.sid.WriteReg(chip, base+SIDOffFreqLo, byte(freqReg))
	e.sid.WriteReg(chip, base+SIDOffFreqHi, byte(freqReg>>8))
}

func (e *MusicEngine) setPulseWidth(v *musicVoice, pw uint16) {
	idx := e.voiceIndex(v)
	if idx < 0 {
		return
	}
	chip, base := voiceChipOffset(idx)
	e.sid.WriteReg(chip, base+SIDOffPWLo, byte(pw))
	e.sid.WriteReg(chip, base+SIDOffPWHi, byte(pw>>8))
}

func (e *MusicEngine) setFilterMode(v *musicVoice, mode byte) {
	idx := e.voiceIndex(v)
	if idx < 0 {
		return
	}
	chip, _ := voiceChipOffset(idx)
	var bits byte
	switch mode {
	case 'L':
		bits = SIDModeLP
	case 'B':
		bits = SIDModeBP
	case 'H':
		bits = SIDModeHP
	case 'O':
		bits = 0
	}
	e.sid.chips[chip].modeVol = e.sid.chips[chip].modeVol&SIDModeVolMask | bits
}

func (e *MusicEngine) setFilter(v *musicVoice, cutoff, resonance int) {
	idx := e.voiceIndex(v)
	if idx < 0 {
		return
	}
	chip, base := voiceChipOffset(idx)
	_ = base
	e.sid.WriteReg(chip, SIDOffFilterFcLo, byte(cutoff&0x07))
	e.sid.WriteReg(chip, SIDOffFilterFcHi, byte(cutoff>>3))
	if resonance >= 0 {
		cur := e.sid.chips[chip].resFilt & 0x0F
		e.sid.WriteReg(chip, SIDOffResFilt, byte(resonance<<4)|cur)
	}
	// route this voice through the filter
	voiceInChip := idx % VoicesPerChip
	e.sid.chips[chip].resFilt |= 1 << uint(voiceInChip)
}

func (e *MusicEngine) voiceIndex(v *musicVoice) int {
	for i := range e.voices {
		if &e.voices[i] == v {
			return i
		}
	}
	return -1
}

// OnFrame advances the sequencer by one 60 Hz tick: consumes MML commands
// whose local tick counters have run out, then applies the fixed-order
// per-frame effects (spec §4.10: "arpeggio advance -> PWM sweep -> vibrato
// -> portamento slide -> filter sweep").
func (e *MusicEngine) OnFrame() {
	e.mu.Lock()
	defer e.mu.Unlock()

	ticksPerFrame := float32(ticksPerQuarterNote*4) * float32(e.tempoBPM) / 3600.0

	for i := range e.voices {
		v := &e.voices[i]
		if !v.playing {
			continue
		}
		e.tickAccum[i] -= ticksPerFrame
		for e.tickAccum[i] <= 0 {
			ev, ok := v.step(e)
			if !ok && e.loop && !v.sfxActive {
				v.start(v.mml)
				ev, ok = v.step(e)
			}
			if !ok {
				v.playing = false
				e.gateOff(i)
				break
			}
			e.tickAccum[i] += ev.ticks
			if ev.isRest {
				e.gateOff(i)
				continue
			}
			freqReg := freqHzToReg(ev.freqHz, e.sid.clockHz)
			if ev.portando {
				v.portamentoTarget = freqReg
				v.portamentoRate = float32(int(freqReg)-int(v.curFreqReg)) * portamentoFrac
			} else if ev.tie {
				v.curFreqReg = freqReg
				e.setFreq(i, freqReg)
			} else {
				v.curFreqReg = freqReg
				e.gateOn(i, freqReg, instrumentFor(v.instrument))
			}
		}
	}

	e.applyArpeggios()
	e.applyPWMSweeps()
	e.applyVibrato()
	e.applyPortamento()
	e.applyFilterSweeps()
}

func (e *MusicEngine) applyArpeggios() {
	for i := range e.voices {
		v := &e.voices[i]
		if !v.playing || len(v.arpNotes) == 0 {
			continue
		}
		freqReg := v.arpNotes[v.arpIndex]
		v.arpIndex = (v.arpIndex + 1) % len(v.arpNotes)
		e.setFreq(i, freqReg)
	}
}

func (e *MusicEngine) applyPWMSweeps() {
	for i := range e.voices {
		v := &e.voices[i]
		if !v.playing || v.pwmSweepDir == 0 {
			continue
		}
		chip, base := voiceChipOffset(i)
		voice := &e.sid.chips[chip].voices[i%VoicesPerChip]
		pw := int(voice.pulseWidth()) + v.pwmSweepDir*pwmSweepStep
		if pw < 0 {
			pw = 0
		} else if pw > 4095 {
			pw = 4095
		}
		e.sid.WriteReg(chip, base+SIDOffPWLo, byte(pw))
		e.sid.WriteReg(chip, base+SIDOffPWHi, byte(pw>>8))
	}
}

func (e *MusicEngine) applyVibrato() {
	for i := range e.voices {
		v := &e.voices[i]
		if !v.playing || v.vibratoDepth == 0 || v.curFreqReg == 0 {
			continue
		}
		v.vibratoPhase += float32(vibratoHz) / 60.0
		if v.vibratoPhase >= 1 {
			v.vibratoPhase -= 1
		}
		depth := float32(v.curFreqReg) * (float32(v.vibratoDepth) / 255.0) * 0.05
		offset := fastSin(v.vibratoPhase*TWO_PI) * depth
		freqReg := uint16(clampf(float32(v.curFreqReg)+offset, 0, 65535))
		e.setFreq(i, freqReg)
	}
}

func (e *MusicEngine) applyPortamento() {
	for i := range e.voices {
		v := &e.voices[i]
		if !v.playing || v.portamentoRate == 0 {
			continue
		}
		cur := float32(v.curFreqReg)
		target := float32(v.portamentoTarget)
		if cur == target {
			v.portamentoRate = 0
			continue
		}
		cur += v.portamentoRate
		if (v.portamentoRate > 0 && cur >= target) || (v.portamentoRate < 0 && cur <= target) {
			cur = target
			v.portamentoRate = 0
		}
		v.curFreqReg = uint16(clampf(cur, 0, 65535))
		e.setFreq(i, v.curFreqReg)
	}
}

func (e *MusicEngine) applyFilterSweeps() {
	for i := range e.voices {
		v := &e.voices[i]
		if !v.playing || v.filterSweepDir == 0 {
			continue
		}
		chip, _ := voiceChipOffset(i)
		c := &e.sid.chips[chip]
		cutoff := int(c.filterFcLo&0x07) | int(c.filterFcHi)<<3
		cutoff += v.filterSweepDir * filterSweepStep
		if cutoff < 0 {
			cutoff = 0
		} else if cutoff > 2047 {
			cutoff = 2047
		}
		c.filterFcLo = byte(cutoff & 0x07)
		c.filterFcHi = byte(cutoff >> 3)
	}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// requestSFX implements spec §4.10's voice allocation: the first voice with
// no active music sequence, or the lowest-priority occupied voice if all
// are busy. The stolen voice's music state is restored once the SFX note
// finishes (checked each frame in reclaimFinishedSFX).
func (e *MusicEngine) requestSFX(mml string, instSlot byte) {
	target := -1
	for i := range e.voices {
		if !e.voices[i].playing {
			target = i
			break
		}
	}
	if target < 0 {
		for _, voiceNum := range e.priority {
			idx := voiceNum - 1
			if idx >= 0 && idx < NumMusicVoices && !e.voices[idx].sfxActive {
				target = idx
				break
			}
		}
	}
	if target < 0 {
		return
	}

	v := &e.voices[target]
	if v.playing && v.saved == nil {
		v.saved = &savedVoiceState{
			mml: v.mml, cursor: v.cursor, defaultLen: v.defaultLen,
			octave: v.octave, instrument: v.instrument, playing: v.playing,
			ticksRemain: e.tickAccum[target],
		}
	}
	v.instrument = instSlot
	v.start(mml)
	v.sfxActive = true
}

// reclaimFinishedSFX restores a stolen voice's music sequence once its SFX
// note has finished playing. Called once per frame after OnFrame's main
// pass so a voice that just went idle is restored on the next tick.
func (e *MusicEngine) reclaimFinishedSFX() {
	for i := range e.voices {
		v := &e.voices[i]
		if v.sfxActive && !v.playing && v.saved != nil {
			v.mml = v.saved.mml
			v.cursor = v.saved.cursor
			v.defaultLen = v.saved.defaultLen
			v.octave = v.saved.octave
			v.instrument = v.saved.instrument
			v.playing = v.saved.playing
			e.tickAccum[i] = v.saved.ticksRemain
			v.saved = nil
			v.sfxActive = false
		}
	}
}
