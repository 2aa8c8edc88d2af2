package main

import "testing"

func TestMusicParseNoteWithSharpAndExplicitLength(t *testing.T) {
	v := newMusicVoice()
	v.start("C#8")
	ev, ok := v.step(&MusicEngine{sid: NewSIDEngine(44100)})
	if !ok {
		t.Fatalf("step() returned ok=false, want a note event")
	}
	if ev.isRest || ev.tie {
		t.Fatalf("event = %+v, want a plain non-tied note", ev)
	}
	wantHz := noteFreqHz(defaultOctave, 1) // C#=semitone 0+1
	if ev.freqHz != wantHz {
		t.Fatalf("freqHz = %v, want %v", ev.freqHz, wantHz)
	}
	wantTicks := float32(ticksPerQuarterNote*4) / 8
	if ev.ticks != wantTicks {
		t.Fatalf("ticks = %v, want %v", ev.ticks, wantTicks)
	}
}

func TestMusicParseRestProducesRestEvent(t *testing.T) {
	v := newMusicVoice()
	v.start("R4")
	ev, ok := v.step(&MusicEngine{sid: NewSIDEngine(44100)})
	if !ok || !ev.isRest {
		t.Fatalf("step() = %+v, ok=%v, want a rest event", ev, ok)
	}
	wantTicks := float32(ticksPerQuarterNote*4) / 4
	if ev.ticks != wantTicks {
		t.Fatalf("rest ticks = %v, want %v", ev.ticks, wantTicks)
	}
}

func TestMusicTieChainAccumulatesDuration(t *testing.T) {
	v := newMusicVoice()
	v.start("C4&C4")
	ev, ok := v.step(&MusicEngine{sid: NewSIDEngine(44100)})
	if !ok || !ev.tie {
		t.Fatalf("step() = %+v, ok=%v, want a tied note", ev, ok)
	}
	want := float32(ticksPerQuarterNote*4)/4*2
	if ev.ticks != want {
		t.Fatalf("tied ticks = %v, want %v", ev.ticks, want)
	}
}

func TestMusicOctaveShiftAffectsFrequency(t *testing.T) {
	v := newMusicVoice()
	v.start("<C")
	ev, ok := v.step(&MusicEngine{sid: NewSIDEngine(44100)})
	if !ok {
		t.Fatalf("step() returned ok=false")
	}
	want := noteFreqHz(defaultOctave-1, 0)
	if ev.freqHz != want {
		t.Fatalf("freqHz after octave-down = %v, want %v", ev.freqHz, want)
	}
}

func TestMusicRepeatBracketReplaysSection(t *testing.T) {
	v := newMusicVoice()
	v.start("[CD]2")
	eng := &MusicEngine{sid: NewSIDEngine(44100)}

	wantSemitones := []int{0, 2, 0, 2} // C, D, C, D
	for i, want := range wantSemitones {
		ev, ok := v.step(eng)
		if !ok {
			t.Fatalf("step %d: ok=false, want a note event", i)
		}
		if wantHz := noteFreqHz(defaultOctave, want); ev.freqHz != wantHz {
			t.Fatalf("step %d: freqHz = %v, want %v", i, ev.freqHz, wantHz)
		}
	}
	if _, ok := v.step(eng); ok {
		t.Fatalf("step after repeat exhausted: ok=true, want false (sequence end)")
	}
}

func TestMusicTempoCommandUpdatesEngine(t *testing.T) {
	v := newMusicVoice()
	v.start("T90C")
	eng := &MusicEngine{sid: NewSIDEngine(44100), tempoBPM: defaultTempoBPM}
	if _, ok := v.step(eng); !ok {
		t.Fatalf("step() returned ok=false")
	}
	if eng.tempoBPM != 90 {
		t.Fatalf("tempoBPM = %d, want 90", eng.tempoBPM)
	}
}

func TestMusicArpeggioCyclesThroughNotes(t *testing.T) {
	m := newTestMachine(t)
	v := &m.Music.voices[0]
	v.start("{CEG}")
	if _, ok := v.step(m.Music); ok {
		t.Fatalf("arpeggio-only step: ok=true, want false (no timed command)")
	}
	if len(v.arpNotes) != 3 {
		t.Fatalf("arpNotes length = %d, want 3", len(v.arpNotes))
	}
	v.playing = true

	for i, want := range v.arpNotes {
		m.Music.applyArpeggios()
		chip, base := voiceChipOffset(0)
		_ = base
		if got := m.SID.chips[chip].voices[0].freq(); got != want {
			t.Fatalf("arpeggio step %d: voice freq = %#x, want %#x", i, got, want)
		}
	}
}

func TestMusicPlayGatesOnFirstNote(t *testing.T) {
	m := newTestMachine(t)
	m.Music.Play(0, "C")

	if got := m.Bus.Read8(MusicStatusBase + MusicRegStatus); got != MusicStatusOK {
		t.Fatalf("status register = %d, want OK", got)
	}

	m.OnFrame()

	if got := m.SID.chips[0].voices[0].ctrl & SIDCtrlGate; got == 0 {
		t.Fatalf("voice 0 gate bit not set after first tick")
	}
	if !m.Music.voices[0].playing {
		t.Fatalf("voice 0 not marked playing after Play + OnFrame")
	}
}

func TestMusicPlayRejectsOutOfRangeVoice(t *testing.T) {
	m := newTestMachine(t)
	m.Music.Play(NumMusicVoices, "C")
	if got := m.Bus.Read8(MusicStatusBase + MusicRegStatus); got != MusicStatusErr {
		t.Fatalf("status register = %d, want MusicStatusErr", got)
	}
	if got := m.Bus.Read8(MusicStatusBase + MusicRegError); got != MusicErrBadArgs {
		t.Fatalf("error register = %d, want MusicErrBadArgs", got)
	}
}

func TestMusicStopClearsGate(t *testing.T) {
	m := newTestMachine(t)
	m.Music.Play(0, "C1")
	m.OnFrame()

	m.Music.Stop(0)

	if m.Music.voices[0].playing {
		t.Fatalf("voice 0 still playing after Stop")
	}
	if got := m.SID.chips[0].voices[0].ctrl & SIDCtrlGate; got != 0 {
		t.Fatalf("gate bit still set after Stop")
	}
}

func TestMusicStatusRangeIsReadOnly(t *testing.T) {
	m := newTestMachine(t)
	m.Music.Play(0, "C1") // sets MusicStatusOK via the host API

	m.Bus.Write8(MusicStatusBase+MusicRegStatus, MusicStatusErr)

	if got := m.Bus.Read8(MusicStatusBase + MusicRegStatus); got != MusicStatusOK {
		t.Fatalf("status register = %d after a CPU write, want unchanged OK (BA50-BA56 is read-only)", got)
	}
	if !m.Music.voices[0].playing {
		t.Fatalf("a discarded write to the status range must not stop voice 0 from playing")
	}
}

func TestMusicSFXStealsLowestPriorityVoiceAndReclaims(t *testing.T) {
	m := newTestMachine(t)
	for i := range m.Music.voices {
		m.Music.voices[i].start("C1")
	}

	m.Music.requestSFX("E1", 2)

	wantStolen := defaultPriorityVector[0] - 1 // voice 6, 0-based index 5
	v := &m.Music.voices[wantStolen]
	if !v.sfxActive {
		t.Fatalf("voice %d not marked sfxActive", wantStolen)
	}
	if v.saved == nil {
		t.Fatalf("voice %d has no saved music state to restore later", wantStolen)
	}
	if v.mml != "E1" {
		t.Fatalf("voice %d mml = %q, want the SFX string", wantStolen, v.mml)
	}

	v.playing = false // simulate the SFX note finishing
	m.Music.reclaimFinishedSFX()

	if v.sfxActive {
		t.Fatalf("voice %d still marked sfxActive after reclaim", wantStolen)
	}
	if v.mml != "C1" {
		t.Fatalf("voice %d mml = %q after reclaim, want original music restored", wantStolen, v.mml)
	}
}

func TestMusicSFXUsesFreeVoiceBeforeStealing(t *testing.T) {
	m := newTestMachine(t)
	for i := 1; i < len(m.Music.voices); i++ {
		m.Music.voices[i].start("C1")
	}
	m.Music.requestSFX("E1", 0)

	if m.Music.voices[0].mml != "E1" {
		t.Fatalf("SFX did not land on the idle voice 0")
	}
	if m.Music.voices[0].saved != nil {
		t.Fatalf("idle voice should not have saved state, nothing was playing")
	}
}
