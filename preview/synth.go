package preview

import (
	"math"
	"sync"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

const (
	synthSampleRate = 44100
	// attack/release ramp, avoids clicks
	fadeSamples = synthSampleRate / 100
	// hard cap per voice, matches the MIDI player's timed note-off
	voiceSamples = synthSampleRate * 2 / 5
)

// SynthPlayer previews pitches as sine voices through the system
// speaker, for setups with no MIDI out port.
type SynthPlayer struct {
	sampleRate beep.SampleRate

	mu     sync.Mutex
	voices map[uint8]*sineVoice
}

// NewSynthPlayer opens the speaker. The buffer is kept small so a
// preview starts within one pointer-move frame.
func NewSynthPlayer() (*SynthPlayer, error) {
	sr := beep.SampleRate(synthSampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/20)); err != nil {
		return nil, fault.Wrap(err, fmsg.With("cannot open speaker"))
	}
	return &SynthPlayer{
		sampleRate: sr,
		voices:     make(map[uint8]*sineVoice),
	}, nil
}

// PreviewNote starts a sine voice for the pitch, replacing any voice
// already sounding it. The instrument name is ignored; everything
// previews as a sine.
func (p *SynthPlayer) PreviewNote(pitch, velocity uint8, instrument string) {
	if velocity == 0 {
		velocity = 100
	}
	v := newSineVoice(p.sampleRate, pitch)

	p.mu.Lock()
	old := p.voices[pitch]
	p.voices[pitch] = v
	p.mu.Unlock()

	if old != nil {
		speaker.Lock()
		old.release()
		speaker.Unlock()
	}

	speaker.Play(&effects.Volume{
		Streamer: v,
		Base:     2,
		Volume:   (float64(velocity) - 127) / 32,
		Silent:   false,
	})
}

// StopPreview fades the pitch's voice out.
func (p *SynthPlayer) StopPreview(pitch uint8) {
	p.mu.Lock()
	v := p.voices[pitch]
	delete(p.voices, pitch)
	p.mu.Unlock()

	if v != nil {
		speaker.Lock()
		v.release()
		speaker.Unlock()
	}
}

// Dispose drops all voices and silences the speaker.
func (p *SynthPlayer) Dispose() error {
	p.mu.Lock()
	p.voices = make(map[uint8]*sineVoice)
	p.mu.Unlock()

	speaker.Clear()
	return nil
}

// sineVoice is a finite beep.Streamer: attack ramp, steady sine, then
// a release ramp once release is called or the voice cap is reached.
// The drained voice is removed by the speaker's mixer.
type sineVoice struct {
	freq     float64
	rate     float64
	pos      int
	limit    int
	released bool
	relAt    int
	done     bool
}

func newSineVoice(sr beep.SampleRate, pitch uint8) *sineVoice {
	return &sineVoice{
		freq:  midiFrequency(pitch),
		rate:  float64(sr),
		limit: voiceSamples,
	}
}

// release starts the fade-out. Callers outside the speaker goroutine
// hold speaker.Lock.
func (v *sineVoice) release() {
	if !v.released {
		v.released = true
		v.relAt = v.pos
	}
}

func (v *sineVoice) envelope() (float64, bool) {
	if !v.released && v.pos >= v.limit {
		v.release()
	}
	if v.released {
		left := v.relAt + fadeSamples - v.pos
		if left <= 0 {
			return 0, false
		}
		env := float64(left) / float64(fadeSamples)
		// release can begin mid-attack; never get louder while fading
		if a := v.attack(); a < env {
			env = a
		}
		return env, true
	}
	return v.attack(), true
}

func (v *sineVoice) attack() float64 {
	if v.pos >= fadeSamples {
		return 1
	}
	return float64(v.pos) / float64(fadeSamples)
}

const voiceAmplitude = 0.25

// Stream implements beep.Streamer
func (v *sineVoice) Stream(samples [][2]float64) (n int, ok bool) {
	if v.done {
		return 0, false
	}
	for i := range samples {
		env, alive := v.envelope()
		if !alive {
			v.done = true
			return i, i > 0
		}
		s := voiceAmplitude * env * math.Sin(2*math.Pi*v.freq*float64(v.pos)/v.rate)
		samples[i][0] = s
		samples[i][1] = s
		v.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer
func (v *sineVoice) Err() error {
	return nil
}

// midiFrequency converts a MIDI note number to Hz. A4 (69) = 440.
func midiFrequency(pitch uint8) float64 {
	return 440.0 * math.Pow(2.0, (float64(pitch)-69)/12.0)
}
