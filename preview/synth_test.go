package preview

import (
	"math"
	"testing"

	"github.com/faiface/beep"
)

func TestMidiFrequency_ReferencePitches(t *testing.T) {
	cases := []struct {
		pitch uint8
		want  float64
	}{
		{69, 440},               // A4
		{81, 880},               // octave up doubles
		{57, 220},               // octave down halves
		{60, 261.6255653005986}, // middle C
	}
	for _, c := range cases {
		got := midiFrequency(c.pitch)
		if math.Abs(got-c.want) > 1e-6 {
			t.Errorf("midiFrequency(%d) = %f, want %f", c.pitch, got, c.want)
		}
	}
}

func TestSineVoice_AttackFromSilence(t *testing.T) {
	v := newSineVoice(beep.SampleRate(synthSampleRate), 69)

	buf := make([][2]float64, 512)
	n, ok := v.Stream(buf)
	if n != len(buf) || !ok {
		t.Fatalf("Stream = (%d, %v), want a full live buffer", n, ok)
	}
	if buf[0][0] != 0 {
		t.Errorf("first sample = %f, want 0 at attack start", buf[0][0])
	}
	for i, s := range buf {
		if math.Abs(s[0]) > voiceAmplitude {
			t.Fatalf("sample %d = %f exceeds the amplitude cap", i, s[0])
		}
		if s[0] != s[1] {
			t.Fatalf("sample %d not centered: left %f right %f", i, s[0], s[1])
		}
	}
}

func TestSineVoice_ReleaseDrainsWithinFade(t *testing.T) {
	v := newSineVoice(beep.SampleRate(synthSampleRate), 69)

	head := make([][2]float64, 512)
	if n, ok := v.Stream(head); n != len(head) || !ok {
		t.Fatalf("warmup Stream = (%d, %v)", n, ok)
	}

	v.release()
	tail := make([][2]float64, fadeSamples*2)
	n, ok := v.Stream(tail)
	if !ok || n != fadeSamples {
		t.Fatalf("release ramp streamed (%d, %v), want %d live samples", n, ok, fadeSamples)
	}
	if n2, ok2 := v.Stream(tail); n2 != 0 || ok2 {
		t.Errorf("drained voice streamed (%d, %v), want (0, false)", n2, ok2)
	}
}

func TestSineVoice_HardCapEndsVoice(t *testing.T) {
	v := newSineVoice(beep.SampleRate(synthSampleRate), 60)

	buf := make([][2]float64, 1024)
	total := 0
	for {
		n, ok := v.Stream(buf)
		total += n
		if !ok {
			break
		}
		if total > voiceSamples+fadeSamples+len(buf) {
			t.Fatalf("voice still live after %d samples", total)
		}
	}
	// cap plus the automatic release ramp
	if want := voiceSamples + fadeSamples; total != want {
		t.Errorf("voice lasted %d samples, want %d", total, want)
	}
}
