package project

import "testing"

func TestDeriveSustain_Pairs(t *testing.T) {
	ccs := []ControlChange{
		{Tick: 0, Controller: SustainController, Value: 127},
		{Tick: 480, Controller: SustainController, Value: 0},
		{Tick: 960, Controller: SustainController, Value: 80},
		{Tick: 1200, Controller: SustainController, Value: 20},
	}
	ranges := DeriveSustain(ccs, 4800)
	want := []SustainRange{{0, 480}, {960, 1200}}
	if len(ranges) != len(want) {
		t.Fatalf("ranges = %v, want %v", ranges, want)
	}
	for i := range want {
		if ranges[i] != want[i] {
			t.Errorf("range %d = %+v, want %+v", i, ranges[i], want[i])
		}
	}
}

func TestDeriveSustain_TrailingOpenClosesAtPartEnd(t *testing.T) {
	ccs := []ControlChange{{Tick: 1000, Controller: SustainController, Value: 127}}
	ranges := DeriveSustain(ccs, 2000)
	if len(ranges) != 1 || ranges[0] != (SustainRange{1000, 2000}) {
		t.Errorf("ranges = %v, want one range 1000..2000", ranges)
	}
}

func TestDeriveSustain_IgnoresOtherControllers(t *testing.T) {
	ccs := []ControlChange{
		{Tick: 0, Controller: 1, Value: 127},
		{Tick: 100, Controller: 7, Value: 100},
	}
	if got := DeriveSustain(ccs, 1000); got != nil {
		t.Errorf("non-pedal controllers produced ranges: %v", got)
	}
}

func TestDeriveSustain_RedundantEvents(t *testing.T) {
	// Double-down and double-up events collapse into one interval.
	ccs := []ControlChange{
		{Tick: 0, Controller: SustainController, Value: 127},
		{Tick: 100, Controller: SustainController, Value: 100},
		{Tick: 300, Controller: SustainController, Value: 0},
		{Tick: 400, Controller: SustainController, Value: 0},
	}
	ranges := DeriveSustain(ccs, 1000)
	if len(ranges) != 1 || ranges[0] != (SustainRange{0, 300}) {
		t.Errorf("ranges = %v, want one range 0..300", ranges)
	}
}

func TestSustainCCs_WriteBack(t *testing.T) {
	existing := []ControlChange{
		{Tick: 50, Controller: 7, Value: 100},
		{Tick: 0, Controller: SustainController, Value: 127},
		{Tick: 480, Controller: SustainController, Value: 0},
	}
	out := SustainCCs([]SustainRange{{StartTick: 240, EndTick: 720}}, existing)
	if len(out) != 3 {
		t.Fatalf("cc count = %d, want 3 (volume + one pedal pair)", len(out))
	}
	if out[0].Controller != 7 || out[0].Tick != 50 {
		t.Errorf("other controllers must pass through, got %+v", out[0])
	}
	if out[1] != (ControlChange{Tick: 240, Controller: SustainController, Value: 127}) {
		t.Errorf("pedal down = %+v", out[1])
	}
	if out[2] != (ControlChange{Tick: 720, Controller: SustainController, Value: 0}) {
		t.Errorf("pedal up = %+v", out[2])
	}
}

func TestSustain_RoundTripThroughStore(t *testing.T) {
	s := newTestStore()
	want := []SustainRange{{StartTick: 0, EndTick: 480}, {StartTick: 960, EndTick: 1440}}
	if !s.SetSustainRanges("part-1", want) {
		t.Fatal("SetSustainRanges failed")
	}
	got := s.SustainRanges("part-1")
	if len(got) != len(want) {
		t.Fatalf("ranges = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("range %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if s.SetSustainRanges("missing", want) {
		t.Error("unknown part must fail")
	}
	if s.SustainRanges("missing") != nil {
		t.Error("unknown part should derive nil")
	}
}
