package session

import "testing"

func TestSession_Defaults(t *testing.T) {
	s := New(0, 0, 0)
	if s.PixelsPerSecond() != DefaultMinZoom {
		t.Errorf("zoom = %v, want clamp to %v", s.PixelsPerSecond(), DefaultMinZoom)
	}
	if !s.QuantizeEnabled() {
		t.Error("quantize should default on")
	}
	if s.CursorMode() != ModeSelect {
		t.Errorf("cursor mode = %v, want select", s.CursorMode())
	}
}

func TestSession_ZoomClamps(t *testing.T) {
	s := New(10, 100, 50)
	s.SetPixelsPerSecond(5)
	if s.PixelsPerSecond() != 10 {
		t.Errorf("zoom = %v, want 10", s.PixelsPerSecond())
	}
	s.SetPixelsPerSecond(500)
	if s.PixelsPerSecond() != 100 {
		t.Errorf("zoom = %v, want 100", s.PixelsPerSecond())
	}
}

func TestSession_PlaybackTimeClamps(t *testing.T) {
	s := New(10, 100, 50)
	s.SetPlaybackTime(-2)
	if s.PlaybackTime() != 0 {
		t.Errorf("time = %v, want 0", s.PlaybackTime())
	}
}

func TestSession_ExportRangeNormalized(t *testing.T) {
	s := New(10, 100, 50)
	a, b := 10.0, 4.0
	s.SetExportRange(&a, &b)
	start, end := s.ExportRange()
	if start == nil || end == nil || *start != 4 || *end != 10 {
		t.Fatalf("range = (%v, %v), want (4, 10)", start, end)
	}

	// Open-ended endpoints pass through.
	s.SetExportRange(&a, nil)
	start, end = s.ExportRange()
	if start == nil || *start != 10 || end != nil {
		t.Errorf("range = (%v, %v), want (10, nil)", start, end)
	}

	// Returned pointers are copies.
	*start = 99
	again, _ := s.ExportRange()
	if *again != 10 {
		t.Error("mutating a returned endpoint leaked into the session")
	}
}

func TestSession_ListenerDispatch(t *testing.T) {
	s := New(10, 100, 50)
	calls := 0
	unsub := s.Subscribe(func() { calls++ })

	s.SetPlaybackTime(1)
	s.SetPlaybackTime(1) // unchanged, no notification
	s.SetCursorMode(ModeDraw)
	s.SetQuantizeEnabled(false)
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}

	unsub()
	s.SetCursorMode(ModeSplit)
	if calls != 3 {
		t.Error("unsubscribed listener still called")
	}
}

func TestSession_ModalLockAndDisable(t *testing.T) {
	s := New(10, 100, 50)
	s.SetEditingPartID("part-9")
	if s.EditingPartID() != "part-9" {
		t.Errorf("editing part = %q", s.EditingPartID())
	}
	s.SetDisabled(true)
	if !s.Disabled() {
		t.Error("disabled flag did not stick")
	}
}
