package session

import "sync"

// CursorMode selects what a plain click in the note grid does.
type CursorMode int

const (
	ModeSelect CursorMode = iota
	ModeDraw
	ModeSplit
)

// String names a cursor mode for the status line.
func (m CursorMode) String() string {
	switch m {
	case ModeDraw:
		return "draw"
	case ModeSplit:
		return "split"
	default:
		return "select"
	}
}

// Zoom bounds used when none are configured.
const (
	DefaultMinZoom = 10.0
	DefaultMaxZoom = 1000.0
)

// Session is the ephemeral cross-component UI state: transport time,
// the locator seconds cache, cursor mode, quantize flag, the modal edit
// lock and zoom. It is passed explicitly to whatever needs it rather
// than living as ambient global state, so gesture machines stay
// testable in isolation.
type Session struct {
	mu sync.Mutex

	playbackTime    float64
	exportStart     *float64 // seconds cache; the measure form in the store is durable
	exportEnd       *float64
	cursorMode      CursorMode
	quantize        bool
	editingPartID   string
	pixelsPerSecond float64
	minZoom         float64
	maxZoom         float64
	disabled        bool

	listeners map[int]func()
	nextID    int
}

// New creates a session with the given zoom bounds and initial zoom.
func New(minZoom, maxZoom, pixelsPerSecond float64) *Session {
	if minZoom <= 0 {
		minZoom = DefaultMinZoom
	}
	if maxZoom < minZoom {
		maxZoom = DefaultMaxZoom
	}
	s := &Session{
		minZoom:   minZoom,
		maxZoom:   maxZoom,
		quantize:  true,
		listeners: make(map[int]func()),
	}
	s.pixelsPerSecond = s.clampZoom(pixelsPerSecond)
	return s
}

// Subscribe registers a change listener and returns its unsubscribe
// function.
func (s *Session) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (s *Session) clampZoom(pps float64) float64 {
	if pps < s.minZoom {
		return s.minZoom
	}
	if pps > s.maxZoom {
		return s.maxZoom
	}
	return pps
}

// PlaybackTime returns the transport time in seconds.
func (s *Session) PlaybackTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playbackTime
}

// SetPlaybackTime moves the transport, clamped to zero.
func (s *Session) SetPlaybackTime(t float64) {
	if t < 0 {
		t = 0
	}
	s.mu.Lock()
	changed := s.playbackTime != t
	s.playbackTime = t
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// ExportRange returns the cached locator seconds. Either endpoint may
// be nil when unset.
func (s *Session) ExportRange() (start, end *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exportStart != nil {
		v := *s.exportStart
		start = &v
	}
	if s.exportEnd != nil {
		v := *s.exportEnd
		end = &v
	}
	return start, end
}

// SetExportRange replaces the locator seconds cache. When both ends are
// set the smaller one becomes the start.
func (s *Session) SetExportRange(start, end *float64) {
	if start != nil && end != nil && *end < *start {
		start, end = end, start
	}
	s.mu.Lock()
	s.exportStart = copyFloat(start)
	s.exportEnd = copyFloat(end)
	s.mu.Unlock()
	s.notify()
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// CursorMode returns the active cursor mode.
func (s *Session) CursorMode() CursorMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorMode
}

// SetCursorMode switches the cursor mode.
func (s *Session) SetCursorMode(m CursorMode) {
	s.mu.Lock()
	changed := s.cursorMode != m
	s.cursorMode = m
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// QuantizeEnabled reports whether gesture commits snap to the grid.
func (s *Session) QuantizeEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quantize
}

// SetQuantizeEnabled toggles grid snapping.
func (s *Session) SetQuantizeEnabled(on bool) {
	s.mu.Lock()
	changed := s.quantize != on
	s.quantize = on
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// EditingPartID returns the part locked by a modal sub-editor, or "".
func (s *Session) EditingPartID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingPartID
}

// SetEditingPartID locks a part for modal editing. Active gestures
// watch this and cancel when a modal opens.
func (s *Session) SetEditingPartID(id string) {
	s.mu.Lock()
	changed := s.editingPartID != id
	s.editingPartID = id
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// PixelsPerSecond returns the horizontal zoom.
func (s *Session) PixelsPerSecond() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pixelsPerSecond <= 0 {
		return s.minZoom
	}
	return s.pixelsPerSecond
}

// SetPixelsPerSecond sets the horizontal zoom, clamped to the bounds.
func (s *Session) SetPixelsPerSecond(pps float64) {
	s.mu.Lock()
	pps = s.clampZoom(pps)
	changed := s.pixelsPerSecond != pps
	s.pixelsPerSecond = pps
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// ZoomBounds returns the configured min and max zoom.
func (s *Session) ZoomBounds() (min, max float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minZoom, s.maxZoom
}

// Disabled reports the host's global interaction-off flag.
func (s *Session) Disabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disabled
}

// SetDisabled flips the global interaction flag. Active gestures cancel
// when it turns on.
func (s *Session) SetDisabled(off bool) {
	s.mu.Lock()
	changed := s.disabled != off
	s.disabled = off
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}
