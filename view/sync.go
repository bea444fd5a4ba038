package view

// Surface identifies one of the four scrollable regions sharing the
// timeline.
type Surface int

const (
	SurfaceRuler Surface = iota
	SurfaceLanes
	SurfaceKeys
	SurfaceVelocity
	numSurfaces
)

// String names a surface for logging.
func (s Surface) String() string {
	switch s {
	case SurfaceRuler:
		return "ruler"
	case SurfaceLanes:
		return "lanes"
	case SurfaceKeys:
		return "keys"
	case SurfaceVelocity:
		return "velocity"
	}
	return "unknown"
}

// EstimatedWidth stands in for a surface that has not been measured
// yet, so geometry keeps working before the first layout pass.
const EstimatedWidth = 800.0

// ScrollSync keeps the ruler, note lanes, piano keys and velocity graph
// consistent: one shared horizontal scroll across ruler/lanes/velocity,
// one vertical scroll shared by lanes and keys, and a common content
// width derived from the virtual timeline. Propagation is synchronous
// inside the triggering call, guarded by a latch so a surface reacting
// to a propagated update cannot start a feedback loop. The latch is
// released at the end of the call, not at a frame boundary, so the next
// genuine event always syncs.
type ScrollSync struct {
	pixelsPerSecond float64
	windowSeconds   float64

	widths  [numSurfaces]float64
	hScroll [numSurfaces]float64
	vScroll float64

	contentHeight  float64
	viewportHeight float64

	syncing  bool
	lastSet  [numSurfaces]float64
	suppress [numSurfaces]bool

	onScroll func(Surface, float64)
}

// NewScrollSync builds a synchronizer over a virtual timeline of the
// given length in seconds.
func NewScrollSync(windowSeconds, pixelsPerSecond float64) *ScrollSync {
	return &ScrollSync{
		windowSeconds:   windowSeconds,
		pixelsPerSecond: pixelsPerSecond,
	}
}

// OnScroll installs a hook invoked for each surface that adopts a new
// horizontal position during propagation. The hook runs under the
// latch: calls back into SetScrollLeft are rejected.
func (s *ScrollSync) OnScroll(fn func(Surface, float64)) {
	s.onScroll = fn
}

// horizontal reports whether a surface follows the shared horizontal
// axis. The key column only scrolls vertically.
func horizontal(sf Surface) bool {
	return sf == SurfaceRuler || sf == SurfaceLanes || sf == SurfaceVelocity
}

// SetViewportWidth records a surface's measured width.
func (s *ScrollSync) SetViewportWidth(sf Surface, w float64) {
	s.widths[sf] = w
}

// ViewportWidth returns the measured width, or the estimate while the
// surface is unmeasured.
func (s *ScrollSync) ViewportWidth(sf Surface) float64 {
	if s.widths[sf] <= 0 {
		return EstimatedWidth
	}
	return s.widths[sf]
}

// ContentWidth is the pixel width of the whole virtual timeline, equal
// across every horizontal surface.
func (s *ScrollSync) ContentWidth() float64 {
	return s.windowSeconds * s.pixelsPerSecond
}

// PixelsPerSecond returns the current zoom.
func (s *ScrollSync) PixelsPerSecond() float64 {
	return s.pixelsPerSecond
}

func (s *ScrollSync) clampLeft(origin Surface, px float64) float64 {
	max := s.ContentWidth() - s.ViewportWidth(origin)
	if max < 0 {
		max = 0
	}
	if px < 0 {
		return 0
	}
	if px > max {
		return max
	}
	return px
}

// SetScrollLeft moves the shared horizontal scroll and propagates it to
// the other horizontal surfaces in the same call. Re-entrant calls are
// dropped by the latch.
func (s *ScrollSync) SetScrollLeft(origin Surface, px float64) {
	if s.syncing || !horizontal(origin) {
		return
	}
	s.syncing = true
	defer func() { s.syncing = false }()

	px = s.clampLeft(origin, px)
	for sf := Surface(0); sf < numSurfaces; sf++ {
		if !horizontal(sf) {
			continue
		}
		s.hScroll[sf] = px
		s.lastSet[sf] = px
		if s.onScroll != nil {
			s.onScroll(sf, px)
		}
	}
}

// ObserveScroll feeds a scroll event reported by a surface itself and
// returns the position the surface must end up at. While momentum
// suppression is armed, an observed value that diverges from the last
// programmatic one is rejected and the programmatic value restored;
// inertial scrolling keeps applying after a zoom-triggered reset on
// some platforms. A matching observation disarms the suppressor.
func (s *ScrollSync) ObserveScroll(origin Surface, px float64) float64 {
	if !horizontal(origin) {
		return 0
	}
	if s.suppress[origin] {
		if px != s.lastSet[origin] {
			return s.lastSet[origin]
		}
		s.suppress[origin] = false
		return px
	}
	s.SetScrollLeft(origin, px)
	return s.hScroll[origin]
}

// ScrollLeft returns a surface's horizontal position.
func (s *ScrollSync) ScrollLeft(sf Surface) float64 {
	if !horizontal(sf) {
		return 0
	}
	return s.hScroll[sf]
}

// SetVerticalExtent records the keyboard content height and the shared
// viewport height used for vertical clamping.
func (s *ScrollSync) SetVerticalExtent(contentH, viewportH float64) {
	s.contentHeight = contentH
	s.viewportHeight = viewportH
	s.vScroll = s.clampTop(s.vScroll)
}

func (s *ScrollSync) clampTop(px float64) float64 {
	max := s.contentHeight - s.viewportHeight
	if max < 0 {
		max = 0
	}
	if px < 0 {
		return 0
	}
	if px > max {
		return max
	}
	return px
}

// SetScrollTop moves the vertical scroll shared by lanes and keys. The
// ruler and velocity graph have no vertical axis.
func (s *ScrollSync) SetScrollTop(origin Surface, px float64) {
	if origin != SurfaceLanes && origin != SurfaceKeys {
		return
	}
	s.vScroll = s.clampTop(px)
}

// ScrollTop returns the shared vertical position.
func (s *ScrollSync) ScrollTop(sf Surface) float64 {
	if sf != SurfaceLanes && sf != SurfaceKeys {
		return 0
	}
	return s.vScroll
}

// SetZoom changes pixels-per-second keeping the time under anchorPx (a
// viewport offset) stationary, then resets every horizontal scroll and
// arms momentum suppression: the reset is programmatic, and whatever
// inertia the platform still applies must not win over it.
func (s *ScrollSync) SetZoom(pixelsPerSecond, anchorPx float64) {
	if pixelsPerSecond <= 0 {
		return
	}
	var anchorTime float64
	if s.pixelsPerSecond > 0 {
		anchorTime = (s.hScroll[SurfaceLanes] + anchorPx) / s.pixelsPerSecond
	}
	s.pixelsPerSecond = pixelsPerSecond
	px := s.clampLeft(SurfaceLanes, anchorTime*pixelsPerSecond-anchorPx)
	for sf := Surface(0); sf < numSurfaces; sf++ {
		if !horizontal(sf) {
			continue
		}
		s.hScroll[sf] = px
		s.lastSet[sf] = px
		s.suppress[sf] = true
	}
}

// VisibleTimeRange reports the seconds interval a surface currently
// shows.
func (s *ScrollSync) VisibleTimeRange(sf Surface) (start, end float64) {
	if s.pixelsPerSecond <= 0 {
		return 0, 0
	}
	start = s.hScroll[sf] / s.pixelsPerSecond
	return start, start + s.ViewportWidth(sf)/s.pixelsPerSecond
}

// Mapper builds the pixel/time mapper for a surface's current scroll.
func (s *ScrollSync) Mapper(sf Surface) Mapper {
	start, _ := s.VisibleTimeRange(sf)
	return Mapper{PixelsPerSecond: s.pixelsPerSecond, StartTime: start}
}
