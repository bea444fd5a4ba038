package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"noteroll/config"
	"noteroll/debug"
	"noteroll/gesture"
	"noteroll/preview"
	"noteroll/project"
	"noteroll/session"
	"noteroll/theme"
	"noteroll/timeline"
	"noteroll/view"
	"noteroll/widgets"
)

// Fixed terminal layout: header, ruler, lanes beside the key column,
// sustain strip, velocity graph, status, help.
const (
	keysWidth   = 6
	graphRows   = 4
	sustainRows = 1
)

// layoutBounds holds the row spans mouse hit-testing resolves against.
type layoutBounds struct {
	width, height int
	rulerTop      int
	lanesTop      int
	laneRows      int
	sustainTop    int
	graphTop      int
}

type Model struct {
	Store  *project.Store
	Sess   *session.Session
	Cfg    *config.Config
	Theme  *theme.Theme
	Player preview.Player

	gestures *gesture.Set
	sync     *view.ScrollSync
	anim     *view.Animator
	lanes    *view.LaneTable

	partID   string
	notes    []project.Note
	timings  []project.NoteTiming
	version  uint64
	selected map[int]bool

	markers []timeline.Marker

	keys     keyMap
	help     help.Model
	bounds   *layoutBounds
	status   string
	keyDown  int // pitch sounding from a key-column press, -1 when silent
	quitting bool

	updates chan project.Change
	unsubs  []func()
}

// UpdateMsg carries a store or session change into the Update loop.
type UpdateMsg project.Change

// changeSession marks a session notification; the store never emits it.
const changeSession project.ChangeType = "session"

type frameMsg time.Time

type previewOffMsg uint8

func NewModel(store *project.Store, sess *session.Session, cfg *config.Config, th *theme.Theme, player preview.Player) Model {
	sig := store.TimeSignature()
	bpm := store.BPM()

	m := Model{
		Store:  store,
		Sess:   sess,
		Cfg:    cfg,
		Theme:  th,
		Player: player,

		gestures: gesture.NewSet(store, sess, player),
		sync:     view.NewScrollSync(timeline.WindowDuration(sig, bpm), sess.PixelsPerSecond()),
		anim:     &view.Animator{},
		lanes:    view.NewLaneTable(1, 1),

		selected: make(map[int]bool),
		markers:  timeline.Markers(sig, bpm),
		keys:     newKeyMap(),
		help:     help.New(),
		bounds:   &layoutBounds{},
		keyDown:  -1,
		updates:  make(chan project.Change, 64),
	}
	if parts := store.Parts(); len(parts) > 0 {
		m.partID = parts[0].ID
	}
	m.anim.SyncRendered(sess.PlaybackTime())
	m.refreshNotes(project.Change{Type: project.ChangeProject})

	push := func(c project.Change) {
		select {
		case m.updates <- c:
		default: // a full buffer coalesces; the next receipt re-reads everything
		}
	}
	m.unsubs = append(m.unsubs,
		store.Subscribe(push),
		sess.Subscribe(func() { push(project.Change{Type: changeSession}) }),
	)
	return m
}

// ListenForUpdates re-arms the change listener: one message per
// wake-up, the command re-issued on receipt.
func ListenForUpdates(ch chan project.Change) tea.Cmd {
	return func() tea.Msg {
		return UpdateMsg(<-ch)
	}
}

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func previewOffCmd(pitch uint8) tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
		return previewOffMsg(pitch)
	})
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bounds.width = msg.Width
		m.bounds.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case UpdateMsg:
		c := project.Change(msg)
		switch c.Type {
		case project.ChangeProject, project.ChangeTempo, project.ChangeTimeSignature:
			m.rebuildTimeline()
		}
		m.refreshNotes(c)
		if m.Sess.Disabled() {
			m.gestures.CancelAll()
		}
		m.anim.SetTarget(m.Sess.PlaybackTime())
		cmds := []tea.Cmd{ListenForUpdates(m.updates)}
		if m.anim.TryBegin() {
			cmds = append(cmds, frameCmd())
		}
		return m, tea.Batch(cmds...)

	case frameMsg:
		if !m.anim.Step(time.Time(msg)) {
			return m, frameCmd()
		}
		return m, nil

	case previewOffMsg:
		m.Player.StopPreview(uint8(msg))
		return m, nil
	}
	return m, nil
}

// layout recomputes row spans and feeds the measured geometry to the
// scroll synchronizer.
func (m *Model) layout() {
	b := m.bounds
	b.rulerTop = 1
	b.lanesTop = 2
	// header + ruler above, sustain + graph + status + help below
	b.laneRows = b.height - 2 - sustainRows - graphRows - 2
	if b.laneRows < 1 {
		b.laneRows = 1
	}
	b.sustainTop = b.lanesTop + b.laneRows
	b.graphTop = b.sustainTop + sustainRows
	m.measure()
}

func (m *Model) measure() {
	wpx := float64(m.bounds.width-keysWidth) * m.cellPx()
	if wpx < 0 {
		wpx = 0
	}
	m.sync.SetViewportWidth(view.SurfaceRuler, wpx)
	m.sync.SetViewportWidth(view.SurfaceLanes, wpx)
	m.sync.SetViewportWidth(view.SurfaceVelocity, wpx)
	m.sync.SetVerticalExtent(float64(m.lanes.Len())*m.rowPx(), float64(m.bounds.laneRows)*m.rowPx())
}

// cellPx is how many virtual pixels one terminal cell spans. All
// gesture and mapper math runs in that pixel space.
func (m *Model) cellPx() float64 {
	if m.Cfg.View.CellPixels > 0 {
		return m.Cfg.View.CellPixels
	}
	return 10
}

func (m *Model) rowPx() float64 { return m.cellPx() }

// cellOf converts a timeline position to the terminal cell covering
// it, flooring so positions left of the viewport stay negative rather
// than aliasing into cell 0.
func (m *Model) cellOf(mp view.Mapper, t float64) int {
	return int(math.Floor(mp.PixelAt(t) / m.cellPx()))
}

// rebuildTimeline re-derives everything hanging off tempo and
// signature: the virtual window length, the beat markers and the
// locator seconds cache, recomputed from the durable measure form the
// store holds.
func (m *Model) rebuildTimeline() {
	sig := m.Store.TimeSignature()
	bpm := m.Store.BPM()

	old := m.sync
	m.sync = view.NewScrollSync(timeline.WindowDuration(sig, bpm), m.Sess.PixelsPerSecond())
	m.measure()
	m.sync.SetScrollLeft(view.SurfaceLanes, old.ScrollLeft(view.SurfaceLanes))
	m.sync.SetScrollTop(view.SurfaceLanes, old.ScrollTop(view.SurfaceLanes))

	m.markers = timeline.Markers(sig, bpm)

	if r, ok := m.Store.ExportRangeMeasure(); ok {
		start := timeline.TimeAtMeasure(r.StartMeasure, sig, bpm)
		end := timeline.TimeAtMeasure(r.EndMeasure, sig, bpm)
		m.Sess.SetExportRange(&start, &end)
	}
}

// refreshNotes re-derives the visible-note projection when the store
// moved past it. The part version only moves on non-preview writes, so
// preview changes force a re-read of their part explicitly.
func (m *Model) refreshNotes(c project.Change) {
	if m.partID == "" {
		if parts := m.Store.Parts(); len(parts) > 0 {
			m.partID = parts[0].ID
		} else {
			return
		}
	}
	v := m.Store.PartVersion(m.partID)
	preview := c.Preview && (c.PartID == "" || c.PartID == m.partID)
	if v == m.version && !preview && c.Type != project.ChangeProject {
		return
	}
	m.notes = m.Store.PartNotes(m.partID)
	m.timings = m.Store.NoteTimings(m.partID)
	m.version = v
	for i := range m.selected {
		if i >= len(m.notes) {
			delete(m.selected, i)
		}
	}
}

func (m *Model) selectedIndices() []int {
	out := make([]int, 0, len(m.selected))
	for i := range m.selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// gridStep is the tick distance arrow nudges move by: one beat when
// quantizing, an eighth of a beat otherwise.
func (m *Model) gridStep() int64 {
	q := timeline.BeatTicks(m.Store.PPQN(), m.Store.TimeSignature().BeatUnit)
	if m.Sess.QuantizeEnabled() {
		return q.Ticks
	}
	step := q.Ticks / 8
	if step < 1 {
		step = 1
	}
	return step
}

func (m *Model) nudgeSelection(dtick int64, dpitch int) {
	if m.partID == "" || len(m.selected) == 0 {
		return
	}
	patches := make([]project.IndexedPatch, 0, len(m.selected))
	for _, i := range m.selectedIndices() {
		n := m.notes[i]
		start := n.StartTick + dtick
		if start < 0 {
			start = 0
		}
		pitch := project.ClampPitch(int(n.Pitch) + dpitch)
		patches = append(patches, project.IndexedPatch{
			Index: i,
			Patch: project.NotePatch{Pitch: &pitch, StartTick: &start},
		})
	}
	m.Store.UpdateNotes(m.partID, patches, false)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.gestures.CancelAll()
		m.anim.Stop()
		for _, unsub := range m.unsubs {
			unsub()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.ModeSelect):
		m.Sess.SetCursorMode(session.ModeSelect)
	case key.Matches(msg, m.keys.ModeDraw):
		m.Sess.SetCursorMode(session.ModeDraw)
	case key.Matches(msg, m.keys.ModeSplit):
		m.Sess.SetCursorMode(session.ModeSplit)

	case key.Matches(msg, m.keys.Quantize):
		m.Sess.SetQuantizeEnabled(!m.Sess.QuantizeEnabled())

	case key.Matches(msg, m.keys.ZoomIn):
		m.zoomBy(1.25, m.sync.ViewportWidth(view.SurfaceLanes)/2)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoomBy(1/1.25, m.sync.ViewportWidth(view.SurfaceLanes)/2)

	case key.Matches(msg, m.keys.ScrollLeft):
		m.scrollBy(-4 * m.cellPx())
	case key.Matches(msg, m.keys.ScrollRight):
		m.scrollBy(4 * m.cellPx())
	case key.Matches(msg, m.keys.ScrollUp):
		m.sync.SetScrollTop(view.SurfaceLanes, m.sync.ScrollTop(view.SurfaceLanes)-2*m.rowPx())
	case key.Matches(msg, m.keys.ScrollDown):
		m.sync.SetScrollTop(view.SurfaceLanes, m.sync.ScrollTop(view.SurfaceLanes)+2*m.rowPx())

	case key.Matches(msg, m.keys.NudgeLeft):
		m.nudgeSelection(-m.gridStep(), 0)
	case key.Matches(msg, m.keys.NudgeRight):
		m.nudgeSelection(m.gridStep(), 0)
	case key.Matches(msg, m.keys.TransposeUp):
		m.nudgeSelection(0, 1)
	case key.Matches(msg, m.keys.TransposeDown):
		m.nudgeSelection(0, -1)

	case key.Matches(msg, m.keys.Delete):
		if n := m.Store.RemoveNotes(m.partID, m.selectedIndices()); n > 0 {
			m.selected = make(map[int]bool)
			m.status = fmt.Sprintf("deleted %d", n)
		}
	case key.Matches(msg, m.keys.Merge):
		if m.Store.MergeNotes(m.partID, m.selectedIndices()) {
			m.selected = make(map[int]bool)
			m.status = "merged"
		}

	case key.Matches(msg, m.keys.Rewind):
		m.Sess.SetPlaybackTime(0)

	case key.Matches(msg, m.keys.Save):
		if err := project.Save(m.Store.Snapshot(), m.Store.Name()); err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			debug.Log("save", "save failed: %v", err)
		} else {
			m.status = "saved"
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) zoomBy(factor, anchorPx float64) {
	m.Sess.SetPixelsPerSecond(m.Sess.PixelsPerSecond() * factor)
	m.sync.SetZoom(m.Sess.PixelsPerSecond(), anchorPx)
}

func (m *Model) scrollBy(dpx float64) {
	m.sync.SetScrollLeft(view.SurfaceLanes, m.sync.ScrollLeft(view.SurfaceLanes)+dpx)
}

// laneSurface captures the lane geometry a gesture resolves against.
func (m *Model) laneSurface() gesture.Surface {
	var partStart int64
	if part, ok := m.Store.FindPart(m.partID); ok {
		partStart = part.StartTick
	}
	return gesture.Surface{
		PartID:    m.partID,
		PartStart: partStart,
		Map:       m.sync.Mapper(view.SurfaceLanes),
		Vert: view.VertMap{
			ScrollTop:     m.sync.ScrollTop(view.SurfaceLanes),
			ContentHeight: float64(m.lanes.Len()) * m.rowPx(),
		},
		Lanes: m.lanes,
	}
}

// lanePoint maps a terminal cell in the lane area to the center of its
// virtual pixel cell.
func (m *Model) lanePoint(x, y int) gesture.Point {
	return gesture.Point{
		X: (float64(x-keysWidth) + 0.5) * m.cellPx(),
		Y: (float64(y-m.bounds.lanesTop) + 0.5) * m.rowPx(),
	}
}

// graphPoint maps a terminal cell to velocity-graph pixel space. Y
// goes negative above the graph so a drag past the top pins to 127.
func (m *Model) graphPoint(x, y int) gesture.Point {
	return gesture.Point{
		X: (float64(x-keysWidth) + 0.5) * m.cellPx(),
		Y: (float64(y-m.bounds.graphTop) + 0.5) * m.rowPx(),
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// A machine that armed on pointer-down owns the pointer wherever
	// it travels: moves keep tracking it and the release finishes it,
	// whichever region it lands over. Only then does the event route
	// by screen region.
	if m.gestures.Busy() || m.keyDown >= 0 {
		switch msg.Action {
		case tea.MouseActionMotion:
			if m.gestures.Busy() {
				m.moveGestures(msg)
				return m, nil
			}
		case tea.MouseActionRelease:
			m.finishGestures(msg)
			return m, nil
		}
	}
	b := m.bounds
	switch {
	case msg.Y == b.rulerTop:
		m.handleRulerMouse(msg)
	case msg.Y >= b.lanesTop && msg.Y < b.lanesTop+b.laneRows && msg.X < keysWidth:
		return m.handleKeysMouse(msg)
	case msg.Y >= b.lanesTop && msg.Y < b.lanesTop+b.laneRows:
		return m.handleLanesMouse(msg)
	case msg.Y >= b.graphTop && msg.Y < b.graphTop+graphRows && msg.X >= keysWidth:
		m.handleGraphMouse(msg)
	}
	return m, nil
}

// moveGestures feeds the pointer to every held machine in its own
// coordinate space. Idle machines ignore the call.
func (m *Model) moveGestures(msg tea.MouseMsg) {
	p := m.lanePoint(msg.X, msg.Y)
	m.gestures.Drag.Move(p)
	m.gestures.Resize.Move(p)
	m.gestures.Marquee.Move(p)
	m.gestures.Ruler.Move(gesture.Point{X: p.X})
	m.gestures.Velocity.Move(m.graphPoint(msg.X, msg.Y))
}

func (m *Model) handleRulerMouse(msg tea.MouseMsg) {
	p := gesture.Point{X: (float64(msg.X-keysWidth) + 0.5) * m.cellPx()}
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.gestures.Ruler.Down(p, gesture.Modifiers{Ctrl: msg.Ctrl, Alt: msg.Alt}, m.sync.Mapper(view.SurfaceRuler))
	case msg.Button == tea.MouseButtonWheelUp:
		m.scrollBy(-2 * m.cellPx())
	case msg.Button == tea.MouseButtonWheelDown:
		m.scrollBy(2 * m.cellPx())
	}
}

func (m Model) handleKeysMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.sync.SetScrollTop(view.SurfaceKeys, m.sync.ScrollTop(view.SurfaceKeys)-m.rowPx())
	case msg.Button == tea.MouseButtonWheelDown:
		m.sync.SetScrollTop(view.SurfaceKeys, m.sync.ScrollTop(view.SurfaceKeys)+m.rowPx())
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		sf := m.laneSurface()
		if pitch, ok := sf.PitchAt(m.lanePoint(keysWidth, msg.Y)); ok {
			m.Player.PreviewNote(pitch, 100, m.instrument())
			m.keyDown = int(pitch)
		}
	}
	return m, nil
}

func (m Model) handleLanesMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := m.lanePoint(msg.X, msg.Y)
	sf := m.laneSurface()

	switch {
	case msg.Button == tea.MouseButtonWheelUp && msg.Ctrl:
		m.zoomBy(1.25, p.X)
	case msg.Button == tea.MouseButtonWheelDown && msg.Ctrl:
		m.zoomBy(1/1.25, p.X)
	case msg.Button == tea.MouseButtonWheelUp && msg.Shift:
		m.scrollBy(-2 * m.cellPx())
	case msg.Button == tea.MouseButtonWheelDown && msg.Shift:
		m.scrollBy(2 * m.cellPx())
	case msg.Button == tea.MouseButtonWheelUp:
		m.sync.SetScrollTop(view.SurfaceLanes, m.sync.ScrollTop(view.SurfaceLanes)-m.rowPx())
	case msg.Button == tea.MouseButtonWheelDown:
		m.sync.SetScrollTop(view.SurfaceLanes, m.sync.ScrollTop(view.SurfaceLanes)+m.rowPx())

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return m.lanesPress(msg, p, sf)

	case msg.Action == tea.MouseActionMotion:
		if m.Sess.CursorMode() == session.ModeSplit {
			m.gestures.Split.Hover(p, sf)
		}
	}
	return m, nil
}

func (m Model) lanesPress(msg tea.MouseMsg, p gesture.Point, sf gesture.Surface) (tea.Model, tea.Cmd) {
	if m.partID == "" {
		return m, nil
	}
	switch m.Sess.CursorMode() {
	case session.ModeSplit:
		if m.gestures.Split.Click(p, sf) {
			m.status = "split"
		}
		return m, nil

	case session.ModeDraw:
		pitch, ok := sf.PitchAt(p)
		if !ok {
			return m, nil
		}
		if i := gesture.HitNote(m.notes, m.timings, sf.TimeAt(p), pitch); i >= 0 {
			return m.armNoteGesture(msg, p, sf, i)
		}
		tick := gesture.SnapTick(m.Store, m.Sess, sf.TickAt(m.Store, p))
		n := project.Note{
			Pitch:         pitch,
			Velocity:      100,
			StartTick:     tick,
			DurationTicks: m.gridStep(),
		}
		if idx, added := m.Store.AddNote(m.partID, n); added {
			m.selected = map[int]bool{idx: true}
			m.Player.PreviewNote(pitch, n.Velocity, m.instrument())
			return m, previewOffCmd(pitch)
		}
		return m, nil

	default: // select
		pitch, ok := sf.PitchAt(p)
		if !ok {
			return m, nil
		}
		if i := gesture.HitNote(m.notes, m.timings, sf.TimeAt(p), pitch); i >= 0 {
			return m.armNoteGesture(msg, p, sf, i)
		}
		if !msg.Shift {
			m.selected = make(map[int]bool)
		}
		m.gestures.Marquee.Down(p, sf)
		return m, nil
	}
}

// armNoteGesture arms a resize when the pointer grabs a note edge and a
// drag of the selection otherwise. Shift-click only toggles membership.
func (m *Model) armNoteGesture(msg tea.MouseMsg, p gesture.Point, sf gesture.Surface, i int) (tea.Model, tea.Cmd) {
	if msg.Shift {
		if m.selected[i] {
			delete(m.selected, i)
		} else {
			m.selected[i] = true
		}
		return *m, nil
	}
	if edge := gesture.HitEdge(m.timings[i], sf.Map, p.X); edge != gesture.EdgeNone {
		m.gestures.Resize.Down(p, sf, i, edge)
		return *m, nil
	}
	if !m.selected[i] {
		m.selected = map[int]bool{i: true}
	}
	m.gestures.Drag.Down(p, sf, m.selectedIndices(), i)
	return *m, nil
}

// finishGestures ends whatever machine still holds the pointer,
// crediting each with its own coordinate space, and stops a held key
// preview.
func (m *Model) finishGestures(msg tea.MouseMsg) {
	p := m.lanePoint(msg.X, msg.Y)
	if m.gestures.Drag.Phase() != gesture.Idle {
		grabbed := m.gestures.Drag.Grabbed()
		switch m.gestures.Drag.Up(p) {
		case gesture.ResultClicked:
			m.selected = map[int]bool{grabbed: true}
		case gesture.ResultCommitted:
			debug.Log("drag", "committed %d notes", len(m.selected))
		}
	}
	m.gestures.Resize.Up(p)
	if m.gestures.Marquee.Phase() != gesture.Idle {
		if m.gestures.Marquee.Up(p) == gesture.ResultCommitted {
			for _, i := range m.gestures.Marquee.Selected() {
				m.selected[i] = true
			}
		}
	}
	if r := m.gestures.Ruler.Up(gesture.Point{X: p.X}); r != gesture.ResultNone {
		debug.Log("ruler", "gesture %v target %d", r, m.gestures.Ruler.Target())
	}
	m.gestures.Velocity.Up(m.graphPoint(msg.X, msg.Y))
	if m.keyDown >= 0 {
		m.Player.StopPreview(uint8(m.keyDown))
		m.keyDown = -1
	}
}

func (m *Model) handleGraphMouse(msg tea.MouseMsg) {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		p := m.graphPoint(msg.X, msg.Y)
		t := m.sync.Mapper(view.SurfaceVelocity).TimeAt(p.X)
		if i := m.noteAtTime(t); i >= 0 {
			m.gestures.Velocity.Down(p, m.partID, i, float64(graphRows)*m.rowPx())
		}
	}
}

// noteAtTime finds the note sounding at t on any pitch, later notes
// winning like lane hit-testing.
func (m *Model) noteAtTime(t float64) int {
	for i := len(m.timings) - 1; i >= 0; i-- {
		if t >= m.timings[i].StartTime && t < m.timings[i].StartTime+m.timings[i].Duration {
			return i
		}
	}
	return -1
}

func (m *Model) instrument() string {
	if part, ok := m.Store.FindPart(m.partID); ok {
		return part.Instrument
	}
	return ""
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	b := m.bounds
	if b.width <= keysWidth+4 || b.height < 8 {
		return "window too small"
	}
	th := m.Theme

	headerStyle := lipgloss.NewStyle().Foreground(th.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())

	sig := m.Store.TimeSignature()
	quant := "off"
	if m.Sess.QuantizeEnabled() {
		quant = "on"
	}
	header := headerStyle.Render(fmt.Sprintf("noteroll  %s  %3.0fbpm %d/%d  %s  quantize:%s  %.0fpx/s",
		m.Store.Name(), m.Store.BPM(), sig.BeatsPerMeasure, sig.BeatUnit,
		m.Sess.CursorMode(), quant, m.Sess.PixelsPerSecond()))

	var out strings.Builder
	out.WriteString(header)
	out.WriteString("\n")
	out.WriteString(strings.Repeat(" ", keysWidth))
	out.WriteString(m.rulerView())
	out.WriteString("\n")

	lanes := m.lanesView()
	keyCol := m.keysView()
	for row := 0; row < b.laneRows; row++ {
		out.WriteString(keyCol[row])
		out.WriteString(lanes.Row(row))
		out.WriteString("\n")
	}

	out.WriteString(strings.Repeat(" ", keysWidth))
	out.WriteString(m.sustainView())
	out.WriteString("\n")
	for _, row := range m.velocityView() {
		out.WriteString(strings.Repeat(" ", keysWidth))
		out.WriteString(row)
		out.WriteString("\n")
	}

	status := m.status
	if status == "" {
		status = fmt.Sprintf("%d notes, %d selected", len(m.notes), len(m.selected))
	}
	out.WriteString(dimStyle.Render(status))
	out.WriteString("\n")
	out.WriteString(m.help.View(m.keys))
	return out.String()
}

func (m Model) rulerView() string {
	width := m.bounds.width - keysWidth
	mp := m.sync.Mapper(view.SurfaceRuler)
	cell := func(t float64) int { return m.cellOf(mp, t) }

	marks := make([]widgets.RulerMark, 0, 64)
	for _, mk := range m.markers {
		c := cell(mk.Time)
		if c >= width {
			break
		}
		if c >= 0 {
			marks = append(marks, widgets.RulerMark{Cell: c, Kind: mk.Kind})
		}
	}
	var seconds []int
	for _, sm := range timeline.SecondMarks(m.Store.BPM(), 0, float64(width)*m.cellPx(), mp.PixelsPerSecond, mp.StartTime) {
		if c := cell(sm.Time); c >= 0 && c < width {
			seconds = append(seconds, c)
		}
	}

	playhead := cell(m.anim.Rendered())
	startCell, endCell := -1, -1
	if s, e := m.Sess.ExportRange(); s != nil || e != nil {
		if s != nil {
			startCell = cell(*s)
		}
		if e != nil {
			endCell = cell(*e)
		}
	}
	if playhead >= width {
		playhead = -1
	}
	if startCell >= width {
		startCell = -1
	}
	if endCell >= width {
		endCell = -1
	}
	return widgets.RulerLine(m.Theme, width, marks, seconds, playhead, startCell, endCell)
}

// laneRow maps a pitch to its visible row, or -1 when scrolled out.
func (m Model) laneRow(pitch uint8) int {
	topLane := int(m.sync.ScrollTop(view.SurfaceLanes) / m.rowPx())
	row := (127 - int(pitch)) - topLane
	if row < 0 || row >= m.bounds.laneRows {
		return -1
	}
	return row
}

func (m Model) lanesView() *widgets.Grid {
	th := m.Theme
	sy := th.Symbols
	width := m.bounds.width - keysWidth
	g := widgets.NewGrid(width, m.bounds.laneRows)
	mp := m.sync.Mapper(view.SurfaceLanes)

	cellAt := func(t float64) int { return m.cellOf(mp, t) }

	// measure lines through the lanes
	for _, mk := range m.markers {
		if mk.Kind != timeline.MarkerStrong {
			continue
		}
		c := cellAt(mk.Time)
		if c >= width {
			break
		}
		if c >= 0 {
			g.VLine(c, 0, m.bounds.laneRows-1, '·', th.Surface())
		}
	}

	// notes, with in-flight previews replacing their store positions
	conv := m.Store.ConversionMap()
	ppqn := m.Store.PPQN()
	var partStart int64
	if part, ok := m.Store.FindPart(m.partID); ok {
		partStart = part.StartTick
	}
	type drawn struct {
		note   project.Note
		timing project.NoteTiming
		sel    bool
	}
	notes := make([]drawn, 0, len(m.notes))
	for i, n := range m.notes {
		if i < len(m.timings) {
			notes = append(notes, drawn{note: n, timing: m.timings[i], sel: m.selected[i]})
		}
	}
	retime := func(n project.Note) project.NoteTiming {
		start, dur := timeline.TimesAt(partStart+n.StartTick, n.DurationTicks, conv, ppqn)
		return project.NoteTiming{StartTime: start, Duration: dur}
	}
	if prev := m.gestures.Drag.Preview(); prev != nil {
		for j, idx := range m.gestures.Drag.Indices() {
			if idx < len(notes) {
				notes[idx] = drawn{note: prev[j], timing: retime(prev[j]), sel: true}
			}
		}
	}
	if n, ok := m.gestures.Resize.Preview(); ok {
		if idx := m.gestures.Resize.Index(); idx >= 0 && idx < len(notes) {
			notes[idx] = drawn{note: n, timing: retime(n), sel: true}
		}
	}
	for _, d := range notes {
		row := m.laneRow(d.note.Pitch)
		if row < 0 {
			continue
		}
		c0 := cellAt(d.timing.StartTime)
		c1 := cellAt(d.timing.StartTime + d.timing.Duration - 1e-9)
		if c1 < c0 {
			c1 = c0
		}
		if c1 < 0 || c0 >= width {
			continue
		}
		r, fg := sy.NoteBody, th.Accent()
		if d.sel {
			r, fg = sy.NoteSelected, th.Active()
		}
		g.HLine(max(c0, 0), min(c1, width-1), row, r, fg)
	}

	// marquee outline
	if rect, ok := m.gestures.Marquee.Rect(); ok {
		x0 := int(rect.X / m.cellPx())
		x1 := int((rect.X + rect.W) / m.cellPx())
		y0 := int(rect.Y / m.rowPx())
		y1 := int((rect.Y + rect.H) / m.rowPx())
		g.HLine(x0, x1, y0, '·', th.Cursor())
		g.HLine(x0, x1, y1, '·', th.Cursor())
		g.VLine(x0, y0, y1, '·', th.Cursor())
		g.VLine(x1, y0, y1, '·', th.Cursor())
	}

	// split preview line
	if idx, tick, ok := m.gestures.Split.Preview(); ok && idx < len(m.notes) {
		t := conv.TimeAtTick(partStart+tick, ppqn)
		if c := cellAt(t); c >= 0 && c < width {
			if row := m.laneRow(m.notes[idx].Pitch); row >= 0 {
				g.Set(c, row, sy.SplitLine, th.Cursor())
			}
		}
	}

	// playhead bar
	if c := cellAt(m.anim.Rendered()); c >= 0 && c < width {
		g.VLine(c, 0, m.bounds.laneRows-1, sy.PlayheadBar, th.Cursor())
	}
	return g
}

func (m Model) keysView() []string {
	topLane := int(m.sync.ScrollTop(view.SurfaceKeys) / m.rowPx())
	rows := make([]string, m.bounds.laneRows)
	for r := range rows {
		lane := topLane + r
		if lane < 0 || lane >= m.lanes.Len() {
			rows[r] = strings.Repeat(" ", keysWidth)
			continue
		}
		rows[r] = widgets.KeyRow(m.Theme, keysWidth, uint8(127-lane))
	}
	return rows
}

func (m Model) sustainView() string {
	width := m.bounds.width - keysWidth
	g := widgets.NewGrid(width, 1)
	if m.partID == "" {
		return g.Row(0)
	}
	mp := m.sync.Mapper(view.SurfaceVelocity)
	conv := m.Store.ConversionMap()
	ppqn := m.Store.PPQN()
	var partStart int64
	if part, ok := m.Store.FindPart(m.partID); ok {
		partStart = part.StartTick
	}
	for _, sr := range m.Store.SustainRanges(m.partID) {
		t0 := conv.TimeAtTick(partStart+sr.StartTick, ppqn)
		t1 := conv.TimeAtTick(partStart+sr.EndTick, ppqn)
		c0 := m.cellOf(mp, t0)
		c1 := m.cellOf(mp, t1)
		if c1 < 0 || c0 >= width {
			continue
		}
		g.HLine(max(c0, 0), min(c1, width-1), 0, '▔', m.Theme.Warning())
	}
	return g.Row(0)
}

func (m Model) velocityView() []string {
	width := m.bounds.width - keysWidth
	mp := m.sync.Mapper(view.SurfaceVelocity)
	bars := make([]widgets.VelocityBar, 0, len(m.notes))
	for i, n := range m.notes {
		if i >= len(m.timings) {
			break
		}
		c := m.cellOf(mp, m.timings[i].StartTime)
		bars = append(bars, widgets.VelocityBar{
			Cell:   c,
			Value:  n.Velocity,
			Active: m.selected[i] || m.gestures.Velocity.Index() == i,
		})
	}
	return widgets.VelocityRows(m.Theme, width, graphRows, bars)
}
