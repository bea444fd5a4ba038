// Package preview sounds short single-note auditions while the user
// edits. Two players exist: a MIDI sender targeting an out port
// (hardware or soft synth) and a beep-backed sine synth for machines
// with no MIDI destination. Neither blocks the event loop.
package preview

// Player sounds single-note previews during editing gestures.
type Player interface {
	// PreviewNote starts sounding a pitch. Calling it again for a new
	// pitch layers; callers silence the old pitch with StopPreview.
	PreviewNote(pitch, velocity uint8, instrument string)

	// StopPreview silences a pitch started by PreviewNote.
	StopPreview(pitch uint8)

	// Dispose releases the underlying audio device.
	Dispose() error
}

// Null discards all previews. Used when audio is switched off.
type Null struct{}

func (Null) PreviewNote(pitch, velocity uint8, instrument string) {}
func (Null) StopPreview(pitch uint8)                              {}
func (Null) Dispose() error                                       { return nil }
