package preview

import (
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"noteroll/debug"
)

// noteOffAfter bounds how long a preview sounds when nothing stops it
// first, so an abandoned drag never leaves a note hanging.
const noteOffAfter = 400 * time.Millisecond

// MIDIPlayer sends previews to a named MIDI out port. Ports are opened
// lazily on first use and cached per name, so construction is cheap and
// a missing port degrades to silence instead of an error.
type MIDIPlayer struct {
	portName string
	channel  uint8

	sendersMu sync.RWMutex
	senders   map[string]func(gomidi.Message) error
}

// NewMIDIPlayer builds a player targeting portName on the given MIDI
// channel (0-15). The port is not opened until the first preview.
func NewMIDIPlayer(portName string, channel uint8) *MIDIPlayer {
	return &MIDIPlayer{
		portName: portName,
		channel:  channel,
		senders:  make(map[string]func(gomidi.Message) error),
	}
}

// OutPortNames lists the MIDI out ports visible to the driver.
func OutPortNames() []string {
	var names []string
	for _, port := range gomidi.GetOutPorts() {
		names = append(names, port.String())
	}
	return names
}

// getSender returns a sender for the given port name, lazily opening it
func (p *MIDIPlayer) getSender(portName string) func(gomidi.Message) error {
	if portName == "" {
		return nil
	}

	p.sendersMu.RLock()
	if sender, ok := p.senders[portName]; ok {
		p.sendersMu.RUnlock()
		return sender
	}
	p.sendersMu.RUnlock()

	// Open port
	p.sendersMu.Lock()
	defer p.sendersMu.Unlock()

	// Double-check after acquiring write lock
	if sender, ok := p.senders[portName]; ok {
		return sender
	}

	// Find and open port
	for _, port := range gomidi.GetOutPorts() {
		if port.String() == portName {
			sender, err := gomidi.SendTo(port)
			if err != nil {
				debug.Log("preview", "open out port %q: %v", portName, err)
				return nil
			}
			p.senders[portName] = sender
			return sender
		}
	}
	debug.Log("preview", "out port %q not found", portName)
	return nil
}

// PreviewNote sounds a pitch on the configured port. The instrument
// name is ignored here; whatever patch the port has loaded plays. A
// timed note-off follows in case StopPreview never arrives.
func (p *MIDIPlayer) PreviewNote(pitch, velocity uint8, instrument string) {
	sender := p.getSender(p.portName)
	if sender == nil {
		return
	}
	if velocity == 0 {
		velocity = 100
	}
	sender(gomidi.NoteOn(p.channel, pitch, velocity))
	go func(s func(gomidi.Message) error, ch, n uint8) {
		time.Sleep(noteOffAfter)
		s(gomidi.NoteOff(ch, n))
	}(sender, p.channel, pitch)
}

// StopPreview silences a pitch right away. A duplicate note-off from
// the timed release is harmless.
func (p *MIDIPlayer) StopPreview(pitch uint8) {
	sender := p.getSender(p.portName)
	if sender == nil {
		return
	}
	sender(gomidi.NoteOff(p.channel, pitch))
}

// Dispose drops cached senders and closes the MIDI driver.
func (p *MIDIPlayer) Dispose() error {
	p.sendersMu.Lock()
	p.senders = make(map[string]func(gomidi.Message) error)
	p.sendersMu.Unlock()

	gomidi.CloseDriver()
	return nil
}
