package trace

import (
	"errors"
	"slices"

	"github.com/specialistvlad/cyclesim/internal/driver"
	"github.com/specialistvlad/cyclesim/internal/value"
)

// Event is the name of the per-cycle event.
const Event = "cycle"

// ErrDisconnected is returned by Publish once the connection is gone.
var ErrDisconnected = errors.New("trace connection lost")

// Sink is the transport a Publisher emits on.
type Sink interface {
	Emit(event string, data any)
	Connected() bool
	Close()
}

// Frame is the payload of one cycle event.
type Frame struct {
	Cycle  int               `json:"cycle"`
	Active []string          `json:"active"`
	Ports  map[string]string `json:"ports"`
}

// Publisher turns snapshots into cycle events.
type Publisher struct {
	sink Sink
	last map[string]value.Value
}

// New returns a Publisher emitting on sink.
func New(sink Sink) *Publisher {
	return &Publisher{sink: sink, last: make(map[string]value.Value)}
}

// Publish emits the frame for s. It has the driver.Observer signature.
func (p *Publisher) Publish(s driver.Snapshot) error {
	if !p.sink.Connected() {
		return ErrDisconnected
	}
	p.sink.Emit(Event, p.frame(s))
	return nil
}

// Observer returns Publish as a driver.Observer.
func (p *Publisher) Observer() driver.Observer { return p.Publish }

// Close releases the connection.
func (p *Publisher) Close() { p.sink.Close() }

// frame diffs s against the previous snapshot. Ports start out Unknown.
func (p *Publisher) frame(s driver.Snapshot) Frame {
	f := Frame{
		Cycle:  s.Cycle,
		Active: slices.Clone(s.Active),
		Ports:  make(map[string]string),
	}
	for name, v := range s.Ports {
		if v.Equal(p.last[name]) {
			continue
		}
		f.Ports[name] = v.String()
		p.last[name] = v
	}
	return f
}
