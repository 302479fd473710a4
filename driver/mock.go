package driver

import (
	"fmt"
	"sync"

	"github.com/tjkluska/fabmo/sbp"
)

// Mock is an in-memory sbp.Driver for engine tests, in the shape of
// newport/mockXPS.go and pi/mock.go: a map of parameter values, a record of
// submitted segments, and synchronous state transitions instead of a real
// round trip over a wire.
type Mock struct {
	mu       sync.Mutex
	params   map[string]string
	Segments []string

	subscribers map[int]chan sbp.StatusEvent
	nextSubID   int
}

// NewMock returns a Mock with sensible defaults for the machine-position
// parameters the zero handlers read.
func NewMock() *Mock {
	return &Mock{
		params: map[string]string{
			"mpox": "0", "mpoy": "0", "mpoz": "0", "mpoa": "0", "mpob": "0", "mpoc": "0",
		},
		subscribers: map[int]chan sbp.StatusEvent{},
	}
}

// RunSegment records the segment and immediately reports a stop transition,
// simulating instantaneous motion completion for tests.
func (m *Mock) RunSegment(text string) error {
	m.mu.Lock()
	m.Segments = append(m.Segments, text)
	m.mu.Unlock()
	m.publish(sbp.StatusEvent{State: "running"})
	m.publish(sbp.StatusEvent{State: "stop"})
	return nil
}

// Get returns the value bound to key, or an empty string if unset.
func (m *Mock) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.params[key], nil
}

// GetMulti returns the values bound to keys.
func (m *Mock) GetMulti(keys []string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = m.params[k]
	}
	return out, nil
}

// Set binds key to value.
func (m *Mock) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params[key] = value
	return nil
}

// AwaitState returns immediately: Mock's RunSegment already synchronously
// reports the stop transition its caller is waiting for.
func (m *Mock) AwaitState(state string) error {
	if state != "stop" && state != "running" {
		return fmt.Errorf("mock: unsupported await state %q", state)
	}
	return nil
}

// Subscribe returns a channel of status events published by RunSegment.
func (m *Mock) Subscribe() (<-chan sbp.StatusEvent, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSubID
	m.nextSubID++
	ch := make(chan sbp.StatusEvent, 16)
	m.subscribers[id] = ch
	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.subscribers[id]; ok {
			delete(m.subscribers, id)
			close(c)
		}
	}
}

func (m *Mock) publish(ev sbp.StatusEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}
