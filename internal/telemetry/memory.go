// internal/telemetry/memory.go
package telemetry

import (
	"context"
	"sync"
)

// TrackedEvent is one recorded event or trace.
type TrackedEvent struct {
	Name       string
	Message    string
	Severity   Severity
	Properties map[string]string
}

// MemoryClient records telemetry in memory for assertions in tests.
type MemoryClient struct {
	mu      sync.Mutex
	events  []TrackedEvent
	traces  []TrackedEvent
	flushes int
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

func (m *MemoryClient) TrackEvent(ctx context.Context, name string, properties map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, TrackedEvent{Name: name, Properties: cloneProperties(properties)})
	return nil
}

func (m *MemoryClient) TrackTrace(ctx context.Context, message string, severity Severity, properties map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.traces = append(m.traces, TrackedEvent{Message: message, Severity: severity, Properties: cloneProperties(properties)})
	return nil
}

func (m *MemoryClient) Flush(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
	return nil
}

// Events returns a copy of the recorded events.
func (m *MemoryClient) Events() []TrackedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TrackedEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Traces returns a copy of the recorded traces.
func (m *MemoryClient) Traces() []TrackedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TrackedEvent, len(m.traces))
	copy(out, m.traces)
	return out
}

// Flushes returns how many times Flush was called.
func (m *MemoryClient) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}

func cloneProperties(properties map[string]string) map[string]string {
	if properties == nil {
		return nil
	}
	out := make(map[string]string, len(properties))
	for k, v := range properties {
		out[k] = v
	}
	return out
}
