// Package metrics records HTTP and domain events.
package metrics

// Recorder captures domain events. Services depend on this interface so
// they can run without a Prometheus registry.
type Recorder interface {
	IncSignup()
	IncLogin(success bool)
	IncHabitCreated()
	IncCheckIn()
}

type noop struct{}

// NewNoop returns a Recorder that drops every event.
func NewNoop() Recorder {
	return noop{}
}

func (noop) IncSignup() {}
func (noop) IncLogin(bool) {}
func (noop) IncHabitCreated() {}
func (noop) IncCheckIn() {}
