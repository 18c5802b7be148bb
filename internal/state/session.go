package state

import (
	"sync"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
)

// Hold names who currently owns the session guard.
type Hold int

const (
	HoldNone Hold = iota
	HoldOperation
	HoldDetection
)

func (h Hold) String() string {
	switch h {
	case HoldOperation:
		return "operation"
	case HoldDetection:
		return "detection"
	default:
		return "none"
	}
}

// Session is the application state shared by the dispatcher, the selection
// controller and the views. Detection and mutating operations share one
// guard, so at most one of them is in flight.
type Session struct {
	mu      sync.Mutex
	hold    Hold
	targets []bridge.EditorTarget
	active  string
}

func NewSession() *Session {
	return &Session{}
}

// TryEnter takes the guard for h. It returns false when the guard is already
// held by anyone.
func (s *Session) TryEnter(h Hold) bool {
	if h == HoldNone {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hold != HoldNone {
		return false
	}
	s.hold = h
	return true
}

// Exit releases the guard if h holds it. Releasing twice is a no-op.
func (s *Session) Exit(h Hold) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h == HoldNone || s.hold != h {
		return false
	}
	s.hold = HoldNone
	return true
}

func (s *Session) Hold() Hold {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hold
}

func (s *Session) Busy() bool {
	return s.Hold() != HoldNone
}

func (s *Session) OperationInFlight() bool {
	return s.Hold() == HoldOperation
}

func (s *Session) DetectionInFlight() bool {
	return s.Hold() == HoldDetection
}

// Targets returns a copy of the last detection result.
func (s *Session) Targets() []bridge.EditorTarget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTargets(s.targets)
}

// SetTargets replaces the detected list wholesale.
func (s *Session) SetTargets(targets []bridge.EditorTarget) {
	s.mu.Lock()
	s.targets = cloneTargets(targets)
	s.mu.Unlock()
}

// Target looks up a detected target by name.
func (s *Session) Target(name string) (bridge.EditorTarget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.targets {
		if t.Name == name {
			return t, true
		}
	}
	return bridge.EditorTarget{}, false
}

func (s *Session) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Session) SetActive(name string) {
	s.mu.Lock()
	s.active = name
	s.mu.Unlock()
}

func cloneTargets(targets []bridge.EditorTarget) []bridge.EditorTarget {
	if len(targets) == 0 {
		return nil
	}
	dup := make([]bridge.EditorTarget, len(targets))
	copy(dup, targets)
	return dup
}
