package state

import (
	"sync"
	"testing"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
)

func TestSessionSingleGuard(t *testing.T) {
	s := NewSession()
	if !s.TryEnter(HoldDetection) {
		t.Fatalf("expected idle session to accept detection")
	}
	if s.TryEnter(HoldOperation) {
		t.Fatalf("operation must be refused while detection holds the guard")
	}
	if !s.DetectionInFlight() || s.OperationInFlight() {
		t.Fatalf("unexpected flags: hold=%s", s.Hold())
	}
	if s.Exit(HoldOperation) {
		t.Fatalf("operation must not release a detection hold")
	}
	if !s.Exit(HoldDetection) {
		t.Fatalf("expected detection release")
	}
	if s.Exit(HoldDetection) {
		t.Fatalf("second release must be a no-op")
	}
	if s.Busy() {
		t.Fatalf("expected idle session")
	}
	if s.TryEnter(HoldNone) {
		t.Fatalf("HoldNone must never be entered")
	}
}

func TestSessionGuardIsExclusiveUnderContention(t *testing.T) {
	s := NewSession()
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.TryEnter(HoldOperation) {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
}

func TestSessionTargetsAreReplacedAndCloned(t *testing.T) {
	s := NewSession()
	in := []bridge.EditorTarget{{Name: "Cursor"}, {Name: "VSCodium"}}
	s.SetTargets(in)
	in[0].Name = "mutated"
	got := s.Targets()
	if got[0].Name != "Cursor" {
		t.Fatalf("SetTargets must copy its input, got %q", got[0].Name)
	}
	got[1].Name = "mutated"
	if s.Targets()[1].Name != "VSCodium" {
		t.Fatalf("Targets must return a copy")
	}
	s.SetTargets([]bridge.EditorTarget{{Name: "Code"}})
	if len(s.Targets()) != 1 {
		t.Fatalf("expected wholesale replacement, got %v", s.Targets())
	}
	if _, ok := s.Target("Cursor"); ok {
		t.Fatalf("stale target must be gone")
	}
	if tgt, ok := s.Target("Code"); !ok || tgt.Name != "Code" {
		t.Fatalf("expected Code target, got %v %v", tgt, ok)
	}
}
