package scene

import (
	"sync"

	"github.com/scenesync/scenesync/internal/core/messages"
)

// SelectionState tracks the single interaction target. Selection messages
// are not queued: the latest one received since the last cycle overwrites
// any earlier pending one. Resolution happens during the cycle: a target
// that does not resolve clears the selection rather than leaving a stale
// one.
type SelectionState struct {
	mu      sync.Mutex
	pending *messages.Selection
	current string
}

// NewSelectionState creates a state with nothing selected.
func NewSelectionState() *SelectionState {
	return &SelectionState{}
}

// SetPending records the latest selection message. Safe for concurrent
// producers; last writer wins.
func (s *SelectionState) SetPending(msg messages.Selection) {
	s.mu.Lock()
	s.pending = &msg
	s.mu.Unlock()
}

// resolve applies the pending selection, if any, against the registry.
func (s *SelectionState) resolve(reg *Registry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return
	}
	msg := *s.pending
	s.pending = nil

	if _, ok := reg.Visual(msg.ID); ok {
		s.current = msg.ID
	} else {
		s.current = ""
	}
}

// Current returns the selected identifier, or false when nothing is
// selected.
func (s *SelectionState) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != ""
}

// Clear drops both the pending message and the current selection.
func (s *SelectionState) Clear() {
	s.mu.Lock()
	s.pending = nil
	s.current = ""
	s.mu.Unlock()
}
