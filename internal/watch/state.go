package watch

import (
	"io"
	"sync"
	"sync/atomic"
)

// HintState holds the hint of the exercise that failed most recently.
// The orchestrator writes it after every failed pass; the shell reads it.
type HintState struct {
	mu   sync.Mutex
	hint string
	set  bool
}

// Set replaces the current hint.
func (h *HintState) Set(hint string) {
	h.mu.Lock()
	h.hint = hint
	h.set = true
	h.mu.Unlock()
}

// Get returns the current hint and whether one has been set.
func (h *HintState) Get() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hint, h.set
}

// QuitFlag is raised once by the shell and never cleared.
type QuitFlag struct {
	v atomic.Bool
}

// Set raises the flag.
func (q *QuitFlag) Set() {
	q.v.Store(true)
}

// IsSet reports whether the flag has been raised.
func (q *QuitFlag) IsSet() bool {
	return q.v.Load()
}

// syncWriter serializes writes from the orchestrator and the shell so that
// their lines never interleave mid-write.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
