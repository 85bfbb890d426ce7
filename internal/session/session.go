// Package session holds the mutable parameter state of an interactive
// envelope study. Every read re-evaluates the pure model functions; nothing
// derived is cached.
package session

import (
	"sync"

	"github.com/piwi3910/envelope/internal/model"
)

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	LotWidth  *float64 `json:"lot_width,omitempty"`
	LotDepth  *float64 `json:"lot_depth,omitempty"`
	Front     *float64 `json:"front,omitempty"`
	Rear      *float64 `json:"rear,omitempty"`
	Left      *float64 `json:"left,omitempty"`
	Right     *float64 `json:"right,omitempty"`
	MaxHeight *float64 `json:"max_height,omitempty"`
}

// Apply returns p with the patch's non-nil fields written over it.
func (pt Patch) Apply(p model.Parameters) model.Parameters {
	if pt.LotWidth != nil {
		p.Lot.Width = *pt.LotWidth
	}
	if pt.LotDepth != nil {
		p.Lot.Depth = *pt.LotDepth
	}
	if pt.Front != nil {
		p.Setbacks.Front = *pt.Front
	}
	if pt.Rear != nil {
		p.Setbacks.Rear = *pt.Rear
	}
	if pt.Left != nil {
		p.Setbacks.Left = *pt.Left
	}
	if pt.Right != nil {
		p.Setbacks.Right = *pt.Right
	}
	if pt.MaxHeight != nil {
		p.MaxHeight = model.HeightLimit(*pt.MaxHeight)
	}
	return p
}

// IsEmpty reports whether the patch changes nothing.
func (pt Patch) IsEmpty() bool {
	return pt.LotWidth == nil && pt.LotDepth == nil &&
		pt.Front == nil && pt.Rear == nil && pt.Left == nil && pt.Right == nil &&
		pt.MaxHeight == nil
}

// Session is the parameter source for one study. It is safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	defaults model.Parameters
	current  model.Parameters
	revision uint64
}

// New creates a session that starts from, and resets to, defaults.
func New(defaults model.Parameters) *Session {
	return &Session{
		defaults: defaults,
		current:  defaults,
	}
}

// Defaults returns the parameters the session was constructed with.
func (s *Session) Defaults() model.Parameters {
	return s.defaults
}

// Parameters returns a copy of the current inputs.
func (s *Session) Parameters() model.Parameters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Revision counts the updates applied since construction, resets included.
func (s *Session) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Set replaces all inputs.
func (s *Session) Set(p model.Parameters) model.Evaluation {
	s.mu.Lock()
	s.current = p
	s.revision++
	s.mu.Unlock()
	return model.Evaluate(p)
}

// Update applies a partial change and returns the fresh evaluation.
// An empty patch does not bump the revision.
func (s *Session) Update(pt Patch) model.Evaluation {
	s.mu.Lock()
	if !pt.IsEmpty() {
		s.current = pt.Apply(s.current)
		s.revision++
	}
	p := s.current
	s.mu.Unlock()
	return model.Evaluate(p)
}

// Reset restores the defaults.
func (s *Session) Reset() model.Evaluation {
	return s.Set(s.defaults)
}

// Evaluate recomputes the envelope and yield for the current inputs.
func (s *Session) Evaluate() model.Evaluation {
	return model.Evaluate(s.Parameters())
}
