// Package delay implements the fixed-length action history used to
// model actuation delay. Observations are augmented with the most
// recent actions taken so that a policy acting on the augmented
// observation can account for actions which have not yet taken effect.
package delay

import "fmt"

// History is a fixed-capacity window over the most recent actions. The
// window starts filled with zero actions and evicts its oldest action
// on each Push. A History with capacity 0 stores nothing.
//
// History is a ring buffer: data holds capacity actions back to back
// and head indexes the oldest one.
type History struct {
	capacity   int
	actionDims int
	head       int
	data       []float32
}

// NewHistory returns a new History holding capacity actions of
// actionDims dimensions each, all initialized to zero
func NewHistory(capacity, actionDims int) (*History, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("newHistory: capacity must be non-negative")
	}
	if actionDims < 1 {
		return nil, fmt.Errorf("newHistory: actions must have at least " +
			"one dimension")
	}

	return &History{
		capacity:   capacity,
		actionDims: actionDims,
		data:       make([]float32, capacity*actionDims),
	}, nil
}

// Cap returns the number of actions stored in the window
func (h *History) Cap() int {
	return h.capacity
}

// ActionDims returns the dimension of actions stored in the window
func (h *History) ActionDims() int {
	return h.actionDims
}

// Len returns the length of the flattened window
func (h *History) Len() int {
	return len(h.data)
}

// Push adds an action as the newest entry of the window, evicting the
// oldest action
func (h *History) Push(action []float32) error {
	if len(action) != h.actionDims {
		return fmt.Errorf("push: illegal action length \n\twant(%v)"+
			"\n\thave(%v)", h.actionDims, len(action))
	}
	if h.capacity == 0 {
		return nil
	}

	// The oldest slot is overwritten and becomes the newest
	start := h.head * h.actionDims
	copy(h.data[start:start+h.actionDims], action)
	h.head = (h.head + 1) % h.capacity
	return nil
}

// AppendTo appends the flattened window to dst in oldest to newest
// order and returns the extended slice
func (h *History) AppendTo(dst []float32) []float32 {
	split := h.head * h.actionDims
	dst = append(dst, h.data[split:]...)
	return append(dst, h.data[:split]...)
}

// Reset refills the window with zero actions
func (h *History) Reset() {
	for i := range h.data {
		h.data[i] = 0
	}
	h.head = 0
}
