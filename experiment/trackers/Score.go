package trackers

import (
	"fmt"
	"math"

	"github.com/gammazero/deque"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultWindow is the default number of recent scores a Score
// summarizes
const DefaultWindow = 100

// Score tracks a stream of scalar scores, such as episodic returns or
// episodic cost returns. The most recent scores are kept in a bounded
// window which is summarized for logging, and the full history is kept
// so that it can be saved once the experiment has finished.
//
// A Score is not safe for concurrent use.
type Score struct {
	window   *deque.Deque[float64]
	maxLen   int
	history  []float64
	filename string
}

// NewScore returns a new Score which summarizes the latest maxLen
// scores and saves its history to filename. If filename is empty,
// Save does nothing.
func NewScore(maxLen int, filename string) (*Score, error) {
	if maxLen < 1 {
		return nil, fmt.Errorf("newScore: window must be positive "+
			"\n\twant(>0)\n\thave(%v)", maxLen)
	}
	return &Score{
		window:   deque.New[float64](),
		maxLen:   maxLen,
		filename: filename,
	}, nil
}

// Append adds a score, evicting the oldest score from the window if
// the window is full
func (s *Score) Append(x float64) {
	if s.window.Len() == s.maxLen {
		s.window.PopFront()
	}
	s.window.PushBack(x)
	s.history = append(s.history, x)
}

// Len returns the number of scores in the window
func (s *Score) Len() int {
	return s.window.Len()
}

// Total returns the number of scores appended over the lifetime of the
// Score
func (s *Score) Total() int {
	return len(s.history)
}

// Values returns the scores in the window, oldest first
func (s *Score) Values() []float64 {
	values := make([]float64, s.window.Len())
	for i := range values {
		values[i] = s.window.At(i)
	}
	return values
}

// Mean returns the mean of the scores in the window, or NaN if the
// window is empty
func (s *Score) Mean() float64 {
	if s.window.Len() == 0 {
		return math.NaN()
	}
	return stat.Mean(s.Values(), nil)
}

// Min returns the minimum score in the window, or NaN if the window is
// empty
func (s *Score) Min() float64 {
	if s.window.Len() == 0 {
		return math.NaN()
	}
	return floats.Min(s.Values())
}

// Max returns the maximum score in the window, or NaN if the window is
// empty
func (s *Score) Max() float64 {
	if s.window.Len() == 0 {
		return math.NaN()
	}
	return floats.Max(s.Values())
}

// Save saves every score ever appended to disk
func (s *Score) Save() error {
	if s.filename == "" {
		return nil
	}
	if err := save(s.filename, s.history); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}
