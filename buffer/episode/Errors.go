package episode

import "errors"

// Error implements errors unique to an episode buffer
type Error struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

var errFull = errors.New("episode buffer at maximum capacity")

var errEmpty = errors.New("episode buffer empty")

var errDims = errors.New("illegal dimensions")

// IsFull returns whether or not an error reports that a transition was
// recorded beyond the buffer's maximum episode length
func IsFull(err error) bool {
	return errors.Is(err, errFull)
}

// IsEmpty returns whether or not an error reports that an empty episode
// was finalized
func IsEmpty(err error) bool {
	return errors.Is(err, errEmpty)
}

// IsDimensionMismatch returns whether or not an error reports that a
// recorded vector did not match the buffer's dimensions
func IsDimensionMismatch(err error) bool {
	return errors.Is(err, errDims)
}
