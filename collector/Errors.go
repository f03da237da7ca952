package collector

import "errors"

// Error implements errors unique to a Collector
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

var errDims = errors.New("illegal dimensions")

// IsDimensionMismatch returns whether or not an error reports that an
// observation or action did not have the dimensions the Collector was
// configured with
func IsDimensionMismatch(err error) bool {
	return errors.Is(err, errDims)
}
