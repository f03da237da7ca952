package checkpointer

import (
	"fmt"
	"time"
)

// Namer returns the file that a checkpoint taken at some iteration is
// saved to
type Namer func(iteration int) string

// ByIteration returns a Namer which suffixes prefix with the iteration
// the checkpoint was taken at, e.g. policy10.bin for iteration 10.
// Later checkpoints never overwrite earlier ones.
func ByIteration(prefix, extension string) Namer {
	return func(iteration int) string {
		return fmt.Sprintf("%v%d%v", prefix, iteration, extension)
	}
}

// Latest returns a Namer which always names the same file, so that
// only the most recent checkpoint is kept
func Latest(filename string) Namer {
	return func(int) string {
		return filename
	}
}

// Timestamped returns a Namer which suffixes prefix with the iteration
// and the wall clock time in nanoseconds
func Timestamped(prefix, extension string) Namer {
	return func(iteration int) string {
		return fmt.Sprintf("%v%d-%d%v", prefix, iteration,
			time.Now().UnixNano(), extension)
	}
}
