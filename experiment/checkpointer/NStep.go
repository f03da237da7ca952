package checkpointer

import "fmt"

// nStep implements checkpointing every N iterations
type nStep struct {
	interval int
	object   Serializable // Object to save
	filename Namer
}

// NewNStep returns a checkpointer that saves object every n iterations
// to the file named by filename.
func NewNStep(n int, object Serializable,
	filename Namer) (Checkpointer, error) {
	if n < 1 {
		return nil, fmt.Errorf("newNStep: interval must be positive "+
			"\n\twant(>0)\n\thave(%v)", n)
	}
	if filename == nil {
		return nil, fmt.Errorf("newNStep: missing filename")
	}
	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint saves the Checkpointer's tracked object if iteration is
// a multiple of the checkpointing interval
func (n *nStep) Checkpoint(iteration int) error {
	if iteration%n.interval == 0 {
		return Save(n.filename(iteration), n.object)
	}
	return nil
}
