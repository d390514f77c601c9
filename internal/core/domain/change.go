package domain

// ChangeOp is the kind of file system change.
type ChangeOp int

// Change operations.
const (
	ChangeCreated ChangeOp = iota
	ChangeModified
	ChangeRemoved
)

// String returns a readable name for the operation.
func (o ChangeOp) String() string {
	switch o {
	case ChangeCreated:
		return "created"
	case ChangeModified:
		return "modified"
	case ChangeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// ChangeEvent reports that something under the transcripts root changed.
type ChangeEvent struct {
	// Path is the changed file or directory.
	Path string

	// Op is the kind of change.
	Op ChangeOp

	// Directory is true when Path is (or was) a directory.
	Directory bool
}
