package interfaces

// ScratchSpace hands out private working directories for one conversion
// and removes them afterwards
type ScratchSpace interface {
	// CreateTempDir creates a uniquely named directory
	CreateTempDir(prefix string) (string, error)

	// Cleanup removes every directory created so far
	Cleanup() error
}

// ScratchFactory creates a ScratchSpace rooted at a directory
type ScratchFactory func(baseDir string) ScratchSpace
