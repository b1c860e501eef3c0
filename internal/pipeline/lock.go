package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// AcquireRunLock takes an advisory lock inside the output directory so two
// runs cannot interleave writes to the same files. The caller unlocks when
// the run ends.
func AcquireRunLock(outputDir string) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(outputDir, ".memories.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another run is already active in %s", outputDir)
	}
	return lock, nil
}
