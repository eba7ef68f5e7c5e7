package workspace

import (
	"context"
	"fmt"

	"github.com/viant/afs"
)

// defaultStdlibCandidates is the ordered fallback chain probed when no
// explicit standard-library path is given.
var defaultStdlibCandidates = []string{
	"sysml.library",
	"../sysml.library",
	"../base/sysml.library",
}

// StdlibResolver turns an optional explicit path plus the candidate chain
// into a single usable directory, or "" when no standard library is present.
type StdlibResolver struct {
	fs         afs.Service
	candidates []string
}

func NewStdlibResolver() *StdlibResolver {
	return &StdlibResolver{fs: afs.New(), candidates: defaultStdlibCandidates}
}

// Resolve returns the standard-library directory to load. An explicit path
// must exist; a missing explicit path is fatal. When probing candidates,
// exhausting the chain is not an error and yields "".
func (r *StdlibResolver) Resolve(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		ok, err := r.fs.Exists(ctx, explicit)
		if err != nil {
			return "", fmt.Errorf("failed to probe stdlib path %s: %w", explicit, err)
		}
		if !ok {
			return "", fmt.Errorf("stdlib path does not exist: %s", explicit)
		}
		return explicit, nil
	}
	for _, candidate := range r.candidates {
		if ok, _ := r.fs.Exists(ctx, candidate); ok {
			return candidate, nil
		}
	}
	return "", nil
}
