package replay

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jcalloway/braid"
)

// Expand resolves transcript path patterns into concrete file paths.
// Patterns support ** for recursive matching; a plain path matches
// itself. Directories are never returned. Results are sorted and a path
// matched by several patterns appears once. Returns
// [braid.ErrNoTranscripts] when nothing matches.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("replay: invalid glob pattern %q", pattern)
		}

		base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
		fsys := os.DirFS(base)

		err := doublestar.GlobWalk(fsys, rest, func(path string, d iofs.DirEntry) error {
			if d.IsDir() {
				return nil
			}
			seen[filepath.Join(base, filepath.FromSlash(path))] = struct{}{}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("replay: matching pattern %q: %w", pattern, err)
		}
	}

	if len(seen) == 0 {
		return nil, braid.ErrNoTranscripts
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}
