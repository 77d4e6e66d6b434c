package bench

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bebsworthy/startbench/internal/debug"
	"github.com/bmatcuk/doublestar/v4"
)

// ResolveBinary turns a configured binary path into an absolute path.
// Relative paths are taken from projectDir. Paths containing glob
// metacharacters are expanded with doublestar and must match exactly one
// regular file.
func ResolveBinary(projectDir, binary string) (string, error) {
	if binary == "" {
		return "", newError(KindLaunch, "resolve binary", fmt.Errorf("no binary configured"))
	}

	path := binary
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectDir, path)
	}

	if !hasGlobMeta(binary) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", newError(KindLaunch, "resolve binary", err)
		}
		return abs, nil
	}

	matches, err := doublestar.FilepathGlob(path, doublestar.WithFilesOnly())
	if err != nil {
		return "", newError(KindLaunch, "resolve binary", fmt.Errorf("invalid binary pattern %q: %w", binary, err))
	}
	debug.Log("Binary pattern %s matched %d file(s)", path, len(matches))

	switch len(matches) {
	case 0:
		return "", newError(KindLaunch, "resolve binary", fmt.Errorf("no file matches %q: %w", path, os.ErrNotExist))
	case 1:
		abs, err := filepath.Abs(matches[0])
		if err != nil {
			return "", newError(KindLaunch, "resolve binary", err)
		}
		return abs, nil
	default:
		return "", newError(KindLaunch, "resolve binary",
			fmt.Errorf("pattern %q is ambiguous, matched: %s", path, strings.Join(matches, ", ")))
	}
}

func hasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
