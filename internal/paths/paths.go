// Package paths turns the directory argument into the input and output
// directories used by a colorization run.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

const OutputSuffix = "-colorized"

// ErrOutputConflict means the output path is taken by something that is not a directory.
var ErrOutputConflict = errors.Base("output path exists and is not a directory")

type Resolver struct {
	Home string
}

func NewResolver(home string) *Resolver {
	return &Resolver{Home: home}
}

// Resolve expands a leading ~ and returns a clean absolute path.
// The path is not required to exist.
func (r *Resolver) Resolve(arg string) (string, error) {
	if arg == "" {
		return "", errors.New("empty directory argument")
	}

	if arg == "~" || strings.HasPrefix(arg, "~/") || strings.HasPrefix(arg, "~"+string(filepath.Separator)) {
		if r.Home == "" {
			return "", errors.Errorf("cannot expand %s: home directory unknown", arg)
		}
		arg = filepath.Join(r.Home, arg[1:])
	}

	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", arg, err)
	}
	return abs, nil
}

func OutputPath(input string) string {
	return filepath.Clean(input) + OutputSuffix
}

// EnsureOutputDir creates path unless it is already a directory.
// created reports whether the directory was made by this call.
func EnsureOutputDir(path string) (created bool, err error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return false, errors.Errorf("%w: %s", ErrOutputConflict, path)
		}
		return false, nil
	case !errors.Is(err, os.ErrNotExist):
		return false, errors.Errorf("checking output dir %s: %w", path, err)
	}

	if err := os.Mkdir(path, 0o755); err != nil {
		return false, errors.Errorf("creating output dir %s: %w", path, err)
	}
	return true, nil
}
