package invocation

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// RealPath returns the absolute, symlink-free form of path. Components that
// do not exist are kept as written, so the result is defined for any path.
func RealPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path of %s: %w", path, err)
	}
	return realPath(abs), nil
}

func realPath(abs string) string {
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return abs
	}
	parent := filepath.Dir(abs)
	if parent == abs {
		return abs
	}
	return filepath.Join(realPath(parent), filepath.Base(abs))
}

// Roots anchors relative paths at the canonical source and build roots.
type Roots struct {
	Src   string
	Build string
}

// NewRoots canonicalizes both roots.
func NewRoots(srcRoot, buildRoot string) (Roots, error) {
	src, err := RealPath(srcRoot)
	if err != nil {
		return Roots{}, err
	}
	build, err := RealPath(buildRoot)
	if err != nil {
		return Roots{}, err
	}
	return Roots{Src: src, Build: build}, nil
}

// RelToSrc returns path relative to the source root, after canonicalization.
func (r Roots) RelToSrc(path string) (string, error) {
	return rel(r.Src, path)
}

// RelToBuild returns path relative to the build root, after canonicalization.
func (r Roots) RelToBuild(path string) (string, error) {
	return rel(r.Build, path)
}

func rel(base, path string) (string, error) {
	resolved, err := RealPath(path)
	if err != nil {
		return "", err
	}
	out, err := filepath.Rel(base, resolved)
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", path, err)
	}
	return out, nil
}
