package service

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"example/image-colorizer/internal/logger"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
	".gif":  true,
}

func isImageFile(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// Image is one source file found by the Walker. Index is 1-based and,
// like DirTotal, counts only images in Dir.
type Image struct {
	Path     string
	Dir      string
	Index    int
	DirTotal int
}

type Walker struct {
	exclude []string
}

// NewWalker rejects malformed exclude patterns up front.
func NewWalker(exclude []string) (*Walker, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return &Walker{exclude: exclude}, nil
}

// Walk calls fn for every image under root, directory by directory, top-down.
// Images in a directory are visited before its subdirectories.
func (w *Walker) Walk(ctx context.Context, root string, fn func(Image) error) error {
	return w.walkDir(ctx, root, root, fn)
}

func (w *Walker) walkDir(ctx context.Context, root, dir string, fn func(Image) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if dir == root {
			return errors.Errorf("reading input directory %s: %w", dir, err)
		}
		logger.FromContext(ctx).Warningf("Skipping unreadable directory %s: %v", dir, err)
		return nil
	}

	var images, subdirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if w.excluded(root, path) {
			continue
		}

		switch {
		case entry.IsDir():
			subdirs = append(subdirs, path)
		case isImageFile(path) && isRegular(path, entry):
			images = append(images, path)
		}
	}

	for i, path := range images {
		img := Image{Path: path, Dir: dir, Index: i + 1, DirTotal: len(images)}
		if err := fn(img); err != nil {
			return err
		}
	}

	for _, sub := range subdirs {
		if err := w.walkDir(ctx, root, sub, fn); err != nil {
			return err
		}
	}
	return nil
}

// isRegular follows symlinks to files but not to directories.
func isRegular(path string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (w *Walker) excluded(root, path string) bool {
	if len(w.exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
