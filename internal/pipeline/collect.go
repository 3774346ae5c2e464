package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrInputDir is returned when the input root is missing, unreadable or not
// a directory.
var ErrInputDir = errors.New("input folder unusable")

// imageExtensions lists recognized input extensions, compared lowercase.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".gif":  true,
}

// IsImageFile reports whether name has a supported image extension.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// Collect returns the image files under root sorted by relative path.
// Without recursive only direct children are considered. Symlinks and
// other non-regular files are skipped.
func Collect(root string, recursive bool) ([]Source, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputDir, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInputDir, root)
	}
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}

	var sources []Source
	add := func(path string, d fs.DirEntry) error {
		if !d.Type().IsRegular() || !IsImageFile(d.Name()) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		sources = append(sources, Source{RelPath: rel, AbsPath: path, Size: fi.Size()})
		return nil
	}

	if recursive {
		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == absRoot {
					return err
				}
				// Unreadable subdirectory: skip it, keep walking.
				return nil
			}
			if d.IsDir() {
				return nil
			}
			return add(path, d)
		})
	} else {
		var entries []os.DirEntry
		entries, err = os.ReadDir(absRoot)
		for _, e := range entries {
			if err := add(filepath.Join(absRoot, e.Name()), e); err != nil {
				return nil, err
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputDir, err)
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].RelPath < sources[j].RelPath
	})
	for i := range sources {
		sources[i].Index = i
	}
	return sources, nil
}

// isWithin reports whether path is root or lies below it.
func isWithin(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
