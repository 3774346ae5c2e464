package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolver maps input relative paths to output paths.
type Resolver struct {
	root     string
	ext      string
	collapse bool
}

// NewResolver returns a Resolver writing under root with extension ext
// (including the dot). With collapse every output lands directly in root.
func NewResolver(root, ext string, collapse bool) *Resolver {
	return &Resolver{root: root, ext: ext, collapse: collapse}
}

// Resolve returns the output path for relPath. In collapse mode two inputs
// with the same base name map to the same path; the last one written wins.
func (r *Resolver) Resolve(relPath string) string {
	rel := relPath
	if r.collapse {
		rel = filepath.Base(relPath)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + r.ext
	return filepath.Join(r.root, rel)
}

// Prepare creates the parent directories of outPath.
func (r *Resolver) Prepare(outPath string) error {
	return os.MkdirAll(filepath.Dir(outPath), 0o755)
}
