package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/imgbatch/internal/hasher"
)

// Validate checks m against the files under baseDir: every entry must exist
// with the recorded size and hash, and stats must match the entries.
func Validate(m *Manifest, baseDir string) []string {
	var errs []string

	if m.Version != SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	paths := make([]string, 0, len(m.Files))
	for p := range m.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var inBytes, outBytes int64
	for _, p := range paths {
		e := m.Files[p]
		inBytes += e.SourceSize
		outBytes += e.Size

		if e.Width <= 0 || e.Height <= 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid dimensions %dx%d", p, e.Width, e.Height))
		}
		if e.Hash == "" {
			errs = append(errs, fmt.Sprintf("%s: missing hash", p))
		}

		full := filepath.Join(baseDir, filepath.FromSlash(p))
		info, err := os.Stat(full)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: file not found", p))
			continue
		}
		if info.Size() != e.Size {
			errs = append(errs, fmt.Sprintf("%s: size mismatch: manifest=%d, disk=%d", p, e.Size, info.Size()))
			continue
		}
		if e.Hash == "" {
			continue
		}
		got, err := hasher.FileHash(full, len(e.Hash))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: hash: %v", p, err))
		} else if got != e.Hash {
			errs = append(errs, fmt.Sprintf("%s: hash mismatch: manifest=%s, disk=%s", p, e.Hash, got))
		}
	}

	if m.Stats.TotalFiles != len(m.Files) {
		errs = append(errs, fmt.Sprintf("stats.total_files mismatch: %d != %d", m.Stats.TotalFiles, len(m.Files)))
	}
	if m.Stats.TotalOutputBytes != outBytes {
		errs = append(errs, fmt.Sprintf("stats.total_output_bytes mismatch: %d != %d", m.Stats.TotalOutputBytes, outBytes))
	}
	if m.Stats.TotalInputBytes != inBytes {
		errs = append(errs, fmt.Sprintf("stats.total_input_bytes mismatch: %d != %d", m.Stats.TotalInputBytes, inBytes))
	}
	return errs
}
