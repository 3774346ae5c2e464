package manifest

// FileName is the manifest name inside an output folder.
const FileName = "imgbatch.manifest.json"

// Manifest describes the outputs of one imgbatch run.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Preset      string           `json:"preset,omitempty"`
	InputDir    string           `json:"input_dir"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Files       map[string]Entry `json:"files"` // keyed by path relative to the manifest
	Failures    []FailureEntry   `json:"failures,omitempty"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures run parameters for diagnostics.
type BuildInfo struct {
	Format    string `json:"format"`
	Quality   int    `json:"quality"`
	Resize    bool   `json:"resize"`
	MaxWidth  int    `json:"max_width,omitempty"`
	Collapse  bool   `json:"collapse,omitempty"`
	Workers   int    `json:"workers"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

// Entry is one written output file.
type Entry struct {
	Source     string `json:"source"` // input path relative to input_dir
	Format     string `json:"format"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Size       int64  `json:"size"`        // bytes on disk
	SourceSize int64  `json:"source_size"` // input bytes
	Hash       string `json:"hash"`        // 16 hex chars of xxhash64
}

// FailureEntry mirrors one line of the failure log.
type FailureEntry struct {
	Source string `json:"source"`
	Detail string `json:"detail"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalFiles       int   `json:"total_files"`
	Failed           int   `json:"failed"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
