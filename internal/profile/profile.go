// Package profile holds named bundles of transform settings that act as
// defaults underneath explicit configuration.
package profile

import "sort"

// Profile defines image processing parameters for a target use.
type Profile struct {
	Name     string
	Quality  int    // encoding quality 0-100
	Resize   bool   // downscale images wider than MaxWidth
	MaxWidth int    // target width when Resize is set
	Format   string // output format name
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:     "default",
		Quality:  80,
		Resize:   false,
		MaxWidth: 1024,
		Format:   "jpeg",
	},
	"web": {
		Name:     "web",
		Quality:  75,
		Resize:   true,
		MaxWidth: 1280,
		Format:   "webp",
	},
	"thumbnail": {
		Name:     "thumbnail",
		Quality:  70,
		Resize:   true,
		MaxWidth: 320,
		Format:   "jpeg",
	},
	"archive": {
		Name:     "archive",
		Quality:  100,
		Resize:   false,
		MaxWidth: 1024,
		Format:   "png",
	},
}

// Get returns a profile by name.
func Get(name string) (Profile, bool) {
	p, ok := profiles[name]
	return p, ok
}

// Default returns the profile used when none is requested.
func Default() Profile {
	return profiles["default"]
}

// Names returns all built-in profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
