package encoder

import (
	"fmt"
	"strings"
)

// Registry maps every Format to the Encoder that produces it.
type Registry struct {
	encoders map[Format]Encoder
}

// NewRegistry creates a registry holding one encoder per supported format.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[Format]Encoder),
	}

	all := []Encoder{
		&JPEGEncoder{},
		&PNGEncoder{},
		&WebPEncoder{},
	}
	for _, enc := range all {
		r.encoders[enc.Format()] = enc
	}

	return r
}

// Get returns the encoder for the given format.
func (r *Registry) Get(f Format) (Encoder, error) {
	enc, ok := r.encoders[f]
	if !ok {
		return nil, fmt.Errorf("no encoder for format %q", f)
	}
	return enc, nil
}

// Extension returns the file extension (with dot) for format f.
func (r *Registry) Extension(f Format) string {
	enc, err := r.Get(f)
	if err != nil {
		return "." + string(f)
	}
	return "." + enc.Extension()
}

// String returns a summary of registered encoders.
func (r *Registry) String() string {
	var names []string
	for _, f := range Formats {
		if _, ok := r.encoders[f]; ok {
			names = append(names, string(f))
		}
	}
	return fmt.Sprintf("encoders: %s", strings.Join(names, ", "))
}
