// Package sprite interns projectile visual identities. Content names a
// visual once, at authoring time, and gets back a compact uint16 tag; the
// pool only ever stores the tag. The registry is an explicit dependency
// passed to whoever needs it, never process-global state.
package sprite

// Info describes how a tagged visual renders and collides.
type Info struct {
	Glyph  rune
	Color  string
	Radius float64
}

// Registry maps visual names to dense uint16 tags.
type Registry struct {
	tags  map[string]uint16
	infos []Info
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tags: make(map[string]uint16)}
}

// Register interns name with the given info and returns its tag.
// Registering an existing name overwrites its info and keeps its tag.
func (r *Registry) Register(name string, info Info) uint16 {
	if tag, ok := r.tags[name]; ok {
		r.infos[tag] = info
		return tag
	}
	tag := uint16(len(r.infos))
	r.tags[name] = tag
	r.infos = append(r.infos, info)
	return tag
}

// Tag looks up the tag for a previously registered name.
func (r *Registry) Tag(name string) (uint16, bool) {
	tag, ok := r.tags[name]
	return tag, ok
}

// Info returns the info for a tag. Tags come only from this registry, so
// an out-of-range tag is a programming error and panics via the slice
// bounds check.
func (r *Registry) Info(tag uint16) Info {
	return r.infos[tag]
}

// Len returns the number of registered visuals.
func (r *Registry) Len() int {
	return len(r.infos)
}
