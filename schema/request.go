package schema

// LoadedRequest is the validated, decoded form of one request. It is
// immutable once returned by Load; accessors hand out copies of the
// backing maps.
type LoadedRequest struct {
	values map[string]any
	extra  map[string]any
}

// Get returns the decoded value for a loaded field.
func (r *LoadedRequest) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Has reports whether the field was present in the input.
func (r *LoadedRequest) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Int returns an integer field, or 0 if absent.
func (r *LoadedRequest) Int(name string) int {
	n, _ := r.values[name].(int)
	return n
}

// List returns a sequence field, or nil if absent.
func (r *LoadedRequest) List(name string) []any {
	l, _ := r.values[name].([]any)
	return l
}

// Values returns a copy of all loaded field values.
func (r *LoadedRequest) Values() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Extra returns a copy of the unknown input keys that were passed
// through without validation. Extra values are raw, never typed.
func (r *LoadedRequest) Extra() map[string]any {
	out := make(map[string]any, len(r.extra))
	for k, v := range r.extra {
		out[k] = v
	}
	return out
}
