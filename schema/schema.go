package schema

import (
	"fmt"

	"github.com/nucypher/go-porter/fields"
)

// Mode declares which surfaces a field participates in.
type Mode int

const (
	// InputOutput fields are loaded from requests and dumped into
	// responses.
	InputOutput Mode = iota

	// InputOnly fields are loaded from requests and never dumped.
	InputOnly

	// OutputOnly fields only appear in responses.
	OutputOnly
)

// FieldSpec declares one named parameter of an endpoint: its coercion
// field, whether it is required, which surfaces it participates in, and
// the optional CLI binding.
type FieldSpec struct {
	Name     string
	Field    fields.Field
	Required bool
	Mode     Mode
	CLI      *CLIOption
}

// Rule is a cross-field consistency check evaluated over a fully loaded
// request. A violation is reported as *InvalidArgumentCombo.
type Rule func(r *LoadedRequest) error

// Schema is an ordered collection of field specs plus cross-field
// rules. Schemas are built once at process start and are immutable and
// safe for concurrent use afterwards.
type Schema struct {
	specs  []FieldSpec
	byName map[string]int
	rules  []Rule
}

// New builds a schema, rejecting duplicate or empty field names.
func New(specs []FieldSpec, rules ...Rule) (*Schema, error) {
	byName := make(map[string]int, len(specs))
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("field %d has no name", i)
		}
		if spec.Field == nil {
			return nil, fmt.Errorf("field %q has no field type", spec.Name)
		}
		if _, dup := byName[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate field name %q", spec.Name)
		}
		byName[spec.Name] = i
	}
	return &Schema{specs: specs, byName: byName, rules: rules}, nil
}

// MustNew is New for statically declared schemas.
func MustNew(specs []FieldSpec, rules ...Rule) *Schema {
	s, err := New(specs, rules...)
	if err != nil {
		panic(err)
	}
	return s
}

// Load validates and decodes a raw input map into a LoadedRequest.
//
// Per-field failures are collected across all declared input fields and
// returned together as a *ValidationError; nothing is partially
// applied. Only once every field passes do the cross-field rules run,
// in declaration order, aborting on the first violation with an
// *InvalidArgumentCombo. Unknown keys in raw are carried through into
// the request's extra bag without validation.
func (s *Schema) Load(raw map[string]any) (*LoadedRequest, error) {
	values := make(map[string]any)
	verr := newValidationError()

	for _, spec := range s.specs {
		if spec.Mode == OutputOnly {
			continue
		}

		rawValue, present := raw[spec.Name]
		if !present || rawValue == nil {
			if spec.Required {
				verr.add(spec.Name, "missing required field")
			}
			continue
		}

		value, err := spec.Field.Decode(rawValue)
		if err != nil {
			verr.add(spec.Name, fields.Named(spec.Name, err).Cause.Error())
			continue
		}

		if list, ok := value.([]any); ok && len(list) == 0 && spec.Required {
			verr.add(spec.Name, "required list must not be empty")
			continue
		}

		values[spec.Name] = value
	}

	if !verr.empty() {
		return nil, verr
	}

	extra := make(map[string]any)
	for key, value := range raw {
		if _, known := s.byName[key]; !known {
			extra[key] = value
		}
	}

	req := &LoadedRequest{values: values, extra: extra}
	for _, rule := range s.rules {
		if err := rule(req); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// Dump produces the JSON-safe response map from domain values: every
// output-capable field present in values is encoded with its field
// type.
//
// Dump does not validate. An encode failure means the caller handed a
// value violating the field's domain contract; it is a programming
// error and propagated unmodified.
func (s *Schema) Dump(values map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(values))
	for _, spec := range s.specs {
		if spec.Mode == InputOnly {
			continue
		}
		value, present := values[spec.Name]
		if !present {
			continue
		}
		encoded, err := spec.Field.Encode(value)
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", spec.Name, err)
		}
		out[spec.Name] = encoded
	}
	return out, nil
}

// Specs returns the declared field specs in order.
func (s *Schema) Specs() []FieldSpec {
	out := make([]FieldSpec, len(s.specs))
	copy(out, s.specs)
	return out
}
