// Package schema turns one declarative parameter specification per
// endpoint into both of porter's input surfaces: validation of JSON
// request payloads and generation of the matching CLI option set.
//
// A Schema is an ordered list of named FieldSpecs plus cross-field
// rules. Load decodes and validates a raw input map into an immutable
// LoadedRequest; Dump produces the JSON-safe response map from domain
// values. CLI-sourced values are assembled into the same raw map shape
// Load consumes, so the two surfaces cannot diverge.
//
// Error strategy: per-field problems (missing required fields, decode
// failures) are collected across all fields and reported together in a
// single ValidationError; cross-field rules run only once every field
// passed, in declaration order, stopping at the first violation with an
// InvalidArgumentCombo.
package schema
