// Package fields provides the typed coercion layer of the parameter
// schema system. A Field knows how to decode one raw JSON or CLI value
// into its domain representation and how to encode a domain value back
// into a JSON-safe form.
//
// Byte-oriented fields compose: a Base64Bytes field base64-decodes its
// input and hands the raw bytes to an inner BytesDecoder, so layered
// encodings (base64 of a structured blob, hex of a fixed-length key)
// nest by ordinary composition.
//
// All decode failures surface as *DecodeError carrying the field name
// and a human-readable cause; inner parser errors are wrapped, never
// leaked as-is.
package fields
