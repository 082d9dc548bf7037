// Package umbral holds the wire and text codecs for the opaque
// cryptographic objects porter passes between clients and Ursula nodes:
// compressed public keys, treasure maps and retrieval kits.
//
// The package deliberately stops at parsing and serialization. Verifying
// signatures, decrypting key fragments and performing re-encryption are
// the job of the nodes themselves; porter only needs to check that an
// object is well formed before routing it.
package umbral
