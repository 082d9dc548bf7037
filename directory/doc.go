// Package directory implements the node-side collaborators porter's
// handlers consume: a static Ursula directory loaded from a YAML file
// with deterministic sampling, and an offline retriever stub used until
// a real re-encryption transport is wired in.
package directory
