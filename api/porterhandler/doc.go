// Package porterhandler serves porter's two JSON endpoints,
// /get_ursulas and /retrieve_cfrags, and provides the matching HTTP
// client.
//
// Handlers do no validation of their own: raw request values, whether
// from a JSON body or query parameters, are assembled into a raw map
// and passed through the endpoint's schema, the same path the CLI
// takes.
package porterhandler
