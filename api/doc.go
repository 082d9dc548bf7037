// Package api declares porter's endpoint parameter schemas and the
// request/response types shared by the HTTP handlers, the HTTP client
// and the CLI commands.
//
// Each endpoint has exactly one schema declaration; the JSON request
// surface and the generated CLI option set are both derived from it.
// Business-logic collaborators (node sampling, re-encryption retrieval)
// are consumed through the narrow UrsulaSampler and CFragRetriever
// interfaces.
package api
