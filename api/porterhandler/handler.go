package porterhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nucypher/go-porter/api"
	"github.com/nucypher/go-porter/common"
	"github.com/nucypher/go-porter/fields"
	"github.com/nucypher/go-porter/schema"
)

// maxBodySize is the maximum allowed request body size (1MB).
const maxBodySize = 1024 * 1024

// Handler processes porter's JSON API requests. It owns the endpoint
// schemas, constructed once at startup, and delegates the business
// logic to the sampler and retriever collaborators.
type Handler struct {
	sampler   api.UrsulaSampler
	retriever api.CFragRetriever
	log       *slog.Logger

	getUrsulas     *schema.Schema
	retrieveCFrags *schema.Schema
}

// NewHandler creates the request handler with its collaborators.
func NewHandler(sampler api.UrsulaSampler, retriever api.CFragRetriever, log *slog.Logger) *Handler {
	return &Handler{
		sampler:        sampler,
		retriever:      retriever,
		log:            log,
		getUrsulas:     api.GetUrsulasSchema(),
		retrieveCFrags: api.RetrieveCFragsSchema(),
	}
}

// RegisterRoutes mounts the porter endpoints on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/get_ursulas", h.HandleGetUrsulas)
	r.Post("/get_ursulas", h.HandleGetUrsulas)
	r.Post("/retrieve_cfrags", h.HandleRetrieveCFrags)
}

// HandleGetUrsulas samples a set of Ursula nodes.
//
// URL format: GET or POST /get_ursulas
// Parameters (query string on GET, JSON body on POST): quantity,
// include_ursulas, exclude_ursulas. On GET, list parameters may be
// repeated or comma-separated.
//
// Response: {"result": {"ursulas": [...]}, "version": ...}
func (h *Handler) HandleGetUrsulas(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.rawInput(w, r, h.getUrsulas)
	if !ok {
		return
	}

	loaded, err := h.getUrsulas.Load(raw)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}

	quantity, include, exclude := api.GetUrsulasParams(loaded)
	ursulas, err := h.sampler.SampleUrsulas(r.Context(), quantity, include, exclude)
	if err != nil {
		h.log.Error("Ursula sampling failed", "err", err, "quantity", quantity)
		writeJSON(w, http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	dumped, err := h.getUrsulas.Dump(map[string]any{api.FieldUrsulas: ursulas})
	if err != nil {
		h.log.Error("Failed to dump get_ursulas response", "err", err)
		writeJSON(w, http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	writeResult(w, dumped)
}

// HandleRetrieveCFrags requests re-encrypted capsule fragments for a
// set of retrieval kits.
//
// URL format: POST /retrieve_cfrags
// JSON body parameters: treasure_map, retrieval_kits,
// alice_verifying_key, bob_encrypting_key, bob_verifying_key, and the
// optional context object.
//
// Response: {"result": {"retrieval_results": [...]}, "version": ...}
func (h *Handler) HandleRetrieveCFrags(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.rawInput(w, r, h.retrieveCFrags)
	if !ok {
		return
	}

	loaded, err := h.retrieveCFrags.Load(raw)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}

	outcomes, err := h.retriever.RetrieveCFrags(r.Context(), api.RetrievalRequestFromLoaded(loaded))
	if err != nil {
		h.log.Error("CFrag retrieval failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	dumped, err := h.retrieveCFrags.Dump(map[string]any{api.FieldRetrievalResults: outcomes})
	if err != nil {
		h.log.Error("Failed to dump retrieve_cfrags response", "err", err)
		writeJSON(w, http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	writeResult(w, dumped)
}

// rawInput assembles the raw input map from either the JSON body or, on
// GET, the query string. Both shapes feed the identical schema load
// path.
func (h *Handler) rawInput(w http.ResponseWriter, r *http.Request, s *schema.Schema) (map[string]any, bool) {
	if r.Method == http.MethodGet {
		return rawFromQuery(s, r.URL.Query()), true
	}

	var raw map[string]any
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := decoder.Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid JSON body"})
		return nil, false
	}
	return raw, true
}

// rawFromQuery maps query parameters to the raw input shape the schema
// expects: declared list fields become ordered sequences (repeated keys
// or comma-separated), everything else stays a single string.
func rawFromQuery(s *schema.Schema, query url.Values) map[string]any {
	listFields := make(map[string]bool)
	for _, spec := range s.Specs() {
		if _, ok := spec.Field.(fields.StringList); ok {
			listFields[spec.Name] = true
		}
	}

	raw := make(map[string]any, len(query))
	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		if !listFields[key] {
			raw[key] = values[0]
			continue
		}

		var items []any
		for _, value := range values {
			for _, item := range strings.Split(value, ",") {
				if item != "" {
					items = append(items, item)
				}
			}
		}
		raw[key] = items
	}
	return raw
}

func (h *Handler) writeValidationError(w http.ResponseWriter, err error) {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{
			Error:  "invalid request",
			Fields: verr.FieldErrors,
		})
		return
	}

	var combo *schema.InvalidArgumentCombo
	if errors.As(err, &combo) {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: combo.Message})
		return
	}

	writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
}

func writeResult(w http.ResponseWriter, result map[string]any) {
	writeJSON(w, http.StatusOK, map[string]any{
		"result":  result,
		"version": common.Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
