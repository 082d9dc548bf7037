package porterhandler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/nucypher/go-porter/api"
)

// GetUrsulas asks a remote porter to sample Ursula nodes. The payload
// is the raw JSON parameter map of the get_ursulas schema; callers are
// expected to have validated it locally first.
func GetUrsulas(baseURL string, payload map[string]any) ([]api.UrsulaInfo, error) {
	result, err := post(baseURL+"/get_ursulas", payload)
	if err != nil {
		return nil, err
	}
	return api.ParseUrsulas(result[api.FieldUrsulas])
}

// RetrieveCFrags asks a remote porter to retrieve re-encrypted capsule
// fragments. The payload is the raw JSON parameter map of the
// retrieve_cfrags schema.
func RetrieveCFrags(baseURL string, payload map[string]any) ([]api.RetrievalOutcome, error) {
	result, err := post(baseURL+"/retrieve_cfrags", payload)
	if err != nil {
		return nil, err
	}
	return api.ParseRetrievalOutcomes(result[api.FieldRetrievalResults])
}

func post(url string, payload map[string]any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("could not encode request: %w", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not request porter: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read porter response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			if len(errResp.Fields) > 0 {
				return nil, fmt.Errorf("porter rejected request: %s: %v", errResp.Error, errResp.Fields)
			}
			return nil, fmt.Errorf("porter rejected request: %s", errResp.Error)
		}
		return nil, fmt.Errorf("porter returned status %d", resp.StatusCode)
	}

	var envelope struct {
		Result map[string]any `json:"result"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("could not parse porter response: %w", err)
	}
	return envelope.Result, nil
}
