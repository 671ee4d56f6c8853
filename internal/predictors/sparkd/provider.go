// internal/predictors/sparkd/provider.go
// Package sparkd provides a predictors.Predictor backed by a sparkd scoring
// server over HTTP. The server owns the model and tokenizer; this client is
// transport plumbing only.
package sparkd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mwiater/subline/internal/appconfig"
	"github.com/mwiater/subline/internal/logging"
	"github.com/mwiater/subline/internal/predictors"
)

// Provider implements the predictors.Predictor interface against sparkd HTTP
// endpoints.
type Provider struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	debug   bool
}

// New constructs a Provider configured with the application's predictor
// endpoint and request timeout.
func New(cfg *appconfig.Config) *Provider {
	timeout := cfg.RequestTimeout()
	return &Provider{
		baseURL: cfg.Predictor.URL,
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
		debug:   cfg.Debug,
	}
}

// scoreRequest is the payload for the /v1/score endpoint.
type scoreRequest struct {
	Texts []string `json:"texts"`
}

// scoreResponse mirrors the sparkd batch scoring response.
type scoreResponse struct {
	InputIDs      [][]int       `json:"input_ids"`
	AttentionMask [][]int       `json:"attention_mask"`
	LogProbs      [][][]float32 `json:"log_probs"`
	Lengths       []int         `json:"lengths"`
	VocabSize     int           `json:"vocab_size"`
}

// detokenizeRequest is the payload for the /v1/detokenize endpoint.
type detokenizeRequest struct {
	IDs []int `json:"ids"`
}

type detokenizeResponse struct {
	Tokens []string `json:"tokens"`
}

// Predict sends one blocking batched scoring request and returns the
// predictor output for the whole batch.
func (p *Provider) Predict(ctx context.Context, texts []string) (*predictors.Prediction, error) {
	var resp scoreResponse
	if err := p.post(ctx, "/v1/score", scoreRequest{Texts: texts}, &resp); err != nil {
		return nil, err
	}
	return &predictors.Prediction{
		InputIDs:      resp.InputIDs,
		AttentionMask: resp.AttentionMask,
		LogProbs:      resp.LogProbs,
		Lengths:       resp.Lengths,
		VocabSize:     resp.VocabSize,
	}, nil
}

// Decode maps token ids back to display strings using the server's
// tokenizer.
func (p *Provider) Decode(ids []int) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	var resp detokenizeResponse
	if err := p.post(ctx, "/v1/detokenize", detokenizeRequest{IDs: ids}, &resp); err != nil {
		return nil, err
	}
	return resp.Tokens, nil
}

// post sends a JSON request to the given endpoint and decodes the JSON
// response into out.
func (p *Provider) post(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sparkd: marshal request: %w", err)
	}

	url := p.baseURL + endpoint
	if p.debug {
		logging.LogRequest("SUBLINE->SPARKD", p.baseURL, endpoint, body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sparkd: %s returned %s", endpoint, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if p.debug {
		logging.LogRequest("SPARKD->SUBLINE", p.baseURL, endpoint, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("sparkd: decode %s response: %w", endpoint, err)
	}
	return nil
}
