package lore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nathoo/gacharealm/errors"
)

// HTTPConfig holds the configuration for the HTTP generator.
type HTTPConfig struct {
	Endpoint string // base URL, e.g. https://generativelanguage.googleapis.com/v1beta
	Model    string
	APIKey   string
	Timeout  time.Duration
	Client   *http.Client // optional
}

// Validate ensures all required settings are provided
func (c *HTTPConfig) Validate() error {
	if c.Endpoint == "" {
		return errors.InvalidArgument("lore endpoint is required")
	}
	if c.Model == "" {
		return errors.InvalidArgument("lore model is required")
	}
	if c.APIKey == "" {
		return errors.InvalidArgument("lore api key is required")
	}
	return nil
}

// HTTPGenerator calls a generateContent-style text endpoint.
type HTTPGenerator struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTP creates a generator for cfg.
func NewHTTP(cfg *HTTPConfig) (*HTTPGenerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPGenerator{
		url:    fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(cfg.Endpoint, "/"), url.PathEscape(cfg.Model)),
		apiKey: cfg.APIKey,
		client: client,
	}, nil
}

var _ Generator = (*HTTPGenerator)(nil)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate posts the prompt and joins the text parts of the first candidate.
func (g *HTTPGenerator) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: Prompt(req)}}}},
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to encode lore request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to build lore request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeUnavailable, "lore service unreachable")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read lore response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Unavailablef("lore service returned %s", resp.Status)
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", errors.WrapWithCode(err, errors.CodeDataLoss, "failed to decode lore response")
	}
	if len(out.Candidates) == 0 {
		return "", errors.NotFound("lore service returned no candidates")
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
