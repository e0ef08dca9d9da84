package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cleansweep-app/cleansweep-api/internal/config"
	"github.com/cleansweep-app/cleansweep-api/internal/service"
)

// Static fallbacks used whenever the advisory endpoint is unreachable,
// returns a non-2xx status or replies with something unparseable. Advisory
// output is informational only, so a failure never surfaces to the user.
const (
	FallbackClassification = "Mixed waste"
	FallbackPriority       = "Medium"
)

const (
	classifySystemPrompt = "You are a waste triage assistant. Reply with a short waste classification and a priority (Low, Medium or High), separated by a semicolon."
	estimateSystemPrompt = "You are a reward estimator for a community cleanup program. Reply with a single integer number of points."
)

// Client calls a text-generation endpoint for non-authoritative suggestions.
// Each call is a single bounded attempt with no retry.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(cfg *config.Config, logger *logrus.Logger) service.AdvisoryClient {
	return &Client{
		url:    cfg.AdvisoryURL,
		apiKey: cfg.AdvisoryAPIKey,
		httpClient: &http.Client{
			Timeout: cfg.AdvisoryTimeout,
		},
		logger: logger,
	}
}

// Request/response wire shapes of the generation endpoint.

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Classify suggests a waste classification and priority for a new report.
func (c *Client) Classify(ctx context.Context, note string) (string, string) {
	prompt := "Classify this reported waste location."
	if note != "" {
		prompt += " Reporter note: " + note
	}

	text, err := c.generate(ctx, classifySystemPrompt, prompt)
	if err != nil {
		c.logger.WithError(err).Warn("Advisory classification failed, using fallback")
		return FallbackClassification, FallbackPriority
	}

	rawClassification, rawPriority, ok := strings.Cut(text, ";")
	classification := strings.TrimSpace(rawClassification)
	priority := strings.TrimSpace(rawPriority)
	if !ok || classification == "" || priority == "" {
		c.logger.WithField("reply", text).Warn("Advisory classification reply malformed, using fallback")
		return FallbackClassification, FallbackPriority
	}
	return classification, priority
}

// EstimateReward suggests a base reward for a classified report. Any failure
// or non-numeric reply falls back to the default reward.
func (c *Client) EstimateReward(ctx context.Context, classification, priority string) int {
	prompt := "Suggest a point reward for cleaning up: " + classification + " (priority " + priority + ")."

	text, err := c.generate(ctx, estimateSystemPrompt, prompt)
	if err != nil {
		c.logger.WithError(err).Warn("Advisory reward estimate failed, using default")
		return service.DefaultBaseReward
	}

	reward, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || reward < 0 {
		c.logger.WithField("reply", text).Warn("Advisory reward estimate not a usable number, using default")
		return service.DefaultBaseReward
	}
	return reward
}

// generate performs one bounded call to the endpoint and extracts the first
// candidate text.
func (c *Client) generate(ctx context.Context, system, prompt string) (string, error) {
	if c.url == "" {
		return "", errAdvisoryUnconfigured
	}

	body, err := json.Marshal(generateRequest{
		Contents:          []content{{Parts: []part{{Text: prompt}}}},
		SystemInstruction: &content{Parts: []part{{Text: system}}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &statusError{status: resp.Status}
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errEmptyReply
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
