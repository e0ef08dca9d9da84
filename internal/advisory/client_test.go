package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleansweep-app/cleansweep-api/internal/config"
	"github.com/cleansweep-app/cleansweep-api/internal/service"
)

// newTestClient points the client at a stub generation endpoint.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		AdvisoryURL:     server.URL,
		AdvisoryAPIKey:  "test-key",
		AdvisoryTimeout: 2 * time.Second,
	}
	return NewClient(cfg, logger).(*Client)
}

// replyWith wraps a text reply in the generation endpoint's response shape.
func replyWith(t *testing.T, w http.ResponseWriter, text string) {
	resp := generateResponse{}
	resp.Candidates = append(resp.Candidates, struct {
		Content content `json:"content"`
	}{Content: content{Parts: []part{{Text: text}}}})
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func TestClassify_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "broken glass")

		replyWith(t, w, "Construction debris; High")
	})

	classification, priority := client.Classify(context.Background(), "broken glass everywhere")

	assert.Equal(t, "Construction debris", classification)
	assert.Equal(t, "High", priority)
}

func TestClassify_MalformedReply(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// No semicolon separator.
		replyWith(t, w, "just some garbage")
	})

	classification, priority := client.Classify(context.Background(), "")

	assert.Equal(t, FallbackClassification, classification)
	assert.Equal(t, FallbackPriority, priority)
}

func TestClassify_EndpointError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	classification, priority := client.Classify(context.Background(), "")

	assert.Equal(t, FallbackClassification, classification)
	assert.Equal(t, FallbackPriority, priority)
}

func TestClassify_EmptyCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(generateResponse{}))
	})

	classification, priority := client.Classify(context.Background(), "")

	assert.Equal(t, FallbackClassification, classification)
	assert.Equal(t, FallbackPriority, priority)
}

func TestClassify_Unconfigured(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	client := NewClient(&config.Config{AdvisoryTimeout: time.Second}, logger).(*Client)

	classification, priority := client.Classify(context.Background(), "")

	assert.Equal(t, FallbackClassification, classification)
	assert.Equal(t, FallbackPriority, priority)
}

func TestEstimateReward_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		replyWith(t, w, " 42 ")
	})

	reward := client.EstimateReward(context.Background(), "Household garbage", "High")

	assert.Equal(t, 42, reward)
}

func TestEstimateReward_NonNumericReply(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		replyWith(t, w, "around fifty points")
	})

	reward := client.EstimateReward(context.Background(), "Mixed waste", "Medium")

	assert.Equal(t, service.DefaultBaseReward, reward)
}

func TestEstimateReward_NegativeReply(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		replyWith(t, w, "-5")
	})

	reward := client.EstimateReward(context.Background(), "Mixed waste", "Low")

	assert.Equal(t, service.DefaultBaseReward, reward)
}

func TestEstimateReward_EndpointError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	reward := client.EstimateReward(context.Background(), "Mixed waste", "Medium")

	assert.Equal(t, service.DefaultBaseReward, reward)
}
