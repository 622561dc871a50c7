// Package assistant asks a Gemini model for sales forecasts and chat answers
// about the event catalogue. Every failure degrades to a canned French reply.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/goliatone/go-ticketdash/components/dashboard"
)

const (
	DefaultModel   = "gemini-3-flash-preview"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/"
)

// Canned replies used when the model cannot answer.
const (
	FallbackSummary  = "Impossible de générer l'analyse pour le moment."
	FallbackAction   = "Vérifiez votre clé API."
	FallbackEmpty    = "Désolé, je n'ai pas pu générer une réponse."
	FallbackChatFail = "Une erreur s'est produite. Veuillez réessayer."
)

var (
	errMissingAPIKey = errors.New("assistant: api key not configured")
	errEmptyResponse = errors.New("assistant: empty response")
)

// Prediction is the structured sales analysis.
type Prediction struct {
	Summary          string  `json:"summary"`
	SuggestedAction  string  `json:"suggestedAction"`
	ProjectedRevenue float64 `json:"projectedRevenue"`
	ConfidenceScore  float64 `json:"confidenceScore"`
}

// FallbackPrediction is returned when the analysis fails.
func FallbackPrediction() Prediction {
	return Prediction{Summary: FallbackSummary, SuggestedAction: FallbackAction}
}

// Message is one turn of a chat conversation. Role is "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config configures the Gemini client.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	// RequestsPerSecond throttles outbound calls. Zero means one per second.
	RequestsPerSecond float64
	Burst             int
	Logger            logrus.FieldLogger
}

// Client calls the generateContent endpoint.
type Client struct {
	apiKey    string
	model     string
	base      string
	http      *http.Client
	limiter   *rate.Limiter
	validator *predictionValidator
	log       logrus.FieldLogger
}

// New builds a client. A missing API key is not an error: every call then
// returns the fallback.
func New(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		apiKey:    strings.TrimSpace(cfg.APIKey),
		model:     model,
		base:      base,
		http:      httpClient,
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
		validator: newPredictionValidator(),
		log:       logger.WithField("component", "assistant"),
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// SalesAnalysis asks the model for a summary, an action, a revenue projection
// and a confidence score.
func (c *Client) SalesAnalysis(ctx context.Context, events []dashboard.Event, sales []dashboard.SalesPoint) Prediction {
	prompt := analysisPrompt(events, sales)
	text, err := c.generate(ctx, prompt, predictionResponseSchema)
	if err != nil {
		c.log.WithError(err).Warn("sales analysis failed")
		return FallbackPrediction()
	}
	prediction, err := c.validator.parse(text)
	if err != nil {
		c.log.WithError(err).Warn("sales analysis rejected")
		return FallbackPrediction()
	}
	return prediction
}

// Chat answers the last message given the conversation and the catalogue.
func (c *Client) Chat(ctx context.Context, history []Message, events []dashboard.Event, sales []dashboard.SalesPoint) string {
	text, err := c.generate(ctx, chatPrompt(history, events, sales), nil)
	switch {
	case errors.Is(err, errEmptyResponse):
		return FallbackEmpty
	case err != nil:
		c.log.WithError(err).Warn("chat failed")
		return FallbackChatFail
	}
	return text
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, prompt string, schema map[string]any) (string, error) {
	if !c.Configured() {
		return "", errMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("assistant: rate limit: %w", err)
	}
	payload := generateRequest{Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}}}
	if schema != nil {
		payload.GenerationConfig = &generationConfig{ResponseMimeType: "application/json", ResponseSchema: schema}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("assistant: encode request: %w", err)
	}
	endpoint := c.base + "models/" + url.PathEscape(c.model) + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("assistant: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant: call model: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("assistant: model returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("assistant: decode response: %w", err)
	}
	var text strings.Builder
	if len(out.Candidates) > 0 {
		for _, p := range out.Candidates[0].Content.Parts {
			text.WriteString(p.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", errEmptyResponse
	}
	return text.String(), nil
}
