package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zappabad/agentmarket/internal/agent"
)

// ClientConfig holds configuration for the remote oracle client.
type ClientConfig struct {
	// Endpoint is a chat-completions style URL.
	Endpoint string
	APIKey   string
	Model    string
	// Timeout bounds a single request. The simulator additionally
	// applies its own per-call context timeout.
	Timeout     time.Duration
	Temperature float64
}

// DefaultClientConfig returns a ClientConfig with reasonable defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Model:       "gpt-4o-mini",
		Timeout:     8 * time.Second,
		Temperature: 0.6,
	}
}

// Client asks a chat-completions endpoint for trading decisions. Any
// transport or parse problem is reported as ErrUnavailable or
// ErrMalformed so the caller can fall back without inspecting details.
type Client struct {
	cfg  ClientConfig
	http *http.Client
	log  zerolog.Logger
}

// NewClient creates a remote oracle client.
func NewClient(cfg ClientConfig, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultClientConfig().Timeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log.With().Str("component", "oracle_client").Logger(),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type wireDecision struct {
	Action    string  `json:"action"`
	Size      float64 `json:"size"`
	Rationale string  `json:"rationale"`
}

// Decide implements Oracle.
func (c *Client) Decide(ctx context.Context, req Request) (Decision, error) {
	if c.cfg.Endpoint == "" {
		return Decision{}, fmt.Errorf("%w: no endpoint configured", ErrUnavailable)
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(req)},
		},
	})
	if err != nil {
		return Decision{}, fmt.Errorf("marshal oracle request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Decision{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(cr.Choices) == 0 {
		return Decision{}, fmt.Errorf("%w: empty choices", ErrMalformed)
	}

	dec, err := parseDecision(cr.Choices[0].Message.Content)
	if err != nil {
		return Decision{}, err
	}

	c.log.Debug().
		Int64("agent", int64(req.AgentID)).
		Str("action", dec.Action.String()).
		Float64("size", dec.Size).
		Msg("oracle decision")
	return dec, nil
}

const systemPrompt = "You are a trading decision engine for a simulated single-stock market. " +
	"Answer with a single JSON object: {\"action\": \"buy\"|\"sell\"|\"hold\", \"size\": <non-negative number of shares>, \"rationale\": \"<one sentence>\"}. " +
	"No other text."

func buildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You act for a %s investor.\n", strings.ToLower(req.AgentType.String()))
	fmt.Fprintf(&b, "Current price: %.2f\n", req.Price)
	fmt.Fprintf(&b, "News (%s, magnitude %.2f): %s\n", req.News.Category, req.News.Magnitude, req.News.Headline)
	fmt.Fprintf(&b, "Belief: sentiment %.2f, outlook %s, confidence %.2f\n",
		req.Belief.Sentiment, req.Belief.Outlook, req.Belief.Confidence)
	if len(req.Trend) > 0 {
		fmt.Fprintf(&b, "Recent price deltas (oldest first): %v\n", req.Trend)
	}
	b.WriteString("Decide buy, sell or hold and a share size.")
	return b.String()
}

// parseDecision extracts the JSON decision from the model's reply,
// tolerating surrounding prose by slicing the outermost braces.
func parseDecision(content string) (Decision, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return Decision{}, fmt.Errorf("%w: no JSON object in reply", ErrMalformed)
	}

	var wd wireDecision
	if err := json.Unmarshal([]byte(content[start:end+1]), &wd); err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	dec := Decision{Size: wd.Size, Rationale: wd.Rationale}
	switch strings.ToLower(strings.TrimSpace(wd.Action)) {
	case "buy":
		dec.Action = agent.ActionBuy
	case "sell":
		dec.Action = agent.ActionSell
	case "hold":
		dec.Action = agent.ActionHold
	default:
		return Decision{}, fmt.Errorf("%w: unknown action %q", ErrMalformed, wd.Action)
	}

	if err := dec.Validate(); err != nil {
		return Decision{}, err
	}
	return dec, nil
}
