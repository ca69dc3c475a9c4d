// Package ark is a client for the Ark agent gateway's asynchronous
// submit/poll query protocol.
package ark

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Config struct {
	BaseURL             string        `envconfig:"BASE_URL" split_words:"true" required:"true"`
	APIKey              string        `envconfig:"API_KEY" split_words:"true"`
	Namespace           string        `envconfig:"NAMESPACE" split_words:"true" default:"default"`
	QueryTimeout        time.Duration `envconfig:"QUERY_TIMEOUT" split_words:"true" default:"5m"`
	QueryTTL            time.Duration `envconfig:"QUERY_TTL" split_words:"true" default:"720h"`
	SubmitTimeout       time.Duration `envconfig:"SUBMIT_TIMEOUT" split_words:"true" default:"90s"`
	PollTimeout         time.Duration `envconfig:"POLL_TIMEOUT" split_words:"true" default:"30s"`
	PollAttempts        int           `envconfig:"POLL_ATTEMPTS" split_words:"true" default:"40"`
	PollWarmupAttempts  int           `envconfig:"POLL_WARMUP_ATTEMPTS" split_words:"true" default:"5"`
	PollInitialInterval time.Duration `envconfig:"POLL_INITIAL_INTERVAL" split_words:"true" default:"1s"`
	PollSteadyInterval  time.Duration `envconfig:"POLL_STEADY_INTERVAL" split_words:"true" default:"1500ms"`
	OverallTimeout      time.Duration `envconfig:"OVERALL_TIMEOUT" split_words:"true" default:"2m"`
}

// Turn is one role/content message in a query input or response transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ResultKind string

const (
	ResultText     ResultKind = "text"
	ResultFailed   ResultKind = "failed"
	ResultTimedOut ResultKind = "timed_out"
)

type FailureKind string

const (
	FailureGatewayRejected FailureKind = "gateway_rejected"
	FailureAgentFailed     FailureKind = "agent_failed"
	FailureConnection      FailureKind = "connection_error"
)

// Result is the settled outcome of one submit/poll cycle. The client never
// retries; the caller decides what a failure means.
type Result struct {
	Kind    ResultKind
	Text    string
	Failure FailureKind
	Reason  string
}

// Option customizes a Client.
type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithQueryNameFunc overrides query name generation. Names must be unique per
// call to avoid gateway-side collisions.
func WithQueryNameFunc(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newQueryName = fn
		}
	}
}

type Client struct {
	baseURL    string
	apiKey     string
	namespace  string
	httpClient *http.Client

	queryTimeout time.Duration
	queryTTL     time.Duration
	pollTimeout  time.Duration

	pollAttempts   int
	warmupAttempts int
	initialDelay   time.Duration
	steadyDelay    time.Duration
	overallTimeout time.Duration

	newQueryName func() string
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ark base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid ark base url: %w", err)
	}

	submitTimeout := cfg.SubmitTimeout
	if submitTimeout <= 0 {
		submitTimeout = 90 * time.Second
	}
	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}
	attempts := cfg.PollAttempts
	if attempts <= 0 {
		attempts = 40
	}

	client := &Client{
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		namespace:      strings.TrimSpace(cfg.Namespace),
		httpClient:     &http.Client{Timeout: submitTimeout},
		queryTimeout:   cfg.QueryTimeout,
		queryTTL:       cfg.QueryTTL,
		pollTimeout:    pollTimeout,
		pollAttempts:   attempts,
		warmupAttempts: cfg.PollWarmupAttempts,
		initialDelay:   cfg.PollInitialInterval,
		steadyDelay:    cfg.PollSteadyInterval,
		overallTimeout: cfg.OverallTimeout,
		newQueryName: func() string {
			return "chat-" + uuid.NewString()
		},
	}
	if client.namespace == "" {
		client.namespace = "default"
	}
	if client.initialDelay <= 0 {
		client.initialDelay = time.Second
	}
	if client.steadyDelay <= 0 {
		client.steadyDelay = 1500 * time.Millisecond
	}
	if client.overallTimeout <= 0 {
		client.overallTimeout = 2 * time.Minute
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

func MustNew(cfg Config, opts ...Option) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

type createQueryRequest struct {
	Name      string        `json:"name"`
	Namespace string        `json:"namespace"`
	Type      string        `json:"type"`
	Input     []Turn        `json:"input"`
	SessionID string        `json:"sessionId"`
	Targets   []queryTarget `json:"targets"`
	Timeout   string        `json:"timeout"`
	TTL       string        `json:"ttl"`
}

type queryTarget struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type queryStatusResponse struct {
	Status struct {
		Phase     string          `json:"phase"`
		Responses []queryResponse `json:"responses"`
	} `json:"status"`
}

type queryResponse struct {
	Raw     string `json:"raw"`
	Content string `json:"content"`
}

// SubmitAndAwait submits one query targeting the named agent and polls it to
// a terminal phase. The submit itself is never retried; transport failures
// settle as connection errors and polling exhaustion settles as a timeout.
func (c *Client) SubmitAndAwait(ctx context.Context, target string, turns []Turn, sessionID string) Result {
	name := c.newQueryName()

	if err := c.createQuery(ctx, name, target, turns, sessionID); err != nil {
		var rejected *rejectedError
		if errors.As(err, &rejected) {
			return Result{Kind: ResultFailed, Failure: FailureGatewayRejected, Reason: rejected.Error()}
		}
		return Result{Kind: ResultFailed, Failure: FailureConnection, Reason: err.Error()}
	}

	deadline := time.Now().Add(c.overallTimeout)
	for attempt := 0; attempt < c.pollAttempts && time.Now().Before(deadline); attempt++ {
		delay := c.steadyDelay
		if attempt < c.warmupAttempts {
			delay = c.initialDelay
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return Result{Kind: ResultFailed, Failure: FailureConnection, Reason: ctx.Err().Error()}
		}

		status, err := c.pollQuery(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return Result{Kind: ResultFailed, Failure: FailureConnection, Reason: ctx.Err().Error()}
			}
			log.Debug().Err(err).Str("query", name).Int("attempt", attempt).Msg("poll failed, retrying")
			continue
		}

		switch status.Status.Phase {
		case "done":
			return Result{Kind: ResultText, Text: extractText(status.Status.Responses)}
		case "failed", "cancelled":
			return Result{Kind: ResultFailed, Failure: FailureAgentFailed, Reason: "phase=" + status.Status.Phase}
		}
	}

	return Result{Kind: ResultTimedOut}
}

type rejectedError struct {
	statusCode int
}

func (e *rejectedError) Error() string {
	return fmt.Sprintf("status %d", e.statusCode)
}

func (c *Client) createQuery(ctx context.Context, name, target string, turns []Turn, sessionID string) error {
	payload := createQueryRequest{
		Name:      name,
		Namespace: c.namespace,
		Type:      "messages",
		Input:     turns,
		SessionID: sessionID,
		Targets:   []queryTarget{{Name: target, Type: "agent"}},
		Timeout:   c.queryTimeout.String(),
		TTL:       c.queryTTL.String(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/queries/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build submit request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &rejectedError{statusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) pollQuery(ctx context.Context, name string) (*queryStatusResponse, error) {
	pollCtx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(pollCtx, http.MethodGet, c.baseURL+"/queries/"+name, nil)
	if err != nil {
		return nil, fmt.Errorf("build poll request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poll status %d", resp.StatusCode)
	}

	var status queryStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode poll response: %w", err)
	}
	return &status, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// extractText tolerates both response payload formats the gateway has
// shipped: a raw serialized transcript (last assistant turn wins) and a flat
// content string. Unparseable raw falls back to plain text.
func extractText(responses []queryResponse) string {
	if len(responses) == 0 {
		return "No response from agent."
	}

	raw := responses[0].Raw
	if raw == "" {
		if responses[0].Content != "" {
			return strings.TrimSpace(responses[0].Content)
		}
		return "Empty response"
	}

	var transcript []Turn
	if err := json.Unmarshal([]byte(raw), &transcript); err == nil {
		for i := len(transcript) - 1; i >= 0; i-- {
			if transcript[i].Role == "assistant" {
				return strings.TrimSpace(transcript[i].Content)
			}
		}
	}

	return strings.TrimSpace(raw)
}
