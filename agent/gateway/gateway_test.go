package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	contractx "github.com/zulls123/greencare/agent/contract"
	arkx "github.com/zulls123/greencare/pkg/ark"
)

func defaultConfig() Config {
	return Config{
		Health:    "health-companion-agent",
		Financial: "financial-coach-agent",
		Legal:     "legal-compliance-agent",
		Critic:    "language-critic-agent",
	}
}

func newTestGateway(t *testing.T, server *httptest.Server) *ArkGateway {
	t.Helper()

	client, err := arkx.NewClient(arkx.Config{
		BaseURL:             server.URL,
		Namespace:           "default",
		QueryTimeout:        time.Minute,
		QueryTTL:            time.Hour,
		SubmitTimeout:       2 * time.Second,
		PollTimeout:         2 * time.Second,
		PollAttempts:        3,
		PollWarmupAttempts:  1,
		PollInitialInterval: time.Millisecond,
		PollSteadyInterval:  time.Millisecond,
		OverallTimeout:      5 * time.Second,
	}, arkx.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return New(client, defaultConfig())
}

func TestSubmitAndAwaitRoutesToConfiguredTarget(t *testing.T) {
	t.Parallel()

	var gotTarget atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var req struct {
				Targets []struct {
					Name string `json:"name"`
				} `json:"targets"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err == nil && len(req.Targets) == 1 {
				gotTarget.Store(req.Targets[0].Name)
			}
			w.WriteHeader(http.StatusCreated)
			return
		}
		var status struct {
			Status struct {
				Phase     string `json:"phase"`
				Responses []struct {
					Content string `json:"content"`
				} `json:"responses"`
			} `json:"status"`
		}
		status.Status.Phase = "done"
		status.Status.Responses = append(status.Status.Responses, struct {
			Content string `json:"content"`
		}{Content: "specialist reply"})
		json.NewEncoder(w).Encode(status)
	}))
	t.Cleanup(server.Close)

	gw := newTestGateway(t, server)
	res := gw.SubmitAndAwait(context.Background(), contractx.AgentTypeFinancial, []contractx.Turn{{Role: "user", Content: "prompt"}}, "s")

	if res.Kind != contractx.ResultText || res.Text != "specialist reply" {
		t.Fatalf("got %+v, want text result", res)
	}
	if got := gotTarget.Load(); got != "financial-coach-agent" {
		t.Fatalf("routed to %v, want financial-coach-agent", got)
	}
}

func TestSubmitAndAwaitUnknownAgentIsRejectedWithoutDispatch(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	t.Cleanup(server.Close)

	gw := newTestGateway(t, server)
	res := gw.SubmitAndAwait(context.Background(), contractx.AgentType("mystery"), nil, "s")

	if res.Kind != contractx.ResultFailed || res.Failure != contractx.FailureGatewayRejected {
		t.Fatalf("got %+v, want gateway rejection", res)
	}
	if requests.Load() != 0 {
		t.Fatalf("gateway dispatched %d requests for an unknown agent, want 0", requests.Load())
	}
}

func TestSubmitAndAwaitMapsTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			return
		}
		var status struct {
			Status struct {
				Phase string `json:"phase"`
			} `json:"status"`
		}
		status.Status.Phase = "running"
		json.NewEncoder(w).Encode(status)
	}))
	t.Cleanup(server.Close)

	gw := newTestGateway(t, server)
	res := gw.SubmitAndAwait(context.Background(), contractx.AgentTypeHealth, nil, "s")

	if res.Kind != contractx.ResultTimedOut {
		t.Fatalf("got %+v, want timed out", res)
	}
}
