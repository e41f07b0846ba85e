package oracle

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/agentmarket/internal/agent"
)

func TestFallbackFollowsOutlook(t *testing.T) {
	fb := NewFallback(100)
	ctx := context.Background()

	cases := []struct {
		outlook agent.Outlook
		action  agent.Action
	}{
		{agent.OutlookBullish, agent.ActionBuy},
		{agent.OutlookBearish, agent.ActionSell},
		{agent.OutlookNeutral, agent.ActionHold},
	}
	for _, tc := range cases {
		dec, err := fb.Decide(ctx, Request{
			AgentType: agent.TypeCalm,
			Belief:    agent.BeliefState{Outlook: tc.outlook, Confidence: 0.5},
		})
		require.NoError(t, err)
		require.Equal(t, tc.action, dec.Action)
		require.GreaterOrEqual(t, dec.Size, 0.0)
		require.NotEmpty(t, dec.Rationale)
	}
}

func TestFallbackSizeScalesWithConfidence(t *testing.T) {
	fb := NewFallback(100)
	ctx := context.Background()

	low, err := fb.Decide(ctx, Request{
		AgentType: agent.TypeOptimistic,
		Belief:    agent.BeliefState{Outlook: agent.OutlookBullish, Confidence: 0.2},
	})
	require.NoError(t, err)

	high, err := fb.Decide(ctx, Request{
		AgentType: agent.TypeOptimistic,
		Belief:    agent.BeliefState{Outlook: agent.OutlookBullish, Confidence: 0.9},
	})
	require.NoError(t, err)
	require.Greater(t, high.Size, low.Size)
}

func TestFallbackIsDeterministic(t *testing.T) {
	fb := NewFallback(100)
	ctx := context.Background()
	req := Request{
		AgentType: agent.TypePessimistic,
		Belief:    agent.BeliefState{Outlook: agent.OutlookBearish, Confidence: 0.7},
	}

	a, _ := fb.Decide(ctx, req)
	b, _ := fb.Decide(ctx, req)
	require.Equal(t, a, b)
}

func TestDecisionValidate(t *testing.T) {
	require.NoError(t, Decision{Action: agent.ActionBuy, Size: 1}.Validate())
	require.NoError(t, Decision{Action: agent.ActionHold}.Validate())

	require.ErrorIs(t, Decision{Action: agent.ActionBuy, Size: -1}.Validate(), ErrMalformed)
	require.ErrorIs(t, Decision{Action: agent.ActionSell, Size: math.NaN()}.Validate(), ErrMalformed)
	require.ErrorIs(t, Decision{Action: agent.Action(42), Size: 1}.Validate(), ErrMalformed)
}

func TestParseDecision(t *testing.T) {
	dec, err := parseDecision(`{"action": "buy", "size": 12.5, "rationale": "looks cheap"}`)
	require.NoError(t, err)
	require.Equal(t, agent.ActionBuy, dec.Action)
	require.Equal(t, 12.5, dec.Size)

	// Prose around the JSON is tolerated.
	dec, err = parseDecision("Sure, here you go: {\"action\": \"SELL\", \"size\": 3} done")
	require.NoError(t, err)
	require.Equal(t, agent.ActionSell, dec.Action)

	_, err = parseDecision("no json here")
	require.ErrorIs(t, err, ErrMalformed)

	_, err = parseDecision(`{"action": "yolo", "size": 1}`)
	require.ErrorIs(t, err, ErrMalformed)

	_, err = parseDecision(`{"action": "buy", "size": -5}`)
	require.ErrorIs(t, err, ErrMalformed)
}

func chatReply(content string) string {
	return fmt.Sprintf(`{"choices":[{"message":{"content":%q}}]}`, content)
}

func TestClientDecide(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		fmt.Fprint(w, chatReply(`{"action": "buy", "size": 10, "rationale": "momentum"}`))
	}))
	defer srv.Close()

	cfg := DefaultClientConfig()
	cfg.Endpoint = srv.URL
	c := NewClient(cfg, zerolog.Nop())

	dec, err := c.Decide(context.Background(), Request{AgentType: agent.TypeCalm})
	require.NoError(t, err)
	require.Equal(t, agent.ActionBuy, dec.Action)
	require.Equal(t, 10.0, dec.Size)
	require.Equal(t, "momentum", dec.Rationale)
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := DefaultClientConfig()
	cfg.Endpoint = srv.URL
	c := NewClient(cfg, zerolog.Nop())

	_, err := c.Decide(context.Background(), Request{})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestClientMalformedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatReply("I refuse to answer in JSON"))
	}))
	defer srv.Close()

	cfg := DefaultClientConfig()
	cfg.Endpoint = srv.URL
	c := NewClient(cfg, zerolog.Nop())

	_, err := c.Decide(context.Background(), Request{})
	require.ErrorIs(t, err, ErrMalformed)
}

func TestClientNoEndpoint(t *testing.T) {
	c := NewClient(DefaultClientConfig(), zerolog.Nop())
	_, err := c.Decide(context.Background(), Request{})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, chatReply(`{"action": "hold", "size": 0}`))
	}))
	defer srv.Close()

	cfg := DefaultClientConfig()
	cfg.Endpoint = srv.URL
	c := NewClient(cfg, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Decide(ctx, Request{})
	require.Error(t, err)
}
