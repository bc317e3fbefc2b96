// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ndu-tui/internal/agent"
)

func postChat(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, agent.ChatPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"message":"Who are the main speakers?","user_id":"u1","session_id":"s1"}`

// =============================================================================
// CHAT ENDPOINT
// =============================================================================

func TestHandleChat_Success(t *testing.T) {
	srv := NewServer("")
	rec := postChat(t, srv.Handler(), validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Response-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	var resp struct {
		Data struct {
			Response string `json:"response"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Data.Response, "main speakers")

	stats := srv.Stats()
	assert.Equal(t, int64(1), stats.TotalRequests)
	assert.Equal(t, 1, stats.Sessions)
	assert.Equal(t, 1, stats.Users)
}

func TestHandleChat_Validation(t *testing.T) {
	h := NewServer("").Handler()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed JSON", `{"message":`, http.StatusBadRequest},
		{"blank message", `{"message":"  ","user_id":"u","session_id":"s"}`, http.StatusUnprocessableEntity},
		{"missing ids", `{"message":"hi"}`, http.StatusUnprocessableEntity},
		{"oversized body", `{"message":"` + strings.Repeat("a", maxBodySize) + `","user_id":"u","session_id":"s"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postChat(t, h, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandleChat_FailModes(t *testing.T) {
	tests := []struct {
		mode FailMode
		want error
	}{
		{FailStatus, nil},
		{FailMissing, agent.ErrMissingResponse},
		{FailMalformed, nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			srv := NewServer("").WithFailMode(tt.mode)
			ts := httptest.NewServer(srv.Handler())
			defer ts.Close()

			_, err := agent.NewClient(ts.URL).Chat(context.Background(), agent.ChatRequest{
				Message: "hi", UserID: "u", SessionID: "s",
			})
			require.Error(t, err)
			if tt.want != nil {
				assert.True(t, errors.Is(err, tt.want), "got %v", err)
			}
			if tt.mode == FailStatus {
				var se *agent.StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusInternalServerError, se.Status)
			}
			assert.Equal(t, int64(1), srv.Stats().Failures)
		})
	}
}

func TestHandleChat_RoundTripWithClient(t *testing.T) {
	srv := NewServer("")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := agent.NewClient(ts.URL)
	reply, err := client.Chat(context.Background(), agent.ChatRequest{
		Message: "How do I get to the venue?", UserID: "u", SessionID: "s",
	})
	require.NoError(t, err)
	assert.Contains(t, reply, "Lagos")
}

func TestHandleChat_DelayRespectsCancel(t *testing.T) {
	srv := NewServer("").WithDelay(time.Hour)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := agent.NewClient(ts.URL).Chat(ctx, agent.ChatRequest{
		Message: "hi", UserID: "u", SessionID: "s",
	})
	assert.Error(t, err)
}

// =============================================================================
// OTHER ENDPOINTS
// =============================================================================

func TestHealth(t *testing.T) {
	srv := NewServer("")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)

	srv.WithFailMode(FailStatus)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "degraded", health.Status)
}

func TestStatsEndpoint(t *testing.T) {
	srv := NewServer("")
	h := srv.Handler()
	postChat(t, h, validBody)
	postChat(t, h, validBody)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	var stats Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.TotalRequests)
	assert.Equal(t, 1, stats.Sessions)
}

func TestCORSPreflight(t *testing.T) {
	h := NewServer("").Handler()
	req := httptest.NewRequest(http.MethodOptions, agent.ChatPath, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovererCatchesPanics(t *testing.T) {
	srv := NewServer("").WithResponder(ResponderFunc(func(agent.ChatRequest, int) string {
		panic("boom")
	}))
	rec := postChat(t, srv.Handler(), validBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// =============================================================================
// RESPONDER AND FAIL MODE
// =============================================================================

func TestCannedResponder(t *testing.T) {
	c := NewCannedResponder()

	assert.Contains(t, c.Reply(agent.ChatRequest{Message: "What is the conference schedule?"}, 1), "two days")
	assert.True(t, strings.HasPrefix(c.Reply(agent.ChatRequest{Message: "hey"}, 1), "Hello!"))
	assert.Contains(t, c.Reply(agent.ChatRequest{Message: "hey"}, 2), `You said: "hey"`)
}

func TestParseFailMode(t *testing.T) {
	for _, s := range []string{"", "status", " Missing ", "malformed"} {
		_, err := ParseFailMode(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFailMode("sometimes")
	assert.Error(t, err)
}

func TestShutdownWithoutStart(t *testing.T) {
	assert.NoError(t, NewServer("").Shutdown(context.Background()))
}
