package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostJSON_SetsHeaders(t *testing.T) {
	var got http.Header
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(0).WithBearerToken("secret")
	resp, err := client.PostJSON(context.Background(), server.URL, map[string]interface{}{"prompt": "hi"})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "Bearer secret", got.Get("Authorization"))
	_, err = uuid.Parse(got.Get(RequestIDHeader))
	assert.NoError(t, err)
	assert.Equal(t, "hi", body["prompt"])
}

func TestClient_Do_KeepsCallerRequestID(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(RequestIDHeader)
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "fixed-id")

	resp, err := NewClient(0).Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "fixed-id", got)
}

func TestClient_NoBearerWhenTokenEmpty(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	resp, err := NewClient(0).WithBearerToken("").PostJSON(context.Background(), server.URL, struct{}{})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, auth)
}
