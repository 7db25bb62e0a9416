package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formsend/client-go/internal/apierrors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL: server.URL + "/v3/",
		APIKey:  "test-key",
	})
	require.NoError(t, err)

	return client, server
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "https://example.com/"})
	assert.ErrorIs(t, err, apierrors.ErrMissingAPIKey)
}

func TestNewClient_DefaultValues(t *testing.T) {
	client, err := NewClient(Config{APIKey: "test-key"})
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Equal(t, DefaultTimeout, client.Timeout())
	assert.Equal(t, 60*time.Second, client.Timeout())
	assert.Nil(t, client.metrics)
}

func TestNewClient_AddsTrailingSlash(t *testing.T) {
	client, err := NewClient(Config{APIKey: "k", BaseURL: "https://example.com/v3"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v3/", client.BaseURL())
}

func TestNewClient_CustomValues(t *testing.T) {
	httpClient := &http.Client{}

	client, err := NewClient(Config{
		APIKey:     "k",
		BaseURL:    "https://custom.example.com/",
		Timeout:    5 * time.Second,
		HTTPClient: httpClient,
	})
	require.NoError(t, err)

	assert.Same(t, httpClient, client.resty.GetClient())
	assert.Equal(t, 5*time.Second, client.Timeout())
}

func TestClient_Do_Headers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"ok":true}`))
	})

	resp, err := client.Do(context.Background(), Request{Action: "ping"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestClient_Do_UserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "forms/2.0", r.Header.Get("User-Agent"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "k", BaseURL: server.URL, UserAgent: "forms/2.0"})
	require.NoError(t, err)

	_, err = client.Do(context.Background(), Request{Action: "ping"})
	require.NoError(t, err)
}

func TestClient_Do_GetWithQuery(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v3/stats", r.URL.Path)
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, []string{"a", "b"}, r.URL.Query()["categories"])
		w.Write([]byte(`[]`))
	})

	_, err := client.Do(context.Background(), Request{
		Action: "stats",
		Options: map[string]any{
			"start_date": "2024-01-01",
			"categories": []string{"a", "b"},
			"skipped":    nil,
		},
	})
	require.NoError(t, err)
}

func TestClient_Do_EmptyGetOptionsKeepsQuestionMark(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/scopes?", r.RequestURI)
		w.Write([]byte(`{}`))
	})

	_, err := client.Do(context.Background(), Request{
		Action:  "scopes",
		Options: map[string]any{},
		Method:  http.MethodGet,
	})
	require.NoError(t, err)
}

func TestClient_Do_PostJSONBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.URL.RawQuery)
		assert.False(t, strings.HasSuffix(r.RequestURI, "?"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"from":{"email":"a@example.com"}}`, string(body))

		w.WriteHeader(http.StatusAccepted)
	})

	resp, err := client.Do(context.Background(), Request{
		Action:  "mail/send",
		Options: map[string]any{"from": map[string]string{"email": "a@example.com"}},
		Method:  http.MethodPost,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "null", string(resp.Body))
}

func TestClient_Do_PostNilOptionsSendsEmptyObject(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{}`, string(body))
		w.Write([]byte(`{}`))
	})

	_, err := client.Do(context.Background(), Request{Action: "x", Method: http.MethodDelete})
	require.NoError(t, err)
}

func TestClient_Do_ReturnKey(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"scopes":["mail.send","stats.read"],"other":1}`))
	})

	resp, err := client.Do(context.Background(), Request{Action: "scopes", ReturnKey: "scopes"})
	require.NoError(t, err)
	assert.JSONEq(t, `["mail.send","stats.read"]`, string(resp.Body))
}

func TestClient_Do_ReturnKeyMissing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"other":1}`))
	})

	resp, err := client.Do(context.Background(), Request{Action: "scopes", ReturnKey: "scopes"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"other":1}`, string(resp.Body))
}

func TestClient_Do_ProviderErrorIgnoresStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	})

	_, err := client.Do(context.Background(), Request{Action: "stats"})
	require.Error(t, err)
	assert.Equal(t, "bad key", err.Error())

	var provErr *apierrors.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, http.StatusOK, provErr.StatusCode)
}

func TestClient_Do_ErrorsList(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"field":"to","message":"invalid"},{"field":"from","message":"invalid"}]}`))
	})

	_, err := client.Do(context.Background(), Request{Action: "mail/send", Method: http.MethodPost})
	require.Error(t, err)
	assert.Equal(t, "to;invalid;from;invalid", err.Error())
	assert.ErrorIs(t, err, apierrors.ErrProvider)
}

func TestClient_Do_Unauthorized(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"field":null,"message":"authorization required"}]}`))
	})

	_, err := client.Do(context.Background(), Request{Action: "scopes"})
	assert.ErrorIs(t, err, apierrors.ErrUnauthorized)
	assert.Equal(t, ";authorization required", err.Error())
}

func TestClient_Do_MalformedJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := client.Do(context.Background(), Request{Action: "stats"})
	require.Error(t, err)

	var decErr *apierrors.DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, http.StatusBadGateway, decErr.StatusCode)
	assert.Equal(t, "<html>bad gateway</html>", decErr.Body)
}

func TestClient_Do_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client, err := NewClient(Config{APIKey: "k", BaseURL: baseURL})
	require.NoError(t, err)

	_, err = client.Do(context.Background(), Request{Action: "stats"})
	require.Error(t, err)

	var trErr *apierrors.TransportError
	require.True(t, errors.As(err, &trErr))
	assert.Equal(t, baseURL+"/stats?", trErr.URL)
	assert.True(t, strings.HasPrefix(err.Error(), "Request failed. "))
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Do(ctx, Request{Action: "stats"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, apierrors.ErrTransport)
}

func TestClient_Do_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "k", BaseURL: server.URL, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.Do(context.Background(), Request{Action: "stats"})
	assert.ErrorIs(t, err, apierrors.ErrTransport)
}

func TestClient_Do_NoRetry(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"errors":[{"message":"unavailable"}]}`))
	})

	_, err := client.Do(context.Background(), Request{Action: "stats"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Do_UnsupportedQueryOptions(t *testing.T) {
	client, err := NewClient(Config{APIKey: "k"})
	require.NoError(t, err)

	_, err = client.Do(context.Background(), Request{Action: "stats", Options: 42})
	assert.Error(t, err)
}
