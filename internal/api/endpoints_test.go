package api

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetStats(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v3/stats", r.URL.Path)
		assert.Equal(t, "start_date=2024-02-29", r.URL.RawQuery)
		w.Write([]byte(`[{"date":"2024-02-29","stats":[]}]`))
	})

	body, err := client.GetStats(context.Background(), time.Date(2024, 2, 29, 15, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"date":"2024-02-29","stats":[]}]`, string(body))
}

func TestClient_GetScopes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/scopes?", r.RequestURI)
		w.Write([]byte(`{"scopes":["mail.send","stats.read"]}`))
	})

	body, err := client.GetScopes(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `["mail.send","stats.read"]`, string(body))
}

func TestClient_GetScopes_Error(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":[{"field":null,"message":"access forbidden"}]}`))
	})

	body, err := client.GetScopes(context.Background())
	assert.Nil(t, body)
	assert.EqualError(t, err, ";access forbidden")
}

func TestClient_SendMail(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/mail/send", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"subject":"hi"}`, string(body))

		w.Header().Set("X-Message-Id", "msg-1")
		w.WriteHeader(http.StatusAccepted)
	})

	resp, err := client.SendMail(context.Background(), map[string]string{"subject": "hi"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "msg-1", resp.Header.Get("X-Message-Id"))
}
