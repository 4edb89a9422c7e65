package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyNoURL(t *testing.T) {
	res := New("", nil).Notify(context.Background(), "hi")
	assert.False(t, res.Sent)
	assert.Equal(t, "no webhook url set", res.Reason)

	var n *Notifier
	assert.False(t, n.Notify(context.Background(), "hi").Sent)
}

func TestNotifyPostsContent(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	res := New(srv.URL, nil).Notify(context.Background(), "User a: rescored; unlock=None")
	assert.True(t, res.Sent)
	assert.Equal(t, http.StatusNoContent, res.Status)
	assert.Equal(t, "User a: rescored; unlock=None", got["content"])
}

func TestNotifyRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	res := New(srv.URL, nil).Notify(context.Background(), "x")
	assert.False(t, res.Sent)
	assert.Equal(t, http.StatusBadRequest, res.Status)
}

func TestNotifyUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := New(url, nil).Notify(context.Background(), "x")
	assert.False(t, res.Sent)
	assert.NotEmpty(t, res.Reason)
}
