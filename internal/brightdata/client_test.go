package brightdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSONSendsAuthAndDecodes(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"snapshot_id":"s_123"}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	var out struct {
		SnapshotID string `json:"snapshot_id"`
	}
	err := c.PostJSON(context.Background(), "trigger job", "/datasets/v3/trigger",
		url.Values{"format": {"json"}}, map[string]string{"prompt": "q"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "/datasets/v3/trigger", gotPath)
	assert.Equal(t, "format=json", gotQuery)
	assert.Equal(t, "s_123", out.SnapshotID)
}

func TestNon2xxStatusIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "zone not found", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	err := c.GetJSON(context.Background(), "poll job", "/datasets/v3/progress/s_1", &struct{}{})
	require.Error(t, err)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusForbidden, terr.Status)
	assert.Equal(t, "poll job", terr.Op)
	assert.Contains(t, terr.Error(), "zone not found")
}

func TestUndecodableBodyIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	err := c.GetJSON(context.Background(), "fetch job", "/datasets/v3/snapshot/s_1", &struct{}{})
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, terr.Error(), "failed to decode response")
}

func TestNetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient("test-key", WithBaseURL(srv.URL))

	err := c.PostJSON(context.Background(), "submit search", "/request", nil, map[string]string{}, nil)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Zero(t, terr.Status)
}
