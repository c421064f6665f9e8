package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	c := NewHTTPClient(7 * time.Second)
	assert.Equal(t, 7*time.Second, c.Timeout)

	ua, ok := c.Transport.(*userAgentTransport)
	require.True(t, ok)
	tr, ok := ua.next.(*nethttp.Transport)
	require.True(t, ok)
	assert.Equal(t, 8, tr.MaxIdleConnsPerHost)
	assert.NotNil(t, tr.Proxy)
}

func TestNewHTTPClient_UserAgent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"default user agent", "", UserAgent},
		{"caller user agent is kept", "custom/2.0", "custom/2.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := make(chan string, 1)
			srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
				got <- r.Header.Get("User-Agent")
			}))
			defer srv.Close()

			req, err := nethttp.NewRequest(nethttp.MethodGet, srv.URL, nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("User-Agent", tt.header)
			}

			resp, err := NewHTTPClient(time.Second).Do(req)
			require.NoError(t, err)
			require.NoError(t, resp.Body.Close())
			assert.Equal(t, tt.want, <-got)
		})
	}
}
