package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/chitledger/internal/adapter/collaborator/httpjson"
	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase/mocks"
)

func newServer(t *testing.T, status int, body string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/users/user-1/kyc", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientIsVerified(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    bool
		wantErr error
	}{
		{name: "verified", status: http.StatusOK, body: `{"user_id":"user-1","verified":true}`, want: true},
		{name: "not verified", status: http.StatusOK, body: `{"user_id":"user-1","verified":false}`},
		{name: "missing flag", status: http.StatusOK, body: `{"user_id":"user-1"}`, wantErr: domain.ErrMalformedResponse},
		{name: "other user", status: http.StatusOK, body: `{"user_id":"user-2","verified":true}`, wantErr: domain.ErrMalformedResponse},
		{name: "not json", status: http.StatusOK, body: `ok`, wantErr: domain.ErrMalformedResponse},
		{name: "server error", status: http.StatusBadGateway, body: ``, wantErr: httpjson.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := newServer(t, tt.status, tt.body, &calls)
			c := NewClient(Config{BaseURL: srv.URL, Token: "secret", Timeout: time.Second}, nil, zerolog.Nop())

			got, err := c.IsVerified(context.Background(), "user-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientCachesPositiveOnly(t *testing.T) {
	ctx := context.Background()
	cache := mocks.NewMockCache()

	var calls int32
	srv := newServer(t, http.StatusOK, `{"user_id":"user-1","verified":true}`, &calls)
	c := NewClient(Config{BaseURL: srv.URL, Token: "secret", Timeout: time.Second}, cache, zerolog.Nop())

	for i := 0; i < 3; i++ {
		ok, err := c.IsVerified(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	var negCalls int32
	negSrv := newServer(t, http.StatusOK, `{"user_id":"user-1","verified":false}`, &negCalls)
	neg := NewClient(Config{BaseURL: negSrv.URL, Token: "secret", Timeout: time.Second}, mocks.NewMockCache(), zerolog.Nop())

	for i := 0; i < 2; i++ {
		ok, err := neg.IsVerified(ctx, "user-1")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&negCalls))
}
