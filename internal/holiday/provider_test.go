package holiday

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProvider(url string, retries int) *Provider {
	p := NewProvider(url, retries, zap.NewNop())
	p.delay = time.Millisecond
	return p
}

func TestProvider_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("parses holiday dates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/2025", r.URL.Path)
			fmt.Fprint(w, `[
				{"date": "2025-01-01", "name": "Confraternização mundial", "type": "national"},
				{"date": "2025-04-21", "name": "Tiradentes", "type": "national"}
			]`)
		}))
		defer srv.Close()

		dates, err := newTestProvider(srv.URL, 3).Fetch(ctx, 2025)
		require.NoError(t, err)
		require.Len(t, dates, 2)
		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), dates[0])
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, `[{"date": "2025-01-01", "name": "New Year", "type": "national"}]`)
		}))
		defer srv.Close()

		dates, err := newTestProvider(srv.URL, 3).Fetch(ctx, 2025)
		require.NoError(t, err)
		assert.Len(t, dates, 1)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after bounded retries", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := newTestProvider(srv.URL, 3).Fetch(ctx, 2025)
		assert.ErrorIs(t, err, ErrFetch)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("malformed payload fails without retry", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			fmt.Fprint(w, `{"not": "a list"}`)
		}))
		defer srv.Close()

		_, err := newTestProvider(srv.URL, 3).Fetch(ctx, 2025)
		assert.ErrorIs(t, err, ErrFetch)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("malformed date fails without retry", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"date": "01/01/2025", "name": "New Year", "type": "national"}]`)
		}))
		defer srv.Close()

		_, err := newTestProvider(srv.URL, 3).Fetch(ctx, 2025)
		assert.ErrorIs(t, err, ErrFetch)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := newTestProvider(srv.URL, 2).Fetch(ctx, 2025)
		assert.ErrorIs(t, err, ErrFetch)
	})

	t.Run("client error is not retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := newTestProvider(srv.URL, 3).Fetch(ctx, 2025)
		assert.ErrorIs(t, err, ErrFetch)
		assert.Equal(t, int32(1), calls.Load())
	})
}
