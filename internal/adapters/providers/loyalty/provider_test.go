package loyalty_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/turnero/internal/adapters/providers/loyalty"
)

func TestMockLoyaltyProvider_Credit(t *testing.T) {
	t.Run("accumulates points per account", func(t *testing.T) {
		provider := loyalty.NewMockLoyaltyProvider()

		assert.NoError(t, provider.Credit(context.Background(), "acct-1", 10, "res-1"))
		assert.NoError(t, provider.Credit(context.Background(), "acct-1", 5, "res-2"))
		assert.NoError(t, provider.Credit(context.Background(), "acct-2", 3, "res-3"))

		assert.Equal(t, 15, provider.Balance("acct-1"))
		assert.Equal(t, 3, provider.Balance("acct-2"))
		assert.Equal(t, 0, provider.Balance("acct-unknown"))
	})
}

func TestHTTPLoyaltyProvider_Credit(t *testing.T) {
	t.Run("posts the credit with auth and idempotency headers", func(t *testing.T) {
		var mu sync.Mutex
		var gotPath, gotAuth, gotIdempotencyKey string
		var gotBody map[string]interface{}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			defer mu.Unlock()
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			gotIdempotencyKey = r.Header.Get("Idempotency-Key")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		provider := loyalty.NewHTTPLoyaltyProviderWithClient(server.URL, "secret-key", server.Client())

		err := provider.Credit(context.Background(), "acct-9", 10, "res-42")
		assert.NoError(t, err)

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "/v1/credits", gotPath)
		assert.Equal(t, "Bearer secret-key", gotAuth)
		assert.Equal(t, "res-42", gotIdempotencyKey)
		assert.Equal(t, "acct-9", gotBody["account_id"])
		assert.Equal(t, float64(10), gotBody["points"])
		assert.Equal(t, "res-42", gotBody["reservation_id"])
	})

	t.Run("retries a transient failure", func(t *testing.T) {
		var mu sync.Mutex
		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			attempts++
			failing := attempts == 1
			mu.Unlock()
			if failing {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		provider := loyalty.NewHTTPLoyaltyProviderWithClient(server.URL, "secret-key", server.Client())

		err := provider.Credit(context.Background(), "acct-9", 10, "res-42")
		assert.NoError(t, err)

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 2, attempts)
	})
}
