package entropy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientWithoutKey(t *testing.T) {
	c := NewClient("")
	assert.Nil(t, c)
	assert.False(t, c.Enabled())
}

func TestSeedFallsBackToCrypto(t *testing.T) {
	seed, source := Seed(context.Background(), nil)
	assert.Equal(t, "crypto/rand", source)
	assert.Positive(t, seed)
}

func TestSeedFromRandomOrg(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "generateIntegers", req["method"])
		w.Write([]byte(`{"jsonrpc":"2.0","result":{"random":{"data":[3,5]}},"id":1}`))
	}))
	defer srv.Close()

	c := NewClient("key")
	c.endpoint = srv.URL

	seed, source := Seed(context.Background(), c)
	assert.Equal(t, "random.org", source)
	assert.Equal(t, int64(3<<30|5), seed)
}

func TestSeedRandomOrgError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","error":{"message":"quota"},"id":1}`))
	}))
	defer srv.Close()

	c := NewClient("key")
	c.endpoint = srv.URL

	seed, source := Seed(context.Background(), c)
	assert.Equal(t, "crypto/rand", source)
	assert.Positive(t, seed)
}
