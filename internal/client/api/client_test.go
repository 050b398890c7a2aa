package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemlight/internal/client/session"
	"gemlight/internal/http/handlers"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, session.NewProvider(session.NewMemoryStorage()))
}

func TestStatusErrorFormat(t *testing.T) {
	err := &StatusError{Status: 401, Body: `{"error":"authentication required"}`}
	assert.Equal(t, `401: {"error":"authentication required"}`, err.Error())
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsNotFound(err))
}

func TestNon2xxBecomesStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"product not found"}`))
	})

	_, err := c.GetProduct(context.Background(), "nope", FailOnMissing)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, `404: {"error":"product not found"}`, err.Error())
}

func TestNilOnMissingSwallows404(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	p, err := c.GetProduct(context.Background(), "nope", NilOnMissing)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSessionHeaderAttached(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(handlers.HeaderSessionID)
		w.Write([]byte(`[]`))
	})

	_, err := c.FetchProducts(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, got)

	// Same session across calls.
	first := got
	_, _ = c.FetchProducts(context.Background())
	assert.Equal(t, first, got)
}

func TestBearerTokenAttachedAfterLogin(t *testing.T) {
	var authz string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(map[string]any{
				"token": "tok-123",
				"user":  map[string]string{"id": "u1", "email": "maya@gemlight.test", "role": "CUSTOMER"},
			})
		default:
			authz = r.Header.Get("Authorization")
			w.Write([]byte(`[]`))
		}
	})

	u, err := c.Login(context.Background(), "maya@gemlight.test", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.True(t, c.HasToken())

	_, err = c.FetchProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", authz)
}

func TestMeWithoutTokenIsNilNotError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"authentication required"}`))
	})

	u, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestAddToCartSendsCamelCaseBody(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"line-1"}`))
	})

	id, err := c.AddToCart(context.Background(), "ring-solitaire-001", "size-7", 2)
	require.NoError(t, err)
	assert.Equal(t, "line-1", id)
	assert.Equal(t, "ring-solitaire-001", body["productId"])
	assert.Equal(t, "size-7", body["variantId"])
	assert.Equal(t, float64(2), body["quantity"])
}

func TestProductQueryEncoding(t *testing.T) {
	q := ProductQuery{Search: "pearl", Metal: "GOLD", MinPrice: 99.5, Limit: 10}
	enc := q.encode()
	assert.Contains(t, enc, "search=pearl")
	assert.Contains(t, enc, "metal=GOLD")
	assert.Contains(t, enc, "minPrice=99.5")
	assert.Contains(t, enc, "limit=10")

	assert.Equal(t, "", ProductQuery{}.encode())
}
