package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-authgate/apigate/internal/client"
	"github.com/go-authgate/apigate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestDirectory creates an http_api directory with retries disabled
func createTestDirectory(t *testing.T, url string, opts ...func(*client.Options)) *HTTPAPIDirectory {
	t.Helper()
	o := client.Options{
		Timeout:    10 * time.Second,
		MaxRetries: 0, // Disable retries for predictable test behavior
	}
	for _, opt := range opts {
		opt(&o)
	}
	retryClient, err := client.CreateRetryClient(o)
	require.NoError(t, err)
	return NewHTTPAPIDirectory(url, retryClient)
}

func TestHTTPAPIDirectory_FindByUsername_Found(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lookup", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req APILookupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(APILookupResponse{
			Found: true,
			User: &APIUser{
				ID:       "ext-42",
				Username: "alice",
				Email:    "alice@example.com",
				FullName: "Alice",
			},
		})
	}))
	defer server.Close()

	dir := createTestDirectory(t, server.URL+"/")
	user, err := dir.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ext-42", user.ID)
	assert.Equal(t, "ext-42", user.ExternalID)
	assert.Equal(t, models.AuthSourceHTTPAPI, user.AuthSource)
	assert.True(t, user.IsExternal())
}

func TestHTTPAPIDirectory_FindByUsername_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "404",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "found false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(APILookupResponse{Found: false})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			user, err := createTestDirectory(t, server.URL).FindByUsername(context.Background(), "ghost")
			require.NoError(t, err)
			assert.Nil(t, user)
		})
	}
}

func TestHTTPAPIDirectory_FindByUsername_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("database exploded"))
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
		},
		{
			name: "found without user",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(APILookupResponse{Found: true})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			user, err := createTestDirectory(t, server.URL).FindByUsername(context.Background(), "alice")
			assert.ErrorIs(t, err, ErrHTTPAPIInvalidResp)
			assert.Nil(t, user)
		})
	}
}

func TestHTTPAPIDirectory_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := createTestDirectory(t, url).FindByUsername(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrHTTPAPIConnection)
}

func TestHTTPAPIDirectory_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := createTestDirectory(t, server.URL).FindByUsername(ctx, "alice")
	assert.ErrorIs(t, err, ErrHTTPAPIConnection)
}

func TestHTTPAPIDirectory_CompareCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verify", r.URL.Path)

		var req APIVerifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		switch req.Password {
		case "s3cret":
			_ = json.NewEncoder(w).Encode(APIVerifyResponse{Success: true})
		case "locked":
			w.WriteHeader(http.StatusUnauthorized)
		case "boom":
			w.WriteHeader(http.StatusBadGateway)
		default:
			_ = json.NewEncoder(w).Encode(APIVerifyResponse{Success: false, Message: "bad password"})
		}
	}))
	defer server.Close()

	dir := createTestDirectory(t, server.URL)
	alice := &models.User{ID: "ext-42", Username: "alice"}
	ctx := context.Background()

	ok, err := dir.CompareCredential(ctx, alice, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = dir.CompareCredential(ctx, alice, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = dir.CompareCredential(ctx, alice, "locked")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = dir.CompareCredential(ctx, alice, "boom")
	assert.ErrorIs(t, err, ErrHTTPAPIInvalidResp)
}

func TestHTTPAPIDirectory_SimpleAuthHeader(t *testing.T) {
	const secret = "directory-shared-secret" //nolint:gosec // Test secret, not production

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Directory-Secret") != secret {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(APILookupResponse{
			Found: true,
			User:  &APIUser{ID: "ext-1", Username: "alice"},
		})
	}))
	defer server.Close()

	dir := createTestDirectory(t, server.URL, func(o *client.Options) {
		o.AuthMode = "simple"
		o.AuthSecret = secret
		o.AuthHeader = "X-Directory-Secret"
	})

	user, err := dir.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ext-1", user.ID)
}

func TestHTTPAPIDirectory_HMACHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("X-Signature"), "X-Signature header should be present")
		assert.NotEmpty(t, r.Header.Get("X-Timestamp"), "X-Timestamp header should be present")
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dir := createTestDirectory(t, server.URL, func(o *client.Options) {
		o.AuthMode = "hmac"
		o.AuthSecret = "hmac-secret-key-789"
	})

	user, err := dir.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Nil(t, user)
}
