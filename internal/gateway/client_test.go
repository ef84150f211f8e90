package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *CredentialStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	creds := NewCredentialStore("test-token")
	c := NewClient(srv.URL, creds, nil)
	t.Cleanup(c.http.CloseIdleConnections)
	return c, creds
}

func TestEnvelopeUnwrap(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"enveloped", `{"status":"success","message":"ok","data":{"id":7,"file_name":"a.pdf"}}`},
		{"bare", `{"id":7,"file_name":"a.pdf"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})

			var out struct {
				ID       int64  `json:"id"`
				FileName string `json:"file_name"`
			}
			_, err := c.Get(context.Background(), "/documents/", &out)
			require.NoError(t, err)
			assert.Equal(t, int64(7), out.ID)
			assert.Equal(t, "a.pdf", out.FileName)
		})
	}
}

func TestBareListUnwrap(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"role":"user"},{"role":"bot"}]`))
	})

	var out []map[string]string
	_, err := c.Get(context.Background(), "/chat/5/messages", &out)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestBearerAndRequestIDAttached(t *testing.T) {
	var gotAuth, gotReqID string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	_, err := c.Get(context.Background(), "/auth/user", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.NotEmpty(t, gotReqID)
}

func TestNoBearerWhenUnauthenticated(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, NewCredentialStore(""), nil)
	t.Cleanup(c.http.CloseIdleConnections)

	_, err := c.Get(context.Background(), "/auth/login", nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedClearsCredential(t *testing.T) {
	c, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","message":"Invalid token"}`))
	})

	_, err := c.Get(context.Background(), "/auth/user", nil)
	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.Empty(t, creds.Token(), "401 must clear the stored credential")

	// A second failure is a no-op on the already-empty store.
	_, err = c.Get(context.Background(), "/auth/user", nil)
	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.Empty(t, creds.Token())
}

func TestServerErrorEnvelope(t *testing.T) {
	c, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","message":"Invalid input query"}`))
	})

	_, err := c.Post(context.Background(), "/search/", map[string]string{"query": ""}, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid input query", apiErr.Message)
	assert.Equal(t, "test-token", creds.Token(), "non-401 failures must not touch the credential")
}

func TestMissingDataIsMalformed(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","message":"ok"}`))
	})

	var out map[string]any
	_, err := c.Get(context.Background(), "/documents/", &out)
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestMetaSessionID(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int64
	}{
		{"top level", `{"status":"success","data":[],"session_id":42}`, 42},
		{"extra", `{"status":"success","data":{"id":9},"extra":{"session_id":77}}`, 77},
		{"extra wins over top level", `{"status":"success","data":{},"session_id":1,"extra":{"session_id":2}}`, 2},
		{"absent", `{"status":"success","data":{}}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			var out any
			meta, err := c.Post(context.Background(), "/chat/messages/", map[string]string{"content": "hi"}, &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, meta.SessionID)
		})
	}
}

func TestUploadMultipart(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "notes.txt", header.Filename)
		_, _ = w.Write([]byte(`{"status":"success","data":{"id":3,"file_name":"notes.txt","url":"http://x/notes.txt"}}`))
	})

	var doc struct {
		ID       int64  `json:"id"`
		FileName string `json:"file_name"`
	}
	_, err := c.Upload(context.Background(), "/documents/upload/", "notes.txt", strings.NewReader("hello"), &doc)
	require.NoError(t, err)
	assert.Equal(t, int64(3), doc.ID)
}

func TestNetworkErrorWrapped(t *testing.T) {
	creds := NewCredentialStore("tok")
	c := NewClient("http://127.0.0.1:1", creds, nil)
	t.Cleanup(c.http.CloseIdleConnections)

	_, err := c.Get(context.Background(), "/chat/sessions", nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthenticated))
	assert.Equal(t, "tok", creds.Token())
}
