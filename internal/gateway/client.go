// Package gateway is the single HTTP seam between the client and the ragify
// backend. It attaches the bearer credential to every request, normalizes the
// backend's two response envelope shapes into one canonical payload, and maps
// auth failures onto ErrUnauthenticated.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrUnauthenticated is returned on a 401. The stored credential has
	// already been cleared by the time callers see it.
	ErrUnauthenticated = errors.New("gateway: unauthenticated")

	// ErrMalformedResponse is returned when a response decodes but is missing
	// an expected field. It is never papered over with a guessed value.
	ErrMalformedResponse = errors.New("gateway: malformed response")
)

// APIError is a server-reported failure carried in the error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Meta carries the envelope fields that travel alongside the payload.
// SessionID is the explicit session reference some endpoints attach
// (top-level or under extra); 0 when absent.
type Meta struct {
	Status    string
	Message   string
	SessionID int64
}

// Client is the backend gateway adapter. One instance is shared by every
// component; it holds no per-request state.
type Client struct {
	baseURL string
	creds   *CredentialStore
	http    *http.Client
	log     *zap.Logger
}

// NewClient builds a gateway client for the given base URL.
// The underlying http.Client carries no timeout: a hung request stays
// pending until it resolves or fails, matching the UI's loading semantics.
func NewClient(baseURL string, creds *CredentialStore, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		http:    &http.Client{},
		log:     log,
	}
}

// Get issues a GET and decodes the canonical payload into out.
func (c *Client) Get(ctx context.Context, path string, out any) (*Meta, error) {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

// Post issues a POST with a JSON body and decodes the canonical payload into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) (*Meta, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(payload), out)
}

// Delete issues a DELETE and decodes the canonical payload into out.
func (c *Client) Delete(ctx context.Context, path string, out any) (*Meta, error) {
	return c.do(ctx, http.MethodDelete, path, "", nil, out)
}

// Upload sends r as a multipart form under the field name "file", which is
// what the backend's upload endpoint expects.
func (c *Client) Upload(ctx context.Context, path, fileName string, r io.Reader, out any) (*Meta, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart form: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, mw.FormDataContentType(), &buf, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) (*Meta, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("gateway request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID))

	if resp.StatusCode == http.StatusUnauthorized {
		c.creds.Clear()
		return nil, ErrUnauthenticated
	}

	payload, meta := normalize(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := meta.Message
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if len(payload) == 0 || string(payload) == "null" {
			return meta, fmt.Errorf("%w: %s %s returned no data", ErrMalformedResponse, method, path)
		}
		if err := json.Unmarshal(payload, out); err != nil {
			return meta, fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, err)
		}
	}
	return meta, nil
}

// envelope mirrors the backend's api_response wrapper. Not every endpoint
// uses it; some return the value bare.
type envelope struct {
	Status    string                     `json:"status"`
	Message   string                     `json:"message"`
	Data      json.RawMessage            `json:"data"`
	Extra     map[string]json.RawMessage `json:"extra"`
	SessionID int64                      `json:"session_id"`
}

// normalize unwraps the {status, message, data} envelope when present and
// falls back to the raw body otherwise. This is the one place envelope
// inspection happens; callers only ever see the canonical payload.
func normalize(raw []byte) (json.RawMessage, *Meta) {
	meta := &Meta{}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || (env.Status == "" && env.Data == nil) {
		// Bare payload, no envelope.
		return raw, meta
	}
	meta.Status = env.Status
	meta.Message = env.Message
	meta.SessionID = env.SessionID
	if idRaw, ok := env.Extra["session_id"]; ok {
		var id int64
		if err := json.Unmarshal(idRaw, &id); err == nil && id > 0 {
			meta.SessionID = id
		}
	}
	return env.Data, meta
}
