package chat

import (
	"context"
	"fmt"

	"ragify/internal/gateway"
)

// Client issues the conversation-level calls. It knows the wire shapes; the
// orchestrator only ever sees Message values.
type Client struct {
	gw *gateway.Client
}

// NewClient wraps the gateway for conversation calls.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

// QueryResult is the outcome of one query: the assistant's answer and, when
// the backend assigned one, the session the exchange was recorded under.
type QueryResult struct {
	Answer    Message
	SessionID int64
}

// wireMessage mirrors a stored chat message. Provenance columns are nullable
// on the backend, so they decode through pointers.
type wireMessage struct {
	Role       string   `json:"role"`
	Content    string   `json:"content"`
	FileName   *string  `json:"file_name"`
	PageNumber *int     `json:"page_number"`
	Score      *float64 `json:"score"`
}

func (w wireMessage) toMessage() Message {
	msg := Message{Role: RoleAssistant, Content: w.Content}
	if w.Role == "user" {
		msg.Role = RoleUser
	}
	// A grounded answer always names its source file; score alone (the
	// backend writes 0.0 on the fallback path) does not count.
	if w.FileName != nil && *w.FileName != "" {
		p := &Provenance{FileName: *w.FileName}
		if w.PageNumber != nil {
			p.PageNumber = *w.PageNumber
		}
		if w.Score != nil {
			p.Score = *w.Score
		}
		msg.Provenance = p
	}
	return msg
}

// History fetches the ordered transcript for a session. Order is whatever the
// server returned; insertion order is the only guarantee either side makes.
func (c *Client) History(ctx context.Context, sessionID int64) ([]Message, error) {
	var wire []wireMessage
	if _, err := c.gw.Get(ctx, fmt.Sprintf("/chat/%d/messages", sessionID), &wire); err != nil {
		return nil, err
	}
	msgs := make([]Message, 0, len(wire))
	for _, w := range wire {
		msgs = append(msgs, w.toMessage())
	}
	return msgs, nil
}

// Post sends a chat turn into an existing session (sessionID > 0) or lets the
// backend open one as a side effect (sessionID == 0).
func (c *Client) Post(ctx context.Context, content string, sessionID int64) (*QueryResult, error) {
	body := map[string]any{"content": content}
	if sessionID > 0 {
		body["session_id"] = sessionID
	}
	var wire struct {
		wireMessage
		ID        int64 `json:"id"`
		SessionID int64 `json:"session_id"`
	}
	meta, err := c.gw.Post(ctx, "/chat/messages/", body, &wire)
	if err != nil {
		return nil, err
	}
	res := &QueryResult{Answer: wire.toMessage()}
	// The explicit session reference wins over the record's own column.
	switch {
	case meta.SessionID > 0:
		res.SessionID = meta.SessionID
	case wire.SessionID > 0:
		res.SessionID = wire.SessionID
	}
	return res, nil
}

// searchHit is one element of the /search/ result list.
type searchHit struct {
	Text       string   `json:"text"`
	FileName   *string  `json:"file_name"`
	PageNumber *int     `json:"page_number"`
	Score      *float64 `json:"score"`
}

// Search runs a retrieval query. The backend always creates a session for the
// exchange and reports it through the envelope.
func (c *Client) Search(ctx context.Context, query, sessionName string) (*QueryResult, error) {
	body := map[string]any{"query": query}
	if sessionName != "" {
		body["session_name"] = sessionName
	}
	var hits []searchHit
	meta, err := c.gw.Post(ctx, "/search/", body, &hits)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("%w: POST /search/ returned an empty result list", gateway.ErrMalformedResponse)
	}
	hit := hits[0]
	answer := wireMessage{
		Role:       "bot",
		Content:    hit.Text,
		FileName:   hit.FileName,
		PageNumber: hit.PageNumber,
		Score:      hit.Score,
	}.toMessage()
	if answer.Content == "" {
		// Fallback path: no relevant documents. The envelope message is the
		// only human-readable text the backend sends.
		answer.Content = meta.Message
	}
	return &QueryResult{Answer: answer, SessionID: meta.SessionID}, nil
}
