// Package documents manages the user's uploaded files. Documents live
// outside any session: they are shared across chats and outlive them, so the
// panel has its own lifecycle and its own change signal.
package documents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ragify/internal/gateway"
)

// Document describes one stored file.
type Document struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	URL      string `json:"url"`
}

// allowedExtensions is a UI-level convenience filter, not a security
// boundary; the backend revalidates whatever it receives.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
}

// ErrUnsupportedType is returned before any network call when a file's
// extension is outside the accepted set.
var ErrUnsupportedType = fmt.Errorf("documents: unsupported file type (accepted: .pdf .doc .docx .txt)")

// Panel is the client for the document endpoints. Changed() ticks on every
// successful upload or delete; watchers refetch when it moves.
type Panel struct {
	gw      *gateway.Client
	changed int
}

// NewPanel wraps the gateway for document calls.
func NewPanel(gw *gateway.Client) *Panel {
	return &Panel{gw: gw}
}

// Changed returns a counter that increments whenever the document set
// changes. Comparing values across calls replaces a subscription.
func (p *Panel) Changed() int { return p.changed }

// List fetches the user's documents in server order.
func (p *Panel) List(ctx context.Context) ([]Document, error) {
	var docs []Document
	if _, err := p.gw.Get(ctx, "/documents/", &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Upload sends one file (multipart field "file") and returns the stored
// descriptor. Raises the change signal on success.
func (p *Panel) Upload(ctx context.Context, path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !allowedExtensions[ext] {
		return nil, ErrUnsupportedType
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var doc Document
	if _, err := p.gw.Upload(ctx, "/documents/upload/", filepath.Base(path), f, &doc); err != nil {
		return nil, err
	}
	p.changed++
	return &doc, nil
}

// Delete removes a document. Deletion is destructive and irreversible, so
// unlike message sending there is no optimistic path: nothing changes locally
// until the backend confirms success.
func (p *Panel) Delete(ctx context.Context, id int64) error {
	meta, err := p.gw.Delete(ctx, fmt.Sprintf("/documents/%d", id), nil)
	if err != nil {
		return err
	}
	if meta.Status != "success" {
		msg := meta.Message
		if msg == "" {
			msg = "delete was not confirmed"
		}
		return fmt.Errorf("documents: %s", msg)
	}
	p.changed++
	return nil
}
