package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/story-forge/internal/storage"
	"github.com/jwebster45206/story-forge/pkg/queue"
	"github.com/jwebster45206/story-forge/pkg/sanitize"
)

// DocumentProcessor sanitizes one raw document and persists the
// result. Sanitization never fails; the only error path is storage.
type DocumentProcessor struct {
	pipeline *sanitize.Pipeline
	storage  storage.Storage
	log      *slog.Logger
}

func NewDocumentProcessor(pipeline *sanitize.Pipeline, store storage.Storage, log *slog.Logger) *DocumentProcessor {
	return &DocumentProcessor{
		pipeline: pipeline,
		storage:  store,
		log:      log,
	}
}

// Process runs the sanitization pipeline on the request's raw text and
// saves the returned text for the session.
func (p *DocumentProcessor) Process(ctx context.Context, req *queue.Request) error {
	if !req.Kind.IsValid() {
		return fmt.Errorf("request %s has unknown document kind %q", req.RequestID, req.Kind)
	}

	text := p.pipeline.SanitizeForDisk(req.RawText, req.Kind)

	if err := p.storage.SaveDocument(ctx, req.SessionID, req.Kind, text); err != nil {
		return fmt.Errorf("failed to persist %s document for session %s: %w",
			req.Kind, req.SessionID, err)
	}

	p.log.Info("Document processed",
		"request_id", req.RequestID,
		"session_id", req.SessionID,
		"kind", req.Kind,
		"bytes", len(text))
	return nil
}
