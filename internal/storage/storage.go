package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/story-forge/pkg/document"
)

// Storage holds the sanitized documents of in-flight generation
// sessions. Documents are stored as text, exactly as returned by the
// sanitization pipeline; a finalized session is exported to a
// directory of five fixed-name files for the assembler.
type Storage interface {
	// Ping tests the storage connection
	Ping(ctx context.Context) error

	// Close closes the storage connection
	Close() error

	// SaveDocument stores the sanitized text of one document
	SaveDocument(ctx context.Context, sessionID uuid.UUID, kind document.Kind, text string) error

	// LoadDocument retrieves one document's text.
	// Returns an empty string if the document doesn't exist.
	LoadDocument(ctx context.Context, sessionID uuid.UUID, kind document.Kind) (string, error)

	// ListDocuments returns all stored documents for a session
	ListDocuments(ctx context.Context, sessionID uuid.UUID) (map[document.Kind]string, error)

	// DeleteSession removes all documents for a session
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error

	// ExportSession writes the session's documents to a directory of
	// fixed-name files and returns the directory path
	ExportSession(ctx context.Context, sessionID uuid.UUID) (string, error)
}
