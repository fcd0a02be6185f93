package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/story-forge/pkg/document"
)

// RedisStorage implements Storage using Redis for in-flight session
// documents and the filesystem for exported sessions.
type RedisStorage struct {
	client  *redis.Client
	logger  *slog.Logger
	dataDir string
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(redisURL string, dataDir string, logger *slog.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if dataDir == "" {
		dataDir = "./data"
	}

	return &RedisStorage{
		client:  redis.NewClient(opt),
		logger:  logger,
		dataDir: dataDir,
	}, nil
}

// NewRedisStorageWithClient wraps an existing client, used by tests.
func NewRedisStorageWithClient(client *redis.Client, dataDir string, logger *slog.Logger) *RedisStorage {
	return &RedisStorage{
		client:  client,
		logger:  logger,
		dataDir: dataDir,
	}
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func documentKey(sessionID uuid.UUID, kind document.Kind) string {
	return fmt.Sprintf("session:%s:doc:%s", sessionID.String(), kind)
}

func (r *RedisStorage) SaveDocument(ctx context.Context, sessionID uuid.UUID, kind document.Kind, text string) error {
	if !kind.IsValid() {
		return fmt.Errorf("unknown document kind: %q", kind)
	}
	if err := r.client.Set(ctx, documentKey(sessionID, kind), text, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s document: %w", kind, err)
	}
	r.logger.Debug("Document saved", "session_id", sessionID, "kind", kind, "bytes", len(text))
	return nil
}

func (r *RedisStorage) LoadDocument(ctx context.Context, sessionID uuid.UUID, kind document.Kind) (string, error) {
	text, err := r.client.Get(ctx, documentKey(sessionID, kind)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("failed to load %s document: %w", kind, err)
	}
	return text, nil
}

func (r *RedisStorage) ListDocuments(ctx context.Context, sessionID uuid.UUID) (map[document.Kind]string, error) {
	docs := make(map[document.Kind]string)
	for _, kind := range document.Kinds() {
		text, err := r.LoadDocument(ctx, sessionID, kind)
		if err != nil {
			return nil, err
		}
		if text != "" {
			docs[kind] = text
		}
	}
	return docs, nil
}

func (r *RedisStorage) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	keys := make([]string, 0, len(document.Kinds()))
	for _, kind := range document.Kinds() {
		keys = append(keys, documentKey(sessionID, kind))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

// ExportSession writes each stored document to
// <dataDir>/sessions/<id>/<kind>.yaml for the assembler to consume.
func (r *RedisStorage) ExportSession(ctx context.Context, sessionID uuid.UUID) (string, error) {
	docs, err := r.ListDocuments(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("session %s has no documents to export", sessionID)
	}

	dir := filepath.Join(r.dataDir, "sessions", sessionID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}

	for kind, text := range docs {
		path := filepath.Join(dir, kind.FileName())
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return "", fmt.Errorf("failed to write %s document: %w", kind, err)
		}
	}

	r.logger.Info("Session exported", "session_id", sessionID, "dir", dir, "documents", len(docs))
	return dir, nil
}
