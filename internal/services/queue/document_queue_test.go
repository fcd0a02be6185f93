package queue

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/story-forge/pkg/document"
	"github.com/jwebster45206/story-forge/pkg/queue"
)

func setupTestQueue(t *testing.T) *DocumentQueue {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	return NewDocumentQueue(NewClientWithRedis(rdb, logger))
}

func TestEnqueueDequeue(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	sessionID := uuid.New()
	req := queue.NewRequest(sessionID, document.KindPlotOutline, "title: Queued")
	if err := q.Enqueue(ctx, req); err != nil {
		t.Fatalf("Failed to enqueue: %v", err)
	}

	depth, err := q.Depth(ctx)
	if err != nil {
		t.Fatalf("Failed to get depth: %v", err)
	}
	if depth != 1 {
		t.Errorf("Depth = %d, want 1", depth)
	}

	got, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Failed to dequeue: %v", err)
	}
	if got == nil {
		t.Fatal("Expected a request")
	}
	if got.RequestID != req.RequestID {
		t.Errorf("RequestID = %s, want %s", got.RequestID, req.RequestID)
	}
	if got.SessionID != sessionID {
		t.Errorf("SessionID = %s, want %s", got.SessionID, sessionID)
	}
	if got.Kind != document.KindPlotOutline {
		t.Errorf("Kind = %s, want %s", got.Kind, document.KindPlotOutline)
	}
	if got.RawText != "title: Queued" {
		t.Errorf("RawText = %q", got.RawText)
	}
}

func TestDequeueEmpty(t *testing.T) {
	q := setupTestQueue(t)
	got, err := q.Dequeue(context.Background())
	if err != nil {
		t.Fatalf("Empty dequeue should not error: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil request, got %+v", got)
	}
}

func TestQueueFIFOOrder(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()
	sessionID := uuid.New()

	kinds := []document.Kind{
		document.KindPlotOutline,
		document.KindNarrativeMap,
		document.KindPuzzleDesign,
	}
	for _, kind := range kinds {
		if err := q.Enqueue(ctx, queue.NewRequest(sessionID, kind, "raw")); err != nil {
			t.Fatal(err)
		}
	}

	for i, want := range kinds {
		got, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if got == nil {
			t.Fatalf("Request %d missing", i)
		}
		if got.Kind != want {
			t.Errorf("Request %d kind = %s, want %s", i, got.Kind, want)
		}
	}
}

func TestBlockingDequeue(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	req := queue.NewRequest(uuid.New(), document.KindSceneTexts, "scenes: {}")
	if err := q.Enqueue(ctx, req); err != nil {
		t.Fatal(err)
	}

	got, err := q.BlockingDequeue(ctx, time.Second)
	if err != nil {
		t.Fatalf("Failed to dequeue: %v", err)
	}
	if got == nil || got.RequestID != req.RequestID {
		t.Errorf("Unexpected request: %+v", got)
	}
}

func TestClear(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := q.Enqueue(ctx, queue.NewRequest(uuid.New(), document.KindPlotOutline, "raw")); err != nil {
			t.Fatal(err)
		}
	}
	if err := q.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}
	depth, err := q.Depth(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if depth != 0 {
		t.Errorf("Depth after clear = %d, want 0", depth)
	}
}
