package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/story-forge/pkg/queue"
)

const requestsKey = "document-requests"

// DocumentQueue manages the queue of raw generated documents waiting
// for sanitization.
type DocumentQueue struct {
	client *Client
}

func NewDocumentQueue(client *Client) *DocumentQueue {
	return &DocumentQueue{client: client}
}

// Enqueue adds a raw-document request to the end of the queue
func (q *DocumentQueue) Enqueue(ctx context.Context, req *queue.Request) error {
	data, err := req.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}

	if err := q.client.rdb.RPush(ctx, requestsKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue document request: %w", err)
	}
	return nil
}

// Dequeue removes and returns the next request from the queue.
// Returns nil if the queue is empty.
func (q *DocumentQueue) Dequeue(ctx context.Context) (*queue.Request, error) {
	result, err := q.client.rdb.LPop(ctx, requestsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Queue is empty
		}
		return nil, fmt.Errorf("failed to dequeue document request: %w", err)
	}

	req, err := queue.FromJSON([]byte(result))
	if err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return req, nil
}

// BlockingDequeue blocks until a request is available or the timeout
// elapses. Returns nil on timeout.
func (q *DocumentQueue) BlockingDequeue(ctx context.Context, timeout time.Duration) (*queue.Request, error) {
	result, err := q.client.rdb.BLPop(ctx, timeout, requestsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Timeout, queue still empty
		}
		return nil, fmt.Errorf("failed to dequeue document request: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPop result: %v", result)
	}

	req, err := queue.FromJSON([]byte(result[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return req, nil
}

// Depth returns the number of requests waiting in the queue
func (q *DocumentQueue) Depth(ctx context.Context) (int, error) {
	count, err := q.client.rdb.LLen(ctx, requestsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(count), nil
}

// Clear removes all pending requests
func (q *DocumentQueue) Clear(ctx context.Context) error {
	if err := q.client.rdb.Del(ctx, requestsKey).Err(); err != nil {
		return fmt.Errorf("failed to clear document queue: %w", err)
	}
	return nil
}
