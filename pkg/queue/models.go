package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/story-forge/pkg/document"
)

// Request is one raw generated document waiting to be sanitized and
// persisted. The generation layer enqueues these as documents arrive;
// workers consume them in order.
type Request struct {
	RequestID  string        `json:"request_id"`
	SessionID  uuid.UUID     `json:"session_id"`
	Kind       document.Kind `json:"kind"`
	RawText    string        `json:"raw_text"`
	EnqueuedAt time.Time     `json:"enqueued_at"`
}

// NewRequest creates a queue request for one raw document.
func NewRequest(sessionID uuid.UUID, kind document.Kind, rawText string) *Request {
	return &Request{
		RequestID:  uuid.New().String(),
		SessionID:  sessionID,
		Kind:       kind,
		RawText:    rawText,
		EnqueuedAt: time.Now().UTC(),
	}
}

// ToJSON converts the request to JSON bytes for Redis
func (r *Request) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON parses a request from JSON bytes
func FromJSON(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
