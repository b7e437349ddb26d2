package redis

import (
	"context"
	"encoding/json"
	"time"
)

const (
	pendingMarker  = "processing"
	responsePrefix = "idempotency:"
)

// StoredResponse is a replayable HTTP response
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        string `json:"body"`
}

// ResponseStore keeps responses of idempotent requests in Redis
type ResponseStore struct {
	lockTTL      time.Duration
	retentionTTL time.Duration
}

var (
	storeGet   = Get
	storeSet   = Set
	storeSetNX = SetNX
	storeDel   = Del
)

func NewResponseStore(lockTTL, retentionTTL time.Duration) *ResponseStore {
	return &ResponseStore{lockTTL: lockTTL, retentionTTL: retentionTTL}
}

// Acquire claims key for processing. It returns the stored response when the
// key was already completed, or pending=true while another request holds it.
func (s *ResponseStore) Acquire(ctx context.Context, key string) (stored *StoredResponse, pending bool, err error) {
	stored, pending, found, err := s.lookup(ctx, key)
	if err != nil || found {
		return stored, pending, err
	}

	ok, err := storeSetNX(ctx, responsePrefix+key, pendingMarker, s.lockTTL)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return nil, false, nil
	}

	// lost the race: the other request may already have completed
	stored, _, found, err = s.lookup(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if found && stored != nil {
		return stored, false, nil
	}
	return nil, true, nil
}

func (s *ResponseStore) lookup(ctx context.Context, key string) (stored *StoredResponse, pending, found bool, err error) {
	val, err := storeGet(ctx, responsePrefix+key)
	switch {
	case IsNil(err):
		return nil, false, false, nil
	case err != nil:
		return nil, false, false, err
	case val == pendingMarker:
		return nil, true, true, nil
	}
	var resp StoredResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, false, false, err
	}
	return &resp, false, true, nil
}

// Complete stores the final response for key.
func (s *ResponseStore) Complete(ctx context.Context, key string, resp StoredResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return storeSet(ctx, responsePrefix+key, string(payload), s.retentionTTL)
}

// Release drops key so the request can be retried.
func (s *ResponseStore) Release(ctx context.Context, key string) error {
	return storeDel(ctx, responsePrefix+key)
}
