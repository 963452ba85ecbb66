// Package registry maps in-progress conversations to caller phone numbers.
//
// The telephony layer deletes its own call state as soon as a call ends, so
// the link between a conversation id and the caller's number has to be held
// here for the transcript-complete event to use. Entries live for the
// process lifetime: lookups happen after the call ends, and there is no
// point at which an entry is provably dead, so nothing is evicted.
package registry

import (
	"errors"
	"fmt"
	"sync"
)

// ErrCallerNotFound indicates a lookup for a conversation that was never
// recorded as connected. In correct operation this cannot happen, since a
// call always connects before its transcript completes; seeing it means the
// event ordering assumption is broken upstream.
var ErrCallerNotFound = errors.New("caller not found for conversation")

// Registry is a process-lifetime store of conversation id to caller phone
// number. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	callers map[string]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		callers: make(map[string]string),
	}
}

// RecordCaller stores the caller phone number for a conversation.
// The write is an unconditional upsert: a second write for the same
// conversation silently overwrites the first.
func (r *Registry) RecordCaller(conversationID, phoneNumber string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callers[conversationID] = phoneNumber
}

// LookupCaller returns the phone number recorded for a conversation.
// Returns ErrCallerNotFound (wrapped with the conversation id) when the
// conversation was never recorded.
func (r *Registry) LookupCaller(conversationID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	phone, ok := r.callers[conversationID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrCallerNotFound, conversationID)
	}
	return phone, nil
}

// Len returns the number of recorded conversations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.callers)
}
