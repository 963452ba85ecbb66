// Package events defines the call lifecycle events and their NATS transport.
//
// The telephony layer publishes two events per call:
//
//   - call.connected          when the call is answered, carrying the
//     conversation id and the caller's phone number
//   - call.transcript.complete when the full speech-to-text record is
//     finalized, carrying the conversation id and the transcript text
//
// The bridge subscribes to exactly these two subjects; events of any other
// kind never reach it.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATS subjects for call lifecycle events.
const (
	SubjectCallConnected      = "call.connected"
	SubjectTranscriptComplete = "call.transcript.complete"
)

// CallConnected is emitted when an inbound call is answered.
type CallConnected struct {
	ConversationID  string `json:"conversation_id"`
	FromPhoneNumber string `json:"from_phone_number"`
}

// TranscriptComplete is emitted once a call's transcript is finalized.
type TranscriptComplete struct {
	ConversationID string `json:"conversation_id"`
	Transcript     string `json:"transcript"`
}

// PublishCallConnected publishes a call-connected event.
func PublishCallConnected(nc *nats.Conn, ev CallConnected) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal call connected event: %w", err)
	}
	if err := nc.Publish(SubjectCallConnected, data); err != nil {
		return fmt.Errorf("publish call connected event: %w", err)
	}
	return nil
}

// PublishTranscriptComplete publishes a transcript-complete event.
func PublishTranscriptComplete(nc *nats.Conn, ev TranscriptComplete) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal transcript complete event: %w", err)
	}
	if err := nc.Publish(SubjectTranscriptComplete, data); err != nil {
		return fmt.Errorf("publish transcript complete event: %w", err)
	}
	return nil
}
