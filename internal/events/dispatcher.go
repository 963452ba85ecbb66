package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Dispatcher subscribes handler callbacks to the two call lifecycle
// subjects. Message handlers run on the NATS client's delivery goroutine,
// one message at a time per subscription.
type Dispatcher struct {
	nc     *nats.Conn
	logger *zap.Logger

	onConnected  func(ctx context.Context, ev CallConnected)
	onTranscript func(ctx context.Context, ev TranscriptComplete) error

	subs []*nats.Subscription
}

// NewDispatcher creates a dispatcher. Subscribe must be called to start
// event delivery. logger may be nil.
//
// onTranscript runs the event to a terminal outcome; an error from it is an
// operational anomaly (unknown caller, delivery failure) which the
// dispatcher reports and does not retry.
func NewDispatcher(
	nc *nats.Conn,
	onConnected func(ctx context.Context, ev CallConnected),
	onTranscript func(ctx context.Context, ev TranscriptComplete) error,
	logger *zap.Logger,
) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		nc:           nc,
		logger:       logger,
		onConnected:  onConnected,
		onTranscript: onTranscript,
	}
}

// Subscribe registers interest in the call-connected and
// transcript-complete subjects, and nothing else.
func (d *Dispatcher) Subscribe(ctx context.Context) error {
	connSub, err := d.nc.Subscribe(SubjectCallConnected, func(msg *nats.Msg) {
		var ev CallConnected
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			d.logger.Error("malformed call connected event",
				zap.Error(err),
				zap.ByteString("data", msg.Data))
			return
		}
		d.onConnected(ctx, ev)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", SubjectCallConnected, err)
	}
	d.subs = append(d.subs, connSub)

	transcriptSub, err := d.nc.Subscribe(SubjectTranscriptComplete, func(msg *nats.Msg) {
		var ev TranscriptComplete
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			d.logger.Error("malformed transcript complete event",
				zap.Error(err),
				zap.ByteString("data", msg.Data))
			return
		}
		if err := d.onTranscript(ctx, ev); err != nil {
			// Unhandled pipeline failure. The caller gets no message
			// beyond whatever already went out; make it visible here.
			d.logger.Error("transcript handling failed",
				zap.Error(err),
				zap.String("conversation_id", ev.ConversationID))
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", SubjectTranscriptComplete, err)
	}
	d.subs = append(d.subs, transcriptSub)

	return nil
}

// Drain unsubscribes and flushes in-flight messages.
func (d *Dispatcher) Drain() error {
	for _, sub := range d.subs {
		if err := sub.Drain(); err != nil {
			return fmt.Errorf("drain subscription %s: %w", sub.Subject, err)
		}
	}
	return nil
}
