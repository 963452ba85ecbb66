// Package bridge runs the call-to-SMS pipeline.
//
// The bridge correlates the two lifecycle events of a call: call-connected
// records which phone number belongs to the conversation, and
// transcript-complete extracts the caller's appointment choice, books it,
// and texts the caller the outcome. Per conversation the implicit state is
//
//	unknown -> connected -> transcript-processed
//
// and only those two transitions exist. A transcript-complete event for an
// already-processed conversation is rejected; one for a never-connected
// conversation fails with the registry's ErrCallerNotFound.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ColeJackes/HospitalCall/internal/booking"
	"github.com/ColeJackes/HospitalCall/internal/catalog"
	"github.com/ColeJackes/HospitalCall/internal/events"
	"github.com/ColeJackes/HospitalCall/internal/extraction"
	"github.com/ColeJackes/HospitalCall/internal/notify"
	"github.com/ColeJackes/HospitalCall/internal/registry"
)

// Outcome is the terminal result of one transcript-complete event.
type Outcome string

const (
	// OutcomeBooked means a slot was extracted, booked, and confirmed by SMS.
	OutcomeBooked Outcome = "booked"
	// OutcomeExtractionFailed means no slot could be determined and the
	// caller was asked by SMS to call back.
	OutcomeExtractionFailed Outcome = "extraction_failed"
)

// ErrAlreadyProcessed indicates a second transcript-complete event for a
// conversation that already reached a terminal outcome. The first outcome
// stands; no second message is sent.
var ErrAlreadyProcessed = errors.New("transcript already processed for conversation")

// SMS bodies. The failure body is fixed; the success body carries the
// booked slot's time description.
const (
	failureBody       = "Hello, we were unable to figure out which appointment slot you'd prefer. Please call back and try again."
	successBodyFormat = "We have successfully booked your appointment on %s."
)

// Bridge handles call lifecycle events.
type Bridge struct {
	catalog   *catalog.Catalog
	registry  *registry.Registry
	extractor extraction.Extractor
	booker    booking.Booker
	notifier  notify.Notifier
	logger    *zap.Logger
	metrics   *Metrics

	mu        sync.Mutex
	processed map[string]Outcome
}

// New creates a bridge. logger and metrics may be nil.
func New(
	cat *catalog.Catalog,
	reg *registry.Registry,
	ex extraction.Extractor,
	booker booking.Booker,
	notifier notify.Notifier,
	logger *zap.Logger,
	metrics *Metrics,
) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Bridge{
		catalog:   cat,
		registry:  reg,
		extractor: ex,
		booker:    booker,
		notifier:  notifier,
		logger:    logger,
		metrics:   metrics,
		processed: make(map[string]Outcome),
	}
}

// HandleCallConnected records the caller's phone number for the
// conversation. The write is unconditional and cannot fail.
func (b *Bridge) HandleCallConnected(_ context.Context, ev events.CallConnected) {
	b.registry.RecordCaller(ev.ConversationID, ev.FromPhoneNumber)
	b.logger.Info("call connected",
		zap.String("conversation_id", ev.ConversationID),
		zap.String("from_phone_number", ev.FromPhoneNumber))
}

// HandleTranscriptComplete runs a finished transcript to a terminal outcome.
//
// Extraction failure is the only failure handled locally: it becomes the
// "please call back" message and OutcomeExtractionFailed. An unknown caller,
// a booking error, or an SMS delivery error propagates to the caller of
// this method; no partial flow is retried or resumed.
func (b *Bridge) HandleTranscriptComplete(ctx context.Context, ev events.TranscriptComplete) (Outcome, error) {
	if prior, dup := b.alreadyProcessed(ev.ConversationID); dup {
		return "", fmt.Errorf("%w: %s (outcome %s)", ErrAlreadyProcessed, ev.ConversationID, prior)
	}

	choice, err := b.extractor.ExtractTimeChoice(ctx, ev.Transcript, b.catalog.Labels())
	if err != nil {
		b.logger.Warn("time choice extraction failed",
			zap.String("conversation_id", ev.ConversationID),
			zap.Error(err))
		return b.finishExtractionFailed(ctx, ev.ConversationID)
	}

	slot, ok := b.catalog.Lookup(choice.Letter)
	if !ok {
		// The extractor validates against the catalog's own labels, so
		// this cannot happen by construction.
		b.logger.Warn("extracted label missing from catalog",
			zap.String("conversation_id", ev.ConversationID),
			zap.String("label", choice.Letter))
		return b.finishExtractionFailed(ctx, ev.ConversationID)
	}

	return b.finishBooked(ctx, ev.ConversationID, slot)
}

// finishExtractionFailed sends the fixed call-back message.
func (b *Bridge) finishExtractionFailed(ctx context.Context, conversationID string) (Outcome, error) {
	phone, err := b.registry.LookupCaller(conversationID)
	if err != nil {
		b.metrics.anomalies.Inc()
		return "", err
	}

	if err := b.notifier.SendSMS(ctx, phone, failureBody); err != nil {
		b.metrics.anomalies.Inc()
		return "", fmt.Errorf("send extraction-failed sms: %w", err)
	}

	b.markProcessed(conversationID, OutcomeExtractionFailed)
	b.metrics.outcomes.WithLabelValues(string(OutcomeExtractionFailed)).Inc()
	b.logger.Info("transcript processed",
		zap.String("conversation_id", conversationID),
		zap.String("outcome", string(OutcomeExtractionFailed)))
	return OutcomeExtractionFailed, nil
}

// finishBooked books the slot and sends the confirmation message.
func (b *Bridge) finishBooked(ctx context.Context, conversationID string, slot catalog.Slot) (Outcome, error) {
	phone, err := b.registry.LookupCaller(conversationID)
	if err != nil {
		b.metrics.anomalies.Inc()
		return "", err
	}

	if err := b.booker.Book(ctx, slot, phone); err != nil {
		b.metrics.anomalies.Inc()
		return "", fmt.Errorf("book slot %s: %w", slot.Label, err)
	}

	body := fmt.Sprintf(successBodyFormat, slot.Time)
	if err := b.notifier.SendSMS(ctx, phone, body); err != nil {
		b.metrics.anomalies.Inc()
		return "", fmt.Errorf("send booking confirmation sms: %w", err)
	}

	b.markProcessed(conversationID, OutcomeBooked)
	b.metrics.outcomes.WithLabelValues(string(OutcomeBooked)).Inc()
	b.logger.Info("transcript processed",
		zap.String("conversation_id", conversationID),
		zap.String("outcome", string(OutcomeBooked)),
		zap.String("slot_label", slot.Label),
		zap.String("slot_time", slot.Time))
	return OutcomeBooked, nil
}

func (b *Bridge) alreadyProcessed(conversationID string) (Outcome, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	outcome, ok := b.processed[conversationID]
	return outcome, ok
}

func (b *Bridge) markProcessed(conversationID string, outcome Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.processed[conversationID] = outcome
}
