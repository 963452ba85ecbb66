// Package booking defines the external appointment-booking collaborator.
//
// The real scheduling system is not part of this service. The bridge only
// needs a fallible call to hand the chosen slot to; StubBooker stands in
// for it and always succeeds.
package booking

import (
	"context"

	"go.uber.org/zap"

	"github.com/ColeJackes/HospitalCall/internal/catalog"
)

// Booker books an appointment slot for a caller.
type Booker interface {
	// Book reserves the slot for the caller's phone number.
	Book(ctx context.Context, slot catalog.Slot, phoneNumber string) error
}

// StubBooker is a Booker that always succeeds.
type StubBooker struct {
	logger *zap.Logger
}

// NewStubBooker creates a stub booker. logger may be nil.
func NewStubBooker(logger *zap.Logger) *StubBooker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubBooker{logger: logger}
}

// Book logs the booking and reports success.
func (s *StubBooker) Book(_ context.Context, slot catalog.Slot, phoneNumber string) error {
	s.logger.Debug("stub booking created",
		zap.String("slot_label", slot.Label),
		zap.String("slot_time", slot.Time),
		zap.String("phone_number", phoneNumber))
	return nil
}

var _ Booker = (*StubBooker)(nil)
