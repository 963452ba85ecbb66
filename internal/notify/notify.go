// Package notify sends outbound text messages to callers.
//
// The only user-facing channel of this service is the follow-up SMS, sent
// through Twilio's Messages API. The client owns no retry logic: delivery
// failures surface to the caller as a DeliveryError and whatever invoked
// the pipeline decides what that means.
package notify

import "context"

// Notifier sends a text message to a phone number.
type Notifier interface {
	// SendSMS sends body to the given number from the configured
	// outbound caller number.
	SendSMS(ctx context.Context, to, body string) error
}
