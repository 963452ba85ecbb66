package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Default configuration values.
const (
	defaultTwilioBaseURL = "https://api.twilio.com"
	defaultTimeout       = 30 * time.Second
)

// Rate limiter defaults: Twilio trial accounts throttle hard, so keep one
// message per second with a small burst.
const (
	defaultRateLimit = 1.0
	defaultBurst     = 3
)

// DeliveryError is a provider-level send failure.
type DeliveryError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("sms delivery failed (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
}

// TwilioConfig holds Twilio client configuration.
type TwilioConfig struct {
	// AccountSID and AuthToken authenticate against the Messages API.
	AccountSID string
	AuthToken  string
	// FromNumber is the configured outbound caller number.
	FromNumber string
	// BaseURL overrides the API endpoint, used by tests.
	BaseURL string
	// Timeout for the underlying HTTP client.
	Timeout time.Duration
}

// TwilioClient implements Notifier against the Twilio Messages API.
type TwilioClient struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewTwilioClient creates a Twilio SMS client.
func NewTwilioClient(cfg TwilioConfig) (*TwilioClient, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("twilio account SID and auth token required")
	}
	if cfg.FromNumber == "" {
		return nil, fmt.Errorf("outbound caller number required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultTwilioBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &TwilioClient{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
	}, nil
}

// twilioErrorResponse is the error body returned by the Messages API.
type twilioErrorResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

// SendSMS sends one message. No retries: a failed send returns a
// DeliveryError and the message is gone.
func (t *TwilioClient) SendSMS(ctx context.Context, to, body string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	form := url.Values{}
	form.Set("From", t.fromNumber)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.accountSID, t.authToken)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &DeliveryError{StatusCode: resp.StatusCode, Message: "unreadable error body"}
	}

	var twilioErr twilioErrorResponse
	if err := json.Unmarshal(respBody, &twilioErr); err != nil {
		return &DeliveryError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	return &DeliveryError{
		StatusCode: resp.StatusCode,
		Code:       twilioErr.Code,
		Message:    twilioErr.Message,
	}
}

var _ Notifier = (*TwilioClient)(nil)
