package telephony

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/ColeJackes/HospitalCall/internal/events"
)

// inboundTwiML hands the answered call to the media/agent layer.
const inboundTwiML = `<?xml version="1.0" encoding="UTF-8"?>
<Response><Connect><Stream url="wss://%s/media" /></Connect></Response>`

// Handlers holds the webhook endpoints.
type Handlers struct {
	nc      *nats.Conn
	baseURL string
	logger  *zap.Logger
}

// NewHandlers creates the webhook handlers. baseURL is the externally
// visible host the provider streams media back to. logger may be nil.
func NewHandlers(nc *nats.Conn, baseURL string, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		nc:      nc,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Register registers the webhook routes on e.
func (h *Handlers) Register(e *echo.Echo) {
	e.POST("/inbound_call", h.handleInboundCall)
	e.POST("/transcript", h.handleTranscript)
}

// handleInboundCall answers the provider's inbound-call webhook. It
// publishes the call-connected event from the webhook's call id and caller
// number, then returns TwiML connecting the call to the agent's media
// stream.
func (h *Handlers) handleInboundCall(c echo.Context) error {
	conversationID := c.FormValue("CallSid")
	if conversationID == "" {
		conversationID = uuid.New().String()
	}
	from := c.FormValue("From")

	ev := events.CallConnected{
		ConversationID:  conversationID,
		FromPhoneNumber: from,
	}
	if err := events.PublishCallConnected(h.nc, ev); err != nil {
		h.logger.Error("publish call connected",
			zap.Error(err),
			zap.String("conversation_id", conversationID))
		return echo.NewHTTPError(http.StatusInternalServerError, "event publish failed")
	}

	h.logger.Info("inbound call",
		zap.String("conversation_id", conversationID),
		zap.String("from_phone_number", from))

	return c.Blob(http.StatusOK, "text/xml", []byte(fmt.Sprintf(inboundTwiML, h.baseURL)))
}

// transcriptRequest is the agent layer's end-of-call callback payload.
type transcriptRequest struct {
	ConversationID string `json:"conversation_id"`
	Transcript     string `json:"transcript"`
}

// handleTranscript accepts the finalized transcript from the agent layer
// and publishes the transcript-complete event.
func (h *Handlers) handleTranscript(c echo.Context) error {
	var req transcriptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.ConversationID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "conversation_id required")
	}

	ev := events.TranscriptComplete{
		ConversationID: req.ConversationID,
		Transcript:     req.Transcript,
	}
	if err := events.PublishTranscriptComplete(h.nc, ev); err != nil {
		h.logger.Error("publish transcript complete",
			zap.Error(err),
			zap.String("conversation_id", req.ConversationID))
		return echo.NewHTTPError(http.StatusInternalServerError, "event publish failed")
	}

	return c.NoContent(http.StatusAccepted)
}
