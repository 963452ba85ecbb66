// Package integration exercises the full call-to-SMS pipeline: telephony
// webhooks publishing to an embedded NATS server, the bridge consuming the
// events, and delivery against a fake Twilio API.
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColeJackes/HospitalCall/internal/booking"
	"github.com/ColeJackes/HospitalCall/internal/bridge"
	"github.com/ColeJackes/HospitalCall/internal/catalog"
	"github.com/ColeJackes/HospitalCall/internal/events"
	"github.com/ColeJackes/HospitalCall/internal/extraction"
	"github.com/ColeJackes/HospitalCall/internal/notify"
	"github.com/ColeJackes/HospitalCall/internal/registry"
	"github.com/ColeJackes/HospitalCall/internal/telephony"
)

// sentMessage is one SMS the fake Twilio API accepted.
type sentMessage struct {
	To   string
	Body string
}

// fakeTwilio records messages posted to the Messages API.
type fakeTwilio struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (f *fakeTwilio) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		f.mu.Lock()
		f.sent = append(f.sent, sentMessage{
			To:   r.PostForm.Get("To"),
			Body: r.PostForm.Get("Body"),
		})
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SMtest","status":"queued"}`))
	}
}

func (f *fakeTwilio) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

// pipeline holds one fully wired test deployment.
type pipeline struct {
	e      *echo.Echo
	twilio *fakeTwilio
}

func startPipeline(t *testing.T) *pipeline {
	t.Helper()

	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1, NoLog: true, NoSigs: true}
	srv, err := natsserver.NewServer(opts)
	require.NoError(t, err)
	go srv.Start()
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}
	t.Cleanup(func() {
		srv.Shutdown()
		srv.WaitForShutdown()
	})

	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	twilio := &fakeTwilio{}
	twilioSrv := httptest.NewServer(twilio.handler())
	t.Cleanup(twilioSrv.Close)

	notifier, err := notify.NewTwilioClient(notify.TwilioConfig{
		AccountSID: "ACtest",
		AuthToken:  "secret",
		FromNumber: "+15550001111",
		BaseURL:    twilioSrv.URL,
	})
	require.NoError(t, err)

	cat, err := catalog.Parse(strings.NewReader("Monday 9am\nTuesday 2pm\n"))
	require.NoError(t, err)

	b := bridge.New(
		cat,
		registry.New(),
		extraction.NewHeuristicExtractor(),
		booking.NewStubBooker(nil),
		notifier,
		nil,
		nil,
	)

	d := events.NewDispatcher(
		nc,
		b.HandleCallConnected,
		func(ctx context.Context, ev events.TranscriptComplete) error {
			_, err := b.HandleTranscriptComplete(ctx, ev)
			return err
		},
		nil,
	)
	require.NoError(t, d.Subscribe(context.Background()))
	t.Cleanup(func() { _ = d.Drain() })

	e := echo.New()
	telephony.NewHandlers(nc, "example.ngrok.io", nil).Register(e)

	return &pipeline{e: e, twilio: twilio}
}

// connectCall posts the inbound-call webhook for the given call.
func (p *pipeline) connectCall(t *testing.T, callSid, from string) {
	t.Helper()
	form := url.Values{}
	form.Set("CallSid", callSid)
	form.Set("From", from)

	req := httptest.NewRequest(http.MethodPost, "/inbound_call", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	p.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

// completeTranscript posts the finished transcript for the given call.
func (p *pipeline) completeTranscript(t *testing.T, callSid, transcript string) {
	t.Helper()
	payload, err := json.Marshal(map[string]string{
		"conversation_id": callSid,
		"transcript":      transcript,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/transcript", strings.NewReader(string(payload)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	p.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)
}

func TestPipeline_BookedConfirmationSMS(t *testing.T) {
	p := startPipeline(t)

	p.connectCall(t, "c1", "+15551234567")
	p.completeTranscript(t, "c1", "BOT: A) Monday 9am, or B) Tuesday 2pm? HUMAN: I'll take option B please.")

	require.Eventually(t, func() bool {
		return len(p.twilio.messages()) == 1
	}, 5*time.Second, 20*time.Millisecond)

	msg := p.twilio.messages()[0]
	assert.Equal(t, "+15551234567", msg.To)
	assert.Equal(t, "We have successfully booked your appointment on Tuesday 2pm.", msg.Body)
}

func TestPipeline_ExtractionFailureSMS(t *testing.T) {
	p := startPipeline(t)

	p.connectCall(t, "c1", "+15551234567")
	p.completeTranscript(t, "c1", "HUMAN: none of those times work for me, sorry, goodbye")

	require.Eventually(t, func() bool {
		return len(p.twilio.messages()) == 1
	}, 5*time.Second, 20*time.Millisecond)

	msg := p.twilio.messages()[0]
	assert.Equal(t, "+15551234567", msg.To)
	assert.Equal(t, "Hello, we were unable to figure out which appointment slot you'd prefer. Please call back and try again.", msg.Body)
}

func TestPipeline_UnknownConversationSendsNothing(t *testing.T) {
	p := startPipeline(t)

	// Transcript for a conversation that never connected.
	p.completeTranscript(t, "ghost", "HUMAN: option A")

	// Give the pipeline time to misbehave, then confirm silence.
	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, p.twilio.messages())
}

func TestPipeline_InterleavedCalls(t *testing.T) {
	p := startPipeline(t)

	p.connectCall(t, "c1", "+15551111111")
	p.connectCall(t, "c2", "+15552222222")
	p.completeTranscript(t, "c2", "HUMAN: option A")
	p.completeTranscript(t, "c1", "HUMAN: option B")

	require.Eventually(t, func() bool {
		return len(p.twilio.messages()) == 2
	}, 5*time.Second, 20*time.Millisecond)

	byTo := map[string]string{}
	for _, m := range p.twilio.messages() {
		byTo[m.To] = m.Body
	}
	assert.Equal(t, "We have successfully booked your appointment on Monday 9am.", byTo["+15552222222"])
	assert.Equal(t, "We have successfully booked your appointment on Tuesday 2pm.", byTo["+15551111111"])
}
