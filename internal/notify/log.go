package notify

import (
	"context"
	"log"
	"sync"
)

// LogGateway writes notifications to the process log. Used when no mail
// provider is configured, so quiz creation still reports who would be told.
type LogGateway struct{}

func NewLogGateway() *LogGateway { return &LogGateway{} }

func (g *LogGateway) Send(_ context.Context, to, subject, _, _ string) error {
	log.Printf("notify %s: %s", to, subject)
	return nil
}

// SentMail captures one delivered message for assertions.
type SentMail struct {
	To      string
	Subject string
	Body    string
	ReplyTo string
}

// Recorder is an in-memory gateway for tests.
type Recorder struct {
	mu   sync.Mutex
	sent []SentMail
	// Err, when set, is returned from every Send.
	Err error
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Send(_ context.Context, to, subject, body, replyTo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, SentMail{To: to, Subject: subject, Body: body, ReplyTo: replyTo})
	return nil
}

// Sent returns a snapshot of the delivered messages.
func (r *Recorder) Sent() []SentMail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SentMail(nil), r.sent...)
}
