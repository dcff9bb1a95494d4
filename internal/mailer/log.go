package mailer

import (
	"context"
	"sync"

	"github.com/mcsoccercamp/camp-api/internal/log"
)

// LogMailer records outgoing mail in the application log instead of delivering it.
type LogMailer struct {
	logger *log.Logger
}

func NewLogMailer(logger *log.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (l *LogMailer) Transport() string {
	return "log"
}

func (l *LogMailer) Send(ctx context.Context, msg *Message) error {
	if _, err := buildMsg(msg); err != nil {
		return err
	}

	attachments := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		attachments = append(attachments, a.Filename)
	}

	log.GetLoggerInstanceFromContext(ctx, l.logger).Info("Email not delivered (log transport)",
		"to", msg.To,
		"bcc_count", len(msg.Bcc),
		"subject", msg.Subject,
		"attachments", attachments,
	)
	return nil
}

// Recorder keeps sent messages in memory. After FailWith, Send returns the
// given error until Reset or FailWith(nil).
type Recorder struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Transport() string {
	return "recorder"
}

func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) Send(_ context.Context, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	if msg == nil || len(msg.To) == 0 {
		return ErrNoRecipients
	}
	r.sent = append(r.sent, *msg)
	return nil
}

func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.sent))
	copy(out, r.sent)
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
	r.err = nil
}
