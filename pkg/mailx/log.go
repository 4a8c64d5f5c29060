package mailx

import (
	"context"
	"sync"

	"github.com/hogwartsschoolofmagic/user/pkg/slogx"
)

// LogSender writes messages to the context logger instead of sending them and
// keeps the last ones in memory.
type LogSender struct {
	mu   sync.Mutex
	sent []Message
}

func NewLogSender() *LogSender { return &LogSender{} }

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	slogx.FromContext(ctx).Info("mail not sent, log transport",
		"to", msg.To,
		"subject", msg.Subject,
		"bytes", len(msg.HTML),
	)

	s.mu.Lock()
	s.sent = append(s.sent, msg)
	if len(s.sent) > 100 {
		s.sent = s.sent[len(s.sent)-100:]
	}
	s.mu.Unlock()
	return nil
}

// Sent returns a copy of the retained messages, oldest first.
func (s *LogSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}

// Last returns the most recent message.
func (s *LogSender) Last() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return Message{}, false
	}
	return s.sent[len(s.sent)-1], true
}
