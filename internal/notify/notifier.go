// Package notify composes and delivers the application's emails.
package notify

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Message is a plain-text email.
type Message struct {
	To      []string
	Subject string
	Text    string
}

// Notifier delivers a message. Callers treat failures as best-effort.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Log writes messages to the logger instead of sending them. Used when no
// email provider is configured.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Send(_ context.Context, msg Message) error {
	l.log.Info("email (not sent)",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}

// Async hands each message to its own goroutine and returns immediately.
// Delivery runs on a context detached from the caller's cancellation.
type Async struct {
	next Notifier
	log  *zap.Logger
}

func NewAsync(next Notifier, log *zap.Logger) *Async {
	return &Async{next: next, log: log}
}

func (a *Async) Send(ctx context.Context, msg Message) error {
	detached := context.WithoutCancel(ctx)
	go func() {
		if err := a.next.Send(detached, msg); err != nil {
			a.log.Error("email send failed",
				zap.String("subject", msg.Subject),
				zap.Int("to_count", len(msg.To)),
				zap.Error(err),
			)
		}
	}()
	return nil
}

// Recipients lowercases addresses and drops empty and duplicate ones,
// keeping order.
func Recipients(addrs ...string) []string {
	var out []string
	seen := map[string]bool{}
	for _, a := range addrs {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}
