// Package chat holds the collaborators around the rendering core: message
// delivery, localized phrases and alert formatting glue.
package chat

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Envelope is one message handed to a transport. Delivery is
// fire-and-forget with a binary success/failure result.
type Envelope struct {
	ID        uuid.UUID
	Sender    string
	Recipient string
	Message   string
}

// Transport delivers a finished message to a recipient.
type Transport interface {
	Deliver(ctx context.Context, env Envelope) error
}

// NewEnvelope stamps a message with a fresh id.
func NewEnvelope(sender, recipient, message string) (Envelope, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Envelope{}, fmt.Errorf("unable to stamp message id: %w", err)
	}
	return Envelope{ID: id, Sender: sender, Recipient: recipient, Message: message}, nil
}

// WriterTransport writes delivered messages to an io.Writer, one line per
// message. It backs the CLI and tests; the panel transport in the game
// runtime implements the same interface.
type WriterTransport struct {
	mu  sync.Mutex
	w   io.Writer
	log *zap.Logger
}

func NewWriterTransport(w io.Writer, log *zap.Logger) *WriterTransport {
	if log == nil {
		log = zap.NewNop()
	}
	return &WriterTransport{w: w, log: log.Named("transport")}
}

func (t *WriterTransport) Deliver(ctx context.Context, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := fmt.Fprintln(t.w, env.Message); err != nil {
		return fmt.Errorf("unable to deliver message %s to %q: %w", env.ID, env.Recipient, err)
	}
	t.log.Debug("Message delivered",
		zap.Stringer("id", env.ID), zap.String("sender", env.Sender), zap.String("recipient", env.Recipient))
	return nil
}
