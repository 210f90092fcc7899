package chat

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"chatml/common"
	"chatml/registry"
	"chatml/render"
)

type captureTransport struct {
	delivered []Envelope
	fail      error
}

func (c *captureTransport) Deliver(_ context.Context, env Envelope) error {
	if c.fail != nil {
		return c.fail
	}
	c.delivered = append(c.delivered, env)
	return nil
}

type staticLangs map[string]string

func (s staticLangs) Language(_ context.Context, player string) (string, error) {
	return s[player], nil
}

func newTestRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	templates, themes, err := registry.Builtin(nil)
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	return render.New(nil, templates, themes)
}

func TestAlerter_Send(t *testing.T) {
	transport := &captureTransport{}
	a := NewAlerter(nil, newTestRenderer(t), transport,
		NewPhrases(nil, DefaultTables()), staticLangs{"hans": "de"}, "classic")

	err := a.Send(context.Background(), "server", "hans", common.SeverityWarning,
		"alert.title.restart", "alert.body.restart", 5)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(transport.delivered) != 1 {
		t.Fatalf("delivered %d messages, want 1", len(transport.delivered))
	}
	env := transport.delivered[0]

	if env.Sender != "server" || env.Recipient != "hans" {
		t.Errorf("envelope addressing = %q -> %q, want server -> hans", env.Sender, env.Recipient)
	}
	if env.ID == uuid.Nil {
		t.Error("envelope id was not stamped")
	}

	// localized title and body, formatted args, styling applied
	for _, want := range []string{
		"Neustart steht bevor",
		"Der Server startet in 5 Minuten neu",
		"from server",
		"style=",
	} {
		if !strings.Contains(env.Message, want) {
			t.Errorf("message missing %q:\n%s", want, env.Message)
		}
	}
}

func TestAlerter_SendNoLanguageStore(t *testing.T) {
	transport := &captureTransport{}
	a := NewAlerter(nil, newTestRenderer(t), transport,
		NewPhrases(nil, DefaultTables()), nil, "classic")

	err := a.Send(context.Background(), "server", "anyone", common.SeverityInfo,
		"alert.title.generic", "alert.body.maintward")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(transport.delivered) != 1 {
		t.Fatalf("delivered %d messages, want 1", len(transport.delivered))
	}
	if !strings.Contains(transport.delivered[0].Message, "Server notice") {
		t.Errorf("expected fallback language title, got:\n%s", transport.delivered[0].Message)
	}
}

func TestAlerter_SendRenderFailure(t *testing.T) {
	a := NewAlerter(nil, newTestRenderer(t), &captureTransport{},
		NewPhrases(nil, DefaultTables()), nil, "no-such-theme")

	err := a.Send(context.Background(), "server", "hans", common.SeverityError,
		"alert.title.generic", "alert.body.maintward")
	if err == nil {
		t.Fatal("expected error for unknown theme")
	}
	var rerr *render.Error
	if !errors.As(err, &rerr) {
		t.Errorf("expected wrapped *render.Error, got %v", err)
	}
}

func TestAlerter_SendTransportFailure(t *testing.T) {
	transport := &captureTransport{fail: errors.New("pipe closed")}
	a := NewAlerter(nil, newTestRenderer(t), transport,
		NewPhrases(nil, DefaultTables()), nil, "classic")

	err := a.Send(context.Background(), "server", "hans", common.SeverityError,
		"alert.title.kicked", "alert.body.kicked", "idle")
	if err == nil || !strings.Contains(err.Error(), "pipe closed") {
		t.Errorf("expected transport failure to surface, got %v", err)
	}
}

func TestWriterTransport_Deliver(t *testing.T) {
	var buf bytes.Buffer
	tr := NewWriterTransport(&buf, nil)

	env, err := NewEnvelope("a", "b", "<div>hi</div>")
	if err != nil {
		t.Fatalf("NewEnvelope() error = %v", err)
	}
	if err := tr.Deliver(context.Background(), env); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if got := buf.String(); got != "<div>hi</div>\n" {
		t.Errorf("delivered %q, want message plus newline", got)
	}
}

func TestWriterTransport_CancelledContext(t *testing.T) {
	var buf bytes.Buffer
	tr := NewWriterTransport(&buf, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env, _ := NewEnvelope("a", "b", "x")
	if err := tr.Deliver(ctx, env); !errors.Is(err, context.Canceled) {
		t.Errorf("Deliver() with cancelled context error = %v, want context.Canceled", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written after cancellation")
	}
}
