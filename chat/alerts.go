package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"chatml/common"
	"chatml/render"
)

// LanguageStore reads a player's stored language preference. The vault
// implements it; an empty result means "use the fallback language".
type LanguageStore interface {
	Language(ctx context.Context, player string) (string, error)
}

// Alerter formats localized alerts and delivers them over a transport.
type Alerter struct {
	renderer  *render.Renderer
	transport Transport
	phrases   *Phrases
	langs     LanguageStore
	theme     string
	log       *zap.Logger
}

// NewAlerter wires the alert glue. theme names the theme used for all
// alert renders; langs may be nil when no preferences are stored.
func NewAlerter(log *zap.Logger, renderer *render.Renderer, transport Transport, phrases *Phrases, langs LanguageStore, theme string) *Alerter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Alerter{
		renderer:  renderer,
		transport: transport,
		phrases:   phrases,
		langs:     langs,
		theme:     theme,
		log:       log.Named("alerts"),
	}
}

// Send renders the "alert" template with a localized title and body for
// recipient and delivers it. Severity feeds the panel protocol's numeric
// level and the template's severity class.
func (a *Alerter) Send(ctx context.Context, sender, recipient string, severity common.Severity, titleCode, bodyCode string, args ...any) error {
	pref := ""
	if a.langs != nil {
		stored, err := a.langs.Language(ctx, recipient)
		if err != nil {
			a.log.Debug("Unable to read language preference, using fallback",
				zap.String("player", recipient), zap.Error(err))
		} else {
			pref = stored
		}
	}

	out, err := a.renderer.Render(ctx, render.Request{
		Template: "alert",
		Theme:    a.theme,
		Content: map[string]any{
			"title":    a.phrases.Resolve(pref, titleCode),
			"body":     a.phrases.Resolve(pref, bodyCode, args...),
			"sender":   sender,
			"severity": severity.String(),
			"level":    int(severity),
		},
	})
	if err != nil {
		return fmt.Errorf("unable to format alert %q for %q: %w", titleCode, recipient, err)
	}

	env, err := NewEnvelope(sender, recipient, out)
	if err != nil {
		return err
	}
	if err := a.transport.Deliver(ctx, env); err != nil {
		return fmt.Errorf("unable to deliver alert %q to %q: %w", titleCode, recipient, err)
	}
	return nil
}
