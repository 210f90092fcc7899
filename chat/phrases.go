package chat

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Phrases resolves message codes to localized display strings. Tables are
// keyed by language tag, then by phrase code; the best table for a
// player's stored preference is chosen with a BCP-47 matcher.
type Phrases struct {
	fallback language.Tag
	matcher  language.Matcher
	tables   map[language.Tag]map[string]string
	log      *zap.Logger
}

// NewPhrases builds a phrase store. The first table's language is the
// fallback for players whose preference matches nothing.
func NewPhrases(log *zap.Logger, tables map[language.Tag]map[string]string) *Phrases {
	if log == nil {
		log = zap.NewNop()
	}
	tags := make([]language.Tag, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		tags = []language.Tag{language.English}
	}
	// deterministic matcher preference: English first when present
	for i, tag := range tags {
		if tag == language.English && i != 0 {
			tags[0], tags[i] = tags[i], tags[0]
		}
	}
	return &Phrases{
		fallback: tags[0],
		matcher:  language.NewMatcher(tags),
		tables:   tables,
		log:      log.Named("phrases"),
	}
}

// Resolve returns the display string for code in the best language for
// pref, formatting args into it. An unknown code yields the code itself
// so a missing translation never hides an alert.
func (p *Phrases) Resolve(pref, code string, args ...any) string {
	tag := p.fallback
	if pref != "" {
		if want, err := language.Parse(pref); err == nil {
			matched, _, _ := p.matcher.Match(want)
			// matcher may return an extended tag; find the table key it
			// was derived from
			for candidate := matched; !candidate.IsRoot(); candidate = candidate.Parent() {
				if _, ok := p.tables[candidate]; ok {
					tag = candidate
					break
				}
			}
		} else {
			p.log.Debug("Unparseable language preference", zap.String("pref", pref), zap.Error(err))
		}
	}

	table := p.tables[tag]
	format, ok := table[code]
	if !ok {
		p.log.Debug("Unknown phrase code", zap.String("code", code), zap.Stringer("language", tag))
		return code
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// DefaultTables returns the builtin phrase tables shipped with the
// program. Server operators extend them with their own codes at startup.
func DefaultTables() map[language.Tag]map[string]string {
	return map[language.Tag]map[string]string{
		language.English: {
			"alert.title.generic":  "Server notice",
			"alert.title.restart":  "Restart pending",
			"alert.title.kicked":   "Connection closed",
			"alert.body.restart":   "The server restarts in %v minutes, find a safe spot.",
			"alert.body.kicked":    "You were disconnected: %v",
			"alert.body.maintward": "Maintenance window is in effect, expect turbulence.",
		},
		language.German: {
			"alert.title.generic":  "Serverhinweis",
			"alert.title.restart":  "Neustart steht bevor",
			"alert.title.kicked":   "Verbindung getrennt",
			"alert.body.restart":   "Der Server startet in %v Minuten neu, such dir einen sicheren Ort.",
			"alert.body.kicked":    "Du wurdest getrennt: %v",
			"alert.body.maintward": "Wartungsfenster aktiv, mit Störungen ist zu rechnen.",
		},
		language.French: {
			"alert.title.generic":  "Avis du serveur",
			"alert.title.restart":  "Redémarrage imminent",
			"alert.title.kicked":   "Connexion fermée",
			"alert.body.restart":   "Le serveur redémarre dans %v minutes, mettez-vous à l'abri.",
			"alert.body.kicked":    "Vous avez été déconnecté : %v",
			"alert.body.maintward": "Fenêtre de maintenance en cours, attendez-vous à des perturbations.",
		},
	}
}
