// Package render drives the full message pipeline: template and theme
// lookup, placeholder substitution, markup parsing, stylesheet parsing,
// cascade resolution and serialization.
package render

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"chatml/cascade"
	"chatml/css"
	"chatml/markup"
	"chatml/registry"
	"chatml/tmpl"
)

// Stage identifies the pipeline stage a render failure came from.
type Stage string

const (
	StageFetch      Stage = "fetch"
	StageSubstitute Stage = "substitute"
	StageMarkup     Stage = "markup"
	StageStylesheet Stage = "stylesheet"
	StageCascade    Stage = "cascade"
	StageSerialize  Stage = "serialize"
)

// Error is a typed render failure carrying the failed stage. Render
// returns it with empty output instead of overloading the result value.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render: %s stage failed: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Request names what to render and with what data.
type Request struct {
	Template string            // template registry name
	Theme    string            // theme registry name
	Content  map[string]any    // placeholder tokens
	Palette  map[string]string // theme palette values
}

// ArtifactSink receives intermediate pipeline artifacts for debug
// reporting. config.Report satisfies it.
type ArtifactSink interface {
	StoreData(name string, data []byte)
}

// Renderer owns the pipeline components. Safe for concurrent use - every
// render works on local allocations, only the registries are shared.
type Renderer struct {
	log       *zap.Logger
	templates *registry.Templates
	themes    *registry.Themes
	subst     *tmpl.Engine
	markup    *markup.Parser
	sheets    *css.Parser
	resolver  *cascade.Resolver
	artifacts ArtifactSink
}

// WithArtifacts attaches a sink capturing every pipeline stage's output.
// Call before the first Render.
func (r *Renderer) WithArtifacts(sink ArtifactSink) *Renderer {
	r.artifacts = sink
	return r
}

func (r *Renderer) keep(name string, data string) {
	if r.artifacts != nil {
		r.artifacts.StoreData(name, []byte(data))
	}
}

// New creates a renderer over the given registries.
func New(log *zap.Logger, templates *registry.Templates, themes *registry.Themes) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("render")
	return &Renderer{
		log:       log,
		templates: templates,
		themes:    themes,
		subst:     tmpl.NewEngine(log),
		markup:    markup.NewParser(log),
		sheets:    css.NewParser(log),
		resolver:  cascade.NewResolver(log),
	}
}

// Render runs the pipeline and returns the final markup text. Template
// text and theme output are fetched concurrently; both must succeed.
// Every failure - including a panic anywhere in the pipeline - is caught
// here, logged, and returned as a *render.Error with empty output.
//
// Markup that parses with unbalanced tags is logged and rendered from the
// partial tree; it is a reported condition, not a failure.
func (r *Renderer) Render(ctx context.Context, req Request) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = r.fail(StageSerialize, fmt.Errorf("panic: %v", p))
			out = ""
		}
	}()

	if err := ctx.Err(); err != nil {
		return "", r.fail(StageFetch, err)
	}

	var (
		wg           sync.WaitGroup
		templateText string
		themeText    string
		templateErr  error
		themeErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		templateText, templateErr = r.templates.Get(req.Template)
	}()
	go func() {
		defer wg.Done()
		themeText, themeErr = r.themes.Generate(req.Theme, req.Palette)
	}()
	wg.Wait()
	if templateErr != nil {
		return "", r.fail(StageFetch, templateErr)
	}
	if themeErr != nil {
		return "", r.fail(StageFetch, themeErr)
	}

	r.keep("render/template.cml", templateText)
	r.keep("render/theme.css", themeText)

	ruleSet := r.sheets.Parse([]byte(themeText), req.Theme)
	vars := ruleSet.Vars()
	r.keep("render/ruleset.css", ruleSet.Dump())

	text := r.subst.Substitute(templateText, req.Content, vars)
	r.keep("render/substituted.cml", text)

	nodes, parseErr := r.markup.Parse(text)
	if parseErr != nil {
		if !errors.Is(parseErr, markup.ErrUnbalanced) {
			return "", r.fail(StageMarkup, parseErr)
		}
		r.log.Error("Template produced unbalanced markup, rendering partial tree",
			zap.String("template", req.Template), zap.Error(parseErr))
	}

	r.resolver.Resolve(nodes, ruleSet)
	r.keep("render/tree.txt", markup.Dump(nodes))

	out = markup.Serialize(nodes)
	r.keep("render/output.html", out)
	return out, nil
}

func (r *Renderer) fail(stage Stage, err error) error {
	rerr := &Error{Stage: stage, Err: err}
	r.log.Error("Render failed", zap.String("stage", string(stage)), zap.Error(err))
	return rerr
}
