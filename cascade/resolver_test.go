package cascade_test

import (
	"testing"

	"go.uber.org/zap"

	"chatml/cascade"
	"chatml/css"
	"chatml/markup"
)

func parseBoth(t *testing.T, markupText, sheetText string) []*markup.Node {
	t.Helper()
	nodes, err := markup.NewParser(zap.NewNop()).Parse(markupText)
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}
	rs := css.NewParser(zap.NewNop()).Parse([]byte(sheetText))
	cascade.NewResolver(zap.NewNop()).Resolve(nodes, rs)
	return nodes
}

func styleValue(t *testing.T, d *css.Declarations, key string) string {
	t.Helper()
	v, ok := d.Get(key)
	if !ok {
		t.Fatalf("expected %q to be set", key)
	}
	return v
}

func TestResolve_CategoryPrecedence(t *testing.T) {
	nodes := parseBoth(t,
		`<div class="hl">x</div>`,
		`* { margin: 0; } div { color: blue; } .hl { color: red; }`)

	n := nodes[0]
	if got := styleValue(t, n.Style, "color"); got != "red" {
		t.Errorf("class must beat element: color = %q", got)
	}
	if got := styleValue(t, n.Style, "margin"); got != "0" {
		t.Errorf("universal margin = %q", got)
	}
}

func TestResolve_IDBeatsClass(t *testing.T) {
	nodes := parseBoth(t,
		`<div class="hl" id="msg">x</div>`,
		`.hl { color: red; } #msg { color: purple; }`)

	if got := styleValue(t, nodes[0].Style, "color"); got != "purple" {
		t.Errorf("id must beat class: color = %q", got)
	}
}

func TestResolve_LastListedClassWins(t *testing.T) {
	nodes := parseBoth(t,
		`<div class="a b">x</div>`,
		`.a { color: red; } .b { color: green; }`)

	if got := styleValue(t, nodes[0].Style, "color"); got != "green" {
		t.Errorf("last listed class must win: color = %q", got)
	}
}

func TestResolve_InlineBeatsCascade(t *testing.T) {
	nodes := parseBoth(t,
		`<div class="hl" style="color: green;">x</div>`,
		`.hl { color: red; }`)

	n := nodes[0]
	if got := styleValue(t, n.Inline, "color"); got != "green" {
		t.Errorf("inline color = %q, want green", got)
	}
	if n.Style.Has("color") {
		t.Error("non-important cascade value must not shadow an inline key")
	}
}

func TestResolve_ImportantBeatsInline(t *testing.T) {
	nodes := parseBoth(t,
		`<div class="hl" style="color: green;">x</div>`,
		`.hl { color: red !important; }`)

	if got := styleValue(t, nodes[0].Inline, "color"); got != "red" {
		t.Errorf("important cascade value must replace inline: color = %q", got)
	}
}

func TestResolve_VarReferences(t *testing.T) {
	nodes := parseBoth(t,
		`<div>x</div>`,
		`:root { --accent: teal; } div { color: var(--accent); border-color: var(--missing); }`)

	n := nodes[0]
	if got := styleValue(t, n.Style, "color"); got != "teal" {
		t.Errorf("color = %q, want resolved variable", got)
	}
	if got := styleValue(t, n.Style, "border-color"); got != "var(--missing)" {
		t.Errorf("undeclared variable must pass through: %q", got)
	}
}

func TestResolve_RecursesIntoChildren(t *testing.T) {
	nodes := parseBoth(t,
		`<div><span>x</span></div>`,
		`span { color: gray; }`)

	span := nodes[0].Children[0]
	if got := styleValue(t, span.Style, "color"); got != "gray" {
		t.Errorf("child span color = %q", got)
	}
}

// The parent-scoped child bucket is reserved: the stylesheet parser never
// fills it, so resolving against a parsed rule set cannot exercise it.
// A hand-built rule set proves the hook still works.
func TestResolve_ParentScopedHook(t *testing.T) {
	nodes, err := markup.NewParser(zap.NewNop()).Parse(`<div><span>x</span></div><span>y</span>`)
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}

	rs := css.NewRuleSet()
	child := &css.ElementRule{Styles: css.NewDeclarations()}
	child.Styles.Set("color", "orange")
	rs.Elements["div"] = &css.ElementRule{
		Styles:   css.NewDeclarations(),
		Children: map[string]*css.ElementRule{"span": child},
	}

	cascade.NewResolver(zap.NewNop()).Resolve(nodes, rs)

	inner := nodes[0].Children[0]
	if got := styleValue(t, inner.Style, "color"); got != "orange" {
		t.Errorf("parent-scoped style = %q", got)
	}
	if nodes[1].Style.Has("color") {
		t.Error("top-level span must not receive the parent-scoped style")
	}

	// parsed rule sets never populate the bucket
	parsed := css.NewParser(zap.NewNop()).Parse([]byte(`div span { color: orange; }`))
	if el, ok := parsed.Elements["div"]; ok && el.Children != nil {
		t.Error("parser unexpectedly populates the child bucket now; revisit this test")
	}
}

func TestResolve_SerializedResult(t *testing.T) {
	nodes := parseBoth(t,
		`<div class="hl">x</div>`,
		`:root { --pad: 2px; } * { margin: 0; } .hl { padding: var(--pad); }`)

	out := markup.Serialize(nodes)
	want := `<div style="margin: 0; padding: 2px;" class="hl">x</div>`
	if out != want {
		t.Errorf("Serialize = %q, want %q", out, want)
	}
}
