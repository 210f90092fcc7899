package markup_test

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"chatml/markup"
)

func TestSerialize_RoundTrip(t *testing.T) {
	p := markup.NewParser(zap.NewNop())

	input := `<div class="hl" id="msg" data-kind="alert" style="color: red;">hello <span>there</span></div>`
	nodes, err := p.Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	out := markup.Serialize(nodes)

	// verify structure with an independent XML parser; attribute order and
	// inter-tag whitespace are allowed to differ from the input
	doc := etree.NewDocument()
	if err := doc.ReadFromString(out); err != nil {
		t.Fatalf("serialized output is not well-formed: %v\n%s", err, out)
	}
	div := doc.Root()
	if div.Tag != "div" {
		t.Fatalf("root tag = %q", div.Tag)
	}
	if got := div.SelectAttrValue("class", ""); got != "hl" {
		t.Errorf("class = %q", got)
	}
	if got := div.SelectAttrValue("id", ""); got != "msg" {
		t.Errorf("id = %q", got)
	}
	if got := div.SelectAttrValue("data-kind", ""); got != "alert" {
		t.Errorf("data-kind = %q", got)
	}
	if got := div.SelectAttrValue("style", ""); got != "color: red;" {
		t.Errorf("style = %q", got)
	}
	span := div.SelectElement("span")
	if span == nil || span.Text() != "there" {
		t.Fatalf("span = %+v", span)
	}
}

func TestSerialize_InlineOverlaysComputed(t *testing.T) {
	n := markup.NewElement("div")
	n.Style.Set("color", "blue")
	n.Style.Set("margin", "0")
	n.Inline.Set("color", "green")
	n.Children = append(n.Children, markup.NewText("x"))

	out := markup.Serialize([]*markup.Node{n})

	want := `<div style="color: green; margin: 0;">x</div>`
	if out != want {
		t.Errorf("Serialize = %q, want %q", out, want)
	}
}

func TestSerialize_AttributeOrderCanonical(t *testing.T) {
	n := markup.NewElement("span")
	n.Attrs = append(n.Attrs, markup.Attr{Key: "data-b", Value: "2"}, markup.Attr{Key: "data-a", Value: "1"})
	n.ID = "x"
	n.Classes = []string{"c1", "c2"}
	n.Inline.Set("color", "red")

	out := markup.Serialize([]*markup.Node{n})

	want := `<span style="color: red;" class="c1 c2" id="x" data-b="2" data-a="1"></span>`
	if out != want {
		t.Errorf("Serialize = %q, want %q", out, want)
	}
}

func TestSerialize_OmitsEmptyAttributes(t *testing.T) {
	n := markup.NewElement("div")
	n.Attrs = append(n.Attrs, markup.Attr{Key: "title", Value: ""})
	n.Children = append(n.Children, markup.NewText("x"))

	out := markup.Serialize([]*markup.Node{n})

	if strings.Contains(out, "style=") || strings.Contains(out, "class=") ||
		strings.Contains(out, "id=") || strings.Contains(out, "title=") {
		t.Errorf("empty attributes must be omitted: %q", out)
	}
}

func TestSerialize_TextVerbatim(t *testing.T) {
	nodes := []*markup.Node{markup.NewText("plain & raw text")}
	if out := markup.Serialize(nodes); out != "plain & raw text" {
		t.Errorf("Serialize = %q", out)
	}
}
