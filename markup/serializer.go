package markup

import (
	"strings"
)

// Serialize emits markup text for a list of nodes. Text nodes emit their
// content verbatim. Element nodes emit a combined style attribute - the
// computed style overlaid by the author inline style, inline winning key
// for key - followed by class, id and passthrough attributes in that
// canonical order. Empty attributes are omitted.
//
// Serialization is not a byte-identical inverse of parsing: inter-tag
// whitespace is gone, attribute order is canonical, and unclosed tags are
// not reconstructed.
func Serialize(nodes []*Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		serializeNode(&sb, n)
	}
	return sb.String()
}

func serializeNode(sb *strings.Builder, n *Node) {
	if n.Type == TextNode {
		sb.WriteString(n.Text)
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.Tag)

	combined := n.Style.Clone()
	combined.Merge(n.Inline)
	if combined.Len() > 0 {
		sb.WriteString(` style="`)
		sb.WriteString(combined.String())
		sb.WriteByte('"')
	}
	if len(n.Classes) > 0 {
		sb.WriteString(` class="`)
		sb.WriteString(strings.Join(n.Classes, " "))
		sb.WriteByte('"')
	}
	if n.ID != "" {
		sb.WriteString(` id="`)
		sb.WriteString(n.ID)
		sb.WriteByte('"')
	}
	for _, a := range n.Attrs {
		if a.Value == "" {
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(a.Value)
		sb.WriteByte('"')
	}
	sb.WriteByte('>')

	for _, c := range n.Children {
		serializeNode(sb, c)
	}

	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteByte('>')
}
