package markup

import (
	"fmt"
	"strings"
)

// Dump renders the tree in indented outline form for debug reports. Not a
// round-trippable format - Serialize is.
func Dump(nodes []*Node) string {
	var sb strings.Builder
	var dump func(n *Node, depth int)
	dump = func(n *Node, depth int) {
		indent := strings.Repeat("    ", depth)
		if n.Type == TextNode {
			fmt.Fprintf(&sb, "%s%q\n", indent, n.Text)
			return
		}

		fmt.Fprintf(&sb, "%s<%s> #%d", indent, n.Tag, n.Index)
		if len(n.ID) > 0 {
			fmt.Fprintf(&sb, " id=%s", n.ID)
		}
		if len(n.Classes) > 0 {
			fmt.Fprintf(&sb, " class=[%s]", strings.Join(n.Classes, " "))
		}
		if n.Style.Len() > 0 {
			fmt.Fprintf(&sb, " computed{%s}", n.Style.String())
		}
		if n.Inline.Len() > 0 {
			fmt.Fprintf(&sb, " inline{%s}", n.Inline.String())
		}
		for _, a := range n.Attrs {
			fmt.Fprintf(&sb, " %s=%q", a.Key, a.Value)
		}
		sb.WriteByte('\n')
		for _, c := range n.Children {
			dump(c, depth+1)
		}
	}
	for _, n := range nodes {
		dump(n, 0)
	}
	return sb.String()
}
