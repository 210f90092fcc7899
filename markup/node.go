// Package markup parses and serializes the message markup dialect used by
// the chat panel: a small HTML-like language with style, class and id
// attributes, no void elements and no entity handling.
package markup

import (
	"chatml/css"
)

// NodeType discriminates the two node variants of the markup tree.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Attr is a passthrough attribute (anything but style, class, id).
// Attributes keep their source order.
type Attr struct {
	Key   string
	Value string
}

// Node is one node of the markup tree. Element nodes carry a tag,
// attributes and children; text nodes carry only Text.
//
// Style holds cascade-computed declarations and starts empty. Inline holds
// the author-declared declarations parsed from the style attribute; the
// cascade only consults it, except for !important declarations which are
// forced into it.
type Node struct {
	Type NodeType

	Tag     string
	Style   *css.Declarations
	Inline  *css.Declarations
	Classes []string
	ID      string
	Attrs   []Attr

	Children []*Node

	// Index is the 1-based position among the parent's element children.
	Index int

	Text string
}

// NewElement creates an element node with empty style maps.
func NewElement(tag string) *Node {
	return &Node{
		Type:   ElementNode,
		Tag:    tag,
		Style:  css.NewDeclarations(),
		Inline: css.NewDeclarations(),
	}
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

// Attr returns the value of a passthrough attribute.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Walk calls fn for every element node of the tree in depth-first source
// order, passing the node's parent element (nil at top level).
func Walk(nodes []*Node, fn func(n, parent *Node)) {
	var walk func(n, parent *Node)
	walk = func(n, parent *Node) {
		if n.Type != ElementNode {
			return
		}
		fn(n, parent)
		for _, c := range n.Children {
			walk(c, n)
		}
	}
	for _, n := range nodes {
		walk(n, nil)
	}
}
