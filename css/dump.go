package css

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// Dump renders the rule set as stylesheet-like text for debug reports.
// Categories come out in cascade order, selectors within a category in
// natural order, so dumps of the same sheet are comparable.
func (rs *RuleSet) Dump() string {
	if rs == nil {
		return ""
	}

	var sb strings.Builder

	writeBlock := func(selector string, d *Declarations) {
		if d.Len() == 0 {
			return
		}
		fmt.Fprintf(&sb, "%s { %s }\n", selector, d.String())
	}

	writeBlock("*", rs.Universal)

	var elementDump func(selector string, rule *ElementRule)
	elementDump = func(selector string, rule *ElementRule) {
		writeBlock(selector, rule.Styles)
		children := make([]string, 0, len(rule.Children))
		for tag := range rule.Children {
			children = append(children, tag)
		}
		sort.Sort(natural.StringSlice(children))
		for _, tag := range children {
			elementDump(selector+" "+tag, rule.Children[tag])
		}
	}

	elements := make([]string, 0, len(rs.Elements))
	for tag := range rs.Elements {
		elements = append(elements, tag)
	}
	sort.Sort(natural.StringSlice(elements))
	for _, tag := range elements {
		elementDump(tag, rs.Elements[tag])
	}

	for _, rules := range []map[string]*StyleRule{rs.Classes, rs.IDs} {
		keys := make([]string, 0, len(rules))
		for k := range rules {
			keys = append(keys, k)
		}
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			writeBlock(k, rules[k].Styles)
		}
	}

	functions := make([]string, 0, len(rs.Functions))
	for k := range rs.Functions {
		functions = append(functions, k)
	}
	sort.Sort(natural.StringSlice(functions))
	for _, k := range functions {
		for _, entry := range rs.Functions[k] {
			selector := entry.Target
			if len(entry.Args) > 0 {
				selector = fmt.Sprintf("%s(%s)", entry.Target, strings.Join(entry.Args, ", "))
			}
			writeBlock(selector, entry.Styles)
		}
	}

	return sb.String()
}
