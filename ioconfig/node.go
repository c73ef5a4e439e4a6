// Package ioconfig implements the external interfaces:
// the tree-structured config/state document, the binary and ASCII
// particle encodings, unit rescaling, and the separate YAML
// run-parameters file. Grounded on the teacher's encoding/xml-free
// config style plus gopkg.in/yaml.v3 usage in core/program.go.
package ioconfig

import (
	"encoding/xml"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/edmdsim/dynamogo/simerr"
)

// titleCaser canonicalises an XML attribute name the same way the
// teacher's core/emu.go normalises opcode/direction tokens: lower-case,
// then title-case. gcells.cpp reads the attribute "lambda" but queries
// "Lambda"; canonicalising through this caser resolves both to "Lambda"
// so either spelling loads correctly.
var titleCaser = cases.Title(language.English)

func canonicalKey(s string) string {
	return titleCaser.String(strings.ToLower(s))
}

// Node is a generic attribute-and-child XML element: the shape the
// config/state schema needs (Simulation/Dynamics/
// ParticleData/Scheduler and their nested attribute-bearing children),
// parsed with stdlib encoding/xml. No third-party XML library in the
// retrieved corpus models this attribute-bag-plus-children shape more
// directly than encoding/xml's own recursive struct, and introducing one
// here would mean abandoning struct tags for a bespoke decoder with no
// grounding in the teacher or pack — see DESIGN.md.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []Node     `xml:",any"`
	CharData string     `xml:",chardata"`
}

// Attr resolves an attribute by name, case-insensitively.
func (n *Node) Attr(name string) (string, bool) {
	want := canonicalKey(name)
	for _, a := range n.Attrs {
		if canonicalKey(a.Name.Local) == want {
			return a.Value, true
		}
	}
	return "", false
}

// MustAttr resolves a required attribute or raises a ConfigError.
func (n *Node) MustAttr(name string) string {
	v, ok := n.Attr(name)
	if !ok {
		panic(simerr.NewConfigError("ioconfig.Node.MustAttr", "missing required attribute %q on <%s>", name, n.XMLName.Local))
	}
	return v
}

// Child returns the first child element with the given tag name.
func (n *Node) Child(name string) (*Node, bool) {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return &n.Children[i], true
		}
	}
	return nil, false
}

// ChildrenNamed returns every child element with the given tag name.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			out = append(out, &n.Children[i])
		}
	}
	return out
}
