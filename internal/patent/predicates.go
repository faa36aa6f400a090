package patent

import (
	"slices"
	"strings"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attribute and class names used by patent pages
const (
	attrProperty = "itemprop"
	attrScope    = "itemscope"
	attrRepeat   = "repeat"
	attrClass    = "class"

	classDescription     = "description"
	classDescriptionLine = "description-line"
	classClaims          = "claims"
	classClaim           = "claim"
	classClaimText       = "claim-text"
)

func isElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// hasClass reports whether class is one of the node's classes
func hasClass(n *html.Node, class string) bool {
	if !isElement(n) {
		return false
	}
	return slices.Contains(strings.Fields(dom.ClassName(n)), class)
}

// isLabel reports whether the node opens a label group
func isLabel(n *html.Node) bool {
	if !isElement(n) {
		return false
	}
	return n.DataAtom == atom.Dt || n.DataAtom == atom.H2
}

// isSection reports whether the node is a section handled by the dispatcher.
// The walker skips every section declaring a property, so those count as
// scoped even without an itemscope attribute.
func isSection(n *html.Node) bool {
	if !isElement(n) || n.DataAtom != atom.Section {
		return false
	}
	return dom.HasAttribute(n, attrScope) || dom.HasAttribute(n, attrProperty)
}

// propertyName returns the declared property name, "" when there is none
func propertyName(n *html.Node) string {
	if !isElement(n) {
		return ""
	}
	return dom.GetAttribute(n, attrProperty)
}

func isScope(n *html.Node) bool {
	return isElement(n) && dom.HasAttribute(n, attrScope)
}

func isRepeatable(n *html.Node) bool {
	return isElement(n) && dom.HasAttribute(n, attrRepeat)
}

// closestWithClass returns the nearest strict ancestor carrying class
func closestWithClass(n *html.Node, class string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if hasClass(p, class) {
			return p
		}
	}
	return nil
}
