package patent

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
)

// directText returns the node's single text run. A node has one when its
// only child is a text node, or an element that itself has one.
func directText(n *html.Node) (string, bool) {
	for n != nil {
		c := n.FirstChild
		if c == nil || c.NextSibling != nil {
			return "", false
		}
		switch c.Type {
		case html.TextNode:
			return c.Data, true
		case html.ElementNode:
			n = c
		default:
			return "", false
		}
	}
	return "", false
}

// textContent returns all descendant text with whitespace collapsed.
// Whitespace between text nodes becomes a single space rather than being
// dropped, so "<b>claim</b> 1" reads "claim 1", not "claim1".
func textContent(n *html.Node) string {
	return strings.Join(strings.Fields(dom.TextContent(n)), " ")
}

// attributes copies the node's attributes, leaving out the given keys
func attributes(n *html.Node, except ...string) Node {
	res := Node{}
	for _, a := range n.Attr {
		if a.Namespace != "" || slices.Contains(except, a.Key) {
			continue
		}
		res[a.Key] = a.Val
	}
	return res
}

// describe returns tag information for log records
func describe(n *html.Node) string {
	b := new(strings.Builder)
	b.WriteString("<" + n.Data)
	for _, a := range n.Attr {
		fmt.Fprintf(b, " %s=%q", a.Key, a.Val)
	}
	b.WriteString(">")
	return b.String()
}

// attrValue returns an attribute value and whether it is present
func attrValue(n *html.Node, key string) (string, bool) {
	if !dom.HasAttribute(n, key) {
		return "", false
	}
	return dom.GetAttribute(n, key), true
}
