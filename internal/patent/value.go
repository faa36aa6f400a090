package patent

import (
	"log/slog"
	"strings"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
)

// valueResolver returns a property value when it applies to the tag
type valueResolver func(w *walker, n *html.Node) (any, bool)

// valueResolvers lists the ways to read a property value, in priority
// order. The first one that applies wins. It is filled in init since
// scopeValue walks back into the walker.
var valueResolvers []valueResolver

func init() {
	valueResolvers = []valueResolver{
		scopeValue,                // itemscope: nested node
		attributeValue("content"), // <meta>
		attributeValue("href"),    // <a>, <link>
		attributeValue("src"),     // <img>
		textValue,
	}
}

// value resolves the value of a property tag. It returns nil, with a
// warning, when no resolver applies.
func (w *walker) value(n *html.Node, name string) any {
	for _, resolve := range valueResolvers {
		if v, ok := resolve(w, n); ok {
			return v
		}
	}

	w.logger.Warn("omitting property value for tag with nested content",
		slog.String("property", name),
		slog.String("tag", describe(n)),
	)
	return nil
}

func scopeValue(w *walker, n *html.Node) (any, bool) {
	if !isScope(n) {
		return nil, false
	}
	child := Node{}
	w.walkAxis(n, child, childElements, nil)
	return child, true
}

func attributeValue(name string) valueResolver {
	return func(_ *walker, n *html.Node) (any, bool) {
		if v := dom.GetAttribute(n, name); v != "" {
			return v, true
		}
		return nil, false
	}
}

func textValue(_ *walker, n *html.Node) (any, bool) {
	text, ok := directText(n)
	if !ok {
		return nil, false
	}
	return strings.TrimSpace(text), true
}
