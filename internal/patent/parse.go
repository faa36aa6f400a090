package patent

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrStructuralMismatch is returned when the document does not follow
// the patent page layout at all: no <html> or <article> element, or a
// section missing its expected content element.
var ErrStructuralMismatch = errors.New("document does not match the patent page layout")

// Option configures a parse call.
type Option func(p *options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger receiving parse diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *options) {
		p.logger = logger
	}
}

// Parse parses an HTML patent page.
func Parse(src string, opts ...Option) (Node, error) {
	return ParseReader(strings.NewReader(src), opts...)
}

// ParseReader parses an HTML patent page read from r.
func ParseReader(r io.Reader, opts ...Option) (Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return ParseNode(doc, opts...)
}

// ParseNode reads the patent data of an already parsed document.
//
// Generic properties are read first from the <article> element, then the
// abstract, description and claims sections are parsed and stored under
// their property names, replacing any value from the first pass.
func ParseNode(doc *html.Node, opts ...Option) (Node, error) {
	o := &options{}
	for _, fn := range opts {
		if fn != nil {
			fn(o)
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	root := findElement(doc, atom.Html)
	if root == nil {
		return nil, fmt.Errorf("%w: no <html> element", ErrStructuralMismatch)
	}
	article := findElement(root, atom.Article)
	if article == nil {
		return nil, fmt.Errorf("%w: no <article> element", ErrStructuralMismatch)
	}

	data := Node{}
	newWalker(o.logger).walk(article, data)
	if err := parseSections(article, data, o.logger); err != nil {
		return nil, err
	}

	return data, nil
}

// findElement returns the first element with the given tag, n included
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	if nodes := dom.GetElementsByTagName(n, a.String()); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}
