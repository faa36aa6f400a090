package patent

import (
	"iter"
	"log/slog"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// walker holds the state of one parse call. Label groups read their
// following siblings, which the parent later reaches again through its
// children; the visited set makes sure every tag is handled once.
type walker struct {
	logger  *slog.Logger
	visited map[*html.Node]struct{}
}

func newWalker(logger *slog.Logger) *walker {
	return &walker{
		logger:  logger,
		visited: map[*html.Node]struct{}{},
	}
}

// axis yields the elements to walk next from a node
type axis func(*html.Node) iter.Seq[*html.Node]

func childElements(n *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		for c := dom.FirstElementChild(n); c != nil; c = dom.NextElementSibling(c) {
			if !yield(c) {
				return
			}
		}
	}
}

func followingSiblings(n *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		for s := dom.NextElementSibling(n); s != nil; s = dom.NextElementSibling(s) {
			if !yield(s) {
				return
			}
		}
	}
}

// walkAxis walks every element along the axis into node, until stop
// matches one of them.
func (w *walker) walkAxis(n *html.Node, node Node, next axis, stop func(*html.Node) bool) {
	for c := range next(n) {
		if stop != nil && stop(c) {
			return
		}
		w.walk(c, node)
	}
}

// walk reads the properties of a tag into node.
//
// A label tag starts a new group made of its following siblings, up to
// the next label. A tag without a property name is transparent and its
// children are walked instead. Sections are left to the section parsers.
func (w *walker) walk(n *html.Node, node Node) {
	if _, ok := w.visited[n]; ok {
		return
	}
	w.visited[n] = struct{}{}

	if isLabel(n) {
		key := w.label(n)
		w.logger.Debug("starting label group", slog.String("label", key))
		group := Node{}
		w.walkAxis(n, group, followingSiblings, isLabel)
		node.set(key, group)
		return
	}

	name := propertyName(n)
	switch {
	case name == "":
		w.walkAxis(n, node, childElements, nil)
	case n.DataAtom == atom.Section:
		return
	case isRepeatable(n):
		node.add(name, w.value(n, name))
	default:
		node.set(name, w.value(n, name))
	}
}

// label returns the group key of a label tag
func (w *walker) label(n *html.Node) string {
	text, ok := directText(n)
	if !ok {
		w.logger.Warn("label tag has no text", slog.String("tag", describe(n)))
		return ""
	}
	return normalizeLabel(text)
}
