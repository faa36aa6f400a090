package patent

import (
	"fmt"
	"log/slog"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// sectionParser reads one of the sections that do not follow the
// itemprop convention
type sectionParser func(section *html.Node) (Node, error)

var sectionParsers = map[string]sectionParser{
	"abstract":    parseAbstract,
	"description": parseDescription,
	"claims":      parseClaims,
}

const (
	sectionXPath  = `.//section[@itemscope or @itemprop]`
	abstractXPath = `.//abstract`
)

// classXPath selects descendants carrying class among their classes
func classXPath(class string) string {
	return fmt.Sprintf(`.//*[contains(concat(' ', normalize-space(@class), ' '), ' %s ')]`, class)
}

// parseSections runs the section parsers over every section of the
// article. Their results replace whatever the property walk stored under
// the same key.
func parseSections(article *html.Node, node Node, logger *slog.Logger) error {
	sections, err := htmlquery.QueryAll(article, sectionXPath)
	if err != nil {
		return err
	}

	for _, section := range sections {
		name := propertyName(section)
		if name == "" {
			logger.Debug("skipping section without property", slog.String("tag", describe(section)))
			continue
		}

		parse, ok := sectionParsers[name]
		if !ok {
			logger.Warn("unhandled section",
				slog.String("section", name),
				slog.String("tag", describe(section)),
			)
			node.set(name, nil)
			continue
		}

		value, err := parse(section)
		if err != nil {
			return fmt.Errorf("section %q: %w", name, err)
		}
		node.set(name, value)
	}

	return nil
}

func parseAbstract(section *html.Node) (Node, error) {
	abstract, err := htmlquery.Query(section, abstractXPath)
	if err != nil {
		return nil, err
	}
	if abstract == nil {
		return nil, fmt.Errorf("%w: no <abstract> element", ErrStructuralMismatch)
	}

	res := attributes(abstract)
	res.set("content", textContent(abstract))
	return res, nil
}

func parseDescription(section *html.Node) (Node, error) {
	description, err := htmlquery.Query(section, classXPath(classDescription))
	if err != nil {
		return nil, err
	}
	if description == nil {
		return nil, fmt.Errorf("%w: no %q element", ErrStructuralMismatch, classDescription)
	}

	targets, err := htmlquery.QueryAll(description, fmt.Sprintf(
		`.//*[self::heading or contains(concat(' ', normalize-space(@class), ' '), ' %s ')]`,
		classDescriptionLine,
	))
	if err != nil {
		return nil, err
	}

	res := attributes(description, attrClass)
	res.set("parts", descriptionParts(targets))
	return res, nil
}

// descriptionParts groups description lines under the heading that
// precedes them. Lines before the first heading go to a part with an
// empty heading.
func descriptionParts(targets []*html.Node) []Node {
	newPart := func(heading string) Node {
		return Node{"heading": heading, "lines": []Node{}}
	}

	parts := []Node{}
	current := newPart("")
	for _, n := range targets {
		text := textContent(n)
		if n.Data == "heading" {
			parts = append(parts, current)
			current = newPart(text)
			continue
		}

		var num any
		if v, ok := attrValue(n, "num"); ok {
			num = v
		}
		current["lines"] = append(current["lines"].([]Node), Node{"num": num, "text": text})
	}

	return append(parts, current)
}

func parseClaims(section *html.Node) (Node, error) {
	claimsTag, err := htmlquery.Query(section, classXPath(classClaims))
	if err != nil {
		return nil, err
	}
	if claimsTag == nil {
		return nil, fmt.Errorf("%w: no %q element", ErrStructuralMismatch, classClaims)
	}

	claims, err := findClaims(claimsTag)
	if err != nil {
		return nil, err
	}

	list := make([]Node, 0, len(claims))
	for _, claim := range claims {
		c := attributes(claim, attrClass)
		c.set("text", textContent(claim))
		list = append(list, c)
	}

	res := attributes(claimsTag, attrClass)
	res.set("claims", list)
	return res, nil
}

// findClaims returns the "claim" elements under claimsTag.
//
// Pages nest claim elements at different depths, and only one level holds
// the claim attributes. Every "claim-text" element is mapped to its nearest
// "claim" ancestor; ancestors are returned once, in first-seen order.
func findClaims(claimsTag *html.Node) ([]*html.Node, error) {
	texts, err := htmlquery.QueryAll(claimsTag, classXPath(classClaimText))
	if err != nil {
		return nil, err
	}

	seen := map[*html.Node]struct{}{}
	claims := []*html.Node{}
	for _, t := range texts {
		claim := closestWithClass(t, classClaim)
		if claim == nil {
			return nil, fmt.Errorf("%w: %q element outside of a %q element",
				ErrStructuralMismatch, classClaimText, classClaim)
		}
		if _, ok := seen[claim]; ok {
			continue
		}
		seen[claim] = struct{}{}
		claims = append(claims, claim)
	}

	return claims, nil
}
