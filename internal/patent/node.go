// Package patent converts a rendered patent-detail page into a nested
// key/value structure.
//
// The page mixes microdata-style properties (itemprop, itemscope) with
// label tags (<dt>, <h2>) that group the properties following them, plus
// three sections (abstract, description, claims) laid out in their own way.
package patent

// Node maps property names to values.
//
// A value is one of:
//   - string: scalar property
//   - Node: scoped property, label group or section
//   - []any: repeatable property, in first-seen order
//   - []Node: description parts, description lines, claims
//   - nil: no value could be resolved for the key
type Node map[string]any

// set stores a value, overwriting any previous one
func (n Node) set(key string, value any) {
	n[key] = value
}

// add appends a value to a repeatable property
func (n Node) add(key string, value any) {
	list, _ := n[key].([]any)
	n[key] = append(list, value)
}
