package shape

import "github.com/omniscale/osmcsv/element"

// Members returns the node references of a way in document order. Positions
// start at 0 and only count <nd> children.
func Members(e *element.Element, id element.Field) []element.Member {
	var members []element.Member
	pos := 0
	for _, c := range e.Children {
		if c.Name != element.NdName {
			continue
		}
		ref, ok := c.Attrs.Get("ref")
		members = append(members, element.Member{
			ID:       id,
			NodeID:   element.Field{Value: ref, Valid: ok},
			Position: pos,
		})
		pos++
	}
	return members
}
