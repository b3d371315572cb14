package reader

import (
	"sort"
	"strconv"
	"time"

	osm "github.com/omniscale/go-osm"

	"github.com/omniscale/osmcsv/element"
)

// Elements parsed by go-osm carry tags as maps. Tags are sorted by key, so
// the output does not change between runs.

func nodeElement(n *osm.Node) *element.Element {
	a := element.Attrs{
		{Name: "id", Value: strconv.FormatInt(n.ID, 10)},
		{Name: "lat", Value: formatCoord(n.Lat)},
		{Name: "lon", Value: formatCoord(n.Long)},
	}
	return &element.Element{
		Name:     element.NodeName,
		Attrs:    append(a, metadataAttrs(n.Metadata)...),
		Children: tagChildren(n.Tags),
	}
}

func wayElement(w *osm.Way) *element.Element {
	a := element.Attrs{
		{Name: "id", Value: strconv.FormatInt(w.ID, 10)},
	}
	children := tagChildren(w.Tags)
	for _, ref := range w.Refs {
		children = append(children, element.Child{
			Name:  element.NdName,
			Attrs: element.Attrs{{Name: "ref", Value: strconv.FormatInt(ref, 10)}},
		})
	}
	return &element.Element{
		Name:     element.WayName,
		Attrs:    append(a, metadataAttrs(w.Metadata)...),
		Children: children,
	}
}

func metadataAttrs(md *osm.Metadata) element.Attrs {
	if md == nil {
		return nil
	}
	return element.Attrs{
		{Name: "version", Value: strconv.FormatInt(int64(md.Version), 10)},
		{Name: "changeset", Value: strconv.FormatInt(md.Changeset, 10)},
		{Name: "timestamp", Value: md.Timestamp.UTC().Format(time.RFC3339)},
		{Name: "user", Value: md.UserName},
		{Name: "uid", Value: strconv.FormatInt(int64(md.UserID), 10)},
	}
}

func tagChildren(tags osm.Tags) []element.Child {
	if len(tags) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	children := make([]element.Child, len(keys))
	for i, k := range keys {
		children[i] = element.Child{
			Name:  element.TagName,
			Attrs: element.Attrs{{Name: "k", Value: k}, {Name: "v", Value: tags[k]}},
		}
	}
	return children
}

// formatCoord formats with the 7 decimal precision of OSM and without
// trailing zeros.
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 7, 64)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
