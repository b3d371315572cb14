/*
Package shape turns OSM elements into records of the five output tables.

A node becomes a Point with one Tag for each <tag> child. A way becomes a
Path with one Tag for each <tag> child and one Member for each <nd> child.
Keys are aliased and values cleaned (see package clean) before the key is
split into type and local key.
*/
package shape

import (
	"sync/atomic"

	"github.com/omniscale/osmcsv/clean"
	"github.com/omniscale/osmcsv/element"
	"github.com/omniscale/osmcsv/log"
)

type Shaper struct {
	noRule  int64
	cleaned int64
	cleaner *clean.Cleaner
}

func New(c *clean.Cleaner) *Shaper {
	return &Shaper{cleaner: c}
}

// Shape returns the record for a node or way element. Other elements return
// nil. Shape is safe for concurrent use.
func (s *Shaper) Shape(e *element.Element) *element.Record {
	switch e.Name {
	case element.NodeName:
		p := element.NewPoint(e.Attrs)
		return &element.Record{
			Point: p,
			Tags:  s.Tags(e, p.ID),
		}
	case element.WayName:
		p := element.NewPath(e.Attrs)
		return &element.Record{
			Path:    p,
			Tags:    s.Tags(e, p.ID),
			Members: Members(e, p.ID),
		}
	}
	return nil
}

// Tags returns a Tag for each <tag> child of e in document order. All tags
// share the id of the element.
func (s *Shaper) Tags(e *element.Element, id element.Field) []element.Tag {
	var tags []element.Tag
	for _, c := range e.Children {
		if c.Name != element.TagName {
			continue
		}
		rawKey, _ := c.Attrs.Get("k")
		key := s.cleaner.Key(rawKey)

		value := element.Field{}
		if v, ok := c.Attrs.Get("v"); ok {
			cleaned, result := s.cleaner.Value(key, v)
			switch result {
			case clean.Cleaned:
				atomic.AddInt64(&s.cleaned, 1)
			case clean.NoRule:
				s.reportNoRule(e, key, v)
			}
			value = element.Set(cleaned)
		}

		typ, local := SplitKey(key)
		tags = append(tags, element.Tag{
			ID:    id,
			Key:   local,
			Value: value,
			Type:  typ,
		})
	}
	return tags
}

func (s *Shaper) reportNoRule(e *element.Element, key, value string) {
	tables := s.cleaner.Tables()
	if tables.IsStreetKey(key) {
		// canonical street types are expected to have no rule
		if token, ok := clean.StreetTypeToken(value); ok && tables.IsCanonicalStreetType(token) {
			return
		}
		atomic.AddInt64(&s.noRule, 1)
		log.Printf("[debug] %s: unknown street type in %q", e, value)
		return
	}
	atomic.AddInt64(&s.noRule, 1)
	log.Printf("[warn] %s: no format for %s=%q, keeping value", e, key, value)
}

// NoRule returns the number of values that were kept because no cleaning
// rule matched them.
func (s *Shaper) NoRule() int64 {
	return atomic.LoadInt64(&s.noRule)
}

// Cleaned returns the number of rewritten values.
func (s *Shaper) Cleaned() int64 {
	return atomic.LoadInt64(&s.cleaned)
}
