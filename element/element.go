package element

import (
	"fmt"
	"strconv"
)

// Source element names of the two kinds we shape. Everything else is ignored.
const (
	NodeName = "node"
	WayName  = "way"
	TagName  = "tag"
	NdName   = "nd"
)

type Attr struct {
	Name  string
	Value string
}

type Attrs []Attr

// Get returns the value of the first attribute with name.
func (a Attrs) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Child is a direct child of an Element, e.g. <tag k="" v=""/> or <nd ref=""/>.
type Child struct {
	Name  string
	Attrs Attrs
}

// Element is a single top-level element of an OSM document with all direct
// children in document order. An Element owns no memory of its siblings.
type Element struct {
	Name     string
	Attrs    Attrs
	Children []Child
}

func (e *Element) String() string {
	id, _ := e.Attrs.Get("id")
	return fmt.Sprintf("%s %s", e.Name, id)
}

// Field is a raw attribute value. Valid is false if the attribute was not
// present in the source.
type Field struct {
	Value string
	Valid bool
}

// Set returns a valid Field for s.
func Set(s string) Field {
	return Field{Value: s, Valid: true}
}

func fieldOf(a Attrs, name string) Field {
	v, ok := a.Get(name)
	return Field{Value: v, Valid: ok}
}

// Point is the top-level record of a node.
type Point struct {
	ID        Field
	Lat       Field
	Lon       Field
	User      Field
	UID       Field
	Version   Field
	Changeset Field
	Timestamp Field
}

var PointColumns = []string{"id", "lat", "lon", "user", "uid", "version", "changeset", "timestamp"}

func NewPoint(a Attrs) *Point {
	return &Point{
		ID:        fieldOf(a, "id"),
		Lat:       fieldOf(a, "lat"),
		Lon:       fieldOf(a, "lon"),
		User:      fieldOf(a, "user"),
		UID:       fieldOf(a, "uid"),
		Version:   fieldOf(a, "version"),
		Changeset: fieldOf(a, "changeset"),
		Timestamp: fieldOf(a, "timestamp"),
	}
}

// Fields returns all fields in column order.
func (p *Point) Fields() []Field {
	return []Field{p.ID, p.Lat, p.Lon, p.User, p.UID, p.Version, p.Changeset, p.Timestamp}
}

// Path is the top-level record of a way.
type Path struct {
	ID        Field
	User      Field
	UID       Field
	Version   Field
	Changeset Field
	Timestamp Field
}

var PathColumns = []string{"id", "user", "uid", "version", "changeset", "timestamp"}

func NewPath(a Attrs) *Path {
	return &Path{
		ID:        fieldOf(a, "id"),
		User:      fieldOf(a, "user"),
		UID:       fieldOf(a, "uid"),
		Version:   fieldOf(a, "version"),
		Changeset: fieldOf(a, "changeset"),
		Timestamp: fieldOf(a, "timestamp"),
	}
}

func (p *Path) Fields() []Field {
	return []Field{p.ID, p.User, p.UID, p.Version, p.Changeset, p.Timestamp}
}

// Tag is a secondary attribute of a point or path. Key is the local part of
// the (aliased) source key, Type its namespace.
type Tag struct {
	ID    Field
	Key   string
	Value Field
	Type  string
}

var TagColumns = []string{"id", "key", "value", "type"}

func (t *Tag) Fields() []Field {
	return []Field{t.ID, Set(t.Key), t.Value, Set(t.Type)}
}

// Member references a point of a path at Position.
type Member struct {
	ID       Field
	NodeID   Field
	Position int
}

var MemberColumns = []string{"id", "node_id", "position"}

func (m *Member) Fields() []Field {
	return []Field{m.ID, m.NodeID, Set(strconv.Itoa(m.Position))}
}

// Record is the shaped form of a single element. Either Point or Path is set.
// Members is only used for paths.
type Record struct {
	Point   *Point
	Path    *Path
	Tags    []Tag
	Members []Member
}

// Kind returns the source element name of the record.
func (r *Record) Kind() string {
	if r.Path != nil {
		return WayName
	}
	return NodeName
}

// ID returns the raw identifier of the record.
func (r *Record) ID() string {
	if r.Path != nil {
		return r.Path.ID.Value
	}
	if r.Point != nil {
		return r.Point.ID.Value
	}
	return ""
}

// Row returns the values of fields; missing fields are empty.
func Row(fields []Field) []string {
	row := make([]string, len(fields))
	for i, f := range fields {
		row[i] = f.Value
	}
	return row
}
