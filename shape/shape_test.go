package shape

import (
	"reflect"
	"testing"

	"github.com/omniscale/osmcsv/clean"
	"github.com/omniscale/osmcsv/element"
)

func tag(k, v string) element.Child {
	return element.Child{Name: element.TagName, Attrs: element.Attrs{{Name: "k", Value: k}, {Name: "v", Value: v}}}
}

func nd(ref string) element.Child {
	return element.Child{Name: element.NdName, Attrs: element.Attrs{{Name: "ref", Value: ref}}}
}

func TestSplitKey(t *testing.T) {
	for _, tc := range []struct {
		key, typ, local string
	}{
		{"name", "regular", "name"},
		{"", "regular", ""},
		{"addr:street", "addr", "street"},
		{"a:b:c", "a", "b:c"},
		{":foo", "", "foo"},
		{"foo:", "foo", ""},
		{"name:pt", "name", "pt"},
	} {
		typ, local := SplitKey(tc.key)
		if typ != tc.typ || local != tc.local {
			t.Errorf("SplitKey(%q) = %q, %q, want %q, %q", tc.key, typ, local, tc.typ, tc.local)
		}
	}
}

func TestShapeNode(t *testing.T) {
	s := New(clean.NewDefault())
	rec := s.Shape(&element.Element{
		Name:     element.NodeName,
		Attrs:    element.Attrs{{Name: "id", Value: "100"}, {Name: "lat", Value: "-22.9"}, {Name: "lon", Value: "-43.2"}},
		Children: []element.Child{tag("addr:street", "Av. Brasil")},
	})
	if rec == nil || rec.Point == nil || rec.Path != nil {
		t.Fatal(rec)
	}
	want := element.Point{ID: element.Set("100"), Lat: element.Set("-22.9"), Lon: element.Set("-43.2")}
	if *rec.Point != want {
		t.Errorf("%#v != %#v", *rec.Point, want)
	}
	wantTags := []element.Tag{
		{ID: element.Set("100"), Key: "street", Value: element.Set("Avenida Brasil"), Type: "addr"},
	}
	if !reflect.DeepEqual(rec.Tags, wantTags) {
		t.Errorf("%#v != %#v", rec.Tags, wantTags)
	}
	if rec.Members != nil {
		t.Error("node with members", rec.Members)
	}
	if s.Cleaned() != 1 {
		t.Error("cleaned", s.Cleaned())
	}
}

func TestShapeWay(t *testing.T) {
	s := New(clean.NewDefault())
	rec := s.Shape(&element.Element{
		Name:  element.WayName,
		Attrs: element.Attrs{{Name: "id", Value: "200"}, {Name: "user", Value: "João"}},
		Children: []element.Child{
			tag("highway", "residential"),
			nd("1"),
			tag("name", "Rua A"),
			nd("2"),
		},
	})
	if rec == nil || rec.Path == nil || rec.Point != nil {
		t.Fatal(rec)
	}
	if rec.Path.User != element.Set("João") || rec.Path.UID.Valid {
		t.Error(rec.Path)
	}
	wantMembers := []element.Member{
		{ID: element.Set("200"), NodeID: element.Set("1"), Position: 0},
		{ID: element.Set("200"), NodeID: element.Set("2"), Position: 1},
	}
	if !reflect.DeepEqual(rec.Members, wantMembers) {
		t.Errorf("%#v != %#v", rec.Members, wantMembers)
	}
	wantTags := []element.Tag{
		{ID: element.Set("200"), Key: "highway", Value: element.Set("residential"), Type: "regular"},
		{ID: element.Set("200"), Key: "name", Value: element.Set("Rua A"), Type: "regular"},
	}
	if !reflect.DeepEqual(rec.Tags, wantTags) {
		t.Errorf("%#v != %#v", rec.Tags, wantTags)
	}
}

func TestShapeAliasBeforeClean(t *testing.T) {
	s := New(clean.NewDefault())
	rec := s.Shape(&element.Element{
		Name:  element.NodeName,
		Attrs: element.Attrs{{Name: "id", Value: "1"}},
		Children: []element.Child{
			tag("addr:zipcode", "20000000"),
			tag("CEP_LD", "22290140"),
			tag("cep:impar", "22290-140"),
			tag("zipcode", "20000000"),
		},
	})
	want := []element.Tag{
		{ID: element.Set("1"), Key: "postcode", Value: element.Set("20000-000"), Type: "addr"},
		{ID: element.Set("1"), Key: "right", Value: element.Set("22290-140"), Type: "zip"},
		{ID: element.Set("1"), Key: "left", Value: element.Set("22290-140"), Type: "zip"},
		{ID: element.Set("1"), Key: "zipcode", Value: element.Set("20000000"), Type: "regular"},
	}
	if !reflect.DeepEqual(rec.Tags, want) {
		t.Errorf("%#v != %#v", rec.Tags, want)
	}
}

func TestShapeNoRule(t *testing.T) {
	s := New(clean.NewDefault())
	rec := s.Shape(&element.Element{
		Name:  element.NodeName,
		Attrs: element.Attrs{{Name: "id", Value: "1"}},
		Children: []element.Child{
			tag("phone", "ramal 12"),
			tag("addr:street", "Rua do Ouvidor"),
			tag("addr:street", "Rue X"),
			tag("addr:street", "Servidão B"),
		},
	})
	values := []string{}
	for _, tag := range rec.Tags {
		values = append(values, tag.Value.Value)
	}
	want := []string{"ramal 12", "Rua do Ouvidor", "Rua X", "Servidão B"}
	if !reflect.DeepEqual(values, want) {
		t.Error(values)
	}
	// canonical street types are not counted
	if s.NoRule() != 2 {
		t.Error("no rule", s.NoRule())
	}
}

func TestShapeEmpty(t *testing.T) {
	s := New(clean.NewDefault())
	rec := s.Shape(&element.Element{Name: element.WayName, Attrs: element.Attrs{{Name: "id", Value: "3"}}})
	if rec == nil {
		t.Fatal("no record")
	}
	if len(rec.Tags) != 0 || len(rec.Members) != 0 {
		t.Error(rec.Tags, rec.Members)
	}
}

func TestShapeOther(t *testing.T) {
	s := New(clean.NewDefault())
	for _, name := range []string{"relation", "bounds", "tag", ""} {
		if rec := s.Shape(&element.Element{Name: name}); rec != nil {
			t.Error(name, rec)
		}
	}
}

func TestShapeMissingValues(t *testing.T) {
	s := New(clean.NewDefault())
	rec := s.Shape(&element.Element{
		Name: element.WayName,
		Children: []element.Child{
			{Name: element.TagName, Attrs: element.Attrs{{Name: "k", Value: "name"}}},
			{Name: element.NdName},
		},
	})
	if rec.Path.ID.Valid || rec.Tags[0].ID.Valid || rec.Members[0].ID.Valid {
		t.Error("id must stay invalid", rec)
	}
	if rec.Tags[0].Value.Valid {
		t.Error("tag value must stay invalid", rec.Tags[0])
	}
	if rec.Members[0].NodeID.Valid {
		t.Error("ref must stay invalid", rec.Members[0])
	}
}

func TestMembersIgnoresTags(t *testing.T) {
	e := &element.Element{
		Name:     element.WayName,
		Children: []element.Child{tag("a", "b"), tag("c", "d"), nd("7"), tag("e", "f"), nd("7"), nd("9")},
	}
	members := Members(e, element.Set("5"))
	if len(members) != 3 {
		t.Fatal(members)
	}
	for i, m := range members {
		if m.Position != i {
			t.Error(i, m)
		}
	}
	if members[1].NodeID.Value != "7" || members[2].NodeID.Value != "9" {
		t.Error(members)
	}
}
