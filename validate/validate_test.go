package validate

import (
	"reflect"
	"strings"
	"testing"

	"github.com/omniscale/osmcsv/element"
)

func fullNode() *element.Record {
	return &element.Record{
		Point: &element.Point{
			ID:        element.Set("100"),
			Lat:       element.Set("-22.9"),
			Lon:       element.Set("-43.2"),
			User:      element.Set("maria"),
			UID:       element.Set("42"),
			Version:   element.Set("3"),
			Changeset: element.Set("123456"),
			Timestamp: element.Set("2016-01-01T00:00:00Z"),
		},
		Tags: []element.Tag{
			{ID: element.Set("100"), Key: "street", Value: element.Set("Avenida Brasil"), Type: "addr"},
		},
	}
}

func fullWay() *element.Record {
	return &element.Record{
		Path: &element.Path{
			ID:        element.Set("200"),
			User:      element.Set("maria"),
			UID:       element.Set("42"),
			Version:   element.Set("1"),
			Changeset: element.Set("7"),
			Timestamp: element.Set("2016-01-01T00:00:00Z"),
		},
		Members: []element.Member{
			{ID: element.Set("200"), NodeID: element.Set("1"), Position: 0},
			{ID: element.Set("200"), NodeID: element.Set("2"), Position: 1},
		},
	}
}

func TestRecordValid(t *testing.T) {
	if err := Record(fullNode()); err != nil {
		t.Error(err)
	}
	if err := Record(fullWay()); err != nil {
		t.Error(err)
	}
}

func TestRecordMissingAndBadFields(t *testing.T) {
	r := fullNode()
	r.Point.UID = element.Field{}
	r.Point.Lat = element.Set("south")
	r.Tags[0].Value = element.Field{}

	err := Record(r)
	verr, ok := err.(*Error)
	if !ok {
		t.Fatalf("unexpected error %#v", err)
	}
	want := []string{"lat", "node_tags.0.value", "uid"}
	if !reflect.DeepEqual(verr.Fields(), want) {
		t.Errorf("%v != %v", verr.Fields(), want)
	}
	if verr.Schema != "node" {
		t.Error(verr.Schema)
	}
	if !strings.Contains(verr.Error(), "uid is required") {
		t.Error(verr)
	}
}

func TestRecordBadMember(t *testing.T) {
	r := fullWay()
	r.Members[1].NodeID = element.Set("x")
	err := Record(r)
	verr, ok := err.(*Error)
	if !ok {
		t.Fatalf("unexpected error %#v", err)
	}
	if !reflect.DeepEqual(verr.Fields(), []string{"way_nodes.1.node_id"}) {
		t.Error(verr)
	}
	if !strings.Contains(verr.Error(), "integer-string") {
		t.Error(verr)
	}
}

func TestRecordNotModified(t *testing.T) {
	r := fullNode()
	r.Point.ID = element.Set(" 100 ")
	if err := Record(r); err != nil {
		t.Fatal(err)
	}
	if r.Point.ID.Value != " 100 " {
		t.Error("record modified", r.Point.ID)
	}
}

func TestSchemaUnknownFields(t *testing.T) {
	s, err := NewSchema("doc", []byte(`{
		"type": "object",
		"properties": {"a": {"type": "string", "format": "integer-string"}},
		"additionalProperties": false
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Validate(map[string]interface{}{}); err != nil {
		t.Error("optional field", err)
	}
	err = s.Validate(map[string]interface{}{"a": "1", "z": "", "b": ""})
	verr, ok := err.(*Error)
	if !ok {
		t.Fatalf("unexpected error %#v", err)
	}
	if !reflect.DeepEqual(verr.Fields(), []string{"b", "z"}) {
		t.Error(verr)
	}
}

func TestNewSchemaInvalid(t *testing.T) {
	if _, err := NewSchema("broken", []byte(`{"type": 12`)); err == nil {
		t.Error("expected error")
	}
}

func TestFormats(t *testing.T) {
	for _, tc := range []struct {
		v     interface{}
		float bool
		ok    bool
	}{
		{"1", false, true},
		{"-1", false, true},
		{" 7 ", false, true},
		{"1.5", false, false},
		{"", false, false},
		{1, false, false},
		{"1.5", true, true},
		{"-43.2", true, true},
		{"1e3", true, true},
		{"north", true, false},
	} {
		var ok bool
		if tc.float {
			ok = floatChecker{}.IsFormat(tc.v)
		} else {
			ok = integerChecker{}.IsFormat(tc.v)
		}
		if ok != tc.ok {
			t.Errorf("%#v (float=%v): %v != %v", tc.v, tc.float, ok, tc.ok)
		}
	}
}
