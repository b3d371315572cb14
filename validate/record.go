package validate

import (
	_ "embed"

	"github.com/omniscale/osmcsv/element"
)

//go:embed node.json
var nodeSchema []byte

//go:embed way.json
var waySchema []byte

// NodeSchema matches a shaped node with its tags.
var NodeSchema = mustSchema("node", nodeSchema)

// WaySchema matches a shaped way with its node references and tags.
var WaySchema = mustSchema("way", waySchema)

func document(columns []string, fields []element.Field) map[string]interface{} {
	doc := make(map[string]interface{}, len(fields)+2)
	for i, f := range fields {
		if f.Valid {
			doc[columns[i]] = f.Value
		}
	}
	return doc
}

// RecordDocument returns the document of a shaped record. Missing fields
// have no entry.
func RecordDocument(r *element.Record) map[string]interface{} {
	tags := make([]interface{}, len(r.Tags))
	for i := range r.Tags {
		tags[i] = document(element.TagColumns, r.Tags[i].Fields())
	}
	if r.Path != nil {
		doc := document(element.PathColumns, r.Path.Fields())
		members := make([]interface{}, len(r.Members))
		for i := range r.Members {
			members[i] = document(element.MemberColumns, r.Members[i].Fields())
		}
		doc["way_nodes"] = members
		doc["way_tags"] = tags
		return doc
	}
	var doc map[string]interface{}
	if r.Point != nil {
		doc = document(element.PointColumns, r.Point.Fields())
	} else {
		doc = map[string]interface{}{}
	}
	doc["node_tags"] = tags
	return doc
}

// Record validates a shaped node or way.
func Record(r *element.Record) error {
	schema := NodeSchema
	if r.Path != nil {
		schema = WaySchema
	}
	return schema.Validate(RecordDocument(r))
}
