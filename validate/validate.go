/*
Package validate checks shaped records against JSON schemas.

Records are converted to documents of string values and lists of sub
documents. Numeric fields only need to be convertible to their type, they
are checked with the integer-string and float-string formats. Documents are
never modified.
*/
package validate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

func init() {
	gojsonschema.FormatCheckers.Add("integer-string", integerChecker{})
	gojsonschema.FormatCheckers.Add("float-string", floatChecker{})
}

type integerChecker struct{}

func (integerChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return false
	}
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}

type floatChecker struct{}

func (floatChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

type Issue struct {
	Field  string
	Reason string
}

func (i Issue) String() string {
	return i.Field + ": " + i.Reason
}

// Error is returned for documents that do not match their schema.
type Error struct {
	Schema string
	Issues []Issue
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Issues))
	for i, iss := range e.Issues {
		parts[i] = iss.String()
	}
	return fmt.Sprintf("%s does not match schema: %s", e.Schema, strings.Join(parts, "; "))
}

// Fields returns the names of all failing fields.
func (e *Error) Fields() []string {
	fields := make([]string, len(e.Issues))
	for i, iss := range e.Issues {
		fields[i] = iss.Field
	}
	return fields
}

type Schema struct {
	Name   string
	schema *gojsonschema.Schema
}

// NewSchema compiles a JSON schema.
func NewSchema(name string, data []byte) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s schema", name)
	}
	return &Schema{Name: name, schema: s}, nil
}

func mustSchema(name string, data []byte) *Schema {
	s, err := NewSchema(name, data)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks doc against s and returns an *Error with all issues,
// sorted by field.
func (s *Schema) Validate(doc map[string]interface{}) error {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return errors.Wrapf(err, "validating %s", s.Name)
	}
	if result.Valid() {
		return nil
	}
	issues := make([]Issue, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, Issue{Field: issueField(desc), Reason: desc.Description()})
	}
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Field != issues[j].Field {
			return issues[i].Field < issues[j].Field
		}
		return issues[i].Reason < issues[j].Reason
	})
	return &Error{Schema: s.Name, Issues: issues}
}

const rootField = "(root)"

// issueField returns the path of the failing field. Errors for missing and
// unknown properties are reported for the property itself, not for the
// containing object.
func issueField(desc gojsonschema.ResultError) string {
	field := desc.Field()
	switch desc.Type() {
	case "required", "additional_property_not_allowed":
		if p, ok := desc.Details()["property"].(string); ok {
			switch {
			case field == rootField:
				return p
			case field == p || strings.HasSuffix(field, "."+p):
				return field
			}
			return field + "." + p
		}
	}
	return field
}
