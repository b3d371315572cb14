/*
Package clean normalizes raw attribute keys and values of OSM elements.

Cleaning works on the key after alias resolution: postal codes get a hyphen,
phone numbers are reformatted to "+CC AA LLLL-LLLL" and abbreviated street
types are replaced by their full name. None of the cleaning functions fail;
values without a matching rule are reported with NoRule and should be kept
as they are.
*/
package clean

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type Result int

const (
	// Unchanged means the value had no cleaning rule or was already clean.
	Unchanged Result = iota
	// Cleaned means the value was rewritten.
	Cleaned
	// NoRule means a rule applies to the key, but none matched the value.
	NoRule
)

func (r Result) String() string {
	switch r {
	case Cleaned:
		return "cleaned"
	case NoRule:
		return "norule"
	default:
		return "unchanged"
	}
}

// Cleaner applies the lookup tables to keys and values.
type Cleaner struct {
	tables *Tables
}

func New(t *Tables) *Cleaner {
	return &Cleaner{tables: t}
}

func NewDefault() *Cleaner {
	return New(DefaultTables())
}

func (c *Cleaner) Tables() *Tables {
	return c.tables
}

// Key returns the alias of a mislabeled key, or key itself.
func (c *Cleaner) Key(key string) string {
	if alias, ok := c.tables.KeyAlias(key); ok {
		return alias
	}
	return key
}

// Value cleans value with the rule selected by the already aliased key.
// Phone and street values that cannot be parsed are returned unchanged with
// NoRule. The caller logs and counts them.
func (c *Cleaner) Value(key, value string) (string, Result) {
	switch {
	case c.tables.IsPostalKey(key):
		return changed(value, Postal(value))
	case c.tables.IsPhoneKey(key):
		phone, ok := Phone(value)
		if !ok {
			return value, NoRule
		}
		return changed(value, phone)
	case c.tables.IsStreetKey(key):
		street, ok := c.Street(value)
		if !ok {
			return value, NoRule
		}
		return changed(value, street)
	}
	return value, Unchanged
}

func changed(before, after string) (string, Result) {
	if before == after {
		return after, Unchanged
	}
	return after, Cleaned
}

// Postal formats eight character postal codes as XXXXX-XXX. Other values are
// returned as they are.
func Postal(code string) string {
	r := []rune(code)
	if len(r) != 8 {
		return code
	}
	return string(r[0:5]) + "-" + string(r[5:8])
}

// Street replaces an abbreviated street type at the start of name. ok is false
// if the leading token is no known abbreviation; name is returned unchanged.
func (c *Cleaner) Street(name string) (string, bool) {
	token, found := StreetTypeToken(name)
	if !found {
		return name, false
	}
	canonical, ok := c.tables.StreetType(token)
	if !ok {
		return name, false
	}
	return canonical + name[len(token):], true
}

// StreetTypeToken returns the leading non-space token of name. The token has
// to start with a word character.
func StreetTypeToken(name string) (string, bool) {
	first, size := utf8.DecodeRuneInString(name)
	if size == 0 || !isWordRune(first) {
		return "", false
	}
	end := strings.IndexFunc(name, unicode.IsSpace)
	if end < 0 {
		end = len(name)
	}
	return name[:end], true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
