package clean

import (
	_ "embed"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

//go:embed tables.yml
var tablesYAML []byte

type tablesConfig struct {
	KeyAliases           map[string]string `yaml:"key_aliases"`
	PostalKeys           []string          `yaml:"postal_keys"`
	PhoneKey             string            `yaml:"phone_key"`
	StreetKey            string            `yaml:"street_key"`
	StreetTypes          map[string]string `yaml:"street_types"`
	CanonicalStreetTypes []string          `yaml:"canonical_street_types"`
}

// Tables contains the fixed lookup tables for cleaning. Tables are read-only
// after construction and safe for concurrent use.
type Tables struct {
	keyAliases     map[string]string
	postalKeys     map[string]struct{}
	phoneKey       string
	streetKey      string
	streetTypes    map[string]string
	canonicalTypes map[string]struct{}
}

func parseTables(data []byte) (*Tables, error) {
	conf := tablesConfig{}
	if err := yaml.UnmarshalStrict(data, &conf); err != nil {
		return nil, errors.Wrap(err, "parsing cleaning tables")
	}
	if conf.PhoneKey == "" || conf.StreetKey == "" {
		return nil, errors.New("cleaning tables: phone_key and street_key required")
	}
	t := &Tables{
		keyAliases:     conf.KeyAliases,
		postalKeys:     make(map[string]struct{}, len(conf.PostalKeys)),
		phoneKey:       conf.PhoneKey,
		streetKey:      conf.StreetKey,
		streetTypes:    conf.StreetTypes,
		canonicalTypes: make(map[string]struct{}, len(conf.CanonicalStreetTypes)),
	}
	if t.keyAliases == nil {
		t.keyAliases = map[string]string{}
	}
	if t.streetTypes == nil {
		t.streetTypes = map[string]string{}
	}
	for _, k := range conf.PostalKeys {
		t.postalKeys[k] = struct{}{}
	}
	for _, st := range conf.CanonicalStreetTypes {
		t.canonicalTypes[st] = struct{}{}
	}
	for abbr, canonical := range t.streetTypes {
		if _, ok := t.streetTypes[canonical]; ok {
			return nil, errors.Errorf("cleaning tables: street type %q maps to abbreviation %q", abbr, canonical)
		}
	}
	return t, nil
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// DefaultTables returns the tables compiled into the binary. They are parsed
// once on first use.
func DefaultTables() *Tables {
	defaultOnce.Do(func() {
		t, err := parseTables(tablesYAML)
		if err != nil {
			panic(err)
		}
		defaultTables = t
	})
	return defaultTables
}

// KeyAlias returns the replacement for a mislabeled key.
func (t *Tables) KeyAlias(key string) (string, bool) {
	alias, ok := t.keyAliases[key]
	return alias, ok
}

func (t *Tables) IsPostalKey(key string) bool {
	_, ok := t.postalKeys[key]
	return ok
}

func (t *Tables) IsPhoneKey(key string) bool  { return key == t.phoneKey }
func (t *Tables) IsStreetKey(key string) bool { return key == t.streetKey }

// StreetType returns the canonical form of an abbreviated street type.
func (t *Tables) StreetType(abbr string) (string, bool) {
	canonical, ok := t.streetTypes[abbr]
	return canonical, ok
}

// IsCanonicalStreetType returns whether streetType needs no cleaning.
func (t *Tables) IsCanonicalStreetType(streetType string) bool {
	_, ok := t.canonicalTypes[streetType]
	return ok
}
