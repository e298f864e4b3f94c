// Package catalog holds the htmx attributes and values offered as completion
// candidates.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cristianoliveira/htmx-lsp/analysis"
)

//go:embed attributes.yaml
var builtin []byte

// ErrInvalidCatalog is returned when a catalog document is malformed.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Value is a well-known literal an attribute accepts.
type Value struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Attribute is an attribute with its documentation and known values.
type Attribute struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Values      []Value `yaml:"values,omitempty"`
}

// Catalog is an ordered, read-only set of attributes.
type Catalog struct {
	attributes []Attribute
	byName     map[string]int
}

type document struct {
	Attributes []Attribute `yaml:"attributes"`
}

// Load returns the built-in htmx catalog.
func Load() (*Catalog, error) {
	return Parse(builtin)
}

// LoadFile reads a catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// Parse decodes a catalog document. Attribute names must be non-empty and
// unique.
func Parse(data []byte) (*Catalog, error) {
	var doc document

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	c := &Catalog{
		attributes: doc.Attributes,
		byName:     make(map[string]int, len(doc.Attributes)),
	}

	for i, attr := range doc.Attributes {
		if attr.Name == "" {
			return nil, fmt.Errorf("%w: attribute %d has no name", ErrInvalidCatalog, i)
		}

		if _, dup := c.byName[attr.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate attribute %q", ErrInvalidCatalog, attr.Name)
		}

		c.byName[attr.Name] = i
	}

	return c, nil
}

// Attributes returns every attribute in catalog order.
func (c *Catalog) Attributes() []Attribute {
	return c.attributes
}

// Attribute looks an attribute up by name.
func (c *Catalog) Attribute(name string) (Attribute, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Attribute{}, false
	}

	return c.attributes[i], true
}

// CandidateKind tells attribute names and attribute values apart.
type CandidateKind int

const (
	// CandidateAttribute is an attribute name.
	CandidateAttribute CandidateKind = iota
	// CandidateValue is an attribute value.
	CandidateValue
)

// Candidate is a single suggestion.
type Candidate struct {
	Label         string
	Documentation string
	Kind          CandidateKind
}

// Candidates maps a classification to suggestions. It returns nil for
// analysis.NoCompletion and for contexts nothing in the catalog matches.
func (c *Catalog) Candidates(result analysis.Classification) []Candidate {
	switch r := result.(type) {
	case analysis.AttributeNameContext:
		var out []Candidate

		for _, attr := range c.attributes {
			if strings.HasPrefix(attr.Name, r.Prefix) {
				out = append(out, Candidate{
					Label:         attr.Name,
					Documentation: attr.Description,
					Kind:          CandidateAttribute,
				})
			}
		}

		return out
	case analysis.AttributeValueContext:
		attr, ok := c.Attribute(r.AttributeName)
		if !ok {
			return nil
		}

		var out []Candidate

		for _, v := range attr.Values {
			if strings.HasPrefix(v.Name, r.Prefix) {
				out = append(out, Candidate{
					Label:         v.Name,
					Documentation: v.Description,
					Kind:          CandidateValue,
				})
			}
		}

		return out
	default:
		return nil
	}
}

// MustLoad is like Load but panics if the built-in catalog is malformed.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}

	return c
}
