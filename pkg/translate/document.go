// Package translate reads named ontology documents and maps them onto entity
// identifiers, and maps identifiers in results back to names.
package translate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is a named ontology as written in YAML. The declaration lists are
// optional; names used in axioms are declared on first use with the kind their
// position implies.
type Document struct {
	Name        string      `yaml:"name,omitempty"`
	Classes     []string    `yaml:"classes,omitempty"`
	Roles       []string    `yaml:"roles,omitempty"`
	Individuals []string    `yaml:"individuals,omitempty"`
	Axioms      []AxiomSpec `yaml:"axioms"`
}

// AxiomSpec holds exactly one axiom; the populated field selects its kind.
type AxiomSpec struct {
	SubClassOf           *SubClassSpec  `yaml:"subclass,omitempty"`
	EquivalentClasses    []ConceptSpec  `yaml:"equivalent,omitempty"`
	DisjointClasses      []ConceptSpec  `yaml:"disjoint,omitempty"`
	SubPropertyOf        *SubRoleSpec   `yaml:"subrole,omitempty"`
	EquivalentProperties []RoleSpec     `yaml:"equivalent_roles,omitempty"`
	InverseProperties    []string       `yaml:"inverse,omitempty"`
	Reflexive            *RoleSpec      `yaml:"reflexive,omitempty"`
	Transitive           *RoleSpec      `yaml:"transitive,omitempty"`
	Functional           *RoleSpec      `yaml:"functional,omitempty"`
	InverseFunctional    *RoleSpec      `yaml:"inverse_functional,omitempty"`
	Domain               *RoleClassSpec `yaml:"domain,omitempty"`
	Range                *RoleClassSpec `yaml:"range,omitempty"`
	Type                 *TypeSpec      `yaml:"type,omitempty"`
	Fact                 *FactSpec      `yaml:"fact,omitempty"`
	Same                 []string       `yaml:"same,omitempty"`
	Different            []string       `yaml:"different,omitempty"`
}

// SubClassSpec is sub ⊑ sup.
type SubClassSpec struct {
	Sub ConceptSpec `yaml:"sub"`
	Sup ConceptSpec `yaml:"sup"`
}

// SubRoleSpec is chain ⊑ sup. A single sub-role may be given as sub instead of a
// one-element chain; an empty chain states reflexivity.
type SubRoleSpec struct {
	Sub   *RoleSpec  `yaml:"sub,omitempty"`
	Chain []RoleSpec `yaml:"chain,omitempty"`
	Sup   RoleSpec   `yaml:"sup"`
}

// RoleClassSpec pairs a role with a class expression, for domains and ranges.
type RoleClassSpec struct {
	Role  RoleSpec    `yaml:"role"`
	Class ConceptSpec `yaml:"class"`
}

// TypeSpec asserts an individual's class.
type TypeSpec struct {
	Individual string      `yaml:"individual"`
	Class      ConceptSpec `yaml:"class"`
}

// FactSpec asserts a role between two individuals.
type FactSpec struct {
	Role    RoleSpec `yaml:"role"`
	Subject string   `yaml:"subject"`
	Object  string   `yaml:"object"`
}

// ConceptSpec is a class expression: a class name written as a plain scalar, or a
// mapping with one of and, some or one.
type ConceptSpec struct {
	Name string
	And  []ConceptSpec
	Some *SomeSpec
	One  string
}

// SomeSpec is an existential restriction.
type SomeSpec struct {
	Role   RoleSpec    `yaml:"role"`
	Filler ConceptSpec `yaml:"filler"`
}

type conceptNode struct {
	And  []ConceptSpec `yaml:"and,omitempty"`
	Some *SomeSpec     `yaml:"some,omitempty"`
	One  string        `yaml:"one,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler for ConceptSpec.
func (c *ConceptSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*c = ConceptSpec{Name: value.Value}
		return nil
	}
	var n conceptNode
	if err := value.Decode(&n); err != nil {
		return err
	}
	*c = ConceptSpec{And: n.And, Some: n.Some, One: n.One}
	if c.forms() != 1 {
		return fmt.Errorf("line %d: class expression needs exactly one of and, some, one", value.Line)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler for ConceptSpec.
func (c ConceptSpec) MarshalYAML() (interface{}, error) {
	if c.Name != "" {
		return c.Name, nil
	}
	return conceptNode{And: c.And, Some: c.Some, One: c.One}, nil
}

func (c ConceptSpec) forms() int {
	n := 0
	if c.Name != "" {
		n++
	}
	if len(c.And) > 0 {
		n++
	}
	if c.Some != nil {
		n++
	}
	if c.One != "" {
		n++
	}
	return n
}

// RoleSpec is a role name, or {inverse: name} for its inverse.
type RoleSpec struct {
	Name    string
	Inverse bool
}

type roleNode struct {
	Inverse string `yaml:"inverse"`
}

// UnmarshalYAML implements yaml.Unmarshaler for RoleSpec.
func (r *RoleSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*r = RoleSpec{Name: value.Value}
		return nil
	}
	var n roleNode
	if err := value.Decode(&n); err != nil {
		return err
	}
	if n.Inverse == "" {
		return fmt.Errorf("line %d: role expression needs a name or inverse", value.Line)
	}
	*r = RoleSpec{Name: n.Inverse, Inverse: true}
	return nil
}

// MarshalYAML implements yaml.Marshaler for RoleSpec.
func (r RoleSpec) MarshalYAML() (interface{}, error) {
	if r.Inverse {
		return roleNode{Inverse: r.Name}, nil
	}
	return r.Name, nil
}

// ParseDocument decodes a YAML document.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse ontology document: %w", err)
	}
	return &doc, nil
}

// LoadDocument reads and decodes a YAML document from path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ontology document: %w", err)
	}
	return ParseDocument(data)
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}
