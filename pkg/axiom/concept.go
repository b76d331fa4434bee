// Package axiom models the input language of the reasoner: concept expressions,
// general (pre-normalization) axioms and the normal forms produced by normalization.
//
// Every family is a closed set of types behind an interface with an unexported marker
// method, so exhaustive type switches in the normalizer, the index and the rule chain
// are the only places that need to change when a form is added.
package axiom

import (
	"strings"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
)

// Concept is a class expression.
type Concept interface {
	isConcept()
	// String renders the concept canonically. Equal concepts render identically,
	// which makes the rendering usable as a memoization key.
	String() string
}

// Role is a role expression: a named role or its inverse.
type Role struct {
	ID      entity.ID
	Inverse bool
}

// Named returns the role expression for r.
func Named(r entity.ID) Role {
	return Role{ID: r}
}

// InverseOf returns the role expression r⁻.
func InverseOf(r entity.ID) Role {
	return Role{ID: r, Inverse: true}
}

func (r Role) String() string {
	if r.Inverse {
		return r.ID.String() + "⁻"
	}
	return r.ID.String()
}

// Class is a named class, including ⊤ and ⊥.
type Class struct {
	ID entity.ID
}

// Intersection is C1 ⊓ ... ⊓ Cn.
type Intersection struct {
	Operands []Concept
}

// Existential is ∃r.C.
type Existential struct {
	Role   Role
	Filler Concept
}

// Nominal is the singleton class {a}.
type Nominal struct {
	Individual entity.ID
}

func (Class) isConcept()        {}
func (Intersection) isConcept() {}
func (Existential) isConcept()  {}
func (Nominal) isConcept()      {}

func (c Class) String() string {
	return c.ID.String()
}

func (c Intersection) String() string {
	parts := make([]string, len(c.Operands))
	for i, op := range c.Operands {
		parts[i] = op.String()
	}
	return "(" + strings.Join(parts, " ⊓ ") + ")"
}

func (c Existential) String() string {
	return "∃" + c.Role.String() + "." + c.Filler.String()
}

func (c Nominal) String() string {
	return "{" + c.Individual.String() + "}"
}

// Convenience constructors

// Top returns ⊤.
func Top() Concept { return Class{ID: entity.Thing} }

// Bottom returns ⊥.
func Bottom() Concept { return Class{ID: entity.Nothing} }

// Named class constructor.
func C(id entity.ID) Concept { return Class{ID: id} }

// And builds an intersection.
func And(operands ...Concept) Concept { return Intersection{Operands: operands} }

// Some builds ∃r.filler for a named role.
func Some(r entity.ID, filler Concept) Concept {
	return Existential{Role: Named(r), Filler: filler}
}

// SomeInverse builds ∃r⁻.filler.
func SomeInverse(r entity.ID, filler Concept) Concept {
	return Existential{Role: InverseOf(r), Filler: filler}
}

// One builds {a}.
func One(individual entity.ID) Concept { return Nominal{Individual: individual} }

// AtomicID returns the class id when c is a named class.
func AtomicID(c Concept) (entity.ID, bool) {
	if cl, ok := c.(Class); ok {
		return cl.ID, true
	}
	return 0, false
}

// IsTop reports whether c is ⊤.
func IsTop(c Concept) bool {
	id, ok := AtomicID(c)
	return ok && id == entity.Thing
}

// IsBottom reports whether c is ⊥.
func IsBottom(c Concept) bool {
	id, ok := AtomicID(c)
	return ok && id == entity.Nothing
}
