package axiom

import (
	"strings"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
)

// Axiom is any axiom accepted by the normalizer. Normal forms are axioms too.
type Axiom interface {
	isAxiom()
	Kind() Kind
	String() string
}

// SubClassOf is Sub ⊑ Sup.
type SubClassOf struct {
	Sub, Sup Concept
}

// EquivalentClasses states all concepts are equivalent.
type EquivalentClasses struct {
	Concepts []Concept
}

// DisjointClasses states the concepts are pairwise disjoint.
type DisjointClasses struct {
	Concepts []Concept
}

// SubPropertyOf is r1∘...∘rn ⊑ Sup. An empty chain states reflexivity of Sup.
type SubPropertyOf struct {
	Chain []Role
	Sup   Role
}

// EquivalentProperties states all roles are equivalent.
type EquivalentProperties struct {
	Roles []Role
}

// InverseProperties states First and Second are inverses of each other.
type InverseProperties struct {
	First, Second entity.ID
}

// ReflexiveProperty states Role is reflexive.
type ReflexiveProperty struct {
	Role Role
}

// TransitiveProperty states Role is transitive.
type TransitiveProperty struct {
	Role Role
}

// FunctionalProperty states Role is functional.
type FunctionalProperty struct {
	Role Role
}

// InverseFunctionalProperty states the inverse of Role is functional.
type InverseFunctionalProperty struct {
	Role Role
}

// PropertyDomain states ∃Role.⊤ ⊑ Domain.
type PropertyDomain struct {
	Role   Role
	Domain Concept
}

// PropertyRange states every Role-successor is in Range.
type PropertyRange struct {
	Role  Role
	Range Concept
}

// ClassAssertion states Individual is an instance of Class.
type ClassAssertion struct {
	Class      Concept
	Individual entity.ID
}

// PropertyAssertion states (Subject, Object) ∈ Role.
type PropertyAssertion struct {
	Role            Role
	Subject, Object entity.ID
}

// SameIndividual states the individuals denote the same object.
type SameIndividual struct {
	Individuals []entity.ID
}

// DifferentIndividuals states the individuals denote pairwise distinct objects.
type DifferentIndividuals struct {
	Individuals []entity.ID
}

func (SubClassOf) isAxiom()                {}
func (EquivalentClasses) isAxiom()         {}
func (DisjointClasses) isAxiom()           {}
func (SubPropertyOf) isAxiom()             {}
func (EquivalentProperties) isAxiom()      {}
func (InverseProperties) isAxiom()         {}
func (ReflexiveProperty) isAxiom()         {}
func (TransitiveProperty) isAxiom()        {}
func (FunctionalProperty) isAxiom()        {}
func (InverseFunctionalProperty) isAxiom() {}
func (PropertyDomain) isAxiom()            {}
func (PropertyRange) isAxiom()             {}
func (ClassAssertion) isAxiom()            {}
func (PropertyAssertion) isAxiom()         {}
func (SameIndividual) isAxiom()            {}
func (DifferentIndividuals) isAxiom()      {}

func (SubClassOf) Kind() Kind                { return KindSubClassOf }
func (EquivalentClasses) Kind() Kind         { return KindEquivalentClasses }
func (DisjointClasses) Kind() Kind           { return KindDisjointClasses }
func (SubPropertyOf) Kind() Kind             { return KindSubPropertyOf }
func (EquivalentProperties) Kind() Kind      { return KindEquivalentProperties }
func (InverseProperties) Kind() Kind         { return KindInverseProperties }
func (ReflexiveProperty) Kind() Kind         { return KindReflexiveProperty }
func (TransitiveProperty) Kind() Kind        { return KindTransitiveProperty }
func (FunctionalProperty) Kind() Kind        { return KindFunctionalProperty }
func (InverseFunctionalProperty) Kind() Kind { return KindInverseFunctionalProperty }
func (PropertyDomain) Kind() Kind            { return KindPropertyDomain }
func (PropertyRange) Kind() Kind             { return KindPropertyRange }
func (ClassAssertion) Kind() Kind            { return KindClassAssertion }
func (PropertyAssertion) Kind() Kind         { return KindPropertyAssertion }
func (SameIndividual) Kind() Kind            { return KindSameIndividual }
func (DifferentIndividuals) Kind() Kind      { return KindDifferentIndividuals }

func (a SubClassOf) String() string {
	return a.Sub.String() + " ⊑ " + a.Sup.String()
}

func (a EquivalentClasses) String() string {
	return "Equivalent(" + joinConcepts(a.Concepts) + ")"
}

func (a DisjointClasses) String() string {
	return "Disjoint(" + joinConcepts(a.Concepts) + ")"
}

func (a SubPropertyOf) String() string {
	if len(a.Chain) == 0 {
		return "ε ⊑ " + a.Sup.String()
	}
	return joinRoles(a.Chain, " ∘ ") + " ⊑ " + a.Sup.String()
}

func (a EquivalentProperties) String() string {
	return "EquivalentProperties(" + joinRoles(a.Roles, ", ") + ")"
}

func (a InverseProperties) String() string {
	return "InverseProperties(" + a.First.String() + ", " + a.Second.String() + ")"
}

func (a ReflexiveProperty) String() string {
	return "Reflexive(" + a.Role.String() + ")"
}

func (a TransitiveProperty) String() string {
	return "TransitiveProperty(" + a.Role.String() + ")"
}

func (a FunctionalProperty) String() string {
	return "FunctionalProperty(" + a.Role.String() + ")"
}

func (a InverseFunctionalProperty) String() string {
	return "InverseFunctional(" + a.Role.String() + ")"
}

func (a PropertyDomain) String() string {
	return "Domain(" + a.Role.String() + ", " + a.Domain.String() + ")"
}

func (a PropertyRange) String() string {
	return "PropertyRange(" + a.Role.String() + ", " + a.Range.String() + ")"
}

func (a ClassAssertion) String() string {
	return a.Class.String() + "(" + a.Individual.String() + ")"
}

func (a PropertyAssertion) String() string {
	return a.Role.String() + "(" + a.Subject.String() + ", " + a.Object.String() + ")"
}

func (a SameIndividual) String() string {
	return "Same(" + joinIDs(a.Individuals) + ")"
}

func (a DifferentIndividuals) String() string {
	return "Different(" + joinIDs(a.Individuals) + ")"
}

func joinConcepts(cs []Concept) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

func joinRoles(rs []Role, sep string) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}
	return strings.Join(parts, sep)
}

func joinIDs(ids []entity.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
