package entity

import "fmt"

// ID identifies a class, role or individual. Classes, roles and individuals share a
// single identifier space.
type ID uint32

// Reserved identifiers
const (
	// Nothing is the empty class (⊥)
	Nothing ID = 0
	// Thing is the universal class (⊤)
	Thing ID = 1
	// BottomRole is the empty role
	BottomRole ID = 2
	// TopRole is the universal role
	TopRole ID = 3

	firstFreeID = 4
)

// Kind is the kind of an entity
type Kind uint8

const (
	// KindUnknown marks an unregistered identifier
	KindUnknown Kind = iota
	// KindClass is a class (concept name)
	KindClass
	// KindRole is a binary relation
	KindRole
	// KindIndividual is a named individual
	KindIndividual
)

// String returns the string representation of a kind
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindRole:
		return "role"
	case KindIndividual:
		return "individual"
	default:
		return "unknown"
	}
}

// String renders an identifier, naming the reserved ones.
func (id ID) String() string {
	switch id {
	case Nothing:
		return "⊥"
	case Thing:
		return "⊤"
	case BottomRole:
		return "⊥r"
	case TopRole:
		return "⊤r"
	default:
		return fmt.Sprintf("#%d", uint32(id))
	}
}

// IsReserved reports whether the identifier is one of the four reserved entities
func (id ID) IsReserved() bool {
	return id < firstFreeID
}

// Purpose names the reason an auxiliary entity was created. Together with a
// structural key it makes auxiliary creation idempotent.
type Purpose string

const (
	// PurposeConcept is an auxiliary class naming a complex concept
	PurposeConcept Purpose = "concept"
	// PurposeChain is an auxiliary role naming a role-chain prefix
	PurposeChain Purpose = "chain"
	// PurposeRange is an auxiliary class naming a complex range
	PurposeRange Purpose = "range"
	// PurposeNode is an auxiliary class standing for a synthetic witness node
	PurposeNode Purpose = "node"
)

// Stats summarizes the registered entities
type Stats struct {
	Classes          int
	AuxClasses       int
	Roles            int
	AuxRoles         int
	Individuals      int
	NominalClasses   int
	ConjunctionCount int
}
