package axiom

import (
	"slices"
	"strings"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
)

// Normal is a normalized axiom. Only the types in this file implement it.
type Normal interface {
	Axiom
	isNormal()
	// Refs lists every identifier the axiom mentions with its expected kind.
	Refs() []Ref
}

// Ref is an identifier together with the kind it must be registered as.
type Ref struct {
	ID   entity.ID
	Kind entity.Kind
}

func classRef(id entity.ID) Ref { return Ref{ID: id, Kind: entity.KindClass} }
func roleRef(id entity.ID) Ref  { return Ref{ID: id, Kind: entity.KindRole} }

// GCI0 is Sub ⊑ Sup.
type GCI0 struct {
	Sub, Sup entity.ID
}

// GCI1 is Operands[0] ⊓ ... ⊓ Operands[n-1] ⊑ Sup. Use NewGCI1 to obtain the
// canonical sorted, duplicate-free operand list.
type GCI1 struct {
	Operands []entity.ID
	Sup      entity.ID
}

// GCI2 is Sub ⊑ ∃Role.Filler.
type GCI2 struct {
	Sub, Role, Filler entity.ID
}

// GCI3 is ∃Role.Filler ⊑ Sup.
type GCI3 struct {
	Role, Filler, Sup entity.ID
}

// RI1 is ε ⊑ Role (reflexivity).
type RI1 struct {
	Role entity.ID
}

// RI2 is Sub ⊑ Sup.
type RI2 struct {
	Sub, Sup entity.ID
}

// RI3 is Left ∘ Right ⊑ Sup.
type RI3 struct {
	Left, Right, Sup entity.ID
}

// Functional marks Role functional.
type Functional struct {
	Role entity.ID
}

// Transitive marks Role transitive. The reasoning content is carried by the
// matching RI3(Role, Role, Role).
type Transitive struct {
	Role entity.ID
}

// Range states every Role-successor is an instance of Class.
type Range struct {
	Role, Class entity.ID
}

// NominalAxiom binds Class as the nominal class {Individual}.
type NominalAxiom struct {
	Class, Individual entity.ID
}

// NewGCI1 builds an intersection axiom with canonical operands. When fewer than two
// distinct operands remain it returns the equivalent GCI0.
func NewGCI1(operands []entity.ID, sup entity.ID) Normal {
	ops := slices.Clone(operands)
	slices.Sort(ops)
	ops = slices.Compact(ops)
	if len(ops) == 1 {
		return GCI0{Sub: ops[0], Sup: sup}
	}
	return GCI1{Operands: ops, Sup: sup}
}

func (GCI0) isAxiom()         {}
func (GCI1) isAxiom()         {}
func (GCI2) isAxiom()         {}
func (GCI3) isAxiom()         {}
func (RI1) isAxiom()          {}
func (RI2) isAxiom()          {}
func (RI3) isAxiom()          {}
func (Functional) isAxiom()   {}
func (Transitive) isAxiom()   {}
func (Range) isAxiom()        {}
func (NominalAxiom) isAxiom() {}

func (GCI0) isNormal()         {}
func (GCI1) isNormal()         {}
func (GCI2) isNormal()         {}
func (GCI3) isNormal()         {}
func (RI1) isNormal()          {}
func (RI2) isNormal()          {}
func (RI3) isNormal()          {}
func (Functional) isNormal()   {}
func (Transitive) isNormal()   {}
func (Range) isNormal()        {}
func (NominalAxiom) isNormal() {}

func (GCI0) Kind() Kind         { return KindGCI0 }
func (GCI1) Kind() Kind         { return KindGCI1 }
func (GCI2) Kind() Kind         { return KindGCI2 }
func (GCI3) Kind() Kind         { return KindGCI3 }
func (RI1) Kind() Kind          { return KindRI1 }
func (RI2) Kind() Kind          { return KindRI2 }
func (RI3) Kind() Kind          { return KindRI3 }
func (Functional) Kind() Kind   { return KindFunctional }
func (Transitive) Kind() Kind   { return KindTransitive }
func (Range) Kind() Kind        { return KindRange }
func (NominalAxiom) Kind() Kind { return KindNominal }

func (a GCI0) Refs() []Ref { return []Ref{classRef(a.Sub), classRef(a.Sup)} }

func (a GCI1) Refs() []Ref {
	refs := make([]Ref, 0, len(a.Operands)+1)
	for _, op := range a.Operands {
		refs = append(refs, classRef(op))
	}
	return append(refs, classRef(a.Sup))
}

func (a GCI2) Refs() []Ref {
	return []Ref{classRef(a.Sub), roleRef(a.Role), classRef(a.Filler)}
}

func (a GCI3) Refs() []Ref {
	return []Ref{roleRef(a.Role), classRef(a.Filler), classRef(a.Sup)}
}

func (a RI1) Refs() []Ref        { return []Ref{roleRef(a.Role)} }
func (a RI2) Refs() []Ref        { return []Ref{roleRef(a.Sub), roleRef(a.Sup)} }
func (a RI3) Refs() []Ref        { return []Ref{roleRef(a.Left), roleRef(a.Right), roleRef(a.Sup)} }
func (a Functional) Refs() []Ref { return []Ref{roleRef(a.Role)} }
func (a Transitive) Refs() []Ref { return []Ref{roleRef(a.Role)} }
func (a Range) Refs() []Ref      { return []Ref{roleRef(a.Role), classRef(a.Class)} }

func (a NominalAxiom) Refs() []Ref {
	return []Ref{classRef(a.Class), {ID: a.Individual, Kind: entity.KindIndividual}}
}

func (a GCI0) String() string {
	return a.Sub.String() + " ⊑ " + a.Sup.String()
}

func (a GCI1) String() string {
	parts := make([]string, len(a.Operands))
	for i, op := range a.Operands {
		parts[i] = op.String()
	}
	return strings.Join(parts, " ⊓ ") + " ⊑ " + a.Sup.String()
}

func (a GCI2) String() string {
	return a.Sub.String() + " ⊑ ∃" + a.Role.String() + "." + a.Filler.String()
}

func (a GCI3) String() string {
	return "∃" + a.Role.String() + "." + a.Filler.String() + " ⊑ " + a.Sup.String()
}

func (a RI1) String() string {
	return "ε ⊑ " + a.Role.String()
}

func (a RI2) String() string {
	return a.Sub.String() + " ⊑r " + a.Sup.String()
}

func (a RI3) String() string {
	return a.Left.String() + " ∘ " + a.Right.String() + " ⊑r " + a.Sup.String()
}

func (a Functional) String() string {
	return "Functional(" + a.Role.String() + ")"
}

func (a Transitive) String() string {
	return "Transitive(" + a.Role.String() + ")"
}

func (a Range) String() string {
	return "Range(" + a.Role.String() + ", " + a.Class.String() + ")"
}

func (a NominalAxiom) String() string {
	return a.Class.String() + " ≡ {" + a.Individual.String() + "}"
}

// Validate checks that every identifier in a is registered with the right kind and
// that GCI1 operand lists are canonical.
func Validate(op string, m *entity.Manager, a Normal) error {
	for _, ref := range a.Refs() {
		if err := m.Check(op, ref.Kind, ref.ID); err != nil {
			return err
		}
	}
	if g, ok := a.(GCI1); ok {
		if len(g.Operands) < 2 || !slices.IsSorted(g.Operands) ||
			len(slices.Compact(slices.Clone(g.Operands))) != len(g.Operands) {
			return entity.NewError(op).Axiom(a.String()).
				Context("intersection needs at least two distinct sorted operands").
				Cause(entity.ErrMalformedAxiom).Err()
		}
	}
	return nil
}
