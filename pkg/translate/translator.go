package translate

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-reasoner/pkg/axiom"
	"github.com/dd0wney/cluso-reasoner/pkg/entity"
	"github.com/dd0wney/cluso-reasoner/pkg/validation"
)

// ErrKindClash is returned when one name is used for two kinds of entity.
var ErrKindClash = errors.New("name used for two kinds of entity")

// Reserved names, accepted in documents and used when rendering results.
const (
	ThingName      = "Thing"
	NothingName    = "Nothing"
	TopRoleName    = "topRole"
	BottomRoleName = "bottomRole"
)

var reserved = map[string]entity.ID{
	ThingName:                  entity.Thing,
	"owl:Thing":                entity.Thing,
	NothingName:                entity.Nothing,
	"owl:Nothing":              entity.Nothing,
	TopRoleName:                entity.TopRole,
	"owl:topObjectProperty":    entity.TopRole,
	BottomRoleName:             entity.BottomRole,
	"owl:bottomObjectProperty": entity.BottomRole,
}

// Translator maps names onto identifiers allocated from one manager. It is not safe
// for concurrent use.
type Translator struct {
	m     *entity.Manager
	ids   map[string]entity.ID
	names map[entity.ID]string
}

// New creates a translator allocating from m.
func New(m *entity.Manager) *Translator {
	t := &Translator{
		m:     m,
		ids:   make(map[string]entity.ID),
		names: make(map[entity.ID]string),
	}
	t.names[entity.Thing] = ThingName
	t.names[entity.Nothing] = NothingName
	t.names[entity.TopRole] = TopRoleName
	t.names[entity.BottomRole] = BottomRoleName
	return t
}

// Manager returns the manager identifiers are allocated from.
func (t *Translator) Manager() *entity.Manager { return t.m }

// Translate declares every name in doc and returns its axioms over identifiers.
// Nothing is returned when any axiom is malformed.
func (t *Translator) Translate(doc *Document) ([]axiom.Axiom, error) {
	for _, n := range doc.Classes {
		if _, err := t.declare(n, entity.KindClass); err != nil {
			return nil, err
		}
	}
	for _, n := range doc.Roles {
		if _, err := t.declare(n, entity.KindRole); err != nil {
			return nil, err
		}
	}
	for _, n := range doc.Individuals {
		if _, err := t.declare(n, entity.KindIndividual); err != nil {
			return nil, err
		}
	}

	out := make([]axiom.Axiom, 0, len(doc.Axioms))
	for i, spec := range doc.Axioms {
		ax, err := t.axiom(spec)
		if err != nil {
			return nil, entity.NewError("translate").Axiom(fmt.Sprintf("#%d", i)).Cause(err).Err()
		}
		out = append(out, ax)
	}
	return out, nil
}

// Lookup returns the identifier of a declared name.
func (t *Translator) Lookup(name string) (entity.ID, bool) {
	if id, ok := reserved[name]; ok {
		return id, true
	}
	id, ok := t.ids[name]
	return id, ok
}

// Name renders id by name. Nominal classes render as {individual}; identifiers
// without a name fall back to their numeric form.
func (t *Translator) Name(id entity.ID) string {
	if n, ok := t.names[id]; ok {
		return n
	}
	if ind, ok := t.m.IndividualOf(id); ok {
		return "{" + t.Name(ind) + "}"
	}
	return id.String()
}

// Names renders every identifier in ids.
func (t *Translator) Names(ids []entity.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = t.Name(id)
	}
	return out
}

func (t *Translator) declare(name string, kind entity.Kind) (entity.ID, error) {
	if id, ok := reserved[name]; ok {
		if t.m.Kind(id) != kind {
			return 0, fmt.Errorf("%w: %q is a reserved %s", ErrKindClash, name, t.m.Kind(id))
		}
		return id, nil
	}
	if id, ok := t.ids[name]; ok {
		if got := t.m.Kind(id); got != kind {
			return 0, fmt.Errorf("%w: %q is a %s, used as %s", ErrKindClash, name, got, kind)
		}
		return id, nil
	}
	if err := validation.ValidateName(name); err != nil {
		return 0, err
	}

	var id entity.ID
	switch kind {
	case entity.KindClass:
		id = t.m.CreateClass()
	case entity.KindRole:
		id = t.m.CreateRole()
	default:
		id = t.m.CreateIndividual()
	}
	t.ids[name] = id
	t.names[id] = name
	return id, nil
}

func (t *Translator) axiom(s AxiomSpec) (axiom.Axiom, error) {
	if n := s.forms(); n != 1 {
		return nil, fmt.Errorf("%w: entry holds %d axioms, want exactly one", entity.ErrMalformedAxiom, n)
	}

	switch {
	case s.SubClassOf != nil:
		sub, err := t.concept(s.SubClassOf.Sub)
		if err != nil {
			return nil, err
		}
		sup, err := t.concept(s.SubClassOf.Sup)
		if err != nil {
			return nil, err
		}
		return axiom.SubClassOf{Sub: sub, Sup: sup}, nil

	case s.EquivalentClasses != nil:
		cs, err := t.concepts(s.EquivalentClasses)
		if err != nil {
			return nil, err
		}
		return axiom.EquivalentClasses{Concepts: cs}, nil

	case s.DisjointClasses != nil:
		cs, err := t.concepts(s.DisjointClasses)
		if err != nil {
			return nil, err
		}
		return axiom.DisjointClasses{Concepts: cs}, nil

	case s.SubPropertyOf != nil:
		chain := s.SubPropertyOf.Chain
		if s.SubPropertyOf.Sub != nil {
			if len(chain) > 0 {
				return nil, fmt.Errorf("%w: subrole takes sub or chain, not both", entity.ErrMalformedAxiom)
			}
			chain = []RoleSpec{*s.SubPropertyOf.Sub}
		}
		roles, err := t.roles(chain)
		if err != nil {
			return nil, err
		}
		sup, err := t.role(s.SubPropertyOf.Sup)
		if err != nil {
			return nil, err
		}
		return axiom.SubPropertyOf{Chain: roles, Sup: sup}, nil

	case s.EquivalentProperties != nil:
		roles, err := t.roles(s.EquivalentProperties)
		if err != nil {
			return nil, err
		}
		return axiom.EquivalentProperties{Roles: roles}, nil

	case s.InverseProperties != nil:
		if len(s.InverseProperties) != 2 {
			return nil, fmt.Errorf("%w: inverse takes two roles", entity.ErrMalformedAxiom)
		}
		first, err := t.declare(s.InverseProperties[0], entity.KindRole)
		if err != nil {
			return nil, err
		}
		second, err := t.declare(s.InverseProperties[1], entity.KindRole)
		if err != nil {
			return nil, err
		}
		return axiom.InverseProperties{First: first, Second: second}, nil

	case s.Reflexive != nil:
		r, err := t.role(*s.Reflexive)
		return axiom.ReflexiveProperty{Role: r}, err
	case s.Transitive != nil:
		r, err := t.role(*s.Transitive)
		return axiom.TransitiveProperty{Role: r}, err
	case s.Functional != nil:
		r, err := t.role(*s.Functional)
		return axiom.FunctionalProperty{Role: r}, err
	case s.InverseFunctional != nil:
		r, err := t.role(*s.InverseFunctional)
		return axiom.InverseFunctionalProperty{Role: r}, err

	case s.Domain != nil:
		r, c, err := t.roleClass(*s.Domain)
		return axiom.PropertyDomain{Role: r, Domain: c}, err
	case s.Range != nil:
		r, c, err := t.roleClass(*s.Range)
		return axiom.PropertyRange{Role: r, Range: c}, err

	case s.Type != nil:
		ind, err := t.declare(s.Type.Individual, entity.KindIndividual)
		if err != nil {
			return nil, err
		}
		c, err := t.concept(s.Type.Class)
		if err != nil {
			return nil, err
		}
		return axiom.ClassAssertion{Class: c, Individual: ind}, nil

	case s.Fact != nil:
		r, err := t.role(s.Fact.Role)
		if err != nil {
			return nil, err
		}
		subj, err := t.declare(s.Fact.Subject, entity.KindIndividual)
		if err != nil {
			return nil, err
		}
		obj, err := t.declare(s.Fact.Object, entity.KindIndividual)
		if err != nil {
			return nil, err
		}
		return axiom.PropertyAssertion{Role: r, Subject: subj, Object: obj}, nil

	case s.Same != nil:
		ids, err := t.individuals(s.Same)
		return axiom.SameIndividual{Individuals: ids}, err
	default:
		ids, err := t.individuals(s.Different)
		return axiom.DifferentIndividuals{Individuals: ids}, err
	}
}

func (s AxiomSpec) forms() int {
	n := 0
	for _, set := range []bool{
		s.SubClassOf != nil,
		s.EquivalentClasses != nil,
		s.DisjointClasses != nil,
		s.SubPropertyOf != nil,
		s.EquivalentProperties != nil,
		s.InverseProperties != nil,
		s.Reflexive != nil,
		s.Transitive != nil,
		s.Functional != nil,
		s.InverseFunctional != nil,
		s.Domain != nil,
		s.Range != nil,
		s.Type != nil,
		s.Fact != nil,
		s.Same != nil,
		s.Different != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

func (t *Translator) concept(c ConceptSpec) (axiom.Concept, error) {
	switch {
	case c.Name != "":
		id, err := t.declare(c.Name, entity.KindClass)
		if err != nil {
			return nil, err
		}
		return axiom.C(id), nil
	case len(c.And) > 0:
		ops, err := t.concepts(c.And)
		if err != nil {
			return nil, err
		}
		return axiom.And(ops...), nil
	case c.Some != nil:
		r, err := t.role(c.Some.Role)
		if err != nil {
			return nil, err
		}
		filler, err := t.concept(c.Some.Filler)
		if err != nil {
			return nil, err
		}
		return axiom.Existential{Role: r, Filler: filler}, nil
	case c.One != "":
		ind, err := t.declare(c.One, entity.KindIndividual)
		if err != nil {
			return nil, err
		}
		return axiom.One(ind), nil
	default:
		return nil, fmt.Errorf("%w: empty class expression", entity.ErrMalformedAxiom)
	}
}

func (t *Translator) concepts(cs []ConceptSpec) ([]axiom.Concept, error) {
	out := make([]axiom.Concept, len(cs))
	for i, c := range cs {
		x, err := t.concept(c)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

func (t *Translator) role(r RoleSpec) (axiom.Role, error) {
	id, err := t.declare(r.Name, entity.KindRole)
	if err != nil {
		return axiom.Role{}, err
	}
	return axiom.Role{ID: id, Inverse: r.Inverse}, nil
}

func (t *Translator) roles(rs []RoleSpec) ([]axiom.Role, error) {
	out := make([]axiom.Role, len(rs))
	for i, r := range rs {
		x, err := t.role(r)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

func (t *Translator) roleClass(s RoleClassSpec) (axiom.Role, axiom.Concept, error) {
	r, err := t.role(s.Role)
	if err != nil {
		return axiom.Role{}, nil, err
	}
	c, err := t.concept(s.Class)
	if err != nil {
		return axiom.Role{}, nil, err
	}
	return r, c, nil
}

func (t *Translator) individuals(names []string) ([]entity.ID, error) {
	out := make([]entity.ID, len(names))
	for i, n := range names {
		id, err := t.declare(n, entity.KindIndividual)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}
