// Package normalizer rewrites general axioms into the normal forms the classifier
// understands, introducing auxiliary classes and roles where a concept or role chain
// is too complex for a single normal form.
package normalizer

import (
	"context"

	"github.com/dd0wney/cluso-reasoner/pkg/axiom"
	"github.com/dd0wney/cluso-reasoner/pkg/entity"
	"github.com/dd0wney/cluso-reasoner/pkg/logging"
)

const checkInterval = 1024

// Stats describes one normalization run.
type Stats struct {
	Input      int
	Rewrites   int
	Normalized int
	AuxClasses int
	AuxRoles   int
}

// Normalizer applies the rewrite rules until every axiom is in normal form.
type Normalizer struct {
	manager *entity.Manager
	logger  logging.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(n *Normalizer) { n.logger = logging.OrNop(l) }
}

// New creates a normalizer allocating auxiliary entities from m.
func New(m *entity.Manager, opts ...Option) *Normalizer {
	n := &Normalizer{
		manager: m,
		logger:  logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize rewrites axioms into a duplicate-free set of normal forms. Rules are
// applied to one axiom at a time and their output is fed back until only normal
// forms remain. Any reference to an unregistered or wrongly-kinded identifier aborts
// the run.
func (n *Normalizer) Normalize(ctx context.Context, axioms []axiom.Axiom) (*axiom.NormalSet, Stats, error) {
	before := n.manager.Stats()
	stats := Stats{Input: len(axioms)}
	out := axiom.NewNormalSet()

	// Declared inverse pairs are registered first so that inverse role expressions
	// elsewhere resolve to the declared role rather than a fresh auxiliary one.
	pending := make([]axiom.Axiom, 0, len(axioms))
	for _, a := range axioms {
		if inv, ok := a.(axiom.InverseProperties); ok {
			replacement, err := n.inverseProperties(inv)
			if err != nil {
				return nil, stats, err
			}
			stats.Rewrites++
			pending = append(pending, replacement...)
			continue
		}
		pending = append(pending, a)
	}

	steps := 0
	for head := 0; head < len(pending); head++ {
		a := pending[head]
		pending[head] = nil

		steps++
		if steps%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		if nf, ok := a.(axiom.Normal); ok {
			if err := axiom.Validate("normalize", n.manager, nf); err != nil {
				return nil, stats, err
			}
			if isTrivial(nf) {
				continue
			}
			out.Add(nf)
			continue
		}

		replacement, err := n.rewrite(a)
		if err != nil {
			return nil, stats, err
		}
		stats.Rewrites++
		pending = append(pending, replacement...)
	}

	after := n.manager.Stats()
	stats.Normalized = out.Len()
	stats.AuxClasses = after.AuxClasses - before.AuxClasses
	stats.AuxRoles = after.AuxRoles - before.AuxRoles

	n.logger.Debug("normalization finished",
		logging.Int("input", stats.Input),
		logging.Int("rewrites", stats.Rewrites),
		logging.Int("normalized", stats.Normalized),
		logging.Int("aux_classes", stats.AuxClasses),
		logging.Int("aux_roles", stats.AuxRoles),
	)
	return out, stats, nil
}

// isTrivial drops tautologies that carry no information.
func isTrivial(a axiom.Normal) bool {
	switch a := a.(type) {
	case axiom.GCI0:
		return a.Sub == a.Sup || a.Sub == entity.Nothing || a.Sup == entity.Thing
	case axiom.GCI1:
		return a.Sup == entity.Thing
	case axiom.GCI2:
		return a.Sub == entity.Nothing
	case axiom.GCI3:
		return a.Sup == entity.Thing
	case axiom.RI2:
		return a.Sub == a.Sup
	case axiom.Range:
		return a.Class == entity.Thing
	default:
		return false
	}
}

// rewrite applies the single rule matching a. It is only called for general axioms.
func (n *Normalizer) rewrite(a axiom.Axiom) ([]axiom.Axiom, error) {
	switch a := a.(type) {
	case axiom.SubClassOf:
		return n.subClassOf(a)
	case axiom.EquivalentClasses:
		return equivalentClasses(a.Concepts), nil
	case axiom.DisjointClasses:
		return disjointClasses(a.Concepts), nil
	case axiom.SubPropertyOf:
		return n.subPropertyOf(a)
	case axiom.EquivalentProperties:
		return n.equivalentProperties(a.Roles)
	case axiom.InverseProperties:
		return n.inverseProperties(a)
	case axiom.ReflexiveProperty:
		r, err := n.role(a.Role)
		if err != nil {
			return nil, err
		}
		return []axiom.Axiom{axiom.RI1{Role: r}}, nil
	case axiom.TransitiveProperty:
		r, err := n.role(a.Role)
		if err != nil {
			return nil, err
		}
		return []axiom.Axiom{axiom.RI3{Left: r, Right: r, Sup: r}, axiom.Transitive{Role: r}}, nil
	case axiom.FunctionalProperty:
		r, err := n.role(a.Role)
		if err != nil {
			return nil, err
		}
		return []axiom.Axiom{axiom.Functional{Role: r}}, nil
	case axiom.InverseFunctionalProperty:
		r, err := n.role(a.Role)
		if err != nil {
			return nil, err
		}
		return []axiom.Axiom{axiom.Functional{Role: n.manager.InverseOf(r)}}, nil
	case axiom.PropertyDomain:
		return []axiom.Axiom{axiom.SubClassOf{
			Sub: axiom.Existential{Role: a.Role, Filler: axiom.Top()},
			Sup: a.Domain,
		}}, nil
	case axiom.PropertyRange:
		return n.propertyRange(a)
	case axiom.ClassAssertion:
		return []axiom.Axiom{axiom.SubClassOf{Sub: axiom.One(a.Individual), Sup: a.Class}}, nil
	case axiom.PropertyAssertion:
		return []axiom.Axiom{axiom.SubClassOf{
			Sub: axiom.One(a.Subject),
			Sup: axiom.Existential{Role: a.Role, Filler: axiom.One(a.Object)},
		}}, nil
	case axiom.SameIndividual:
		return []axiom.Axiom{axiom.EquivalentClasses{Concepts: nominals(a.Individuals)}}, nil
	case axiom.DifferentIndividuals:
		return []axiom.Axiom{axiom.DisjointClasses{Concepts: nominals(a.Individuals)}}, nil
	default:
		return nil, entity.NewError("normalize").Axiom(a.String()).
			Context("unsupported axiom kind " + a.Kind().String()).
			Cause(entity.ErrMalformedAxiom).Err()
	}
}

// role resolves a role expression to a role identifier, materializing inverses.
func (n *Normalizer) role(r axiom.Role) (entity.ID, error) {
	if err := n.manager.Check("normalize", entity.KindRole, r.ID); err != nil {
		return 0, err
	}
	if r.Inverse {
		return n.manager.InverseOf(r.ID), nil
	}
	return r.ID, nil
}

// atom returns the class identifier for a named class or nominal. Nominals also
// yield the Nominal axiom binding their class. The individual is checked before its
// nominal class is allocated, so a rejected axiom leaves the manager untouched.
func (n *Normalizer) atom(c axiom.Concept) (entity.ID, []axiom.Axiom, bool, error) {
	switch c := c.(type) {
	case axiom.Class:
		return c.ID, nil, true, nil
	case axiom.Nominal:
		if err := n.manager.Check("normalize", entity.KindIndividual, c.Individual); err != nil {
			return 0, nil, false, err
		}
		cls := n.manager.NominalClass(c.Individual)
		return cls, []axiom.Axiom{axiom.NominalAxiom{Class: cls, Individual: c.Individual}}, true, nil
	default:
		return 0, nil, false, nil
	}
}

// name returns the auxiliary class standing for a complex concept. The same concept
// always gets the same class.
func (n *Normalizer) name(purpose entity.Purpose, c axiom.Concept) entity.ID {
	return n.manager.AuxClass(purpose, c.String())
}

func nominals(individuals []entity.ID) []axiom.Concept {
	out := make([]axiom.Concept, len(individuals))
	for i, ind := range individuals {
		out[i] = axiom.One(ind)
	}
	return out
}
