// Package saturation closes the role hierarchy of a normalized axiom set before
// classification. The classifier assumes role inclusions and functionality facts are
// already complete, so the rules here run to a fixpoint:
//
//   - SR1: r ⊑ s gives r⁻ ⊑ s⁻
//   - SR2: r ⊑ s and s ⊑ t give r ⊑ t
//   - SR3: r ∘ t ⊑ s gives t⁻ ∘ r⁻ ⊑ s⁻
//   - SR4: Functional(s) and r ⊑ s give Functional(r)
//
// SR1 and SR3 only fire when at least one role in the axiom already has an inverse, so
// ontologies without inverse roles gain no auxiliary roles.
package saturation

import (
	"context"

	"github.com/dd0wney/cluso-reasoner/pkg/axiom"
	"github.com/dd0wney/cluso-reasoner/pkg/entity"
	"github.com/dd0wney/cluso-reasoner/pkg/logging"
)

// Stats describes one saturation run.
type Stats struct {
	Rounds  int
	Derived int
}

// Saturator derives the closure of the role hierarchy.
type Saturator struct {
	manager *entity.Manager
	logger  logging.Logger
}

// New creates a saturator resolving inverses through m.
func New(m *entity.Manager, logger logging.Logger) *Saturator {
	return &Saturator{manager: m, logger: logging.OrNop(logger)}
}

type rolePair struct{ sub, sup entity.ID }

type chain struct{ left, right, sup entity.ID }

// state holds the role facts accumulated so far.
type state struct {
	inclusions map[rolePair]struct{}
	supers     map[entity.ID]entity.Set[entity.ID]
	chains     map[chain]struct{}
	functional entity.Set[entity.ID]
}

// Saturate returns a new set holding every input axiom plus the derived RI2, RI3 and
// Functional axioms.
func (s *Saturator) Saturate(ctx context.Context, in *axiom.NormalSet) (*axiom.NormalSet, Stats, error) {
	out := axiom.NewNormalSet()
	st := &state{
		inclusions: make(map[rolePair]struct{}),
		supers:     make(map[entity.ID]entity.Set[entity.ID]),
		chains:     make(map[chain]struct{}),
		functional: entity.NewSet[entity.ID](),
	}

	for _, a := range in.Items() {
		out.Add(a)
		switch a := a.(type) {
		case axiom.RI2:
			st.addInclusion(a.Sub, a.Sup)
		case axiom.RI3:
			st.chains[chain{a.Left, a.Right, a.Sup}] = struct{}{}
		case axiom.Functional:
			st.functional.Add(a.Role)
		}
	}

	var stats Stats
	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		stats.Rounds++
		derived := s.round(st, out)
		stats.Derived += derived
		if derived == 0 {
			break
		}
	}

	s.logger.Debug("role saturation finished",
		logging.Int("rounds", stats.Rounds),
		logging.Int("derived", stats.Derived),
	)
	return out, stats, nil
}

// round applies every rule once against a snapshot of the current facts and returns
// how many new axioms were added.
func (s *Saturator) round(st *state, out *axiom.NormalSet) int {
	derived := 0

	pairs := make([]rolePair, 0, len(st.inclusions))
	for p := range st.inclusions {
		pairs = append(pairs, p)
	}

	for _, p := range pairs {
		// SR1
		if s.hasInverse(p.sub) || s.hasInverse(p.sup) {
			inv := rolePair{s.manager.InverseOf(p.sub), s.manager.InverseOf(p.sup)}
			if st.addInclusion(inv.sub, inv.sup) {
				out.Add(axiom.RI2{Sub: inv.sub, Sup: inv.sup})
				derived++
			}
		}
		// SR2
		for t := range st.supers[p.sup].Clone() {
			if st.addInclusion(p.sub, t) {
				out.Add(axiom.RI2{Sub: p.sub, Sup: t})
				derived++
			}
		}
		// SR4
		if st.functional.Has(p.sup) && st.functional.Add(p.sub) {
			out.Add(axiom.Functional{Role: p.sub})
			derived++
		}
	}

	// SR3
	chains := make([]chain, 0, len(st.chains))
	for c := range st.chains {
		chains = append(chains, c)
	}
	for _, c := range chains {
		if !s.hasInverse(c.left) && !s.hasInverse(c.right) && !s.hasInverse(c.sup) {
			continue
		}
		inv := chain{
			left:  s.manager.InverseOf(c.right),
			right: s.manager.InverseOf(c.left),
			sup:   s.manager.InverseOf(c.sup),
		}
		if _, ok := st.chains[inv]; ok {
			continue
		}
		st.chains[inv] = struct{}{}
		out.Add(axiom.RI3{Left: inv.left, Right: inv.right, Sup: inv.sup})
		derived++
	}
	return derived
}

func (s *Saturator) hasInverse(r entity.ID) bool {
	if r.IsReserved() {
		return false
	}
	_, ok := s.manager.Inverse(r)
	return ok
}

func (st *state) addInclusion(sub, sup entity.ID) bool {
	if sub == sup {
		return false
	}
	p := rolePair{sub, sup}
	if _, ok := st.inclusions[p]; ok {
		return false
	}
	st.inclusions[p] = struct{}{}
	set, ok := st.supers[sub]
	if !ok {
		set = entity.NewSet[entity.ID]()
		st.supers[sub] = set
	}
	set.Add(sup)
	return true
}
