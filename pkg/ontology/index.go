// Package ontology builds the read-only lookup tables the completion rules consult
// while classifying. An Index is constructed once from a saturated set of normal
// axioms and never changes afterwards, so it can be shared between workers without
// locking.
package ontology

import (
	"slices"

	"github.com/dd0wney/cluso-reasoner/pkg/axiom"
	"github.com/dd0wney/cluso-reasoner/pkg/entity"
)

// Conjunction is a GCI1 entry: when every operand subsumes a class, so does Target.
// Seq numbers the conjunctions of one index densely from zero so callers can keep
// per-conjunction counters in a slice.
type Conjunction struct {
	Seq      int
	Operands []entity.ID
	Target   entity.ID
}

// Existential is a GCI2 entry: the indexed class implies ∃Role.Filler.
type Existential struct {
	Role   entity.ID
	Filler entity.ID
}

// Chain is an RI3 entry: Left ∘ Right ⊑ Sup.
type Chain struct {
	Left  entity.ID
	Right entity.ID
	Sup   entity.ID
}

type restriction struct {
	role   entity.ID
	filler entity.ID
}

// Index holds the extended ontology tables.
type Index struct {
	subsumers    map[entity.ID][]entity.ID
	conjunctions map[entity.ID][]*Conjunction
	conjCount    int
	existentials map[entity.ID][]Existential
	restrictions map[restriction][]entity.ID
	fillers      entity.Set[entity.ID]
	restricted   entity.Set[entity.ID]
	chainsLeft   map[entity.ID][]Chain
	chainsRight  map[entity.ID][]Chain
	superRoles   map[entity.ID][]entity.ID
	ranges       map[entity.ID][]entity.ID
	inverse      map[entity.ID]entity.ID
	backLinks    map[entity.ID]entity.ID
	functional   entity.Set[entity.ID]
	reflexive    entity.Set[entity.ID]
	transitive   entity.Set[entity.ID]
	nominals     map[entity.ID]entity.ID
	roles        []entity.ID
	axioms       int
}

// Build indexes set. Every axiom is validated against m first; a single malformed
// axiom fails the whole build.
func Build(m *entity.Manager, set *axiom.NormalSet) (*Index, error) {
	for _, a := range set.Items() {
		if err := axiom.Validate("index", m, a); err != nil {
			return nil, err
		}
	}

	idx := &Index{
		subsumers:    make(map[entity.ID][]entity.ID),
		conjunctions: make(map[entity.ID][]*Conjunction),
		existentials: make(map[entity.ID][]Existential),
		restrictions: make(map[restriction][]entity.ID),
		fillers:      entity.NewSet[entity.ID](),
		restricted:   entity.NewSet[entity.ID](),
		chainsLeft:   make(map[entity.ID][]Chain),
		chainsRight:  make(map[entity.ID][]Chain),
		superRoles:   make(map[entity.ID][]entity.ID),
		ranges:       make(map[entity.ID][]entity.ID),
		inverse:      make(map[entity.ID]entity.ID),
		backLinks:    make(map[entity.ID]entity.ID),
		functional:   entity.NewSet[entity.ID](),
		reflexive:    entity.NewSet[entity.ID](),
		transitive:   entity.NewSet[entity.ID](),
		nominals:     make(map[entity.ID]entity.ID),
		roles:        m.Roles(),
		axioms:       set.Len(),
	}

	told := make(map[entity.ID][]entity.ID)
	var reflexive []entity.ID
	directRanges := make(map[entity.ID][]entity.ID)

	for _, a := range set.Items() {
		switch a := a.(type) {
		case axiom.GCI0:
			idx.subsumers[a.Sub] = append(idx.subsumers[a.Sub], a.Sup)
		case axiom.GCI1:
			c := &Conjunction{Seq: idx.conjCount, Operands: a.Operands, Target: a.Sup}
			idx.conjCount++
			for _, op := range a.Operands {
				idx.conjunctions[op] = append(idx.conjunctions[op], c)
			}
		case axiom.GCI2:
			idx.existentials[a.Sub] = append(idx.existentials[a.Sub], Existential{Role: a.Role, Filler: a.Filler})
		case axiom.GCI3:
			k := restriction{a.Role, a.Filler}
			idx.restrictions[k] = append(idx.restrictions[k], a.Sup)
			idx.fillers.Add(a.Filler)
			idx.restricted.Add(a.Role)
		case axiom.RI1:
			reflexive = append(reflexive, a.Role)
		case axiom.RI2:
			told[a.Sub] = append(told[a.Sub], a.Sup)
		case axiom.RI3:
			c := Chain{Left: a.Left, Right: a.Right, Sup: a.Sup}
			idx.chainsLeft[a.Left] = append(idx.chainsLeft[a.Left], c)
			idx.chainsRight[a.Right] = append(idx.chainsRight[a.Right], c)
		case axiom.Functional:
			idx.functional.Add(a.Role)
		case axiom.Transitive:
			idx.transitive.Add(a.Role)
		case axiom.Range:
			directRanges[a.Role] = append(directRanges[a.Role], a.Class)
		case axiom.NominalAxiom:
			idx.nominals[a.Class] = a.Individual
		}
	}

	for _, r := range idx.roles {
		idx.superRoles[r] = closure(r, told)
		if inv, ok := m.Inverse(r); ok {
			idx.inverse[r] = inv
		}
	}

	for r, inv := range idx.inverse {
		if idx.needsBackLink(inv) {
			idx.backLinks[r] = inv
		}
	}

	for _, r := range reflexive {
		for _, s := range idx.SuperRoles(r) {
			idx.reflexive.Add(s)
		}
	}

	for _, r := range idx.roles {
		var rs []entity.ID
		for _, s := range idx.SuperRoles(r) {
			rs = append(rs, directRanges[s]...)
		}
		if len(rs) == 0 {
			continue
		}
		slices.Sort(rs)
		idx.ranges[r] = slices.Compact(rs)
	}
	return idx, nil
}

// closure returns r and every role reachable from it through told inclusions,
// sorted ascending.
func closure(r entity.ID, told map[entity.ID][]entity.ID) []entity.ID {
	seen := entity.NewSet(r)
	stack := []entity.ID{r}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, s := range told[cur] {
			if seen.Add(s) {
				stack = append(stack, s)
			}
		}
	}
	return seen.Sorted()
}

// needsBackLink reports whether edges of role inv can trigger anything: inv or one of
// its super-roles is functional, restricted by a GCI3 or part of a chain.
func (idx *Index) needsBackLink(inv entity.ID) bool {
	for _, s := range idx.SuperRoles(inv) {
		if idx.functional.Has(s) || idx.restricted.Has(s) ||
			len(idx.chainsLeft[s]) > 0 || len(idx.chainsRight[s]) > 0 {
			return true
		}
	}
	return false
}

// Subsumers returns the GCI0 targets of class a.
func (idx *Index) Subsumers(a entity.ID) []entity.ID { return idx.subsumers[a] }

// Conjunctions returns the GCI1 entries having a as an operand.
func (idx *Index) Conjunctions(a entity.ID) []*Conjunction { return idx.conjunctions[a] }

// ConjunctionCount returns the number of GCI1 entries.
func (idx *Index) ConjunctionCount() int { return idx.conjCount }

// Existentials returns the GCI2 entries of class a.
func (idx *Index) Existentials(a entity.ID) []Existential { return idx.existentials[a] }

// Restrictions returns the classes B with ∃r.filler ⊑ B.
func (idx *Index) Restrictions(r, filler entity.ID) []entity.ID {
	return idx.restrictions[restriction{r, filler}]
}

// HasRestrictions reports whether r occurs in any GCI3 axiom.
func (idx *Index) HasRestrictions(r entity.ID) bool { return idx.restricted.Has(r) }

// IsFiller reports whether a is the filler of any GCI3 axiom.
func (idx *Index) IsFiller(a entity.ID) bool { return idx.fillers.Has(a) }

// ChainsByLeft returns the RI3 entries whose left role is r.
func (idx *Index) ChainsByLeft(r entity.ID) []Chain { return idx.chainsLeft[r] }

// ChainsByRight returns the RI3 entries whose right role is r.
func (idx *Index) ChainsByRight(r entity.ID) []Chain { return idx.chainsRight[r] }

// SuperRoles returns r and all its told super-roles, ascending. Roles unknown to the
// index only have themselves.
func (idx *Index) SuperRoles(r entity.ID) []entity.ID {
	if sup, ok := idx.superRoles[r]; ok {
		return sup
	}
	return []entity.ID{r}
}

// IsSubRole reports whether r ⊑ s holds in the saturated role hierarchy.
func (idx *Index) IsSubRole(r, s entity.ID) bool {
	if r == s || s == entity.TopRole || r == entity.BottomRole {
		return true
	}
	_, ok := slices.BinarySearch(idx.SuperRoles(r), s)
	return ok
}

// Ranges returns the range classes of r including those inherited from super-roles.
func (idx *Index) Ranges(r entity.ID) []entity.ID { return idx.ranges[r] }

// Inverse returns the inverse of r when one was declared or created before the build.
func (idx *Index) Inverse(r entity.ID) (entity.ID, bool) {
	inv, ok := idx.inverse[r]
	return inv, ok
}

// BackLink returns the inverse of r when witnesses created for r must record their
// predecessor through it.
func (idx *Index) BackLink(r entity.ID) (entity.ID, bool) {
	inv, ok := idx.backLinks[r]
	return inv, ok
}

// IsFunctional reports whether r is functional.
func (idx *Index) IsFunctional(r entity.ID) bool { return idx.functional.Has(r) }

// IsInverseFunctional reports whether the inverse of r is functional.
func (idx *Index) IsInverseFunctional(r entity.ID) bool {
	inv, ok := idx.inverse[r]
	return ok && idx.functional.Has(inv)
}

// IsReflexive reports whether r is reflexive, directly or through a reflexive sub-role.
func (idx *Index) IsReflexive(r entity.ID) bool { return idx.reflexive.Has(r) }

// ReflexiveRoles returns the reflexive roles, ascending.
func (idx *Index) ReflexiveRoles() []entity.ID { return idx.reflexive.Sorted() }

// IsTransitive reports whether r was declared transitive.
func (idx *Index) IsTransitive(r entity.ID) bool { return idx.transitive.Has(r) }

// Individual returns the individual a nominal class stands for.
func (idx *Index) Individual(class entity.ID) (entity.ID, bool) {
	ind, ok := idx.nominals[class]
	return ind, ok
}

// NominalClasses returns every nominal class, ascending.
func (idx *Index) NominalClasses() []entity.ID {
	out := make([]entity.ID, 0, len(idx.nominals))
	for c := range idx.nominals {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Roles returns every role known when the index was built.
func (idx *Index) Roles() []entity.ID { return idx.roles }

// AxiomCount returns the number of indexed axioms.
func (idx *Index) AxiomCount() int { return idx.axioms }

// Summary counts the entries of an index by category.
type Summary struct {
	Axioms            int
	Conjunctions      int
	Nominals          int
	Functional        int
	InverseFunctional int
	Transitive        int
	Reflexive         int
}

// Summary returns the entry counts of idx.
func (idx *Index) Summary() Summary {
	s := Summary{
		Axioms:       idx.axioms,
		Conjunctions: idx.ConjunctionCount(),
		Nominals:     len(idx.nominals),
		Reflexive:    idx.reflexive.Len(),
	}
	for _, r := range idx.roles {
		if idx.IsFunctional(r) {
			s.Functional++
		}
		if idx.IsInverseFunctional(r) {
			s.InverseFunctional++
		}
		if idx.IsTransitive(r) {
			s.Transitive++
		}
	}
	return s
}
