package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-reasoner/pkg/axiom"
	"github.com/dd0wney/cluso-reasoner/pkg/entity"
)

func build(t *testing.T, m *entity.Manager, axioms ...axiom.Normal) *Index {
	t.Helper()
	set := axiom.NewNormalSet()
	for _, a := range axioms {
		set.Add(a)
	}
	idx, err := Build(m, set)
	require.NoError(t, err)
	return idx
}

func TestIndexClassEntries(t *testing.T) {
	m := entity.NewManager()
	a, b, c, d := m.CreateClass(), m.CreateClass(), m.CreateClass(), m.CreateClass()
	r := m.CreateRole()

	idx := build(t, m,
		axiom.GCI0{Sub: a, Sup: b},
		axiom.GCI0{Sub: a, Sup: c},
		axiom.NewGCI1([]entity.ID{a, b}, d),
		axiom.NewGCI1([]entity.ID{b, c}, a),
		axiom.GCI2{Sub: c, Role: r, Filler: d},
		axiom.GCI3{Role: r, Filler: d, Sup: a},
	)

	assert.Equal(t, []entity.ID{b, c}, idx.Subsumers(a))
	assert.Empty(t, idx.Subsumers(d))

	require.Len(t, idx.Conjunctions(b), 2)
	assert.Equal(t, 0, idx.Conjunctions(b)[0].Seq)
	assert.Equal(t, 1, idx.Conjunctions(b)[1].Seq)
	assert.Same(t, idx.Conjunctions(a)[0], idx.Conjunctions(b)[0])
	assert.Equal(t, 2, idx.ConjunctionCount())

	assert.Equal(t, []Existential{{Role: r, Filler: d}}, idx.Existentials(c))
	assert.Equal(t, []entity.ID{a}, idx.Restrictions(r, d))
	assert.Empty(t, idx.Restrictions(r, a))
	assert.True(t, idx.IsFiller(d))
	assert.False(t, idx.IsFiller(a))
	assert.Equal(t, 6, idx.AxiomCount())
}

func TestIndexRoleClosure(t *testing.T) {
	m := entity.NewManager()
	r, s, u, v := m.CreateRole(), m.CreateRole(), m.CreateRole(), m.CreateRole()

	idx := build(t, m,
		axiom.RI2{Sub: r, Sup: s},
		axiom.RI2{Sub: s, Sup: u},
		axiom.RI2{Sub: u, Sup: r},
	)
	assert.Equal(t, []entity.ID{r, s, u}, idx.SuperRoles(r))
	assert.Equal(t, []entity.ID{v}, idx.SuperRoles(v))
	assert.True(t, idx.IsSubRole(u, s))
	assert.False(t, idx.IsSubRole(v, r))
	assert.True(t, idx.IsSubRole(v, entity.TopRole))
	assert.True(t, idx.IsSubRole(entity.BottomRole, v))
}

func TestIndexRoleProperties(t *testing.T) {
	m := entity.NewManager()
	r, s, u := m.CreateRole(), m.CreateRole(), m.CreateRole()
	a, b := m.CreateClass(), m.CreateClass()
	rInv := m.InverseOf(r)

	idx := build(t, m,
		axiom.RI1{Role: r},
		axiom.RI2{Sub: r, Sup: s},
		axiom.Functional{Role: rInv},
		axiom.Transitive{Role: u},
		axiom.RI3{Left: u, Right: u, Sup: u},
		axiom.RI3{Left: r, Right: s, Sup: u},
		axiom.Range{Role: s, Class: a},
		axiom.Range{Role: r, Class: b},
	)

	assert.True(t, idx.IsReflexive(r))
	assert.True(t, idx.IsReflexive(s))
	assert.False(t, idx.IsReflexive(u))
	assert.Equal(t, []entity.ID{r, s}, idx.ReflexiveRoles())

	assert.True(t, idx.IsFunctional(rInv))
	assert.True(t, idx.IsInverseFunctional(r))
	assert.False(t, idx.IsInverseFunctional(s))
	assert.True(t, idx.IsTransitive(u))

	assert.Len(t, idx.ChainsByLeft(u), 1)
	assert.Len(t, idx.ChainsByRight(u), 1)
	assert.Equal(t, []Chain{{Left: r, Right: s, Sup: u}}, idx.ChainsByLeft(r))
	assert.Equal(t, []Chain{{Left: r, Right: s, Sup: u}}, idx.ChainsByRight(s))

	assert.Equal(t, []entity.ID{a, b}, idx.Ranges(r))
	assert.Equal(t, []entity.ID{a}, idx.Ranges(s))
	assert.Empty(t, idx.Ranges(u))

	assert.Equal(t, Summary{
		Axioms:            8,
		Functional:        1,
		InverseFunctional: 1,
		Transitive:        1,
		Reflexive:         2,
	}, idx.Summary())

	inv, ok := idx.Inverse(rInv)
	require.True(t, ok)
	assert.Equal(t, r, inv)

	link, ok := idx.BackLink(r)
	require.True(t, ok)
	assert.Equal(t, rInv, link)
	_, ok = idx.BackLink(s)
	assert.False(t, ok)
}

func TestIndexBackLinkNeedsUse(t *testing.T) {
	m := entity.NewManager()
	r, s := m.CreateRole(), m.CreateRole()
	a, b := m.CreateClass(), m.CreateClass()
	rInv := m.InverseOf(r)
	m.InverseOf(s)

	idx := build(t, m, axiom.GCI3{Role: rInv, Filler: a, Sup: b})
	link, ok := idx.BackLink(r)
	require.True(t, ok)
	assert.Equal(t, rInv, link)
	_, ok = idx.BackLink(s)
	assert.False(t, ok)
	assert.True(t, idx.HasRestrictions(rInv))
	assert.False(t, idx.HasRestrictions(r))
}

func TestIndexNominals(t *testing.T) {
	m := entity.NewManager()
	i, j := m.CreateIndividual(), m.CreateIndividual()
	ni := m.NominalClass(i)
	nj := m.NominalClass(j)

	idx := build(t, m, axiom.NominalAxiom{Class: ni, Individual: i})
	ind, ok := idx.Individual(ni)
	require.True(t, ok)
	assert.Equal(t, i, ind)

	// A nominal class the axioms never mention is not part of the ontology.
	_, ok = idx.Individual(nj)
	assert.False(t, ok)
	assert.Equal(t, []entity.ID{ni}, idx.NominalClasses())
	assert.Equal(t, 1, idx.Summary().Nominals)
}

func TestIndexRejectsMalformedInput(t *testing.T) {
	m := entity.NewManager()
	a := m.CreateClass()
	r := m.CreateRole()

	set := axiom.NewNormalSet()
	set.Add(axiom.GCI0{Sub: a, Sup: entity.Thing})
	set.Add(axiom.GCI2{Sub: a, Role: a, Filler: a})
	_, err := Build(m, set)
	assert.ErrorIs(t, err, entity.ErrWrongKind)

	set = axiom.NewNormalSet()
	set.Add(axiom.GCI3{Role: r, Filler: entity.ID(999), Sup: a})
	_, err = Build(m, set)
	assert.ErrorIs(t, err, entity.ErrUnknownEntity)

	set = axiom.NewNormalSet()
	set.Add(axiom.GCI1{Operands: []entity.ID{a}, Sup: a})
	_, err = Build(m, set)
	assert.ErrorIs(t, err, entity.ErrMalformedAxiom)
}
