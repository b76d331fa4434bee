package classifier

import (
	"cmp"
	"slices"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
	"github.com/dd0wney/cluso-reasoner/pkg/pools"
)

// Obligation is an existential a node carries: every member has a Role-successor in
// Class.
type Obligation struct {
	Role  entity.ID
	Class entity.ID
}

// Descriptor identifies a node structurally: the node stands for Base ⊓ ∃o.Role.o.Class
// for every obligation o. Obligations are kept sorted and duplicate free.
type Descriptor struct {
	Base        entity.ID
	Obligations []Obligation
}

func compareObligations(a, b Obligation) int {
	if c := cmp.Compare(a.Role, b.Role); c != 0 {
		return c
	}
	return cmp.Compare(a.Class, b.Class)
}

func canonicalObligations(obl []Obligation) []Obligation {
	slices.SortFunc(obl, compareObligations)
	return slices.Compact(obl)
}

// key encodes a descriptor as a binary string.
func (d Descriptor) key() string {
	kb := pools.NewKeyBuilder(1 + 2*len(d.Obligations))
	defer kb.Release()
	kb.WriteID(d.Base)
	for _, o := range d.Obligations {
		kb.WriteID(o.Role)
		kb.WriteID(o.Class)
	}
	return kb.String()
}

// Descriptor returns the descriptor of node n. Classes that are not synthetic nodes
// describe themselves.
func (st *Status) Descriptor(n entity.ID) Descriptor {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.descriptor(n)
}

func (st *Status) descriptor(n entity.ID) Descriptor {
	if d, ok := st.descriptors[n]; ok {
		return d
	}
	return Descriptor{Base: n}
}

// IsSynthetic reports whether n is a node created by the completion rules.
func (st *Status) IsSynthetic(n entity.ID) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.descriptors[n]
	return ok
}

func (st *Status) base(n entity.ID) entity.ID {
	return st.descriptor(n).Base
}

// node returns the canonical node for (base, obligations), creating and seeding it on
// first use. Without obligations the node is the base class itself.
func (st *Status) node(base entity.ID, obligations []Obligation) entity.ID {
	if base == entity.Nothing {
		return entity.Nothing
	}
	if len(obligations) == 0 {
		st.initNode(base)
		return base
	}
	d := Descriptor{Base: base, Obligations: canonicalObligations(obligations)}
	k := d.key()
	if n, ok := st.nodes[k]; ok {
		return n
	}
	n := st.manager.AuxClass(entity.PurposeNode, k)
	st.nodes[k] = n
	st.descriptors[n] = d
	st.initNode(n)
	return n
}

// initNode seeds a node once: S(n) gets n, ⊤, its base and the members of any
// conjunction among them; obligations and reflexive roles become edges.
func (st *Status) initNode(n entity.ID) {
	if !st.initialized.Add(n) {
		return
	}
	if _, ok := st.subsumers[n]; !ok {
		st.subsumers[n] = entity.NewSet[entity.ID]()
	}
	d := st.descriptor(n)

	st.addSubsumer(n, n)
	st.addSubsumer(n, entity.Thing)
	if d.Base != n {
		st.initNode(d.Base)
		st.addSubsumer(n, d.Base)
	}
	for _, c := range []entity.ID{n, d.Base} {
		members, ok := st.manager.ConjunctionMembers(c)
		if !ok {
			continue
		}
		for _, m := range members {
			st.initNode(m)
			st.addSubsumer(n, m)
		}
	}
	for _, o := range d.Obligations {
		st.initNode(o.Class)
		st.addEdge(o.Role, n, o.Class)
	}
	if n != entity.Nothing {
		for _, r := range st.index.ReflexiveRoles() {
			st.addEdge(r, n, n)
		}
	}
}

// witness returns the node standing for the filler of x ⊑ ∃r.b: b conjoined with the
// ranges of r, remembering the predecessor through the inverse of r when that inverse
// can trigger rules.
func (st *Status) witness(x, r, b entity.ID) entity.ID {
	base := b
	if ranges := st.index.Ranges(r); len(ranges) > 0 {
		members := make([]entity.ID, 0, len(ranges)+1)
		members = append(members, b)
		members = append(members, ranges...)
		base = st.manager.Conjunction(members...)
	}
	var obligations []Obligation
	if inv, ok := st.index.BackLink(r); ok {
		obligations = []Obligation{{Role: inv, Class: st.base(x)}}
	}
	return st.node(base, obligations)
}

// merge returns the node standing for the intersection of nodes y and z.
func (st *Status) merge(y, z entity.ID) entity.ID {
	dy, dz := st.descriptor(y), st.descriptor(z)
	base := st.manager.Conjunction(dy.Base, dz.Base)
	obligations := make([]Obligation, 0, len(dy.Obligations)+len(dz.Obligations))
	obligations = append(obligations, dy.Obligations...)
	obligations = append(obligations, dz.Obligations...)
	return st.node(base, obligations)
}
