package classifier

import (
	"github.com/dd0wney/cluso-reasoner/pkg/entity"
	"github.com/dd0wney/cluso-reasoner/pkg/pools"
)

// addSubsumer records a ∈ S(x). A new ⊥ is pushed back along every role edge into x
// before returning, so no rule ever sees an edge into an unsatisfiable node whose source
// is not yet unsatisfiable.
func (st *Status) addSubsumer(x, a entity.ID) {
	if !st.pushS(x, a) {
		return
	}
	if a == entity.Nothing {
		st.propagateBottom(x)
	}
}

func (st *Status) propagateBottom(x entity.ID) {
	stack := pools.GetIDs(16)
	stack = append(stack, x)
	for len(stack) > 0 {
		y := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, preds := range st.pred[y] {
			for p := range preds {
				if st.pushS(p, entity.Nothing) {
					stack = append(stack, p)
				}
			}
		}
	}
	pools.PutIDs(stack)
}

// addEdge records r(x, y). Edges over the bottom role or into an unsatisfiable node make
// x unsatisfiable straight away.
func (st *Status) addEdge(r, x, y entity.ID) {
	if !st.pushR(r, x, y) {
		return
	}
	if r == entity.BottomRole || st.has(y, entity.Nothing) {
		st.addSubsumer(x, entity.Nothing)
	}
}

// applyS derives the consequences of a new a ∈ S(x).
func (st *Status) applyS(e sEntry) {
	x, a := e.x, e.a
	if x == entity.Nothing {
		return
	}
	idx := st.index

	// CR1
	for _, b := range idx.Subsumers(a) {
		st.addSubsumer(x, b)
	}

	// CR2
	for _, c := range idx.Conjunctions(a) {
		k := counterKey{x, c.Seq}
		left, ok := st.counters[k]
		if !ok {
			left = len(c.Operands)
		}
		left--
		if left > 0 {
			st.counters[k] = left
			continue
		}
		delete(st.counters, k)
		st.addSubsumer(x, c.Target)
	}

	// CR3
	for _, ex := range idx.Existentials(a) {
		w := st.witness(x, ex.Role, ex.Filler)
		st.addEdge(ex.Role, x, w)
	}

	// CR4 from the subsumer side
	if idx.IsFiller(a) {
		for r, preds := range st.pred[x] {
			targets := idx.Restrictions(r, a)
			if len(targets) == 0 {
				continue
			}
			ps := pools.CopySet(preds)
			for _, p := range ps {
				for _, b := range targets {
					st.addSubsumer(p, b)
				}
			}
			pools.PutIDs(ps)
		}
	}

	st.applyNominal(x, a)
}

// applyNominal keeps nominal classes and the nodes equal to them in step.
func (st *Status) applyNominal(x, a entity.ID) {
	if _, ok := st.index.Individual(a); ok && a != x {
		members, ok := st.nominalMembers[a]
		if !ok {
			members = entity.NewSet[entity.ID]()
			st.nominalMembers[a] = members
		}
		members.Add(x)
		st.copySubsumers(a, x)
		if st.grounded.Has(x) {
			st.copySubsumers(x, a)
		}
	}

	// x is a nominal: everything inside it shares its subsumers.
	if members, ok := st.nominalMembers[x]; ok {
		ms := pools.CopySet(members)
		for _, m := range ms {
			st.addSubsumer(m, a)
		}
		pools.PutIDs(ms)
	}

	if !st.grounded.Has(x) {
		return
	}
	if a == entity.Nothing {
		st.addSubsumer(entity.Thing, entity.Nothing)
	}
	for n, members := range st.nominalMembers {
		if n != x && members.Has(x) {
			st.addSubsumer(n, a)
		}
	}
}

// copySubsumers adds every member of S(from) to S(to).
func (st *Status) copySubsumers(from, to entity.ID) {
	subs := pools.CopySet(st.subsumers[from])
	for _, b := range subs {
		st.addSubsumer(to, b)
	}
	pools.PutIDs(subs)
}

// ground marks y and everything reachable from it as non-empty.
func (st *Status) ground(y entity.ID) {
	stack := pools.GetIDs(16)
	stack = append(stack, y)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !st.grounded.Add(n) {
			continue
		}
		if st.has(n, entity.Nothing) {
			st.addSubsumer(entity.Thing, entity.Nothing)
		}
		for nominal, members := range st.nominalMembers {
			if nominal != n && members.Has(n) {
				st.copySubsumers(n, nominal)
			}
		}
		for _, ys := range st.succ[n] {
			for z := range ys {
				if !st.grounded.Has(z) {
					stack = append(stack, z)
				}
			}
		}
	}
	pools.PutIDs(stack)
}

// applyR derives the consequences of a new edge r(x, y).
func (st *Status) applyR(e rEntry) {
	r, x, y := e.r, e.x, e.y
	if x == entity.Nothing {
		return
	}
	idx := st.index

	// CR4
	if idx.HasRestrictions(r) {
		subs := pools.CopySet(st.subsumers[y])
		for _, a := range subs {
			for _, b := range idx.Restrictions(r, a) {
				st.addSubsumer(x, b)
			}
		}
		pools.PutIDs(subs)
	}

	// CR5
	for _, s := range idx.SuperRoles(r) {
		if s != r {
			st.addEdge(s, x, y)
		}
	}

	// CR6: r ∘ t ⊑ s with r(x, y), t(y, z)
	for _, c := range idx.ChainsByLeft(r) {
		zs := pools.CopySet(st.succ[y][c.Right])
		for _, z := range zs {
			st.addEdge(c.Sup, x, z)
		}
		pools.PutIDs(zs)
	}
	// CR6: l ∘ r ⊑ s with l(w, x), r(x, y)
	for _, c := range idx.ChainsByRight(r) {
		ws := pools.CopySet(st.pred[x][c.Left])
		for _, w := range ws {
			st.addEdge(c.Sup, w, y)
		}
		pools.PutIDs(ws)
	}

	// CR9/CR10
	if idx.IsFunctional(r) {
		ys := pools.CopySet(st.succ[x][r])
		for _, other := range ys {
			if other == y {
				continue
			}
			st.addEdge(r, x, st.merge(y, other))
		}
		pools.PutIDs(ys)
	}

	if st.grounded.Has(x) {
		st.ground(y)
	}
}
