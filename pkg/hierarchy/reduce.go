package hierarchy

import (
	"slices"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
	"github.com/dd0wney/cluso-reasoner/pkg/pools"
)

// Subsumers returns every element known to subsume x. The relation must be reflexive
// and transitively closed; elements outside the reduced set are ignored.
type Subsumers func(x entity.ID) []entity.ID

// Reduce builds the hierarchy of elements under the given relation. Top and bottom are
// always part of the result: top subsumes everything, bottom is subsumed by everything,
// and any element with bottom among its subsumers is grouped with bottom. When top
// itself is subsumed by bottom every element collapses into a single vertex.
func Reduce(elements []entity.ID, top, bottom entity.ID, subsumers Subsumers) *Graph {
	universe := entity.NewSet(elements...)
	universe.Add(top)
	universe.Add(bottom)

	rel := make(map[entity.ID]entity.Set[entity.ID], len(universe))
	for x := range universe {
		s := entity.NewSet(x, top)
		if x == bottom {
			s.Add(bottom)
		}
		for _, y := range subsumers(x) {
			if universe.Has(y) {
				s.Add(y)
			}
		}
		rel[x] = s
	}

	g := newGraph(top, bottom, len(universe))
	order := universe.Sorted()
	if rel[top].Has(bottom) {
		g.inconsistent = true
		g.addClass(order)
		return g
	}

	var unsat []entity.ID
	for _, x := range order {
		if rel[x].Has(bottom) {
			unsat = append(unsat, x)
		}
	}
	g.addClass(unsat)

	for _, x := range order {
		if _, done := g.rep[x]; done {
			continue
		}
		class := []entity.ID{x}
		for y := range rel[x] {
			if y != x && !rel[y].Has(bottom) && rel[y].Has(x) {
				class = append(class, y)
			}
		}
		slices.Sort(class)
		g.addClass(class)
	}

	r := &reducer{g: g, rel: rel, ancestors: make(map[entity.ID]entity.Set[entity.ID], len(g.vertices))}
	for _, v := range g.vertices {
		if v != g.Bottom() {
			r.classify(v)
		}
	}
	g.link()
	return g
}

// addClass registers one equivalence class; members must be sorted.
func (g *Graph) addClass(members []entity.ID) {
	if len(members) == 0 {
		return
	}
	rep := members[0]
	switch {
	case slices.Contains(members, g.bottom):
		rep = g.bottom
	case slices.Contains(members, g.top):
		rep = g.top
	}
	for _, m := range members {
		g.rep[m] = rep
	}
	if slices.Contains(members, g.bottom) {
		g.bottomRep = rep
	}
	if slices.Contains(members, g.top) {
		g.topRep = rep
	}
	g.members[rep] = members
	i, _ := slices.BinarySearch(g.vertices, rep)
	g.vertices = slices.Insert(g.vertices, i, rep)
}

type reducer struct {
	g         *Graph
	rel       map[entity.ID]entity.Set[entity.ID]
	ancestors map[entity.ID]entity.Set[entity.ID]
}

// classify places v below its maximal strict subsumers, classifying those first, and
// returns the representatives strictly above v.
func (r *reducer) classify(v entity.ID) entity.Set[entity.ID] {
	if anc, ok := r.ancestors[v]; ok {
		return anc
	}
	anc := entity.NewSet[entity.ID]()
	r.ancestors[v] = anc

	bottom := r.g.Bottom()
	candidates := pools.GetSet()
	defer pools.PutSet(candidates)
	for y := range r.rel[v] {
		if c := r.g.rep[y]; c != v && c != bottom {
			candidates.Add(c)
		}
	}

	covered := pools.GetSet()
	defer pools.PutSet(covered)
	for c := range candidates {
		anc.Add(c)
		for a := range r.classify(c) {
			anc.Add(a)
			covered.Add(a)
		}
	}

	parents := make([]entity.ID, 0, len(candidates))
	for c := range candidates {
		if !covered.Has(c) {
			parents = append(parents, c)
		}
	}
	slices.Sort(parents)
	r.g.parents[v] = parents
	return anc
}

// link fills in children from parents and hangs bottom under every leaf.
func (g *Graph) link() {
	bottom := g.Bottom()
	for _, v := range g.vertices {
		for _, p := range g.parents[v] {
			g.children[p] = append(g.children[p], v)
		}
	}
	var leaves []entity.ID
	for _, v := range g.vertices {
		if v != bottom && len(g.children[v]) == 0 {
			leaves = append(leaves, v)
		}
	}
	g.parents[bottom] = leaves
	for _, l := range leaves {
		g.children[l] = append(g.children[l], bottom)
	}
}
