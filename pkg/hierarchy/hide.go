package hierarchy

import (
	"slices"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
)

// Hide returns a copy of g without the given elements. A vertex whose members are
// all hidden is dropped, and its children move up to its nearest remaining
// ancestors. Top and Bottom return NoVertex when their vertex is dropped.
func (g *Graph) Hide(elements ...entity.ID) (*Graph, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	hidden := entity.NewSet(elements...)

	h := newGraph(g.top, g.bottom, len(g.rep))
	h.inconsistent = g.inconsistent

	kept := make(map[entity.ID]entity.ID, len(g.vertices))
	for _, v := range g.vertices {
		members := make([]entity.ID, 0, len(g.members[v]))
		for _, m := range g.members[v] {
			if !hidden.Has(m) {
				members = append(members, m)
			}
		}
		if len(members) == 0 {
			continue
		}
		h.addClass(members)
		rep := h.rep[members[0]]
		kept[v] = rep
		if v == g.topRep {
			h.topRep = rep
		}
		if v == g.bottomRep {
			h.bottomRep = rep
		}
	}

	// Parents come before children in order, so the ancestors of every kept parent
	// are known by the time its children are placed.
	above := make(map[entity.ID]entity.Set[entity.ID], len(kept))
	for _, v := range order {
		rep, ok := kept[v]
		if !ok {
			continue
		}
		candidates := entity.NewSet[entity.ID]()
		for _, p := range g.parents[v] {
			g.nearestKept(p, kept, candidates)
		}

		anc := entity.NewSet[entity.ID]()
		covered := entity.NewSet[entity.ID]()
		for c := range candidates {
			anc.Add(c)
			for a := range above[c] {
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
		h.parents[rep] = parents
		above[rep] = anc
	}

	for _, v := range h.vertices {
		for _, p := range h.parents[v] {
			h.children[p] = append(h.children[p], v)
		}
	}
	return h, nil
}

// nearestKept adds to into the kept vertex standing for v, or, when v was dropped,
// the nearest kept vertices above it.
func (g *Graph) nearestKept(v entity.ID, kept map[entity.ID]entity.ID, into entity.Set[entity.ID]) {
	if rep, ok := kept[v]; ok {
		into.Add(rep)
		return
	}
	for _, p := range g.parents[v] {
		g.nearestKept(p, kept, into)
	}
}
