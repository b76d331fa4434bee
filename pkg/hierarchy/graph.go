// Package hierarchy reduces a transitively closed subsumption relation to its Hasse
// diagram: one vertex per equivalence class, edges to direct parents and children.
package hierarchy

import (
	"slices"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
	"github.com/dd0wney/cluso-reasoner/pkg/pools"
)

// NoVertex is returned by Top and Bottom when the corresponding vertex was hidden.
const NoVertex = ^entity.ID(0)

// Graph is a reduced hierarchy. Every vertex is the representative of its
// equivalence class; members of a class share the vertex.
type Graph struct {
	top, bottom       entity.ID
	topRep, bottomRep entity.ID

	vertices []entity.ID
	rep      map[entity.ID]entity.ID
	members  map[entity.ID][]entity.ID
	parents  map[entity.ID][]entity.ID
	children map[entity.ID][]entity.ID

	inconsistent bool
}

func newGraph(top, bottom entity.ID, size int) *Graph {
	return &Graph{
		top:       top,
		bottom:    bottom,
		topRep:    NoVertex,
		bottomRep: NoVertex,
		rep:       make(map[entity.ID]entity.ID, size),
		members:   make(map[entity.ID][]entity.ID),
		parents:   make(map[entity.ID][]entity.ID),
		children:  make(map[entity.ID][]entity.ID),
	}
}

// Top returns the representative of the top element's class.
func (g *Graph) Top() entity.ID { return g.topRep }

// Bottom returns the representative of the bottom element's class.
func (g *Graph) Bottom() entity.ID { return g.bottomRep }

// IsInconsistent reports whether top was found below bottom, in which case the graph
// has a single vertex holding every element.
func (g *Graph) IsInconsistent() bool { return g.inconsistent }

// Vertices returns the class representatives in ascending order.
func (g *Graph) Vertices() []entity.ID {
	return slices.Clone(g.vertices)
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.vertices) }

// Contains reports whether x was part of the reduced relation.
func (g *Graph) Contains(x entity.ID) bool {
	_, ok := g.rep[x]
	return ok
}

// Representative returns the vertex standing for x.
func (g *Graph) Representative(x entity.ID) (entity.ID, bool) {
	r, ok := g.rep[x]
	return r, ok
}

// Equivalents returns every element equivalent to x, x included, in ascending order.
func (g *Graph) Equivalents(x entity.ID) []entity.ID {
	r, ok := g.rep[x]
	if !ok {
		return nil
	}
	return slices.Clone(g.members[r])
}

// Parents returns the direct parents of x's class.
func (g *Graph) Parents(x entity.ID) []entity.ID {
	r, ok := g.rep[x]
	if !ok {
		return nil
	}
	return slices.Clone(g.parents[r])
}

// Children returns the direct children of x's class.
func (g *Graph) Children(x entity.ID) []entity.ID {
	r, ok := g.rep[x]
	if !ok {
		return nil
	}
	return slices.Clone(g.children[r])
}

// Unsatisfiable returns the elements equivalent to bottom, bottom excluded.
func (g *Graph) Unsatisfiable() []entity.ID {
	out := make([]entity.ID, 0)
	for _, m := range g.members[g.Bottom()] {
		if m != g.bottom {
			out = append(out, m)
		}
	}
	return out
}

// Ancestors returns the representatives strictly above x, in ascending order.
func (g *Graph) Ancestors(x entity.ID) []entity.ID {
	return g.reach(x, g.parents)
}

// Descendants returns the representatives strictly below x, in ascending order.
func (g *Graph) Descendants(x entity.ID) []entity.ID {
	return g.reach(x, g.children)
}

func (g *Graph) reach(x entity.ID, next map[entity.ID][]entity.ID) []entity.ID {
	r, ok := g.rep[x]
	if !ok {
		return nil
	}
	seen := pools.GetSet()
	defer pools.PutSet(seen)

	stack := pools.GetIDs(16)
	stack = append(stack, next[r]...)
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !seen.Add(v) {
			continue
		}
		stack = append(stack, next[v]...)
	}
	pools.PutIDs(stack)
	return seen.Sorted()
}

// IsDescendant reports whether x is subsumed by y according to the graph.
func (g *Graph) IsDescendant(x, y entity.ID) bool {
	rx, ok := g.rep[x]
	if !ok {
		return false
	}
	ry, ok := g.rep[y]
	if !ok {
		return false
	}
	if rx == ry || ry == g.Top() || rx == g.Bottom() {
		return true
	}
	return slices.Contains(g.Ancestors(rx), ry)
}

// MostSpecific returns the representatives of the lowest classes among subs, ignoring
// elements the graph does not know. Bottom is returned when subs contains it.
func (g *Graph) MostSpecific(subs []entity.ID) []entity.ID {
	candidates := pools.GetSet()
	defer pools.PutSet(candidates)
	for _, s := range subs {
		if r, ok := g.rep[s]; ok {
			candidates.Add(r)
		}
	}
	if candidates.Has(g.Bottom()) {
		return []entity.ID{g.Bottom()}
	}

	covered := pools.GetSet()
	defer pools.PutSet(covered)
	for c := range candidates {
		for _, a := range g.Ancestors(c) {
			covered.Add(a)
		}
	}
	out := make([]entity.ID, 0, len(candidates))
	for c := range candidates {
		if !covered.Has(c) {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}
