package hierarchy

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
)

const randomElements = 8

// randomRelation decodes each code into one told edge between elements 10..17, or into
// bottom for one in nine codes.
func randomRelation(codes []int) ([]entity.ID, Subsumers) {
	elements := make([]entity.ID, randomElements)
	for i := range elements {
		elements[i] = entity.ID(10 + i)
	}
	edges := make(map[entity.ID][]entity.ID)
	for _, code := range codes {
		from := elements[code%randomElements]
		to := bottom
		if n := (code / randomElements) % (randomElements + 1); n < randomElements {
			to = elements[n]
		}
		edges[from] = append(edges[from], to)
	}
	return elements, closure(edges)
}

func TestReductionProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("graph reachability equals the relation", prop.ForAll(
		func(codes []int) bool {
			elements, subs := randomRelation(codes)
			g := Reduce(elements, top, bottom, subs)

			all := append([]entity.ID{bottom, top}, elements...)
			for _, x := range all {
				sx := subs(x)
				unsat := x == bottom || slices.Contains(sx, bottom)
				for _, y := range all {
					want := unsat || y == top || slices.Contains(sx, y)
					if g.IsDescendant(x, y) != want {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOfN(14, gen.IntRange(0, 1000)),
	))

	properties.Property("parents are pairwise incomparable", prop.ForAll(
		func(codes []int) bool {
			elements, subs := randomRelation(codes)
			g := Reduce(elements, top, bottom, subs)

			for _, v := range g.Vertices() {
				parents := g.Parents(v)
				for _, p := range parents {
					for _, q := range parents {
						if p != q && g.IsDescendant(p, q) {
							return false
						}
					}
				}
			}
			return g.IsDAG()
		},
		gen.SliceOfN(14, gen.IntRange(0, 1000)),
	))

	properties.Property("every element has exactly one vertex", prop.ForAll(
		func(codes []int) bool {
			elements, subs := randomRelation(codes)
			g := Reduce(elements, top, bottom, subs)

			seen := 0
			for _, v := range g.Vertices() {
				seen += len(g.Equivalents(v))
			}
			return seen == len(elements)+2
		},
		gen.SliceOfN(14, gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
