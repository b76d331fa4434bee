package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
)

const (
	top    = entity.Thing
	bottom = entity.Nothing
)

// closure turns told edges (sub -> sups) into a reflexive-transitive relation.
func closure(edges map[entity.ID][]entity.ID) Subsumers {
	return func(x entity.ID) []entity.ID {
		seen := entity.NewSet(x)
		stack := []entity.ID{x}
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, s := range edges[v] {
				if seen.Add(s) {
					stack = append(stack, s)
				}
			}
		}
		return seen.Sorted()
	}
}

func TestReduceChain(t *testing.T) {
	// 12 ⊑ 11 ⊑ 10, plus a redundant 12 ⊑ 10
	g := Reduce([]entity.ID{10, 11, 12}, top, bottom, closure(map[entity.ID][]entity.ID{
		11: {10},
		12: {11, 10},
	}))

	assert.Equal(t, []entity.ID{bottom, top, 10, 11, 12}, g.Vertices())
	assert.Equal(t, []entity.ID{top}, g.Parents(10))
	assert.Equal(t, []entity.ID{10}, g.Parents(11))
	assert.Equal(t, []entity.ID{11}, g.Parents(12))
	assert.Equal(t, []entity.ID{12}, g.Parents(bottom))
	assert.Equal(t, []entity.ID{bottom}, g.Children(12))
	assert.Equal(t, []entity.ID{10}, g.Children(top))
	assert.False(t, g.IsInconsistent())

	assert.Equal(t, []entity.ID{top, 10, 11}, g.Ancestors(12))
	assert.Equal(t, []entity.ID{bottom, 11, 12}, g.Descendants(10))
	assert.True(t, g.IsDescendant(12, 10))
	assert.False(t, g.IsDescendant(10, 12))
	assert.True(t, g.IsDescendant(bottom, 12))
}

func TestReduceEquivalents(t *testing.T) {
	g := Reduce([]entity.ID{10, 11, 12}, top, bottom, closure(map[entity.ID][]entity.ID{
		10: {11},
		11: {10},
		12: {11},
	}))

	rep, ok := g.Representative(11)
	require.True(t, ok)
	assert.Equal(t, entity.ID(10), rep)
	assert.Equal(t, []entity.ID{10, 11}, g.Equivalents(11))
	assert.Equal(t, []entity.ID{10}, g.Parents(12))
	assert.Equal(t, []entity.ID{12}, g.Children(11))
	assert.Equal(t, 4, g.Len())
}

func TestReduceDiamond(t *testing.T) {
	// 13 ⊑ 11, 13 ⊑ 12, 11 ⊑ 10, 12 ⊑ 10
	g := Reduce([]entity.ID{10, 11, 12, 13}, top, bottom, closure(map[entity.ID][]entity.ID{
		11: {10},
		12: {10},
		13: {11, 12},
	}))

	assert.Equal(t, []entity.ID{11, 12}, g.Parents(13))
	assert.Equal(t, []entity.ID{11, 12}, g.Children(10))
	assert.Equal(t, []entity.ID{13}, g.MostSpecific([]entity.ID{top, 10, 11, 12, 13}))
	assert.Equal(t, []entity.ID{11, 12}, g.MostSpecific([]entity.ID{10, 11, 12, 99}))
}

func TestReduceUnsatisfiable(t *testing.T) {
	g := Reduce([]entity.ID{10, 11, 12}, top, bottom, closure(map[entity.ID][]entity.ID{
		11: {10, bottom},
		12: {10},
	}))

	rep, _ := g.Representative(11)
	assert.Equal(t, bottom, rep)
	assert.Equal(t, []entity.ID{11}, g.Unsatisfiable())
	assert.Equal(t, []entity.ID{12}, g.Parents(bottom))
	assert.Equal(t, []entity.ID{bottom}, g.Children(12))
	assert.Equal(t, []entity.ID{bottom}, g.MostSpecific([]entity.ID{10, 11}))
	assert.False(t, g.IsInconsistent())
}

func TestReduceInconsistent(t *testing.T) {
	g := Reduce([]entity.ID{10, 11}, top, bottom, closure(map[entity.ID][]entity.ID{
		top: {bottom},
	}))

	assert.True(t, g.IsInconsistent())
	assert.Equal(t, []entity.ID{bottom}, g.Vertices())
	assert.Equal(t, []entity.ID{bottom, top, 10, 11}, g.Equivalents(10))
	assert.Equal(t, g.Top(), g.Bottom())
	assert.Empty(t, g.Parents(10))
	assert.True(t, g.IsDescendant(top, 11))
}

func TestReduceEmpty(t *testing.T) {
	g := Reduce(nil, top, bottom, closure(nil))

	assert.Equal(t, []entity.ID{bottom, top}, g.Vertices())
	assert.Equal(t, []entity.ID{top}, g.Parents(bottom))
	assert.Equal(t, []entity.ID{bottom}, g.Children(top))
	assert.Empty(t, g.Unsatisfiable())
}

func TestReduceIgnoresUnknownSubsumers(t *testing.T) {
	g := Reduce([]entity.ID{10}, top, bottom, closure(map[entity.ID][]entity.ID{
		10: {50},
	}))

	assert.False(t, g.Contains(50))
	assert.Equal(t, []entity.ID{top}, g.Parents(10))
	assert.Nil(t, g.Parents(50))
}

func TestTopologicalOrder(t *testing.T) {
	g := Reduce([]entity.ID{10, 11, 12, 13}, top, bottom, closure(map[entity.ID][]entity.ID{
		11: {10},
		12: {10},
		13: {11, 12},
	}))

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []entity.ID{top, 10, 11, 12, 13, bottom}, order)
	assert.True(t, g.IsDAG())
}

func TestTopologicalOrderDetectsCycle(t *testing.T) {
	g := newGraph(top, bottom, 2)
	g.addClass([]entity.ID{10})
	g.addClass([]entity.ID{11})
	g.parents[10] = []entity.ID{11}
	g.parents[11] = []entity.ID{10}
	g.children[10] = []entity.ID{11}
	g.children[11] = []entity.ID{10}

	_, err := g.TopologicalOrder()
	assert.ErrorIs(t, err, ErrCycle)
	assert.False(t, g.IsDAG())
}

func TestRoleHierarchyUsesRoleSentinels(t *testing.T) {
	g := Reduce([]entity.ID{10, 11}, entity.TopRole, entity.BottomRole, closure(map[entity.ID][]entity.ID{
		11: {10},
	}))

	assert.Equal(t, entity.TopRole, g.Top())
	assert.Equal(t, entity.BottomRole, g.Bottom())
	assert.Equal(t, []entity.ID{entity.TopRole}, g.Parents(10))
	assert.Equal(t, []entity.ID{11}, g.Parents(entity.BottomRole))
}

func TestHideDropsSentinelVertices(t *testing.T) {
	g := Reduce([]entity.ID{10, 11}, entity.TopRole, entity.BottomRole, closure(map[entity.ID][]entity.ID{
		11: {10},
	}))

	h, err := g.Hide(entity.TopRole, entity.BottomRole)
	require.NoError(t, err)
	assert.Equal(t, []entity.ID{10, 11}, h.Vertices())
	assert.Equal(t, NoVertex, h.Top())
	assert.Equal(t, NoVertex, h.Bottom())
	assert.Empty(t, h.Parents(10))
	assert.Equal(t, []entity.ID{10}, h.Parents(11))
	assert.Empty(t, h.Children(11))
	assert.Empty(t, h.Unsatisfiable())
	assert.False(t, h.Contains(entity.TopRole))
	assert.True(t, h.IsDescendant(11, 10))
	assert.False(t, h.IsDescendant(10, 11))

	// The original graph is untouched.
	assert.Equal(t, entity.TopRole, g.Top())
	assert.Equal(t, []entity.ID{entity.TopRole}, g.Parents(10))
}

func TestHideKeepsVisibleEquivalents(t *testing.T) {
	// 13 is equivalent to top, 12 to bottom.
	g := Reduce([]entity.ID{10, 11, 12, 13}, entity.TopRole, entity.BottomRole, closure(map[entity.ID][]entity.ID{
		entity.TopRole: {13},
		11:             {10},
		12:             {entity.BottomRole},
	}))

	h, err := g.Hide(entity.TopRole, entity.BottomRole)
	require.NoError(t, err)
	assert.Equal(t, []entity.ID{10, 11, 12, 13}, h.Vertices())
	assert.Equal(t, entity.ID(13), h.Top())
	assert.Equal(t, entity.ID(12), h.Bottom())
	assert.Equal(t, []entity.ID{13}, h.Equivalents(13))
	assert.Equal(t, []entity.ID{13}, h.Parents(10))
	assert.Equal(t, []entity.ID{11}, h.Parents(12))
	assert.Equal(t, []entity.ID{12}, h.Unsatisfiable())
	assert.True(t, h.IsDescendant(11, 13))
	assert.True(t, h.IsDescendant(12, 10))
}

func TestHideReattachesChildren(t *testing.T) {
	// 12 ⊑ 11 ⊑ 10 and 12 ⊑ 13 ⊑ 10
	g := Reduce([]entity.ID{10, 11, 12, 13}, top, bottom, closure(map[entity.ID][]entity.ID{
		11: {10},
		12: {11, 13},
		13: {10},
	}))

	h, err := g.Hide(11)
	require.NoError(t, err)
	assert.False(t, h.Contains(11))
	assert.Equal(t, []entity.ID{13}, h.Parents(12))
	assert.Equal(t, []entity.ID{13}, h.Children(10))
	assert.Equal(t, top, h.Top())
	assert.Equal(t, bottom, h.Bottom())
	assert.Equal(t, []entity.ID{12}, h.Parents(bottom))
	assert.True(t, h.IsDAG())
}
