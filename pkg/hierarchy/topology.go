package hierarchy

import (
	"errors"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
)

// ErrCycle is returned when the parent links of a graph contain a cycle.
var ErrCycle = errors.New("hierarchy contains a cycle")

// TopologicalOrder returns the vertices so that every vertex comes after all of its
// parents, using Kahn's algorithm. Ties are broken by ascending id.
func (g *Graph) TopologicalOrder() ([]entity.ID, error) {
	if len(g.vertices) == 0 {
		return []entity.ID{}, nil
	}

	inDegree := make(map[entity.ID]int, len(g.vertices))
	for _, v := range g.vertices {
		inDegree[v] = len(g.parents[v])
	}

	queue := make([]entity.ID, 0)
	for _, v := range g.vertices {
		if inDegree[v] == 0 {
			queue = append(queue, v)
		}
	}

	sorted := make([]entity.ID, 0, len(g.vertices))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		for _, child := range g.children[current] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	// Vertices left with a positive in-degree sit on a cycle.
	if len(sorted) != len(g.vertices) {
		return nil, ErrCycle
	}
	return sorted, nil
}

// IsDAG reports whether the parent links are acyclic.
func (g *Graph) IsDAG() bool {
	_, err := g.TopologicalOrder()
	return err == nil
}
