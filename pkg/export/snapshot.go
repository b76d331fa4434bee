// Package export writes classification results as JSON snapshots, optionally
// wrapped in snappy framing.
package export

import (
	"fmt"
	"slices"
	"sort"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
	"github.com/dd0wney/cluso-reasoner/pkg/hierarchy"
)

// FormatVersion is written into every snapshot and checked on read.
const FormatVersion = 1

// Namer renders identifiers for output.
type Namer interface {
	Name(id entity.ID) string
}

// Source collects the results a snapshot is built from. Roles, DirectTypes and
// SameIndividuals may be empty.
type Source struct {
	Name            string
	RunID           string
	Classes         *hierarchy.Graph
	Roles           *hierarchy.Graph
	DirectTypes     map[entity.ID][]entity.ID
	SameIndividuals map[entity.ID][]entity.ID
}

// Snapshot is the serialized form of a classification.
type Snapshot struct {
	Version       int          `json:"version"`
	Name          string       `json:"name,omitempty"`
	RunID         string       `json:"run_id,omitempty"`
	Consistent    bool         `json:"consistent"`
	Classes       []Node       `json:"classes"`
	Roles         []Node       `json:"roles,omitempty"`
	Unsatisfiable []string     `json:"unsatisfiable,omitempty"`
	Individuals   []Individual `json:"individuals,omitempty"`
}

// Node is one vertex of a hierarchy. Nodes are listed parents first.
type Node struct {
	Name        string   `json:"name"`
	Equivalents []string `json:"equivalents,omitempty"`
	Parents     []string `json:"parents,omitempty"`
}

// Individual lists the most specific classes of a named individual and the
// individuals it was found equal to.
type Individual struct {
	Name  string   `json:"name"`
	Types []string `json:"types"`
	Same  []string `json:"same,omitempty"`
}

// Build renders src through namer.
func Build(src Source, namer Namer) (*Snapshot, error) {
	if src.Classes == nil {
		return nil, fmt.Errorf("snapshot %q: no class hierarchy", src.Name)
	}
	snap := &Snapshot{
		Version:    FormatVersion,
		Name:       src.Name,
		RunID:      src.RunID,
		Consistent: !src.Classes.IsInconsistent(),
	}

	var err error
	if snap.Classes, err = nodes(src.Classes, namer); err != nil {
		return nil, fmt.Errorf("class hierarchy: %w", err)
	}
	if src.Roles != nil {
		roles, err := src.Roles.Hide(entity.TopRole, entity.BottomRole)
		if err == nil {
			snap.Roles, err = nodes(roles, namer)
		}
		if err != nil {
			return nil, fmt.Errorf("role hierarchy: %w", err)
		}
	}
	snap.Unsatisfiable = names(src.Classes.Unsatisfiable(), namer)

	inds := entity.NewSet[entity.ID]()
	for ind := range src.DirectTypes {
		inds.Add(ind)
	}
	for ind := range src.SameIndividuals {
		inds.Add(ind)
	}
	for _, ind := range inds.Sorted() {
		snap.Individuals = append(snap.Individuals, Individual{
			Name:  namer.Name(ind),
			Types: names(src.DirectTypes[ind], namer),
			Same:  names(src.SameIndividuals[ind], namer),
		})
	}
	return snap, nil
}

// nodes lists the vertices of g parents first, each named by its representative.
func nodes(g *hierarchy.Graph, namer Namer) ([]Node, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	out := make([]Node, 0, len(order))
	for _, v := range order {
		var equivalents []entity.ID
		for _, m := range g.Equivalents(v) {
			if m != v {
				equivalents = append(equivalents, m)
			}
		}
		out = append(out, Node{
			Name:        namer.Name(v),
			Equivalents: names(equivalents, namer),
			Parents:     names(g.Parents(v), namer),
		})
	}
	return out, nil
}

// names renders ids sorted by name; nil stays nil so empty lists are omitted.
func names(ids []entity.ID, namer Namer) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = namer.Name(id)
	}
	sort.Strings(out)
	return out
}

// Class returns the node whose name or equivalents include name.
func (s *Snapshot) Class(name string) (Node, bool) {
	return find(s.Classes, name)
}

// Role returns the role node whose name or equivalents include name.
func (s *Snapshot) Role(name string) (Node, bool) {
	return find(s.Roles, name)
}

func find(ns []Node, name string) (Node, bool) {
	for _, n := range ns {
		if n.Name == name || slices.Contains(n.Equivalents, name) {
			return n, true
		}
	}
	return Node{}, false
}
