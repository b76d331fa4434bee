package classifier

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-reasoner/pkg/axiom"
	"github.com/dd0wney/cluso-reasoner/pkg/entity"
	"github.com/dd0wney/cluso-reasoner/pkg/normalizer"
	"github.com/dd0wney/cluso-reasoner/pkg/ontology"
	"github.com/dd0wney/cluso-reasoner/pkg/saturation"
)

const (
	randomClasses = 6
	randomRoles   = 2
)

// randomOntology decodes each code into one axiom over a fixed vocabulary, so equal
// code slices always give equal ontologies with equal identifiers.
func randomOntology(codes []int) (*entity.Manager, []axiom.Axiom) {
	m := entity.NewManager()
	classes := make([]entity.ID, randomClasses)
	for i := range classes {
		classes[i] = m.CreateClass()
	}
	roles := make([]entity.ID, randomRoles)
	for i := range roles {
		roles[i] = m.CreateRole()
	}

	cls := func(n int) axiom.Concept { return axiom.C(classes[n%randomClasses]) }
	role := func(n int) entity.ID { return roles[n%randomRoles] }

	axioms := make([]axiom.Axiom, 0, len(codes))
	for _, code := range codes {
		x, y, z := code/7, code/41, code/263
		switch code % 7 {
		case 0, 1:
			axioms = append(axioms, axiom.SubClassOf{Sub: cls(x), Sup: cls(y)})
		case 2:
			axioms = append(axioms, axiom.SubClassOf{Sub: axiom.And(cls(x), cls(y)), Sup: cls(z)})
		case 3:
			axioms = append(axioms, axiom.SubClassOf{Sub: cls(x), Sup: axiom.Some(role(z), cls(y))})
		case 4:
			axioms = append(axioms, axiom.SubClassOf{Sub: axiom.Some(role(z), cls(x)), Sup: cls(y)})
		case 5:
			if x%5 == 0 {
				axioms = append(axioms, axiom.SubClassOf{Sub: cls(y), Sup: axiom.Bottom()})
				continue
			}
			axioms = append(axioms, axiom.TransitiveProperty{Role: axiom.Named(role(x))})
		case 6:
			axioms = append(axioms, axiom.SubPropertyOf{
				Chain: []axiom.Role{axiom.Named(role(x))},
				Sup:   axiom.Named(role(y)),
			})
		}
	}
	return m, axioms
}

func prepare(m *entity.Manager, axioms []axiom.Axiom) (*ontology.Index, error) {
	ctx := context.Background()
	set, _, err := normalizer.New(m).Normalize(ctx, axioms)
	if err != nil {
		return nil, err
	}
	sat, _, err := saturation.New(m, nil).Saturate(ctx, set)
	if err != nil {
		return nil, err
	}
	return ontology.Build(m, sat)
}

type snapshot struct {
	subsumers map[entity.ID]entity.Set[entity.ID]
	edges     int
}

func takeSnapshot(st *Status) snapshot {
	s := snapshot{subsumers: make(map[entity.ID]entity.Set[entity.ID], len(st.subsumers)), edges: st.edges}
	for x, set := range st.subsumers {
		s.subsumers[x] = set.Clone()
	}
	return s
}

func (s snapshot) within(later snapshot) bool {
	if s.edges > later.edges {
		return false
	}
	for x, set := range s.subsumers {
		if !set.SubsetOf(later.subsumers[x]) {
			return false
		}
	}
	return true
}

func TestCompletionProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40

	properties := gopter.NewProperties(parameters)

	properties.Property("S and R only grow during a run", prop.ForAll(
		func(codes []int) bool {
			m, axioms := randomOntology(codes)
			idx, err := prepare(m, axioms)
			if err != nil {
				return false
			}
			var snaps []snapshot
			st, err := Run(context.Background(), m, idx, Options{
				Mode:               ModeSequential,
				CheckpointInterval: 3,
				inspect:            func(st *Status) { snaps = append(snaps, takeSnapshot(st)) },
			})
			if err != nil {
				return false
			}
			snaps = append(snaps, takeSnapshot(st))
			for i := 1; i < len(snaps); i++ {
				if !snaps[i-1].within(snaps[i]) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(12, gen.IntRange(0, 5000)),
	))

	properties.Property("concurrent and sequential runs agree", prop.ForAll(
		func(codes []int) bool {
			results := make([]map[entity.ID][]entity.ID, 0, 2)
			for _, mode := range modes {
				m, axioms := randomOntology(codes)
				idx, err := prepare(m, axioms)
				if err != nil {
					return false
				}
				st, err := Run(context.Background(), m, idx, Options{Mode: mode})
				if err != nil {
					return false
				}
				out := make(map[entity.ID][]entity.ID)
				for _, x := range m.OriginalClasses() {
					out[x] = originalOnly(m, st.Subsumers(x))
				}
				results = append(results, out)
			}
			for x, subs := range results[0] {
				other := results[1][x]
				if len(subs) != len(other) {
					return false
				}
				for i := range subs {
					if subs[i] != other[i] {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOfN(12, gen.IntRange(0, 5000)),
	))

	properties.Property("subsumers are closed under told inclusions", prop.ForAll(
		func(codes []int) bool {
			m, axioms := randomOntology(codes)
			idx, err := prepare(m, axioms)
			if err != nil {
				return false
			}
			st, err := Run(context.Background(), m, idx, Options{Mode: ModeSequential})
			if err != nil {
				return false
			}
			for _, x := range m.OriginalClasses() {
				set := st.SubsumerSet(x)
				if !set.Has(x) || !set.Has(entity.Thing) {
					return false
				}
				for a := range set {
					for _, b := range idx.Subsumers(a) {
						if !set.Has(b) {
							return false
						}
					}
				}
			}
			return true
		},
		gen.SliceOfN(12, gen.IntRange(0, 5000)),
	))

	properties.TestingRun(t)
}
