// Package classifier runs the completion rules to a fixpoint. A Status owns the
// subsumption relation S, the role edges R between nodes, the node table V and the two
// work queues; the rules in this package are the only code mutating it.
//
// Facts are inserted into S and R when they are queued, so a queue entry is a
// notification that a fresh fact needs its consequences derived. Each fact is
// therefore processed exactly once, whichever worker drains it.
package classifier

import (
	"sync"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
	"github.com/dd0wney/cluso-reasoner/pkg/ontology"
)

type sEntry struct {
	x, a entity.ID
}

type rEntry struct {
	r, x, y entity.ID
}

// Edge is one R fact: Role(From, To).
type Edge struct {
	Role entity.ID
	From entity.ID
	To   entity.ID
}

type counterKey struct {
	x   entity.ID
	seq int
}

// roleMap maps a node to its neighbours grouped by role.
type roleMap map[entity.ID]map[entity.ID]entity.Set[entity.ID]

func (m roleMap) add(x, r, y entity.ID) bool {
	byRole, ok := m[x]
	if !ok {
		byRole = make(map[entity.ID]entity.Set[entity.ID])
		m[x] = byRole
	}
	set, ok := byRole[r]
	if !ok {
		set = entity.NewSet[entity.ID]()
		byRole[r] = set
	}
	return set.Add(y)
}

// Status is the mutable classification state of one run. It is created by Run and is
// read-only once Run returns.
type Status struct {
	mu   sync.Mutex
	cond *sync.Cond

	manager *entity.Manager
	index   *ontology.Index

	subsumers map[entity.ID]entity.Set[entity.ID]
	succ      roleMap
	pred      roleMap

	// node table
	nodes       map[string]entity.ID
	descriptors map[entity.ID]Descriptor
	initialized entity.Set[entity.ID]

	counters map[counterKey]int
	grounded entity.Set[entity.ID]
	// nominal class -> nodes having it as subsumer
	nominalMembers map[entity.ID]entity.Set[entity.ID]

	sQueue []sEntry
	sHead  int
	rQueue []rEntry
	rHead  int

	subsumptions int
	edges        int
	processed    int
	done         bool
	err          error
}

func newStatus(m *entity.Manager, idx *ontology.Index, expected int) *Status {
	if expected < 16 {
		expected = 16
	}
	st := &Status{
		manager:        m,
		index:          idx,
		subsumers:      make(map[entity.ID]entity.Set[entity.ID], expected),
		succ:           make(roleMap, expected),
		pred:           make(roleMap, expected),
		nodes:          make(map[string]entity.ID),
		descriptors:    make(map[entity.ID]Descriptor),
		initialized:    make(entity.Set[entity.ID], expected),
		counters:       make(map[counterKey]int),
		grounded:       entity.NewSet[entity.ID](),
		nominalMembers: make(map[entity.ID]entity.Set[entity.ID]),
	}
	st.cond = sync.NewCond(&st.mu)
	return st
}

// pushS inserts (x, a) into S and queues it. It reports whether the fact was new.
func (st *Status) pushS(x, a entity.ID) bool {
	set, ok := st.subsumers[x]
	if !ok {
		set = entity.NewSet[entity.ID]()
		st.subsumers[x] = set
	}
	if !set.Add(a) {
		return false
	}
	st.subsumptions++
	st.sQueue = append(st.sQueue, sEntry{x, a})
	return true
}

// pushR inserts r(x, y) into R and queues it. It reports whether the fact was new.
func (st *Status) pushR(r, x, y entity.ID) bool {
	if !st.succ.add(x, r, y) {
		return false
	}
	st.pred.add(y, r, x)
	st.edges++
	st.rQueue = append(st.rQueue, rEntry{r, x, y})
	return true
}

func (st *Status) popS() (sEntry, bool) {
	if st.sHead == len(st.sQueue) {
		st.sQueue, st.sHead = st.sQueue[:0], 0
		return sEntry{}, false
	}
	e := st.sQueue[st.sHead]
	st.sHead++
	return e, true
}

func (st *Status) popR() (rEntry, bool) {
	if st.rHead == len(st.rQueue) {
		st.rQueue, st.rHead = st.rQueue[:0], 0
		return rEntry{}, false
	}
	e := st.rQueue[st.rHead]
	st.rHead++
	return e, true
}

func (st *Status) pendingS() int { return len(st.sQueue) - st.sHead }

func (st *Status) pendingR() int { return len(st.rQueue) - st.rHead }

func (st *Status) has(x, a entity.ID) bool {
	return st.subsumers[x].Has(a)
}

// Subsumers returns the subsumers of x in ascending order.
func (st *Status) Subsumers(x entity.ID) []entity.ID {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.subsumers[x].Sorted()
}

// SubsumerSet returns the subsumers of x. The set must not be modified.
func (st *Status) SubsumerSet(x entity.ID) entity.Set[entity.ID] {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.subsumers[x]
}

// IsSubsumedBy reports whether a ∈ S(x).
func (st *Status) IsSubsumedBy(x, a entity.ID) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.has(x, a)
}

// IsUnsatisfiable reports whether x ⊑ ⊥ was derived.
func (st *Status) IsUnsatisfiable(x entity.ID) bool {
	return st.IsSubsumedBy(x, entity.Nothing)
}

// IsInconsistent reports whether ⊤ ⊑ ⊥ was derived.
func (st *Status) IsInconsistent() bool {
	return st.IsSubsumedBy(entity.Thing, entity.Nothing)
}

// HasEdge reports whether r(x, y) is in R.
func (st *Status) HasEdge(r, x, y entity.ID) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.succ[x][r].Has(y)
}

// Successors returns the r-successors of x in ascending order.
func (st *Status) Successors(r, x entity.ID) []entity.ID {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.succ[x][r].Sorted()
}

// Edges returns every R fact.
func (st *Status) Edges() []Edge {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]Edge, 0, st.edges)
	for x, byRole := range st.succ {
		for r, ys := range byRole {
			for y := range ys {
				out = append(out, Edge{Role: r, From: x, To: y})
			}
		}
	}
	return out
}

// Classes returns every initialized node, original classes included, ascending.
func (st *Status) Classes() []entity.ID {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.initialized.Sorted()
}

// IsGrounded reports whether x is known to be non-empty in every model.
func (st *Status) IsGrounded(x entity.ID) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.grounded.Has(x)
}

// Counts summarizes the size of a status.
type Counts struct {
	Subsumptions int
	Edges        int
	Nodes        int
	Processed    int
}

// Counts returns the current sizes.
func (st *Status) Counts() Counts {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.countsLocked()
}

func (st *Status) countsLocked() Counts {
	return Counts{
		Subsumptions: st.subsumptions,
		Edges:        st.edges,
		Nodes:        len(st.descriptors),
		Processed:    st.processed,
	}
}
