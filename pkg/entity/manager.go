package entity

import (
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Manager allocates identifiers and tracks which entities are auxiliary. One Manager
// belongs to one ontology; normalization and classification allocate auxiliary
// entities from it.
type Manager struct {
	mu sync.RWMutex

	kinds []Kind
	aux   []bool

	inverse      map[ID]ID
	nominalClass map[ID]ID // individual -> nominal class
	individualOf map[ID]ID // nominal class -> individual

	auxByKey    map[string]ID
	auxPurpose  map[ID]Purpose
	conjByKey   map[string]ID
	conjMembers map[ID][]ID
}

// NewManager creates a manager holding only the reserved entities.
func NewManager() *Manager {
	m := &Manager{
		kinds:        make([]Kind, firstFreeID, 64),
		aux:          make([]bool, firstFreeID, 64),
		inverse:      make(map[ID]ID),
		nominalClass: make(map[ID]ID),
		individualOf: make(map[ID]ID),
		auxByKey:     make(map[string]ID),
		auxPurpose:   make(map[ID]Purpose),
		conjByKey:    make(map[string]ID),
		conjMembers:  make(map[ID][]ID),
	}
	m.kinds[Nothing] = KindClass
	m.kinds[Thing] = KindClass
	m.kinds[BottomRole] = KindRole
	m.kinds[TopRole] = KindRole
	m.inverse[BottomRole] = BottomRole
	m.inverse[TopRole] = TopRole
	return m
}

// Grow reserves table capacity for the expected number of further entities.
func (m *Manager) Grow(n int) {
	if n <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kinds = slices.Grow(m.kinds, n)
	m.aux = slices.Grow(m.aux, n)
}

func (m *Manager) allocLocked(kind Kind, auxiliary bool) ID {
	id := ID(len(m.kinds))
	m.kinds = append(m.kinds, kind)
	m.aux = append(m.aux, auxiliary)
	return id
}

// CreateClass registers a new original class.
func (m *Manager) CreateClass() ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allocLocked(KindClass, false)
}

// CreateRole registers a new original role.
func (m *Manager) CreateRole() ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allocLocked(KindRole, false)
}

// CreateIndividual registers a new original individual.
func (m *Manager) CreateIndividual() ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allocLocked(KindIndividual, false)
}

// CreateAuxClass registers a fresh auxiliary class.
func (m *Manager) CreateAuxClass() ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allocLocked(KindClass, true)
}

// AuxClass returns the auxiliary class for (purpose, key), creating it on first use.
func (m *Manager) AuxClass(purpose Purpose, key string) ID {
	return m.memoized(KindClass, purpose, key)
}

// AuxRole returns the auxiliary role for (purpose, key), creating it on first use.
func (m *Manager) AuxRole(purpose Purpose, key string) ID {
	return m.memoized(KindRole, purpose, key)
}

func (m *Manager) memoized(kind Kind, purpose Purpose, key string) ID {
	k := string(purpose) + "\x00" + key
	m.mu.RLock()
	id, ok := m.auxByKey[k]
	m.mu.RUnlock()
	if ok {
		return id
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.auxByKey[k]; ok {
		return id
	}
	id = m.allocLocked(kind, true)
	m.auxByKey[k] = id
	m.auxPurpose[id] = purpose
	return id
}

// AuxPurpose returns the purpose a memoized auxiliary entity was created for.
func (m *Manager) AuxPurpose(id ID) (Purpose, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.auxPurpose[id]
	return p, ok
}

// InverseOf returns the inverse of role r, creating an auxiliary inverse role on first
// use. The association is involutive: InverseOf(InverseOf(r)) == r.
func (m *Manager) InverseOf(r ID) ID {
	m.mu.RLock()
	inv, ok := m.inverse[r]
	m.mu.RUnlock()
	if ok {
		return inv
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if inv, ok := m.inverse[r]; ok {
		return inv
	}
	inv = m.allocLocked(KindRole, true)
	m.inverse[r] = inv
	m.inverse[inv] = r
	return inv
}

// Inverse looks up the inverse of r without creating one.
func (m *Manager) Inverse(r ID) (ID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.inverse[r]
	return inv, ok
}

// SetInverse declares r and s mutually inverse. When either already has a different
// inverse the existing partner is returned together with ErrInverseClash so callers can
// state the equivalence explicitly instead.
func (m *Manager) SetInverse(r, s ID) (ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inv, ok := m.inverse[r]; ok {
		if inv == s {
			return s, nil
		}
		return inv, NewError("set-inverse").Role(r).Cause(ErrInverseClash).Err()
	}
	if inv, ok := m.inverse[s]; ok {
		if inv == r {
			return r, nil
		}
		return inv, NewError("set-inverse").Role(s).Cause(ErrInverseClash).Err()
	}
	m.inverse[r] = s
	m.inverse[s] = r
	return s, nil
}

// NominalClass returns the auxiliary class {a} standing for individual a.
func (m *Manager) NominalClass(individual ID) ID {
	m.mu.RLock()
	c, ok := m.nominalClass[individual]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.nominalClass[individual]; ok {
		return c
	}
	c = m.allocLocked(KindClass, true)
	m.nominalClass[individual] = c
	m.individualOf[c] = individual
	return c
}

// IndividualOf returns the individual a nominal class stands for.
func (m *Manager) IndividualOf(class ID) (ID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ind, ok := m.individualOf[class]
	return ind, ok
}

// Conjunction returns the auxiliary class standing for the intersection of members.
// Nested conjunctions are flattened, ⊤ dropped and duplicates removed; a single
// remaining member is returned unchanged.
func (m *Manager) Conjunction(members ...ID) ID {
	flat := make([]ID, 0, len(members))
	m.mu.RLock()
	for _, c := range members {
		if inner, ok := m.conjMembers[c]; ok {
			flat = append(flat, inner...)
			continue
		}
		flat = append(flat, c)
	}
	m.mu.RUnlock()

	slices.Sort(flat)
	flat = slices.Compact(flat)
	if len(flat) > 1 && flat[0] == Nothing {
		return Nothing
	}
	if i, ok := slices.BinarySearch(flat, Thing); ok && len(flat) > 1 {
		flat = slices.Delete(flat, i, i+1)
	}
	if len(flat) == 0 {
		return Thing
	}
	if len(flat) == 1 {
		return flat[0]
	}

	key := joinIDs(flat)
	m.mu.RLock()
	id, ok := m.conjByKey[key]
	m.mu.RUnlock()
	if ok {
		return id
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.conjByKey[key]; ok {
		return id
	}
	id = m.allocLocked(KindClass, true)
	m.conjByKey[key] = id
	m.conjMembers[id] = flat
	return id
}

// ConjunctionMembers returns the sorted members of a conjunction class.
func (m *Manager) ConjunctionMembers(class ID) ([]ID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	members, ok := m.conjMembers[class]
	return members, ok
}

// Kind returns the kind of id, or KindUnknown.
func (m *Manager) Kind(id ID) Kind {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if int(id) >= len(m.kinds) {
		return KindUnknown
	}
	return m.kinds[id]
}

// IsAuxiliary reports whether id was introduced internally.
func (m *Manager) IsAuxiliary(id ID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int(id) < len(m.aux) && m.aux[id]
}

// Check verifies id is registered with the given kind.
func (m *Manager) Check(op string, want Kind, id ID) error {
	got := m.Kind(id)
	if got == KindUnknown {
		return UnknownEntityError(op, want, id)
	}
	if got != want {
		return WrongKindError(op, want, id, got)
	}
	return nil
}

// Size returns one past the largest allocated identifier.
func (m *Manager) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.kinds)
}

// Classes returns all class identifiers (original and auxiliary) in ascending order.
func (m *Manager) Classes() []ID {
	return m.collect(KindClass, true)
}

// OriginalClasses returns the non-auxiliary classes, including ⊤ and ⊥.
func (m *Manager) OriginalClasses() []ID {
	return m.collect(KindClass, false)
}

// Roles returns all role identifiers.
func (m *Manager) Roles() []ID {
	return m.collect(KindRole, true)
}

// OriginalRoles returns the non-auxiliary roles, including the reserved ones.
func (m *Manager) OriginalRoles() []ID {
	return m.collect(KindRole, false)
}

// Individuals returns all individuals.
func (m *Manager) Individuals() []ID {
	return m.collect(KindIndividual, true)
}

func (m *Manager) collect(kind Kind, withAux bool) []ID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ID, 0)
	for i, k := range m.kinds {
		if k != kind {
			continue
		}
		if !withAux && m.aux[i] {
			continue
		}
		out = append(out, ID(i))
	}
	return out
}

// Stats returns counts per kind.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var st Stats
	for i, k := range m.kinds {
		switch k {
		case KindClass:
			if m.aux[i] {
				st.AuxClasses++
			} else {
				st.Classes++
			}
		case KindRole:
			if m.aux[i] {
				st.AuxRoles++
			} else {
				st.Roles++
			}
		case KindIndividual:
			st.Individuals++
		}
	}
	st.NominalClasses = len(m.individualOf)
	st.ConjunctionCount = len(m.conjMembers)
	return st
}

func joinIDs(ids []ID) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return b.String()
}
