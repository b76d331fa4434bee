package axiom

// NormalSet is an insertion-ordered, duplicate-free collection of normal axioms.
type NormalSet struct {
	items []Normal
	keys  map[string]struct{}
}

// NewNormalSet creates an empty set.
func NewNormalSet() *NormalSet {
	return &NormalSet{keys: make(map[string]struct{})}
}

// Add inserts a and reports whether it was absent.
func (s *NormalSet) Add(a Normal) bool {
	k := a.String()
	if _, ok := s.keys[k]; ok {
		return false
	}
	s.keys[k] = struct{}{}
	s.items = append(s.items, a)
	return true
}

// Has reports whether an equal axiom is in the set.
func (s *NormalSet) Has(a Normal) bool {
	_, ok := s.keys[a.String()]
	return ok
}

// Len returns the number of axioms.
func (s *NormalSet) Len() int {
	return len(s.items)
}

// Items returns the axioms in insertion order. The slice must not be modified.
func (s *NormalSet) Items() []Normal {
	return s.items
}

// CountByKind returns the number of axioms per kind.
func (s *NormalSet) CountByKind() map[Kind]int {
	out := make(map[Kind]int)
	for _, a := range s.items {
		out[a.Kind()]++
	}
	return out
}
