package reasoner

import (
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dd0wney/cluso-reasoner/pkg/axiom"
	"github.com/dd0wney/cluso-reasoner/pkg/entity"
	"github.com/dd0wney/cluso-reasoner/pkg/pools"
)

// Cache keeps the results of recent runs keyed by input fingerprint. A nil Cache is
// valid and never hits. Cached results are shared and must not be modified.
type Cache struct {
	results *lru.Cache[uint64, *Result]
}

// NewCache creates a cache holding up to size results. A size of zero disables
// caching and returns nil.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		return nil, nil
	}
	results, err := lru.New[uint64, *Result](size)
	if err != nil {
		return nil, err
	}
	return &Cache{results: results}, nil
}

// Get returns the result stored under key.
func (c *Cache) Get(key uint64) (*Result, bool) {
	if c == nil {
		return nil, false
	}
	return c.results.Get(key)
}

// Add stores res under key, evicting the least recently used result when full.
func (c *Cache) Add(key uint64, res *Result) {
	if c == nil {
		return
	}
	c.results.Add(key, res)
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.results.Len()
}

// Purge drops every cached result.
func (c *Cache) Purge() {
	if c != nil {
		c.results.Purge()
	}
}

// Fingerprint hashes the original entities of m together with the axioms. Axiom order
// does not matter. Two inputs with the same fingerprint produce the same hierarchies
// over the same identifiers.
func Fingerprint(m *entity.Manager, axioms []axiom.Axiom) uint64 {
	d := xxhash.New()
	buf := pools.GetBytes(pools.KeySize)
	defer func() { pools.PutBytes(buf) }()

	for _, ids := range [][]entity.ID{m.OriginalClasses(), m.OriginalRoles(), m.Individuals()} {
		buf = binary.LittleEndian.AppendUint32(buf[:0], uint32(len(ids)))
		for _, id := range ids {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(id))
		}
		d.Write(buf)
	}

	rendered := make([]string, len(axioms))
	for i, a := range axioms {
		rendered[i] = a.String()
	}
	sort.Strings(rendered)
	for _, s := range rendered {
		d.WriteString(s)
		d.Write([]byte{0})
	}
	return d.Sum64()
}
