package pools

import (
	"sync"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
)

// IDPool pools slices of entity identifiers for successor lists, subsumer snapshots, etc.
type IDPool struct {
	small  sync.Pool // <= 16 elements
	medium sync.Pool // <= 64 elements
	large  sync.Pool // <= 256 elements
}

// MaxPooledIDs is the largest capacity returned to the pool.
const MaxPooledIDs = 10000

// NewIDPool creates a new identifier slice pool.
func NewIDPool() *IDPool {
	newSlice := func(n int) func() any {
		return func() any {
			s := make([]entity.ID, 0, n)
			return &s
		}
	}
	return &IDPool{
		small:  sync.Pool{New: newSlice(16)},
		medium: sync.Pool{New: newSlice(64)},
		large:  sync.Pool{New: newSlice(256)},
	}
}

func (p *IDPool) class(size int) *sync.Pool {
	switch {
	case size <= 16:
		return &p.small
	case size <= 64:
		return &p.medium
	case size <= 256:
		return &p.large
	default:
		return nil
	}
}

// Get returns an empty slice with at least the requested capacity.
func (p *IDPool) Get(size int) []entity.ID {
	pool := p.class(size)
	if pool == nil {
		return make([]entity.ID, 0, size)
	}
	sp, ok := pool.Get().(*[]entity.ID)
	if !ok || cap(*sp) < size {
		return make([]entity.ID, 0, size)
	}
	return (*sp)[:0]
}

// Put returns a slice to the pool.
func (p *IDPool) Put(s []entity.ID) {
	c := cap(s)
	if c > MaxPooledIDs {
		return
	}
	// A slice is filed under the largest class it can fully serve.
	var pool *sync.Pool
	switch {
	case c >= 256:
		pool = &p.large
	case c >= 64:
		pool = &p.medium
	case c >= 16:
		pool = &p.small
	default:
		return
	}
	s = s[:0]
	pool.Put(&s)
}

var defaultIDPool = NewIDPool()

// GetIDs returns an identifier slice from the default pool.
func GetIDs(size int) []entity.ID {
	return defaultIDPool.Get(size)
}

// PutIDs returns an identifier slice to the default pool.
func PutIDs(s []entity.ID) {
	defaultIDPool.Put(s)
}

// CopySet appends the members of s to a pooled slice. The caller releases it with PutIDs.
func CopySet(s entity.Set[entity.ID]) []entity.ID {
	return s.AppendTo(GetIDs(len(s)))
}
