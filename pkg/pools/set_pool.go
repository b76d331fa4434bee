package pools

import (
	"sync"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
)

// SetPool pools identifier sets.
type SetPool struct {
	pool sync.Pool
}

// NewSetPool creates a new set pool.
func NewSetPool() *SetPool {
	return &SetPool{
		pool: sync.Pool{
			New: func() any {
				return make(entity.Set[entity.ID], 8)
			},
		},
	}
}

// Get returns an empty set from the pool.
func (p *SetPool) Get() entity.Set[entity.ID] {
	s, ok := p.pool.Get().(entity.Set[entity.ID])
	if !ok {
		return make(entity.Set[entity.ID], 8)
	}
	clear(s)
	return s
}

// Put returns a set to the pool.
func (p *SetPool) Put(s entity.Set[entity.ID]) {
	if s == nil || len(s) > 1000 {
		return
	}
	p.pool.Put(s)
}

var defaultSetPool = NewSetPool()

// GetSet returns a set from the default pool.
func GetSet() entity.Set[entity.ID] {
	return defaultSetPool.Get()
}

// PutSet returns a set to the default pool.
func PutSet(s entity.Set[entity.ID]) {
	defaultSetPool.Put(s)
}
