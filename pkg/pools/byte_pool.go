package pools

import (
	"sync"
)

// Byte buffer size classes
const (
	KeySize      = 64       // descriptor keys
	RecordSize   = 1024     // small encoded records
	SnapshotSize = 64 << 10 // compressed hierarchy snapshots
	MaxPool      = 1 << 20  // don't pool buffers larger than this
)

// BytePool provides size-class based pooling for byte slices.
type BytePool struct {
	key      sync.Pool // <= 64 bytes
	record   sync.Pool // <= 1 KiB
	snapshot sync.Pool // <= 64 KiB
}

// NewBytePool creates a new byte pool.
func NewBytePool() *BytePool {
	newBuf := func(n int) func() any {
		return func() any {
			b := make([]byte, 0, n)
			return &b
		}
	}
	return &BytePool{
		key:      sync.Pool{New: newBuf(KeySize)},
		record:   sync.Pool{New: newBuf(RecordSize)},
		snapshot: sync.Pool{New: newBuf(SnapshotSize)},
	}
}

// Get returns a byte slice with length 0 and at least the requested capacity.
func (p *BytePool) Get(size int) []byte {
	var pool *sync.Pool
	switch {
	case size <= KeySize:
		pool = &p.key
	case size <= RecordSize:
		pool = &p.record
	case size <= SnapshotSize:
		pool = &p.snapshot
	default:
		return make([]byte, 0, size)
	}

	bp, ok := pool.Get().(*[]byte)
	if !ok || cap(*bp) < size {
		return make([]byte, 0, size)
	}
	return (*bp)[:0]
}

// GetSized returns a byte slice with exactly the requested length.
func (p *BytePool) GetSized(size int) []byte {
	return p.Get(size)[:size]
}

// Put returns a byte slice to the pool. Slices larger than MaxPool are dropped.
func (p *BytePool) Put(b []byte) {
	c := cap(b)
	if c > MaxPool {
		return
	}
	b = b[:0]

	var pool *sync.Pool
	switch {
	case c >= SnapshotSize:
		pool = &p.snapshot
	case c >= RecordSize:
		pool = &p.record
	case c >= KeySize:
		pool = &p.key
	default:
		return
	}
	pool.Put(&b)
}

var defaultBytePool = NewBytePool()

// GetBytes returns a byte slice from the default pool.
func GetBytes(size int) []byte {
	return defaultBytePool.Get(size)
}

// GetBytesSized returns a byte slice with exact length from the default pool.
func GetBytesSized(size int) []byte {
	return defaultBytePool.GetSized(size)
}

// PutBytes returns a byte slice to the default pool.
func PutBytes(b []byte) {
	defaultBytePool.Put(b)
}
