package pools

import "github.com/dd0wney/cluso-reasoner/pkg/entity"

// KeyBuilder builds binary map keys out of identifiers using a pooled buffer.
type KeyBuilder struct {
	buf  []byte
	pool *BytePool
}

// NewKeyBuilder creates a builder sized for n identifiers.
func NewKeyBuilder(n int) *KeyBuilder {
	return &KeyBuilder{
		buf:  defaultBytePool.Get(4 * n),
		pool: defaultBytePool,
	}
}

// WriteID appends id in big-endian order.
func (b *KeyBuilder) WriteID(id entity.ID) {
	b.buf = append(b.buf,
		byte(id>>24),
		byte(id>>16),
		byte(id>>8),
		byte(id),
	)
}

// WriteByte appends a separator or tag byte.
func (b *KeyBuilder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// Len returns the current key length in bytes.
func (b *KeyBuilder) Len() int {
	return len(b.buf)
}

// String returns the key. The builder stays usable.
func (b *KeyBuilder) String() string {
	return string(b.buf)
}

// Release returns the buffer to the pool. After Release, the builder should not be used.
func (b *KeyBuilder) Release() {
	if b.pool != nil && b.buf != nil {
		b.pool.Put(b.buf)
	}
	b.buf = nil
}
