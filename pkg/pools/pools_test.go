package pools

import (
	"sync"
	"testing"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
)

func TestBytePool_Get(t *testing.T) {
	pool := NewBytePool()

	tests := []struct {
		name   string
		size   int
		minCap int
	}{
		{"key", 12, 12},
		{"key_exact", KeySize, KeySize},
		{"record", 512, 512},
		{"record_exact", RecordSize, RecordSize},
		{"snapshot", 4096, 4096},
		{"snapshot_exact", SnapshotSize, SnapshotSize},
		{"oversized", SnapshotSize + 1, SnapshotSize + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := pool.Get(tt.size)
			if len(b) != 0 {
				t.Errorf("Get(%d) length = %d, want 0", tt.size, len(b))
			}
			if cap(b) < tt.minCap {
				t.Errorf("Get(%d) capacity = %d, want >= %d", tt.size, cap(b), tt.minCap)
			}
		})
	}
}

func TestBytePool_PutAndReuse(t *testing.T) {
	pool := NewBytePool()

	for i := 0; i < 10; i++ {
		b := pool.Get(KeySize)
		b = append(b, "descriptor"...)
		pool.Put(b)
	}

	b := pool.Get(KeySize)
	if len(b) != 0 {
		t.Errorf("After Put, Get returned slice with length %d, want 0", len(b))
	}
	pool.Put(make([]byte, MaxPool+1)) // dropped
}

func TestDefaultBytePool(t *testing.T) {
	b := GetBytesSized(50)
	if len(b) != 50 {
		t.Errorf("GetBytesSized(50) length = %d, want 50", len(b))
	}
	PutBytes(b)
}

func TestIDPool_Get(t *testing.T) {
	pool := NewIDPool()

	for _, size := range []int{0, 8, 16, 32, 64, 128, 256, 1000} {
		s := pool.Get(size)
		if len(s) != 0 {
			t.Errorf("Get(%d) length = %d, want 0", size, len(s))
		}
		if cap(s) < size {
			t.Errorf("Get(%d) capacity = %d, want >= %d", size, cap(s), size)
		}
		pool.Put(s)
	}
}

func TestIDPool_PutAndReuse(t *testing.T) {
	pool := NewIDPool()

	for i := 0; i < 10; i++ {
		s := pool.Get(16)
		s = append(s, 1, 2, 3, 4, 5)
		pool.Put(s)
	}

	s := pool.Get(16)
	if len(s) != 0 {
		t.Errorf("After Put, Get returned slice with length %d, want 0", len(s))
	}
}

func TestCopySet(t *testing.T) {
	set := entity.NewSet[entity.ID](4, 7, 9)
	ids := CopySet(set)
	defer PutIDs(ids)

	if len(ids) != 3 {
		t.Fatalf("CopySet length = %d, want 3", len(ids))
	}
	for _, id := range ids {
		if !set.Has(id) {
			t.Errorf("CopySet returned %v, not a member", id)
		}
	}
}

func TestSetPool_GetIsEmpty(t *testing.T) {
	pool := NewSetPool()

	s := pool.Get()
	s.Add(5)
	s.Add(6)
	pool.Put(s)

	s2 := pool.Get()
	if s2.Len() != 0 {
		t.Errorf("After Put, Get returned set with length %d, want 0", s2.Len())
	}
	pool.Put(nil)
}

func TestKeyBuilder(t *testing.T) {
	b := NewKeyBuilder(2)
	defer b.Release()

	b.WriteID(0x01020304)
	_ = b.WriteByte('|')
	b.WriteID(5)

	if b.Len() != 9 {
		t.Fatalf("Len() = %d, want 9", b.Len())
	}
	want := string([]byte{1, 2, 3, 4, '|', 0, 0, 0, 5})
	if b.String() != want {
		t.Errorf("String() = %q, want %q", b.String(), want)
	}
}

func TestKeyBuilder_DistinctKeys(t *testing.T) {
	a := NewKeyBuilder(2)
	defer a.Release()
	a.WriteID(1)
	a.WriteID(2)

	b := NewKeyBuilder(2)
	defer b.Release()
	b.WriteID(2)
	b.WriteID(1)

	if a.String() == b.String() {
		t.Error("keys for different identifier orders collide")
	}
}

func TestIDPool_Concurrent(t *testing.T) {
	pool := NewIDPool()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s := pool.Get(32)
				s = append(s, 1, 2, 3, 4, 5, 6, 7, 8)
				pool.Put(s)
			}
		}()
	}

	wg.Wait()
}

func BenchmarkIDPool_Get(b *testing.B) {
	pool := NewIDPool()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s := pool.Get(32)
		pool.Put(s)
	}
}

func BenchmarkKeyBuilder(b *testing.B) {
	for i := 0; i < b.N; i++ {
		kb := NewKeyBuilder(3)
		kb.WriteID(12)
		kb.WriteID(7)
		kb.WriteID(99)
		_ = kb.String()
		kb.Release()
	}
}
