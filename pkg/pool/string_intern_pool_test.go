package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner(0)
	a := in.InternBytes([]byte("CA"))
	b := in.Intern("CA")
	assert.Equal(t, "CA", a)
	assert.Equal(t, a, b)

	size, hits, misses := in.Stats()
	assert.Equal(t, 1, size)
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestInternerLimit(t *testing.T) {
	in := NewInterner(2)
	in.Intern("a")
	in.Intern("b")
	assert.Equal(t, "c", in.Intern("c"))

	size, _, misses := in.Stats()
	assert.Equal(t, 2, size)
	assert.Equal(t, int64(3), misses)

	in.Reset()
	size, hits, _ := in.Stats()
	assert.Zero(t, size)
	assert.Zero(t, hits)
}

func TestPooledInternerIsReset(t *testing.T) {
	p := New(func() *Interner { return NewInterner(0) }, (*Interner).Reset)
	in := p.Get()
	in.Intern("TX")
	p.Put(in)

	size, hits, misses := in.Stats()
	assert.Zero(t, size)
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}
