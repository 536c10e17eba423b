package pool

// Interner deduplicates repeated strings so that columns with low
// cardinality (state codes, weather conditions, city names) share one
// backing string per distinct value.
//
// An Interner is owned by a single goroutine and is not safe for concurrent
// use; parallel ingestion gives each worker its own instance.
type Interner struct {
	strings map[string]string
	maxSize int
	hits    int64
	misses  int64
}

// DefaultInternLimit bounds the number of distinct strings an Interner keeps.
const DefaultInternLimit = 1 << 16

// NewInterner returns an Interner holding at most maxSize distinct strings.
// A non-positive maxSize selects DefaultInternLimit.
func NewInterner(maxSize int) *Interner {
	if maxSize <= 0 {
		maxSize = DefaultInternLimit
	}
	return &Interner{
		strings: make(map[string]string, 1024),
		maxSize: maxSize,
	}
}

// Intern returns the canonical copy of s.
func (p *Interner) Intern(s string) string {
	if interned, ok := p.strings[s]; ok {
		p.hits++
		return interned
	}
	p.misses++
	if len(p.strings) >= p.maxSize {
		return s
	}
	p.strings[s] = s
	return s
}

// InternBytes interns b, allocating a string only on a miss.
func (p *Interner) InternBytes(b []byte) string {
	// The compiler does not allocate for map lookups keyed by string(b).
	if interned, ok := p.strings[string(b)]; ok {
		p.hits++
		return interned
	}
	return p.Intern(string(b))
}

// Stats returns the number of distinct strings held and the hit/miss counts.
func (p *Interner) Stats() (size int, hits, misses int64) {
	return len(p.strings), p.hits, p.misses
}

// Reset drops every interned string.
func (p *Interner) Reset() {
	p.strings = make(map[string]string, 1024)
	p.hits = 0
	p.misses = 0
}
