package iface

// WordArena is the Go stand-in for the original's reserved-and-committed
// virtual memory arenas (infra/container/reserved_vec.hpp in the source
// this module was distilled from): a single contiguous, append-only
// []uint64 that every pool bump-allocates from. Go has no virtual memory
// reservation API exposed to ordinary programs, so growth is handled by
// ordinary slice doubling instead of committing pages on demand; the
// owning pool still behaves as if it held one reservation for its
// lifetime, per spec §5 ("every pool ... owns a contiguous virtual
// reservation plus its bump pointers").
type WordArena struct {
	words []uint64
}

// NewWordArena returns an arena pre-sized to hold at least capacity
// words without reallocating.
func NewWordArena(capacity int) *WordArena {
	return &WordArena{words: make([]uint64, 0, capacity)}
}

// Len returns the number of words currently in use.
func (a *WordArena) Len() int { return len(a.words) }

// Append bump-allocates len(words) slots and copies words into them,
// returning the offset at which they were written.
func (a *WordArena) Append(words ...uint64) int {
	off := len(a.words)
	a.words = append(a.words, words...)
	return off
}

// Grow reserves n additional words without initialising them beyond the
// zero value, returning the offset of the first new word.
func (a *WordArena) Grow(n int) int {
	off := len(a.words)
	for i := 0; i < n; i++ {
		a.words = append(a.words, 0)
	}
	return off
}

// At returns the word at offset i.
func (a *WordArena) At(i int) uint64 { return a.words[i] }

// Set overwrites the word at offset i.
func (a *WordArena) Set(i int, v uint64) { a.words[i] = v }

// Slice returns the backing words in [start, end). The returned slice
// aliases the arena's storage and is only valid until the next Append or
// Grow that triggers a reallocation.
func (a *WordArena) Slice(start, end int) []uint64 { return a.words[start:end] }

// Reset discards all words, keeping the underlying capacity, exactly as
// the spec's scratch builder arenas are discarded after each tree is
// finalised.
func (a *WordArena) Reset() { a.words = a.words[:0] }

// CopyWithin copies n words from [src, src+n) to [dst, dst+n), handling
// overlap the way memmove would (Go's copy builtin is overlap-safe).
func (a *WordArena) CopyWithin(dst, src, n int) {
	copy(a.words[dst:dst+n], a.words[src:src+n])
}

// Truncate discards every word from offset n onward, used by the
// lowering passes to release the scratch tail once the lowered result has
// been copied back over the original subtree, per spec §4.1.4.
func (a *WordArena) Truncate(n int) { a.words = a.words[:n] }

// ByteArena is the byte-granular analogue of WordArena, used by the
// opcode pool's flat instruction stream.
type ByteArena struct {
	bytes []byte
}

// NewByteArena returns an arena pre-sized to hold at least capacity
// bytes without reallocating.
func NewByteArena(capacity int) *ByteArena {
	return &ByteArena{bytes: make([]byte, 0, capacity)}
}

// Len returns the number of bytes currently in use.
func (a *ByteArena) Len() int { return len(a.bytes) }

// Append appends b to the arena, returning the offset it was written at.
func (a *ByteArena) Append(b ...byte) int {
	off := len(a.bytes)
	a.bytes = append(a.bytes, b...)
	return off
}

// Bytes returns the full backing slice. It aliases the arena's storage.
func (a *ByteArena) Bytes() []byte { return a.bytes }

// At returns the byte at offset i.
func (a *ByteArena) At(i int) byte { return a.bytes[i] }

// Set overwrites the byte at offset i.
func (a *ByteArena) Set(i int, v byte) { a.bytes[i] = v }
