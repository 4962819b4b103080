package types_test

import (
	"testing"

	"github.com/mna/ilex/lang/ids"
	"github.com/mna/ilex/lang/types"
	"github.com/stretchr/testify/require"
)

func TestCreateSimpleDedups(t *testing.T) {
	p := types.NewPool(8)

	a := p.CreateSimple(1, types.TagVoid)
	b := p.CreateSimple(2, types.TagVoid)
	c := p.CreateSimple(1, types.TagBool)

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestCreateNumericValidatesWidth(t *testing.T) {
	p := types.NewPool(8)

	require.Panics(t, func() { p.CreateNumeric(1, types.TagInteger, 24, true) })
	require.NotPanics(t, func() { p.CreateNumeric(1, types.TagInteger, 32, true) })

	u32 := p.CreateNumeric(1, types.TagInteger, 32, false)
	i32 := p.CreateNumeric(1, types.TagInteger, 32, true)
	require.NotEqual(t, u32, i32)

	again := p.CreateNumeric(1, types.TagInteger, 32, false)
	require.Equal(t, u32, again)
}

func TestCreateReferenceAndArrayDedup(t *testing.T) {
	p := types.NewPool(8)
	u32 := p.CreateNumeric(1, types.TagInteger, 32, false)

	ptr1 := p.CreateReference(1, types.TagPtr, u32, false, false, true)
	ptr2 := p.CreateReference(1, types.TagPtr, u32, false, false, true)
	require.Equal(t, ptr1, ptr2)

	constPtr := p.CreateReference(1, types.TagPtr, u32, false, false, false)
	require.NotEqual(t, ptr1, constPtr)

	arr1 := p.CreateArray(1, types.TagArray, u32, 4)
	arr2 := p.CreateArray(1, types.TagArray, u32, 4)
	require.Equal(t, arr1, arr2)
}

func TestMetricsFromId(t *testing.T) {
	p := types.NewPool(8)

	void := p.CreateSimple(1, types.TagVoid)
	require.Equal(t, types.Metrics{Size: 0, Stride: 0, Align: 1}, p.MetricsFromId(void))

	u8 := p.CreateNumeric(1, types.TagInteger, 8, false)
	require.Equal(t, types.Metrics{Size: 1, Stride: 1, Align: 1}, p.MetricsFromId(u8))

	u32 := p.CreateNumeric(1, types.TagInteger, 32, false)
	require.Equal(t, types.Metrics{Size: 4, Stride: 4, Align: 4}, p.MetricsFromId(u32))

	ptr := p.CreateReference(1, types.TagPtr, u32, false, false, true)
	require.Equal(t, types.Metrics{Size: 8, Stride: 8, Align: 8}, p.MetricsFromId(ptr))

	arr := p.CreateArray(1, types.TagArray, u32, 4)
	require.Equal(t, types.Metrics{Size: 16, Stride: 16, Align: 4}, p.MetricsFromId(arr))
}

func TestMetricsFromIdPanicsOnUnresolvedComposite(t *testing.T) {
	p := types.NewPool(8)
	s := p.CreateComposite(1, false, types.DispositionStruct, 4, false)
	require.Panics(t, func() { p.MetricsFromId(s) })
}

func TestCompositeLifecycle(t *testing.T) {
	p := types.NewPool(8)
	u32 := p.CreateNumeric(1, types.TagInteger, 32, false)

	s := p.CreateComposite(1, false, types.DispositionStruct, 4, false)

	xRank := p.AddCompositeMember(s, types.Member{Name: 100, DeclaredType: u32})
	yRank := p.AddCompositeMember(s, types.Member{Name: 101, HasPendingType: true})

	require.Panics(t, func() {
		p.AddCompositeMember(s, types.Member{Name: 100})
	})

	// sealing with a pending member leaves the composite queryable but
	// unresolved.
	p.SealComposite(s, 8, 4, 8)
	require.Panics(t, func() { p.MetricsFromId(s) })

	m, rank, ok := p.MemberByName(s, 100)
	require.True(t, ok)
	require.Equal(t, xRank, rank)
	require.Equal(t, u32, m.DeclaredType)

	p.SetCompositeMemberInfo(s, yRank, true, u32, false, ids.InvalidGlobalValueId)

	metrics := p.MetricsFromId(s)
	require.Equal(t, types.Metrics{Size: 8, Stride: 8, Align: 4}, metrics)

	require.Panics(t, func() {
		p.SetCompositeMemberInfo(s, yRank, true, u32, false, ids.InvalidGlobalValueId)
	})
}

func TestMemberByNameFollowsUse(t *testing.T) {
	p := types.NewPool(8)
	u32 := p.CreateNumeric(1, types.TagInteger, 32, false)

	base := p.CreateComposite(1, false, types.DispositionStruct, 2, false)
	p.AddCompositeMember(base, types.Member{Name: 200, DeclaredType: u32})
	p.SealComposite(base, 4, 4, 4)

	derived := p.CreateComposite(1, false, types.DispositionStruct, 2, false)
	p.AddCompositeMember(derived, types.Member{Name: 300, DeclaredType: base, IsUse: true})
	p.SealComposite(derived, 4, 4, 4)

	m, _, ok := p.MemberByName(derived, 200)
	require.True(t, ok)
	require.Equal(t, u32, m.DeclaredType)

	_, _, ok = p.MemberByName(derived, 999)
	require.False(t, ok)
}

func TestCanImplicitlyConvertFromTo(t *testing.T) {
	p := types.NewPool(16)

	compInt := p.CreateSimple(1, types.TagCompInteger)
	u32 := p.CreateNumeric(1, types.TagInteger, 32, false)
	require.True(t, p.CanImplicitlyConvertFromTo(compInt, u32))
	require.False(t, p.CanImplicitlyConvertFromTo(u32, compInt))

	divergent := p.CreateSimple(1, types.TagDivergent)
	require.True(t, p.CanImplicitlyConvertFromTo(divergent, u32))

	typeInfo := p.CreateSimple(1, types.TagTypeInfo)
	require.True(t, p.CanImplicitlyConvertFromTo(u32, typeInfo))

	arr := p.CreateArray(1, types.TagArray, u32, 4)
	slice := p.CreateReference(1, types.TagSlice, u32, false, false, true)
	require.True(t, p.CanImplicitlyConvertFromTo(arr, slice))

	mutPtr := p.CreateReference(1, types.TagPtr, u32, false, false, true)
	constPtr := p.CreateReference(1, types.TagPtr, u32, false, false, false)
	require.True(t, p.CanImplicitlyConvertFromTo(mutPtr, constPtr))
	require.False(t, p.CanImplicitlyConvertFromTo(constPtr, mutPtr))

	multiMutPtr := p.CreateReference(1, types.TagPtr, u32, false, true, true)
	optConstPtr := p.CreateReference(1, types.TagPtr, u32, true, false, false)
	require.True(t, p.CanImplicitlyConvertFromTo(multiMutPtr, optConstPtr))
}

func TestDistinctTypesDoNotCompareEqualByStructure(t *testing.T) {
	p := types.NewPool(8)
	u32 := p.CreateNumeric(1, types.TagInteger, 32, false)

	meters := p.CreateNumeric(1, types.TagInteger, 32, false)
	require.Equal(t, u32, meters, "identical structure dedups before distinct is applied")

	// declaring `meters` distinct requires giving it its own TypeId even
	// though it started out structurally identical to u32; model that by
	// minting a fresh alias and rooting it at itself.
	distinctMeters := p.CreateIndirectAlias(1, meters)
	p.SetDistinctRoot(distinctMeters, distinctMeters)

	require.False(t, p.IsEqual(distinctMeters, u32))
	require.True(t, p.IsEqual(distinctMeters, distinctMeters))
}

func TestUnify(t *testing.T) {
	p := types.NewPool(16)

	compInt := p.CreateSimple(1, types.TagCompInteger)
	u32 := p.CreateNumeric(1, types.TagInteger, 32, false)

	require.Equal(t, u32, p.Unify(compInt, u32))
	require.Equal(t, u32, p.Unify(u32, compInt))

	bo := p.CreateSimple(1, types.TagBool)
	require.Equal(t, ids.InvalidTypeId, p.Unify(bo, u32))
}
