package types

import "github.com/mna/ilex/lang/ids"

// membersOf returns id's members regardless of whether it is still an
// open builder or has been sealed into the structural table.
func (p *Pool) membersOf(id ids.TypeId) []Member {
	id = p.resolveIndirect(id)
	n := p.names[id]
	if n.Kind == IndexBuilder {
		return p.builders[id].collectMembers()
	}
	return p.sealedData[n.StructureIndex].members
}

// MemberByRank returns the rank'th member of composite id.
func (p *Pool) MemberByRank(id ids.TypeId, rank int) Member {
	members := p.membersOf(id)
	if rank < 0 || rank >= len(members) {
		panic("types: member rank out of range")
	}
	return members[rank]
}

// MemberByName looks up a member of composite id by name. Direct members
// are searched first; `use` members (IsUse) are then searched recursively,
// enabling name-merged inheritance, per spec §4.2.4.
func (p *Pool) MemberByName(id ids.TypeId, name ids.IdentifierId) (Member, int, bool) {
	members := p.membersOf(id)

	for rank, m := range members {
		if m.Name == name {
			return m, rank, true
		}
	}

	for _, m := range members {
		if !m.IsUse || m.HasPendingType {
			continue
		}
		if found, rank, ok := p.MemberByName(m.DeclaredType, name); ok {
			return found, rank, true
		}
	}

	return Member{}, 0, false
}
