package maincmd

import "github.com/mna/ilex/lang/ids"

// staticInterner satisfies iface.IdentifierInterner over the fixed name
// table the sample registry uses; a real driver would back this with an
// interned string table instead (spec §6, out of this module's scope).
type staticInterner map[ids.IdentifierId]string

func (s staticInterner) Intern(name string) ids.IdentifierId {
	for id, n := range s {
		if n == name {
			return id
		}
	}
	return 0
}

func (s staticInterner) Name(id ids.IdentifierId) (string, bool) {
	n, ok := s[id]
	return n, ok
}

var interner = staticInterner{
	identAnswer: "answer",
	identFlag:   "flag",
	identTotal:  "total",
}
