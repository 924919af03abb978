package core

import "github.com/dkeye/Meetcast/internal/domain"

// ViewerCount counts members holding the viewer role.
func ViewerCount(members []MemberSession) int {
	n := 0
	for _, m := range members {
		if m.Meta().Role == domain.RoleViewer {
			n++
		}
	}
	return n
}

// ViewerNames lists one display name per viewer connection in
// registration order. Duplicate names are kept.
func ViewerNames(members []MemberSession) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		if meta := m.Meta(); meta.Role == domain.RoleViewer {
			out = append(out, meta.Name)
		}
	}
	return out
}

func PresenceOf(members []MemberSession) Presence {
	names := ViewerNames(members)
	return Presence{Count: len(names), Viewers: names}
}
