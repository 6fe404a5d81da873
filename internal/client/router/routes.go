package router

import "strings"

type Group int

const (
	GroupProtected Group = iota
	GroupPublic
)

func (g Group) String() string {
	if g == GroupPublic {
		return "public"
	}
	return "protected"
}

const (
	RouteLogin         = "/login"
	RouteRegister      = "/register"
	RouteHome          = "/home"
	RouteCourses       = "/courses"
	RouteEnrollments   = "/enrollments"
	RouteNotifications = "/notifications"
	RouteProfile       = "/profile"
)

// Table lists the public routes; everything else is protected.
type Table struct {
	Public         []string
	PublicEntry    string
	ProtectedEntry string
}

func DefaultTable() Table {
	return Table{
		Public:         []string{RouteLogin, RouteRegister},
		PublicEntry:    RouteLogin,
		ProtectedEntry: RouteHome,
	}
}

// GroupOf matches by whole path segments: "/login/help" is public,
// "/loginx" is not.
func (t Table) GroupOf(path string) Group {
	for _, p := range t.Public {
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return GroupPublic
		}
	}
	return GroupProtected
}

// Join builds a route from a base and path segments.
func Join(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(strings.Trim(s, "/"))
	}
	return b.String()
}
