package view

import "net/http"

// SidebarCookie stores the sidebar expand state chosen in the browser
const SidebarCookie = "sidebar-expand"

const (
	ExpandedMarginClass  = "md:ml-[300px]"
	CollapsedMarginClass = "md:ml-[60px]"
)

// ContentMarginClass returns the content margin for the sidebar state.
// An unset state uses the collapsed margin.
func ContentMarginClass(expand *bool) string {
	if expand != nil && *expand {
		return ExpandedMarginClass
	}
	return CollapsedMarginClass
}

// SidebarState reads the sidebar cookie: "true", "false", or nil when absent
// or unrecognised.
func SidebarState(r *http.Request) *bool {
	cookie, err := r.Cookie(SidebarCookie)
	if err != nil {
		return nil
	}
	var v bool
	switch cookie.Value {
	case "true":
		v = true
	case "false":
		v = false
	default:
		return nil
	}
	return &v
}
