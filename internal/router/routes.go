package router

import "strings"

// View names one sub-view of a portal.
type View string

const (
	ViewDashboard  View = "dashboard"
	ViewComplaints View = "complaints"
	ViewDetail     View = "complaint"
	ViewProfile    View = "profile"
	ViewSettings   View = "settings"
	ViewMap        View = "map"
)

// Route maps a path pattern relative to the portal root onto a view.
// Segments starting with ':' capture a parameter.
type Route struct {
	Pattern string
	View    View
}

// Match is the result of resolving a path against a Table.
type Match struct {
	View   View
	Params map[string]string
	// Fallback is set when no route matched and the catch-all was used.
	Fallback bool
}

// Table is the nested routing region of one portal.
type Table struct {
	Prefix   string
	Routes   []Route
	CatchAll View
}

// CitizenRoutes is the region mounted under /portal.
var CitizenRoutes = Table{
	Prefix: "/portal",
	Routes: []Route{
		{Pattern: "dashboard", View: ViewDashboard},
		{Pattern: "complaints", View: ViewComplaints},
		{Pattern: "complaints/:id", View: ViewDetail},
		{Pattern: "profile", View: ViewProfile},
		{Pattern: "settings", View: ViewSettings},
		{Pattern: "map", View: ViewMap},
	},
	CatchAll: ViewDashboard,
}

// AuthorityRoutes is the region mounted under /authority.
var AuthorityRoutes = Table{
	Prefix: "/authority",
	Routes: []Route{
		{Pattern: "dashboard", View: ViewDashboard},
		{Pattern: "complaints", View: ViewComplaints},
		{Pattern: "complaints/:id", View: ViewDetail},
		{Pattern: "settings", View: ViewSettings},
	},
	CatchAll: ViewDashboard,
}

// Match resolves path, which may be absolute ("/portal/map") or relative to
// the prefix ("map"). The portal root and unknown paths fall through to CatchAll.
func (t Table) Match(path string) Match {
	rel := strings.TrimPrefix(path, t.Prefix)
	rel = strings.Trim(rel, "/")

	segments := splitPath(rel)
	for _, route := range t.Routes {
		if params, ok := matchSegments(splitPath(route.Pattern), segments); ok {
			return Match{View: route.View, Params: params}
		}
	}
	return Match{View: t.CatchAll, Params: map[string]string{}, Fallback: true}
}

// Path builds the absolute path of a relative sub-path.
func (t Table) Path(rel string) string {
	return t.Prefix + "/" + strings.TrimPrefix(rel, "/")
}

func splitPath(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, ":") {
			if segments[i] == "" {
				return nil, false
			}
			params[seg[1:]] = segments[i]
			continue
		}
		if seg != segments[i] {
			return nil, false
		}
	}
	return params, true
}
