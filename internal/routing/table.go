package routing

import (
	"net/url"
	"strings"

	"script-router/internal/common/logging"
	"script-router/internal/metadata"
)

// Route is one verb+path+handler binding. The route table is the ordered
// collection of these records, built once per process and immutable
// afterwards.
type Route struct {
	Method      metadata.Verb
	Path        string
	HandlerName string
	Owner       metadata.Token
}

// BuildTable walks every registered HTTP-style controller and emits the
// route table. Table order follows controller registration order, then
// method declaration order within a controller, which fixes route
// precedence for the linear scan in MatchRoute.
func BuildTable(reg *metadata.Registry) []Route {
	var table []Route

	for _, target := range reg.Targets() {
		baseFact, ok := reg.Read(metadata.FactBasePath, target)
		if !ok {
			continue
		}
		basePath, _ := baseFact.(string)

		for _, member := range reg.Members(target) {
			verbFact, hasVerb := reg.Read(metadata.FactVerb, target, member)
			pathFact, hasPath := reg.Read(metadata.FactPath, target, member)
			if !hasVerb || !hasPath {
				continue
			}

			table = append(table, Route{
				Method:      verbFact.(metadata.Verb),
				Path:        composePath(basePath, pathFact.(string)),
				HandlerName: member,
				Owner:       target,
			})
		}
	}

	return table
}

// MatchRoute scans the table linearly and returns the first record whose
// verb equals the request verb and whose template structurally matches the
// path. First match wins; there is no specificity scoring.
func MatchRoute(table []Route, verb metadata.Verb, path string) (*Route, bool) {
	for i := range table {
		if table[i].Method == verb && Matches(table[i].Path, path) {
			return &table[i], true
		}
	}
	return nil, false
}

// composePath joins a controller base path and a method path into one
// normalized absolute template and percent-decodes it. A decode failure
// keeps the encoded text and logs a warning; route building never fails.
func composePath(basePath, methodPath string) string {
	joined := "/" + strings.Trim(strings.Trim(basePath, "/")+"/"+strings.Trim(methodPath, "/"), "/")

	decoded, err := url.PathUnescape(joined)
	if err != nil {
		logging.Warn("route path percent-decoding failed, keeping encoded form",
			logging.Field{Key: "path", Value: joined},
			logging.Err(err),
		)
		return joined
	}
	return decoded
}
