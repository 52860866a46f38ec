package txpage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/brojonat/compte/client"
)

// RoutePrefix is the first segment of a transaction page route: /compte/:iban/:param.
const RoutePrefix = "compte"

// Route is the location of a transaction page.
type Route struct {
	IBAN  string
	Param string
}

// ParseRoute parses "/compte/:iban/:param". The param segment is optional and a
// bare IBAN is accepted as shorthand for "/compte/<iban>/all".
func ParseRoute(path string) (Route, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return Route{}, errors.New("route is empty")
	}

	segments := strings.Split(trimmed, "/")
	if segments[0] == RoutePrefix {
		segments = segments[1:]
	} else if strings.HasPrefix(path, "/") {
		return Route{}, fmt.Errorf("route %q does not start with /%s/", path, RoutePrefix)
	}

	if len(segments) == 0 || len(segments) > 2 {
		return Route{}, fmt.Errorf("route %q must look like /%s/:iban/:param", path, RoutePrefix)
	}

	iban, err := url.PathUnescape(segments[0])
	if err != nil {
		return Route{}, fmt.Errorf("invalid iban segment: %w", err)
	}
	if iban == "" {
		return Route{}, errors.New("route is missing the iban")
	}

	r := Route{IBAN: iban, Param: client.LabelAll}
	if len(segments) == 2 {
		param, err := url.PathUnescape(segments[1])
		if err != nil {
			return Route{}, fmt.Errorf("invalid param segment: %w", err)
		}
		r.Param = param
	}
	return r, nil
}

// Category is the effective category selected by the route.
func (r Route) Category() client.Category {
	return client.CategoryFromLabel(r.Param)
}

// WithCategory returns the route pointing at the same account with category c.
func (r Route) WithCategory(c client.Category) Route {
	return Route{IBAN: r.IBAN, Param: c.Label()}
}

// Path renders the route back to "/compte/:iban/:param".
func (r Route) Path() string {
	return "/" + RoutePrefix + "/" + url.PathEscape(r.IBAN) + "/" + url.PathEscape(r.Param)
}
