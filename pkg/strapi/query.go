package strapi

import (
	"fmt"
	"net/url"
)

// Query builds the CMS REST query string: populate directives, sorting and
// equality filters ("filters[field][$eq]=value").
type Query struct {
	Populate string
	Sort     string
	filters  [][2]string
}

// NewQuery returns a query with the default populate directive.
func NewQuery() Query {
	return Query{Populate: "*"}
}

// WithSort sets the sort directive, e.g. "order:asc".
func (q Query) WithSort(sort string) Query {
	q.Sort = sort
	return q
}

// WithFilter adds an equality filter on the given field.
func (q Query) WithFilter(field, value string) Query {
	q.filters = append(q.filters, [2]string{field, value})
	return q
}

// WithPopulate overrides the populate directive.
func (q Query) WithPopulate(populate string) Query {
	q.Populate = populate
	return q
}

// Encode renders the query as a URL-encoded string.
func (q Query) Encode() string {
	params := url.Values{}
	if q.Populate != "" {
		params.Set("populate", q.Populate)
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	for _, f := range q.filters {
		params.Set(fmt.Sprintf("filters[%s][$eq]", f[0]), f[1])
	}
	return params.Encode()
}
