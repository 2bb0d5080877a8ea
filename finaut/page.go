package finaut

import (
	"net/url"
	"strconv"
)

// Page is the paginated envelope the API wraps list responses in.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether another page follows this one.
func (p *Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// ListOptions carries pagination parameters for list endpoints without
// resource-specific filters.
type ListOptions struct {
	// Page is the 1-based page number; zero requests the first page.
	Page int
}

func (o *ListOptions) query() url.Values {
	q := url.Values{}
	if o != nil && o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	return q
}
