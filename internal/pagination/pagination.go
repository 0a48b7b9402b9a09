package pagination

import (
	"strconv"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

// Params is a parsed page/limit query pair. Non-numeric or
// non-positive values fall back to the defaults.
type Params struct {
	Page  int
	Limit int
}

func Parse(pageStr, limitStr string) Params {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Params{Page: page, Limit: limit}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Envelope is the paginated response body shared by every listing.
type Envelope struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}
