package apiclient

import (
	"bytes"
	"encoding/json"
)

// Envelope is the response wrapper every endpoint uses. Only Data is
// interpreted; the status in the body is informational.
type Envelope[T any] struct {
	StatusCode int    `json:"statusCode"`
	Data       T      `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// Page is a paginated list. The items arrive under "docs", under
// "comments" for comment listings, or as a bare array from endpoints that
// skip pagination.
type Page[T any] struct {
	Items       []T
	TotalDocs   int
	Limit       int
	Page        int
	TotalPages  int
	HasNextPage bool
	HasPrevPage bool
}

type pageWire[T any] struct {
	Docs          []T  `json:"docs"`
	Comments      []T  `json:"comments"`
	TotalDocs     int  `json:"totalDocs"`
	TotalComments int  `json:"totalComments"`
	Limit         int  `json:"limit"`
	Page          int  `json:"page"`
	TotalPages    int  `json:"totalPages"`
	HasNextPage   bool `json:"hasNextPage"`
	HasPrevPage   bool `json:"hasPrevPage"`
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*p = Page[T]{}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &p.Items)
	}

	var wire pageWire[T]
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return err
	}
	p.Items = wire.Docs
	p.TotalDocs = wire.TotalDocs
	if p.Items == nil && wire.Comments != nil {
		p.Items = wire.Comments
		p.TotalDocs = wire.TotalComments
	}
	p.Limit = wire.Limit
	p.Page = wire.Page
	p.TotalPages = wire.TotalPages
	p.HasNextPage = wire.HasNextPage
	p.HasPrevPage = wire.HasPrevPage
	return nil
}
