package client

import (
	"context"
	"net/url"
)

// SearchService handles search operations.
type SearchService struct {
	c *Client
}

// All returns every dashboard and folder matching the query. An empty query
// returns the full flat list, which is how the backup tool enumerates an
// instance.
func (s *SearchService) All(ctx context.Context, query string) ([]SearchHit, error) {
	params := url.Values{"query": {query}}
	var hits []SearchHit
	if err := s.c.get(ctx, "/api/search", params, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}
