package client

import "context"

// DashboardService handles dashboard operations.
type DashboardService struct {
	c *Client
}

// GetByUID fetches the full dashboard definition plus its meta envelope.
func (s *DashboardService) GetByUID(ctx context.Context, uid string) (*DashboardWithMeta, error) {
	var resp DashboardWithMeta
	if err := s.c.get(ctx, "/api/dashboards/uid/"+uid, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
