package client

import "context"

// FolderService handles folder operations.
type FolderService struct {
	c *Client
}

// List returns all dashboard folders visible to the API key.
func (s *FolderService) List(ctx context.Context) ([]Folder, error) {
	var folders []Folder
	if err := s.c.get(ctx, "/api/folders", nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}
