package basecamp

import (
	"context"
	"fmt"
)

// Item is a decoded API resource. Operations return generic items so the
// compact projection and the tool layer can work over any resource type.
type Item = map[string]any

// GetProjects lists every active project visible to the user, across all
// pages.
func (c *Client) GetProjects(ctx context.Context) ([]Item, error) {
	var projects []Item
	if err := c.FetchAllInto(ctx, "projects.json", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProjectRaw fetches the full project payload. GetProject returns the
// typed navigation subset; this keeps everything.
func (c *Client) GetProjectRaw(ctx context.Context, projectID int64) (Item, error) {
	var p Item
	if err := c.Get(ctx, fmt.Sprintf("projects/%d.json", projectID), nil, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPeople lists everyone on the account.
func (c *Client) GetPeople(ctx context.Context) ([]Item, error) {
	var people []Item
	if err := c.FetchAllInto(ctx, "people.json", nil, &people); err != nil {
		return nil, err
	}
	return people, nil
}
