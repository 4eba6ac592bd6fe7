package basecamp

import (
	"context"
	"fmt"
)

// GetComments lists every comment on a recording across all pages.
func (c *Client) GetComments(ctx context.Context, projectID, recordingID int64) ([]Item, error) {
	var comments []Item
	path := fmt.Sprintf("buckets/%d/recordings/%d/comments.json", projectID, recordingID)
	if err := c.FetchAllInto(ctx, path, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// GetComment fetches one comment.
func (c *Client) GetComment(ctx context.Context, projectID, commentID int64) (Item, error) {
	var comment Item
	path := fmt.Sprintf("buckets/%d/comments/%d.json", projectID, commentID)
	if err := c.Get(ctx, path, nil, &comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateComment posts a comment on a recording. content is rich text
// (HTML).
func (c *Client) CreateComment(ctx context.Context, projectID, recordingID int64, content string) (Item, error) {
	var comment Item
	path := fmt.Sprintf("buckets/%d/recordings/%d/comments.json", projectID, recordingID)
	if err := c.Post(ctx, path, map[string]string{"content": content}, &comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateComment replaces a comment's content.
func (c *Client) UpdateComment(ctx context.Context, projectID, commentID int64, content string) (Item, error) {
	var comment Item
	path := fmt.Sprintf("buckets/%d/comments/%d.json", projectID, commentID)
	if err := c.Put(ctx, path, map[string]string{"content": content}, &comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment trashes a comment.
func (c *Client) DeleteComment(ctx context.Context, projectID, commentID int64) error {
	return c.TrashRecording(ctx, projectID, commentID)
}
