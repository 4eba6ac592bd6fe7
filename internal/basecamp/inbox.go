package basecamp

import (
	"context"
	"fmt"
)

// GetForwards lists the email forwards in a project's inbox. Pass inboxID 0
// to discover the inbox from the project dock.
func (c *Client) GetForwards(ctx context.Context, projectID, inboxID int64) ([]Item, error) {
	if inboxID == 0 {
		id, err := c.InboxID(ctx, projectID)
		if err != nil {
			return nil, err
		}
		inboxID = id
	}
	var forwards []Item
	path := fmt.Sprintf("buckets/%d/inboxes/%d/forwards.json", projectID, inboxID)
	if err := c.FetchAllInto(ctx, path, nil, &forwards); err != nil {
		return nil, err
	}
	return forwards, nil
}

// GetForward fetches one email forward with its full content.
func (c *Client) GetForward(ctx context.Context, projectID, forwardID int64) (Item, error) {
	var forward Item
	path := fmt.Sprintf("buckets/%d/inbox_forwards/%d.json", projectID, forwardID)
	if err := c.Get(ctx, path, nil, &forward); err != nil {
		return nil, err
	}
	return forward, nil
}

// GetInboxReplies lists the replies attached to a forward.
func (c *Client) GetInboxReplies(ctx context.Context, projectID, forwardID int64) ([]Item, error) {
	var replies []Item
	path := fmt.Sprintf("buckets/%d/inbox_forwards/%d/replies.json", projectID, forwardID)
	if err := c.FetchAllInto(ctx, path, nil, &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

// GetInboxReply fetches one reply on a forward.
func (c *Client) GetInboxReply(ctx context.Context, projectID, forwardID, replyID int64) (Item, error) {
	var reply Item
	path := fmt.Sprintf("buckets/%d/inbox_forwards/%d/replies/%d.json", projectID, forwardID, replyID)
	if err := c.Get(ctx, path, nil, &reply); err != nil {
		return nil, err
	}
	return reply, nil
}
