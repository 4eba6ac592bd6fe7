package basecamp

import (
	"context"
	"fmt"
)

// GetMessages lists all messages on a project's message board. Pass
// boardID 0 to discover the board from the project dock.
func (c *Client) GetMessages(ctx context.Context, projectID, boardID int64) ([]Item, error) {
	if boardID == 0 {
		id, err := c.MessageBoardID(ctx, projectID)
		if err != nil {
			return nil, err
		}
		boardID = id
	}
	var messages []Item
	path := fmt.Sprintf("buckets/%d/message_boards/%d/messages.json", projectID, boardID)
	if err := c.FetchAllInto(ctx, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// GetMessage fetches one message with its full content.
func (c *Client) GetMessage(ctx context.Context, projectID, messageID int64) (Item, error) {
	var msg Item
	path := fmt.Sprintf("buckets/%d/messages/%d.json", projectID, messageID)
	if err := c.Get(ctx, path, nil, &msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetCampfires lists the chat rooms on a project.
func (c *Client) GetCampfires(ctx context.Context, projectID int64) ([]Item, error) {
	var chats []Item
	path := fmt.Sprintf("buckets/%d/chats.json", projectID)
	if err := c.FetchAllInto(ctx, path, nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// GetCampfireLines lists the lines of a chat room, oldest pages first.
func (c *Client) GetCampfireLines(ctx context.Context, projectID, campfireID int64) ([]Item, error) {
	var lines []Item
	path := fmt.Sprintf("buckets/%d/chats/%d/lines.json", projectID, campfireID)
	if err := c.FetchAllInto(ctx, path, nil, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}
