package basecamp

import (
	"context"
	"fmt"
)

// CardParams carries the writable fields of a card.
type CardParams struct {
	Title       string  `json:"title,omitempty"`
	Content     string  `json:"content,omitempty"`
	DueOn       string  `json:"due_on,omitempty"`
	AssigneeIDs []int64 `json:"assignee_ids,omitempty"`
	Notify      bool    `json:"notify,omitempty"`
}

// StepParams carries the writable fields of a card step.
type StepParams struct {
	Title       string  `json:"title,omitempty"`
	DueOn       string  `json:"due_on,omitempty"`
	AssigneeIDs []int64 `json:"assignee_ids,omitempty"`
}

// GetCardTable fetches a card table with its columns.
func (c *Client) GetCardTable(ctx context.Context, projectID, cardTableID int64) (Item, error) {
	var table Item
	path := fmt.Sprintf("buckets/%d/card_tables/%d.json", projectID, cardTableID)
	if err := c.Get(ctx, path, nil, &table); err != nil {
		return nil, err
	}
	return table, nil
}

// GetColumns returns the column list of a card table.
func (c *Client) GetColumns(ctx context.Context, projectID, cardTableID int64) ([]Item, error) {
	table, err := c.GetCardTable(ctx, projectID, cardTableID)
	if err != nil {
		return nil, err
	}
	lists, ok := table["lists"].([]any)
	if !ok {
		return nil, nil
	}
	columns := make([]Item, 0, len(lists))
	for _, l := range lists {
		if m, ok := l.(Item); ok {
			columns = append(columns, m)
		}
	}
	return columns, nil
}

// GetColumn fetches one column.
func (c *Client) GetColumn(ctx context.Context, projectID, columnID int64) (Item, error) {
	var column Item
	path := fmt.Sprintf("buckets/%d/card_tables/columns/%d.json", projectID, columnID)
	if err := c.Get(ctx, path, nil, &column); err != nil {
		return nil, err
	}
	return column, nil
}

// CreateColumn adds a column to a card table.
func (c *Client) CreateColumn(ctx context.Context, projectID, cardTableID int64, title string) (Item, error) {
	var column Item
	path := fmt.Sprintf("buckets/%d/card_tables/%d/columns.json", projectID, cardTableID)
	if err := c.Post(ctx, path, map[string]string{"title": title}, &column); err != nil {
		return nil, err
	}
	return column, nil
}

// UpdateColumn renames a column.
func (c *Client) UpdateColumn(ctx context.Context, projectID, columnID int64, title string) (Item, error) {
	var column Item
	path := fmt.Sprintf("buckets/%d/card_tables/columns/%d.json", projectID, columnID)
	if err := c.Put(ctx, path, map[string]string{"title": title}, &column); err != nil {
		return nil, err
	}
	return column, nil
}

// MoveColumn repositions a column within its card table. position is
// 1-based.
func (c *Client) MoveColumn(ctx context.Context, projectID, cardTableID, columnID int64, position int) error {
	path := fmt.Sprintf("buckets/%d/card_tables/%d/moves.json", projectID, cardTableID)
	payload := map[string]any{"source_id": columnID, "position": position}
	return c.Post(ctx, path, payload, nil)
}

// UpdateColumnColor sets a column's color.
func (c *Client) UpdateColumnColor(ctx context.Context, projectID, columnID int64, color string) (Item, error) {
	var column Item
	path := fmt.Sprintf("buckets/%d/card_tables/columns/%d/color.json", projectID, columnID)
	if err := c.Patch(ctx, path, map[string]string{"color": color}, &column); err != nil {
		return nil, err
	}
	return column, nil
}

// PutColumnOnHold freezes a column.
func (c *Client) PutColumnOnHold(ctx context.Context, projectID, columnID int64) error {
	path := fmt.Sprintf("buckets/%d/card_tables/columns/%d/on_hold.json", projectID, columnID)
	return c.Post(ctx, path, nil, nil)
}

// RemoveColumnHold unfreezes a column.
func (c *Client) RemoveColumnHold(ctx context.Context, projectID, columnID int64) error {
	path := fmt.Sprintf("buckets/%d/card_tables/columns/%d/on_hold.json", projectID, columnID)
	return c.Delete(ctx, path)
}

// WatchColumn subscribes the current user to a column's changes.
func (c *Client) WatchColumn(ctx context.Context, projectID, columnID int64) error {
	path := fmt.Sprintf("buckets/%d/card_tables/lists/%d/subscription.json", projectID, columnID)
	return c.Post(ctx, path, nil, nil)
}

// UnwatchColumn removes the column subscription.
func (c *Client) UnwatchColumn(ctx context.Context, projectID, columnID int64) error {
	path := fmt.Sprintf("buckets/%d/card_tables/lists/%d/subscription.json", projectID, columnID)
	return c.Delete(ctx, path)
}

// GetCards lists the cards in a column across all pages.
func (c *Client) GetCards(ctx context.Context, projectID, columnID int64) ([]Item, error) {
	var cards []Item
	path := fmt.Sprintf("buckets/%d/card_tables/lists/%d/cards.json", projectID, columnID)
	if err := c.FetchAllInto(ctx, path, nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// GetCard fetches one card.
func (c *Client) GetCard(ctx context.Context, projectID, cardID int64) (Item, error) {
	var card Item
	path := fmt.Sprintf("buckets/%d/card_tables/cards/%d.json", projectID, cardID)
	if err := c.Get(ctx, path, nil, &card); err != nil {
		return nil, err
	}
	return card, nil
}

// CreateCard adds a card to a column.
func (c *Client) CreateCard(ctx context.Context, projectID, columnID int64, params CardParams) (Item, error) {
	var card Item
	path := fmt.Sprintf("buckets/%d/card_tables/lists/%d/cards.json", projectID, columnID)
	if err := c.Post(ctx, path, params, &card); err != nil {
		return nil, err
	}
	return card, nil
}

// UpdateCard updates the set fields of a card.
func (c *Client) UpdateCard(ctx context.Context, projectID, cardID int64, params CardParams) (Item, error) {
	var card Item
	path := fmt.Sprintf("buckets/%d/card_tables/cards/%d.json", projectID, cardID)
	if err := c.Put(ctx, path, params, &card); err != nil {
		return nil, err
	}
	return card, nil
}

// MoveCard moves a card to another column.
func (c *Client) MoveCard(ctx context.Context, projectID, cardID, columnID int64) error {
	path := fmt.Sprintf("buckets/%d/card_tables/cards/%d/moves.json", projectID, cardID)
	return c.Post(ctx, path, map[string]int64{"column_id": columnID}, nil)
}

// GetCardSteps returns a card's steps (sub-tasks).
func (c *Client) GetCardSteps(ctx context.Context, projectID, cardID int64) ([]Item, error) {
	card, err := c.GetCard(ctx, projectID, cardID)
	if err != nil {
		return nil, err
	}
	raw, ok := card["steps"].([]any)
	if !ok {
		return nil, nil
	}
	steps := make([]Item, 0, len(raw))
	for _, s := range raw {
		if m, ok := s.(Item); ok {
			steps = append(steps, m)
		}
	}
	return steps, nil
}

// CreateCardStep adds a step to a card.
func (c *Client) CreateCardStep(ctx context.Context, projectID, cardID int64, params StepParams) (Item, error) {
	var step Item
	path := fmt.Sprintf("buckets/%d/card_tables/cards/%d/steps.json", projectID, cardID)
	if err := c.Post(ctx, path, params, &step); err != nil {
		return nil, err
	}
	return step, nil
}

// GetCardStep fetches one step.
func (c *Client) GetCardStep(ctx context.Context, projectID, stepID int64) (Item, error) {
	var step Item
	path := fmt.Sprintf("buckets/%d/card_tables/steps/%d.json", projectID, stepID)
	if err := c.Get(ctx, path, nil, &step); err != nil {
		return nil, err
	}
	return step, nil
}

// UpdateCardStep updates the set fields of a step.
func (c *Client) UpdateCardStep(ctx context.Context, projectID, stepID int64, params StepParams) (Item, error) {
	var step Item
	path := fmt.Sprintf("buckets/%d/card_tables/steps/%d.json", projectID, stepID)
	if err := c.Put(ctx, path, params, &step); err != nil {
		return nil, err
	}
	return step, nil
}

// DeleteCardStep removes a step from its card.
func (c *Client) DeleteCardStep(ctx context.Context, projectID, stepID int64) error {
	path := fmt.Sprintf("buckets/%d/card_tables/steps/%d.json", projectID, stepID)
	return c.Delete(ctx, path)
}
