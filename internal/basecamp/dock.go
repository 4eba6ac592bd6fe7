package basecamp

import (
	"context"
	"fmt"
)

// Every Basecamp project carries a dock: the array of tools enabled on it
// (todoset, message board, inbox, card tables, ...). Container IDs for most
// collection endpoints are not addressable directly; they are discovered
// from the dock first.

// DockItem is one tool entry on a project's dock.
type DockItem struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Title   string `json:"title"`
	Enabled bool   `json:"enabled"`
}

// Project is the subset of a project payload the bridge navigates by.
type Project struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Dock        []DockItem `json:"dock"`
}

// GetProject fetches a project including its dock.
func (c *Client) GetProject(ctx context.Context, projectID int64) (*Project, error) {
	var p Project
	if err := c.Get(ctx, fmt.Sprintf("projects/%d.json", projectID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// dockItem finds the dock entry with the given tool name.
func (p *Project) dockItem(name string) (DockItem, error) {
	for _, item := range p.Dock {
		if item.Name == name {
			return item, nil
		}
	}
	return DockItem{}, fmt.Errorf("project %d has no %s in its dock", p.ID, name)
}

// TodosetID discovers the project's single todoset container.
func (c *Client) TodosetID(ctx context.Context, projectID int64) (int64, error) {
	return c.dockID(ctx, projectID, "todoset")
}

// MessageBoardID discovers the project's message board container.
func (c *Client) MessageBoardID(ctx context.Context, projectID int64) (int64, error) {
	return c.dockID(ctx, projectID, "message_board")
}

// InboxID discovers the project's email-forward inbox container.
func (c *Client) InboxID(ctx context.Context, projectID int64) (int64, error) {
	return c.dockID(ctx, projectID, "inbox")
}

// QuestionnaireID discovers the project's check-in questionnaire container.
func (c *Client) QuestionnaireID(ctx context.Context, projectID int64) (int64, error) {
	return c.dockID(ctx, projectID, "questionnaire")
}

func (c *Client) dockID(ctx context.Context, projectID int64, name string) (int64, error) {
	p, err := c.GetProject(ctx, projectID)
	if err != nil {
		return 0, err
	}
	item, err := p.dockItem(name)
	if err != nil {
		return 0, err
	}
	return item.ID, nil
}

// CardTables lists the card table tools on the project's dock. Projects may
// have several; older ones report the tool name as kanban_board.
func (c *Client) CardTables(ctx context.Context, projectID int64) ([]DockItem, error) {
	p, err := c.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var tables []DockItem
	for _, item := range p.Dock {
		if item.Name == "kanban_board" || item.Name == "card_table" {
			tables = append(tables, item)
		}
	}
	return tables, nil
}
