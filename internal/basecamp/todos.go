package basecamp

import (
	"context"
	"fmt"
)

// TodoParams carries the writable fields of a todo. Nil/zero fields are
// omitted from the request so updates only touch what the caller set.
type TodoParams struct {
	Content                 string  `json:"content,omitempty"`
	Description             string  `json:"description,omitempty"`
	AssigneeIDs             []int64 `json:"assignee_ids,omitempty"`
	CompletionSubscriberIDs []int64 `json:"completion_subscriber_ids,omitempty"`
	Notify                  bool    `json:"notify,omitempty"`
	DueOn                   string  `json:"due_on,omitempty"`
	StartsOn                string  `json:"starts_on,omitempty"`
}

// GetTodolists lists all todolists in a project. The todoset container is
// discovered from the project dock.
func (c *Client) GetTodolists(ctx context.Context, projectID int64) ([]Item, error) {
	todosetID, err := c.TodosetID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var lists []Item
	path := fmt.Sprintf("buckets/%d/todosets/%d/todolists.json", projectID, todosetID)
	if err := c.FetchAllInto(ctx, path, nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// GetTodolist fetches one todolist.
func (c *Client) GetTodolist(ctx context.Context, projectID, todolistID int64) (Item, error) {
	var list Item
	path := fmt.Sprintf("buckets/%d/todolists/%d.json", projectID, todolistID)
	if err := c.Get(ctx, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetTodos lists every todo in a todolist across all pages.
func (c *Client) GetTodos(ctx context.Context, projectID, todolistID int64) ([]Item, error) {
	var todos []Item
	path := fmt.Sprintf("buckets/%d/todolists/%d/todos.json", projectID, todolistID)
	if err := c.FetchAllInto(ctx, path, nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// GetTodo fetches one todo.
func (c *Client) GetTodo(ctx context.Context, projectID, todoID int64) (Item, error) {
	var todo Item
	path := fmt.Sprintf("buckets/%d/todos/%d.json", projectID, todoID)
	if err := c.Get(ctx, path, nil, &todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// CreateTodo adds a todo to a todolist. params.Content is required by the
// API.
func (c *Client) CreateTodo(ctx context.Context, projectID, todolistID int64, params TodoParams) (Item, error) {
	var todo Item
	path := fmt.Sprintf("buckets/%d/todolists/%d/todos.json", projectID, todolistID)
	if err := c.Post(ctx, path, params, &todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// UpdateTodo updates the set fields of a todo.
func (c *Client) UpdateTodo(ctx context.Context, projectID, todoID int64, params TodoParams) (Item, error) {
	var todo Item
	path := fmt.Sprintf("buckets/%d/todos/%d.json", projectID, todoID)
	if err := c.Put(ctx, path, params, &todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// CompleteTodo marks a todo done. The same endpoint completes cards and card
// steps, which share the todo recording type.
func (c *Client) CompleteTodo(ctx context.Context, projectID, todoID int64) error {
	path := fmt.Sprintf("buckets/%d/todos/%d/completion.json", projectID, todoID)
	return c.Post(ctx, path, nil, nil)
}

// UncompleteTodo reopens a completed todo.
func (c *Client) UncompleteTodo(ctx context.Context, projectID, todoID int64) error {
	path := fmt.Sprintf("buckets/%d/todos/%d/completion.json", projectID, todoID)
	return c.Delete(ctx, path)
}

// TrashRecording moves any recording (todo, document, forward, message, ...)
// to the trash. Basecamp has no hard delete for recordings.
func (c *Client) TrashRecording(ctx context.Context, projectID, recordingID int64) error {
	path := fmt.Sprintf("buckets/%d/recordings/%d/status/trashed.json", projectID, recordingID)
	return c.Put(ctx, path, nil, nil)
}
