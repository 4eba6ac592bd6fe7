package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"basecamp-mcp/internal/basecamp"
)

func (s *Server) registerTodoTools() {
	s.addTool(mcp.NewTool("get_todolists",
		mcp.WithDescription("Get all todolists in a project"),
		idArg("project_id", "Project ID"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		lists, err := s.client.GetTodolists(ctx, projectID)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("todolists", lists, request.GetBool("compact", false), "todolist"), nil
	})

	s.addTool(mcp.NewTool("get_todolist",
		mcp.WithDescription("Get a single todolist"),
		idArg("project_id", "Project ID"),
		idArg("todolist_id", "Todolist ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		todolistID, err := requireID(request, "todolist_id")
		if err != nil {
			return errorResult(err), nil
		}
		list, err := s.client.GetTodolist(ctx, projectID, todolistID)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("todolist", list), nil
	})

	s.addTool(mcp.NewTool("get_todos",
		mcp.WithDescription("Get all todos in a todolist"),
		idArg("project_id", "Project ID"),
		idArg("todolist_id", "Todolist ID"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		todolistID, err := requireID(request, "todolist_id")
		if err != nil {
			return errorResult(err), nil
		}
		todos, err := s.client.GetTodos(ctx, projectID, todolistID)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("todos", todos, request.GetBool("compact", false), "todo"), nil
	})

	s.addTool(mcp.NewTool("get_todo",
		mcp.WithDescription("Get details of a specific todo"),
		idArg("project_id", "Project ID"),
		idArg("todo_id", "Todo ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		todoID, err := requireID(request, "todo_id")
		if err != nil {
			return errorResult(err), nil
		}
		todo, err := s.client.GetTodo(ctx, projectID, todoID)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("todo", todo), nil
	})

	s.addTool(mcp.NewTool("create_todo",
		mcp.WithDescription("Create a new todo in a todolist"),
		idArg("project_id", "Project ID"),
		idArg("todolist_id", "Todolist ID"),
		strArg("content", "The todo item's text"),
		optionalStrArg("description", "HTML description"),
		optionalStrArg("due_on", "Due date (YYYY-MM-DD)"),
		optionalStrArg("starts_on", "Start date (YYYY-MM-DD)"),
		mcp.WithArray("assignee_ids", mcp.Description("Person IDs to assign")),
		mcp.WithBoolean("notify", mcp.Description("Notify assignees")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		todolistID, err := requireID(request, "todolist_id")
		if err != nil {
			return errorResult(err), nil
		}
		content, err := request.RequireString("content")
		if err != nil {
			return errorResult(err), nil
		}

		todo, err := s.client.CreateTodo(ctx, projectID, todolistID, basecamp.TodoParams{
			Content:     content,
			Description: request.GetString("description", ""),
			DueOn:       request.GetString("due_on", ""),
			StartsOn:    request.GetString("starts_on", ""),
			AssigneeIDs: optionalIDList(request, "assignee_ids"),
			Notify:      request.GetBool("notify", false),
		})
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("todo", todo), nil
	})

	s.addTool(mcp.NewTool("update_todo",
		mcp.WithDescription("Update an existing todo"),
		idArg("project_id", "Project ID"),
		idArg("todo_id", "Todo ID"),
		optionalStrArg("content", "New todo text"),
		optionalStrArg("description", "New HTML description"),
		optionalStrArg("due_on", "New due date (YYYY-MM-DD)"),
		optionalStrArg("starts_on", "New start date (YYYY-MM-DD)"),
		mcp.WithArray("assignee_ids", mcp.Description("Person IDs to assign")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		todoID, err := requireID(request, "todo_id")
		if err != nil {
			return errorResult(err), nil
		}

		todo, err := s.client.UpdateTodo(ctx, projectID, todoID, basecamp.TodoParams{
			Content:     request.GetString("content", ""),
			Description: request.GetString("description", ""),
			DueOn:       request.GetString("due_on", ""),
			StartsOn:    request.GetString("starts_on", ""),
			AssigneeIDs: optionalIDList(request, "assignee_ids"),
		})
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("todo", todo), nil
	})

	s.addTool(mcp.NewTool("delete_todo",
		mcp.WithDescription("Move a todo to the trash"),
		idArg("project_id", "Project ID"),
		idArg("todo_id", "Todo ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		todoID, err := requireID(request, "todo_id")
		if err != nil {
			return errorResult(err), nil
		}
		if err := s.client.TrashRecording(ctx, projectID, todoID); err != nil {
			return errorResult(err), nil
		}
		return messageResult("Todo %d moved to trash", todoID), nil
	})

	s.addTool(mcp.NewTool("complete_todo",
		mcp.WithDescription("Mark a todo as completed"),
		idArg("project_id", "Project ID"),
		idArg("todo_id", "Todo ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		todoID, err := requireID(request, "todo_id")
		if err != nil {
			return errorResult(err), nil
		}
		if err := s.client.CompleteTodo(ctx, projectID, todoID); err != nil {
			return errorResult(err), nil
		}
		return messageResult("Todo %d completed", todoID), nil
	})

	s.addTool(mcp.NewTool("uncomplete_todo",
		mcp.WithDescription("Reopen a completed todo"),
		idArg("project_id", "Project ID"),
		idArg("todo_id", "Todo ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		todoID, err := requireID(request, "todo_id")
		if err != nil {
			return errorResult(err), nil
		}
		if err := s.client.UncompleteTodo(ctx, projectID, todoID); err != nil {
			return errorResult(err), nil
		}
		return messageResult("Todo %d reopened", todoID), nil
	})
}
