package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"basecamp-mcp/internal/basecamp"
)

func (s *Server) registerCardTools() {
	s.addTool(mcp.NewTool("get_card_tables",
		mcp.WithDescription("Get the card tables on a project's dock"),
		idArg("project_id", "Project ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		tables, err := s.client.CardTables(ctx, projectID)
		if err != nil {
			return errorResult(err), nil
		}
		items := make([]basecamp.Item, 0, len(tables))
		for _, t := range tables {
			items = append(items, basecamp.Item{"id": t.ID, "title": t.Title, "name": t.Name})
		}
		return listResult("card_tables", items, false, ""), nil
	})

	s.addTool(mcp.NewTool("get_card_table",
		mcp.WithDescription("Get a card table with its columns"),
		idArg("project_id", "Project ID"),
		idArg("card_table_id", "Card table ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		tableID, err := requireID(request, "card_table_id")
		if err != nil {
			return errorResult(err), nil
		}
		table, err := s.client.GetCardTable(ctx, projectID, tableID)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("card_table", table), nil
	})

	s.addTool(mcp.NewTool("get_columns",
		mcp.WithDescription("Get the columns of a card table"),
		idArg("project_id", "Project ID"),
		idArg("card_table_id", "Card table ID"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		tableID, err := requireID(request, "card_table_id")
		if err != nil {
			return errorResult(err), nil
		}
		columns, err := s.client.GetColumns(ctx, projectID, tableID)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("columns", columns, request.GetBool("compact", false), "column"), nil
	})

	s.addTool(mcp.NewTool("get_column",
		mcp.WithDescription("Get details of a column"),
		idArg("project_id", "Project ID"),
		idArg("column_id", "Column ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		columnID, err := requireID(request, "column_id")
		if err != nil {
			return errorResult(err), nil
		}
		column, err := s.client.GetColumn(ctx, projectID, columnID)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("column", column), nil
	})

	s.addTool(mcp.NewTool("create_column",
		mcp.WithDescription("Add a column to a card table"),
		idArg("project_id", "Project ID"),
		idArg("card_table_id", "Card table ID"),
		strArg("title", "Column title"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		tableID, err := requireID(request, "card_table_id")
		if err != nil {
			return errorResult(err), nil
		}
		title, err := request.RequireString("title")
		if err != nil {
			return errorResult(err), nil
		}
		column, err := s.client.CreateColumn(ctx, projectID, tableID, title)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("column", column), nil
	})

	s.addTool(mcp.NewTool("update_column",
		mcp.WithDescription("Rename a column"),
		idArg("project_id", "Project ID"),
		idArg("column_id", "Column ID"),
		strArg("title", "New column title"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		columnID, err := requireID(request, "column_id")
		if err != nil {
			return errorResult(err), nil
		}
		title, err := request.RequireString("title")
		if err != nil {
			return errorResult(err), nil
		}
		column, err := s.client.UpdateColumn(ctx, projectID, columnID, title)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("column", column), nil
	})

	s.addTool(mcp.NewTool("move_column",
		mcp.WithDescription("Reposition a column within its card table"),
		idArg("project_id", "Project ID"),
		idArg("card_table_id", "Card table ID"),
		idArg("column_id", "Column ID"),
		mcp.WithNumber("position", mcp.Required(), mcp.Description("Target position (1-based)")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		tableID, err := requireID(request, "card_table_id")
		if err != nil {
			return errorResult(err), nil
		}
		columnID, err := requireID(request, "column_id")
		if err != nil {
			return errorResult(err), nil
		}
		position := request.GetInt("position", 0)
		if position < 1 {
			return mcp.NewToolResultError("position must be 1 or greater"), nil
		}
		if err := s.client.MoveColumn(ctx, projectID, tableID, columnID, position); err != nil {
			return errorResult(err), nil
		}
		return messageResult("Column %d moved to position %d", columnID, position), nil
	})

	s.addTool(mcp.NewTool("update_column_color",
		mcp.WithDescription("Set a column's color"),
		idArg("project_id", "Project ID"),
		idArg("column_id", "Column ID"),
		strArg("color", "Color name"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		columnID, err := requireID(request, "column_id")
		if err != nil {
			return errorResult(err), nil
		}
		color, err := request.RequireString("color")
		if err != nil {
			return errorResult(err), nil
		}
		column, err := s.client.UpdateColumnColor(ctx, projectID, columnID, color)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("column", column), nil
	})

	s.addTool(mcp.NewTool("put_column_on_hold",
		mcp.WithDescription("Freeze a column"),
		idArg("project_id", "Project ID"),
		idArg("column_id", "Column ID"),
	), s.columnActionHandler(func(ctx context.Context, projectID, columnID int64) error {
		return s.client.PutColumnOnHold(ctx, projectID, columnID)
	}, "Column %d put on hold"))

	s.addTool(mcp.NewTool("remove_column_hold",
		mcp.WithDescription("Unfreeze a column"),
		idArg("project_id", "Project ID"),
		idArg("column_id", "Column ID"),
	), s.columnActionHandler(func(ctx context.Context, projectID, columnID int64) error {
		return s.client.RemoveColumnHold(ctx, projectID, columnID)
	}, "Hold removed from column %d"))

	s.addTool(mcp.NewTool("watch_column",
		mcp.WithDescription("Subscribe to changes of a column"),
		idArg("project_id", "Project ID"),
		idArg("column_id", "Column ID"),
	), s.columnActionHandler(func(ctx context.Context, projectID, columnID int64) error {
		return s.client.WatchColumn(ctx, projectID, columnID)
	}, "Watching column %d"))

	s.addTool(mcp.NewTool("unwatch_column",
		mcp.WithDescription("Unsubscribe from changes of a column"),
		idArg("project_id", "Project ID"),
		idArg("column_id", "Column ID"),
	), s.columnActionHandler(func(ctx context.Context, projectID, columnID int64) error {
		return s.client.UnwatchColumn(ctx, projectID, columnID)
	}, "Stopped watching column %d"))

	s.addTool(mcp.NewTool("get_cards",
		mcp.WithDescription("Get the cards in a column"),
		idArg("project_id", "Project ID"),
		idArg("column_id", "Column ID"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		columnID, err := requireID(request, "column_id")
		if err != nil {
			return errorResult(err), nil
		}
		cards, err := s.client.GetCards(ctx, projectID, columnID)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("cards", cards, request.GetBool("compact", false), "card"), nil
	})

	s.addTool(mcp.NewTool("get_card",
		mcp.WithDescription("Get details of a card"),
		idArg("project_id", "Project ID"),
		idArg("card_id", "Card ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		cardID, err := requireID(request, "card_id")
		if err != nil {
			return errorResult(err), nil
		}
		card, err := s.client.GetCard(ctx, projectID, cardID)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("card", card), nil
	})

	s.addTool(mcp.NewTool("create_card",
		mcp.WithDescription("Add a card to a column"),
		idArg("project_id", "Project ID"),
		idArg("column_id", "Column ID"),
		strArg("title", "Card title"),
		optionalStrArg("content", "Card description (HTML)"),
		optionalStrArg("due_on", "Due date (YYYY-MM-DD)"),
		mcp.WithBoolean("notify", mcp.Description("Notify assignees")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		columnID, err := requireID(request, "column_id")
		if err != nil {
			return errorResult(err), nil
		}
		title, err := request.RequireString("title")
		if err != nil {
			return errorResult(err), nil
		}
		card, err := s.client.CreateCard(ctx, projectID, columnID, basecamp.CardParams{
			Title:   title,
			Content: request.GetString("content", ""),
			DueOn:   request.GetString("due_on", ""),
			Notify:  request.GetBool("notify", false),
		})
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("card", card), nil
	})

	s.addTool(mcp.NewTool("update_card",
		mcp.WithDescription("Update an existing card"),
		idArg("project_id", "Project ID"),
		idArg("card_id", "Card ID"),
		optionalStrArg("title", "New card title"),
		optionalStrArg("content", "New description (HTML)"),
		optionalStrArg("due_on", "New due date (YYYY-MM-DD)"),
		mcp.WithArray("assignee_ids", mcp.Description("Person IDs to assign")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		cardID, err := requireID(request, "card_id")
		if err != nil {
			return errorResult(err), nil
		}
		card, err := s.client.UpdateCard(ctx, projectID, cardID, basecamp.CardParams{
			Title:       request.GetString("title", ""),
			Content:     request.GetString("content", ""),
			DueOn:       request.GetString("due_on", ""),
			AssigneeIDs: optionalIDList(request, "assignee_ids"),
		})
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("card", card), nil
	})

	s.addTool(mcp.NewTool("move_card",
		mcp.WithDescription("Move a card to another column"),
		idArg("project_id", "Project ID"),
		idArg("card_id", "Card ID"),
		idArg("column_id", "Target column ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		cardID, err := requireID(request, "card_id")
		if err != nil {
			return errorResult(err), nil
		}
		columnID, err := requireID(request, "column_id")
		if err != nil {
			return errorResult(err), nil
		}
		if err := s.client.MoveCard(ctx, projectID, cardID, columnID); err != nil {
			return errorResult(err), nil
		}
		return messageResult("Card %d moved to column %d", cardID, columnID), nil
	})

	s.addTool(mcp.NewTool("complete_card",
		mcp.WithDescription("Mark a card as done"),
		idArg("project_id", "Project ID"),
		idArg("card_id", "Card ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		cardID, err := requireID(request, "card_id")
		if err != nil {
			return errorResult(err), nil
		}
		if err := s.client.CompleteTodo(ctx, projectID, cardID); err != nil {
			return errorResult(err), nil
		}
		return messageResult("Card %d completed", cardID), nil
	})

	s.addTool(mcp.NewTool("uncomplete_card",
		mcp.WithDescription("Reopen a completed card"),
		idArg("project_id", "Project ID"),
		idArg("card_id", "Card ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		cardID, err := requireID(request, "card_id")
		if err != nil {
			return errorResult(err), nil
		}
		if err := s.client.UncompleteTodo(ctx, projectID, cardID); err != nil {
			return errorResult(err), nil
		}
		return messageResult("Card %d reopened", cardID), nil
	})

	s.registerStepTools()
}

func (s *Server) registerStepTools() {
	s.addTool(mcp.NewTool("get_card_steps",
		mcp.WithDescription("Get the steps (sub-tasks) of a card"),
		idArg("project_id", "Project ID"),
		idArg("card_id", "Card ID"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		cardID, err := requireID(request, "card_id")
		if err != nil {
			return errorResult(err), nil
		}
		steps, err := s.client.GetCardSteps(ctx, projectID, cardID)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("steps", steps, request.GetBool("compact", false), "step"), nil
	})

	s.addTool(mcp.NewTool("create_card_step",
		mcp.WithDescription("Add a step to a card"),
		idArg("project_id", "Project ID"),
		idArg("card_id", "Card ID"),
		strArg("title", "Step title"),
		optionalStrArg("due_on", "Due date (YYYY-MM-DD)"),
		mcp.WithArray("assignee_ids", mcp.Description("Person IDs to assign")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		cardID, err := requireID(request, "card_id")
		if err != nil {
			return errorResult(err), nil
		}
		title, err := request.RequireString("title")
		if err != nil {
			return errorResult(err), nil
		}
		step, err := s.client.CreateCardStep(ctx, projectID, cardID, basecamp.StepParams{
			Title:       title,
			DueOn:       request.GetString("due_on", ""),
			AssigneeIDs: optionalIDList(request, "assignee_ids"),
		})
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("step", step), nil
	})

	s.addTool(mcp.NewTool("get_card_step",
		mcp.WithDescription("Get details of a card step"),
		idArg("project_id", "Project ID"),
		idArg("step_id", "Step ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		stepID, err := requireID(request, "step_id")
		if err != nil {
			return errorResult(err), nil
		}
		step, err := s.client.GetCardStep(ctx, projectID, stepID)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("step", step), nil
	})

	s.addTool(mcp.NewTool("update_card_step",
		mcp.WithDescription("Update a card step"),
		idArg("project_id", "Project ID"),
		idArg("step_id", "Step ID"),
		optionalStrArg("title", "New step title"),
		optionalStrArg("due_on", "New due date (YYYY-MM-DD)"),
		mcp.WithArray("assignee_ids", mcp.Description("Person IDs to assign")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		stepID, err := requireID(request, "step_id")
		if err != nil {
			return errorResult(err), nil
		}
		step, err := s.client.UpdateCardStep(ctx, projectID, stepID, basecamp.StepParams{
			Title:       request.GetString("title", ""),
			DueOn:       request.GetString("due_on", ""),
			AssigneeIDs: optionalIDList(request, "assignee_ids"),
		})
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("step", step), nil
	})

	s.addTool(mcp.NewTool("delete_card_step",
		mcp.WithDescription("Remove a step from its card"),
		idArg("project_id", "Project ID"),
		idArg("step_id", "Step ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		stepID, err := requireID(request, "step_id")
		if err != nil {
			return errorResult(err), nil
		}
		if err := s.client.DeleteCardStep(ctx, projectID, stepID); err != nil {
			return errorResult(err), nil
		}
		return messageResult("Step %d deleted", stepID), nil
	})

	s.addTool(mcp.NewTool("complete_card_step",
		mcp.WithDescription("Mark a card step as done"),
		idArg("project_id", "Project ID"),
		idArg("step_id", "Step ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		stepID, err := requireID(request, "step_id")
		if err != nil {
			return errorResult(err), nil
		}
		if err := s.client.CompleteTodo(ctx, projectID, stepID); err != nil {
			return errorResult(err), nil
		}
		return messageResult("Step %d completed", stepID), nil
	})

	s.addTool(mcp.NewTool("uncomplete_card_step",
		mcp.WithDescription("Reopen a completed card step"),
		idArg("project_id", "Project ID"),
		idArg("step_id", "Step ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		stepID, err := requireID(request, "step_id")
		if err != nil {
			return errorResult(err), nil
		}
		if err := s.client.UncompleteTodo(ctx, projectID, stepID); err != nil {
			return errorResult(err), nil
		}
		return messageResult("Step %d reopened", stepID), nil
	})
}

// columnActionHandler wraps the four column toggle endpoints that differ
// only in the client call and the success message.
func (s *Server) columnActionHandler(action func(ctx context.Context, projectID, columnID int64) error, format string) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		columnID, err := requireID(request, "column_id")
		if err != nil {
			return errorResult(err), nil
		}
		if err := action(ctx, projectID, columnID); err != nil {
			return errorResult(err), nil
		}
		return messageResult(format, columnID), nil
	}
}
