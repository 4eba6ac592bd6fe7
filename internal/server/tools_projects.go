package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerProjectTools() {
	s.addTool(mcp.NewTool("get_projects",
		mcp.WithDescription("Get all Basecamp projects visible to the authorized user"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projects, err := s.client.GetProjects(ctx)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("projects", projects, request.GetBool("compact", false), "project"), nil
	})

	s.addTool(mcp.NewTool("get_project",
		mcp.WithDescription("Get details of a specific project"),
		idArg("project_id", "Project ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		project, err := s.client.GetProjectRaw(ctx, projectID)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("project", project), nil
	})

	s.addTool(mcp.NewTool("get_people",
		mcp.WithDescription("Get everyone on the Basecamp account"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		people, err := s.client.GetPeople(ctx)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("people", people, false, ""), nil
	})

	s.addTool(mcp.NewTool("search_basecamp",
		mcp.WithDescription("Search todos, todolists and messages, optionally scoped to one project"),
		strArg("query", "Search query"),
		optionalIDArg("project_id", "Optional project ID to limit search scope"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return errorResult(err), nil
		}

		var projectIDs []int64
		if id := optionalID(request, "project_id"); id != 0 {
			projectIDs = []int64{id}
		}

		outcome, err := s.searcher.SearchAll(ctx, projectIDs, query)
		if err != nil {
			return errorResult(err), nil
		}
		payload := map[string]any{
			"results": outcome.Results,
			"count":   len(outcome.Results),
		}
		if failures := outcome.FailureMessages(); failures != nil {
			payload["failed_projects"] = failures
		}
		return successResult(payload), nil
	})

	s.addTool(mcp.NewTool("global_search",
		mcp.WithDescription("Search across all projects, including project names"),
		strArg("query", "Search query"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return errorResult(err), nil
		}

		projects, err := s.searcher.SearchProjectNames(ctx, query)
		if err != nil {
			return errorResult(err), nil
		}
		outcome, err := s.searcher.SearchAll(ctx, nil, query)
		if err != nil {
			return errorResult(err), nil
		}

		payload := map[string]any{
			"projects": projects,
			"results":  outcome.Results,
			"count":    len(projects) + len(outcome.Results),
		}
		if failures := outcome.FailureMessages(); failures != nil {
			payload["failed_projects"] = failures
		}
		return successResult(payload), nil
	})

	s.addTool(mcp.NewTool("get_timeline",
		mcp.WithDescription("Get the account-wide activity timeline"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		events, err := s.client.GetTimeline(ctx)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("events", events, request.GetBool("compact", false), "event"), nil
	})

	s.addTool(mcp.NewTool("get_project_timeline",
		mcp.WithDescription("Get the activity timeline of one project"),
		idArg("project_id", "Project ID"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		events, err := s.client.GetProjectTimeline(ctx, projectID)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("events", events, request.GetBool("compact", false), "event"), nil
	})

	s.addTool(mcp.NewTool("get_person_timeline",
		mcp.WithDescription("Get activity created by a specific person"),
		idArg("person_id", "Person ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		personID, err := requireID(request, "person_id")
		if err != nil {
			return errorResult(err), nil
		}
		report, err := s.client.GetPersonTimeline(ctx, personID)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("timeline", report), nil
	})

	s.addTool(mcp.NewTool("get_todo_assignees",
		mcp.WithDescription("Get everyone who can have todos assigned to them"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		people, err := s.client.GetTodoAssignees(ctx)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("assignees", people, false, ""), nil
	})

	s.addTool(mcp.NewTool("get_person_todos",
		mcp.WithDescription("Get all active todos assigned to a person"),
		idArg("person_id", "Person ID"),
		optionalStrArg("group_by", "Group by 'bucket' (project) or 'date' (due date)"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		personID, err := requireID(request, "person_id")
		if err != nil {
			return errorResult(err), nil
		}
		report, err := s.client.GetPersonTodos(ctx, personID, request.GetString("group_by", "bucket"))
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("todos", report), nil
	})

	s.addTool(mcp.NewTool("get_overdue_todos",
		mcp.WithDescription("Get all overdue todos across projects, grouped by lateness"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, err := s.client.GetOverdueTodos(ctx)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("overdue", report), nil
	})

	s.addTool(mcp.NewTool("get_upcoming_schedule",
		mcp.WithDescription("Get schedule entries within a date window"),
		strArg("window_starts_on", "Start date (YYYY-MM-DD)"),
		strArg("window_ends_on", "End date (YYYY-MM-DD)"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start, err := request.RequireString("window_starts_on")
		if err != nil {
			return errorResult(err), nil
		}
		end, err := request.RequireString("window_ends_on")
		if err != nil {
			return errorResult(err), nil
		}
		report, err := s.client.GetUpcomingSchedule(ctx, start, end)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("schedule", report), nil
	})
}
