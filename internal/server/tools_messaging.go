package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerMessagingTools() {
	s.addTool(mcp.NewTool("get_messages",
		mcp.WithDescription("Get all messages on a project's message board"),
		idArg("project_id", "Project ID"),
		optionalIDArg("message_board_id", "Message board ID; discovered from the project when omitted"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		messages, err := s.client.GetMessages(ctx, projectID, optionalID(request, "message_board_id"))
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("messages", messages, request.GetBool("compact", false), "message"), nil
	})

	s.addTool(mcp.NewTool("get_message",
		mcp.WithDescription("Get a message with its full content"),
		idArg("project_id", "Project ID"),
		idArg("message_id", "Message ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		messageID, err := requireID(request, "message_id")
		if err != nil {
			return errorResult(err), nil
		}
		msg, err := s.client.GetMessage(ctx, projectID, messageID)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("message", msg), nil
	})

	s.addTool(mcp.NewTool("get_campfires",
		mcp.WithDescription("Get the chat rooms of a project"),
		idArg("project_id", "Project ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		chats, err := s.client.GetCampfires(ctx, projectID)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("campfires", chats, false, ""), nil
	})

	s.addTool(mcp.NewTool("get_campfire_lines",
		mcp.WithDescription("Get the chat lines of a campfire"),
		idArg("project_id", "Project ID"),
		idArg("campfire_id", "Campfire ID"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		campfireID, err := requireID(request, "campfire_id")
		if err != nil {
			return errorResult(err), nil
		}
		lines, err := s.client.GetCampfireLines(ctx, projectID, campfireID)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("lines", lines, request.GetBool("compact", false), "campfire_line"), nil
	})

	s.addTool(mcp.NewTool("get_comments",
		mcp.WithDescription("Get all comments on a recording (todo, message, document, ...)"),
		idArg("project_id", "Project ID"),
		idArg("recording_id", "Recording ID"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		recordingID, err := requireID(request, "recording_id")
		if err != nil {
			return errorResult(err), nil
		}
		comments, err := s.client.GetComments(ctx, projectID, recordingID)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("comments", comments, request.GetBool("compact", false), "comment"), nil
	})

	s.addTool(mcp.NewTool("create_comment",
		mcp.WithDescription("Post a comment on a recording"),
		idArg("project_id", "Project ID"),
		idArg("recording_id", "Recording ID"),
		strArg("content", "Comment content (HTML)"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		recordingID, err := requireID(request, "recording_id")
		if err != nil {
			return errorResult(err), nil
		}
		content, err := request.RequireString("content")
		if err != nil {
			return errorResult(err), nil
		}
		comment, err := s.client.CreateComment(ctx, projectID, recordingID, content)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("comment", comment), nil
	})

	s.addTool(mcp.NewTool("update_comment",
		mcp.WithDescription("Replace a comment's content"),
		idArg("project_id", "Project ID"),
		idArg("comment_id", "Comment ID"),
		strArg("content", "New comment content (HTML)"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		commentID, err := requireID(request, "comment_id")
		if err != nil {
			return errorResult(err), nil
		}
		content, err := request.RequireString("content")
		if err != nil {
			return errorResult(err), nil
		}
		comment, err := s.client.UpdateComment(ctx, projectID, commentID, content)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("comment", comment), nil
	})

	s.addTool(mcp.NewTool("get_comment",
		mcp.WithDescription("Get a single comment"),
		idArg("project_id", "Project ID"),
		idArg("comment_id", "Comment ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		commentID, err := requireID(request, "comment_id")
		if err != nil {
			return errorResult(err), nil
		}
		comment, err := s.client.GetComment(ctx, projectID, commentID)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("comment", comment), nil
	})

	s.addTool(mcp.NewTool("delete_comment",
		mcp.WithDescription("Move a comment to the trash"),
		idArg("project_id", "Project ID"),
		idArg("comment_id", "Comment ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		commentID, err := requireID(request, "comment_id")
		if err != nil {
			return errorResult(err), nil
		}
		if err := s.client.DeleteComment(ctx, projectID, commentID); err != nil {
			return errorResult(err), nil
		}
		return messageResult("Comment %d moved to trash", commentID), nil
	})

	s.addTool(mcp.NewTool("get_forwards",
		mcp.WithDescription("Get the email forwards in a project's inbox"),
		idArg("project_id", "Project ID"),
		optionalIDArg("inbox_id", "Inbox ID; discovered from the project when omitted"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		forwards, err := s.client.GetForwards(ctx, projectID, optionalID(request, "inbox_id"))
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("forwards", forwards, request.GetBool("compact", false), "forward"), nil
	})

	s.addTool(mcp.NewTool("get_forward",
		mcp.WithDescription("Get an email forward with its full content"),
		idArg("project_id", "Project ID"),
		idArg("forward_id", "Forward ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		forwardID, err := requireID(request, "forward_id")
		if err != nil {
			return errorResult(err), nil
		}
		forward, err := s.client.GetForward(ctx, projectID, forwardID)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("forward", forward), nil
	})

	s.addTool(mcp.NewTool("get_inbox_replies",
		mcp.WithDescription("Get the replies attached to an email forward"),
		idArg("project_id", "Project ID"),
		idArg("forward_id", "Forward ID"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		forwardID, err := requireID(request, "forward_id")
		if err != nil {
			return errorResult(err), nil
		}
		replies, err := s.client.GetInboxReplies(ctx, projectID, forwardID)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("replies", replies, request.GetBool("compact", false), "reply"), nil
	})

	s.addTool(mcp.NewTool("get_inbox_reply",
		mcp.WithDescription("Get a specific reply on an email forward"),
		idArg("project_id", "Project ID"),
		idArg("forward_id", "Forward ID"),
		idArg("reply_id", "Reply ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		forwardID, err := requireID(request, "forward_id")
		if err != nil {
			return errorResult(err), nil
		}
		replyID, err := requireID(request, "reply_id")
		if err != nil {
			return errorResult(err), nil
		}
		reply, err := s.client.GetInboxReply(ctx, projectID, forwardID, replyID)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("reply", reply), nil
	})

	s.addTool(mcp.NewTool("trash_forward",
		mcp.WithDescription("Move an email forward to the trash"),
		idArg("project_id", "Project ID"),
		idArg("forward_id", "Forward ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		forwardID, err := requireID(request, "forward_id")
		if err != nil {
			return errorResult(err), nil
		}
		if err := s.client.TrashRecording(ctx, projectID, forwardID); err != nil {
			return errorResult(err), nil
		}
		return messageResult("Forward %d moved to trash", forwardID), nil
	})

	s.addTool(mcp.NewTool("get_daily_check_ins",
		mcp.WithDescription("Get the check-in questions of a project"),
		idArg("project_id", "Project ID"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		questions, err := s.client.GetDailyCheckIns(ctx, projectID)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("questions", questions, false, ""), nil
	})

	s.addTool(mcp.NewTool("get_question_answers",
		mcp.WithDescription("Get the answers recorded for a check-in question"),
		idArg("project_id", "Project ID"),
		idArg("question_id", "Question ID"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		questionID, err := requireID(request, "question_id")
		if err != nil {
			return errorResult(err), nil
		}
		answers, err := s.client.GetQuestionAnswers(ctx, projectID, questionID)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("answers", answers, false, ""), nil
	})
}
