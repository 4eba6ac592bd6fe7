package server

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"basecamp-mcp/internal/basecamp"
)

func (s *Server) registerResourceTools() {
	s.addTool(mcp.NewTool("get_documents",
		mcp.WithDescription("Get the documents in a vault"),
		idArg("project_id", "Project ID"),
		idArg("vault_id", "Vault ID"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		vaultID, err := requireID(request, "vault_id")
		if err != nil {
			return errorResult(err), nil
		}
		docs, err := s.client.GetDocuments(ctx, projectID, vaultID)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("documents", docs, request.GetBool("compact", false), "document"), nil
	})

	s.addTool(mcp.NewTool("get_document",
		mcp.WithDescription("Get a document with its full content"),
		idArg("project_id", "Project ID"),
		idArg("document_id", "Document ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		documentID, err := requireID(request, "document_id")
		if err != nil {
			return errorResult(err), nil
		}
		doc, err := s.client.GetDocument(ctx, projectID, documentID)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("document", doc), nil
	})

	s.addTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a document in a vault"),
		idArg("project_id", "Project ID"),
		idArg("vault_id", "Vault ID"),
		strArg("title", "Document title"),
		strArg("content", "Document content (HTML)"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		vaultID, err := requireID(request, "vault_id")
		if err != nil {
			return errorResult(err), nil
		}
		title, err := request.RequireString("title")
		if err != nil {
			return errorResult(err), nil
		}
		content, err := request.RequireString("content")
		if err != nil {
			return errorResult(err), nil
		}
		doc, err := s.client.CreateDocument(ctx, projectID, vaultID, title, content)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("document", doc), nil
	})

	s.addTool(mcp.NewTool("update_document",
		mcp.WithDescription("Update a document's title or content"),
		idArg("project_id", "Project ID"),
		idArg("document_id", "Document ID"),
		optionalStrArg("title", "New title"),
		optionalStrArg("content", "New content (HTML)"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		documentID, err := requireID(request, "document_id")
		if err != nil {
			return errorResult(err), nil
		}
		doc, err := s.client.UpdateDocument(ctx, projectID, documentID,
			request.GetString("title", ""), request.GetString("content", ""))
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("document", doc), nil
	})

	s.addTool(mcp.NewTool("trash_document",
		mcp.WithDescription("Move a document to the trash"),
		idArg("project_id", "Project ID"),
		idArg("document_id", "Document ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		documentID, err := requireID(request, "document_id")
		if err != nil {
			return errorResult(err), nil
		}
		if err := s.client.TrashRecording(ctx, projectID, documentID); err != nil {
			return errorResult(err), nil
		}
		return messageResult("Document %d moved to trash", documentID), nil
	})

	s.addTool(mcp.NewTool("get_uploads",
		mcp.WithDescription("Get the file uploads in a vault or project"),
		idArg("project_id", "Project ID"),
		optionalIDArg("vault_id", "Vault ID; omit for the whole project"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		uploads, err := s.client.GetUploads(ctx, projectID, optionalID(request, "vault_id"))
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("uploads", uploads, request.GetBool("compact", false), "upload"), nil
	})

	s.addTool(mcp.NewTool("get_upload",
		mcp.WithDescription("Get an upload's metadata"),
		idArg("project_id", "Project ID"),
		idArg("upload_id", "Upload ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		uploadID, err := requireID(request, "upload_id")
		if err != nil {
			return errorResult(err), nil
		}
		upload, err := s.client.GetUpload(ctx, projectID, uploadID)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("upload", upload), nil
	})

	s.addTool(mcp.NewTool("create_attachment",
		mcp.WithDescription("Upload a local file and get an attachable_sgid for referencing it"),
		strArg("file_path", "Path of the file to upload"),
		strArg("name", "File name to store"),
		optionalStrArg("content_type", "MIME type; defaults to application/octet-stream"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("file_path")
		if err != nil {
			return errorResult(err), nil
		}
		name, err := request.RequireString("name")
		if err != nil {
			return errorResult(err), nil
		}
		contentType := request.GetString("content_type", "application/octet-stream")

		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return errorResult(err), nil
		}
		defer f.Close()

		attachment, err := s.client.CreateAttachment(ctx, name, contentType, f)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("attachment", attachment), nil
	})

	s.addTool(mcp.NewTool("get_events",
		mcp.WithDescription("Get the change events of a recording"),
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
		events, err := s.client.GetEvents(ctx, projectID, recordingID)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("events", events, request.GetBool("compact", false), "event"), nil
	})

	s.addTool(mcp.NewTool("get_recordings",
		mcp.WithDescription("Get recordings of one type across projects (global activity feed)"),
		strArg("type", "Recording type: Comment, Document, Kanban::Card, Kanban::Step, Message, Question::Answer, Schedule::Entry, Todo, Todolist, Upload or Vault"),
		optionalStrArg("bucket", "Comma-separated project IDs to filter by"),
		optionalStrArg("status", "active, archived or trashed (default active)"),
		optionalStrArg("sort", "created_at or updated_at"),
		optionalStrArg("direction", "desc or asc"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		recType, err := request.RequireString("type")
		if err != nil {
			return errorResult(err), nil
		}
		recordings, err := s.client.GetRecordings(ctx, basecamp.RecordingsQuery{
			Type:      recType,
			Bucket:    request.GetString("bucket", ""),
			Status:    request.GetString("status", ""),
			Sort:      request.GetString("sort", ""),
			Direction: request.GetString("direction", ""),
		})
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("recordings", recordings, request.GetBool("compact", false), "recording"), nil
	})

	s.addTool(mcp.NewTool("archive_recording",
		mcp.WithDescription("Archive a recording (todo, message, document, ...)"),
		idArg("project_id", "Project ID"),
		idArg("recording_id", "Recording ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		recordingID, err := requireID(request, "recording_id")
		if err != nil {
			return errorResult(err), nil
		}
		if err := s.client.ArchiveRecording(ctx, projectID, recordingID); err != nil {
			return errorResult(err), nil
		}
		return messageResult("Recording %d archived", recordingID), nil
	})

	s.addTool(mcp.NewTool("unarchive_recording",
		mcp.WithDescription("Restore an archived recording to active"),
		idArg("project_id", "Project ID"),
		idArg("recording_id", "Recording ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		recordingID, err := requireID(request, "recording_id")
		if err != nil {
			return errorResult(err), nil
		}
		if err := s.client.UnarchiveRecording(ctx, projectID, recordingID); err != nil {
			return errorResult(err), nil
		}
		return messageResult("Recording %d unarchived", recordingID), nil
	})

	s.addTool(mcp.NewTool("get_webhooks",
		mcp.WithDescription("Get the webhooks configured on a project"),
		idArg("project_id", "Project ID"),
		compactArg(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		hooks, err := s.client.GetWebhooks(ctx, projectID)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("webhooks", hooks, request.GetBool("compact", false), "webhook"), nil
	})

	s.addTool(mcp.NewTool("create_webhook",
		mcp.WithDescription("Register a webhook on a project"),
		idArg("project_id", "Project ID"),
		strArg("payload_url", "HTTPS URL to deliver events to"),
		mcp.WithArray("types", mcp.Description("Recording types to subscribe to; all when omitted")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		payloadURL, err := request.RequireString("payload_url")
		if err != nil {
			return errorResult(err), nil
		}
		hook, err := s.client.CreateWebhook(ctx, projectID, payloadURL, optionalStringList(request, "types"))
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("webhook", hook), nil
	})

	s.addTool(mcp.NewTool("delete_webhook",
		mcp.WithDescription("Remove a webhook from a project"),
		idArg("project_id", "Project ID"),
		idArg("webhook_id", "Webhook ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		webhookID, err := requireID(request, "webhook_id")
		if err != nil {
			return errorResult(err), nil
		}
		if err := s.client.DeleteWebhook(ctx, projectID, webhookID); err != nil {
			return errorResult(err), nil
		}
		return messageResult("Webhook %d deleted", webhookID), nil
	})

	s.addTool(mcp.NewTool("get_schedule",
		mcp.WithDescription("Get the schedule of a project"),
		idArg("project_id", "Project ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		schedule, err := s.client.GetSchedule(ctx, projectID)
		if err != nil {
			return errorResult(err), nil
		}
		return itemResult("schedule", schedule), nil
	})

	s.addTool(mcp.NewTool("get_schedule_entries",
		mcp.WithDescription("Get the schedule entries of a project"),
		idArg("project_id", "Project ID"),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID, err := requireID(request, "project_id")
		if err != nil {
			return errorResult(err), nil
		}
		entries, err := s.client.GetScheduleEntries(ctx, projectID)
		if err != nil {
			return errorResult(err), nil
		}
		return listResult("entries", entries, false, ""), nil
	})
}
