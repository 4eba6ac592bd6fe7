package basecamp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// RecordingsQuery filters the account-wide recordings feed.
type RecordingsQuery struct {
	// Type is required: Comment, Document, Kanban::Card, Kanban::Step,
	// Message, Question::Answer, Schedule::Entry, Todo, Todolist, Upload or
	// Vault.
	Type string
	// Bucket optionally narrows to comma-separated project IDs.
	Bucket string
	// Status filters by active, archived or trashed. Empty means active.
	Status string
	// Sort is created_at or updated_at; Direction is desc or asc.
	Sort      string
	Direction string
}

func (q RecordingsQuery) values() url.Values {
	v := url.Values{"type": {q.Type}}
	if q.Bucket != "" {
		v.Set("bucket", q.Bucket)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Direction != "" {
		v.Set("direction", q.Direction)
	}
	return v
}

// GetRecordings walks the account-wide recordings feed filtered by q. This
// is the global activity view across projects.
func (c *Client) GetRecordings(ctx context.Context, q RecordingsQuery) ([]Item, error) {
	var recordings []Item
	if err := c.FetchAllInto(ctx, "projects/recordings.json", q.values(), &recordings); err != nil {
		return nil, err
	}
	return recordings, nil
}

// GetEvents lists the change events of one recording.
func (c *Client) GetEvents(ctx context.Context, projectID, recordingID int64) ([]Item, error) {
	var events []Item
	path := fmt.Sprintf("buckets/%d/recordings/%d/events.json", projectID, recordingID)
	if err := c.FetchAllInto(ctx, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetTimeline walks the account-wide progress report.
func (c *Client) GetTimeline(ctx context.Context) ([]Item, error) {
	var events []Item
	if err := c.FetchAllInto(ctx, "reports/progress.json", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetProjectTimeline walks one project's timeline.
func (c *Client) GetProjectTimeline(ctx context.Context, projectID int64) ([]Item, error) {
	var events []Item
	path := fmt.Sprintf("projects/%d/timeline.json", projectID)
	if err := c.FetchAllInto(ctx, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetPersonTimeline fetches the progress report for one person. The payload
// is an object ({person, events}), not a list, so it is not paginated here.
func (c *Client) GetPersonTimeline(ctx context.Context, personID int64) (Item, error) {
	var report Item
	path := fmt.Sprintf("reports/users/progress/%d.json", personID)
	if err := c.Get(ctx, path, nil, &report); err != nil {
		return nil, err
	}
	return report, nil
}

// GetTodoAssignees lists everyone who can have todos assigned to them.
func (c *Client) GetTodoAssignees(ctx context.Context) ([]Item, error) {
	var people []Item
	if err := c.FetchAllInto(ctx, "reports/todos/assigned.json", nil, &people); err != nil {
		return nil, err
	}
	return people, nil
}

// GetPersonTodos fetches all active todos assigned to a person, grouped by
// bucket or date.
func (c *Client) GetPersonTodos(ctx context.Context, personID int64, groupBy string) (Item, error) {
	if groupBy == "" {
		groupBy = "bucket"
	}
	var report Item
	path := fmt.Sprintf("reports/todos/assigned/%d.json", personID)
	if err := c.Get(ctx, path, url.Values{"group_by": {groupBy}}, &report); err != nil {
		return nil, err
	}
	return report, nil
}

// GetOverdueTodos fetches all overdue todos across projects, grouped by
// lateness.
func (c *Client) GetOverdueTodos(ctx context.Context) (Item, error) {
	var report Item
	if err := c.Get(ctx, "reports/todos/overdue.json", nil, &report); err != nil {
		return nil, err
	}
	return report, nil
}

// GetUpcomingSchedule fetches schedule entries within a date window. Dates
// are YYYY-MM-DD.
func (c *Client) GetUpcomingSchedule(ctx context.Context, windowStartsOn, windowEndsOn string) (Item, error) {
	var report Item
	query := url.Values{
		"window_starts_on": {windowStartsOn},
		"window_ends_on":   {windowEndsOn},
	}
	if err := c.Get(ctx, "reports/schedules/upcoming.json", query, &report); err != nil {
		return nil, err
	}
	return report, nil
}

// ArchiveRecording moves a recording to the archive.
func (c *Client) ArchiveRecording(ctx context.Context, projectID, recordingID int64) error {
	path := fmt.Sprintf("buckets/%d/recordings/%d/status/archived.json", projectID, recordingID)
	return c.Put(ctx, path, nil, nil)
}

// UnarchiveRecording restores an archived recording.
func (c *Client) UnarchiveRecording(ctx context.Context, projectID, recordingID int64) error {
	path := fmt.Sprintf("buckets/%d/recordings/%d/status/active.json", projectID, recordingID)
	return c.Put(ctx, path, nil, nil)
}

// GetWebhooks lists the webhooks configured on a project.
func (c *Client) GetWebhooks(ctx context.Context, projectID int64) ([]Item, error) {
	var hooks []Item
	path := fmt.Sprintf("buckets/%d/webhooks.json", projectID)
	if err := c.FetchAllInto(ctx, path, nil, &hooks); err != nil {
		return nil, err
	}
	return hooks, nil
}

// CreateWebhook registers a webhook on a project. types defaults to all
// recording types when empty.
func (c *Client) CreateWebhook(ctx context.Context, projectID int64, payloadURL string, types []string) (Item, error) {
	payload := map[string]any{"payload_url": payloadURL}
	if len(types) > 0 {
		payload["types"] = types
	}
	var hook Item
	path := fmt.Sprintf("buckets/%d/webhooks.json", projectID)
	if err := c.Post(ctx, path, payload, &hook); err != nil {
		return nil, err
	}
	return hook, nil
}

// DeleteWebhook removes a webhook.
func (c *Client) DeleteWebhook(ctx context.Context, projectID, webhookID int64) error {
	path := fmt.Sprintf("buckets/%d/webhooks/%d.json", projectID, webhookID)
	return c.Delete(ctx, path)
}

// ItemID extracts the numeric id of a decoded item. JSON numbers decode as
// float64; IDs fit in int64 exactly up to 2^53 which covers Basecamp IDs.
func ItemID(item Item) int64 {
	switch v := item["id"].(type) {
	case float64:
		return int64(v)
	case string:
		id, _ := strconv.ParseInt(v, 10, 64)
		return id
	default:
		return 0
	}
}
