package basecamp

// Compact projection of API resources. Full Basecamp payloads are large and
// mostly irrelevant to a tool-calling agent; compact mode keeps only the
// fields needed to identify and act on a record, cutting response size by
// roughly an order of magnitude.

// compactFields lists the fields kept per resource type in compact mode.
var compactFields = map[string][]string{
	"project":       {"id", "name", "description", "app_url"},
	"todo":          {"id", "title", "completed", "due_on", "app_url"},
	"todolist":      {"id", "title", "completed", "app_url"},
	"card":          {"id", "title", "completed", "due_on", "app_url"},
	"column":        {"id", "title", "cards_count"},
	"step":          {"id", "title", "completed", "due_on"},
	"message":       {"id", "subject", "created_at", "app_url"},
	"comment":       {"id", "created_at", "app_url"},
	"forward":       {"id", "subject", "created_at", "app_url"},
	"reply":         {"id", "created_at", "app_url"},
	"document":      {"id", "title", "created_at", "app_url"},
	"upload":        {"id", "title", "filename", "created_at", "app_url"},
	"campfire_line": {"id", "created_at"},
	"event":         {"id", "action", "created_at"},
	"recording":     {"id", "title", "type", "created_at", "app_url"},
	"webhook":       {"id", "payload_url", "active"},
	"card_table":    {"id", "title"},
}

// Resource types whose assignee names survive the projection.
var assigneeTypes = map[string]bool{"todo": true, "card": true, "step": true}

// Resource types whose creator name survives the projection.
var creatorTypes = map[string]bool{
	"message": true, "comment": true, "forward": true,
	"reply": true, "document": true, "upload": true,
}

// Resource types carrying free-form content, kept truncated.
var contentTypes = map[string]bool{"comment": true, "campfire_line": true}

const contentMaxLength = 200

func extractAssigneeNames(item map[string]any) []string {
	assignees, ok := item["assignees"].([]any)
	if !ok {
		return nil
	}
	var names []string
	for _, a := range assignees {
		if m, ok := a.(map[string]any); ok {
			if name, ok := m["name"].(string); ok {
				names = append(names, name)
			}
		}
	}
	return names
}

func extractCreatorName(item map[string]any) string {
	creator, ok := item["creator"].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := creator["name"].(string)
	return name
}

// CompactItem filters a single decoded API item down to the essential fields
// for resourceType. An unknown type yields an empty projection rather than
// leaking the full payload.
func CompactItem(item map[string]any, resourceType string) map[string]any {
	result := make(map[string]any)
	for _, field := range compactFields[resourceType] {
		if v, ok := item[field]; ok {
			result[field] = v
		}
	}

	if assigneeTypes[resourceType] {
		if names := extractAssigneeNames(item); len(names) > 0 {
			result["assignee_names"] = names
		}
	}
	if creatorTypes[resourceType] {
		if name := extractCreatorName(item); name != "" {
			result["creator_name"] = name
		}
	}
	if contentTypes[resourceType] {
		if content, ok := item["content"].(string); ok {
			if len(content) > contentMaxLength {
				content = content[:contentMaxLength] + "..."
			}
			result["content"] = content
		}
	}
	return result
}

// CompactList applies CompactItem to every element.
func CompactList(items []map[string]any, resourceType string) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, CompactItem(item, resourceType))
	}
	return out
}
