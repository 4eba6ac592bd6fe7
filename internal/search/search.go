package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"basecamp-mcp/internal/basecamp"
	"basecamp-mcp/pkg/logging"
)

// DefaultConcurrency bounds how many projects are searched at once.
const DefaultConcurrency = 5

// Result is one matching record.
type Result struct {
	RecordID    int64   `json:"record_id"`
	ProjectID   int64   `json:"project_id"`
	ProjectName string  `json:"project_name,omitempty"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	URL         string  `json:"app_url,omitempty"`
	Position    float64 `json:"position,omitempty"`
}

// Outcome is the merged result of a fan-out search. Failures maps project ID
// to the error that prevented that project from being searched; its results
// are simply absent. A failed project never discards another project's
// matches.
type Outcome struct {
	Results  []Result        `json:"results"`
	Failures map[int64]error `json:"-"`
}

// FailureMessages renders Failures for serialization.
func (o *Outcome) FailureMessages() map[int64]string {
	if len(o.Failures) == 0 {
		return nil
	}
	msgs := make(map[int64]string, len(o.Failures))
	for id, err := range o.Failures {
		msgs[id] = err.Error()
	}
	return msgs
}

// projectClient is the slice of the API client the searcher needs.
type projectClient interface {
	GetProjects(ctx context.Context) ([]basecamp.Item, error)
	GetTodolists(ctx context.Context, projectID int64) ([]basecamp.Item, error)
	GetTodos(ctx context.Context, projectID, todolistID int64) ([]basecamp.Item, error)
	GetMessages(ctx context.Context, projectID, boardID int64) ([]basecamp.Item, error)
}

// Searcher fans a query out across projects with bounded concurrency and
// merges the per-project matches deterministically.
type Searcher struct {
	client      projectClient
	concurrency int
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithConcurrency bounds the number of projects searched in parallel.
func WithConcurrency(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewSearcher returns a searcher over the given client.
func NewSearcher(client projectClient, opts ...Option) *Searcher {
	s := &Searcher{client: client, concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SearchAll searches the given projects concurrently for records matching
// query (case-insensitive substring over titles and content). A nil or empty
// project list searches every visible project.
//
// The search is best-effort across projects: each project either contributes
// its complete matches or an entry in Outcome.Failures. Results are merged
// in a deterministic order regardless of completion timing.
func (s *Searcher) SearchAll(ctx context.Context, projectIDs []int64, query string) (*Outcome, error) {
	projects, err := s.resolveProjects(ctx, projectIDs)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Failures: make(map[int64]error)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, project := range projects {
		g.Go(func() error {
			matches, err := s.searchProject(gctx, project, query)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logging.Warn("Search", "Project %d failed: %v", project.id, err)
				outcome.Failures[project.id] = err
				return nil
			}
			outcome.Results = append(outcome.Results, matches...)
			return nil
		})
	}
	// Per-project errors are collected, never returned, so Wait only
	// surfaces a cancelled context.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mergeResults(outcome)
	return outcome, nil
}

// SearchProjectNames matches the query against project names and
// descriptions only. Used by the global search to surface whole projects.
func (s *Searcher) SearchProjectNames(ctx context.Context, query string) ([]Result, error) {
	projects, err := s.client.GetProjects(ctx)
	if err != nil {
		return nil, err
	}
	var results []Result
	for _, p := range projects {
		if matches(p, query, "name", "description") {
			ref := projectRef{id: basecamp.ItemID(p)}
			ref.name, _ = p["name"].(string)
			results = append(results, toResult(p, ref, "project", "name"))
		}
	}
	return results, nil
}

type projectRef struct {
	id   int64
	name string
}

func (s *Searcher) resolveProjects(ctx context.Context, projectIDs []int64) ([]projectRef, error) {
	if len(projectIDs) > 0 {
		refs := make([]projectRef, 0, len(projectIDs))
		for _, id := range projectIDs {
			refs = append(refs, projectRef{id: id})
		}
		return refs, nil
	}

	projects, err := s.client.GetProjects(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]projectRef, 0, len(projects))
	for _, p := range projects {
		name, _ := p["name"].(string)
		refs = append(refs, projectRef{id: basecamp.ItemID(p), name: name})
	}
	return refs, nil
}

// searchProject scans one project's todolists, todos and messages. Any
// partial failure fails the whole project so its contribution is never a
// silently truncated subset.
func (s *Searcher) searchProject(ctx context.Context, project projectRef, query string) ([]Result, error) {
	var results []Result

	lists, err := s.client.GetTodolists(ctx, project.id)
	if err != nil {
		return nil, err
	}
	for _, list := range lists {
		if matches(list, query, "title", "name") {
			results = append(results, toResult(list, project, "todolist", "title"))
		}
		todos, err := s.client.GetTodos(ctx, project.id, basecamp.ItemID(list))
		if err != nil {
			return nil, err
		}
		for _, todo := range todos {
			if matches(todo, query, "title", "content", "description") {
				results = append(results, toResult(todo, project, "todo", "title", "content"))
			}
		}
	}

	messages, err := s.client.GetMessages(ctx, project.id, 0)
	if err != nil {
		return nil, err
	}
	for _, msg := range messages {
		if matches(msg, query, "subject", "content") {
			results = append(results, toResult(msg, project, "message", "subject"))
		}
	}

	return results, nil
}

// matches reports whether any of the named fields contains query,
// case-insensitively.
func matches(item basecamp.Item, query string, fields ...string) bool {
	q := strings.ToLower(query)
	for _, f := range fields {
		if v, ok := item[f].(string); ok && strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

func toResult(item basecamp.Item, project projectRef, recordType string, titleFields ...string) Result {
	r := Result{
		RecordID:    basecamp.ItemID(item),
		ProjectID:   project.id,
		ProjectName: project.name,
		Type:        recordType,
	}
	for _, f := range titleFields {
		if v, ok := item[f].(string); ok && v != "" {
			r.Title = v
			break
		}
	}
	if u, ok := item["app_url"].(string); ok {
		r.URL = u
	}
	if p, ok := item["position"].(float64); ok {
		r.Position = p
	}
	return r
}

// mergeResults imposes the deterministic merged order: position descending,
// then project ID ascending, then record ID ascending. Duplicate record IDs
// (a record surfacing through several paths) keep only their first
// occurrence in that order.
func mergeResults(o *Outcome) {
	sort.SliceStable(o.Results, func(i, j int) bool {
		a, b := o.Results[i], o.Results[j]
		if a.Position != b.Position {
			return a.Position > b.Position
		}
		if a.ProjectID != b.ProjectID {
			return a.ProjectID < b.ProjectID
		}
		return a.RecordID < b.RecordID
	})

	seen := make(map[int64]bool, len(o.Results))
	deduped := o.Results[:0]
	for _, r := range o.Results {
		if seen[r.RecordID] {
			continue
		}
		seen[r.RecordID] = true
		deduped = append(deduped, r)
	}
	o.Results = deduped
}
