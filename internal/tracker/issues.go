package tracker

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// issueSummaryFields is the fixed field list requested on every search so
// list rows render without a second fetch per issue.
const issueSummaryFields = "key,summary,description,status,priority,spent,timeSpent"

const (
	searchPageSizeDefault = 100
	searchPageSizeMax     = 500
	scrollPageSizeMax     = 1000
)

// SearchParams selects issues either by query language expression or by a
// structured filter. When both are empty the server-side default applies.
type SearchParams struct {
	Query  string
	Filter map[string]any
}

type searchRequest struct {
	Query  string         `json:"query,omitempty"`
	Filter map[string]any `json:"filter,omitempty"`
}

func (p SearchParams) body() searchRequest {
	return searchRequest{
		Query:  strings.TrimSpace(p.Query),
		Filter: p.Filter,
	}
}

// ScrollType selects the scroll flavor for deep search pagination.
type ScrollType string

const (
	ScrollSorted   ScrollType = "sorted"
	ScrollUnsorted ScrollType = "unsorted"
)

// ScrollOptions configures one scroll step. A zero ScrollID starts a new
// scroll context; subsequent calls pass the id returned by the previous
// page.
type ScrollOptions struct {
	ScrollID  string
	PerScroll int
	Type      ScrollType
	TTLMillis int
}

// ScrollPage is one page of a scroll iteration. TotalCount is -1 when the
// server did not report a total.
type ScrollPage[T any] struct {
	Items       []T
	ScrollID    string
	ScrollToken string
	TotalCount  int64
}

// HasMore reports whether the server handed back a continuation id.
func (p ScrollPage[T]) HasMore() bool { return p.ScrollID != "" }

// Myself returns the profile of the authenticated user. This doubles as the
// cheapest credential check the API offers.
func (c *Client) Myself(ctx context.Context) (*UserProfile, error) {
	var profile UserProfile
	if _, err := c.getJSON(ctx, "myself", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Issue fetches one issue by key with the summary field set.
func (c *Client) Issue(ctx context.Context, key string) (*Issue, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, newError(KindOther, "issue key is empty")
	}
	query := url.Values{}
	query.Set("fields", issueSummaryFields)
	var issue Issue
	if _, err := c.getJSONQuery(ctx, "issues/"+url.PathEscape(trimmed), query, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// SearchIssues runs a single-page search of the first page. perPage
// defaults to 100 and is clamped to [1, 500]. Scroll search is the path
// for walking deeper result sets.
func (c *Client) SearchIssues(ctx context.Context, params SearchParams, perPage int) ([]Issue, error) {
	if perPage <= 0 {
		perPage = searchPageSizeDefault
	}
	if perPage > searchPageSizeMax {
		perPage = searchPageSizeMax
	}
	query := url.Values{}
	query.Set("fields", issueSummaryFields)
	query.Set("perPage", strconv.Itoa(perPage))
	query.Set("page", "1")

	var issues []Issue
	if _, err := c.postJSON(ctx, "issues/_search", query, params.body(), &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// SearchIssuesScroll runs one step of a scroll search. Pass an empty
// ScrollID to open a new scroll context; feed each page's ScrollID into the
// next call until HasMore reports false.
func (c *Client) SearchIssuesScroll(ctx context.Context, params SearchParams, opts ScrollOptions) (ScrollPage[Issue], error) {
	scrollType := opts.Type
	if scrollType == "" {
		scrollType = ScrollUnsorted
	}

	query := url.Values{}
	query.Set("fields", issueSummaryFields)
	if id := strings.TrimSpace(opts.ScrollID); id != "" {
		query.Set("scrollId", id)
	} else {
		perScroll := opts.PerScroll
		if perScroll <= 0 {
			perScroll = searchPageSizeDefault
		}
		if perScroll > scrollPageSizeMax {
			perScroll = scrollPageSizeMax
		}
		query.Set("scrollType", string(scrollType))
		query.Set("perScroll", strconv.Itoa(perScroll))
	}
	if opts.TTLMillis > 0 {
		query.Set("scrollTTLMillis", strconv.Itoa(opts.TTLMillis))
	}

	var issues []Issue
	headers, err := c.postJSON(ctx, "issues/_search", query, params.body(), &issues)
	if err != nil {
		return ScrollPage[Issue]{}, err
	}

	page := ScrollPage[Issue]{
		Items:       issues,
		ScrollID:    headers.Get("X-Scroll-Id"),
		ScrollToken: headers.Get("X-Scroll-Token"),
		TotalCount:  -1,
	}
	if raw := headers.Get("X-Total-Count"); raw != "" {
		if total, err := strconv.ParseInt(raw, 10, 64); err == nil {
			page.TotalCount = total
		}
	}
	return page, nil
}

// ClearScrollContext releases a server-side scroll context early. Contexts
// expire on their own, so callers usually treat failures here as advisory.
func (c *Client) ClearScrollContext(ctx context.Context, scrollID string) error {
	id := strings.TrimSpace(scrollID)
	if id == "" {
		return nil
	}
	payload := map[string]string{"scrollId": id}
	_, err := c.postJSON(ctx, "system/search/scroll/_clear", nil, payload, nil)
	return err
}

// IssueComments lists all comments on an issue.
func (c *Client) IssueComments(ctx context.Context, key string) ([]Comment, error) {
	var comments []Comment
	if _, err := c.getJSON(ctx, "issues/"+url.PathEscape(strings.TrimSpace(key))+"/comments", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a new comment to an issue and returns the created entry.
func (c *Client) AddComment(ctx context.Context, key, text string) (*Comment, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, newError(KindOther, "comment text is empty")
	}
	payload := map[string]string{"text": trimmed}
	var comment Comment
	if _, err := c.postJSON(ctx, "issues/"+url.PathEscape(strings.TrimSpace(key))+"/comments", nil, payload, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// IssueAttachments lists attachment metadata for an issue.
func (c *Client) IssueAttachments(ctx context.Context, key string) ([]AttachmentMeta, error) {
	var attachments []AttachmentMeta
	if _, err := c.getJSON(ctx, "issues/"+url.PathEscape(strings.TrimSpace(key))+"/attachments", &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

// Statuses lists all workflow statuses defined for the organization.
func (c *Client) Statuses(ctx context.Context) ([]SimpleEntity, error) {
	var statuses []SimpleEntity
	if _, err := c.getJSON(ctx, "statuses", &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// Resolutions lists all resolutions defined for the organization.
func (c *Client) Resolutions(ctx context.Context) ([]SimpleEntity, error) {
	var resolutions []SimpleEntity
	if _, err := c.getJSON(ctx, "resolutions", &resolutions); err != nil {
		return nil, err
	}
	return resolutions, nil
}

// Transitions lists the workflow transitions currently available on an
// issue.
func (c *Client) Transitions(ctx context.Context, key string) ([]Transition, error) {
	var transitions []Transition
	if _, err := c.getJSON(ctx, "issues/"+url.PathEscape(strings.TrimSpace(key))+"/transitions", &transitions); err != nil {
		return nil, err
	}
	return transitions, nil
}

// IssueUpdate carries the editable summary fields. Nil fields are omitted
// from the request entirely.
type IssueUpdate struct {
	Summary     *string `json:"summary,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateIssueFields patches an issue's summary and/or description and
// returns the updated issue.
func (c *Client) UpdateIssueFields(ctx context.Context, key string, update IssueUpdate) (*Issue, error) {
	if update.Summary == nil && update.Description == nil {
		return nil, newError(KindOther, "no fields to update")
	}
	var issue Issue
	if _, err := c.patchJSON(ctx, "issues/"+url.PathEscape(strings.TrimSpace(key)), update, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// ExecuteTransition moves an issue through a workflow transition, optionally
// attaching a comment and resolution.
func (c *Client) ExecuteTransition(ctx context.Context, key, transitionID, comment, resolution string) error {
	id := strings.TrimSpace(transitionID)
	if id == "" {
		return newError(KindOther, "transition id is empty")
	}
	payload := map[string]string{}
	if text := strings.TrimSpace(comment); text != "" {
		payload["comment"] = text
	}
	if res := strings.TrimSpace(resolution); res != "" {
		payload["resolution"] = res
	}
	path := fmt.Sprintf("issues/%s/transitions/%s/_execute",
		url.PathEscape(strings.TrimSpace(key)), url.PathEscape(id))
	_, err := c.postJSON(ctx, path, nil, payload, nil)
	return err
}
