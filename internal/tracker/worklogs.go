package tracker

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

const (
	// WorklogPageSize is the cursor chunk size for issue worklog listing.
	WorklogPageSize = 100
	// WorklogMaxEntries caps how many worklog entries a single listing
	// collects before truncating. Issues with deeper histories are rare
	// and the tail is rarely useful interactively.
	WorklogMaxEntries = 500
)

type worklogCreateRequest struct {
	Start    string `json:"start"`
	Duration string `json:"duration"`
	Comment  string `json:"comment,omitempty"`
}

// LogWork records a span of work against an issue. start is an RFC 3339
// timestamp and duration an ISO 8601 duration string.
func (c *Client) LogWork(ctx context.Context, key, start, duration, comment string) error {
	if strings.TrimSpace(start) == "" {
		return newError(KindOther, "worklog start is empty")
	}
	if strings.TrimSpace(duration) == "" {
		return newError(KindOther, "worklog duration is empty")
	}
	payload := worklogCreateRequest{
		Start:    strings.TrimSpace(start),
		Duration: strings.TrimSpace(duration),
		Comment:  strings.TrimSpace(comment),
	}
	path := "issues/" + url.PathEscape(strings.TrimSpace(key)) + "/worklog"
	_, err := c.postJSON(ctx, path, nil, payload, nil)
	return err
}

// IssueWorklogs lists worklog entries for one issue using id-cursor
// pagination. The listing stops on an empty chunk, a short chunk, a missing
// cursor id, or once WorklogMaxEntries entries are collected.
func (c *Client) IssueWorklogs(ctx context.Context, key string) ([]WorklogEntry, error) {
	path := "issues/" + url.PathEscape(strings.TrimSpace(key)) + "/worklog"
	var result []WorklogEntry
	cursor := ""

	for {
		query := url.Values{}
		query.Set("perPage", strconv.Itoa(WorklogPageSize))
		if cursor != "" {
			query.Set("id", cursor)
		}

		var chunk []WorklogEntry
		if _, err := c.getJSONQuery(ctx, path, query, &chunk); err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			break
		}

		lastID := chunk[len(chunk)-1].ID.String()
		result = append(result, chunk...)

		if len(result) >= WorklogMaxEntries {
			result = result[:WorklogMaxEntries]
			break
		}
		if len(chunk) < WorklogPageSize {
			break
		}
		if lastID == "" {
			break
		}
		cursor = lastID
	}
	return result, nil
}

type worklogCreatedAtRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

type worklogSearchRequest struct {
	CreatedBy string                 `json:"createdBy,omitempty"`
	CreatedAt *worklogCreatedAtRange `json:"createdAt,omitempty"`
}

// WorklogsByParams searches worklogs across issues by creator and creation
// time range. All constraints are optional; blank values are ignored, and
// the createdAt range is sent only when at least one bound is present.
func (c *Client) WorklogsByParams(ctx context.Context, createdBy, createdFrom, createdTo string) ([]WorklogEntry, error) {
	payload := worklogSearchRequest{
		CreatedBy: strings.TrimSpace(createdBy),
	}
	from := strings.TrimSpace(createdFrom)
	to := strings.TrimSpace(createdTo)
	if from != "" || to != "" {
		payload.CreatedAt = &worklogCreatedAtRange{From: from, To: to}
	}

	var entries []WorklogEntry
	if _, err := c.postJSON(ctx, "worklog/_search", nil, payload, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
