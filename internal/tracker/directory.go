package tracker

import (
	"context"
	"net/url"
	"strconv"
)

const (
	directoryPageSize = 200
	// directoryPageLimit bounds the number of pages fetched per listing so
	// a pathological directory cannot stall the UI behind the rate limiter.
	directoryPageLimit = 10
)

// listPages walks a page-numbered collection endpoint until a short page,
// an empty page, or the page ceiling.
func listPages[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var result []T
	for page := 1; page <= directoryPageLimit; page++ {
		query := url.Values{}
		query.Set("perPage", strconv.Itoa(directoryPageSize))
		query.Set("page", strconv.Itoa(page))

		var chunk []T
		if _, err := c.getJSONQuery(ctx, path, query, &chunk); err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			break
		}
		result = append(result, chunk...)
		if len(chunk) < directoryPageSize {
			break
		}
	}
	return result, nil
}

// ListAllQueues lists every queue visible to the authenticated user.
func (c *Client) ListAllQueues(ctx context.Context) ([]SimpleEntity, error) {
	return listPages[SimpleEntity](ctx, c, "queues")
}

// ListAllProjects lists every project visible to the authenticated user.
func (c *Client) ListAllProjects(ctx context.Context) ([]SimpleEntity, error) {
	return listPages[SimpleEntity](ctx, c, "projects")
}

// ListAllUsers lists the organization's user directory.
func (c *Client) ListAllUsers(ctx context.Context) ([]UserProfile, error) {
	return listPages[UserProfile](ctx, c, "users")
}
