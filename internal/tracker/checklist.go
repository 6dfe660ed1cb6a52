package tracker

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
)

// Checklist lists the checklist items attached to an issue.
func (c *Client) Checklist(ctx context.Context, key string) ([]ChecklistItem, error) {
	var items []ChecklistItem
	path := "issues/" + url.PathEscape(strings.TrimSpace(key)) + "/checklistItems"
	if _, err := c.getJSON(ctx, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddChecklistItem appends an item to an issue's checklist, creating the
// checklist when none exists. The server's response shape varies between
// the full checklist and the created item, so the raw payload is returned.
func (c *Client) AddChecklistItem(ctx context.Context, key string, item ChecklistItemCreate) (json.RawMessage, error) {
	if strings.TrimSpace(item.Text) == "" {
		return nil, newError(KindOther, "checklist item text is empty")
	}
	path := "issues/" + url.PathEscape(strings.TrimSpace(key)) + "/checklistItems"
	var raw json.RawMessage
	if _, err := c.postJSON(ctx, path, nil, item, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// EditChecklistItem updates one checklist item in place.
func (c *Client) EditChecklistItem(ctx context.Context, key, itemID string, update ChecklistItemUpdate) (json.RawMessage, error) {
	id := strings.TrimSpace(itemID)
	if id == "" {
		return nil, newError(KindOther, "checklist item id is empty")
	}
	path := "issues/" + url.PathEscape(strings.TrimSpace(key)) + "/checklistItems/" + url.PathEscape(id)
	var raw json.RawMessage
	if _, err := c.patchJSON(ctx, path, update, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// DeleteChecklist removes an issue's entire checklist.
func (c *Client) DeleteChecklist(ctx context.Context, key string) error {
	path := "issues/" + url.PathEscape(strings.TrimSpace(key)) + "/checklistItems"
	return c.deleteEmpty(ctx, path)
}

// DeleteChecklistItem removes a single checklist item.
func (c *Client) DeleteChecklistItem(ctx context.Context, key, itemID string) error {
	id := strings.TrimSpace(itemID)
	if id == "" {
		return newError(KindOther, "checklist item id is empty")
	}
	path := "issues/" + url.PathEscape(strings.TrimSpace(key)) + "/checklistItems/" + url.PathEscape(id)
	return c.deleteEmpty(ctx, path)
}
