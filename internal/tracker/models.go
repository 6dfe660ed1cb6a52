package tracker

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexID normalizes identifiers that the wire format serializes as either a
// string or a number. Blank strings, booleans, and nulls normalize to the
// empty id.
type FlexID string

// UnmarshalJSON accepts string and number forms; anything else decodes to an
// empty id rather than failing the whole payload.
func (id *FlexID) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		*id = FlexID(strings.TrimSpace(v))
	case float64:
		*id = FlexID(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		*id = ""
	}
	return nil
}

func (id FlexID) String() string { return string(id) }

// Empty reports whether no usable identifier was present on the wire.
func (id FlexID) Empty() bool { return id == "" }

// FieldRef is a dynamic issue field (status, priority, resolution) that the
// server serializes either as a bare string or as a structured object. The
// accessors apply a fixed fallback order so callers never touch the wire
// shape directly.
type FieldRef struct {
	Text   string
	Object *FieldPayload
}

// FieldPayload is the structured form of a dynamic field reference.
type FieldPayload struct {
	ID      string                     `json:"id"`
	Key     string                     `json:"key"`
	Display json.RawMessage            `json:"display"`
	Name    json.RawMessage            `json:"name"`
	Extra   map[string]json.RawMessage `json:"-"`
}

func (f *FieldRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*f = FieldRef{Text: text}
		return nil
	}

	var payload FieldPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return err
	}
	var extra map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &extra); err == nil {
		for _, known := range []string{"id", "key", "display", "name"} {
			delete(extra, known)
		}
		if len(extra) > 0 {
			payload.Extra = extra
		}
	}
	*f = FieldRef{Object: &payload}
	return nil
}

// Key returns the stable identifier: key falling back to id for structured
// payloads, the bare text otherwise.
func (f FieldRef) Key() string {
	if f.Object == nil {
		return f.Text
	}
	if f.Object.Key != "" {
		return f.Object.Key
	}
	return f.Object.ID
}

// Display returns the human-readable value: display falling back to name for
// structured payloads, the bare text otherwise.
func (f FieldRef) Display() string {
	if f.Object == nil {
		return f.Text
	}
	if v := coerceDisplay(f.Object.Display); v != "" {
		return v
	}
	return coerceDisplay(f.Object.Name)
}

// coerceDisplay digs a display string out of the loose JSON shapes the
// server uses for names: bare strings, localized objects, arrays, numbers.
func coerceDisplay(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return coerceDisplayValue(value)
}

func coerceDisplayValue(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		for _, key := range []string{"display", "name", "value", "en", "ru"} {
			if nested, ok := v[key]; ok {
				if text := coerceDisplayValue(nested); text != "" {
					return text
				}
			}
		}
		for _, nested := range v {
			if text := coerceDisplayValue(nested); text != "" {
				return text
			}
		}
		return ""
	case []any:
		for _, nested := range v {
			if text := coerceDisplayValue(nested); text != "" {
				return text
			}
		}
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Issue mirrors the fixed field set requested by every issue fetch.
type Issue struct {
	Key         string          `json:"key"`
	Summary     string          `json:"summary"`
	Description string          `json:"description"`
	Status      *FieldRef       `json:"status"`
	Priority    *FieldRef       `json:"priority"`
	Spent       json.RawMessage `json:"spent"`
	TimeSpent   json.RawMessage `json:"timeSpent"`
}

// SpentSeconds resolves tracked time from whichever spent field the server
// populated, using the configured workday length for day/week units.
func (i Issue) SpentSeconds(workdayHours uint64) (uint64, bool) {
	if secs, ok := ParseDurationValue(i.Spent, workdayHours); ok {
		return secs, true
	}
	return ParseDurationValue(i.TimeSpent, workdayHours)
}

// UserProfile is the identity payload returned by the myself and users
// endpoints.
type UserProfile struct {
	Display   string `json:"display"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
	AvatarID  string `json:"avatarId"`
}

// Avatar returns the best available avatar reference from the profile.
func (u UserProfile) Avatar() string {
	if u.AvatarURL != "" {
		return u.AvatarURL
	}
	return u.AvatarID
}

// Author identifies the user attached to comments and worklog entries.
type Author struct {
	Display json.RawMessage `json:"display"`
	Login   string          `json:"login"`
	Email   string          `json:"email"`
}

// Name returns the best human-readable identity for the author, or empty
// when the payload carries none.
func (a *Author) Name() string {
	if a == nil {
		return ""
	}
	if text := coerceDisplay(a.Display); text != "" {
		return text
	}
	if a.Login != "" {
		return a.Login
	}
	return a.Email
}

// Comment is one issue discussion entry.
type Comment struct {
	ID        FlexID  `json:"id"`
	Text      string  `json:"text"`
	TextHTML  string  `json:"textHtml"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
	CreatedBy *Author `json:"createdBy"`
	UpdatedBy *Author `json:"updatedBy"`
}

// AttachmentMeta describes one issue attachment. The content and thumbnail
// URLs may be absolute or relative to the API host.
type AttachmentMeta struct {
	ID        FlexID `json:"id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	Thumbnail string `json:"thumbnail"`
	Mimetype  string `json:"mimetype"`
	MimeType  string `json:"mimeType"`
	Size      uint64 `json:"size"`
}

// ContentType returns whichever mimetype spelling the server populated.
func (a AttachmentMeta) ContentType() string {
	if a.Mimetype != "" {
		return a.Mimetype
	}
	return a.MimeType
}

// Transition is one available workflow transition for an issue.
type Transition struct {
	ID          string                 `json:"id"`
	Name        json.RawMessage        `json:"name"`
	Display     json.RawMessage        `json:"display"`
	Description string                 `json:"description"`
	To          *TransitionDestination `json:"to"`
	Status      *TransitionDestination `json:"status"`
}

// Label returns the transition's display text, falling back to its name.
func (t Transition) Label() string {
	if text := coerceDisplay(t.Display); text != "" {
		return text
	}
	return coerceDisplay(t.Name)
}

// Destination returns the target status, preferring the status field over
// the to field when both are present.
func (t Transition) Destination() *TransitionDestination {
	if t.Status != nil {
		return t.Status
	}
	return t.To
}

// TransitionDestination is the status a transition leads to.
type TransitionDestination struct {
	ID      string          `json:"id"`
	Key     string          `json:"key"`
	Display json.RawMessage `json:"display"`
	Name    json.RawMessage `json:"name"`
	Type    string          `json:"type"`
}

// StableKey returns key falling back to id, trimmed; empty when neither is
// usable.
func (d TransitionDestination) StableKey() string {
	if key := strings.TrimSpace(d.Key); key != "" {
		return key
	}
	return strings.TrimSpace(d.ID)
}

// DisplayName returns display falling back to name.
func (d TransitionDestination) DisplayName() string {
	if text := coerceDisplay(d.Display); text != "" {
		return text
	}
	return coerceDisplay(d.Name)
}

// WorklogEntry is one logged span of work against an issue.
type WorklogEntry struct {
	ID        FlexID        `json:"id"`
	Issue     *SimpleEntity `json:"issue"`
	Comment   string        `json:"comment"`
	CreatedBy *Author       `json:"createdBy"`
	CreatedAt string        `json:"createdAt"`
	Start     string        `json:"start"`
	Duration  string        `json:"duration"`
}

// SimpleEntity is the generic directory payload shared by queues, projects,
// statuses, and resolutions.
type SimpleEntity struct {
	ID      string          `json:"id"`
	Key     string          `json:"key"`
	Name    json.RawMessage `json:"name"`
	Display json.RawMessage `json:"display"`
}

// StableKey returns key falling back to id, trimmed; empty when neither is
// usable.
func (e SimpleEntity) StableKey() string {
	if key := strings.TrimSpace(e.Key); key != "" {
		return key
	}
	return strings.TrimSpace(e.ID)
}

// DisplayName returns display falling back to name, falling back to the
// stable key.
func (e SimpleEntity) DisplayName() string {
	if text := coerceDisplay(e.Display); text != "" {
		return text
	}
	if text := coerceDisplay(e.Name); text != "" {
		return text
	}
	return e.StableKey()
}

// ChecklistItem is one entry of an issue checklist.
type ChecklistItem struct {
	ID       FlexID             `json:"id"`
	Text     string             `json:"text"`
	TextHTML string             `json:"textHtml"`
	Checked  bool               `json:"checked"`
	Assignee *ChecklistAssignee `json:"assignee"`
	Deadline *ChecklistDeadline `json:"deadline"`
	ItemType string             `json:"checklistItemType"`
}

// ChecklistAssignee is the user a checklist item is assigned to.
type ChecklistAssignee struct {
	ID      FlexID `json:"id"`
	Display string `json:"display"`
	Login   string `json:"login"`
}

// ChecklistDeadline is the deadline metadata attached to a checklist item.
type ChecklistDeadline struct {
	Date         string `json:"date"`
	DeadlineType string `json:"deadlineType"`
	IsExceeded   bool   `json:"isExceeded"`
}

// ChecklistItemCreate is the request body for adding a checklist item.
type ChecklistItemCreate struct {
	Text     string                  `json:"text"`
	Checked  *bool                   `json:"checked,omitempty"`
	Assignee string                  `json:"assignee,omitempty"`
	Deadline *ChecklistDeadlineInput `json:"deadline,omitempty"`
}

// ChecklistItemUpdate is the request body for editing a checklist item.
// Absent fields are omitted from the payload, not sent as null.
type ChecklistItemUpdate struct {
	Text     string                  `json:"text,omitempty"`
	Checked  *bool                   `json:"checked,omitempty"`
	Assignee string                  `json:"assignee,omitempty"`
	Deadline *ChecklistDeadlineInput `json:"deadline,omitempty"`
}

// ChecklistDeadlineInput is the deadline payload for create/update requests.
type ChecklistDeadlineInput struct {
	Date         string `json:"date"`
	DeadlineType string `json:"deadlineType,omitempty"`
}
