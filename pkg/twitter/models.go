package twitter

import "encoding/json"

// Item is one loosely-typed timeline entry as delivered by the upstream
// endpoint. Field extraction into the normalized record happens at the
// models boundary; nothing else interprets these maps.
type Item map[string]json.RawMessage

// Page is one bounded batch of timeline items together with the opaque
// cursor for the next batch
type Page struct {
	Items      []Item
	NextCursor string
	HasMore    bool
}

// timelineResponse is the wire shape of one timeline page
type timelineResponse struct {
	Tweets []Item         `json:"tweets"`
	Cursor timelineCursor `json:"cursor"`
	More   bool           `json:"has_more_items"`
}

type timelineCursor struct {
	Bottom string `json:"bottom"`
}

// profileResponse is the wire shape of the profile endpoint. All fields are
// passed through untouched so the persisted run keeps whatever the upstream
// returned.
type profileResponse map[string]json.RawMessage
