package models

import (
	"encoding/json"
	"strings"
	"time"

	errs "twitterhistory/pkg/errors"
	"twitterhistory/pkg/twitter"
)

// Record is the normalized representation of one tweet. The upstream
// delivers loosely-typed items; everything downstream of NewRecord works
// with this type only.
type Record struct {
	ID        string    `json:"tweetId"`
	Time      time.Time `json:"time"`
	Text      string    `json:"text"`
	Hashtags  []string  `json:"hashtags"`
	IsRetweet bool      `json:"isRetweet"`
	Replies   int       `json:"replies"`
	Likes     int       `json:"likes"`

	// Raw carries every field of the source item verbatim so the persisted
	// run loses nothing the core does not interpret.
	Raw map[string]json.RawMessage `json:"raw,omitempty"`
}

// CollectionRun is the full, persisted result of one download invocation.
// Immutable once saved; plot and xl read it back unchanged.
type CollectionRun struct {
	Subject     string                     `json:"subject"`
	Pages       int                        `json:"pages"`
	CollectedAt time.Time                  `json:"collected_at"`
	Profile     map[string]json.RawMessage `json:"profile,omitempty"`
	Records     []Record                   `json:"history"`
}

// timeLayouts are the timestamp formats the upstream has been seen to emit.
// Layouts without a zone are taken as UTC.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NewRecord extracts a normalized Record from one timeline item. Extraction
// is total except for id and timestamp: an item missing either fails with a
// malformed-record error and is skipped by the collector, not fatal to the
// run. Missing hashtags yield an empty set.
func NewRecord(item twitter.Item) (Record, error) {
	id, ok := extractID(item)
	if !ok {
		return Record{}, errs.MalformedRecord("tweetId", "missing or not a string/number")
	}

	ts, err := extractTime(item)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:        id,
		Time:      ts,
		Text:      stringField(item, "text"),
		Hashtags:  extractHashtags(item),
		IsRetweet: boolField(item, "isRetweet"),
		Replies:   intField(item, "replies"),
		Likes:     intField(item, "likes"),
		Raw:       make(map[string]json.RawMessage, len(item)),
	}
	for k, v := range item {
		rec.Raw[k] = v
	}

	return rec, nil
}

func extractID(item twitter.Item) (string, bool) {
	for _, key := range []string{"tweetId", "id"} {
		raw, ok := item[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s, true
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil && n.String() != "" {
			return n.String(), true
		}
	}
	return "", false
}

func extractTime(item twitter.Item) (time.Time, error) {
	raw, ok := item["time"]
	if !ok {
		return time.Time{}, errs.MalformedRecord("time", "missing")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, errs.MalformedRecord("time", "not a string")
	}

	for _, layout := range timeLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, errs.MalformedRecord("time", "unrecognized timestamp format")
}

func extractHashtags(item twitter.Item) []string {
	raw, ok := item["entries"]
	if !ok {
		return []string{}
	}

	var entries struct {
		Hashtags []string `json:"hashtags"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return []string{}
	}

	tags := make([]string, 0, len(entries.Hashtags))
	for _, tag := range entries.Hashtags {
		tag = strings.TrimPrefix(tag, "#")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func stringField(item twitter.Item, key string) string {
	raw, ok := item[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func boolField(item twitter.Item, key string) bool {
	raw, ok := item[key]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

func intField(item twitter.Item, key string) int {
	raw, ok := item[key]
	if !ok {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	return n
}
