package collector

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"twitterhistory/pkg/twitter"
)

// fakeSource replays a scripted sequence of pages and counts fetches
type fakeSource struct {
	pages   []*twitter.Page
	err     error // returned after the scripted pages run out
	fetches int
	cursors []string
}

func (f *fakeSource) NextPage(subject, cursor string) (*twitter.Page, error) {
	f.cursors = append(f.cursors, cursor)
	idx := f.fetches
	f.fetches++
	if idx >= len(f.pages) {
		if f.err != nil {
			return nil, f.err
		}
		return &twitter.Page{HasMore: false}, nil
	}
	return f.pages[idx], nil
}

func tweet(id, ts string) twitter.Item {
	return twitter.Item{
		"tweetId": json.RawMessage(fmt.Sprintf("%q", id)),
		"time":    json.RawMessage(fmt.Sprintf("%q", ts)),
	}
}

func page(more bool, cursor string, items ...twitter.Item) *twitter.Page {
	return &twitter.Page{Items: items, NextCursor: cursor, HasMore: more}
}

func TestCollectDeduplicatesAcrossPages(t *testing.T) {
	src := &fakeSource{pages: []*twitter.Page{
		page(true, "c1",
			tweet("3", "2020-04-03T10:00:00Z"),
			tweet("2", "2020-04-02T10:00:00Z"),
		),
		page(false, "",
			tweet("2", "2020-04-02T10:00:00Z"), // overlaps previous page
			tweet("1", "2020-04-01T10:00:00Z"),
		),
	}}

	run, err := New(src, Options{PageLimit: 2}, nil).Collect("elonmusk")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if len(run.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(run.Records))
	}
	// First-seen order preserved
	for i, want := range []string{"3", "2", "1"} {
		if run.Records[i].ID != want {
			t.Errorf("record %d: expected id %s, got %s", i, want, run.Records[i].ID)
		}
	}
}

func TestCollectIssuesExactlyPageLimitFetches(t *testing.T) {
	src := &fakeSource{pages: []*twitter.Page{
		page(true, "c1"), // empty page, more available
		page(true, "c2", tweet("1", "2020-04-01T10:00:00Z")),
		page(true, "c3"), // empty again
		page(true, "c4", tweet("2", "2020-04-02T10:00:00Z")),
		page(true, "c5"),
	}}

	run, err := New(src, Options{PageLimit: 4}, nil).Collect("elonmusk")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	// Empty pages do not cut a run short unless opted in
	if src.fetches != 4 {
		t.Errorf("expected exactly 4 fetches, got %d", src.fetches)
	}
	if len(run.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(run.Records))
	}
}

func TestCollectThreadsCursors(t *testing.T) {
	src := &fakeSource{pages: []*twitter.Page{
		page(true, "c1", tweet("1", "2020-04-01T10:00:00Z")),
		page(true, "c2", tweet("2", "2020-04-02T10:00:00Z")),
		page(false, "", tweet("3", "2020-04-03T10:00:00Z")),
	}}

	_, err := New(src, Options{PageLimit: 3}, nil).Collect("elonmusk")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	want := []string{"", "c1", "c2"}
	if len(src.cursors) != len(want) {
		t.Fatalf("expected %d fetches, got %d", len(want), len(src.cursors))
	}
	for i := range want {
		if src.cursors[i] != want[i] {
			t.Errorf("fetch %d: expected cursor %q, got %q", i, want[i], src.cursors[i])
		}
	}
}

func TestCollectStopsOnExhaustion(t *testing.T) {
	src := &fakeSource{pages: []*twitter.Page{
		page(false, "", tweet("1", "2020-04-01T10:00:00Z")),
	}}

	run, err := New(src, Options{PageLimit: 100}, nil).Collect("elonmusk")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if src.fetches != 1 {
		t.Errorf("expected 1 fetch after exhaustion, got %d", src.fetches)
	}
	if run.Pages != 100 {
		t.Errorf("run should record the requested page count, got %d", run.Pages)
	}
}

func TestCollectStopAfterEmptyOption(t *testing.T) {
	src := &fakeSource{pages: []*twitter.Page{
		page(true, "c1", tweet("1", "2020-04-01T10:00:00Z")),
		page(true, "c2"),
		page(true, "c3"),
		page(true, "c4", tweet("2", "2020-04-02T10:00:00Z")),
	}}

	_, err := New(src, Options{PageLimit: 10, StopAfterEmpty: 2}, nil).Collect("elonmusk")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if src.fetches != 3 {
		t.Errorf("expected stop after 2 consecutive empty pages (3 fetches), got %d", src.fetches)
	}
}

func TestCollectSkipsMalformedItems(t *testing.T) {
	bad := twitter.Item{"text": json.RawMessage(`"no id or time"`)}
	src := &fakeSource{pages: []*twitter.Page{
		page(false, "", tweet("1", "2020-04-01T10:00:00Z"), bad, tweet("2", "2020-04-02T10:00:00Z")),
	}}

	run, err := New(src, Options{PageLimit: 1}, nil).Collect("elonmusk")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if len(run.Records) != 2 {
		t.Errorf("expected malformed item to be skipped, got %d records", len(run.Records))
	}
}

func TestCollectSourceFailureCarriesPartial(t *testing.T) {
	src := &fakeSource{
		pages: []*twitter.Page{
			page(true, "c1", tweet("1", "2020-04-01T10:00:00Z"), tweet("2", "2020-04-02T10:00:00Z")),
		},
		err: fmt.Errorf("connection reset"),
	}

	_, err := New(src, Options{PageLimit: 3}, nil).Collect("elonmusk")
	if err == nil {
		t.Fatal("expected error")
	}

	var collErr *CollectionError
	if !errors.As(err, &collErr) {
		t.Fatalf("expected *CollectionError, got %T", err)
	}
	if collErr.Page != 2 {
		t.Errorf("expected failure on page 2, got %d", collErr.Page)
	}
	if len(collErr.Partial) != 2 {
		t.Errorf("expected 2 partial records, got %d", len(collErr.Partial))
	}

	run := collErr.PartialRun(3)
	if run.Subject != "elonmusk" || len(run.Records) != 2 {
		t.Errorf("unexpected partial run: %+v", run)
	}
}

func TestCollectDefaultsPageLimit(t *testing.T) {
	src := &fakeSource{pages: []*twitter.Page{
		page(true, "c1", tweet("1", "2020-04-01T10:00:00Z")),
		page(true, "c2", tweet("2", "2020-04-02T10:00:00Z")),
	}}

	_, err := New(src, Options{}, nil).Collect("elonmusk")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if src.fetches != DefaultPageLimit {
		t.Errorf("expected %d fetch with zero options, got %d", DefaultPageLimit, src.fetches)
	}
}
