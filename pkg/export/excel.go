package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"twitterhistory/pkg/aggregate"
	"twitterhistory/pkg/models"
)

// ActivitySheet holds per-day tweet counts, mirroring the plot view
const ActivitySheet = "Twitter activity"

// AccountSheet holds account metadata when the run carries a profile
const AccountSheet = "Account"

var recordHeaders = []string{"Time", "isRetweet", "replies", "likes", "hashtags", "text"}

// profileKeys are the account fields exported to the Account sheet, in order
var profileKeys = []string{
	"name", "username", "likes_count", "tweets_count", "followers_count", "following_count",
}

// WriteWorkbook writes the partitioned sheets as an xlsx workbook at path,
// followed by the per-day activity sheet and, when the run carries a
// profile, the account sheet. Any existing file at path is overwritten.
func WriteWorkbook(path string, run *models.CollectionRun, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	// Reserve the appended sheet names so a filter spelled like one of them
	// cannot collide with it.
	used := map[string]struct{}{
		strings.ToLower(ActivitySheet): {},
		strings.ToLower(AccountSheet):  {},
	}

	for i, sheet := range sheets {
		name := workbookSheetName(sheet.Name, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", name, err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return fmt.Errorf("failed to create sheet %q: %w", name, err)
			}
		}
		if err := writeRecordSheet(f, name, sheet.Records); err != nil {
			return err
		}
	}

	if err := writeActivitySheet(f, run); err != nil {
		return err
	}
	if len(run.Profile) > 0 {
		if err := writeAccountSheet(f, run); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

func writeRecordSheet(f *excelize.File, name string, records []models.Record) error {
	for col, header := range recordHeaders {
		if err := setCell(f, name, col+1, 1, header); err != nil {
			return err
		}
	}

	for i, rec := range records {
		row := i + 2
		values := []interface{}{
			rec.Time.Format(time.RFC3339),
			rec.IsRetweet,
			rec.Replies,
			rec.Likes,
			strings.Join(rec.Hashtags, ", "),
			rec.Text,
		}
		for col, v := range values {
			if err := setCell(f, name, col+1, row, v); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeActivitySheet(f *excelize.File, run *models.CollectionRun) error {
	if _, err := f.NewSheet(ActivitySheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", ActivitySheet, err)
	}

	for col, header := range []string{"Time", "numTweets"} {
		if err := setCell(f, ActivitySheet, col+1, 1, header); err != nil {
			return err
		}
	}

	buckets := aggregate.FillGaps(aggregate.PerDay(run.Records))
	for i, b := range buckets {
		row := i + 2
		if err := setCell(f, ActivitySheet, 1, row, b.Date.Format("2006-01-02")); err != nil {
			return err
		}
		if err := setCell(f, ActivitySheet, 2, row, b.Count); err != nil {
			return err
		}
	}

	return nil
}

func writeAccountSheet(f *excelize.File, run *models.CollectionRun) error {
	if _, err := f.NewSheet(AccountSheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", AccountSheet, err)
	}

	for i, key := range profileKeys {
		row := i + 1
		if err := setCell(f, AccountSheet, 1, row, key); err != nil {
			return err
		}

		value := "NONE"
		if raw, ok := run.Profile[key]; ok {
			var v interface{}
			if err := json.Unmarshal(raw, &v); err == nil {
				value = fmt.Sprintf("%v", v)
			}
		}
		if err := setCell(f, AccountSheet, 2, row, value); err != nil {
			return err
		}
	}

	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to write cell %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// workbookSheetName maps a partition name onto a legal, unique worksheet
// name. Excel forbids a handful of characters, caps names at 31 characters
// and compares them case-insensitively, so partitions whose names differ
// only by case get a numeric suffix here; the partition itself is untouched.
func workbookSheetName(name string, used map[string]struct{}) string {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	if len(sanitized) > 31 {
		sanitized = sanitized[:31]
	}

	candidate := sanitized
	for n := 2; ; n++ {
		key := strings.ToLower(candidate)
		if _, taken := used[key]; !taken {
			used[key] = struct{}{}
			return candidate
		}
		suffix := fmt.Sprintf(" (%d)", n)
		base := sanitized
		if len(base)+len(suffix) > 31 {
			base = base[:31-len(suffix)]
		}
		candidate = base + suffix
	}
}
