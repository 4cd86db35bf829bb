// Package export partitions a collection run into named sheets and writes
// them as an xlsx workbook.
package export

import (
	"twitterhistory/pkg/filter"
	"twitterhistory/pkg/models"
)

// AllRecordsSheet is the name of the unconditional first sheet
const AllRecordsSheet = "Tweet raw data"

// Sheet is one named partition of records
type Sheet struct {
	Name    string
	Records []models.Record
}

// Partition produces the sheet sequence for a run: the all-records sheet
// first, then one sheet per filter in argument order, each named by the
// filter's original spelling and containing only matching records. Record
// order within a sheet follows the run. Two filters are the same logical
// sheet only when their spellings are identical; filters that fold to the
// same token but are spelled differently each get their own sheet.
func Partition(run *models.CollectionRun, filters []filter.Filter) []Sheet {
	sheets := []Sheet{{Name: AllRecordsSheet, Records: run.Records}}

	seen := make(map[string]struct{}, len(filters))
	for _, f := range filters {
		if _, dup := seen[f.Name()]; dup {
			continue
		}
		seen[f.Name()] = struct{}{}

		matched := make([]models.Record, 0)
		for _, rec := range run.Records {
			if f.Matches(rec) {
				matched = append(matched, rec)
			}
		}
		sheets = append(sheets, Sheet{Name: f.Name(), Records: matched})
	}

	return sheets
}
