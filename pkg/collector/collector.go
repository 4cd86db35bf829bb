package collector

import (
	"fmt"
	"time"

	"twitterhistory/pkg/logger"
	"twitterhistory/pkg/models"
	"twitterhistory/pkg/twitter"
)

// DefaultPageLimit is used when no page limit is configured
const DefaultPageLimit = 1

// PageSource delivers timeline pages for a subject. The cursor is an opaque
// token owned by the source; an empty cursor requests the first page.
type PageSource interface {
	NextPage(subject string, cursor string) (*twitter.Page, error)
}

// Options controls one collection run
type Options struct {
	// PageLimit is the number of pages to request. Exactly this many page
	// fetches are issued unless the source reports exhaustion first.
	PageLimit int
	// StopAfterEmpty stops the run after N consecutive fully-empty pages.
	// Zero disables the check: empty pages may be followed by non-empty
	// ones upstream, so this is opt-in.
	StopAfterEmpty int
}

// CollectionError reports a source failure mid-pagination. It carries the
// partial accumulator so callers may choose to persist partial results.
type CollectionError struct {
	Subject string
	Page    int
	Partial []models.Record
	Err     error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("collection for %q failed on page %d after %d records: %v",
		e.Subject, e.Page, len(e.Partial), e.Err)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

// PartialRun builds a collection run from the records accumulated before the
// failure, so callers can persist partial data with a diagnostic.
func (e *CollectionError) PartialRun(pages int) *models.CollectionRun {
	return &models.CollectionRun{
		Subject:     e.Subject,
		Pages:       pages,
		CollectedAt: time.Now().UTC(),
		Records:     e.Partial,
	}
}

// Collector drives retrieval of one subject across a bounded number of pages
type Collector struct {
	source PageSource
	opts   Options
	logger logger.Logger
}

// New creates a collector over the given page source
func New(source PageSource, opts Options, log logger.Logger) *Collector {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.PageLimit <= 0 {
		opts.PageLimit = DefaultPageLimit
	}
	return &Collector{
		source: source,
		opts:   opts,
		logger: log,
	}
}

// Collect downloads up to the configured number of pages for a subject and
// returns a deduplicated run in first-seen order. Malformed items are
// skipped and logged. If the source fails mid-run the returned error is a
// *CollectionError carrying the records accumulated so far.
func (c *Collector) Collect(subject string) (*models.CollectionRun, error) {
	// Start non-nil so a zero-record run still persists as a valid artifact
	records := []models.Record{}
	seen := make(map[string]struct{})

	cursor := ""
	emptyStreak := 0
	skipped := 0

	for page := 1; page <= c.opts.PageLimit; page++ {
		p, err := c.source.NextPage(subject, cursor)
		if err != nil {
			return nil, &CollectionError{
				Subject: subject,
				Page:    page,
				Partial: records,
				Err:     err,
			}
		}

		added := 0
		for _, item := range p.Items {
			rec, err := models.NewRecord(item)
			if err != nil {
				skipped++
				c.logger.WarnWithFields("skipping malformed item", map[string]interface{}{
					"subject": subject,
					"page":    page,
					"error":   err.Error(),
				})
				continue
			}
			if _, dup := seen[rec.ID]; dup {
				continue
			}
			seen[rec.ID] = struct{}{}
			records = append(records, rec)
			added++
		}

		c.logger.DebugWithFields("consumed timeline page", map[string]interface{}{
			"subject": subject,
			"page":    page,
			"items":   len(p.Items),
			"added":   added,
		})

		if len(p.Items) == 0 {
			emptyStreak++
		} else {
			emptyStreak = 0
		}
		if c.opts.StopAfterEmpty > 0 && emptyStreak >= c.opts.StopAfterEmpty {
			c.logger.InfoWithFields("stopping after consecutive empty pages", map[string]interface{}{
				"subject":     subject,
				"empty_pages": emptyStreak,
			})
			break
		}

		if !p.HasMore {
			c.logger.InfoWithFields("source exhausted", map[string]interface{}{
				"subject": subject,
				"pages":   page,
			})
			break
		}
		cursor = p.NextCursor
	}

	c.logger.InfoWithFields("collection finished", map[string]interface{}{
		"subject": subject,
		"records": len(records),
		"skipped": skipped,
	})

	return &models.CollectionRun{
		Subject:     subject,
		Pages:       c.opts.PageLimit,
		CollectedAt: time.Now().UTC(),
		Records:     records,
	}, nil
}
