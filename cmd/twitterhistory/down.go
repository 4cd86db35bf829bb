package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"twitterhistory/pkg/collector"
	"twitterhistory/pkg/config"
	"twitterhistory/pkg/export"
	"twitterhistory/pkg/logger"
	"twitterhistory/pkg/ratelimit"
	"twitterhistory/pkg/storage"
	"twitterhistory/pkg/twitter"
)

var (
	// down command flags
	downPages     int
	downNoExcel   bool
	downDataDir   string
	downStopEmpty int
)

// downCmd represents the down command
var downCmd = &cobra.Command{
	Use:   "down NAMES...",
	Short: "Download the feed history for one or more subjects",
	Long: `Download the post history for each subject, page by page, and store every
run as a JSON artifact under the data directory. A subject is a username or,
with a leading '#', a hashtag.

Each run is also converted to an xlsx workbook next to the artifact unless
--no-excel is given. If the source fails mid-run, the records collected up
to that point are persisted and the failure is reported.`,
	Example: `  # Download one page of a profile
  twitterhistory down elonmusk

  # Download 50 pages each for two subjects
  twitterhistory down elonmusk nasa -p 50

  # Download a hashtag feed, skip the spreadsheet
  twitterhistory down '#tesla' --no-excel`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDown,
}

func init() {
	rootCmd.AddCommand(downCmd)

	downCmd.Flags().IntVarP(&downPages, "pages", "p", 0, "number of pages to fetch (default from config)")
	downCmd.Flags().BoolVar(&downNoExcel, "no-excel", false, "do not convert the run to an xlsx workbook")
	downCmd.Flags().StringVarP(&downDataDir, "data-dir", "d", "", "base directory for run artifacts")
	downCmd.Flags().IntVar(&downStopEmpty, "stop-after-empty", 0, "stop after N consecutive empty pages (0 = never)")
}

func runDown(cmd *cobra.Command, args []string) error {
	flags := map[string]interface{}{
		"pages":            downPages,
		"stop-after-empty": downStopEmpty,
		"no-excel":         downNoExcel,
		"data-dir":         downDataDir,
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	log := logger.GetLogger()

	limiter := ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute)
	client := twitter.NewClient(cfg.Download.RequestTimeout, cfg.RateLimit.MaxRetries, limiter, log)
	client.SetHeader("User-Agent", cfg.Download.UserAgent)

	store, err := storage.NewManager(cfg.Output.DataDirectory, log)
	if err != nil {
		return err
	}

	coll := collector.New(client, collector.Options{
		PageLimit:      cfg.Download.Pages,
		StopAfterEmpty: cfg.Download.StopAfterEmpty,
	}, log)

	var failed []string
	for _, name := range args {
		subject := twitter.SanitizeSubject(name)
		if subject == "" {
			continue
		}
		if err := downloadSubject(subject, cfg, client, coll, store, log); err != nil {
			log.WithError(err).WithField("subject", subject).Error("download failed")
			failed = append(failed, subject)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("download failed for: %s", strings.Join(failed, ", "))
	}
	return nil
}

// downloadSubject performs one collection run end to end. A mid-run source
// failure still persists the partial accumulator before the error is
// returned.
func downloadSubject(subject string, cfg *config.Config, client *twitter.Client, coll *collector.Collector, store *storage.Manager, log logger.Logger) error {
	log.InfoWithFields("downloading feed", map[string]interface{}{
		"subject": subject,
		"pages":   cfg.Download.Pages,
	})

	profile := fetchProfile(subject, cfg, client, log)

	run, err := coll.Collect(subject)
	if err != nil {
		var collErr *collector.CollectionError
		if !errors.As(err, &collErr) || len(collErr.Partial) == 0 {
			return err
		}
		log.WarnWithFields("source failed mid-run, persisting partial results", map[string]interface{}{
			"subject": subject,
			"page":    collErr.Page,
			"records": len(collErr.Partial),
		})
		run = collErr.PartialRun(cfg.Download.Pages)
		run.Profile = profile
		if _, saveErr := store.SaveRun(run); saveErr != nil {
			return errors.Join(err, saveErr)
		}
		return err
	}
	run.Profile = profile

	path, err := store.SaveRun(run)
	if err != nil {
		return err
	}

	if cfg.Download.ConvertToExcel {
		excelPath := storage.SiblingPath(path, ".xlsx")
		sheets := export.Partition(run, nil)
		if err := export.WriteWorkbook(excelPath, run, sheets); err != nil {
			return err
		}
		log.WithField("path", excelPath).Info("wrote workbook")
	}

	return nil
}

// fetchProfile fetches account metadata for username subjects. Best-effort:
// failures are logged and the run proceeds without a profile, matching the
// hashtag case where no profile exists.
func fetchProfile(subject string, cfg *config.Config, client *twitter.Client, log logger.Logger) map[string]json.RawMessage {
	if !cfg.Download.FetchProfile {
		return nil
	}
	if twitter.IsHashtag(subject) {
		log.WithField("subject", subject).Info("interpreting subject as a hashtag")
		return nil
	}

	profile, err := client.FetchProfile(subject)
	if err != nil {
		log.WithError(err).WithField("subject", subject).Warn("failed to fetch profile, continuing without it")
		return nil
	}

	var followers int
	if raw, ok := profile["followers_count"]; ok {
		_ = json.Unmarshal(raw, &followers)
	}
	log.InfoWithFields("resolved subject", map[string]interface{}{
		"subject":   subject,
		"followers": followers,
	})

	return profile
}
