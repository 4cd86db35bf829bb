package main

import (
	"github.com/spf13/cobra"

	"twitterhistory/pkg/export"
	"twitterhistory/pkg/filter"
	"twitterhistory/pkg/logger"
	"twitterhistory/pkg/storage"
)

var (
	xlFilters []string
	xlOutput  string
)

// xlCmd represents the xl command
var xlCmd = &cobra.Command{
	Use:   "xl FILE",
	Short: "Convert a stored run to an xlsx spreadsheet",
	Long: `Read a stored collection run and write it as an xlsx workbook. The first
sheet always holds every record; each --filter adds one sheet holding only
the records matching that token.

A token starting with '#' matches posts carrying exactly that hashtag; any
other token matches posts containing it in their text or hashtags. Matching
is case-insensitive. Any existing workbook at the target path is
overwritten.`,
	Example: `  # Everything in one sheet
  twitterhistory xl data/elonmusk_2026-08-28_0915/data.json

  # Extra sheets for a hashtag and a keyword
  twitterhistory xl data/elonmusk_2026-08-28_0915/data.json -f '#tesla' -f spacex`,
	Args: cobra.ExactArgs(1),
	RunE: runXL,
}

func init() {
	rootCmd.AddCommand(xlCmd)

	xlCmd.Flags().StringArrayVarP(&xlFilters, "filter", "f", nil, "add a sheet for records matching this token (repeatable)")
	xlCmd.Flags().StringVarP(&xlOutput, "output", "o", "", "workbook file to write (default: store path with .xlsx)")
}

func runXL(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(nil); err != nil {
		return err
	}
	log := logger.GetLogger()

	// Reject bad filter tokens before touching the store, no partial export
	filters, err := filter.Parse(xlFilters)
	if err != nil {
		return err
	}

	storePath := args[0]
	run, err := storage.LoadRun(storePath)
	if err != nil {
		return err
	}
	log.InfoWithFields("loaded collection run", map[string]interface{}{
		"subject": run.Subject,
		"records": len(run.Records),
	})

	outPath := xlOutput
	if outPath == "" {
		outPath = storage.SiblingPath(storePath, ".xlsx")
	}

	sheets := export.Partition(run, filters)
	if err := export.WriteWorkbook(outPath, run, sheets); err != nil {
		return err
	}
	log.InfoWithFields("wrote workbook", map[string]interface{}{
		"path":   outPath,
		"sheets": len(sheets),
	})

	return nil
}
