package main

import (
	"github.com/spf13/cobra"

	"twitterhistory/pkg/logger"
	"twitterhistory/pkg/plot"
	"twitterhistory/pkg/storage"
)

var plotOutput string

// plotCmd represents the plot command
var plotCmd = &cobra.Command{
	Use:   "plot FILE",
	Short: "Plot the daily post activity of a stored run",
	Long: `Read a stored collection run and render its daily post counts as a PNG
chart. Days without posts between the first and last recorded day are shown
as zero.`,
	Example: `  twitterhistory plot data/elonmusk_2026-08-28_0915/data.json
  twitterhistory plot data/elonmusk_2026-08-28_0915/data.json -o activity.png`,
	Args: cobra.ExactArgs(1),
	RunE: runPlot,
}

func init() {
	rootCmd.AddCommand(plotCmd)

	plotCmd.Flags().StringVarP(&plotOutput, "output", "o", "", "chart file to write (default: store path with .png)")
}

func runPlot(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(nil); err != nil {
		return err
	}
	log := logger.GetLogger()

	storePath := args[0]
	run, err := storage.LoadRun(storePath)
	if err != nil {
		return err
	}
	log.InfoWithFields("loaded collection run", map[string]interface{}{
		"subject": run.Subject,
		"records": len(run.Records),
	})

	outPath := plotOutput
	if outPath == "" {
		outPath = storage.SiblingPath(storePath, ".png")
	}

	if err := plot.WriteActivityChart(outPath, run); err != nil {
		return err
	}
	log.WithField("path", outPath).Info("wrote activity chart")

	return nil
}
