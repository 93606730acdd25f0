package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/clinic-sim/sim/results"
)

// summarizeCmd reports on a results file from an earlier run without
// re-running the simulation.
var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a stored results CSV",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if err := summarizeResults(resultsPath, plotPath, os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// summarizeResults reads the CSV at csvPath, prints the trial summary to w
// and saves the scatter plot to plotOut unless it is empty.
func summarizeResults(csvPath, plotOut string, w io.Writer) error {
	records, err := results.ReadCSVFile(csvPath)
	if err != nil {
		return err
	}
	s, err := results.Summarize(records)
	if err != nil {
		return fmt.Errorf("%s: %w", csvPath, err)
	}
	s.Print(w)
	if plotOut == "" {
		return nil
	}
	if err := results.PlotScatter(records, s, plotOut); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	logrus.Infof("Scatter plot written to %s", plotOut)
	return nil
}
