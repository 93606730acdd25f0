package results

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoRecords is returned when summarizing an empty result set.
var ErrNoRecords = errors.New("no replication results to summarize")

// Summary aggregates mean queuing times across replications.
type Summary struct {
	Runs   int
	Mean   float64
	Min    float64
	Max    float64
	StdDev float64 // sample standard deviation; 0 for a single run
}

// Summarize computes aggregate statistics over the replication means.
func Summarize(records []Record) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrNoRecords
	}
	means := MeanWaits(records)
	s := Summary{
		Runs: len(means),
		Mean: stat.Mean(means, nil),
		Min:  floats.Min(means),
		Max:  floats.Max(means),
	}
	if len(means) > 1 {
		s.StdDev = stat.StdDev(means, nil)
	}
	return s, nil
}

// MeanWaits extracts the per-run mean queuing times in record order.
func MeanWaits(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.MeanWait
	}
	return out
}

// Print writes the trial summary in the report format used by the run and
// summarize commands.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "Mean queuing time over trial : %.2f\n", s.Mean)
	fmt.Fprintf(w, "Max mean queuing result over trial : %.2f\n", s.Max)
	fmt.Fprintf(w, "Min mean queuing result over trial : %.2f\n", s.Min)
	fmt.Fprintf(w, "Std dev of run means over trial : %.2f (%d runs)\n", s.StdDev, s.Runs)
}
