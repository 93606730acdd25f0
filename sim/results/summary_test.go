package results

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_EmptyRecords(t *testing.T) {
	_, err := Summarize(nil)
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestSummarize_KnownValues(t *testing.T) {
	// GIVEN run means 2, 4, 9
	records := []Record{{0, 2}, {1, 4}, {2, 9}}

	// WHEN summarized
	s, err := Summarize(records)
	require.NoError(t, err)

	// THEN mean/min/max/stddev match hand-computed values
	assert.Equal(t, 3, s.Runs)
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	// sample variance = (9 + 1 + 16) / 2 = 13
	assert.InDelta(t, math.Sqrt(13), s.StdDev, 1e-12)
}

func TestSummarize_SingleRun_ZeroStdDev(t *testing.T) {
	s, err := Summarize([]Record{{0, 7}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 7.0, s.Mean)
}

func TestSummary_Print(t *testing.T) {
	var buf bytes.Buffer
	Summary{Runs: 2, Mean: 1.234, Min: 0.5, Max: 2}.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "Mean queuing time over trial : 1.23")
	assert.Contains(t, out, "Max mean queuing result over trial : 2.00")
	assert.Contains(t, out, "Min mean queuing result over trial : 0.50")
}

func TestMemorySink_Append(t *testing.T) {
	var s MemorySink
	require.NoError(t, s.Append(Record{Run: 0, MeanWait: 1}))
	require.NoError(t, s.Append(Record{Run: 1, MeanWait: 2}))
	assert.Equal(t, []Record{{0, 1}, {1, 2}}, s.Records)
}

func TestDefaultPlotName(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "Time_series_plot_2026-03-04_05-06-07.png", DefaultPlotName(ts))
}

func TestPlotScatter_WritesImage(t *testing.T) {
	// GIVEN a handful of records and their summary
	records := []Record{{0, 3}, {1, 5}, {2, 4}, {3, 8}, {4, 2}}
	s, err := Summarize(records)
	require.NoError(t, err)

	// WHEN plotting to a PNG
	path := filepath.Join(t.TempDir(), "plot.png")
	require.NoError(t, PlotScatter(records, s, path))

	// THEN a non-empty file exists
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPlotScatter_NoRecords(t *testing.T) {
	err := PlotScatter(nil, Summary{}, filepath.Join(t.TempDir(), "plot.png"))
	assert.ErrorIs(t, err, ErrNoRecords)
}
