package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// CSV column headers for the results table.
var csvColumns = []string{"Run", "Mean Q Nurse"}

// CSVSink writes records as a two-column CSV table. The header row is written
// when the sink is created; each Append writes and flushes one row so a
// crashed batch still leaves every completed run on disk.
type CSVSink struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVSink writes the header row to w and returns a sink appending to it.
func NewCSVSink(w io.Writer) (*CSVSink, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	return &CSVSink{w: cw}, nil
}

// CreateCSVSink truncates or creates path and returns a sink writing to it.
// Close must be called when the batch is done.
func CreateCSVSink(path string) (*CSVSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating results file: %w", err)
	}
	s, err := NewCSVSink(file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	s.closer = file
	return s, nil
}

// Append implements Sink.
func (s *CSVSink) Append(r Record) error {
	row := []string{
		strconv.Itoa(r.Run),
		strconv.FormatFloat(r.MeanWait, 'f', -1, 64),
	}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("writing CSV row %d: %w", r.Run, err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flushing CSV row %d: %w", r.Run, err)
	}
	return nil
}

// Close flushes and closes the underlying file, if the sink owns one.
func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flushing results: %w", err)
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// ReadCSV parses a results table written by CSVSink.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvColumns)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("results CSV is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	for i, col := range csvColumns {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected CSV header %q, want %q", header, csvColumns)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", line, err)
		}
		run, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing Run %q: %w", line, row[0], err)
		}
		mean, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing Mean Q Nurse %q: %w", line, row[1], err)
		}
		records = append(records, Record{Run: run, MeanWait: mean})
	}
	return records, nil
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening results file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ReadCSV(file)
}
