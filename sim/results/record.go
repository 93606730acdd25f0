// Package results persists and analyzes per-replication experiment results.
// It stores pure data types and has no dependency on the engine or on
// sim/clinic: the experiment driver hands it one Record per replication.
package results

// Record is one persisted replication result: the run index and the mean
// queuing time for the nurse in that run.
type Record struct {
	Run      int
	MeanWait float64
}

// Sink accepts replication results in replication order, one per call.
type Sink interface {
	Append(r Record) error
}

// MemorySink keeps appended records in memory.
type MemorySink struct {
	Records []Record
}

// Append implements Sink.
func (s *MemorySink) Append(r Record) error {
	s.Records = append(s.Records, r)
	return nil
}
