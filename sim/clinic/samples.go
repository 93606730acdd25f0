package clinic

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// ErrNoSamplesCollected means a replication ended without any patient
// reaching the nurse, so its mean queuing time is undefined.
var ErrNoSamplesCollected = errors.New("no queuing samples collected")

// QueuingSample is one patient's wait for the nurse.
type QueuingSample struct {
	Stream  string
	Entered float64 // time the patient joined the queue
	Left    float64 // time the nurse was granted
}

// Wait returns the time spent queuing.
func (s QueuingSample) Wait() float64 {
	return s.Left - s.Entered
}

// SampleLog collects the queuing samples of a single replication, in the
// order patients were served. Each replication owns its own log.
type SampleLog struct {
	samples []QueuingSample
}

// Record appends a sample.
func (l *SampleLog) Record(s QueuingSample) {
	l.samples = append(l.samples, s)
}

// Len returns the number of samples recorded.
func (l *SampleLog) Len() int { return len(l.samples) }

// Samples returns the recorded samples. Callers must not modify the slice.
func (l *SampleLog) Samples() []QueuingSample { return l.samples }

// Waits returns the queuing times in recording order.
func (l *SampleLog) Waits() []float64 {
	out := make([]float64, len(l.samples))
	for i, s := range l.samples {
		out[i] = s.Wait()
	}
	return out
}

// MeanWait returns the mean queuing time, or ErrNoSamplesCollected when the
// log is empty.
func (l *SampleLog) MeanWait() (float64, error) {
	if len(l.samples) == 0 {
		return 0, ErrNoSamplesCollected
	}
	return stat.Mean(l.Waits(), nil), nil
}

// CountByStream returns how many samples each stream contributed.
func (l *SampleLog) CountByStream() map[string]int {
	out := make(map[string]int)
	for _, s := range l.samples {
		out[s.Stream]++
	}
	return out
}
