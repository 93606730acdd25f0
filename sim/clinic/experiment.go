package clinic

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/clinic-sim/sim/results"
)

// Experiment runs independent replications of the clinic model and forwards
// each successful replication mean to a result sink.
type Experiment struct {
	cfg      Config
	sink     results.Sink
	samplers samplerFactory
}

// NewExperiment validates cfg and binds it to sink. A nil sink discards results.
func NewExperiment(cfg Config, sink results.Sink) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment config: %w", err)
	}
	return &Experiment{cfg: cfg, sink: sink, samplers: expSamplers}, nil
}

// Run executes replications 0..Runs-1 in order and returns every result,
// failed ones included (their Err is set).
//
// A failed replication, whether it collected no samples or hit an engine
// fault, is logged, skipped by the sink, and does not stop the batch; the
// returned error joins all replication failures so callers can test it with
// errors.Is. Cancellation of ctx or a sink error stops the batch at once.
func (x *Experiment) Run(ctx context.Context) ([]ReplicationResult, error) {
	out := make([]ReplicationResult, 0, x.cfg.Runs)
	var failures []error
	for run := 0; run < x.cfg.Runs; run++ {
		res, _, err := runReplication(ctx, x.cfg, run, x.samplers)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, ctxErr
		}
		out = append(out, res)
		if err != nil {
			logrus.Warnf("%v", err)
			failures = append(failures, err)
			continue
		}
		logrus.Infof("Mean queuing time for the nurse (mins) : %.2f", res.MeanWait)
		if x.sink == nil {
			continue
		}
		if err := x.sink.Append(res.Record()); err != nil {
			return out, fmt.Errorf("storing replication %d: %w", run, err)
		}
	}
	if len(failures) > 0 {
		return out, fmt.Errorf("%d of %d replications failed: %w", len(failures), x.cfg.Runs, errors.Join(failures...))
	}
	return out, nil
}

// Records returns the persisted form of the successful results, in run order.
func Records(rs []ReplicationResult) []results.Record {
	out := make([]results.Record, 0, len(rs))
	for _, r := range rs {
		if r.OK() {
			out = append(out, r.Record())
		}
	}
	return out
}
