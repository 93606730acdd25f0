package clinic

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/clinic-sim/sim"
	"github.com/inference-sim/clinic-sim/sim/results"
)

// ReplicationResult is the outcome of one replication. Only Run and MeanWait
// are persisted; the remaining fields are diagnostics.
type ReplicationResult struct {
	Run      int
	MeanWait float64

	Samples     int            // patients that reached the nurse
	Spawned     map[string]int // patients created per stream
	EndClock    float64        // engine clock when the replication stopped
	Utilization float64        // time-averaged nurse utilization over [0, EndClock]
	Err         error          // non-nil when the replication failed
}

// OK reports whether the replication produced a usable mean.
func (r ReplicationResult) OK() bool { return r.Err == nil }

// Record converts the result to its persisted form.
func (r ReplicationResult) Record() results.Record {
	return results.Record{Run: r.Run, MeanWait: r.MeanWait}
}

// ReplicationError ties a failure to the replication and clock time it
// happened at.
type ReplicationError struct {
	Run   int
	Clock float64
	Err   error
}

func (e *ReplicationError) Error() string {
	return fmt.Sprintf("replication %d at t=%.4f: %v", e.Run, e.Clock, e.Err)
}

func (e *ReplicationError) Unwrap() error { return e.Err }

// RunReplication runs replication run of cfg on a fresh engine, nurse and
// sample log, and returns its result together with every queuing sample in
// service order. The random streams are derived from (cfg.Seed, run) only,
// so a replication is reproducible in isolation.
//
// A replication with no samples returns ErrNoSamplesCollected wrapped in a
// *ReplicationError; engine faults are wrapped the same way.
func RunReplication(ctx context.Context, cfg Config, run int) (ReplicationResult, []QueuingSample, error) {
	return runReplication(ctx, cfg, run, expSamplers)
}

// samplerFactory builds the arrival and service samplers of one stream in
// one replication.
type samplerFactory func(run int, rng *sim.PartitionedRNG, stream StreamConfig) (arrivals, service sim.Sampler)

// expSamplers draws both durations exponentially from the stream's own
// subsystems of the replication RNG.
func expSamplers(_ int, rng *sim.PartitionedRNG, stream StreamConfig) (sim.Sampler, sim.Sampler) {
	return sim.NewExpSampler(rng.ForSubsystem(sim.SubsystemArrivals(stream.Name))),
		sim.NewExpSampler(rng.ForSubsystem(sim.SubsystemService(stream.Name)))
}

func runReplication(ctx context.Context, cfg Config, run int, samplers samplerFactory) (ReplicationResult, []QueuingSample, error) {
	res := ReplicationResult{Run: run, Spawned: make(map[string]int)}

	nurse, err := sim.NewResource("nurse", cfg.Capacity)
	if err != nil {
		res.Err = &ReplicationError{Run: run, Err: err}
		return res, nil, res.Err
	}
	engine := sim.NewEngine()
	log := &SampleLog{}
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed)).ForReplication(run)

	gens := make([]*Generator, 0, len(cfg.Streams))
	for _, s := range cfg.Streams {
		arrivals, service := samplers(run, rng, s)
		g := NewGenerator(s, nurse, arrivals, service, log)
		if _, err := engine.Spawn(s.Name+"_generator", g); err != nil {
			res.Err = &ReplicationError{Run: run, Clock: engine.Now(), Err: err}
			return res, nil, res.Err
		}
		gens = append(gens, g)
	}

	runErr := engine.RunUntil(ctx, cfg.Horizon)

	for i, g := range gens {
		res.Spawned[cfg.Streams[i].Name] = g.Spawned()
	}
	res.Samples = log.Len()
	res.EndClock = engine.Now()
	res.Utilization = nurse.Utilization(engine.Now())

	if runErr != nil {
		res.Err = &ReplicationError{Run: run, Clock: engine.Now(), Err: runErr}
		return res, log.Samples(), res.Err
	}

	mean, err := log.MeanWait()
	if err != nil {
		res.Err = &ReplicationError{Run: run, Clock: engine.Now(), Err: err}
		return res, log.Samples(), res.Err
	}
	res.MeanWait = mean

	stats := engine.Stats()
	logrus.Debugf("replication %d: %d events, %d processes spawned, %d failed, %d samples, utilization %.3f",
		run, stats.Dispatched, stats.Spawned, stats.Failed, res.Samples, res.Utilization)
	return res, log.Samples(), nil
}
