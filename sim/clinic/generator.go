package clinic

import (
	"fmt"

	"github.com/inference-sim/clinic-sim/sim"
)

// Generator is an unbounded arrival process for one stream: every time it
// wakes it spawns a patient Activity, then sleeps for an exponentially
// distributed inter-arrival time. It never terminates on its own; it stops
// being resumed once the replication horizon passes.
type Generator struct {
	stream   StreamConfig
	nurse    *sim.Resource
	arrivals sim.Sampler
	service  sim.Sampler
	log      *SampleLog

	spawned int
}

// NewGenerator creates the arrival process for stream. arrivals and service
// must be independent samplers.
func NewGenerator(stream StreamConfig, nurse *sim.Resource, arrivals, service sim.Sampler, log *SampleLog) *Generator {
	return &Generator{
		stream:   stream,
		nurse:    nurse,
		arrivals: arrivals,
		service:  service,
		log:      log,
	}
}

// Spawned returns the number of patients created so far.
func (g *Generator) Spawned() int { return g.spawned }

// Resume implements sim.Process.
func (g *Generator) Resume(p *sim.Proc, wake sim.Wake) (sim.Wait, error) {
	g.spawned++
	patient := NewActivity(g.stream.Name, g.stream.ServiceMean, g.nurse, g.service, g.log)
	if _, err := p.Spawn(fmt.Sprintf("%s_patient_%d", g.stream.Name, g.spawned), patient); err != nil {
		return sim.Wait{}, err
	}
	return sim.Timeout(g.arrivals.Sample(g.stream.InterArrivalMean)), nil
}
