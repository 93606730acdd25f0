// Defines the patient Activity process: arrive, queue for the nurse, be
// served, depart. The same state machine serves every stream; only the
// service-time mean differs.

package clinic

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/clinic-sim/sim"
)

// ActivityState is a patient's position in the clinic.
type ActivityState string

const (
	StateArrived           ActivityState = "arrived"
	StateQueuedForResource ActivityState = "queued"
	StateInService         ActivityState = "in_service"
	StateDeparted          ActivityState = "departed"
)

// Activity is one patient's journey through the clinic.
type Activity struct {
	stream      string
	serviceMean float64
	nurse       *sim.Resource
	service     sim.Sampler
	log         *SampleLog

	state   ActivityState
	entered float64
}

// NewActivity creates a patient of the given stream. Service durations are
// drawn from service with mean serviceMean; the patient's wait is recorded
// in log when the nurse is granted.
func NewActivity(stream string, serviceMean float64, nurse *sim.Resource, service sim.Sampler, log *SampleLog) *Activity {
	return &Activity{
		stream:      stream,
		serviceMean: serviceMean,
		nurse:       nurse,
		service:     service,
		log:         log,
		state:       StateArrived,
	}
}

// State returns the patient's current state.
func (a *Activity) State() ActivityState { return a.state }

// Resume implements sim.Process.
func (a *Activity) Resume(p *sim.Proc, wake sim.Wake) (sim.Wait, error) {
	switch {
	case a.state == StateArrived && wake == sim.WakeStart:
		a.entered = p.Now()
		a.state = StateQueuedForResource
		return sim.Acquire(a.nurse), nil

	case a.state == StateQueuedForResource && wake == sim.WakeGranted:
		sample := QueuingSample{Stream: a.stream, Entered: a.entered, Left: p.Now()}
		a.log.Record(sample)
		a.state = StateInService
		d := a.service.Sample(a.serviceMean)
		logrus.Debugf("[t=%10.4f] %s waited %.4f, service %.4f", p.Now(), p, sample.Wait(), d)
		return sim.Timeout(d), nil

	case a.state == StateInService && wake == sim.WakeTimeout:
		if err := p.Release(a.nurse); err != nil {
			return sim.Wait{}, err
		}
		a.state = StateDeparted
		return sim.Done(), nil

	default:
		return sim.Wait{}, fmt.Errorf("activity %s: unexpected wake %s in state %s", p, wake, a.state)
	}
}
