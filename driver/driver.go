// Package driver implements initialization staging and the main
// discrete-event loop: it drives a *model.Model through its
// phased startup, then repeatedly pops the next simultaneous batch of
// events off the model's queue and applies the two-phase batch rule:
// every batched variable's own state transition first, then one level of
// observer propagation skipping in-batch observers, until the queue
// empties or the simulation horizon is reached. It owns no integration
// math itself; every state transition is delegated to package model,
// which in turn delegates to package kinds/zerocross.
package driver

import (
	"github.com/qss-go/qss/config"
	"github.com/qss-go/qss/model"
)

// OutputSink receives simulation samples: one at t0, one every cfg.DtOut
// (if positive) thereafter, and one final sample when the simulation
// stops. No sample is taken at handler firings. Horizon reached, queue
// empty, or fatal error all run this final-output hook exactly once before
// returning: at cfg.TEnd for the first two, at the failing event's time
// (t0 for a failed init stage) for a fatal error.
type OutputSink interface {
	Sample(t float64, m *model.Model)
}

// Simulate drives m from t0 through cfg.TEnd. It calls m.SetHorizon(cfg.TEnd)
// itself; the caller must have already finished building and finalizing m
// (model.Model.Finalize) before calling Simulate.
func Simulate(m *model.Model, cfg config.Config, t0 float64, sink OutputSink) error {
	m.SetHorizon(cfg.TEnd)

	if err := runInitStages(m, t0); err != nil {
		if sink != nil {
			sink.Sample(t0, m)
		}
		return err
	}

	if sink != nil {
		sink.Sample(t0, m)
	}

	nextOutput := t0
	if cfg.DtOut > 0 {
		nextOutput = t0 + cfg.DtOut
	}

	stopAt := cfg.TEnd
	for {
		_, qt, ok := m.Queue().Top()
		if !ok || qt > cfg.TEnd {
			break
		}

		if cfg.DtOut > 0 {
			for nextOutput <= qt {
				if sink != nil {
					sink.Sample(nextOutput, m)
				}
				nextOutput += cfg.DtOut
			}
		}

		if err := processBatch(m, qt); err != nil {
			if sink != nil {
				sink.Sample(qt, m)
			}
			return err
		}
	}

	if sink != nil {
		if cfg.DtOut > 0 {
			for nextOutput <= stopAt {
				sink.Sample(nextOutput, m)
				nextOutput += cfg.DtOut
			}
		}
		sink.Sample(stopAt, m)
	}
	return nil
}

// processBatch implements its simultaneous-event rule: pop every
// variable tied for the earliest queue time, apply each one's own state
// transition (a handler firing for a zero-crossing variable whose root
// time is binding, a requantization otherwise), and only once every
// batched variable's own transition has completed, propagate to each
// one's direct observers, skipping observers that are themselves in this
// same batch, since those will be refreshed by their own transition in
// the loop above rather than by a stale pre-transition propagation.
// Within the batch, every Requantization runs before any Handler firing,
// so a handler always sees the post-requantization polynomials of its
// batch-mates rather than a mix of pre- and post-transition state.
func processBatch(m *model.Model, t float64) error {
	popped := m.Queue().PopSimultaneous()
	batch := make([]model.VariableID, len(popped))
	for i, qid := range popped {
		batch[i] = model.VariableID(qid)
	}
	skip :=make(map[model.VariableID]bool, len(batch))
	for _, id := range batch {
		skip[id] = true
	}

	crossing := make(map[model.VariableID]bool, len(batch))
	for _, id := range batch {
		v, err := m.Variable(id)
		if err != nil {
			return err
		}
		crossing[id] = v.IsZeroCrossing() && v.TZ() <= v.TE()
	}

	for _, id := range batch {
		if crossing[id] {
			continue
		}
		if err := m.RequantizeVariable(id, t); err != nil {
			return err
		}
	}
	for _, id := range batch {
		if !crossing[id] {
			continue
		}
		if err := m.FireZeroCrossing(id, t); err != nil {
			return err
		}
	}

	for _, id := range batch {
		if err := m.PropagateObservers(id, t, skip); err != nil {
			return err
		}
	}
	return nil
}

// runInitStages drives every variable through init0, init1, init2, and
// init_event as four separate outer loops over the full variable set.
func runInitStages(m *model.Model, t0 float64) error {
	n := m.NumVariables()

	for id := 0; id < n; id++ {
		m.Init0(id, t0)
	}
	for id := 0; id < n; id++ {
		if err := m.Init1(id, t0); err != nil {
			return err
		}
	}
	for id := 0; id < n; id++ {
		if err := m.Init2(id, t0); err != nil {
			return err
		}
	}
	for id := 0; id < n; id++ {
		m.InitEvent(id)
	}
	return nil
}
