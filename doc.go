// Package qss is a Quantized State System (QSS) integrator core: a
// discrete-event alternative to time-stepped ODE solving, where each state
// variable advances on its own schedule and requantizes only when its
// trajectory has drifted past an error bound, rather than every variable
// being resampled on a shared fixed or adaptive time step.
//
// The package is organized the way the integrator's own data flow is
// organized:
//
//	numeric/    — polynomial evaluation and closed-form/companion-matrix root solvers
//	kinds/      — per-method (QSS1-3, LIQSS1-2, Discrete, Input, zero-crossing) state transitions
//	queue/      — the global event queue ordering every variable's next event
//	zerocross/  — root isolation, crossing classification, and handler dispatch
//	model/      — the Variable/Model arena: identity, observer/observee wiring, builder API
//	driver/     — initialization staging and the main simultaneous-event loop
//	config/     — functional-options simulation configuration
//	examples/   — demonstration models exercised by cmd/qss-demo and the driver tests
//
// See SPEC_FULL.md and DESIGN.md for the full specification and the
// grounding ledger tying each package back to its design rationale.
package qss
