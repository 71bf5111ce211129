// Package sim provides the core discrete-event simulation engine for linesim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - scheduler.go: virtual clock, event queue, Advance/RunUntil loop
//   - process.go: cooperative processes and their two suspension points
//   - machine.go: the Up/Failed state machine and the per-machine failure monitor
//   - job.go: routing a job through its stages while machines fail underneath it
//   - simulator.go: wiring one replication together (RunSingle)
//
// # Execution Model
//
// Everything inside one replication runs on a single goroutine. A process never
// blocks; it hands the scheduler a continuation together with either a delay
// (Timeout) or a resource (Request). The scheduler resumes continuations in
// (due time, sequence number) order, so a fixed seed reproduces a run
// bit-for-bit.
//
// Engine invariant violations (negative delays, the clock moving backward,
// releasing a resource that is not held) abort the run. They surface from
// RunSingle as an *EngineError.
//
// # Sub-packages
//   - sim/workload: duration samplers, YAML scenario files, built-in presets
//   - sim/replication: seeded multi-replication runner and cross-replication summaries
//   - sim/trace: optional per-replication event trace
package sim
