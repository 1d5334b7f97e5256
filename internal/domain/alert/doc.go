// Package alert contains the pure alert-eligibility decision.
//
// Evaluate takes the windowed average temperature together with threshold,
// cooldown and night-mode settings and produces a Verdict. It performs no I/O;
// the caller is responsible for broadcasting and for recording the alert
// exactly when ShouldAlert is true.
package alert
