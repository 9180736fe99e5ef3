// Package scoring holds the control risk score engine and the probability x impact risk
// level matrix. The threshold tables in this package are the only place where score and
// level bands are defined; HTTP handlers, summaries, alerts and the CLI all classify
// through these functions.
//
// Every function is pure and total: out-of-range inputs are clamped instead of rejected.
package scoring
