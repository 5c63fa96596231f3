// Package finance derives every displayed financial figure from a snapshot of
// records: monthly totals, budget consumption, solvency, runway, per-category
// budget metrics, contact ledgers with settlement-period resets, settlement
// drafts and multi-month history.
//
// All functions are pure. They never fail, never mutate their inputs and
// return the same output for the same input, so they can be called
// concurrently against a shared snapshot without coordination. Missing or
// empty input degrades to zero values.
package finance
