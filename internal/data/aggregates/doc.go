// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Implementations in this package compose table-level repos from internal/data/repos,
// hand loaded snapshots to the pure planners in internal/modules/roadmap, and own the
// transaction boundary that persists the resulting mutation batch.
package aggregates
