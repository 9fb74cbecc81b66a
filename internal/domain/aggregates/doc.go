// Package aggregates defines domain-facing aggregate contracts.
//
// Contracts avoid persistence and transport details and describe the write
// boundaries where roadmap tree invariants are enforced atomically.
package aggregates
