// Package model defines the core data structures shared across the
// application: per-archive results, batch reports, processing statistics,
// and sidecar metadata.
//
// The model package has no dependencies on other internal packages so that
// it can be imported from anywhere without creating cycles.
package model
