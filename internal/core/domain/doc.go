// Package domain contains the core business types for tellscan.
// It has no dependencies on adapters or infrastructure - pure types
// representing game evidence, trait catalogues, and profiling results.
package domain
