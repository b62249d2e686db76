// Package scalar defines the finite, range-checked value types shared by
// the Unresolved (hdm) and Resolved (mdm) demographic models: Time,
// DemeSize, MigrationRate, Proportion, CloningRate, SelfingRate, and
// GenerationTime.
//
// Each type wraps a float64 and validates its value at construction time.
// Construction is the only way to obtain one of these types from outside
// the package (no exported fields), so once a caller holds a scalar.Time
// or scalar.DemeSize, every downstream consumer can assume it is finite
// and within its permitted domain without re-checking. Arithmetic is not
// exposed on these types; they are value objects, not numeric types.
package scalar
