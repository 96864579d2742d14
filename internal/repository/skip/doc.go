// Package skip implements persistence for the "skip this version" operator
// preference.
//
// The FileRepository stores the skipped version as YAML on disk and exposes a
// Repository interface that the update decider depends on. The preference is
// mutated only between checks, by the CLI acting on the operator's behalf.
package skip
