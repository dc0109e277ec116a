// Package worker provides parallel batch validation.
//
// Validation is read-only on the registry, so any number of workers may
// validate against the same schema concurrently as long as no compile runs
// at the same time. The pool exploits exactly that: it fans a batch of
// documents out over a fixed number of goroutines.
package worker
