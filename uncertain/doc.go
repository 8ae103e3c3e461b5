// Package uncertain implements numbers with an independent standard
// deviation and first-order error propagation.
//
// A Value is a nominal value with a standard deviation. A NaN standard
// deviation means the uncertainty is unknown; it propagates as NaN through
// every operation and is never coerced to zero.
//
// Propagation rules, assuming independent operands:
//
//	a ± b:  σ = sqrt(σa² + σb²)
//	a · k:  σ = sqrt((σa·k)² + (a·σk)²)
//	a / k:  σ = sqrt((σa/k)² + (a·σk/k²)²)
//
// Array stores a sequence of values as two parallel slices and applies the
// same rules element-wise using the algo-vecmath block kernels. Arrays are
// immutable: every constructor copies its input and every accessor returns a
// copy.
package uncertain
