// Package scale converts an axis drive train into the scales used by the
// stepgen and encoder components: steps per machine unit, counts per machine
// unit, and the fastest step rate the axis will ask for.
//
// Arithmetic is done on decimals so the same inputs always print the same
// digits.
package scale
