// Package resolve applies single pin edits to a machine configuration and
// keeps multi-pin components consistent.
//
// Only the controlling pin of a component (encoder phase A, stepgen step,
// pwm pulse, ...) is edited directly. Its siblings receive the same base name
// with their own family ending. Selecting a board, component counts or a
// smart-serial daughter board rebuilds the affected pins from the firmware
// catalog.
package resolve
