// Package gen renders a machine configuration into the files loaded by the
// machine-control runtime: the hal netlist, the ini parameter file and the
// user editable companions.
//
// Output is a pure function of the configuration. Two calls with equal
// configurations produce byte-identical files.
//
// Netlist layout:
//   - Header and component loads (loadrt)
//   - Thread functions (addf), ordered by data flow
//   - Charge pump, external outputs, external inputs
//   - One block per axis, then the spindle
//   - Trailer for spindle control, jogging, tool change and estop
package gen
