// Package machine is the configuration model the resolver edits and the
// generators read: selected boards and parallel ports, the per-pin
// assignments, per-axis mechanics and tuning, and machine wide options.
//
// Pin assignments live in a single map keyed by Location so every pin of
// every board, smart-serial channel and parallel port is addressed the same
// way.
package machine
