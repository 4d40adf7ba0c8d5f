// Package firmware holds the catalog of interface boards and the firmware
// images that can be loaded on them.
//
// A firmware image fixes, for every physical pin of a board, which hardware
// component owns it (a Family) and which instance of that component. The
// number of components actually enabled is chosen per machine, so a Board
// value carries both the firmware maximum and the configured Counts; pins of
// disabled components fall back to general purpose I/O.
//
// Smart-serial daughter boards are described the same way with a fixed
// sixty entry sub-pin layout.
package firmware
