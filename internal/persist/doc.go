// Package persist saves a machine configuration as a typed property document
// and restores it.
//
// A document is a flat list of records, each carrying a dotted name, a type
// tag and a value:
//
//	version: "1"
//	properties:
//	  - name: machine.name
//	    type: string
//	    value: mill
//	  - name: axis.x.maxvel
//	    type: float
//	    value: "25"
//	  - name: mesa0.c2.pin05.signal
//	    type: string
//	    value: x-encoder-a
//
// Derived values such as the stored scales are not written; they are
// recomputed from the transmission on demand.
package persist
