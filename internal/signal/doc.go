// Package signal holds the names that can be placed on pins.
//
// Built-in signals are grouped by kind (the class of pin they fit) and by a
// human readable category. Multi-pin components (encoders, stepgens, pwm
// generators, ...) are named by a base such as "x-encoder"; the name carried by
// each pin is the base plus the pin family ending ("x-encoder-a",
// "x-encoder-b", ...).
//
// A Namespace also records custom names created while editing. It is owned by
// one configuration: Reset drops the custom names when a new configuration
// replaces the old one.
package signal
