// Package sanity checks a finished machine configuration for combinations
// the hardware or the motion controller cannot work with.
//
// Every finding is a warning: generation is never blocked, the caller
// decides whether to show the list first.
package sanity
