// Package diagnostic provides the structured findings reported by the sanity
// checker and the loaders.
//
// Warnings never stop generation; they are collected and handed to the caller,
// which decides whether to show them first. Errors mark findings that make a
// document unusable.
package diagnostic
