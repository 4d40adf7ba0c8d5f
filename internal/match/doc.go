// Package match provides name normalization, edit distance and candidate
// ranking used to suggest known signal, board and daughter board names when
// an unknown one is given.
//
// Key functions:
//   - Normalize: folds a hal style name for fuzzy comparison
//   - Levenshtein: computes edit distance between strings
//   - Rank / Suggest: orders known names by similarity to a query
package match
