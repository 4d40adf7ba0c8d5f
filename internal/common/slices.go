package common

// IsEmpty returns true if the slice is empty.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// IsInRange checks if a value is within the specified range, both inclusive.
func IsInRange[T ~int | ~int64 | ~float64](low, value, high T) bool {
	return low <= value && value <= high
}
