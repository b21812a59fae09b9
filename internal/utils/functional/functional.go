package functional

// Map transforms every element of a slice through fn, preserving order.
func Map[T any, U any](slice []T, fn func(T) U) []U {
	result := make([]U, len(slice))
	for i, item := range slice {
		result[i] = fn(item)
	}
	return result
}

// ToSet builds a membership set from a slice of comparable values.
// Duplicates collapse to a single entry.
func ToSet[K comparable](slice []K) map[K]struct{} {
	set := make(map[K]struct{}, len(slice))
	for _, item := range slice {
		set[item] = struct{}{}
	}
	return set
}
