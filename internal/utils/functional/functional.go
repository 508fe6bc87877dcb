// Package functional holds small generic slice helpers used when
// reshaping API payloads.
package functional

// Map transforms each element of in through fn.
func Map[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

// Filter keeps the elements of in for which keep returns true. The
// result is never nil so it marshals as an empty JSON array.
func Filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
