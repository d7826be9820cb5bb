// Package util holds small generic helpers.
package util

// Ptr returns a pointer to v, for optional (nullable) record fields.
func Ptr[T any](v T) *T {
	return &v
}
