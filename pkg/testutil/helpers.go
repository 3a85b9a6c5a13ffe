// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"testing"
)

// FindByName finds the first item whose name matches in the slice.
// Returns a pointer to the item if found, nil otherwise.
func FindByName[T any](items []T, nameOf func(T) string, name string) *T {
	for i := range items {
		if nameOf(items[i]) == name {
			return &items[i]
		}
	}
	return nil
}

// AssertClose fails the test when got differs from want by more than tolerance.
func AssertClose(t testing.TB, label string, got, want, tolerance float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("%s = %.6f, expected %.6f (tolerance %.6f)", label, got, want, tolerance)
	}
}
