// Package testingx provides helpers for use with the testing package.
package testingx

import (
	"errors"
	"testing"
)

// Must wraps a (value, error) returning call in test setup code that is
// presumed to succeed, failing the test on error.
//
// Not meant for checking the behavior under test: the failure message says
// nothing about what went wrong beyond the error itself.
//
//	mustMap := testingx.Must[*sourcemap.SourceMap](t)
//	sm := mustMap(sourcemap.FromBuffer(buf))
func Must[T any](t testing.TB) func(v T, err error) T {
	return func(v T, err error) T {
		t.Helper()
		if err != nil {
			t.Fatalf("Got: unexpected error: %s. Want: no error.", err)
		}
		return v
	}
}

// NoError is Must for calls that return only an error.
func NoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Got: unexpected error: %s. Want: no error.", err)
	}
}

// WantError fails the test unless err matches target according to errors.Is.
func WantError(t testing.TB, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("Got: error %v. Want: %v.", err, target)
	}
}
