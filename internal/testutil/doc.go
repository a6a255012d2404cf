// Package testutil provides platform fixtures shared by tests.
//
// Every constructor returns a fresh value so tests may mutate the result.
package testutil
