// Package memotest provides a reusable contract suite for memo.Store
// implementations. Driver packages and integration tests run the same
// checks so every backend honors identical (scope, key) semantics.
package memotest
