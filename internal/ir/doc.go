// Package ir provides the canonical value model used for traces and
// content-addressed identifiers.
//
// ir imports nothing internal; the harness, store and reading packages
// build on it.
//
// Key design constraints:
//   - NO float types anywhere; numbers are int64
//   - NO null; absent data is an absent key
//   - Canonical output is byte-stable across runs and platforms
package ir
