// Package store provides SQLite-backed storage for the reading list.
//
// The store holds feature data only. Snapshots produced by the runtime
// are never persisted.
//
// # Patterns
//
// Content-addressed identity
//   - Article IDs are ir.ArticleID(url), so saving a URL twice is a no-op
//
// Logical ordering
//   - Rows carry a seq INTEGER assigned on insert, NEVER timestamps
//   - Lists use ORDER BY seq ASC, id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
