// Package history persists the outcome of render runs and video assemblies
// in a SQLite database under the log directory, so past batches can be
// inspected after the fact.
package history
