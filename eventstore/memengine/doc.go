// Package memengine is an in-process event store with the same Query/Append contract as the
// SQL engines. A single lock serializes queries and appends, so the conditional append is exact.
// It backs unit tests and the lendingctl demo; its events are lost with the process.
package memengine
