// Package registerpatron implements the Register Patron for Lending use case.
// Re-registering a patron is an idempotent no-op.
package registerpatron
