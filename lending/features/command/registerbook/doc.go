// Package registerbook implements the Register Book for Lending use case.
//
// A book has to be registered before it can be reserved, checked out or returned.
// Registering an already registered book is an idempotent no-op.
package registerbook
