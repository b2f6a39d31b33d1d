// Package core is the pure part of the lending engine: domain events, the loan policy,
// fee computation, ISBN validation, the per-book waitlist and the projections the
// command Decide functions are built on.
//
// Nothing in this package does I/O. A book's lending state is never stored as such,
// it is projected from the book's events every time a decision is made (see ProjectBookLending).
package core
