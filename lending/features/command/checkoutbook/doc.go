// Package checkoutbook implements the Checkout Book use case.
//
// The decision spans the book's lending aggregate and the patron's open checkouts. When the
// patron is the head of the book's waitlist, the checkout and the fulfilled reservation are
// appended together, so a checkout can never leave a stale head behind.
package checkoutbook
