// Package reservebook implements the Reserve Book use case: a patron joins the waitlist of a
// book that is currently checked out.
//
// The book's waitlist, its open checkout and its registration are decided on together, so the
// position handed out is unique even when patrons reserve at the same time.
package reservebook
