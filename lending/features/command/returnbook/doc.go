// Package returnbook implements the Return Book use case: the open checkout of a patron is
// closed and its fees are fixed from the loan policy in force at the time of the return.
package returnbook
