// Package cancelreservation implements the Cancel Reservation use case: a patron leaves the
// waitlist of a book. Positions of the remaining entries do not change.
package cancelreservation
