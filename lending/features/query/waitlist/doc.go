// Package waitlist projects the reservation queue of one book in position order.
package waitlist
