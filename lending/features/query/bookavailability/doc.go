// Package bookavailability answers whether a registered book can be checked out right now.
// It is the lending engine's view of the catalog: title and availability of one book.
package bookavailability
